package cli

import (
	"github.com/spf13/cobra"
)

// NewResolveCmd создаёт команду разрешения context-URI.
func NewResolveCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve URI...",
		Short: "Resolve context URIs (persona://, memory://, workspace://)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			result, err := client.Resolve(args)
			if err != nil {
				return err
			}

			headers := []string{"URI", "KIND", "CONTENT"}
			rows := make([][]string, len(result.Items))
			for i, item := range result.Items {
				rows[i] = []string{item.URI, item.Kind, item.Content}
			}

			out.Print(headers, rows, result)

			for _, e := range result.Errors {
				out.Error(e)
			}
			return nil
		},
	}
}
