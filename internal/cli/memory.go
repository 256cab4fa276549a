package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// NewMemoryCmd создаёт группу команд для управления воспоминаниями.
func NewMemoryCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "memory",
		Short: "Manage persona memories",
	}

	cmd.AddCommand(
		newMemoryListCmd(clientFn, outputFn),
		newMemoryAddCmd(clientFn, outputFn),
		newMemoryTouchCmd(clientFn, outputFn),
		newMemoryDeleteCmd(clientFn, outputFn),
	)

	return cmd
}

func newMemoryListCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "list PERSON_ID",
		Short: "List persona memories, most relevant first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			memories, err := client.ListMemories(args[0])
			if err != nil {
				return err
			}

			headers := []string{"ID", "KIND", "RELEVANCE", "PINNED", "CONTENT"}
			rows := make([][]string, len(memories))
			for i, m := range memories {
				rows[i] = []string{
					m.ID,
					m.Kind,
					strconv.FormatFloat(m.Relevance, 'f', 2, 64),
					strconv.FormatBool(m.Pinned),
					truncate(m.Content, 60),
				}
			}

			out.Print(headers, rows, memories)
			return nil
		},
	}
}

func newMemoryAddCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var kind, content string
	var halfLife float64
	var pinned bool

	cmd := &cobra.Command{
		Use:   "add PERSON_ID",
		Short: "Add a memory to a persona",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			m, err := client.CreateMemory(args[0], CreateMemoryRequest{
				Kind:         kind,
				Content:      content,
				HalfLifeDays: halfLife,
				Pinned:       pinned,
			})
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Memory added: %s", m.ID))
			out.Print(
				[]string{"ID", "KIND", "RELEVANCE", "PINNED"},
				[][]string{{m.ID, m.Kind, strconv.FormatFloat(m.Relevance, 'f', 2, 64), strconv.FormatBool(m.Pinned)}},
				m,
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "fact", "Memory kind (episode, fact, preference)")
	cmd.Flags().StringVar(&content, "content", "", "Memory text (required)")
	cmd.Flags().Float64Var(&halfLife, "half-life", 0, "Half-life in days (default: server default)")
	cmd.Flags().BoolVar(&pinned, "pinned", false, "Pinned memories never decay")
	cmd.MarkFlagRequired("content")

	return cmd
}

func newMemoryTouchCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "touch ID",
		Short: "Mark a memory as accessed (resets relevance)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			m, err := client.TouchMemory(args[0])
			if err != nil {
				return err
			}

			out.Success("Memory touched")
			out.Print(
				[]string{"ID", "RELEVANCE", "LAST_ACCESSED"},
				[][]string{{m.ID, strconv.FormatFloat(m.Relevance, 'f', 2, 64), m.LastAccessedAt}},
				m,
			)
			return nil
		},
	}
}

func newMemoryDeleteCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a memory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			if err := client.DeleteMemory(args[0]); err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Memory deleted: %s", args[0]))
			return nil
		},
	}
}
