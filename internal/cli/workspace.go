package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewWorkspaceCmd создаёт группу команд для управления workspaces.
func NewWorkspaceCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "workspace",
		Aliases: []string{"ws"},
		Short:   "Manage devspaces",
	}

	cmd.AddCommand(
		newWorkspaceListCmd(clientFn, outputFn),
		newWorkspaceAddCmd(clientFn, outputFn),
		newWorkspaceStatusCmd(clientFn, outputFn),
		newWorkspaceBindCmd(clientFn, outputFn),
		newWorkspaceMaterializeCmd(clientFn, outputFn),
		newWorkspaceDeleteCmd(clientFn, outputFn),
	)

	return cmd
}

func newWorkspaceListCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered workspaces",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			workspaces, err := client.ListWorkspaces()
			if err != nil {
				return err
			}

			headers := []string{"ID", "NAME", "PATH", "PERSON", "CREATED"}
			rows := make([][]string, len(workspaces))
			for i, ws := range workspaces {
				person := ws.PersonID
				if person == "" {
					person = "-"
				}
				rows[i] = []string{ws.ID, ws.Name, ws.Path, person, ws.CreatedAt}
			}

			out.Print(headers, rows, workspaces)
			return nil
		},
	}
}

func newWorkspaceAddCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var name, path string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a workspace directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			ws, err := client.CreateWorkspace(CreateWorkspaceRequest{Name: name, Path: path})
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Workspace registered: %s", ws.ID))
			out.Print(
				[]string{"ID", "NAME", "PATH", "REPO"},
				[][]string{{ws.ID, ws.Name, ws.Path, ws.RepoURL}},
				ws,
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Workspace name (required)")
	cmd.Flags().StringVar(&path, "path", "", "Absolute path to the git working directory (required)")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("path")

	return cmd
}

func newWorkspaceStatusCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "status ID",
		Short: "Show workspace git status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			status, err := client.GetWorkspaceStatus(args[0])
			if err != nil {
				return err
			}

			out.Print(
				[]string{"BRANCH", "HEAD", "DIRTY"},
				[][]string{{status.Branch, status.Head, fmt.Sprintf("%t", status.Dirty)}},
				status,
			)
			return nil
		},
	}
}

func newWorkspaceBindCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var personID string

	cmd := &cobra.Command{
		Use:   "bind ID",
		Short: "Bind a persona to a workspace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			ws, err := client.BindWorkspace(args[0], personID)
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Workspace %s bound to persona %s", ws.Name, ws.PersonID))
			return nil
		},
	}

	cmd.Flags().StringVar(&personID, "person", "", "Persona ID (required)")
	cmd.MarkFlagRequired("person")

	return cmd
}

func newWorkspaceMaterializeCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "materialize ID",
		Short: "Regenerate PERSONA.md in the workspace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			if err := client.MaterializeWorkspace(args[0]); err != nil {
				return err
			}

			out.Success("PERSONA.md regenerated")
			return nil
		},
	}
}

func newWorkspaceDeleteCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Unregister a workspace (files are left on disk)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			if err := client.DeleteWorkspace(args[0]); err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Workspace deleted: %s", args[0]))
			return nil
		},
	}
}
