package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// NewPersonCmd создаёт группу команд для управления персонами.
func NewPersonCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "person",
		Short: "Manage personas",
	}

	cmd.AddCommand(
		newPersonListCmd(clientFn, outputFn),
		newPersonCreateCmd(clientFn, outputFn),
		newPersonShowCmd(clientFn, outputFn),
		newPersonDeleteCmd(clientFn, outputFn),
		newPersonComputeCmd(clientFn, outputFn),
		newPersonProfileCmd(clientFn, outputFn),
	)

	return cmd
}

func newPersonListCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all personas",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			persons, err := client.ListPersons()
			if err != nil {
				return err
			}

			headers := []string{"ID", "NAME", "ANCHORS", "QUIRKS", "CREATED"}
			rows := make([][]string, len(persons))
			for i, p := range persons {
				rows[i] = []string{
					p.ID,
					p.Name,
					strconv.Itoa(len(p.Anchors)),
					strconv.Itoa(len(p.Quirks)),
					p.CreatedAt,
				}
			}

			out.Print(headers, rows, persons)
			return nil
		},
	}
}

func newPersonCreateCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var name, description string
	var anchors, quirks []string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new persona",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			req := CreatePersonRequest{
				Name:        name,
				Description: description,
				Quirks:      quirks,
			}

			if len(anchors) > 0 {
				req.Anchors = make(map[string]float64, len(anchors))
				for _, a := range anchors {
					target, raw, ok := strings.Cut(a, "=")
					if !ok {
						return fmt.Errorf("invalid anchor %q, want target=value", a)
					}
					value, err := strconv.ParseFloat(raw, 64)
					if err != nil {
						return fmt.Errorf("invalid anchor value in %q", a)
					}
					req.Anchors[target] = value
				}
			}

			person, err := client.CreatePerson(req)
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Persona created: %s", person.ID))
			out.Print(
				[]string{"ID", "NAME", "CREATED"},
				[][]string{{person.ID, person.Name, person.CreatedAt}},
				person,
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Persona name (required)")
	cmd.Flags().StringVar(&description, "description", "", "Free-form description")
	cmd.Flags().StringArrayVar(&anchors, "anchor", nil, "Anchor value, target=number (repeatable)")
	cmd.Flags().StringArrayVar(&quirks, "quirk", nil, "Explicit quirk key (repeatable)")
	cmd.MarkFlagRequired("name")

	return cmd
}

func newPersonShowCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show persona details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			person, err := client.GetPerson(args[0])
			if err != nil {
				return err
			}

			headers := []string{"FIELD", "VALUE"}
			rows := [][]string{
				{"id", person.ID},
				{"name", person.Name},
				{"description", person.Description},
				{"quirks", strings.Join(person.Quirks, ", ")},
				{"created", person.CreatedAt},
			}
			for target, value := range person.Anchors {
				rows = append(rows, []string{"anchor " + target, Score(value)})
			}

			out.Print(headers, rows, person)
			return nil
		},
	}
}

func newPersonDeleteCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a persona",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			if err := client.DeletePerson(args[0]); err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Persona deleted: %s", args[0]))
			return nil
		},
	}
}

func newPersonComputeCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var policy string

	cmd := &cobra.Command{
		Use:   "compute ID",
		Short: "Recompute persona profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			result, err := client.ComputePerson(args[0], policy)
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Profile computed (policy: %s)", result.Policy))
			printProfile(out, result.Profile, result)
			return nil
		},
	}

	cmd.Flags().StringVar(&policy, "policy", "", "Anchor policy: add-rule-delta (default) or replace-with-anchor")

	return cmd
}

func newPersonProfileCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "profile ID",
		Short: "Show the last computed profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			profile, err := client.GetProfile(args[0])
			if err != nil {
				return err
			}

			printProfile(out, profile, profile)
			return nil
		},
	}
}

// printProfile выводит профиль таблицей target → value.
func printProfile(out *Output, profile *ProfileResponse, jsonData any) {
	headers := []string{"TARGET", "VALUE"}
	var rows [][]string

	appendSection := func(namespace string, values map[string]float64) {
		for key, value := range values {
			rows = append(rows, []string{
				namespace + "." + key,
				Score(value),
			})
		}
	}
	appendSection("trait", profile.Traits)
	appendSection("skill", profile.Skills)
	appendSection("exp", profile.Experience)
	appendSection("stack", profile.Stacks)

	for _, q := range profile.Quirks {
		rows = append(rows, []string{"quirk", q})
	}

	out.Print(headers, rows, jsonData)
}
