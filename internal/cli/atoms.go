package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/velichkin/persona/internal/atoms"
	"github.com/velichkin/persona/internal/domain"
)

// NewAtomsCmd создаёт группу команд для работы с определениями атомов.
// Команды работают локально с файлами, без обращения к API.
func NewAtomsCmd(outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "atoms",
		Short: "Validate and inspect atom definition files",
	}

	cmd.AddCommand(
		newAtomsValidateCmd(outputFn),
		newAtomsListCmd(outputFn),
	)

	return cmd
}

func newAtomsValidateCmd(outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "validate PATH",
		Short: "Validate a definitions file or directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()

			set, err := loadDefinitions(args[0])
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf(
				"OK: %d atoms, %d quirks, %d phrases",
				len(set.Atoms), len(set.Quirks), len(set.Phrases),
			))
			return nil
		},
	}
}

func newAtomsListCmd(outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "list PATH",
		Short: "List atom targets defined in a file or directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()

			set, err := loadDefinitions(args[0])
			if err != nil {
				return err
			}

			headers := []string{"TARGET", "RULES", "DESCRIPTION"}
			rows := make([][]string, len(set.Atoms))
			for i := range set.Atoms {
				atom := &set.Atoms[i]
				rows[i] = []string{
					atom.Target(),
					strconv.Itoa(len(atom.Rules)),
					truncate(atom.Description, 60),
				}
			}

			out.Print(headers, rows, set)
			return nil
		},
	}
}

// loadDefinitions загружает определения из каталога или одиночного файла.
func loadDefinitions(path string) (*domain.AtomSet, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	if info.IsDir() {
		return atoms.LoadDir(path)
	}

	if !strings.HasSuffix(path, ".toml") {
		return nil, fmt.Errorf("%s: not a .toml file", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return atoms.Load(path, data)
}
