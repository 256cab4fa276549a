// Persona CLI — инструмент командной строки для управления
// персонами, воспоминаниями и workspaces через HTTP API.
//
// Использование:
//
//	persona [--api-url URL] [--json] <command> <subcommand> [flags]
//
// Команды:
//
//	person     Управление персонами (включая compute)
//	memory     Управление воспоминаниями
//	workspace  Управление workspaces
//	resolve    Разрешение context-URI
//	atoms      Локальная валидация определений атомов
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/velichkin/persona/internal/cli"
)

// version задаётся через ldflags при сборке.
var version = "dev"

func main() {
	var apiURL string
	var jsonOutput bool

	rootCmd := &cobra.Command{
		Use:           "persona",
		Short:         "Persona CLI — AI persona management tool",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "http://localhost:8080", "API server URL")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	clientFn := func() *cli.Client { return cli.NewClient(apiURL) }
	outputFn := func() *cli.Output { return cli.NewOutput(jsonOutput) }

	rootCmd.AddCommand(
		cli.NewPersonCmd(clientFn, outputFn),
		cli.NewMemoryCmd(clientFn, outputFn),
		cli.NewWorkspaceCmd(clientFn, outputFn),
		cli.NewResolveCmd(clientFn, outputFn),
		cli.NewAtomsCmd(outputFn),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
