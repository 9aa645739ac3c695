// Package cli — командная строка поверх реестра задач.
package cli

import (
	"fmt"
	"os"

	"task-list/internal/config"
	"task-list/internal/tasks"

	"github.com/spf13/cobra"
)

var (
	configPath string
	color      bool
)

// NewRootCmd собирает дерево команд. По умолчанию запускается shell.
func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tasks",
		Short: "In-memory task list",
		Long: `tasks keeps a list of to-do items for the lifetime of the process.

Tasks have a description, a completion flag and a deadline. Nothing is saved on exit.`,
		Version:       version,
		RunE:          runShell,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().BoolVar(&color, "color", false, "Colorize status labels")

	rootCmd.AddCommand(shellCmd())
	rootCmd.AddCommand(demoCmd())
	return rootCmd
}

// Execute запускает CLI.
func Execute(version string) error {
	if err := NewRootCmd(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func shellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive session (default)",
		Args:  cobra.NoArgs,
		RunE:  runShell,
	}
}

func runShell(cmd *cobra.Command, args []string) error {
	useColor, err := colorEnabled(cmd)
	if err != nil {
		return err
	}

	s := NewSession(tasks.NewRegistry(), cmd.OutOrStdout(), useColor)
	s.prompt = "> "
	fmt.Fprintln(cmd.OutOrStdout(), `Type "help" for commands.`)
	return s.Run(cmd.InOrStdin())
}

// colorEnabled: флаг --color побеждает, иначе берём color из конфига/окружения.
func colorEnabled(cmd *cobra.Command) (bool, error) {
	if cmd.Flags().Changed("color") {
		return color, nil
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return false, err
	}
	return cfg.Color, nil
}
