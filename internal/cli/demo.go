package cli

import (
	"github.com/spf13/cobra"

	"task-list/internal/tasks"
)

// demoScript — пример сессии: два дела, отметка, правка, очистка выполненных.
var demoScript = []string{
	"add 2025-03-01 Complete TypeScript module",
	"add 2025-03-05 Start a new book",
	"list",
	"done 1",
	"list",
	"edit 2 Read two different books",
	"list",
	"clear",
	"list",
}

func demoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Replay a short example session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			useColor, err := colorEnabled(cmd)
			if err != nil {
				return err
			}
			runScript(NewSession(tasks.NewRegistry(), cmd.OutOrStdout(), useColor), demoScript)
			return nil
		},
	}
}

func runScript(s *Session, lines []string) {
	for _, line := range lines {
		if !s.Exec(line) {
			return
		}
	}
}
