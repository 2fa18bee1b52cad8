// Package root contains the root command for the application.
package root

import (
	"fmt"

	"hornerito/internal/config"

	"github.com/spf13/cobra"
)

var (
	// Cmd is the root command.
	Cmd = &cobra.Command{
		Use:   "hornerito",
		Short: "A Telegram chatbot that tracks expenses from free-text messages.",
		Long: `hornerito is a personal-finance Telegram chatbot. Users type free-text
expense descriptions ("30 on food"); the bot parses the amount, classifies
the expense into a category taxonomy, persists it, and replies with inline
controls to edit, delete, and view. A companion read-only dashboard API
serves the stored rows.`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("Welcome to hornerito!")
			fmt.Println("Use --help to see available commands")
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadEnv()
		},
	}
)
