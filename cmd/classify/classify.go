// Package classify contains a utility command that runs the classifier on a
// description from the command line, useful for checking taxonomy coverage.
package classify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hornerito/internal/config"
	"hornerito/internal/container"

	"github.com/spf13/cobra"
)

// Cmd is the classify command.
var Cmd = &cobra.Command{
	Use:   "classify [description]",
	Short: "Classify an expense description and print the category.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  run,
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Initialize()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	c, err := container.NewContainer(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	text := strings.Join(args, " ")
	result := c.GetClassifier().Classify(ctx, text)
	fmt.Printf("%s -> %s\n", text, result.String())
	return nil
}
