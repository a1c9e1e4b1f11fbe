package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/simonhull/plover/internal/commands"
	"github.com/simonhull/plover/output"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := commands.RootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// Failed actions were already reported line by line.
		if !errors.Is(err, commands.ErrActionsFailed) {
			output.Error(err.Error())
		}
		stop()
		os.Exit(1)
	}
}
