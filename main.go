package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ivanvallejoss/smartexpense/cmd/batch"
	"github.com/ivanvallejoss/smartexpense/cmd/categories"
	"github.com/ivanvallejoss/smartexpense/cmd/confirm"
	"github.com/ivanvallejoss/smartexpense/cmd/feedback"
	"github.com/ivanvallejoss/smartexpense/cmd/ingest"
	"github.com/ivanvallejoss/smartexpense/cmd/parse"
	"github.com/ivanvallejoss/smartexpense/cmd/root"
	"github.com/ivanvallejoss/smartexpense/cmd/stats"
	"github.com/ivanvallejoss/smartexpense/cmd/suggest"
	"github.com/ivanvallejoss/smartexpense/cmd/summary"
)

func init() {
	root.Init()

	root.Cmd.AddCommand(parse.Cmd)
	root.Cmd.AddCommand(suggest.Cmd)
	root.Cmd.AddCommand(ingest.Cmd)
	root.Cmd.AddCommand(confirm.Cmd)
	root.Cmd.AddCommand(batch.Cmd)
	root.Cmd.AddCommand(categories.Cmd)
	root.Cmd.AddCommand(feedback.Cmd)
	root.Cmd.AddCommand(stats.Cmd)
	root.Cmd.AddCommand(summary.Cmd)
}

func main() {
	// Interrupting a batch run reports the remaining rows as failed.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.Cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
