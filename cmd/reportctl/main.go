package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	pkgerrors "github.com/angelmondragon/routes-report/pkg/errors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand(defaultServiceFactory).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "reportctl:", err)
		if pkgerrors.IsRetryable(err) {
			fmt.Fprintln(os.Stderr, "reportctl: the report source may be temporarily unavailable, try again")
		}
		stop()
		os.Exit(1)
	}
}
