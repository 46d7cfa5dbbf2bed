// SPDX-License-Identifier: MIT

// Command oed computes Fisher information matrices, factorial scans and
// optimal designs for the reference batch reactor.
//
// Usage:
//
//	oed fim --config oed.yaml
//	oed factorial --config oed.yaml
//	oed optimize --config oed.yaml
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
