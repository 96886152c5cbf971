// daylog: a personal day planner with an MCP agent interface.
//
// Usage:
//
//	daylog serve            # Start MCP server (stdio transport)
//	daylog todo add "..."   # Add a todo for today
//	daylog stats            # Counters and streak
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/daylog-app/daylog/internal/cli"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := cli.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		cancel()
		os.Exit(1)
	}
}
