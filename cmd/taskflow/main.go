package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/matzehuels/taskflow/internal/cli"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	c := cli.New(os.Stderr, cli.LogInfo)
	err := c.RootCommand().ExecuteContext(ctx)

	code := cli.ExitCode(err)
	if code != 0 && code != cli.ExitCancelled {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	cancel()
	os.Exit(code)
}
