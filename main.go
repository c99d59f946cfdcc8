package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"reportservice/internal/cli"
)

func main() {
	// Cancela o contexto em SIGINT/SIGTERM para encerramento gracioso.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "erro: %v\n", err)
		stop()
		os.Exit(1)
	}
}
