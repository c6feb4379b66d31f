// Command safeharbor-scan analyzes text from the command line
package main

import (
	"context"
	"os"
	"os/signal"

	"safeharbor/internal/cli"
	"safeharbor/internal/platform/config"
	"safeharbor/internal/platform/logger"
)

func main() {
	_ = config.LoadDotenv()

	logger.Init(logger.ForCLI())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	code := cli.Execute(ctx, os.Stdin, os.Stdout, os.Stderr, os.Args[1:])
	stop()
	os.Exit(code)
}
