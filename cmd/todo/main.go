package main

import (
	"context"
	"os"

	"todo-cli/internal/cli"
)

func main() {
	cmd := cli.NewRootCmd()
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(cli.ExitCode(err))
	}
}
