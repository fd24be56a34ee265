package main

import (
	"context"
	"os"

	"github.com/rundeck/rundeck-cli/internal/cmd"
)

// Indirections for testing.
var (
	executeCmd  = cmd.Execute
	mapExitCode = cmd.ExitCode
	terminate   = os.Exit
)

func run(args []string) int {
	err := executeCmd(context.Background(), args)
	if err == nil {
		return 0
	}
	return mapExitCode(err)
}

func main() {
	terminate(run(os.Args[1:]))
}
