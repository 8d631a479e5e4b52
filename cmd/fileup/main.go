package main

import (
	"os"

	cliruntime "github.com/tomasbasham/cli-runtime"

	"github.com/semmidev/fileup/internal/cli"
)

func main() {
	command := cli.NewRootCommand()
	if code := cliruntime.Run(command); code != 0 {
		os.Exit(code)
	}
}
