package main

import (
	"os"

	"github.com/shirry/webserver/cmd"
)

func main() {
	if err := cmd.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
