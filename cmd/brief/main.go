package main

import (
	"os"

	"github.com/lunagic/brief/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
