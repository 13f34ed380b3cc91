package main

import (
	"os"

	"github.com/GRAYgoose124/vulqueno/cmd/vulqueno/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
