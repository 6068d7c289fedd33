package main

import (
	"os"

	"github.com/newsroom/stylize/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
