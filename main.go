package main

import (
	"os"

	"github.com/tphakala/weatherboard/cmd"
)

func main() {
	if err := cmd.RootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
