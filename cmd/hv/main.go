package main

import (
	"os"

	"github.com/hvacdesk/hv/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
