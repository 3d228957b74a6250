package main

import (
	"os"

	"github.com/dmaryin/interview-coach/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
