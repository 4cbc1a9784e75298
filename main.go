package main

import (
	"os"

	"github.com/mempalace/mempalace/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
