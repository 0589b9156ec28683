package main

import (
	"os"

	"github.com/knhuang/robotaxi-safety-tracker/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
