// ABOUTME: Entry point for the autoclick CLI
// ABOUTME: Terminal dashboard and headless commands for monitoring a remote game bot

package main

import (
	"fmt"
	"os"

	"github.com/markalston/autoclick-dashboard/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
