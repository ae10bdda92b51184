package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/handbeat/internal/registry"
)

var backendsCmd = &cobra.Command{
	Use:   "backends",
	Short: "List hand tracking backends",
	Long:  `Shows every hand tracking backend compiled into handbeat.`,
	Run:   runBackends,
}

func runBackends(_ *cobra.Command, _ []string) {
	backends := registry.List()

	if len(backends) == 0 {
		fmt.Println("No backends available.")
		return
	}

	fmt.Println("Available backends:")
	fmt.Println()

	maxNameLen := 4 // "Name" header
	for _, b := range backends {
		maxNameLen = max(maxNameLen, len(b.Name))
	}

	fmt.Printf("  %-*s  %s\n", maxNameLen, "Name", "Description")
	fmt.Printf("  %-*s  %s\n", maxNameLen, "----", "-----------")
	for _, b := range backends {
		fmt.Printf("  %-*s  %s\n", maxNameLen, b.Name, b.Description)
	}

	fmt.Println()
	fmt.Println("Run 'handbeat play <chart> --backend <name>' to use one.")
}
