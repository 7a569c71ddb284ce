package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/lockrush/internal/registry"
)

var enginesCmd = &cobra.Command{
	Use:   "engines",
	Short: "List available simulation engines",
	Long:  `Shows the simulation engines compiled into lockrush.`,
	Run:   runEngines,
}

func runEngines(_ *cobra.Command, _ []string) {
	engines := registry.List()

	if len(engines) == 0 {
		fmt.Println("No engines available.")
		return
	}

	fmt.Println("Available engines:")
	fmt.Println()

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, e := range engines {
		if len(e.ID) > maxIDLen {
			maxIDLen = len(e.ID)
		}
	}

	fmt.Printf("  %-*s  %s\n", maxIDLen, "ID", "Title")
	fmt.Printf("  %-*s  %s\n", maxIDLen, "--", "-----")

	for _, e := range engines {
		marker := ""
		if e.ID == registry.DefaultEngine {
			marker = " (default)"
		}
		fmt.Printf("  %-*s  %s%s\n", maxIDLen, e.ID, e.Title, marker)
	}

	fmt.Println()
	fmt.Println("Run 'lockrush play --engine <id>' to use one.")
}
