package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-tetris/internal/registry"
)

var scenesCmd = &cobra.Command{
	Use:   "scenes",
	Short: "List all registered scenes",
	Long:  `Shows the scenes the game is built from. The entry scene is started first.`,
	Args:  cobra.NoArgs,
	Run:   runScenes,
}

func runScenes(cmd *cobra.Command, args []string) {
	scenes := registry.List()

	if len(scenes) == 0 {
		fmt.Println("No scenes registered.")
		return
	}

	// Calculate column widths
	maxNameLen := 4 // "Name" header
	for _, s := range scenes {
		if len(s.Name) > maxNameLen {
			maxNameLen = len(s.Name)
		}
	}

	fmt.Printf("  %-*s  %-5s  %s\n", maxNameLen, "Name", "Entry", "Title")
	fmt.Printf("  %-*s  %-5s  %s\n", maxNameLen, "----", "-----", "-----")

	for _, s := range scenes {
		entry := ""
		if s.Entry {
			entry = "*"
		}
		fmt.Printf("  %-*s  %-5s  %s\n", maxNameLen, s.Name, entry, s.Title)
	}
}
