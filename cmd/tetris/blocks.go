package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-tetris/internal/config"
	"github.com/vovakirdan/tui-tetris/internal/games/tetris"
)

var blocksCmd = &cobra.Command{
	Use:   "blocks",
	Short: "Inspect block definitions",
	Long: `Block definitions are read from --blocks, then
~/.tetris/configs/blocks.yaml, then ./configs/blocks.yaml, then the
built-in set.

Examples:
  tetris blocks list
  tetris blocks check ./my-blocks.yaml
  tetris blocks fmt ./my-blocks.yaml > blocks.yaml
  tetris blocks fmt --default`,
}

var blocksListCmd = &cobra.Command{
	Use:   "list [file]",
	Short: "List the block definitions",
	Args:  cobra.MaximumNArgs(1),
	Run:   runBlocksList,
}

var blocksCheckCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Validate block definitions against the configured board",
	Args:  cobra.MaximumNArgs(1),
	Run:   runBlocksCheck,
}

var blocksFmtCmd = &cobra.Command{
	Use:   "fmt [file]",
	Short: "Print block definitions in canonical form",
	Args:  cobra.MaximumNArgs(1),
	Run:   runBlocksFmt,
}

var flagDefaultBlocks bool

func init() {
	blocksFmtCmd.Flags().BoolVar(&flagDefaultBlocks, "default", false, "Print the built-in definitions")

	blocksCmd.AddCommand(blocksListCmd)
	blocksCmd.AddCommand(blocksCheckCmd)
	blocksCmd.AddCommand(blocksFmtCmd)
}

// blocksPath prefers the positional file over --blocks.
func blocksPath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return flagBlocks
}

// mustLoadBlocks loads definitions for the configured board or exits.
func mustLoadBlocks(args []string) (*tetris.Definitions, config.Source) {
	cfg, _, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defs, src, err := tetris.LoadDefinitions(blocksPath(args), cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return defs, src
}

func runBlocksList(cmd *cobra.Command, args []string) {
	defs, src := mustLoadBlocks(args)

	fmt.Printf("Blocks from %s:\n", src)
	fmt.Println()

	maxNameLen := 4 // "Name" header
	for _, d := range defs.Blocks {
		if len(d.Name) > maxNameLen {
			maxNameLen = len(d.Name)
		}
	}

	fmt.Printf("  %-*s  %-9s  %s\n", maxNameLen, "Name", "Rotations", "Description")
	fmt.Printf("  %-*s  %-9s  %s\n", maxNameLen, "----", "---------", "-----------")
	for _, d := range defs.Blocks {
		fmt.Printf("  %-*s  %-9d  %s\n", maxNameLen, d.Name, len(d.Rotations), d.Description)
	}
}

func runBlocksCheck(cmd *cobra.Command, args []string) {
	defs, src := mustLoadBlocks(args)
	fmt.Printf("%s: %d blocks ok\n", src, len(defs.Blocks))
}

func runBlocksFmt(cmd *cobra.Command, args []string) {
	var defs *tetris.Definitions
	if flagDefaultBlocks {
		parsed, err := tetris.ParseDefinitions(config.GetDefaultYAML("blocks"))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defs = parsed
	} else {
		defs, _ = mustLoadBlocks(args)
	}

	out, err := defs.Marshal()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	os.Stdout.Write(out)
}
