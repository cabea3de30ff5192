package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/atlasbruce/bramble/pkg/domain"
	"github.com/atlasbruce/bramble/pkg/validator"
)

var validateCmd = &cobra.Command{
	Use:   "validate <graph.json>",
	Short: "Check a graph document for consistency",
	Long:  `Decodes a serialized graph and reports structural problems: missing root, dangling references, cycles and unreachable nodes. Advisory warnings (orphans, under-populated composites) are printed separately and do not fail the check.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		g, err := readGraphFile(args[0])
		if err != nil {
			fmt.Printf("Error reading graph: %v\n", err)
			os.Exit(1)
		}

		for _, warning := range validator.Lint(g) {
			fmt.Printf("warning: %s\n", warning)
		}

		if err := g.Validate(); err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Graph is valid! ✅")
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func readGraphFile(path string) (*domain.NodeGraph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var g domain.NodeGraph
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, err
	}
	return &g, nil
}
