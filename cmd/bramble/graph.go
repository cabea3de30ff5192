package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/atlasbruce/bramble/internal/presentation/graph"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <graph.json>",
	Short: "Export a graph visualization",
	Long:  `Decodes a serialized graph and outputs a Mermaid diagram (graph TD) representing its structure.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		g, err := readGraphFile(args[0])
		if err != nil {
			fmt.Printf("Error reading graph: %v\n", err)
			os.Exit(1)
		}

		fmt.Print(graph.GenerateMermaid(g))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
