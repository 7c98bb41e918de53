package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/arbor/internal/cli"
	"github.com/aretw0/arbor/internal/presentation/graph"
	"github.com/aretw0/arbor/pkg/eval"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph MODEL [VALUE...]",
	Short: "Export a model's tree as a Mermaid flowchart",
	Long: `Outputs a Mermaid diagram (graph TD) of MODEL's tree. When input values are
given, the model is evaluated on them and the nodes on the evaluated path
are highlighted.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, _, _, release, err := openEngine(cmd)
		if err != nil {
			return err
		}
		defer release()

		m, err := engine.Model(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		var overlay *graph.GraphOverlay
		if len(args) > 1 {
			row, err := cli.ParseRow(m.Signature, args[1:])
			if err != nil {
				return err
			}
			out, visited, err := eval.Trace(m, row)
			if err != nil {
				return err
			}
			overlay = &graph.GraphOverlay{Visited: visited, Result: out.String()}
		}

		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(m.Code, overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
