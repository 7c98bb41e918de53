package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/arbor/internal/cli"
	"github.com/aretw0/arbor/pkg/domain"
)

var evalCmd = &cobra.Command{
	Use:   "eval MODEL [VALUE...]",
	Short: "Evaluate a model on one row or a file of rows",
	Long: `Evaluates MODEL on the row given as arguments, either positional values in
signature order or name=value pairs; "?" marks a missing value.

With --rows, reads JSON lines (one object keyed by input name per line, "-"
for stdin) and evaluates them concurrently.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, _, _, release, err := openEngine(cmd)
		if err != nil {
			return err
		}
		defer release()

		ctx := cmd.Context()
		m, err := engine.Model(ctx, args[0])
		if err != nil {
			return err
		}
		asJSON, _ := cmd.Flags().GetBool("json")
		out := cmd.OutOrStdout()

		rowsPath, _ := cmd.Flags().GetString("rows")
		if rowsPath == "" {
			row, err := cli.ParseRow(m.Signature, args[1:])
			if err != nil {
				return err
			}
			v, err := engine.PredictModel(ctx, m, row)
			if err != nil {
				return err
			}
			return printVariable(out, v, asJSON)
		}

		var src io.Reader = cmd.InOrStdin()
		if rowsPath != "-" {
			f, err := os.Open(rowsPath)
			if err != nil {
				return err
			}
			defer f.Close()
			src = f
		}
		rows, err := cli.ReadRows(src, m.Signature)
		if err != nil {
			return err
		}
		results, err := engine.PredictBatchModel(ctx, m, rows)
		if err != nil {
			return err
		}
		for _, v := range results {
			if err := printVariable(out, v, asJSON); err != nil {
				return err
			}
		}
		return nil
	},
}

func printVariable(w io.Writer, v domain.Variable, asJSON bool) error {
	if asJSON {
		return json.NewEncoder(w).Encode(v)
	}
	_, err := fmt.Fprintln(w, v)
	return err
}

func init() {
	rootCmd.AddCommand(evalCmd)
	evalCmd.Flags().String("rows", "", "JSON lines file of rows to evaluate (- for stdin)")
	evalCmd.Flags().Bool("json", false, "Print results as JSON")
}
