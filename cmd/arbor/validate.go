package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/arbor/internal/validator"
)

var validateCmd = &cobra.Command{
	Use:   "validate [MODEL...]",
	Short: "Check models for consistency",
	Long: `Loads the named models (or every model in the repository), verifies their
signatures and local assignments, and generates code in every language.
With --check the generated code is also parsed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, _, _, release, err := openEngine(cmd)
		if err != nil {
			return err
		}
		defer release()

		check, _ := cmd.Flags().GetBool("check")
		opts := []validator.Option{validator.WithSyntaxCheck(check)}
		if langs, _ := cmd.Flags().GetStringSlice("lang"); len(langs) > 0 {
			opts = append(opts, validator.WithLanguages(langs...))
		}

		results, err := validator.ValidateModels(cmd.Context(), engine, args, opts...)
		out := cmd.OutOrStdout()
		for _, r := range results {
			if r.OK() {
				fmt.Fprintf(out, "ok   %s\n", r.Model)
				continue
			}
			fmt.Fprintf(out, "FAIL %s\n  - %s\n", r.Model, strings.Join(r.Problems, "\n  - "))
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().Bool("check", false, "Parse the generated code of every language")
	validateCmd.Flags().StringSlice("lang", nil, "Only generate these languages")
}
