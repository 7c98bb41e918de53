package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/aretw0/arbor/internal/cli"
	"github.com/aretw0/arbor/internal/presentation/tui"
	"github.com/aretw0/arbor/internal/syntax"
	"github.com/aretw0/arbor/pkg/codegen"
	"github.com/aretw0/arbor/pkg/model"
)

var generateCmd = &cobra.Command{
	Use:   "generate MODEL",
	Short: "Generate a standalone predict function from a model",
	Long: `Lowers MODEL into source code for the chosen language. Supported languages:
c, c++, javascript, python and ruby. Unknown languages fall back to python.

--check parses the result with the target language's grammar, --render
pretty-prints it (the default on a terminal) and --watch regenerates on
every change of the repository.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, cfg, logger, release, err := openEngine(cmd)
		if err != nil {
			return err
		}
		defer release()

		lang, _ := cmd.Flags().GetString("lang")
		if lang == "" {
			lang = cfg.DefaultLanguage
		}
		check, _ := cmd.Flags().GetBool("check")
		outPath, _ := cmd.Flags().GetString("output")
		watch, _ := cmd.Flags().GetBool("watch")

		render := outPath == "" && term.IsTerminal(int(os.Stdout.Fd()))
		if cmd.Flags().Changed("render") {
			render, _ = cmd.Flags().GetBool("render")
		}

		emit := func(m *model.Model) error {
			src, diags, err := engine.GenerateModel(cmd.Context(), m, lang)
			if err != nil {
				return err
			}
			for _, d := range diags {
				logger.Warn("generate: diagnostic", "model", m.Name, "diagnostic", d.String())
			}
			if check {
				if err := syntax.Check(cmd.Context(), lang, src); err != nil {
					return fmt.Errorf("generated %s does not parse: %w", codegen.Lookup(lang).Name(), err)
				}
			}
			if outPath != "" {
				return os.WriteFile(outPath, []byte(src), 0o644)
			}
			return writeCode(cmd.OutOrStdout(), lang, src, render)
		}

		if !watch {
			m, err := engine.Model(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return emit(m)
		}

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()
		if render {
			tui.PrintBanner(cmd.ErrOrStderr())
		}
		return cli.RunWatch(ctx, engine, args[0], cmd.ErrOrStderr(), logger, emit)
	},
}

func writeCode(w io.Writer, lang, src string, render bool) error {
	if render {
		out, err := tui.RenderCode(lang, src)
		if err == nil {
			_, err = io.WriteString(w, out)
			return err
		}
	}
	_, err := io.WriteString(w, src)
	return err
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().StringP("lang", "l", "", "Target language (defaults to default_language)")
	generateCmd.Flags().StringP("output", "o", "", "Write the code to a file instead of stdout")
	generateCmd.Flags().Bool("check", false, "Parse the generated code and fail on syntax errors")
	generateCmd.Flags().Bool("render", false, "Pretty-print the code with syntax highlighting")
	generateCmd.Flags().BoolP("watch", "w", false, "Regenerate whenever the repository changes")
}
