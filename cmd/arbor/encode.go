package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/aretw0/arbor/pkg/adapters/compress"
	"github.com/aretw0/arbor/pkg/adapters/file"
	"github.com/aretw0/arbor/pkg/adapters/hash"
	"github.com/aretw0/arbor/pkg/model"
	"github.com/aretw0/arbor/pkg/ports"
)

var encodeCmd = &cobra.Command{
	Use:   "encode MODEL",
	Short: "Write a model in the binary wire format",
	Args:  cobra.ExactArgs(1),
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

		outPath, _ := cmd.Flags().GetString("output")
		if outPath == "" {
			outPath = m.Name + file.Ext
		}
		gz, _ := cmd.Flags().GetBool("gzip")

		fw, err := file.Create(outPath)
		if err != nil {
			return err
		}
		var dst ports.Writer = fw
		if gz {
			zw, err := compress.NewWriter(fw)
			if err != nil {
				_ = fw.Finish()
				return err
			}
			dst = zw
		}
		hw, err := hash.NewWriter(dst, hash.SHA256)
		if err != nil {
			_ = dst.Finish()
			return err
		}
		if err := engine.Encode(hw, m); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", outPath, hw.Digest())
		return nil
	},
}

var decodeCmd = &cobra.Command{
	Use:   "decode FILE",
	Short: "Read a binary model and print its definition",
	Long: `Decodes FILE (gzip-compressed when --gzip is set) and prints the model as a
YAML definition. With --save the model is also written to the configured
store.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, _, _, release, err := openEngine(cmd)
		if err != nil {
			return err
		}
		defer release()

		fr, err := file.Open(args[0])
		if err != nil {
			return err
		}
		defer fr.Finish()

		var src io.Reader = fr
		if gz, _ := cmd.Flags().GetBool("gzip"); gz {
			zr, err := compress.NewReader(fr)
			if err != nil {
				return err
			}
			defer zr.Finish()
			src = zr
		}
		m, err := engine.Decode(src)
		if err != nil {
			return err
		}

		if save, _ := cmd.Flags().GetBool("save"); save {
			if err := engine.Save(cmd.Context(), m); err != nil {
				return err
			}
		}
		def, err := model.DefinitionOf(m).Marshal()
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(def)
		return err
	},
}

func init() {
	rootCmd.AddCommand(encodeCmd)
	encodeCmd.Flags().StringP("output", "o", "", "Output file (defaults to MODEL.arbor)")
	encodeCmd.Flags().Bool("gzip", false, "Compress the output")

	rootCmd.AddCommand(decodeCmd)
	decodeCmd.Flags().Bool("gzip", false, "The input is gzip-compressed")
	decodeCmd.Flags().Bool("save", false, "Store the decoded model")
}
