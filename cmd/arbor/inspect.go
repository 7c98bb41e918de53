package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/arbor/pkg/adapters/hash"
	"github.com/aretw0/arbor/pkg/ast"
	"github.com/aretw0/arbor/pkg/codec"
)

type inspection struct {
	Name     string   `json:"name"`
	Inputs   []string `json:"inputs"`
	Nodes    int      `json:"nodes"`
	Depth    int      `json:"depth"`
	Locals   int      `json:"locals"`
	WireSize int64    `json:"wire_size"`
	Digest   string   `json:"digest"`
	Code     string   `json:"code"`
}

var inspectCmd = &cobra.Command{
	Use:   "inspect [MODEL...]",
	Short: "Describe models: inputs, tree size, wire size and digest",
	Long:  `Describes the named models, or every model in the repository when none is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, _, _, release, err := openEngine(cmd)
		if err != nil {
			return err
		}
		defer release()

		ctx := cmd.Context()
		names := args
		if len(names) == 0 {
			if names, err = engine.Models(ctx); err != nil {
				return err
			}
		}
		asJSON, _ := cmd.Flags().GetBool("json")
		out := cmd.OutOrStdout()

		for _, name := range names {
			m, err := engine.Model(ctx, name)
			if err != nil {
				return err
			}
			size, err := codec.Size(m)
			if err != nil {
				return err
			}
			digest, err := hash.Model(m, hash.SHA256)
			if err != nil {
				return err
			}
			info := inspection{
				Name:     m.Name,
				Nodes:    m.Code.Count(),
				Depth:    m.Code.Depth(),
				Locals:   m.Code.MaxLocal() + 1,
				WireSize: size,
				Digest:   digest,
				Code:     ast.Format(m.Code),
			}
			for i := 0; i < m.Signature.Len(); i++ {
				info.Inputs = append(info.Inputs, m.Signature.ParamName(i)+":"+m.Signature.TypeOf(i).String())
			}

			if asJSON {
				if err := json.NewEncoder(out).Encode(info); err != nil {
					return err
				}
				continue
			}
			fmt.Fprintf(out, "%s\n  inputs: %s\n  nodes: %d  depth: %d  locals: %d\n  wire: %d bytes  %s\n  code: %s\n",
				info.Name, strings.Join(info.Inputs, ", "), info.Nodes, info.Depth, info.Locals,
				info.WireSize, info.Digest, info.Code)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().Bool("json", false, "Print one JSON object per model")
}
