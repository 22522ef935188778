package main

import (
	"fmt"
	"path/filepath"

	"frbus-sweep/internal/store"

	"github.com/spf13/cobra"
)

var indexFlags struct {
	in  string
	out string
}

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build the SQLite lookup index from a saved sweep",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := store.LoadFull(indexFlags.in)
		if err != nil {
			return err
		}
		dst := indexFlags.out
		if dst == "" {
			dst = filepath.Join(filepath.Dir(indexFlags.in), store.IndexFile)
		}
		if err := buildIndex(cmd.Context(), dst, out); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d simulations into %s\n", len(out.Simulations), dst)
		return nil
	},
}

func init() {
	f := indexCmd.Flags()
	f.StringVarP(&indexFlags.in, "in", "i", filepath.Join("frbus_simulations", store.FullFile), "Path to the full-data JSON artifact")
	f.StringVarP(&indexFlags.out, "out", "o", "", "Index path (defaults next to the input)")
}
