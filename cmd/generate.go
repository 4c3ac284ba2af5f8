package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/menucycle/app"
	coremetrics "github.com/kilianp07/menucycle/core/metrics"
	"github.com/kilianp07/menucycle/pkg/export"
)

var (
	genFormat    string
	genSeed      uint64
	genAdjacency bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate one menu and print it",
	Args:  cobra.NoArgs,
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&genFormat, "format", "f", "json", "output format: json, yaml or csv")
	generateCmd.Flags().Uint64Var(&genSeed, "seed", 0, "reproducible generation when non-zero")
	generateCmd.Flags().BoolVar(&genAdjacency, "adjacency", false, "forbid the same category on consecutive meals")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("seed") {
		cfg.Solver.Seed = genSeed
	}
	if cmd.Flags().Changed("adjacency") {
		cfg.Solver.Adjacency = genAdjacency
	}
	gen, err := app.NewGeneratorFromConfig(cfg, coremetrics.NopSink{}, nil)
	if err != nil {
		return err
	}
	s, err := gen.Generate(cmd.Context())
	if err != nil {
		return fmt.Errorf("generate menu: %w", err)
	}
	return export.Write(cmd.OutOrStdout(), genFormat, s)
}
