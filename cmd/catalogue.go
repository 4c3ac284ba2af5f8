package cmd

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	corecat "github.com/kilianp07/menucycle/core/catalogue"
	"github.com/kilianp07/menucycle/core/model"
	"github.com/kilianp07/menucycle/core/quota"
	"github.com/kilianp07/menucycle/infra/catalogue"
)

var importTable string

var catalogueCmd = &cobra.Command{
	Use:   "catalogue",
	Short: "Catalogue related commands",
}

var catalogueLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List the dishes of the configured catalogue with their weekly quotas",
	Args:  cobra.NoArgs,
	RunE:  runCatalogueLs,
}

var catalogueImportCmd = &cobra.Command{
	Use:   "import <csv> <sqlite>",
	Short: "Copy a csv catalogue into a sqlite table",
	Args:  cobra.ExactArgs(2),
	RunE:  runCatalogueImport,
}

func init() {
	catalogueImportCmd.Flags().StringVar(&importTable, "table", catalogue.DefaultTable, "destination table")
	catalogueCmd.AddCommand(catalogueLsCmd, catalogueImportCmd)
	rootCmd.AddCommand(catalogueCmd)
}

func runCatalogueLs(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	provider, err := corecat.NewProvider(cfg.Catalogue)
	if err != nil {
		return err
	}
	dishes, err := provider.Load(cmd.Context())
	if err != nil {
		return err
	}
	policy, err := quota.New(cfg.Quota)
	if err != nil {
		return err
	}
	table, err := policy.Derive(dishes)
	if err != nil {
		return err
	}

	sorted := append([]model.Dish(nil), dishes...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Category < sorted[j].Category })
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CATEGORY\tDISH")
	for _, d := range sorted {
		fmt.Fprintf(w, "%s\t%s\n", d.Category, d.Name)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "CATEGORY\tCOUNT\tPER WEEK")
	counts := model.CountByCategory(dishes)
	for _, c := range table.Categories() {
		b := table[c]
		upper := fmt.Sprint(b.Max)
		if b.Max >= quota.Unbounded {
			upper = "inf"
		}
		fmt.Fprintf(w, "%s\t%d\t%d-%s\n", c, counts[c], b.Min, upper)
	}
	fmt.Fprintf(w, "\n%d dishes\n", len(dishes))
	return w.Flush()
}

func runCatalogueImport(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	dishes, err := catalogue.ReadCSV(f)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	dst, err := catalogue.NewSQLiteSource(args[1], importTable)
	if err != nil {
		return err
	}
	defer func() { _ = dst.Close() }()
	if err := dst.Replace(cmd.Context(), dishes); err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "imported %d dishes into %s (%s)\n", len(dishes), args[1], importTable)
	return err
}
