// Command orion inspects FITS source catalogs from the terminal: dataset
// summaries, descriptive statistics with bootstrap errors, and histograms.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	orion "github.com/orionlab/orion"
	"github.com/orionlab/orion/internal/stats"
	"github.com/orionlab/orion/internal/version"
)

var (
	configFile string
	primaryKey string
	bins       int
	outFile    string
	verbose    bool

	rootCmd = &cobra.Command{
		Use:   "orion",
		Short: "Analyze FITS source catalogs",
		Long: `Orion reads the first table HDU of a FITS file and reports on its
columns: summaries, descriptive statistics with bootstrap standard errors,
and histogram plots.`,
		SilenceUsage: true,
	}

	inspectCmd = &cobra.Command{
		Use:   "inspect <catalog.fits>",
		Short: "Print the columns and row count of a catalog",
		Args:  cobra.ExactArgs(1),
		RunE:  runInspect,
	}

	statsCmd = &cobra.Command{
		Use:   "stats <catalog.fits> <column>",
		Short: "Print descriptive statistics of a column with bootstrap errors",
		Args:  cobra.ExactArgs(2),
		RunE:  runStats,
	}

	histCmd = &cobra.Command{
		Use:   "hist <catalog.fits> <column>",
		Short: "Save a histogram of a column",
		Args:  cobra.ExactArgs(2),
		RunE:  runHist,
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Print(version.Info().String())
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "path to a YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&primaryKey, "key", "", "primary key column (default: first column)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	histCmd.Flags().IntVar(&bins, "bins", 0, "histogram bin count (default from config)")
	histCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default: column name)")
	rootCmd.AddCommand(inspectCmd, statsCmd, histCmd, versionCmd)
}

func loadConfig() (orion.Config, error) {
	if configFile == "" {
		return orion.NewConfig(), nil
	}
	return orion.LoadConfig(configFile)
}

func newLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewNop(), nil
}

func openDataset(path string) (*orion.Dataset, error) {
	log, err := newLogger()
	if err != nil {
		return nil, err
	}
	return orion.OpenFITSWith(path, primaryKey, nil, log)
}

func runInspect(cmd *cobra.Command, args []string) error {
	ds, err := openDataset(args[0])
	if err != nil {
		return err
	}
	defer ds.Release()

	fmt.Printf("%s: %d rows, primary key %q\n", args[0], ds.Len(), ds.PrimaryKey())
	fmt.Println("Columns:")
	for _, name := range ds.Columns() {
		fmt.Printf("  %s\n", name)
	}
	return nil
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ds, err := openDataset(args[0])
	if err != nil {
		return err
	}
	defer ds.Release()

	col, err := ds.Column(args[1])
	if err != nil {
		return err
	}
	values := col.Values()
	desc := stats.Describe(values)
	estimate, err := stats.BootstrapInterval(values, cfg.BootstrapReplicates, cfg.RandomSeed)
	if err != nil {
		return err
	}

	fmt.Printf("%s (%d finite of %d rows)\n", args[1], desc.N, len(values))
	fmt.Printf("Mean: %g +- %g\n", desc.Mean, estimate.MeanErr)
	fmt.Printf("Median: %g +- %g\n", desc.Median, estimate.MedianErr)
	fmt.Printf("Standard Deviation: %g +- %g\n", desc.StdDev, estimate.StdDevErr)
	return nil
}

func runHist(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ds, err := openDataset(args[0])
	if err != nil {
		return err
	}
	defer ds.Release()

	col, err := ds.Column(args[1])
	if err != nil {
		return err
	}

	r := orion.NewResearch(ds,
		orion.NewSample("all", ds.PrimaryKeyValues()),
		orion.WithConfig(cfg),
	)
	r.AddParameter(args[1], col)

	opts := orion.PlotOptions{Filename: outFile, Bins: bins}
	if err := r.PlotSingleHistogram(orion.NewSample("all", nil), args[1], opts); err != nil {
		return err
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
