package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	provider string
	outPath  string
	persist  bool
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "extract [files...]",
	Short: "Extract classified transactions from statement files",
	Long: `Runs the extraction pipeline over local PDF, CSV, XLSX or XLS files and
prints one JSON result per file. Configuration is read from the same
environment variables and .env file as the HTTP server.`,
	Args:          cobra.MinimumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runExtract,
}

func init() {
	rootCmd.Flags().StringVarP(&provider, "provider", "p", "", "classifier provider (gigachat or gemini), overrides CLASSIFIER_PROVIDER")
	rootCmd.Flags().StringVarP(&outPath, "out", "o", "", "write results to this file instead of stdout")
	rootCmd.Flags().BoolVar(&persist, "persist", false, "record successful extractions in the database")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "log level, overrides LOG_LEVEL")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
