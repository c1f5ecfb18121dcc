package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/Rorical/LeafDesk/internal/app"
)

var (
	metricsAddr string
	pagePath    string
)

var rootCmd = &cobra.Command{
	Use:   "leafdesk",
	Short: "Terminal client for the crop diagnosis tracker",
	Long: `LeafDesk drives a crop diagnosis tracker from the terminal: today's tasks,
the treatment calendar, diagnosis feedback and the admin console.`,
	Run: func(cmd *cobra.Command, args []string) {
		run(app.Options{PagePath: pagePath})
	},
}

// run starts an interactive session and blocks until it ends. The session
// sends the standard logger to its log file, so failures go to stderr.
func run(opts app.Options) {
	opts.MetricsAddr = metricsAddr
	application, err := app.NewApplication(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create application: %v\n", err)
		os.Exit(1)
	}

	err = application.Start()
	application.Stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Application error: %v\n", err)
		os.Exit(1)
	}
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution error: %v", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (e.g. :9102)")
	rootCmd.PersistentFlags().StringVar(&pagePath, "page", "", "YAML page manifest with diagnoses, users and logbook entries")

	rootCmd.AddCommand(profileCmd)
}
