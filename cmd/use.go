package cmd

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/Rorical/LeafDesk/internal/app"
	"github.com/Rorical/LeafDesk/internal/config"
)

var useCmd = &cobra.Command{
	Use:   "use [profile-name]",
	Short: "Switch to a profile and start a session",
	Long:  `Switch to the specified profile and immediately open the dashboard.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		if err := cfg.Use(args[0]); err != nil {
			log.Fatalf("%v", err)
		}
		if err := cfg.Save(); err != nil {
			log.Fatalf("Failed to save config: %v", err)
		}

		run(app.Options{PagePath: pagePath})
	},
}

func init() {
	rootCmd.AddCommand(useCmd)
}
