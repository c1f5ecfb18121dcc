package cmd

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Rorical/LeafDesk/internal/app"
	"github.com/Rorical/LeafDesk/internal/models"
)

var diagnosisCmd = &cobra.Command{
	Use:   "diagnosis [diagnosis-id]",
	Short: "Open a diagnosis from the page manifest",
	Long: `Open the diagnoses view focused on one diagnosis. The diagnosis must be
listed in the manifest given with --page.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		run(app.Options{
			PagePath:    pagePath,
			View:        models.ViewDiagnoses,
			DiagnosisID: args[0],
		})
	},
}

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Open the admin console",
	Long:  `Open the admin console with the feedback and report charts, users and logbook.`,
	Run: func(cmd *cobra.Command, args []string) {
		run(app.Options{
			PagePath: pagePath,
			View:     models.ViewAdmin,
			Admin:    true,
		})
	},
}

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Work with calendar tasks",
}

var listTasksCmd = &cobra.Command{
	Use:   "list",
	Short: "Print today's tasks",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := app.PrintTasks(ctx, os.Stdout, time.Now()); err != nil {
			log.Fatalf("%v", err)
		}
	},
}

func init() {
	tasksCmd.AddCommand(listTasksCmd)

	rootCmd.AddCommand(diagnosisCmd)
	rootCmd.AddCommand(adminCmd)
	rootCmd.AddCommand(tasksCmd)
}
