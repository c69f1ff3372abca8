package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/madrona-research/madrona/internal/analytics"
	"github.com/madrona-research/madrona/internal/db"
	"github.com/spf13/cobra"
)

var summaryDate string

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print per-provider preprint counts for one day",
	Long: `Query the search backend and print the number of preprints created on
the given day, one row per preprint provider. Defaults to yesterday.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := initSystemDB(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		day := time.Now().UTC().AddDate(0, 0, -1)
		if summaryDate != "" {
			parsed, err := time.Parse("2006-01-02", summaryDate)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: date must be YYYY-MM-DD: %v\n", err)
				os.Exit(1)
			}
			day = parsed
		}

		summary := analytics.NewPreprintSummary()
		events, err := summary.GetEvents(context.Background(), db.GetDB(), day)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "DATE\tPROVIDER\tPREPRINTS")
		for _, event := range events {
			fmt.Fprintf(w, "%s\t%s\t%d\n",
				event.Timestamp.Format("2006-01-02"), event.Provider.Name, event.Provider.Total)
		}
		w.Flush()
	},
}

func init() {
	summaryCmd.Flags().StringVar(&summaryDate, "date", "", "day to summarize (YYYY-MM-DD, default yesterday)")
	rootCmd.AddCommand(summaryCmd)
}
