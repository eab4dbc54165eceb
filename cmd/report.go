package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/facegate/facegate/internal/attendance"
	"github.com/facegate/facegate/internal/config"
	"github.com/facegate/facegate/internal/database"
	"github.com/facegate/facegate/internal/database/postgres"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print an attendance report",
	Long: `Print an attendance report, optionally filtered by date range and
student. Without filters the whole ledger is printed.`,
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().String("start", "", "Start date, YYYY-MM-DD inclusive")
	reportCmd.Flags().String("end", "", "End date, YYYY-MM-DD inclusive")
	reportCmd.Flags().String("student", "", "Filter by student ID")
	reportCmd.Flags().Bool("today", false, "Shortcut for today's date range")
}

func runReport(cmd *cobra.Command, args []string) error {
	filter := database.ReportFilter{
		StartDate: mustGetString(cmd, "start"),
		EndDate:   mustGetString(cmd, "end"),
		StudentID: mustGetString(cmd, "student"),
	}
	if mustGetBool(cmd, "today") {
		today := attendance.DateOf(time.Now())
		filter.StartDate = today
		filter.EndDate = today
	}

	cfg := config.Load()
	pool, err := initDatabase(cfg)
	if err != nil {
		return err
	}

	repo := postgres.NewAttendanceRepository(pool)
	records, err := repo.Report(context.Background(), filter)
	if err != nil {
		return fmt.Errorf("querying attendance report: %w", err)
	}

	if len(records) == 0 {
		fmt.Println("No attendance records match the filter")
		return nil
	}

	fmt.Printf("%-12s %-12s %-25s %-9s %-13s %s\n", "DATE", "ID", "NAME", "CHECK-IN", "STATUS", "CONFIDENCE")
	for _, rec := range records {
		fmt.Printf("%-12s %-12s %-25s %-9s %-13s %.1f\n",
			rec.Date, rec.StudentID, rec.Name,
			rec.CheckIn.Format("15:04:05"), rec.Status, rec.Confidence)
	}
	fmt.Printf("\n%d records\n", len(records))
	return nil
}
