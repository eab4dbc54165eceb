package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/facegate/facegate/internal/attendance"
	"github.com/facegate/facegate/internal/config"
	"github.com/facegate/facegate/internal/database/postgres"
	"github.com/facegate/facegate/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the verification and attendance API server",
	Long: `Start the Facegate API server.
The server exposes endpoints for face enrollment, identity verification
with attendance recording, roster listings and attendance reports.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 8080, "Port to listen on")
	serveCmd.Flags().String("host", "0.0.0.0", "Host to bind to")
}

// resolveServeHostPort resolves port and host from flags, with config
// (environment) values winning when the flags are left at defaults.
func resolveServeHostPort(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = mustGetInt(cmd, "port")
	}
	if cmd.Flags().Changed("host") {
		cfg.Server.Host = mustGetString(cmd, "host")
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	resolveServeHostPort(cmd, cfg)

	fmt.Printf("Connecting to PostgreSQL database...\n")
	pool, err := initDatabase(cfg)
	if err != nil {
		return err
	}

	provider, closeProvider, err := newProvider(cfg)
	if err != nil {
		return fmt.Errorf("initializing recognizer: %w", err)
	}
	defer closeProvider()
	fmt.Printf("Recognizer: %s\n", provider.Name())

	templates := postgres.NewTemplateRepository(pool, cfg.Match.TemplateDim)
	students := postgres.NewStudentRepository(pool)
	attendanceRepo := postgres.NewAttendanceRepository(pool)
	ledger := attendance.NewLedger(attendanceRepo, attendance.Cutoff{
		Hour:   cfg.Attendance.CutoffHour,
		Minute: cfg.Attendance.CutoffMinute,
	})

	server := web.NewServer(cfg, web.Deps{
		Provider:   provider,
		Templates:  templates,
		Students:   students,
		Attendance: attendanceRepo,
		Ledger:     ledger,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nShutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			fmt.Printf("Error during shutdown: %v\n", err)
		}
	}()

	fmt.Printf("Starting Facegate API on http://%s:%d\n", cfg.Server.Host, cfg.Server.Port)
	fmt.Printf("Attendance cutoff: %02d:%02d\n", cfg.Attendance.CutoffHour, cfg.Attendance.CutoffMinute)
	fmt.Println("Press Ctrl+C to stop")

	if err := server.Start(); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}
	return nil
}
