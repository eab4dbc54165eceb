package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/facegate/facegate/internal/config"
	"github.com/facegate/facegate/internal/database/postgres"
)

var studentsCmd = &cobra.Command{
	Use:   "students",
	Short: "List the student roster",
	RunE:  runStudents,
}

func init() {
	rootCmd.AddCommand(studentsCmd)
}

func runStudents(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	pool, err := initDatabase(cfg)
	if err != nil {
		return err
	}

	repo := postgres.NewStudentRepository(pool)
	students, err := repo.ListStudents(context.Background())
	if err != nil {
		return fmt.Errorf("listing students: %w", err)
	}

	if len(students) == 0 {
		fmt.Println("No students in the roster")
		return nil
	}

	fmt.Printf("%-12s %-25s %-8s %s\n", "ID", "NAME", "GRADE", "FACE")
	for _, s := range students {
		face := "-"
		if s.HasFaceTemplate {
			face = "enrolled"
		}
		fmt.Printf("%-12s %-25s %-8s %s\n", s.StudentID, s.Name, s.Grade, face)
	}
	fmt.Printf("\n%d students\n", len(students))
	return nil
}
