package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/facegate/facegate/internal/config"
	"github.com/facegate/facegate/internal/database"
	"github.com/facegate/facegate/internal/database/postgres"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the student roster from a YAML file",
	Long: `Seed the student roster from a YAML file. Existing students are
updated in place, so the command can be re-run safely.

File format:

  students:
    - studentId: STU001
      name: Alice Novak
      grade: 10A`,
	RunE: runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().String("file", "roster.yaml", "Path to the roster YAML file")
}

// rosterFile is the on-disk roster document.
type rosterFile struct {
	Students []rosterEntry `yaml:"students"`
}

type rosterEntry struct {
	StudentID string `yaml:"studentId"`
	Name      string `yaml:"name"`
	Grade     string `yaml:"grade"`
}

func runSeed(cmd *cobra.Command, args []string) error {
	path := mustGetString(cmd, "file")

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading roster file: %w", err)
	}

	var roster rosterFile
	if err := yaml.Unmarshal(data, &roster); err != nil {
		return fmt.Errorf("parsing roster file %s: %w", path, err)
	}
	if len(roster.Students) == 0 {
		return fmt.Errorf("roster file %s contains no students", path)
	}
	for i, entry := range roster.Students {
		if entry.StudentID == "" || entry.Name == "" {
			return fmt.Errorf("roster entry %d is missing studentId or name", i+1)
		}
	}

	cfg := config.Load()
	pool, err := initDatabase(cfg)
	if err != nil {
		return err
	}

	students := postgres.NewStudentRepository(pool)
	ctx := context.Background()

	for _, entry := range roster.Students {
		err := students.UpsertStudent(ctx, database.Student{
			StudentID: entry.StudentID,
			Name:      entry.Name,
			Grade:     entry.Grade,
		})
		if err != nil {
			return fmt.Errorf("seeding student %s: %w", entry.StudentID, err)
		}
	}

	fmt.Printf("Seeded %d students from %s\n", len(roster.Students), path)
	return nil
}
