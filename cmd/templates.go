package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/facegate/facegate/internal/config"
	"github.com/facegate/facegate/internal/database"
	"github.com/facegate/facegate/internal/database/filestore"
	"github.com/facegate/facegate/internal/database/postgres"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "Export or import enrolled face templates",
}

var templatesExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export enrolled templates to a JSON document",
	RunE:  runTemplatesExport,
}

var templatesImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import templates from a JSON document into the database",
	RunE:  runTemplatesImport,
}

func init() {
	rootCmd.AddCommand(templatesCmd)
	templatesCmd.AddCommand(templatesExportCmd)
	templatesCmd.AddCommand(templatesImportCmd)

	templatesExportCmd.Flags().String("file", "", "Template document path (defaults to TEMPLATE_STORE_PATH)")
	templatesImportCmd.Flags().String("file", "", "Template document path (defaults to TEMPLATE_STORE_PATH)")
}

// templateFilePath resolves the document path from the flag or config.
func templateFilePath(cmd *cobra.Command, cfg *config.Config) (string, error) {
	path := mustGetString(cmd, "file")
	if path == "" {
		path = cfg.Store.TemplatePath
	}
	if path == "" {
		return "", errors.New("no template file given, set --file or TEMPLATE_STORE_PATH")
	}
	return path, nil
}

func runTemplatesExport(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	path, err := templateFilePath(cmd, cfg)
	if err != nil {
		return err
	}

	pool, err := initDatabase(cfg)
	if err != nil {
		return err
	}

	repo := postgres.NewTemplateRepository(pool, cfg.Match.TemplateDim)
	templates, err := repo.All(context.Background())
	if err != nil {
		return fmt.Errorf("loading templates: %w", err)
	}

	store, err := filestore.Open(path, cfg.Match.TemplateDim)
	if err != nil {
		return err
	}
	err = store.Import(context.Background(), database.ExportData{
		Version:    database.CurrentExportVersion,
		ExportedAt: time.Now(),
		Templates:  templates,
	})
	if err != nil {
		return fmt.Errorf("writing template document: %w", err)
	}

	fmt.Printf("Exported %d templates to %s\n", len(templates), path)
	return nil
}

func runTemplatesImport(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	path, err := templateFilePath(cmd, cfg)
	if err != nil {
		return err
	}

	store, err := filestore.Open(path, cfg.Match.TemplateDim)
	if err != nil {
		return err
	}
	templates, err := store.All(context.Background())
	if err != nil {
		return err
	}
	if len(templates) == 0 {
		return fmt.Errorf("template document %s is empty", path)
	}

	pool, err := initDatabase(cfg)
	if err != nil {
		return err
	}

	repo := postgres.NewTemplateRepository(pool, cfg.Match.TemplateDim)
	students := postgres.NewStudentRepository(pool)
	ctx := context.Background()

	for _, tmpl := range templates {
		// Keep the roster consistent so imported templates show up
		// with hasFaceEncoding set.
		student, err := students.GetStudent(ctx, tmpl.StudentID)
		if err != nil {
			return fmt.Errorf("importing template for %s: %w", tmpl.StudentID, err)
		}
		if student == nil {
			err = students.UpsertStudent(ctx, database.Student{StudentID: tmpl.StudentID, Name: tmpl.Name})
			if err != nil {
				return fmt.Errorf("importing template for %s: %w", tmpl.StudentID, err)
			}
		}
		if err := repo.Enroll(ctx, tmpl); err != nil {
			return fmt.Errorf("importing template for %s: %w", tmpl.StudentID, err)
		}
	}

	fmt.Printf("Imported %d templates from %s\n", len(templates), path)
	return nil
}
