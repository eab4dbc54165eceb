package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/facegate/facegate/internal/config"
	"github.com/facegate/facegate/internal/database"
	"github.com/facegate/facegate/internal/database/postgres"
	"github.com/facegate/facegate/internal/imaging"
	"github.com/facegate/facegate/internal/recognizer"
)

var enrollCmd = &cobra.Command{
	Use:   "enroll",
	Short: "Bulk-enroll face templates from a directory of photos",
	Long: `Bulk-enroll face templates from a directory of photos. Each file
must be named <studentID>.<ext> and contain exactly one face. Photos
that fail the single-face check are reported and skipped; the rest
are enrolled.`,
	RunE: runEnroll,
}

func init() {
	rootCmd.AddCommand(enrollCmd)

	enrollCmd.Flags().String("dir", "", "Directory with student photos (required)")
	_ = enrollCmd.MarkFlagRequired("dir")
}

// photoExtensions are the image formats the bulk enroller accepts.
var photoExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".bmp":  true,
	".webp": true,
}

func listPhotoFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading photo directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if photoExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	return files, nil
}

// enrollPhoto encodes one photo and stores the template. The roster
// entry is created when missing, with the student ID standing in for
// the unknown name.
func enrollPhoto(
	ctx context.Context,
	cfg *config.Config,
	provider recognizer.Provider,
	templates *postgres.TemplateRepository,
	students *postgres.StudentRepository,
	path string,
) error {
	studentID := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	img, err := imaging.DecodeBytes(data)
	if err != nil {
		return err
	}
	prepared := imaging.Resize(imaging.ToRGBA(img), cfg.Recognizer.MaxImageSize)

	region, err := recognizer.LocateSingle(ctx, provider, prepared)
	if err != nil {
		return err
	}
	template, err := provider.Encode(ctx, prepared, region)
	if err != nil {
		return err
	}

	name := studentID
	student, err := students.GetStudent(ctx, studentID)
	if err != nil {
		return err
	}
	if student != nil {
		name = student.Name
	} else {
		err := students.UpsertStudent(ctx, database.Student{StudentID: studentID, Name: name})
		if err != nil {
			return err
		}
	}

	return templates.Enroll(ctx, database.StoredTemplate{
		StudentID: studentID,
		Name:      name,
		Embedding: template,
		Dim:       len(template),
		Model:     provider.Name(),
	})
}

func runEnroll(cmd *cobra.Command, args []string) error {
	dir := mustGetString(cmd, "dir")

	files, err := listPhotoFiles(dir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no photos found in %s", dir)
	}

	cfg := config.Load()
	pool, err := initDatabase(cfg)
	if err != nil {
		return err
	}

	provider, closeProvider, err := newProvider(cfg)
	if err != nil {
		return fmt.Errorf("initializing recognizer: %w", err)
	}
	defer closeProvider()

	templates := postgres.NewTemplateRepository(pool, cfg.Match.TemplateDim)
	students := postgres.NewStudentRepository(pool)
	ctx := context.Background()

	fmt.Printf("Enrolling %d photos from %s\n", len(files), dir)
	bar := progressbar.Default(int64(len(files)))

	var failures []string
	for _, path := range files {
		if err := enrollPhoto(ctx, cfg, provider, templates, students, path); err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", filepath.Base(path), err))
		}
		_ = bar.Add(1)
	}

	fmt.Printf("Enrolled %d of %d photos\n", len(files)-len(failures), len(files))
	for _, failure := range failures {
		fmt.Printf("  skipped %s\n", failure)
	}
	if len(failures) > 0 {
		return fmt.Errorf("%d photos failed to enroll", len(failures))
	}
	return nil
}
