package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Recognizer RecognizerConfig
	Match      MatchConfig
	Attendance AttendanceConfig
	Store      StoreConfig
}

type ServerConfig struct {
	Host           string
	Port           int
	AllowedOrigins []string // Browser origins allowed to call the API
}

type DatabaseConfig struct {
	URL          string // PostgreSQL connection URL
	MaxOpenConns int    // Maximum open connections (default 25)
	MaxIdleConns int    // Maximum idle connections (default 5)
}

type RecognizerConfig struct {
	ModelDir     string // Directory with dlib model files; empty enables the stub recognizer
	MaxImageSize int    // Longest image edge in pixels before detection (default 1600)
}

type MatchConfig struct {
	Threshold   float64 // Maximum accepted face distance (default 0.6)
	TemplateDim int     // Face template dimensionality (default 128)
}

type AttendanceConfig struct {
	CutoffHour   int // Check-ins at or after the cutoff are late (default 13)
	CutoffMinute int
}

type StoreConfig struct {
	TemplatePath string // Path of the JSON template file used by export/import
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envFloat reads an environment variable and parses it as a positive float.
// Returns the default value if the env var is unset, empty, or invalid.
func envFloat(key string, defaultVal float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f > 0 {
		return f
	}
	return defaultVal
}

// parseCutoff parses a cutoff time in HH:MM format.
func parseCutoff(s string) (hour, minute int, err error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid cutoff time %q, expected HH:MM", s)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid cutoff hour in %q", s)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid cutoff minute in %q", s)
	}
	return hour, minute, nil
}

// envCutoff reads a cutoff time env var, falling back to the default on any error.
func envCutoff(key string, defaultHour, defaultMinute int) (int, int) {
	s := os.Getenv(key)
	if s == "" {
		return defaultHour, defaultMinute
	}
	hour, minute, err := parseCutoff(s)
	if err != nil {
		return defaultHour, defaultMinute
	}
	return hour, minute
}

func Load() *Config {
	cutoffHour, cutoffMinute := envCutoff("ATTENDANCE_CUTOFF", 13, 0)

	return &Config{
		Server: ServerConfig{
			Host:           envString("WEB_HOST", "0.0.0.0"),
			Port:           envInt("WEB_PORT", 8080),
			AllowedOrigins: envList("WEB_ALLOWED_ORIGINS"),
		},
		Database: DatabaseConfig{
			URL:          os.Getenv("DATABASE_URL"),
			MaxOpenConns: envInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns: envInt("DATABASE_MAX_IDLE_CONNS", 5),
		},
		Recognizer: RecognizerConfig{
			ModelDir:     os.Getenv("FACE_MODEL_DIR"),
			MaxImageSize: envInt("FACE_MAX_IMAGE_SIZE", 1600),
		},
		Match: MatchConfig{
			Threshold:   envFloat("FACE_MATCH_THRESHOLD", 0.6),
			TemplateDim: envInt("FACE_TEMPLATE_DIM", 128),
		},
		Attendance: AttendanceConfig{
			CutoffHour:   cutoffHour,
			CutoffMinute: cutoffMinute,
		},
		Store: StoreConfig{
			TemplatePath: os.Getenv("TEMPLATE_STORE_PATH"),
		},
	}
}

// envString reads an environment variable with a default fallback.
func envString(key, defaultVal string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return defaultVal
}

// envList reads a comma-separated environment variable, dropping empty
// entries and surrounding whitespace.
func envList(key string) []string {
	var items []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
