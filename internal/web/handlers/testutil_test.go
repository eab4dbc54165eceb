package handlers

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/facegate/facegate/internal/attendance"
	"github.com/facegate/facegate/internal/config"
	"github.com/facegate/facegate/internal/database"
	"github.com/facegate/facegate/internal/database/mock"
	"github.com/facegate/facegate/internal/recognizer"
)

// testConfig creates a minimal config for testing.
func testConfig() *config.Config {
	return &config.Config{
		Recognizer: config.RecognizerConfig{MaxImageSize: 1600},
		Match:      config.MatchConfig{Threshold: 0.6, TemplateDim: 128},
		Attendance: config.AttendanceConfig{CutoffHour: 13, CutoffMinute: 0},
	}
}

// testCutoff matches testConfig's attendance cutoff.
var testCutoff = attendance.Cutoff{Hour: 13, Minute: 0}

// setNow pins the handler clock for the duration of the test.
func setNow(t *testing.T, ts time.Time) {
	t.Helper()
	prev := now
	now = func() time.Time { return ts }
	t.Cleanup(func() { now = prev })
}

// testImageB64 returns a base64 PNG whose pixels depend on the seed, so
// different seeds produce different stub templates.
func testImageB64(t *testing.T, seed uint8) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 24, 24))
	for x := 0; x < 24; x++ {
		for y := 0; y < 24; y++ {
			img.Set(x, y, color.RGBA{R: seed, G: uint8(x), B: uint8(y), A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

// stubTemplate returns the template the stub recognizer produces for
// testImageB64 with the same seed.
func stubTemplate(t *testing.T, seed uint8) []float32 {
	t.Helper()
	img, err := decodeTestImage(t, testImageB64(t, seed))
	if err != nil {
		t.Fatalf("failed to decode test image: %v", err)
	}
	tmpl, err := recognizer.NewStub().Encode(context.Background(), img, recognizer.Region{})
	if err != nil {
		t.Fatalf("failed to encode stub template: %v", err)
	}
	return tmpl
}

func decodeTestImage(t *testing.T, raw string) (image.Image, error) {
	t.Helper()
	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, err
	}
	img, err := png.Decode(bytes.NewReader(data))
	return img, err
}

// enrolledStores builds mock stores with a student enrolled from the
// given image seed.
func enrolledStores(t *testing.T, studentID, name string, seed uint8) (*mock.MockTemplateStore, *mock.MockStudentStore) {
	t.Helper()
	templates := mock.NewMockTemplateStore(128)
	templates.AddTemplate(database.StoredTemplate{
		StudentID: studentID,
		Name:      name,
		Embedding: stubTemplate(t, seed),
		Dim:       128,
		Model:     "stub",
	})
	students := mock.NewMockStudentStore()
	students.AddStudent(database.Student{StudentID: studentID, Name: name, HasFaceTemplate: true})
	return templates, students
}

// newJSONRequest creates a request with a JSON-encoded body.
func newJSONRequest(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal request body: %v", err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// parseJSONResponse parses a JSON response body into the target type.
func parseJSONResponse(t *testing.T, recorder *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.Unmarshal(recorder.Body.Bytes(), target); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nBody: %s", err, recorder.Body.String())
	}
}

// assertStatusCode checks if the response has the expected status code.
func assertStatusCode(t *testing.T, recorder *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if recorder.Code != expected {
		t.Errorf("expected status %d, got %d\nBody: %s", expected, recorder.Code, recorder.Body.String())
	}
}

// assertJSONError checks if the response is a JSON error with the expected message.
func assertJSONError(t *testing.T, recorder *httptest.ResponseRecorder, expectedMessage string) {
	t.Helper()
	var result map[string]string
	if err := json.Unmarshal(recorder.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse error response: %v\nBody: %s", err, recorder.Body.String())
	}
	if result["error"] != expectedMessage {
		t.Errorf("expected error '%s', got '%s'", expectedMessage, result["error"])
	}
}
