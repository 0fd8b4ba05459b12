// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/desertthunder/pbx/internal/models"
)

// MockPlayer is a scriptable test double for the playback orchestrator.
//
// Zero value reports no devices and an unassigned track; set the fields to
// script behavior and inspect the counters afterward.
type MockPlayer struct {
	DeviceList  []models.PlayerDevice
	Track       models.Track
	PlayErr     error
	LaunchErr   error
	PlayCalls   int
	LaunchCalls int
	LastPlay    models.PlaybackOptions
}

func (m *MockPlayer) Devices(ctx context.Context, bypassCache bool) []models.PlayerDevice {
	return m.DeviceList
}

func (m *MockPlayer) CurrentTrack(ctx context.Context) models.Track {
	return m.Track
}

func (m *MockPlayer) Play(ctx context.Context, opts models.PlaybackOptions) error {
	m.PlayCalls++
	m.LastPlay = opts
	return m.PlayErr
}

func (m *MockPlayer) LaunchWebPlayer(opts models.PlaybackOptions) error {
	m.LaunchCalls++
	return m.LaunchErr
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
