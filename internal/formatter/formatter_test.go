package formatter

import (
	"encoding/csv"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/pbx/internal/models"
	tu "github.com/desertthunder/pbx/internal/testing"
)

func sampleTracks() []models.Track {
	return []models.Track{
		{
			ID:         "t1",
			Name:       "Yellow",
			Artists:    []models.Artist{{ID: "a1", Name: "Coldplay"}},
			Album:      models.Album{ID: "al1", Name: "Parachutes"},
			DurationMS: 266000,
			Genre:      "rock",
		},
		{
			ID:         "t2",
			Name:       "Holocene",
			Artists:    []models.Artist{{ID: "a2", Name: "Bon Iver"}},
			DurationMS: 337000,
		},
	}
}

func TestTracksToCSV(t *testing.T) {
	t.Run("RendersHeaderAndRows", func(t *testing.T) {
		data, err := TracksToCSV(sampleTracks())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
		if err != nil {
			t.Fatalf("output is not valid CSV: %v", err)
		}
		if len(records) != 3 {
			t.Fatalf("expected header plus 2 rows, got %d", len(records))
		}
		if records[0][0] != "ID" || records[0][4] != "Duration" {
			t.Errorf("unexpected header %v", records[0])
		}
		if records[1][1] != "Yellow" || records[1][2] != "Coldplay" || records[1][4] != "4:26" {
			t.Errorf("unexpected row %v", records[1])
		}
		if records[2][3] != "" {
			t.Errorf("expected empty album cell, got %q", records[2][3])
		}
	})

	t.Run("EmptyListing", func(t *testing.T) {
		data, err := TracksToCSV(nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if lines := strings.Count(strings.TrimSpace(string(data)), "\n"); lines != 0 {
			t.Errorf("expected header only, got %q", string(data))
		}
	})
}

func TestDevicesToCSV(t *testing.T) {
	devices := []models.PlayerDevice{
		{ID: "d1", Name: "Web Player", Type: "Computer", IsActive: true, VolumePercent: 80},
	}

	data, err := DevicesToCSV(devices)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if records[1][1] != "Web Player" || records[1][3] != "true" || records[1][4] != "80" {
		t.Errorf("unexpected row %v", records[1])
	}
}

func TestTracksToMarkdown(t *testing.T) {
	data, err := TracksToMarkdown("Recently Played", sampleTracks())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := string(data)
	if !strings.HasPrefix(out, "# Recently Played\n") {
		t.Errorf("missing title heading in %q", out)
	}
	if !strings.Contains(out, "**Tracks**: 2") {
		t.Errorf("missing track count in %q", out)
	}
	if !strings.Contains(out, "1. Coldplay - Yellow (Parachutes) [4:26]") {
		t.Errorf("missing formatted row in %q", out)
	}
	if !strings.Contains(out, "2. Bon Iver - Holocene [5:37]") {
		t.Errorf("expected album-less row in %q", out)
	}
}

func TestTracksToText(t *testing.T) {
	out := string(TracksToText("Search Results", sampleTracks()))
	if !strings.Contains(out, "Search Results\n") || !strings.Contains(out, "2. Bon Iver - Holocene") {
		t.Errorf("unexpected text output %q", out)
	}
}

func TestWriteExports(t *testing.T) {
	t.Run("CSV", func(t *testing.T) {
		base := filepath.Join(t.TempDir(), "recent")
		path, err := WriteTracksCSV(sampleTracks(), base)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if path != base+"_tracks.csv" {
			t.Errorf("unexpected path %q", path)
		}
		tu.AssertFileExists(t, path)
		if content := tu.MustReadFile(t, path); !strings.Contains(content, "Coldplay") {
			t.Errorf("written CSV missing rows: %q", content)
		}
	})

	t.Run("Markdown", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "recent")
		path, err := WriteTracksMarkdown("Recently Played", sampleTracks(), dir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if path != filepath.Join(dir, "README.md") {
			t.Errorf("unexpected path %q", path)
		}
		tu.AssertFileExists(t, path)
		if content := tu.MustReadFile(t, path); !strings.HasPrefix(content, "# Recently Played") {
			t.Errorf("written markdown missing heading: %q", content)
		}
	})
}
