package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/handbeat/internal/chart"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleChart(t *testing.T, title string) *chart.Chart {
	t.Helper()
	c, err := chart.New(chart.Meta{Title: title, Artist: "Nobody", Audio: "/music/song.ogg"}, []chart.Note{
		{Time: 2.0, Lane: 3, Layer: 2, Hand: chart.HandRight, Direction: chart.DirDown, Grip: true},
		{Time: 1.0, Lane: 0, Hand: chart.HandLeft},
		{Time: 2.0, Lane: 1, Layer: 1, Hand: chart.HandLeft, Direction: chart.DirUp},
	})
	if err != nil {
		t.Fatalf("chart.New: %v", err)
	}
	return c
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestSaveAndLoadChart(t *testing.T) {
	store := openStore(t)
	orig := sampleChart(t, "First Light")

	if _, err := store.SaveChart("first-light", orig); err != nil {
		t.Fatalf("SaveChart() failed: %v", err)
	}

	got, err := store.LoadChart("first-light")
	if err != nil {
		t.Fatalf("LoadChart() failed: %v", err)
	}
	if got.Title != orig.Title || got.Artist != orig.Artist || got.Audio != orig.Audio {
		t.Errorf("meta = %+v, want %+v", got.Meta, orig.Meta)
	}
	if got.Len() != orig.Len() {
		t.Fatalf("notes = %d, want %d", got.Len(), orig.Len())
	}
	for i, want := range orig.Notes() {
		if n := got.At(chart.NoteID(i)); n != want {
			t.Errorf("note %d = %v, want %v", i, n, want)
		}
	}
}

func TestSaveChartReplaces(t *testing.T) {
	store := openStore(t)
	if _, err := store.SaveChart("song", sampleChart(t, "Old")); err != nil {
		t.Fatal(err)
	}

	short, _ := chart.New(chart.Meta{Title: "New"}, []chart.Note{{Time: 0.5}})
	if _, err := store.SaveChart("song", short); err != nil {
		t.Fatal(err)
	}

	got, err := store.LoadChart("song")
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "New" || got.Len() != 1 {
		t.Errorf("got %q with %d notes, want the replacement", got.Title, got.Len())
	}

	entries, _ := store.ListCharts()
	if len(entries) != 1 {
		t.Errorf("library has %d entries, want 1", len(entries))
	}
}

func TestListCharts(t *testing.T) {
	store := openStore(t)
	for _, title := range []string{"zebra run", "Alpha", "middle"} {
		if _, err := store.SaveChart(Slug(title), sampleChart(t, title)); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := store.ListCharts()
	if err != nil {
		t.Fatalf("ListCharts() failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("Expected 3 charts, got %d", len(entries))
	}
	want := []string{"Alpha", "middle", "zebra run"}
	for i, e := range entries {
		if e.Title != want[i] {
			t.Errorf("entry %d = %q, want %q", i, e.Title, want[i])
		}
		if e.Notes != 3 || e.Duration != 2.0 {
			t.Errorf("entry %q: notes=%d duration=%v", e.Title, e.Notes, e.Duration)
		}
	}
	if entries[2].Slug != "zebra-run" {
		t.Errorf("slug = %q", entries[2].Slug)
	}
}

func TestDeleteChart(t *testing.T) {
	store := openStore(t)
	store.SaveChart("gone", sampleChart(t, "Gone"))

	if err := store.DeleteChart("gone"); err != nil {
		t.Fatalf("DeleteChart() failed: %v", err)
	}
	if _, err := store.LoadChart("gone"); !errors.Is(err, ErrNotFound) {
		t.Errorf("LoadChart after delete = %v, want ErrNotFound", err)
	}
	if err := store.DeleteChart("gone"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete = %v, want ErrNotFound", err)
	}
}

func TestSlug(t *testing.T) {
	tests := map[string]string{
		"First Light":        "first-light",
		"  Hello,  World!! ": "hello-world",
		"Überschall 2000":    "überschall-2000",
		"---":                "",
	}
	for in, want := range tests {
		if got := Slug(in); got != want {
			t.Errorf("Slug(%q) = %q, want %q", in, got, want)
		}
	}
}
