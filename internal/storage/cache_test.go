package storage

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const testID = "dQw4w9WgXcQ"

func newTestCache(t *testing.T) *FileCache {
	t.Helper()
	c, err := NewFileCache(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatalf("NewFileCache() error = %v", err)
	}
	return c
}

func writeString(s string) WriteFunc {
	return func(w io.Writer) error {
		_, err := io.WriteString(w, s)
		return err
	}
}

func TestPathIsDeterministic(t *testing.T) {
	c := newTestCache(t)
	want := filepath.Join(c.Dir(), testID+".mp3")
	if got := c.Path(testID); got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
	if c.Path(testID) != c.Path(testID) {
		t.Error("Path() is not stable")
	}
	if c.Exists(testID) {
		t.Error("Exists() = true for empty cache")
	}
}

func TestStoreAndMetadata(t *testing.T) {
	c := newTestCache(t)

	path, err := c.Store(testID, Metadata{Title: "Test", DurationSeconds: 212}, writeString("ID3 audio"))
	if err != nil {
		t.Fatalf("Store() error = %v", err)
	}
	if path != c.Path(testID) {
		t.Errorf("Store() path = %q, want %q", path, c.Path(testID))
	}
	if !c.Exists(testID) {
		t.Fatal("Exists() = false after Store")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "ID3 audio" {
		t.Errorf("stored content = %q", data)
	}

	meta, err := c.Metadata(testID)
	if err != nil {
		t.Fatalf("Metadata() error = %v", err)
	}
	if meta.ID != testID || meta.Title != "Test" || meta.DurationSeconds != 212 {
		t.Errorf("Metadata() = %+v", meta)
	}
	if meta.StoredAt.IsZero() {
		t.Error("StoredAt was not set")
	}
}

func TestStoreFailureLeavesNothing(t *testing.T) {
	c := newTestCache(t)

	_, err := c.Store(testID, Metadata{Title: "Test"}, func(w io.Writer) error {
		io.WriteString(w, "half an mp3")
		return errors.New("ffmpeg exited with status 1")
	})
	if err == nil {
		t.Fatal("expected error from Store")
	}
	if c.Exists(testID) {
		t.Error("Exists() = true after failed Store")
	}

	entries, err := os.ReadDir(c.Dir())
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("cache dir not empty after failure: %v", names)
	}
}

func TestStoreRejectsInvalidID(t *testing.T) {
	c := newTestCache(t)
	for _, id := range []string{"", "../../../x", "tooshort"} {
		if _, err := c.Store(id, Metadata{}, writeString("x")); !errors.Is(err, ErrInvalidID) {
			t.Errorf("Store(%q) error = %v, want ErrInvalidID", id, err)
		}
	}
}

func TestStoreIsAtomicForReaders(t *testing.T) {
	c := newTestCache(t)

	writing := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		_, err := c.Store(testID, Metadata{Title: "Test"}, func(w io.Writer) error {
			if _, err := io.WriteString(w, strings.Repeat("a", 4096)); err != nil {
				return err
			}
			close(writing)
			<-release
			_, err := io.WriteString(w, strings.Repeat("b", 4096))
			return err
		})
		done <- err
	}()

	<-writing
	for i := 0; i < 100; i++ {
		if c.Exists(testID) {
			t.Fatal("Exists() observed a partially written artifact")
		}
		if _, err := os.Stat(c.Path(testID)); !os.IsNotExist(err) {
			t.Fatalf("final path visible during write: %v", err)
		}
	}
	close(release)

	if err := <-done; err != nil {
		t.Fatalf("Store() error = %v", err)
	}
	if !c.Exists(testID) {
		t.Fatal("Exists() = false after Store completed")
	}
	info, err := os.Stat(c.Path(testID))
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() != 8192 {
		t.Errorf("stored size = %d, want 8192", info.Size())
	}
}

func TestStoreOverwritesExisting(t *testing.T) {
	c := newTestCache(t)
	if _, err := c.Store(testID, Metadata{Title: "Old"}, writeString("old")); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Store(testID, Metadata{Title: "New"}, writeString("new")); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(c.Path(testID))
	if string(data) != "new" {
		t.Errorf("content = %q, want new", data)
	}
	meta, err := c.Metadata(testID)
	if err != nil || meta.Title != "New" {
		t.Errorf("Metadata() = %+v, %v", meta, err)
	}
}

func TestMetadataMissing(t *testing.T) {
	c := newTestCache(t)
	if _, err := c.Metadata(testID); err == nil {
		t.Error("expected error for missing metadata")
	}
}

func TestStats(t *testing.T) {
	c := newTestCache(t)
	if _, err := c.Store(testID, Metadata{}, writeString("12345")); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Store("a-b_c1234XY", Metadata{}, writeString("123")); err != nil {
		t.Fatal(err)
	}
	old := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(c.Path("a-b_c1234XY"), old, old); err != nil {
		t.Fatal(err)
	}

	stats, err := c.Stats()
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.Entries != 2 || stats.TotalBytes != 8 {
		t.Errorf("Stats() = %+v", stats)
	}
	if stats.OldestEntry.After(old.Add(time.Second)) {
		t.Errorf("OldestEntry = %v, want about %v", stats.OldestEntry, old)
	}
}

func TestEnsureWritableDirRejectsFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := EnsureWritableDir(file); err == nil {
		t.Error("expected error for regular file")
	}
}
