package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func touch(t *testing.T, dir, name string, mtime time.Time) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(name), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestEvictRemovesOnlyExpired(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	day := 24 * time.Hour

	fresh := touch(t, dir, "aaaaaaaaaaa.mp3", now.Add(-6*day))
	expired := touch(t, dir, "bbbbbbbbbbb.mp3", now.Add(-7*day-time.Second))
	ancient := touch(t, dir, "ccccccccccc.mp3", now.Add(-30*day))
	expiredMeta := touch(t, dir, "ccccccccccc.json", now.Add(-30*day))
	if err := os.Mkdir(filepath.Join(dir, "nested"), 0755); err != nil {
		t.Fatal(err)
	}

	result, err := Evict(dir, 7*day, now)
	if err != nil {
		t.Fatalf("Evict() error = %v", err)
	}

	if _, err := os.Stat(fresh); err != nil {
		t.Errorf("fresh file removed: %v", err)
	}
	for _, p := range []string{expired, ancient, expiredMeta} {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Errorf("%s should be removed", filepath.Base(p))
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "nested")); err != nil {
		t.Errorf("directory should be left alone: %v", err)
	}
	if result.Removed != 3 || result.Scanned != 4 || result.Failed != 0 {
		t.Errorf("Evict() result = %+v", result)
	}
	if result.FreedBytes == 0 {
		t.Error("FreedBytes not counted")
	}
}

func TestEvictKeepsExactBoundary(t *testing.T) {
	dir := t.TempDir()
	now := time.Now().Truncate(time.Second)
	path := touch(t, dir, "aaaaaaaaaaa.mp3", now.Add(-DefaultRetention))

	if _, err := Evict(dir, DefaultRetention, now); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("file exactly at retention age removed: %v", err)
	}
}

func TestEvictMissingDir(t *testing.T) {
	result, err := Evict(filepath.Join(t.TempDir(), "missing"), DefaultRetention, time.Now())
	if err != nil {
		t.Fatalf("Evict() on missing dir error = %v", err)
	}
	if result.Scanned != 0 {
		t.Errorf("result = %+v", result)
	}
}

func TestFileCacheEvictOlderThan(t *testing.T) {
	c := newTestCache(t)
	if _, err := c.Store(testID, Metadata{Title: "Test"}, writeString("x")); err != nil {
		t.Fatal(err)
	}
	old := time.Now().Add(-8 * 24 * time.Hour)
	for _, p := range []string{c.Path(testID), c.metaPath(testID)} {
		if err := os.Chtimes(p, old, old); err != nil {
			t.Fatal(err)
		}
	}

	result, err := c.EvictOlderThan(DefaultRetention)
	if err != nil {
		t.Fatal(err)
	}
	if result.Removed != 2 {
		t.Errorf("Removed = %d, want 2", result.Removed)
	}
	if c.Exists(testID) {
		t.Error("entry still present after eviction")
	}
}

func TestEvictLeavesForeignFiles(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	old := now.Add(-30 * 24 * time.Hour)

	foreign := []string{
		touch(t, dir, ".env", old),
		touch(t, dir, "bot", old),
		touch(t, dir, "notes.txt", old),
		touch(t, dir, "short.mp3", old),
		touch(t, dir, "dQw4w9WgXcQ.mp3.bak", old),
	}
	entry := touch(t, dir, "dQw4w9WgXcQ.mp3", old)
	part := touch(t, dir, ".dQw4w9WgXcQ.123456.part", old)

	result, err := Evict(dir, DefaultRetention, now)
	if err != nil {
		t.Fatalf("Evict() error = %v", err)
	}
	for _, p := range foreign {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("foreign file %s removed: %v", filepath.Base(p), err)
		}
	}
	for _, p := range []string{entry, part} {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Errorf("%s should be removed", filepath.Base(p))
		}
	}
	if result.Removed != 2 || result.Scanned != 2 {
		t.Errorf("Evict() result = %+v", result)
	}
}

func TestEvictRejectsNonPositiveRetention(t *testing.T) {
	dir := t.TempDir()
	path := touch(t, dir, "dQw4w9WgXcQ.mp3", time.Now().Add(-time.Hour))

	for _, maxAge := range []time.Duration{0, -time.Second} {
		if _, err := Evict(dir, maxAge, time.Now()); !errors.Is(err, ErrInvalidRetention) {
			t.Errorf("Evict(%v) error = %v, want ErrInvalidRetention", maxAge, err)
		}
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("entry removed with invalid retention: %v", err)
	}
}

func TestIsCacheFile(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"dQw4w9WgXcQ.mp3", true},
		{"dQw4w9WgXcQ.json", true},
		{".dQw4w9WgXcQ.42.part", true},
		{"a-b_c-d_e-f.mp3", true},
		{".env", false},
		{"go.mod", false},
		{"dQw4w9WgXc.mp3", false},
		{"dQw4w9WgXcQ.mp4", false},
		{"dQw4w9WgXcQ.part", false},
		{".probe-123", false},
	}
	for _, tt := range tests {
		if got := IsCacheFile(tt.name); got != tt.want {
			t.Errorf("IsCacheFile(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
