package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ilkoid/sably/pkg/s3storage"
)

// fakeStorage — мок S3 клиента с фиксированным набором объектов.
type fakeStorage struct {
	objects []s3storage.StoredObject
	err     error
}

func (f *fakeStorage) WalkObjects(ctx context.Context, prefix string, fn func(s3storage.StoredObject) error) error {
	for _, obj := range f.objects {
		if err := fn(obj); err != nil {
			return err
		}
	}
	return f.err
}

func (f *fakeStorage) PublicURL(key string) string {
	return "https://cdn.test/" + key
}

var defaultExtensions = []string{".gif", ".jpg", ".jpeg", ".png", ".webp"}

func TestListFiltersAndParses(t *testing.T) {
	modified := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	src := &fakeStorage{objects: []s3storage.StoredObject{
		{Key: "sably/开心/"},                                          // псевдо-папка
		{Key: "sably/开心/a.gif", Size: 1024, LastModified: modified}, // ok
		{Key: "sably/开心/b.GIF", Size: 2048},                         // ok, регистр расширения
		{Key: "sably/疲惫/deep/nested.png", Size: 10},                 // ok, категория = первый сегмент
		{Key: "sably/readme.txt"},                                   // расширение вне allow-list
		{Key: "sably/orphan.gif"},                                   // меньше двух сегментов
	}}

	lister := NewLister(src, "sably/", defaultExtensions)
	records, err := lister.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("List() returned %d records, want 3", len(records))
	}

	first := records[0]
	if first.Category != "开心" || first.Filename != "a.gif" || first.Extension != ".gif" {
		t.Errorf("record = %+v, want category 开心 / filename a.gif / ext .gif", first)
	}
	if first.URL != "https://cdn.test/sably/开心/a.gif" {
		t.Errorf("URL = %q", first.URL)
	}
	if first.LastModified != "2025-06-01T12:00:00Z" {
		t.Errorf("LastModified = %q, want RFC3339", first.LastModified)
	}

	nested := records[2]
	if nested.Category != "疲惫" || nested.Filename != "nested.png" {
		t.Errorf("nested record = %+v", nested)
	}
}

func TestListAbortsOnStorageError(t *testing.T) {
	src := &fakeStorage{
		objects: []s3storage.StoredObject{{Key: "sably/开心/a.gif"}},
		err:     s3storage.ErrListing,
	}

	lister := NewLister(src, "sably/", defaultExtensions)
	records, err := lister.List(context.Background())
	if !errors.Is(err, s3storage.ErrListing) {
		t.Fatalf("List() error = %v, want ErrListing", err)
	}
	if records != nil {
		t.Error("partial records must not be returned on listing failure")
	}
}

func TestFormatModified(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"structured timestamp", time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC), "2025-01-02T03:04:05Z"},
		{"zero time", time.Time{}, ""},
		{"epoch seconds int", int64(1735689600), "2025-01-01T00:00:00Z"},
		{"epoch seconds float", float64(1735689600), "2025-01-01T00:00:00Z"},
		{"zero epoch", int64(0), ""},
		{"already a string", "2024-12-31T23:59:59Z", "2024-12-31T23:59:59Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatModified(tt.input); got != tt.expected {
				t.Errorf("FormatModified(%v) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
