package catalog

import (
	"reflect"
	"sort"
	"testing"
	"time"
)

func testBuilder() *Builder {
	b := NewBuilder("coze-archive", "oss-cn-beijing.aliyuncs.com", "sably/")
	b.now = func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) }
	return b
}

func sampleRecords() []FileRecord {
	return []FileRecord{
		{Category: "开心", URL: "https://cdn.test/sably/开心/b.gif"},
		{Category: "开心", URL: "https://cdn.test/sably/开心/a.gif"},
		{Category: "疲惫", URL: "https://cdn.test/sably/疲惫/z.png"},
	}
}

func TestBuildGroupsAndSorts(t *testing.T) {
	snap := testBuilder().Build(sampleRecords())

	want := map[string][]string{
		"开心": {"https://cdn.test/sably/开心/a.gif", "https://cdn.test/sably/开心/b.gif"},
		"疲惫": {"https://cdn.test/sably/疲惫/z.png"},
	}
	if !reflect.DeepEqual(snap.Categories, want) {
		t.Errorf("Categories = %v, want %v", snap.Categories, want)
	}

	if snap.Meta.TotalCategories != 2 {
		t.Errorf("TotalCategories = %d, want 2", snap.Meta.TotalCategories)
	}
	if snap.Meta.TotalFiles != 3 {
		t.Errorf("TotalFiles = %d, want 3", snap.Meta.TotalFiles)
	}
	if snap.Meta.SourceDescriptor != "s3://coze-archive/sably/@oss-cn-beijing.aliyuncs.com" {
		t.Errorf("SourceDescriptor = %q", snap.Meta.SourceDescriptor)
	}
	if snap.Meta.GeneratedAt != "2025-06-01T00:00:00Z" {
		t.Errorf("GeneratedAt = %q", snap.Meta.GeneratedAt)
	}
}

// Пересборка по неизменному листингу обязана дать идентичный индекс,
// независимо от порядка записей (generated_at не в счёт).
func TestBuildDeterministic(t *testing.T) {
	records := sampleRecords()
	first := testBuilder().Build(records)

	// Обратный порядок поступления записей
	reversed := make([]FileRecord, len(records))
	for i, r := range records {
		reversed[len(records)-1-i] = r
	}
	second := testBuilder().Build(reversed)

	if !reflect.DeepEqual(first.Categories, second.Categories) {
		t.Errorf("rebuild produced different categories: %v vs %v",
			first.Categories, second.Categories)
	}
}

func TestBuildEmptyListing(t *testing.T) {
	snap := testBuilder().Build(nil)

	if !snap.IsEmpty() {
		t.Error("snapshot from empty listing must be empty")
	}
	if snap.Meta.TotalCategories != 0 || snap.Meta.TotalFiles != 0 {
		t.Errorf("counts = %d/%d, want 0/0",
			snap.Meta.TotalCategories, snap.Meta.TotalFiles)
	}
}

func TestCategoryNamesSorted(t *testing.T) {
	snap := testBuilder().Build(sampleRecords())
	names := snap.CategoryNames()
	if !sort.StringsAreSorted(names) {
		t.Errorf("CategoryNames() = %v, want sorted", names)
	}
	if len(names) != 2 {
		t.Errorf("CategoryNames() = %v, want 2 entries", names)
	}
}
