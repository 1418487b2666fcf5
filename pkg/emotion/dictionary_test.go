package emotion

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "emotions.yaml")
	content := `
emotions:
  - label: 开心
    keywords: [开心, 高兴, 哈哈]
  - label: 疲惫
    keywords: [累, 困, 躺]
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	dict, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if dict.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", dict.Len())
	}

	entries := dict.Entries()
	if entries[0].Label != "开心" || len(entries[0].Keywords) != 3 {
		t.Errorf("first entry = %+v", entries[0])
	}
	if entries[1].Label != "疲惫" {
		t.Errorf("second entry = %+v", entries[1])
	}
}

func TestLoadRejectsBrokenDictionaries(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty file", ""},
		{"no emotions", "emotions: []"},
		{"entry without label", "emotions:\n  - keywords: [a]"},
		{"entry without keywords", "emotions:\n  - label: x"},
		{"broken yaml", "emotions: ["},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "emotions.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("Load() should have failed")
			}
		})
	}
}

func TestDefaultDictionary(t *testing.T) {
	dict := Default()
	if dict.Len() != 9 {
		t.Errorf("Default() has %d emotions, want 9", dict.Len())
	}
	for _, e := range dict.Entries() {
		if e.Label == "" || len(e.Keywords) == 0 {
			t.Errorf("invalid default entry: %+v", e)
		}
	}
}
