package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("cannot write temp config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
s3:
  endpoint: s3.example.com
  bucket: stickers
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Catalog.RootPrefix != "sably/" {
		t.Errorf("RootPrefix = %q, want sably/", cfg.Catalog.RootPrefix)
	}
	if len(cfg.Catalog.Extensions) != 5 {
		t.Errorf("Extensions = %v, want 5 defaults", cfg.Catalog.Extensions)
	}
	if cfg.Algorithm.KeywordWeight != 0.7 || cfg.Algorithm.SemanticWeight != 0.3 {
		t.Errorf("weights = %v/%v, want 0.7/0.3",
			cfg.Algorithm.KeywordWeight, cfg.Algorithm.SemanticWeight)
	}
	if cfg.Recommend.DefaultTopK != 1 || cfg.Recommend.MaxTopK != 10 {
		t.Errorf("top_k defaults = %d/%d, want 1/10",
			cfg.Recommend.DefaultTopK, cfg.Recommend.MaxTopK)
	}
}

func TestLoadExpandsEnv(t *testing.T) {
	t.Setenv("SABLY_TEST_SECRET", "s3cr3t")
	path := writeConfig(t, `
s3:
  endpoint: s3.example.com
  bucket: stickers
  secret_key: ${SABLY_TEST_SECRET}
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.S3.SecretKey != "s3cr3t" {
		t.Errorf("SecretKey = %q, want expanded env value", cfg.S3.SecretKey)
	}
}

func TestLoadRejectsBadWeights(t *testing.T) {
	path := writeConfig(t, `
s3:
  endpoint: s3.example.com
  bucket: stickers
algorithm:
  keyword_weight: 0.7
  semantic_weight: 0.7
`)

	if _, err := Load(path); err == nil {
		t.Fatal("Load() should reject weights that do not sum to 1.0")
	}
}

func TestValidateWeightsEpsilon(t *testing.T) {
	tests := []struct {
		name    string
		kw, sw  float64
		wantErr bool
	}{
		{"exact", 0.7, 0.3, false},
		{"within epsilon", 0.7004, 0.3, false},
		{"outside epsilon", 0.71, 0.3, true},
		{"all keyword", 1.0, 0.0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := AlgorithmConfig{KeywordWeight: tt.kw, SemanticWeight: tt.sw}
			err := a.ValidateWeights()
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateWeights() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateTopK(t *testing.T) {
	r := RecommendConfig{MinTopK: 1, MaxTopK: 10}

	if err := r.ValidateTopK(1); err != nil {
		t.Errorf("ValidateTopK(1) = %v, want nil", err)
	}
	if err := r.ValidateTopK(10); err != nil {
		t.Errorf("ValidateTopK(10) = %v, want nil", err)
	}
	if err := r.ValidateTopK(0); err == nil {
		t.Error("ValidateTopK(0) should fail")
	}
	if err := r.ValidateTopK(11); err == nil {
		t.Error("ValidateTopK(11) should fail")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("Load() should fail for missing file")
	}
}
