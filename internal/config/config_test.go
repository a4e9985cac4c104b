package config

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

func resetConfig(t *testing.T) afero.Fs {
	t.Helper()
	viper.Reset()
	mem := afero.NewMemMapFs()
	SetFilesystem(mem)
	t.Cleanup(func() {
		viper.Reset()
		SetFilesystem(afero.NewOsFs())
	})
	return mem
}

func TestLoadAppliesDefaultsWithNoConfigFile(t *testing.T) {
	resetConfig(t)

	if err := Load(""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if GlobalAppConfig.Pipeline.BeamWidth != 10 {
		t.Fatalf("expected default beam_width=10, got %d", GlobalAppConfig.Pipeline.BeamWidth)
	}
	if GlobalAppConfig.Pipeline.SimilarityThreshold != 0.85 {
		t.Fatalf("expected default similarity_threshold=0.85, got %v", GlobalAppConfig.Pipeline.SimilarityThreshold)
	}
	if GlobalAppConfig.Pipeline.TopK != 5 {
		t.Fatalf("expected default top_k=5, got %d", GlobalAppConfig.Pipeline.TopK)
	}
	if !GlobalAppConfig.Pipeline.POSFilterEnabled {
		t.Fatal("expected pos_filter_enabled default true")
	}
}

func TestLoadEnvironmentVariableOverridesDefault(t *testing.T) {
	resetConfig(t)
	t.Setenv("FACTWING_PIPELINE_TOP_K", "0")

	if err := Load(""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if GlobalAppConfig.Pipeline.TopK != 0 {
		t.Fatalf("expected env override top_k=0, got %d", GlobalAppConfig.Pipeline.TopK)
	}
}

func TestLoadRejectsOutOfRangeSimilarityThreshold(t *testing.T) {
	resetConfig(t)
	t.Setenv("FACTWING_PIPELINE_SIMILARITY_THRESHOLD", "1.5")

	if err := Load(""); err == nil {
		t.Fatal("expected validation error for similarity_threshold > 1")
	}
}

func TestLoadReadsProjectConfigFile(t *testing.T) {
	mem := resetConfig(t)

	if err := mem.MkdirAll(configDirName, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	yaml := "pipeline:\n  beam_width: 42\nprovider:\n  provider: gemini\n"
	if err := afero.WriteFile(mem, filepath.Join(configDirName, "config.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if err := Load(""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if GlobalAppConfig.Pipeline.BeamWidth != 42 {
		t.Fatalf("expected beam_width=42 from config file, got %d", GlobalAppConfig.Pipeline.BeamWidth)
	}
	if GlobalAppConfig.Provider.Provider != "gemini" {
		t.Fatalf("expected provider=gemini from config file, got %q", GlobalAppConfig.Provider.Provider)
	}
}

func TestInitDefaultFileRefusesToOverwrite(t *testing.T) {
	resetConfig(t)

	path, err := InitDefaultFile()
	if err != nil {
		t.Fatalf("unexpected error on first init: %v", err)
	}
	if _, err := InitDefaultFile(); err == nil {
		t.Fatalf("expected error when config file already exists at %s", path)
	}
}
