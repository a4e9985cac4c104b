// Package config provides centralized configuration loading for factwing.
// Values come from built-in defaults, a YAML file, and environment
// variables, in that order of increasing precedence (env wins over file,
// both win over defaults), via Viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

const (
	configDirName = ".factwing"
	configName    = "config"
	envPrefix     = "FACTWING"
)

// PipelineConfig holds the stage A–E parameters spec.md §6 names.
type PipelineConfig struct {
	POSFilterEnabled     bool     `mapstructure:"pos_filter_enabled"`
	POSFilterTags        []string `mapstructure:"pos_filter_tags" validate:"omitempty,min=1"`
	SimilarityThreshold  float64  `mapstructure:"similarity_threshold" validate:"min=0,max=1"`
	TopK                 int      `mapstructure:"top_k" validate:"min=0"`
	UseFastIndex         bool     `mapstructure:"use_fast_index"`
	BeamWidth            int      `mapstructure:"beam_width" validate:"min=1"`
	MaxDepth             int      `mapstructure:"max_depth" validate:"min=0"`
	MaxPaths             int      `mapstructure:"max_paths" validate:"min=1"`
	AutoSaveGraph        bool     `mapstructure:"auto_save_graph"`
	AutoSavePath         string   `mapstructure:"auto_save_path"`
	RankMethod           string   `mapstructure:"rank_method" validate:"omitempty,oneof=frequency avg_score max_score total_score combined"`
}

// ProviderConfig selects and configures the external LLM collaborators
// (the Entity Extractor and the Embedder, spec.md §6).
type ProviderConfig struct {
	Provider        string `mapstructure:"provider" validate:"omitempty,oneof=openai gemini ollama claude"`
	Model           string `mapstructure:"model"`
	EmbeddingModel  string `mapstructure:"embedding_model"`
	APIKey          string `mapstructure:"api_key"`
	BaseURL         string `mapstructure:"base_url"`
	TimeoutSeconds  int    `mapstructure:"timeout_seconds" validate:"omitempty,min=1,max=600"`
}

// AppConfig is the complete, validated application configuration.
type AppConfig struct {
	Verbose  bool           `mapstructure:"verbose"`
	Pipeline PipelineConfig `mapstructure:"pipeline" validate:"required"`
	Provider ProviderConfig `mapstructure:"provider" validate:"required"`
}

// GlobalAppConfig holds the process-wide configuration instance populated
// by Load. The CLI reads from it; library callers should prefer
// constructing their own AppConfig and ignore this global.
var GlobalAppConfig AppConfig

var validate = validator.New()

// fs backs every filesystem check Load and InitDefaultFile make, and is
// handed to Viper so config-file discovery and writing go through the same
// abstraction. Defaults to the real filesystem; tests swap in
// afero.NewMemMapFs() via SetFilesystem to avoid touching the working
// directory, the way the teacher's policy loader takes an afero.Fs instead
// of calling the os package directly.
var fs afero.Fs = afero.NewOsFs()

// SetFilesystem overrides the filesystem Load and InitDefaultFile use.
// Intended for tests.
func SetFilesystem(f afero.Fs) {
	fs = f
	viper.SetFs(fs)
}

// Load reads the config file (if present), environment variables prefixed
// FACTWING_, applies defaults, and populates GlobalAppConfig. cfgFile, if
// non-empty, overrides the search path entirely (set via the CLI's
// --config flag).
func Load(cfgFile string) error {
	viper.SetFs(fs)

	if err := godotenv.Load(); err != nil {
		// A missing .env file is not an error; API keys may come from the
		// real environment instead.
		_ = err
	}

	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		if exists, err := afero.DirExists(fs, configDirName); err == nil && exists {
			viper.AddConfigPath(configDirName)
		} else {
			home, herr := os.UserHomeDir()
			if herr == nil {
				viper.AddConfigPath(filepath.Join(home, configDirName))
			}
			viper.AddConfigPath(".")
		}
		viper.SetConfigName(configName)
		viper.SetConfigType("yaml")
	}

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("config: reading config file %s: %w", viper.ConfigFileUsed(), err)
		}
		// No config file found: proceed with defaults and environment
		// variables only.
	}

	if err := viper.Unmarshal(&GlobalAppConfig); err != nil {
		return fmt.Errorf("config: unmarshaling: %w", err)
	}

	if err := validate.Struct(&GlobalAppConfig); err != nil {
		return fmt.Errorf("config: validation: %w", err)
	}

	return nil
}

func setDefaults() {
	viper.SetDefault("verbose", false)

	viper.SetDefault("pipeline.pos_filter_enabled", true)
	viper.SetDefault("pipeline.pos_filter_tags", []string{"N", "Np", "V", "A", "Nc", "M", "R", "P"})
	viper.SetDefault("pipeline.similarity_threshold", 0.85)
	viper.SetDefault("pipeline.top_k", 5)
	viper.SetDefault("pipeline.use_fast_index", false)
	viper.SetDefault("pipeline.beam_width", 10)
	viper.SetDefault("pipeline.max_depth", 6)
	viper.SetDefault("pipeline.max_paths", 20)
	viper.SetDefault("pipeline.auto_save_graph", false)
	viper.SetDefault("pipeline.auto_save_path", filepath.Join(configDirName, "exports", "{timestamp}-graph.gexf"))
	viper.SetDefault("pipeline.rank_method", "combined")

	viper.SetDefault("provider.provider", "openai")
	viper.SetDefault("provider.model", "")
	viper.SetDefault("provider.embedding_model", "")
	viper.SetDefault("provider.base_url", "")
	viper.SetDefault("provider.timeout_seconds", 60)
}

// ConfigDir returns the directory Load searches first for a project-local
// config file, and the directory InitDefaultFile writes to.
func ConfigDir() string {
	return configDirName
}
