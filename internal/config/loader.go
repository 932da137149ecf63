package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration with the following priority, highest first:
// REGSCAN_* environment variables, then .regscan/config.yml under rootDir,
// then built-in defaults. A missing config file is not an error.
func Load(rootDir string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(filepath.Join(rootDir, ".regscan"))

	v.SetEnvPrefix("REGSCAN")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.BindEnv("rasterize.binary")
	v.BindEnv("rasterize.dpi")
	v.BindEnv("ocr.languages")
	v.BindEnv("ocr.tessdata_prefix")
	v.BindEnv("classify.threshold")
	v.BindEnv("batch.workers")
	v.BindEnv("export.format")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	def := Default()
	v.SetDefault("rasterize.binary", def.Rasterize.Binary)
	v.SetDefault("rasterize.dpi", def.Rasterize.DPI)
	v.SetDefault("ocr.languages", def.OCR.Languages)
	v.SetDefault("ocr.tessdata_prefix", def.OCR.TessdataPrefix)
	v.SetDefault("classify.threshold", def.Classify.Threshold)
	v.SetDefault("classify.titles", def.Classify.Titles)
	v.SetDefault("batch.workers", def.Batch.Workers)
	v.SetDefault("export.format", def.Export.Format)
	v.SetDefault("paths.include", def.Paths.Include)
	v.SetDefault("paths.ignore", def.Paths.Ignore)
}
