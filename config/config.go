package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"

	"github.com/moyu-x/archyve/internal"
)

type Config struct {
	Hash struct {
		Algorithm string
	}
	Scanner struct {
		IncludeHidden bool     `mapstructure:"include_hidden"`
		Exclude       []string `mapstructure:"exclude"`
	}
	Performance struct {
		Workers int
	}
	Logging struct {
		Level string
		File  string
	}
	Dedup struct {
		Mode      string
		TargetDir string `mapstructure:"target_dir"`
	}
}

var cfg Config

// Load 读取配置。file 为空时在默认目录中查找 config.yaml，找不到不算错误；
// 环境变量 ARCHYVE_<KEY>（如 ARCHYVE_HASH_ALGORITHM）覆盖文件中的值。
func Load(file string) (*Config, error) {
	v := viper.New()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(internal.DefaultConfigDir)
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/archyve")
	}

	v.SetEnvPrefix("archyve")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("hash.algorithm", internal.DefaultHashAlgorithm)
	v.SetDefault("scanner.include_hidden", true)
	v.SetDefault("scanner.exclude", []string{})
	v.SetDefault("performance.workers", internal.DefaultWorkers)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", "")
	v.SetDefault("dedup.mode", string(internal.ModeReport))
	v.SetDefault("dedup.target_dir", "")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var loaded Config
	if err := v.Unmarshal(&loaded); err != nil {
		return nil, err
	}
	cfg = loaded

	return &cfg, nil
}

func Get() *Config {
	return &cfg
}
