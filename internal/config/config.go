package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/sethvargo/go-envconfig"
	log "github.com/sirupsen/logrus"
)

type (
	Config struct {
		DataDir     string `env:"DATA_DIR,default=~/.tgadmin"`
		DBName      string `env:"DB_NAME,default=tgadmin.db"`
		LogLevel    int    `env:"LOG_LEVEL,default=4"`
		MetricsAddr string `env:"METRICS_ADDR,default=:2112"`
		Migrate     Migrate
	}

	Migrate struct {
		// Down steps flagged lossy in the catalog refuse to run unless this
		// is set. There is no way to get the dropped data back.
		AllowLossyDown bool `env:"MIGRATE_ALLOW_LOSSY_DOWN,default=false"`
	}
)

var (
	once         sync.Once
	globalConfig = &Config{}
	globalErr    error
)

func Load() (Config, error) {
	once.Do(func() {
		cfg := &Config{}
		envcfg := envconfig.Config{
			Lookuper: envconfig.PrefixLookuper("TGA_", envconfig.OsLookuper()),
			Target:   cfg,
		}
		if err := envconfig.ProcessWith(context.Background(), &envcfg); err != nil {
			globalErr = fmt.Errorf("process env config: %w", err)
			return
		}
		home, err := os.UserHomeDir()
		if err != nil {
			globalErr = fmt.Errorf("get user home directory: %w", err)
			return
		}
		cfg.DataDir = strings.Replace(cfg.DataDir, "~", home, 1)
		log.Traceln("loaded config")
		globalConfig = cfg
	})
	return *globalConfig, globalErr
}

func Get() Config {
	cfg, err := Load()
	if err != nil {
		log.WithField("error", err.Error()).Error("cant load config")
	}
	return cfg
}
