package config

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/Astemirdum/inventory-loan-service/pkg/kafka"
	"github.com/Astemirdum/inventory-loan-service/pkg/logger"
	"github.com/Astemirdum/inventory-loan-service/pkg/postgres"
	"github.com/Astemirdum/inventory-loan-service/pkg/redislock"
)

type HTTPServer struct {
	Host         string        `yaml:"host" envconfig:"INVENTORY_HTTP_HOST" default:"0.0.0.0"`
	Port         string        `yaml:"port" envconfig:"INVENTORY_HTTP_PORT" default:"8070"`
	ReadTimeout  time.Duration `yaml:"readTimeout" envconfig:"HTTP_READ" default:"10s"`
	WriteTimeout time.Duration `yaml:"writeTimeout" envconfig:"HTTP_WRITE"`
}

const defaultScanInterval = time.Minute

type Scanner struct {
	Enabled  bool          `envconfig:"SCANNER_ENABLED" default:"true"`
	Interval time.Duration `envconfig:"SCANNER_INTERVAL" default:"1m"`
}

// normalize replaces a non-positive interval, which the ticker cannot run on.
func (s *Scanner) normalize() {
	if s.Interval <= 0 {
		log.Printf("SCANNER_INTERVAL %s is not positive, using %s", s.Interval, defaultScanInterval)
		s.Interval = defaultScanInterval
	}
}

type Config struct {
	Server   HTTPServer  `yaml:"server"`
	Database postgres.DB `yaml:"db"`
	Kafka    kafka.Config
	// Redis is optional. Without it every replica runs the overdue scan.
	Redis   redislock.Config
	Scanner Scanner
	Log     logger.Log `yaml:"log"`
}

var (
	once sync.Once
	cfg  *Config
)

// NewConfig reads config from environment. Options set defaults the environment can override.
func NewConfig(ops ...Option) *Config {
	once.Do(func() {
		var config Config
		for _, op := range ops {
			op(&config)
		}
		if err := envconfig.Process("", &config); err != nil {
			log.Fatal("NewConfig ", err)
		}
		config.Scanner.normalize()
		cfg = &config
		printConfig(cfg)
	})

	return cfg
}

func printConfig(cfg *Config) {
	masked := *cfg
	masked.Database.Password = "***"
	masked.Redis.Password = "***"
	jscfg, _ := json.MarshalIndent(masked, "", "	") //nolint:errcheck
	fmt.Println(string(jscfg))
}
