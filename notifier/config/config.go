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
)

type HTTPServer struct {
	Host         string        `yaml:"host" envconfig:"NOTIFIER_HTTP_HOST" default:"0.0.0.0"`
	Port         string        `yaml:"port" envconfig:"NOTIFIER_HTTP_PORT" default:"8090"`
	ReadTimeout  time.Duration `yaml:"readTimeout" envconfig:"HTTP_READ" default:"10s"`
	WriteTimeout time.Duration `yaml:"writeTimeout" envconfig:"HTTP_WRITE"`
}

type Config struct {
	Server   HTTPServer  `yaml:"server"`
	Database postgres.DB `yaml:"db"`
	Kafka    kafka.Config
	Log      logger.Log `yaml:"log"`
}

var (
	once sync.Once
	cfg  *Config
)

func NewConfig(ops ...Option) *Config {
	once.Do(func() {
		var config Config
		for _, op := range ops {
			op(&config)
		}
		if err := envconfig.Process("", &config); err != nil {
			log.Fatal("NewConfig ", err)
		}
		cfg = &config
		printConfig(cfg)
	})

	return cfg
}

func printConfig(cfg *Config) {
	masked := *cfg
	masked.Database.Password = "***"
	jscfg, _ := json.MarshalIndent(masked, "", "	") //nolint:errcheck
	fmt.Println(string(jscfg))
}
