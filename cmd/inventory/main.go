package main

import (
	stdLog "log"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"

	"github.com/Astemirdum/inventory-loan-service/inventory/app"
	"github.com/Astemirdum/inventory-loan-service/inventory/config"
)

func main() {
	if err := godotenv.Load(); err != nil {
		stdLog.Println("no .env file, using the environment only:", err)
	}
	cfg := config.NewConfig(
		config.WithLogLevel(zapcore.DebugLevel),
		config.WithWriteTimeout(time.Minute),
	)

	if err := app.Run(cfg); err != nil {
		stdLog.Fatal("inventory: ", err)
	}
}
