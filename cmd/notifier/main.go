package main

import (
	stdLog "log"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"

	"github.com/Astemirdum/inventory-loan-service/notifier/app"
	"github.com/Astemirdum/inventory-loan-service/notifier/config"
)

func main() {
	if err := godotenv.Load(); err != nil {
		stdLog.Println("no .env file, using the environment only:", err)
	}
	cfg := config.NewConfig(config.WithLogLevel(zapcore.DebugLevel))

	if err := app.Run(cfg); err != nil {
		stdLog.Fatal("notifier: ", err)
	}
}
