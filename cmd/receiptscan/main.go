package main

import (
	"context"
	"log"

	"github.com/dmitrijs2005/receiptscan/internal/cli"
	"github.com/dmitrijs2005/receiptscan/internal/config"
	"github.com/dmitrijs2005/receiptscan/internal/logging"
)

func main() {

	ctx := context.Background()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("%v", err)
	}

	logger := logging.NewZapLogger(cfg.LogLevel)
	defer logger.Sync()

	app, err := cli.NewApp(cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}
}
