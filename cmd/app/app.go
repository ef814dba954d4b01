package main

import (
	"os"

	"github.com/mastimed/mobilegestion/internal/app"
	config "github.com/mastimed/mobilegestion/internal/cfg"
	"github.com/mastimed/mobilegestion/pkg/logger"
)

//	@title			Mobile Gestion API
//	@version		1.0
//	@description	Склад и продажи магазина телефонов и запчастей
//	@host			localhost:8080
//	@BasePath		/api/v1
func main() {
	log := logger.NewSlogLogger()

	cfg, err := config.Load(log)
	if err != nil {
		log.Errorf(err, "failed to load config")
		os.Exit(1)
	}

	if err := log.SetLevel(cfg.LogLevel); err != nil {
		log.Warnf("unknown LOG_LEVEL %q, keeping info", cfg.LogLevel)
	}

	application, err := app.NewApp(cfg, log)
	if err != nil {
		log.Errorf(err, "failed to initialize app")
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		os.Exit(1)
	}
}
