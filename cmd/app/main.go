package main

import (
	"plek/config"
	"plek/di"
	"plek/shared/logger"
)

// @title Plek API
// @version 1.0
// @description Institute room booking service with approval workflows.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	http := di.InitializeService()
	http.Serve()
}
