package main

import (
	"github.com/oarkflow/swingtrade/app/models"
	"github.com/oarkflow/swingtrade/app/server"
	"github.com/oarkflow/swingtrade/config"
	"github.com/oarkflow/swingtrade/log"
	"github.com/oarkflow/swingtrade/stock"
)

func main() {
	config.InitConfig()
	log.SetLogging()
	stock.InitCSVStock(config.Config.DataDir)
	models.InitDB()
	server.Run()
}
