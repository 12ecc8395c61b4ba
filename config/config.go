package config

import (
	"github.com/sirupsen/logrus"
	"gopkg.in/ini.v1"
)

// Config represents config info
var Config ConfList

// ConfList has contents of config.ini
type ConfList struct {
	DBdriver       string
	DBname         string
	Port           int
	IP             string
	Ticker         string
	InitialBalance float64
	BrokerageFee   float64
	DataDir        string
}

// InitConfig initializes config settings
func InitConfig() {
	conf, err := ini.Load("config.ini")
	if err != nil {
		logrus.Warnf("init file open error: %v", err)
		conf = ini.Empty()
	}

	Config = ConfList{
		DBdriver:       conf.Section("db").Key("driver").String(),
		DBname:         conf.Section("db").Key("name").String(),
		Port:           conf.Section("web").Key("port").MustInt(),
		IP:             conf.Section("web").Key("ip").String(),
		Ticker:         conf.Section("backtest").Key("ticker").String(),
		InitialBalance: conf.Section("backtest").Key("balance").MustFloat64(5000),
		BrokerageFee:   conf.Section("backtest").Key("fee").MustFloat64(9.99),
		DataDir:        conf.Section("backtest").Key("data_dir").MustString("./data/date"),
	}
}
