package main

import (
	"fmt"
	"os"

	"github.com/DrStiev/MyRedis/config"
	"github.com/DrStiev/MyRedis/database"
	"github.com/DrStiev/MyRedis/lib/logger"
	"github.com/DrStiev/MyRedis/tcp"
)

const configFile string = "redis.conf"

func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	return err == nil && !info.IsDir()
}

func main() {
	err := logger.Setup(&logger.Settings{
		Path:       "logs",
		Name:       "myredis",
		Ext:        "log",
		TimeFormat: "2006-01-02",
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}

	if len(os.Args) > 1 {
		config.SetupConfig(os.Args[1])
	} else if fileExists(configFile) {
		config.SetupConfig(configFile)
	}

	err = tcp.ListenAndServeWithSignal(&tcp.Config{
		Address: fmt.Sprintf("%s:%d",
			config.Properties.Bind,
			config.Properties.Port),
		MaxClients: config.Properties.MaxClients,
	}, database.NewStandaloneDatabase())
	if err != nil {
		logger.Fatal(err)
	}
}
