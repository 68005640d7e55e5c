package main

import (
	"cat_connect/startup"
	"cat_connect/startup/config"
)

func main() {
	cfg := config.NewConfig()
	server := startup.NewServer(cfg)
	server.Start()

}
