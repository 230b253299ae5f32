package main

import (
	"github.com/gostremiobr/gostremiobr/pkg/logger"
)

func main() {
	log := logger.New()

	app, err := newApp(log)
	if err != nil {
		log.Fatalf("[App] startup failed: %v", err)
	}
	defer app.Close()

	if err := app.Run(); err != nil {
		log.Fatalf("[App] server stopped: %v", err)
	}
}
