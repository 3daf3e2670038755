package main

import (
	"os"
	"strings"

	"github.com/billable/billable/internal/app"
	log "github.com/sirupsen/logrus"
)

func init() {
	configureLogging(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
}

// configureLogging applies LOG_LEVEL (default info) and LOG_FORMAT ("json" or text).
func configureLogging(level string, format string) {
	if strings.EqualFold(format, "json") {
		log.SetFormatter(&log.JSONFormatter{})
	}
	if level == "" {
		log.SetLevel(log.InfoLevel)
		return
	}
	parsed, err := log.ParseLevel(level)
	if err != nil {
		log.Fatalf("invalid LOG_LEVEL %q: %v", level, err)
	}
	log.SetLevel(parsed)
}

func main() {
	billable, err := app.NewApplication()
	if err != nil {
		log.Fatalf("billable could not start: %v", err)
	}
	if err := billable.Run(); err != nil {
		log.Fatalf("billable stopped: %v", err)
	}
}
