package logger

import (
	"os"

	log "github.com/sirupsen/logrus"
)

// Init configures the global logrus logger from the LOG_LEVEL environment
// variable. Safe to call more than once; later calls overwrite earlier ones.
func Init() {
	log.SetOutput(os.Stdout)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetLevel(parseLevel(os.Getenv("LOG_LEVEL")))
}

func parseLevel(s string) log.Level {
	if s == "" {
		return log.InfoLevel
	}
	lvl, err := log.ParseLevel(s)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// L returns the global logger for convenience.
func L() *log.Logger { return log.StandardLogger() }
