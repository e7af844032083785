package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

const serviceName = "citizen-portal"

// New builds the process logger: JSON to stderr tagged with the service
// name, console-formatted in development.
func New(env string) zerolog.Logger {
	return newWith(env, os.Stderr)
}

func newWith(env string, out io.Writer) zerolog.Logger {
	log := zerolog.New(out).With().
		Timestamp().
		Str("service", serviceName).
		Logger()
	if env == "development" {
		log = log.Output(zerolog.ConsoleWriter{Out: out})
	}
	return log
}
