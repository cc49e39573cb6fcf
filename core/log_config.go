package core

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// LogEnv is the environment variable read at init to set the global log level.
const LogEnv = "ENSURESIMD_LOG"

// init sets the global logging level from ENSURESIMD_LOG.
func init() {
	zerolog.SetGlobalLevel(levelFromEnv(os.Getenv(LogEnv)))
}

// levelFromEnv maps "off" or "0" to Disabled, "full" to Debug and anything
// else to Info.
func levelFromEnv(value string) zerolog.Level {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "off", "0":
		return zerolog.Disabled
	case "full":
		return zerolog.DebugLevel
	default:
		return zerolog.InfoLevel
	}
}
