package commands

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// verboseEnabled remembers the --verbose flag so config resolution can
// fold it into the effective configuration.
var verboseEnabled bool

// InitLogging configures zerolog. Output goes to stderr so it does not
// pollute stdout which carries the check report.
func InitLogging(verbose bool) {
	verboseEnabled = verbose
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}
