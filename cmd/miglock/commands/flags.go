package commands

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/bfv/miglock/internal/config"
)

// configFlags are the checker configuration flags shared by the commands.
type configFlags struct {
	tables     []string
	minTables  int
	app        string
	strict     bool
	configFile string
}

func (f *configFlags) register(cmd *cobra.Command) {
	d := config.Default()
	cmd.Flags().StringSliceVarP(&f.tables, "tables", "t", d.Tables, "List of large tables to check")
	cmd.Flags().IntVarP(&f.minTables, "min-tables", "m", d.MinTables, "Minimum number of locked tables to block the commit")
	cmd.Flags().StringVarP(&f.app, "app", "a", "", "Django app name (for determining full table names)")
	cmd.Flags().BoolVarP(&f.strict, "strict", "s", d.Strict, "Block the commit on analysis errors too")
	cmd.Flags().StringVarP(&f.configFile, "config", "c", "", "JSON configuration file")
}

// resolve merges defaults, the optional config file and explicitly set
// flags, in increasing precedence, and validates the result.
func (f *configFlags) resolve(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()

	if f.configFile != "" {
		var err error
		cfg, err = config.LoadFile(f.configFile)
		if err != nil {
			return cfg, err
		}
		log.Debug().Str("path", f.configFile).Msg("config file loaded")
	}

	fl := cmd.Flags()
	if fl.Changed("tables") {
		cfg.Tables = f.tables
	}
	if fl.Changed("min-tables") {
		cfg.MinTables = f.minTables
	}
	if fl.Changed("app") {
		cfg.App = f.app
	}
	if fl.Changed("strict") {
		cfg.Strict = f.strict
	}
	cfg.Verbose = cfg.Verbose || verboseEnabled

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}

	// The config file can request verbose output on its own.
	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	return cfg, nil
}
