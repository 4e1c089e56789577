package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bfv/miglock/internal/migration"
)

// NewCheckCmd builds and returns the 'check' cobra command.
func NewCheckCmd() *cobra.Command {
	flags := &configFlags{}
	var outputFile string

	cmd := &cobra.Command{
		Use:   "check [flags] <migration files...>",
		Short: "Block commits whose migrations lock too many large tables",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Bind the cobra flag into viper so it can be read uniformly.
			if err := viper.BindPFlag("output", cmd.Flags().Lookup("output")); err != nil {
				return err
			}
			return runCheck(cmd, flags, args, viper.GetString("output"))
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Write the report to a file instead of stdout")
	return cmd
}

// runCheck is the entry point for the check command.
func runCheck(cmd *cobra.Command, flags *configFlags, args []string, outputPath string) error {
	cfg, err := flags.resolve(cmd)
	if err != nil {
		return err
	}
	log.Debug().
		Strs("tables", cfg.Tables).
		Int("minTables", cfg.MinTables).
		Str("app", cfg.App).
		Bool("strict", cfg.Strict).
		Msg("configuration resolved")

	if len(args) == 0 {
		log.Debug().Msg("no files provided for checking")
		return nil
	}

	checker := &migration.Checker{
		Tables:    cfg.Tables,
		MinTables: cfg.MinTables,
		App:       cfg.App,
		Strict:    cfg.Strict,
	}
	run := checker.CheckFiles(args)

	if run.FilesChecked == 0 {
		log.Debug().Msg("no migration files found for checking")
		return nil
	}

	// Resolve output writer.
	var out io.Writer = os.Stdout
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("creating output file %q: %w", outputPath, err)
		}
		defer f.Close()
		out = f
		log.Debug().Str("path", outputPath).Msg("writing report to file")
	}

	reporter := &migration.Reporter{
		W:         out,
		Tables:    cfg.Tables,
		MinTables: cfg.MinTables,
		Verbose:   cfg.Verbose,
	}
	reporter.Write(run)

	if blocked := run.Blocked(); len(blocked) > 0 {
		return fmt.Errorf("locks found in %d of %d migrations", len(blocked), run.FilesChecked)
	}
	if run.Failed {
		return fmt.Errorf("migration files could not be analyzed")
	}
	return nil
}
