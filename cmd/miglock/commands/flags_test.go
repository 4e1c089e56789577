package commands

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/spf13/cobra"

	"github.com/bfv/miglock/internal/config"
)

func newFlagCmd(t *testing.T) (*configFlags, *cobra.Command) {
	t.Helper()
	flags := &configFlags{}
	cmd := &cobra.Command{Use: "test"}
	flags.register(cmd)
	return flags, cmd
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "miglock.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestResolveDefaultsOnly(t *testing.T) {
	flags, cmd := newFlagCmd(t)

	cfg, err := flags.resolve(cmd)
	if err != nil {
		t.Fatal(err)
	}

	want := config.Default()
	if !reflect.DeepEqual(cfg.Tables, want.Tables) || cfg.MinTables != want.MinTables || cfg.Strict != want.Strict {
		t.Errorf("expected built-in defaults, got %+v", cfg)
	}
}

func TestResolveFlagOverridesConfigFile(t *testing.T) {
	path := writeConfigFile(t, `{
		"tables": ["accounts", "invoices"],
		"min_tables": 7,
		"strict": false
	}`)

	flags, cmd := newFlagCmd(t)
	if err := cmd.Flags().Set("config", path); err != nil {
		t.Fatal(err)
	}
	if err := cmd.Flags().Set("min-tables", "4"); err != nil {
		t.Fatal(err)
	}

	cfg, err := flags.resolve(cmd)
	if err != nil {
		t.Fatal(err)
	}

	// The explicitly set flag wins over the file.
	if cfg.MinTables != 4 {
		t.Errorf("expected min_tables 4 from flag, got %d", cfg.MinTables)
	}
	// Unchanged flags keep the file's values over the defaults.
	if !reflect.DeepEqual(cfg.Tables, []string{"accounts", "invoices"}) {
		t.Errorf("expected tables from config file, got %v", cfg.Tables)
	}
	if cfg.Strict {
		t.Error("expected strict false from config file")
	}
}

func TestResolveFlagsWithoutConfigFile(t *testing.T) {
	flags, cmd := newFlagCmd(t)
	if err := cmd.Flags().Set("tables", "members,shipments"); err != nil {
		t.Fatal(err)
	}
	if err := cmd.Flags().Set("app", "shop"); err != nil {
		t.Fatal(err)
	}

	cfg, err := flags.resolve(cmd)
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(cfg.Tables, []string{"members", "shipments"}) {
		t.Errorf("expected tables from flag, got %v", cfg.Tables)
	}
	if cfg.App != "shop" {
		t.Errorf("expected app shop, got %q", cfg.App)
	}
	if cfg.MinTables != config.Default().MinTables {
		t.Errorf("unchanged flag should keep the default, got %d", cfg.MinTables)
	}
}

func TestResolveInvalidMergeRejected(t *testing.T) {
	flags, cmd := newFlagCmd(t)
	if err := cmd.Flags().Set("min-tables", "0"); err != nil {
		t.Fatal(err)
	}

	if _, err := flags.resolve(cmd); err == nil {
		t.Error("min_tables below 1 must be rejected after the merge")
	}
}

func TestResolveMissingConfigFileErrors(t *testing.T) {
	flags, cmd := newFlagCmd(t)
	if err := cmd.Flags().Set("config", filepath.Join(t.TempDir(), "nope.json")); err != nil {
		t.Fatal(err)
	}

	if _, err := flags.resolve(cmd); err == nil {
		t.Error("unreadable config file must abort the run")
	}
}
