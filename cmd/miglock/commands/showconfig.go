package commands

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// NewShowConfigCmd builds and returns the 'showconfig' cobra command. It
// resolves the configuration exactly like 'check' and prints the result,
// so hook setups can verify what a run would actually use.
func NewShowConfigCmd() *cobra.Command {
	flags := &configFlags{}
	var outputFile string

	cmd := &cobra.Command{
		Use:   "showconfig [flags]",
		Short: "Print the effective merged configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShowConfig(cmd, flags, outputFile)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Write output to file instead of stdout")
	return cmd
}

func runShowConfig(cmd *cobra.Command, flags *configFlags, outputPath string) error {
	cfg, err := flags.resolve(cmd)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshalling yaml: %w", err)
	}

	var w io.Writer = os.Stdout
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("creating output file %q: %w", outputPath, err)
		}
		defer f.Close()
		bw := bufio.NewWriter(f)
		defer bw.Flush()
		w = bw
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}
