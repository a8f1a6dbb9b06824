// Package root contains the root command for the application
package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"fjacquet/taxstmt/internal/config"
	"fjacquet/taxstmt/internal/container"
	"fjacquet/taxstmt/internal/logging"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Input      string
	Output     string
	Parser     string
	ConfigFile string
}

var (
	// SharedFlags holds the persistent flags of every command.
	SharedFlags = CommonFlags{}

	// AppContainer is built by the pre-run hook before any subcommand runs.
	AppContainer *container.Container

	// Log is the shared logger instance for commands
	Log logging.Logger = logging.NewLogrusAdapter("info", "text")

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "taxstmt",
		Short: "Normalize financial statements into canonical transactions.",
		Long: `taxstmt extracts transactions from financial statements (PDF statements,
order summaries, tax organizers, CSV/XLS/OFX/CAMT.053 exports) and writes them
in one canonical CSV schema with a deterministic transaction hash.`,
		SilenceUsage:      true,
		PersistentPreRunE: initContainer,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Input, "input", "i", "", "Input file or directory")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output CSV file (stdout when empty)")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Parser, "parser", "p", "", "Parser name, see 'taxstmt parsers'")
	Cmd.PersistentFlags().StringVar(&SharedFlags.ConfigFile, "config", "", "Config file (default: config.yaml in $HOME/.taxstmt, .taxstmt or .)")
}

func initContainer(cmd *cobra.Command, args []string) error {
	config.LoadEnv(Log)

	cfg, err := config.LoadConfig(SharedFlags.ConfigFile)
	if err != nil {
		return err
	}

	c, err := container.NewContainer(cfg)
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	AppContainer = c
	Log = c.GetLogger()
	return nil
}

// GetContainer returns the application container, building it from the
// current flags when the pre-run hook has not run yet.
func GetContainer() (*container.Container, error) {
	if AppContainer != nil {
		return AppContainer, nil
	}
	if err := initContainer(Cmd, nil); err != nil {
		return nil, err
	}
	return AppContainer, nil
}
