package cli

import (
	"github.com/spf13/cobra"

	"adminql/internal/config"
)

// RootOptions holds the global flags. Non-empty flags win over the
// configuration file and the environment.
type RootOptions struct {
	ConfigPath string
	Driver     string
	DSN        string
}

func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "adminql",
		Short:         "adminql - GraphQL-style queries over an admin model",
		Long:          "Serves entity metadata and composes where/relations/pagination requests into SQL.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "path to a YAML config file")
	cmd.PersistentFlags().StringVar(&opts.Driver, "driver", "", "database driver (sqlite3|mysql|postgres)")
	cmd.PersistentFlags().StringVar(&opts.DSN, "dsn", "", "database data source name")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewExplainCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))

	return cmd
}

func (o *RootOptions) load() (config.Config, error) {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return cfg, err
	}
	if o.Driver != "" {
		cfg.DB.Driver = o.Driver
	}
	if o.DSN != "" {
		cfg.DB.DSN = o.DSN
	}
	return cfg, cfg.Validate()
}
