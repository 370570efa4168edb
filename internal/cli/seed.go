package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"adminql/internal/example"
)

func NewSeedCommand(root *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the sample tables and insert the sample rows",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.load()
			if err != nil {
				return err
			}
			db, err := openDB(cfg, nil, nil)
			if err != nil {
				return err
			}
			defer db.Close()
			ctx := cmd.Context()
			if err = example.Migrate(ctx, db); err != nil {
				return err
			}
			if err = example.Seed(ctx, db); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d users, %d posts\n", len(example.Users), len(example.Posts))
			return nil
		},
	}
}
