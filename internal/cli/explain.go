package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"adminql/internal/example"
	"adminql/internal/resolver"
)

type explainOptions struct {
	vars   string
	asJSON bool
}

func NewExplainCommand(root *RootOptions) *cobra.Command {
	opts := &explainOptions{}
	cmd := &cobra.Command{
		Use:   "explain <graphql>",
		Short: "Print the SQL composed for a GraphQL query without running it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.load()
			if err != nil {
				return err
			}
			var vars map[string]any
			if err = json.Unmarshal([]byte(opts.vars), &vars); err != nil {
				return fmt.Errorf("invalid --vars: %w", err)
			}
			db, err := openDB(cfg, nil, nil)
			if err != nil {
				return err
			}
			defer db.Close()

			res, err := resolver.New(db, example.Entities()...).Explain(args[0], vars)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if opts.asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			for _, e := range res {
				fmt.Fprintf(out, "%s: %s\n", e.Field, e.SQL)
				fmt.Fprintf(out, "  args: %v\n", e.Args)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.vars, "vars", "{}", "query variables as a JSON object")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print JSON")
	return cmd
}
