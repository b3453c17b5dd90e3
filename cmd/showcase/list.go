package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/GriffinCanCode/showcase/internal/infrastructure/logging"
	"github.com/GriffinCanCode/showcase/internal/server"
	"github.com/spf13/cobra"
)

func newListCmd(opts *options) *cobra.Command {
	var (
		group  string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Load stories once and print the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			level := cfg.Logging.Level
			if !cmd.Flags().Changed("log-level") {
				level = "warn"
			}
			logger := logging.NewFromSettings(level, cfg.Logging.Development)
			defer logger.Sync()

			app := server.NewApp(cfg, logger, nil)
			if err := app.Load(); err != nil {
				return fmt.Errorf("loading stories: %w", err)
			}

			entries := app.Catalog.Entries(group)
			out := cmd.OutOrStdout()

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}

			if len(entries) == 0 {
				if group != "" {
					fmt.Fprintf(out, "No stories in group %q\n", group)
				} else {
					fmt.Fprintf(out, "No stories found in %s\n", cfg.Stories.Dir)
				}
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "GROUP\tNAME\tID\tARGS")
			for _, e := range entries {
				keys := make([]string, 0, len(e.Args))
				for k := range e.Args {
					keys = append(keys, k)
				}
				sort.Strings(keys)
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Group, e.Name, e.ID, strings.Join(keys, ","))
			}
			if err := w.Flush(); err != nil {
				return err
			}

			groups, total := app.Catalog.Len()
			fmt.Fprintf(out, "\n%d groups, %d stories\n", groups, total)
			return nil
		},
	}

	cmd.Flags().StringVarP(&group, "group", "g", "", "Only list stories of this group title")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")
	return cmd
}
