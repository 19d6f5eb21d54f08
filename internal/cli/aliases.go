package cli

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/LeJamon/goHederad/internal/core/types"
)

func newAliasesCommand(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "aliases",
		Short: "Manage the alias index",
	}
	cmd.AddCommand(
		newAliasesImportCommand(flags),
		newAliasesListCommand(flags),
	)
	return cmd
}

func newAliasesImportCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "import [file]",
		Short: "Link aliases to accounts from a JSON object",
		Long: `Read a JSON object mapping hex aliases to account ids and link each one.

Example input:
  {"0x0101010101010101010101010101010101010101":"0.0.1234"}`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var name string
			if len(args) > 0 {
				name = args[0]
			}
			data, err := readInput(cmd.InOrStdin(), name)
			if err != nil {
				return err
			}
			var entries map[string]types.AccountID
			if err := json.Unmarshal(data, &entries); err != nil {
				return fmt.Errorf("invalid aliases: %w", err)
			}

			links := make(map[types.Alias]types.AccountID, len(entries))
			for hexAlias, id := range entries {
				alias, err := types.AliasFromHex(hexAlias)
				if err != nil {
					return err
				}
				links[alias] = id
			}

			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}
			p, err := newProvider(cfg, prometheus.NewRegistry())
			if err != nil {
				return err
			}
			defer p.Close()

			index, err := p.Aliases()
			if err != nil {
				return err
			}
			for alias, id := range links {
				if err := index.Link(cmd.Context(), alias, id); err != nil {
					return fmt.Errorf("failed to link %s: %w", alias, err)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "linked %d aliases\n", len(links))
			return nil
		},
	}
}

func newAliasesListCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every linked alias",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}
			p, err := newProvider(cfg, prometheus.NewRegistry())
			if err != nil {
				return err
			}
			defer p.Close()

			index, err := p.Aliases()
			if err != nil {
				return err
			}
			all, err := index.All(cmd.Context())
			if err != nil {
				return err
			}

			type entry struct {
				Alias   string          `json:"alias"`
				Account types.AccountID `json:"account"`
			}
			entries := make([]entry, 0, len(all))
			for alias, id := range all {
				entries = append(entries, entry{Alias: alias.Hex(), Account: id})
			}
			sort.Slice(entries, func(i, j int) bool { return entries[i].Alias < entries[j].Alias })
			return writeJSON(cmd.OutOrStdout(), entries)
		},
	}
}
