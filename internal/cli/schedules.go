package cli

import (
	"encoding/json"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/LeJamon/goHederad/internal/core/customfee"
	"github.com/LeJamon/goHederad/internal/core/types"
)

func newSchedulesCommand(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedules",
		Short: "Manage stored fee schedules",
	}
	cmd.AddCommand(
		newSchedulesImportCommand(flags),
		newSchedulesShowCommand(flags),
		newSchedulesListCommand(flags),
	)
	return cmd
}

func newSchedulesImportCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "import [file]",
		Short: "Import fee schedules from a JSON array",
		Long: `Store every fee schedule of a JSON array, replacing existing schedules of
the same tokens. The whole file is validated before anything is written.

Example input:
  [{"token":"0.0.5001","treasury":"0.0.2","token_type":"FUNGIBLE_COMMON",
    "fees":[{"kind":"fixed","collector":"0.0.98","units":3}]}]`,
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
			var records []customfee.MetaRecord
			if err := json.Unmarshal(data, &records); err != nil {
				return fmt.Errorf("invalid fee schedules: %w", err)
			}
			metas := make([]*customfee.Meta, 0, len(records))
			for i, rec := range records {
				meta, err := rec.Meta()
				if err != nil {
					return fmt.Errorf("schedule %d (%s): %w", i, rec.Token, err)
				}
				metas = append(metas, meta)
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

			store, err := p.Schedules()
			if err != nil {
				return err
			}
			if err := store.PutAll(cmd.Context(), metas); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d fee schedules\n", len(metas))
			return nil
		},
	}
}

func newSchedulesShowCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show <token>",
		Short: "Show the fee schedule of a token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := types.ParseTokenID(args[0])
			if err != nil {
				return err
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

			store, err := p.Schedules()
			if err != nil {
				return err
			}
			meta, err := store.LookupMetaFor(cmd.Context(), token)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), meta.Record())
		},
	}
}

func newSchedulesListCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every stored fee schedule",
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

			store, err := p.Schedules()
			if err != nil {
				return err
			}
			metas, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			records := make([]customfee.MetaRecord, 0, len(metas))
			for _, meta := range metas {
				records = append(records, meta.Record())
			}
			return writeJSON(cmd.OutOrStdout(), records)
		},
	}
}
