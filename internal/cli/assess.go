package cli

import (
	"encoding/json"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/LeJamon/goHederad/internal/core/types"
)

func newAssessCommand(flags *globalFlags) *cobra.Command {
	var payer string

	cmd := &cobra.Command{
		Use:   "assess [file]",
		Short: "Assess the custom fees of a transfer",
		Long: `Read a transfer instruction as JSON from file (or stdin) and print the
balance changes and custom fees it implies.

Example input:
  {"token_transfers":[{"token":"0.0.5001","transfers":[
    {"account":"0.0.1002","amount":-10},{"account":"0.0.1003","amount":10}]}]}`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payerID, err := types.ParseAccountID(payer)
			if err != nil {
				return fmt.Errorf("invalid --payer: %w", err)
			}

			var name string
			if len(args) > 0 {
				name = args[0]
			}
			data, err := readInput(cmd.InOrStdin(), name)
			if err != nil {
				return err
			}
			var op types.TransferInstruction
			if err := json.Unmarshal(data, &op); err != nil {
				return fmt.Errorf("invalid transfer instruction: %w", err)
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

			m, err := p.Marshal()
			if err != nil {
				return err
			}
			it, err := m.Unmarshal(cmd.Context(), op, payerID)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), it.Record())
		},
	}

	cmd.Flags().StringVar(&payer, "payer", "", "account paying for the transfer (shard.realm.num)")
	_ = cmd.MarkFlagRequired("payer")
	return cmd
}
