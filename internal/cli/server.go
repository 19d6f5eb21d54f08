package cli

import (
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/LeJamon/goHederad/internal/server"
	"github.com/LeJamon/goHederad/internal/server/api/jsonrpc"
)

func newServerCommand(flags *globalFlags) *cobra.Command {
	var (
		port     int
		bindAddr string
	)

	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the hederad JSON-RPC server",
		Long: `Start the hederad server which provides:
- HTTP JSON-RPC API (implied_transfers, fee_schedule, resolve_alias)
- Liveness and readiness probes on /healthz and /readyz
- Prometheus metrics on /metrics`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			if cmd.Flags().Changed("bind") {
				cfg.Server.Bind = bindAddr
			}
			if err := cfg.Server.Validate(); err != nil {
				return err
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)

			p, err := newProvider(cfg, reg)
			if err != nil {
				return err
			}
			defer p.Close()

			logger := p.Logger()
			m, err := p.Marshal()
			if err != nil {
				return err
			}
			schedules, err := p.Schedules()
			if err != nil {
				return err
			}
			aliases, err := p.Aliases()
			if err != nil {
				return err
			}
			metrics, err := p.Metrics()
			if err != nil {
				return err
			}

			rpc := jsonrpc.NewServer(
				jsonrpc.NewHandler(m, schedules, aliases),
				jsonrpc.WithMaxBodyBytes(cfg.Server.MaxBodyBytes),
				jsonrpc.WithLogger(logger.With().Str("component", "rpc").Logger()),
				jsonrpc.WithObserver(metrics),
			)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			logger.Info().
				Str("storage", cfg.Storage.Backend).
				Str("path", cfg.StoragePath()).
				Msg("Starting hederad")
			return server.New(cfg.ListenAddr(), cfg.Server, rpc, p.Health(), reg, logger).Run(ctx)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "port to listen on (overrides config)")
	cmd.Flags().StringVar(&bindAddr, "bind", "", "address to bind to (overrides config)")
	return cmd
}
