package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ilearnhow/lessonsynth/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the lesson synthesis HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		cfg := rt.cfg.Server
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Addr = addr
		}

		opts := []server.Option{server.WithLogger(rt.log.Named("http"))}
		switch {
		case cfg.RateLimit == 0:
			rt.log.Info("rate limiting disabled")
		case rt.redis != nil:
			opts = append(opts, server.WithLimiter(server.NewRedisLimiter(rt.redis, cfg.RateLimit, cfg.RateWindow)))
		default:
			opts = append(opts, server.WithLimiter(server.NewMemoryLimiter(cfg.RateLimit, cfg.RateWindow)))
		}

		srv := server.New(server.Config{
			Addr:        cfg.Addr,
			Environment: cfg.Environment,
			Version:     version,
			CORSOrigins: cfg.CORSOrigins,
		}, rt.service, opts...)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := srv.Run(ctx); err != nil {
			rt.log.Error("http server failed", zap.Error(err))
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
}
