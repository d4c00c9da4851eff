package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/hieudt/debitbot/internal/bot"
	"github.com/hieudt/debitbot/internal/chat"
	"github.com/hieudt/debitbot/internal/chat/console"
	"github.com/hieudt/debitbot/internal/chat/webhook"
	"github.com/hieudt/debitbot/internal/config"
	"github.com/hieudt/debitbot/internal/ledger"
	"github.com/hieudt/debitbot/internal/metrics"
	"github.com/hieudt/debitbot/internal/reminder"
	"github.com/hieudt/debitbot/internal/storage"
	"github.com/hieudt/debitbot/internal/storage/jsonfile"
	"github.com/hieudt/debitbot/internal/storage/sqlite"
	"github.com/hieudt/debitbot/pkg/logging"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "debitbot",
		Short: "Debt-tracking bot for the community channel",
	}
	rootCmd.AddCommand(serveCmd(), remindCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openStore builds the ledger store selected by configuration.
func openStore(cfg *config.Config) (storage.Store, error) {
	switch cfg.StoreDriver {
	case "sqlite":
		return sqlite.New(cfg.DataPath)
	default:
		return jsonfile.New(cfg.DataPath)
	}
}

// gatewayFor picks the outbound gateway: webhook when configured,
// stdout otherwise.
func gatewayFor(cfg *config.Config) chat.Gateway {
	if cfg.WebhookURL != "" {
		return webhook.New(cfg.WebhookURL, "Debit Bot")
	}
	return console.New(os.Stdout)
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the bot, reading events from stdin (dev gateway)",
		RunE: func(cmd *cobra.Command, args []string) error {
			logging.Setup()

			cfg, err := config.New()
			if err != nil {
				return err
			}

			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()
			slog.Info("storage initialized", "driver", cfg.StoreDriver, "path", cfg.DataPath)

			reg := prometheus.NewRegistry()
			m := metrics.New(reg)
			if cfg.MetricsAddr != "" {
				go serveMetrics(cfg.MetricsAddr, reg)
			}

			gw := gatewayFor(cfg)
			router := bot.New(cfg.ChannelName, ledger.New(store), gw, m)

			slog.Info("bot ready",
				"channel", cfg.ChannelName,
				"thread", cfg.ThreadName,
			)
			return console.Run(cmd.Context(), os.Stdin, router, cfg.ChannelName, cfg.ChannelName)
		},
	}
}

func remindCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remind",
		Short: "Post the morning greeting and outstanding-debt roll call",
		RunE: func(cmd *cobra.Command, args []string) error {
			logging.Setup()

			cfg, err := config.New()
			if err != nil {
				return err
			}

			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			infos, err := ledger.New(store).List(ctx)
			if err != nil {
				return err
			}

			note := reminder.Build(infos, time.Now())
			return gatewayFor(cfg).PostNotice(ctx, cfg.ChannelName, note)
		},
	}
}

func serveMetrics(addr string, reg *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	slog.Info("metrics endpoint starting", "address", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		slog.Error("metrics endpoint failed", "error", err)
	}
}
