package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jhoicas/pedidos-api/internal/application/dto"
	"github.com/jhoicas/pedidos-api/internal/bootstrap"
	"github.com/jhoicas/pedidos-api/internal/infrastructure/postgres"
	"github.com/jhoicas/pedidos-api/pkg/config"
	"github.com/jhoicas/pedidos-api/pkg/logger"
)

var (
	migrateStatusOnly bool
	sweepCompanyID    string
	intentsOlderThan  time.Duration
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Aplica las migraciones pendientes",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return err
		}
		defer pool.Close()

		if !migrateStatusOnly {
			if err := postgres.Migrate(ctx, pool, log); err != nil {
				return err
			}
		}
		version, err := postgres.MigrationStatus(ctx, pool)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), map[string]int64{"version": version})
	},
}

var sweepLedgerCmd = &cobra.Command{
	Use:   "sweep-ledger",
	Short: "Crea los movimientos de ingreso que falten para pedidos completados",
	Long: `Recorre los pedidos en completed y crea el ingreso que falte.
Es idempotente: repetirlo no crea duplicados.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(cmd, func(ctx context.Context, c *bootstrap.Container) error {
			var (
				res *dto.SweepResponse
				err error
			)
			if sweepCompanyID != "" {
				res, err = c.Ledger.Sweep(ctx, sweepCompanyID)
			} else {
				res, err = c.Ledger.SweepAll(ctx)
			}
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		})
	},
}

var sweepIntentsCmd = &cobra.Command{
	Use:   "sweep-intents",
	Short: "Resuelve intenciones de aprovisionamiento sin completar",
	Long: `remote_created: crea la suscripción local que faltó.
pending: el resultado remoto es desconocido; se marca orphaned y se registra para revisión manual.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(cmd, func(ctx context.Context, c *bootstrap.Container) error {
			olderThan := intentsOlderThan
			if olderThan <= 0 {
				olderThan = c.BillingConfig().IntentStaleAfter
			}
			res, err := c.Provisioning.SweepIntents(ctx, olderThan)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		})
	},
}

var notifyTrialsCmd = &cobra.Command{
	Use:   "notify-trials",
	Short: "Envía los avisos de fin de período de prueba del día",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(cmd, func(ctx context.Context, c *bootstrap.Container) error {
			sent, err := c.TrialNotifier.Run(ctx)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]int{"sent": sent})
		})
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateStatusOnly, "status", false, "solo muestra la versión aplicada")
	sweepLedgerCmd.Flags().StringVar(&sweepCompanyID, "company", "", "limita el barrido a una empresa")
	sweepIntentsCmd.Flags().DurationVar(&intentsOlderThan, "older-than", 0, "antigüedad mínima (por defecto INTENT_STALE_MINUTES)")
}

func loadConfig() (*config.Config, zerolog.Logger, error) {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	log := logger.NewWithWriter(os.Stderr, cfg.App.LogLevel).Component("billingctl").Zerolog()
	return cfg, log, nil
}

func withContainer(cmd *cobra.Command, fn func(ctx context.Context, c *bootstrap.Container) error) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	c, err := bootstrap.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer c.Close()
	return fn(ctx, c)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("escribir salida: %w", err)
	}
	return nil
}
