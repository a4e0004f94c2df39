package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"panchayatworks/collections"
	"panchayatworks/config"
	"panchayatworks/handlers"
	"panchayatworks/logging"
	"panchayatworks/services"
)

func main() {
	cfg, err := config.Load(os.Getenv("PANCHAYAT_CONFIG_DIR"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format, "panchayatworks")
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	app := pocketbase.New()
	app.RootCmd.AddCommand(imposeCommand(logger))

	// Create collections, run migrations and seed demo data on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		if err := collections.Setup(app, logger); err != nil {
			return err
		}
		if err := collections.MigrateWorkStatuses(app, logger); err != nil {
			logger.Warn("work status migration failed", zap.Error(err))
		}
		if err := collections.Seed(app, logger); err != nil {
			logger.Warn("seed data failed", zap.Error(err))
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		se.Router.BindFunc(handlers.RequestLoggerMiddleware(logger))

		// ── Estimates ────────────────────────────────────────────
		se.Router.POST("/api/estimates/compute", handlers.HandleEstimateCompute(cfg, logger))
		se.Router.POST("/api/estimates", handlers.HandleEstimateSave(app, cfg, logger))
		se.Router.GET("/api/estimates/{id}/export/{kind}", handlers.HandleEstimateExport(app, cfg, logger))
		se.Router.GET("/api/estimates/{id}", handlers.HandleEstimateGet(app, cfg, logger))
		se.Router.GET("/estimates/{id}", handlers.HandleEstimateView(app, cfg, logger))

		// ── Deductions ───────────────────────────────────────────
		se.Router.POST("/api/deductions/compute", handlers.HandleDeductionCompute(cfg, logger))
		se.Router.POST("/api/works/{workId}/deductions", handlers.HandleDeductionCreate(app, logger))
		se.Router.GET("/api/deductions/{id}/slip", handlers.HandleDeductionSlip(app, logger))
		se.Router.POST("/api/deductions/{id}/verify", handlers.HandleDeductionVerify(app, logger))

		// ── Registers ────────────────────────────────────────────
		se.Router.PUT("/api/villages", handlers.HandleVillageUpsert(app, logger))
		se.Router.PUT("/api/tenders", handlers.HandleTenderUpsert(app, logger))

		se.Router.GET("/", func(e *core.RequestEvent) error {
			return e.String(http.StatusOK, "panchayatworks")
		})

		return se.Next()
	})

	if err := app.Start(); err != nil {
		logger.Fatal("app stopped", zap.Error(err))
	}
}

// imposeCommand re-imposes a PDF into booklet order without starting the server.
func imposeCommand(logger *zap.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "impose <in.pdf> <out.pdf>",
		Short: "Re-impose a PDF for saddle-stitched booklet printing",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}

			out, plan, err := services.ImposeBooklet(src)
			if err != nil {
				return err
			}
			if len(plan.Sheets) == 0 {
				logger.Warn("source has no pages, nothing written", zap.String("in", args[0]))
				return nil
			}
			if err := os.WriteFile(args[1], out, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", args[1], err)
			}

			logger.Info("booklet written",
				zap.String("out", args[1]),
				zap.Int("source_pages", plan.SourcePages),
				zap.Int("padded_pages", plan.PaddedPages),
				zap.Int("sheets", len(plan.Sheets)),
			)
			return nil
		},
	}
}
