package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/baseline"
	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/config"
	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/detector"
	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/domain"
	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/events"
	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/health"
	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/ingestion"
	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/lifecycle"
	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/netutil/circuit"
	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/state"
	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/store"
	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/store/memstore"
	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/store/postgres"
	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/telemetry"
)

// app wires every component the CLI subcommands drive. Built fresh per
// invocation: no daemon, no IPC, state lives in the external store and
// on-disk baseline files between calls.
type app struct {
	cfg        config.Config
	store      *state.Store
	writer     store.Writer
	tel        *telemetry.Metrics
	facade     *ingestion.Facade
	controller *lifecycle.Controller
	log        zerolog.Logger
}

func newApp(cfgPath string, logger zerolog.Logger) (*app, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("pmctl: load config: %w", err)
	}

	writer, err := buildWriter(cfg, logger)
	if err != nil {
		return nil, err
	}

	st := state.New()
	tel := telemetry.New()
	engine := events.NewWithDebounce(cfg.DebounceTicks)
	assessor := health.New("health-v1")
	detectorParams := detector.Params{
		Contamination: cfg.Detector.Contamination,
		NEstimators:   cfg.Detector.NEstimators,
		RandomState:   cfg.Detector.RandomState,
	}
	facade := ingestion.New(st, writer, engine, assessor, tel, cfg.WindowSize, detectorParams)
	controller := lifecycle.New(st, writer, tel, engine, detectorParams, logger)

	return &app{
		cfg:        cfg,
		store:      st,
		writer:     writer,
		tel:        tel,
		facade:     facade,
		controller: controller,
		log:        logger,
	}, nil
}

func buildWriter(cfg config.Config, logger zerolog.Logger) (store.Writer, error) {
	if cfg.Store.DSN == "" {
		logger.Info().Msg("pmctl: no store.dsn configured, using in-memory store")
		return memstore.New(), nil
	}

	db, err := sqlx.Connect("postgres", cfg.Store.DSN)
	if err != nil {
		return nil, fmt.Errorf("pmctl: connect postgres: %w", err)
	}
	db.SetMaxOpenConns(cfg.Store.MaxOpenConns)
	if lifetime, err := time.ParseDuration(cfg.Store.ConnMaxLifetime); err == nil {
		db.SetConnMaxLifetime(lifetime)
	}

	pg := postgres.New(db, 5*time.Second, rate.Limit(50), 100)
	return circuit.New("postgres-writer", pg, 5), nil
}

// rehydrate loads assetID's recent sample history from the external
// store and its baseline profile from disk (if present) into the
// process-local StateStore, so one-shot subcommands can assess/ingest
// against continuity from previous invocations.
func (a *app) rehydrate(ctx context.Context, assetID string, lookback time.Duration) {
	now := time.Now().UTC()
	points, err := a.writer.QueryWindow(ctx, assetID, store.TimeRange{From: now.Add(-lookback), To: now})
	if err != nil {
		a.log.Warn().Str("asset_id", assetID).Err(err).Msg("pmctl: rehydrate history failed")
	} else if len(points) > 0 {
		samples := make([]domain.RawSample, len(points))
		for i, p := range points {
			samples[i] = domain.RawSample{
				AssetID:     p.AssetID,
				Timestamp:   p.Timestamp,
				VoltageV:    p.VoltageV,
				CurrentA:    p.CurrentA,
				PowerFactor: p.PowerFactor,
				VibrationG:  p.VibrationG,
				IsFaulty:    p.IsFaulty,
			}
		}
		a.store.AppendSamples(assetID, samples)
	}

	if profile, err := baseline.Load(baselinePath(assetID)); err == nil {
		a.store.SetBaseline(assetID, profile)
	}
}

func baselinePath(assetID string) string {
	return "data/baselines/" + assetID + ".yaml"
}
