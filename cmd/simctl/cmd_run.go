package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"time"

	"covidsim/internal/adapter/repo/sqlite"
	"covidsim/internal/app/ports"
	"covidsim/internal/app/simulation"
	"covidsim/internal/domain/epidemic"
	"covidsim/internal/logging"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

type runOptions struct {
	Ticks      int
	Population epidemic.PopulationConfig
	Seed       int64
	DBPath     string
	JSON       bool
}

type runResult struct {
	SessionID string                  `json:"session_id"`
	Seed      int64                   `json:"seed"`
	Ticks     int                     `json:"ticks"`
	Final     epidemic.Census         `json:"final"`
	Totals    runTotals               `json:"totals"`
	History   []ports.TickStatsRecord `json:"history,omitempty"`
}

type runTotals struct {
	NewInfections int `json:"new_infections"`
	Recoveries    int `json:"recoveries"`
	Deaths        int `json:"deaths"`
	Removed       int `json:"removed"`
	PeakSick      int `json:"peak_sick"`
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a fresh world for a fixed number of ticks",
		RunE: func(cmd *cobra.Command, args []string) error {
			ticks, _ := cmd.Flags().GetInt("ticks")
			people, _ := cmd.Flags().GetInt("people")
			infected, _ := cmd.Flags().GetFloat64("infected")
			seed, _ := cmd.Flags().GetInt64("seed")
			dbPath, _ := cmd.Flags().GetString("db")
			jsonOut, _ := cmd.Flags().GetBool("json")
			level, _ := cmd.Flags().GetString("log-level")

			if seed == 0 {
				seed = time.Now().UnixNano()
			}
			opts := runOptions{
				Ticks:      ticks,
				Population: epidemic.PopulationConfig{PeopleCount: people, InfectedFraction: infected},
				Seed:       seed,
				DBPath:     dbPath,
				JSON:       jsonOut,
			}
			logger := logging.NewLogger(level, cmd.ErrOrStderr())

			var stats ports.TickStatsRepository
			if dbPath != "" {
				store, err := sqlite.Open(dbPath)
				if err != nil {
					return err
				}
				defer store.Close()
				stats = store
			}

			res, err := runSimulation(cmd.Context(), opts, stats, logger)
			if err != nil {
				return err
			}
			return writeResult(cmd.OutOrStdout(), res, jsonOut)
		},
	}
	cmd.Flags().Int("ticks", 100, "Number of ticks to simulate")
	cmd.Flags().Int("people", epidemic.DefaultPeopleCount, "Population size")
	cmd.Flags().Float64("infected", epidemic.DefaultInfectedFraction, "Initially sick fraction")
	cmd.Flags().Int64("seed", 0, "RNG seed (0 seeds from the clock)")
	cmd.Flags().String("db", "", "SQLite file to store per-tick statistics in")
	return cmd
}

func runSimulation(ctx context.Context, opts runOptions, stats ports.TickStatsRepository, logger *slog.Logger) (runResult, error) {
	if opts.Ticks < 0 {
		return runResult{}, fmt.Errorf("ticks must be >= 0, got %d", opts.Ticks)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	game, err := epidemic.NewGame(opts.Population, rand.New(rand.NewSource(opts.Seed)))
	if err != nil {
		return runResult{}, fmt.Errorf("create world: %w", err)
	}

	res := runResult{SessionID: uuid.NewString(), Seed: opts.Seed}
	logger.Info("run started", "session_id", res.SessionID, "people", game.Len(), "ticks", opts.Ticks, "seed", opts.Seed)

	records := make([]ports.TickStatsRecord, 0, opts.Ticks)
	for i := 0; i < opts.Ticks; i++ {
		if err := ctx.Err(); err != nil {
			return runResult{}, err
		}
		report, err := game.AdvanceOneTick()
		if err != nil {
			logger.Error("tick failed", "session_id", res.SessionID, "tick", game.Tick()+1, "error", err)
			return runResult{}, fmt.Errorf("tick %d: %w", game.Tick()+1, err)
		}
		rec := simulation.ToRecord(res.SessionID, report, time.Now().UTC())
		records = append(records, rec)
		res.Totals.add(rec)
		logger.Debug("tick", "tick", report.Tick, "sick", report.Census.Sick, "new_infections", report.NewInfections)
	}

	if stats != nil {
		if err := stats.Append(ctx, records); err != nil {
			return runResult{}, fmt.Errorf("store tick stats: %w", err)
		}
	}

	res.Ticks = game.Tick()
	res.Final = game.Census()
	if opts.JSON {
		res.History = records
	}
	logger.Info("run finished", "session_id", res.SessionID, "sick", res.Final.Sick, "dead", res.Final.Dead)
	return res, nil
}

func (t *runTotals) add(r ports.TickStatsRecord) {
	t.NewInfections += r.NewInfections
	t.Recoveries += r.Recoveries
	t.Deaths += r.Deaths
	t.Removed += r.Removed
	if r.Sick > t.PeakSick {
		t.PeakSick = r.Sick
	}
}

func writeResult(w io.Writer, res runResult, jsonOut bool) error {
	if jsonOut {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	fmt.Fprintf(w, "session %s (seed %d) after %d ticks\n", res.SessionID, res.Seed, res.Ticks)
	fmt.Fprintf(w, "  healthy: %d  sick: %d  dead: %d\n", res.Final.Healthy, res.Final.Sick, res.Final.Dead)
	fmt.Fprintf(w, "  at home: %d  walking: %d  going home: %d\n", res.Final.AtHome, res.Final.Walking, res.Final.GoingHome)
	_, err := fmt.Fprintf(w, "  infections: %d  recoveries: %d  deaths: %d  removed: %d  peak sick: %d\n",
		res.Totals.NewInfections, res.Totals.Recoveries, res.Totals.Deaths, res.Totals.Removed, res.Totals.PeakSick)
	return err
}
