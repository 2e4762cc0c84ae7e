package main

import (
	"context"
	"log"
	"math/rand"
	"os"
	"strings"
	"sync"
	"time"

	httpadapter "covidsim/internal/adapter/http"
	metricsinmem "covidsim/internal/adapter/metrics/inmemory"
	gormrepo "covidsim/internal/adapter/repo/gorm"
	"covidsim/internal/adapter/repo/memory"
	"covidsim/internal/app/history"
	"covidsim/internal/app/ports"
	"covidsim/internal/app/simulation"
	"covidsim/internal/config"
	"covidsim/internal/domain/epidemic"
	"covidsim/internal/logging"

	"github.com/cloudwego/hertz/pkg/app/server"
)

func main() {
	cfg, err := config.Load(strings.TrimSpace(os.Getenv("COVIDSIM_CONFIG")))
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.NewLogger(cfg.Logging.Level, os.Stderr)
	stats, txManager := mustBuildRepos(cfg)
	kpiRecorder := metricsinmem.NewRecorder()
	session := simulation.NewSession()

	h := httpadapter.Handler{
		SimulationUC: simulation.UseCase{
			Session: session,
			Settings: simulation.Settings{
				Population:      cfg.Population(),
				TickInterval:    cfg.TickInterval(),
				MaxCatchUpTicks: cfg.Simulation.MaxCatchUpTicks,
			},
			Stats:     stats,
			TxManager: txManager,
			Metrics:   kpiRecorder,
			Logger:    logger,
			Now:       time.Now,
			NewRand:   randFactory(cfg.Simulation.Seed),
		},
		HistoryUC:   history.UseCase{Stats: stats, CurrentSession: session.ID},
		KPI:         kpiRecorder,
		AllowOrigin: cfg.Server.CORSOrigin,
	}

	s := server.Default(server.WithHostPorts(cfg.Server.Addr))
	h.RegisterRoutes(s)

	log.Printf("covidsim server listening on %s (people=%d, tick=%s)", cfg.Server.Addr, cfg.Simulation.PeopleCount, cfg.TickInterval())
	s.Spin()
}

// mustBuildRepos uses Postgres when a DSN is configured and the in-process
// store otherwise.
func mustBuildRepos(cfg *config.Config) (ports.TickStatsRepository, ports.TxManager) {
	dsn := strings.TrimSpace(cfg.Storage.DSN)
	if dsn == "" {
		store := memory.NewStore()
		return memory.NewTickStatsRepo(store), memory.NewTxManager(store)
	}
	db, err := gormrepo.OpenPostgres(dsn)
	if err != nil {
		log.Fatalf("open postgres: %v", err)
	}
	if dir := strings.TrimSpace(cfg.Storage.MigrationsDir); dir != "" {
		applied, err := gormrepo.ApplyMigrations(context.Background(), db, dir)
		if err != nil {
			log.Fatalf("apply migrations: %v", err)
		}
		if len(applied) > 0 {
			log.Printf("applied migrations: %s", strings.Join(applied, ", "))
		}
	}
	return gormrepo.NewTickStatsRepo(db), gormrepo.NewTxManager(db)
}

// randFactory returns one generator per world. A non-zero seed makes the
// sequence of worlds reproducible across server runs.
func randFactory(seed int64) func() epidemic.Rand {
	if seed == 0 {
		return func() epidemic.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		}
	}
	var (
		mu   sync.Mutex
		next = seed
	)
	return func() epidemic.Rand {
		mu.Lock()
		defer mu.Unlock()
		r := rand.New(rand.NewSource(next))
		next++
		return r
	}
}
