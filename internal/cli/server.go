package cli

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"tekno-rank-service/internal/adaptive"
	"tekno-rank-service/internal/config"
	"tekno-rank-service/internal/infra/memory"
	"tekno-rank-service/internal/infra/postgres"
	redisinfra "tekno-rank-service/internal/infra/redis"
	"tekno-rank-service/internal/infra/search"
	"tekno-rank-service/internal/query"
	"tekno-rank-service/internal/ranking"
	transport "tekno-rank-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the ranking server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	queryTimeout := config.TTLDuration(cfg.Ranking.QueryTimeout, 5*time.Second)

	// Primary: the search index, when configured.
	var primary query.Backend
	if cfg.Typesense.URL != "" {
		primary = search.New(cfg.Typesense.URL, cfg.Typesense.APIKey, config.TTLDuration(cfg.Typesense.Timeout, 5*time.Second))
	}

	// Fallback: Postgres, or the demo fixture backend when unset.
	var fallback query.Backend
	var perfStore *postgres.PerfStore
	if cfg.Postgres.URL != "" {
		sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.URL)))
		bunDB := bun.NewDB(sqldb, pgdialect.New())
		defer bunDB.Close()
		fallback = postgres.New(bunDB)

		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
		perfStore = postgres.NewPerfStore(pool)
	} else {
		demo := memory.NewBackend("relational")
		memory.SeedDemo(demo)
		fallback = demo
		log.Printf("warn: postgres not configured, serving demo fixtures")
	}

	router := query.NewRouter(primary, fallback, queryTimeout)

	var cache ranking.LeaderboardCache
	if cfg.Redis.Addr != "" {
		redisClient := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
		cache = redisinfra.NewLeaderboardCache(redisClient, config.TTLDuration(cfg.Ranking.CacheTTL, 30*time.Second))
	}

	engine := ranking.NewEngine(router, cache, cfg.Ranking.Band)

	var adaptiveSvc *adaptive.Service
	var insights transport.InsightsStore
	if perfStore != nil {
		adaptiveSvc = adaptive.NewService(router, perfStore)
		insights = perfStore
	} else {
		adaptiveSvc = adaptive.NewService(router, nil)
	}

	handler := transport.NewHandler(adaptiveSvc, engine, insights)
	feed := transport.NewWSFeed(engine, config.TTLDuration(cfg.Ranking.FeedInterval, 15*time.Second))

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	handler.Register(mux)
	mux.HandleFunc("/ws/leaderboard", feed.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting rank service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
