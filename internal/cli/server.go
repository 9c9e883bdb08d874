package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"selfquiz-service/internal/app"
	"selfquiz-service/internal/config"
	filestore "selfquiz-service/internal/infra/file"
	"selfquiz-service/internal/infra/memory"
	pgstore "selfquiz-service/internal/infra/postgres"
	redisinfra "selfquiz-service/internal/infra/redis"
	transport "selfquiz-service/internal/transport/http"
)

// NewServeCmd builds the CLI subcommand to start the server.
func NewServeCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the self-quiz server",
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

	trainer, importer, cleanup, err := buildService(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	handler := transport.NewHandler(trainer, importer)
	drill := transport.NewDrillHandler(trainer)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	handler.Register(mux)
	mux.HandleFunc("/ws", drill.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting selfquiz service on :%s", finalPort)
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

// buildService wires the storage ports from config: Postgres when a URL is
// set, JSON files under the data dir otherwise. Redis, when configured,
// carries the per-user session state and a cache of the question
// collection; without it both fall back to process memory.
func buildService(ctx context.Context, cfg config.Config) (*app.Trainer, *app.Importer, func(), error) {
	cleanup := func() {}

	dataDir := cfg.Data.Dir
	if dataDir == "" {
		dataDir = "data"
	}

	var questions app.QuestionStore
	var wrongStore app.WrongAnswerStore
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, nil, cleanup, err
		}
		cleanup = pool.Close
		questions = pgstore.NewQuestionStore(pool)
		wrongStore = pgstore.NewWrongAnswerStore(pool)
	} else {
		questions = filestore.NewQuestionStore(dataDir)
		wrongStore = filestore.NewWrongAnswerStore(dataDir)
	}

	var state app.SessionState = memory.NewSessionState()
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		sessionTTL := config.TTLDuration(cfg.Session.TTL, time.Hour)
		cacheTTL := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)
		state = redisinfra.NewSessionState(client, sessionTTL)
		questions = redisinfra.NewQuestionCache(client, questions, cacheTTL)
	}

	wrong := app.NewWrongTracker(wrongStore)
	trainer := app.NewTrainer(questions, wrong, state)
	importer := app.NewImporter(questions)
	return trainer, importer, cleanup, nil
}
