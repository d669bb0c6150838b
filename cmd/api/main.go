package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	_ "github.com/comitanigiacomo/kanso-streaks/docs"
	"github.com/comitanigiacomo/kanso-streaks/internal/adapters/cache"
	"github.com/comitanigiacomo/kanso-streaks/internal/adapters/events"
	adapterHTTP "github.com/comitanigiacomo/kanso-streaks/internal/adapters/handler/http"
	"github.com/comitanigiacomo/kanso-streaks/internal/adapters/repository"
	"github.com/comitanigiacomo/kanso-streaks/internal/config"
	"github.com/comitanigiacomo/kanso-streaks/internal/core/domain"
	"github.com/comitanigiacomo/kanso-streaks/internal/core/services"
	"github.com/comitanigiacomo/kanso-streaks/internal/core/workers"
)

type repositories struct {
	habits   domain.HabitRepository
	history  domain.HistoryRepository
	journals domain.JournalRepository
	users    domain.UserRepository
}

type app struct {
	router *gin.Engine
	worker *workers.StreakWorker
}

type backends struct {
	db          *sqlx.DB
	redis       *redis.Client
	streakCache services.StreakCache
	publisher   events.Publisher
	clock       domain.Clock
}

func newApp(cfg *config.Config, repos repositories, b backends, startTime time.Time) *app {
	if b.clock == nil {
		b.clock = domain.SystemClock
	}

	worker := workers.NewStreakWorker(repos.habits, repos.history,
		workers.WithPublisher(b.publisher),
		workers.WithClock(b.clock),
		workers.WithLocation(cfg.StreakLocation),
	)

	tokenService := services.NewTokenService(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL, repos.users)
	authService := services.NewAuthService(repos.users, tokenService)
	streakReader := services.NewStreakReader(repos.history, b.clock, cfg.StreakLocation)
	habitService := services.NewHabitService(repos.habits, streakReader)
	historyService := services.NewHistoryService(repos.habits, repos.history, worker, b.streakCache, b.clock, cfg.StreakLocation)
	journalService := services.NewJournalService(repos.journals)
	statsService := services.NewStatsService(repos.habits, repos.history, b.clock, cfg.StreakLocation)

	router := adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		AuthHandler:     adapterHTTP.NewAuthHandler(authService),
		HabitHandler:    adapterHTTP.NewHabitHandler(habitService),
		HistoryHandler:  adapterHTTP.NewHistoryHandler(historyService),
		JournalHandler:  adapterHTTP.NewJournalHandler(journalService),
		StatsHandler:    adapterHTTP.NewStatsHandler(statsService, b.clock, cfg.StreakLocation),
		Tokens:          tokenService,
		DB:              b.db,
		Redis:           b.redis,
		RateLimit:       cfg.RateLimit,
		RateLimitWindow: cfg.RateLimitWindow,
		StartTime:       startTime,
	})

	return &app{router: router, worker: worker}
}

func main() {
	startTime := time.Now()

	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatalf("Critical: Invalid configuration: %v", err)
	}

	log.Println("Connecting to database...")

	db, err := sqlx.Connect("pgx", cfg.DSN())
	if err != nil {
		log.Fatalf("Critical: Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	schemaCtx, cancelSchema := context.WithTimeout(context.Background(), 10*time.Second)
	err = repository.EnsureSchema(schemaCtx, db)
	cancelSchema()
	if err != nil {
		log.Fatalf("Critical: Failed to apply schema: %v", err)
	}

	log.Println("Database connected successfully.")

	var habitRepo domain.HabitRepository = repository.NewPostgresHabitRepository(db)
	b := backends{
		db:        db,
		publisher: events.NoopPublisher{},
	}

	rdb, err := cache.NewRedisClient(cfg.RedisHost, cfg.RedisPort, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Printf("[CACHE] Redis unavailable, running without cache and rate limiting: %v", err)
	} else {
		defer rdb.Close()
		b.redis = rdb
		b.streakCache = cache.NewRedisStreakCache(rdb, 0)
		habitRepo = repository.NewCachedHabitRepository(habitRepo, rdb, 0)
	}

	if cfg.MQTTBroker != "" {
		publisher, err := events.NewMQTTPublisher(cfg.MQTTBroker, "kanso-streaks-"+uuid.NewString()[:8], cfg.MQTTTopicPrefix)
		if err != nil {
			log.Printf("[EVENTS] MQTT disabled: %v", err)
		} else {
			defer publisher.Close()
			b.publisher = publisher
			log.Printf("[EVENTS] Publishing streak changes to %s", cfg.MQTTBroker)
		}
	}

	repos := repositories{
		habits:   habitRepo,
		history:  repository.NewPostgresHistoryRepository(db),
		journals: repository.NewPostgresJournalRepository(db),
		users:    repository.NewPostgresUserRepository(db),
	}

	a := newApp(cfg, repos, b, startTime)

	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	a.worker.Start(workerCtx)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      a.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Kanso Streaks running on http://localhost:%s (streak timezone %s)", cfg.Port, cfg.StreakLocation)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Critical server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Stop signal received. Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Forced shutdown error:", err)
	}

	stopWorker()
	log.Println("Server stopped gracefully.")
}
