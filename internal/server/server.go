package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"ecoquiz-duel/internal/config"
	"ecoquiz-duel/internal/event"
	"ecoquiz-duel/internal/hub"
	"ecoquiz-duel/internal/notify"
	"ecoquiz-duel/internal/questions"
	"ecoquiz-duel/internal/repository"
	"ecoquiz-duel/internal/services"
	"ecoquiz-duel/internal/telemetry"
)

const ServiceName = "game-service"

type Server struct {
	c config.Config

	eb      *event.Bus
	reg     *prometheus.Registry
	metrics *telemetry.Metrics

	infra struct {
		repo  repository.QuestionRepository
		redis redis.UniversalClient
	}

	bank *questions.Bank
	hub  *hub.Hub
	game *services.GameService

	upgrader websocket.Upgrader
	http     *http.Server

	ctx    context.Context
	cancel context.CancelFunc
}

func Init(c config.Config) (*Server, error) {
	s := &Server{c: c}
	s.ctx, s.cancel = context.WithCancel(context.Background())

	s.eb = event.NewBus()

	s.reg = prometheus.NewRegistry()
	s.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	s.metrics = telemetry.NewMetrics(s.reg)
	s.metrics.Subscribe(s.eb)

	if err := s.initInfra(); err != nil {
		s.cancel()
		s.closeInfra()
		return nil, fmt.Errorf("server: init infra: %w", err)
	}

	if err := s.initService(); err != nil {
		s.cancel()
		s.closeInfra()
		return nil, fmt.Errorf("server: init service: %w", err)
	}
	s.initAPI()
	return s, nil
}

func (s *Server) initInfra() error {
	if err := s.initQuestions(); err != nil {
		return fmt.Errorf("questions: %w", err)
	}

	if err := s.initRedis(); err != nil {
		return fmt.Errorf("redis: %w", err)
	}

	return nil
}

// initQuestions loads the bank from Postgres when configured, seeding an
// empty table with the built-in questions first.
func (s *Server) initQuestions() error {
	if s.c.Postgres.URL == "" {
		s.bank = questions.Default()
		slog.Info("server: using built-in question bank", "questions", s.bank.Len())
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	repo, err := repository.NewPostgresRepository(ctx, s.c.Postgres.URL)
	if err != nil {
		return err
	}
	s.infra.repo = repo

	qs, err := repo.LoadQuestions(ctx)
	if errors.Is(err, repository.ErrNoQuestions) {
		n, err := repo.SeedQuestions(ctx, questions.Default().All())
		if err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		slog.Info("server: seeded question table", "questions", n)

		qs, err = repo.LoadQuestions(ctx)
		if err != nil {
			return fmt.Errorf("load: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("load: %w", err)
	}

	s.bank, err = questions.NewBank(qs)
	if err != nil {
		return err
	}

	slog.Info("server: loaded question bank from postgres", "questions", s.bank.Len())
	return nil
}

func (s *Server) initRedis() error {
	if len(s.c.Redis.Addrs) == 0 {
		slog.Info("server: redis not configured, game events stay in process")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	r := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:    s.c.Redis.Addrs,
		Password: s.c.Redis.Pass,
	})
	s.infra.redis = r

	if err := telemetry.MonitorRedis(r); err != nil {
		return err
	}

	if err := r.Ping(ctx).Err(); err != nil {
		return err
	}

	notify.NewPublisher(notify.Config{
		EventBus: s.eb,
		Redis:    r,
		Prefix:   s.c.Redis.Prefix,
	})

	slog.Info("server: publishing game events", "channel", notify.Channel(s.c.Redis.Prefix))
	return nil
}

func (s *Server) initService() error {
	s.hub = hub.NewHub()

	game, err := services.NewGameService(services.Config{
		Transport:        s.hub,
		Bank:             s.bank,
		EventBus:         s.eb,
		Metrics:          s.metrics,
		QuestionsPerGame: s.c.Game.QuestionsPerGame,
		TimeLimit:        s.c.Game.TimeLimit,
		MatchDelay:       s.c.Game.MatchDelay,
		RevealDelay:      s.c.Game.RevealDelay,
		TimeoutGrace:     s.c.Game.TimeoutGrace,
	})
	if err != nil {
		return err
	}
	s.game = game
	return nil
}

func (s *Server) initAPI() {
	e := gin.New()
	e.Use(gin.Recovery())
	e.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{http.MethodGet, http.MethodOptions},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization", "X-Requested-With"},
		MaxAge:          12 * time.Hour,
	}))

	e.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.reg, promhttp.HandlerOpts{})))
	if s.c.HTTP.Profile {
		pprof.Register(e, "/debug/pprof")
	}

	e.GET("/health", s.health)

	api := e.Group("/api/v1")
	api.GET("/stats", s.stats)

	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
	e.GET("/ws", s.handleWebSocket)

	s.http = &http.Server{
		Addr:              net.JoinHostPort(s.c.HTTP.Bind, strconv.Itoa(s.c.HTTP.Port)),
		Handler:           e,
		ReadHeaderTimeout: 60 * time.Second,
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": ServiceName,
	})
}

func (s *Server) stats(c *gin.Context) {
	c.JSON(http.StatusOK, s.game.Stats())
}

// Start runs the game loop and the HTTP listener until Shutdown.
func (s *Server) Start() error {
	var eg errgroup.Group

	eg.Go(func() error {
		s.game.Run(s.ctx)
		return nil
	})

	eg.Go(func() error {
		slog.Info("server: HTTP listening", "addr", s.http.Addr)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.cancel()
			return err
		}
		return nil
	})

	err := eg.Wait()
	if err != nil {
		slog.Error("server: stopped with error", "error", err)
	}
	return err
}

func (s *Server) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.http.Shutdown(ctx); err != nil {
		slog.ErrorContext(ctx, "server: shutdown HTTP failed", "error", err)
	}

	s.cancel()
	s.eb.Stop()
	s.closeInfra()

	slog.InfoContext(ctx, "server: shutdown completed")
}

func (s *Server) closeInfra() {
	if s.infra.repo != nil {
		if err := s.infra.repo.Close(); err != nil {
			slog.Error("server: close postgres failed", "error", err)
		}
	}
	if s.infra.redis != nil {
		if err := s.infra.redis.Close(); err != nil {
			slog.Error("server: close redis failed", "error", err)
		}
	}
}
