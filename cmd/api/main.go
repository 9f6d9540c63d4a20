package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/neuroexam/clinic-api/internal/catalog"
	"github.com/neuroexam/clinic-api/internal/config"
	"github.com/neuroexam/clinic-api/internal/email"
	"github.com/neuroexam/clinic-api/internal/handler"
	agendamentoH "github.com/neuroexam/clinic-api/internal/handler/agendamento"
	analiseH "github.com/neuroexam/clinic-api/internal/handler/analise"
	authH "github.com/neuroexam/clinic-api/internal/handler/auth"
	consultaH "github.com/neuroexam/clinic-api/internal/handler/consulta"
	laudoH "github.com/neuroexam/clinic-api/internal/handler/laudo"
	"github.com/neuroexam/clinic-api/internal/repository/postgres"
	"github.com/neuroexam/clinic-api/internal/router"
	agendamentoS "github.com/neuroexam/clinic-api/internal/service/agendamento"
	analiseS "github.com/neuroexam/clinic-api/internal/service/analise"
	authS "github.com/neuroexam/clinic-api/internal/service/auth"
	consultaS "github.com/neuroexam/clinic-api/internal/service/consulta"
	laudoS "github.com/neuroexam/clinic-api/internal/service/laudo"
	"github.com/neuroexam/clinic-api/internal/worker"
	"github.com/neuroexam/clinic-api/pkg/logger"
	messagingredis "github.com/neuroexam/clinic-api/pkg/messaging/redis"
	"github.com/neuroexam/clinic-api/pkg/metrics"
	"github.com/neuroexam/clinic-api/pkg/security"
)

func main() {
	log := logger.NewLogger(nil)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err, "failed to load config")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := postgres.Migrate(ctx, db); err != nil {
		log.Fatal(err, "failed to run migrations")
	}

	if err := os.MkdirAll(cfg.Upload.Dir, 0o755); err != nil {
		log.Fatal(err, "failed to create upload dir")
	}

	brokerLog := zerolog.New(os.Stdout).With().Timestamp().Logger()
	broker, err := messagingredis.NewRedisBroker(messagingredis.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   cfg.Redis.MaxRetries,
		RetryBackoff: 100 * time.Millisecond,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}, &brokerLog)
	if err != nil {
		log.Fatal(err, "failed to connect to redis")
	}
	defer broker.Close()

	m := metrics.NewMetrics("clinic", "api")
	cat := catalog.Default()
	mail := email.NewService(cfg.SMTP, log)
	hasher := security.NewBcryptHasher(bcrypt.DefaultCost)

	agendamentoRepo := postgres.NewAgendamentoRepository(db)
	consultaRepo := postgres.NewConsultaRepository(db)
	pacienteRepo := postgres.NewPacienteRepository(db)
	medicoRepo := postgres.NewMedicoRepository(db)
	laudoRepo := postgres.NewLaudoRepository(db)
	analiseRepo := postgres.NewAnaliseRepository(db)
	usuarioRepo := postgres.NewUsuarioRepository(db)

	agendamentoSvc := agendamentoS.NewService(agendamentoRepo, cat)
	consultaSvc := consultaS.NewService(consultaRepo, pacienteRepo, medicoRepo, cat, mail, log, m)
	laudoSvc := laudoS.NewService(laudoRepo)
	analiseSvc := analiseS.NewService(
		analiseRepo,
		laudoRepo,
		analiseS.NewHeuristicScorer(cfg.Upload.Dir),
		broker,
		analiseS.Options{
			Channel:        cfg.Analysis.Channel,
			ScorerTimeout:  cfg.Analysis.Timeout(),
			ScorerFailures: cfg.Analysis.ScorerFailures,
		},
		log,
		m,
	)
	authSvc := authS.NewService(usuarioRepo, hasher, cfg.Auth, log)

	if err := authSvc.Bootstrap(ctx); err != nil {
		log.Fatal(err, "failed to bootstrap auth")
	}

	analiseWorker := worker.NewAnaliseWorker(analiseSvc, broker, cfg.Analysis.Channel, log)
	go func() {
		if err := analiseWorker.Run(ctx); err != nil && err != context.Canceled {
			log.Error(err, "analise worker exited")
		}
	}()

	r := router.NewRouter(cfg, log, authSvc, handler.NewHealth(db),
		[]router.Handler{
			authH.NewHandler(authSvc),
		},
		[]router.Handler{
			agendamentoH.NewHandler(agendamentoSvc),
			consultaH.NewHandler(consultaSvc, cat),
			laudoH.NewHandler(laudoSvc),
			analiseH.NewHandler(analiseSvc, cfg.Upload.Dir),
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		log.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err, "server failed")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(err, "graceful shutdown failed")
	}
}
