package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	api "github.com/mind-engage/safety-quiz/internal/api/http"
	"github.com/mind-engage/safety-quiz/internal/auth"
	"github.com/mind-engage/safety-quiz/internal/bank"
	"github.com/mind-engage/safety-quiz/internal/config"
	"github.com/mind-engage/safety-quiz/internal/notify"
	"github.com/mind-engage/safety-quiz/internal/pipeline"
	"github.com/mind-engage/safety-quiz/internal/quiz"
	"github.com/mind-engage/safety-quiz/internal/results"
	"github.com/mind-engage/safety-quiz/internal/storage"
)

func main() {
	cfg := config.Load()

	dir, err := auth.LoadDirectory(cfg.CredentialsFile)
	if err != nil {
		log.Fatalf("credentials: %v", err)
	}
	if dir.Len() == 0 {
		log.Printf("warning: %s has no users, nobody can log in", cfg.CredentialsFile)
	}
	authSvc := auth.NewAuthService(cfg.AuthHMACSecret, cfg.TokenTTL)

	sink, err := results.Open(cfg.ResultsPath)
	if err != nil {
		log.Fatalf("results: %v", err)
	}
	bs, err := storage.NewFSStore(cfg.ArtifactsDir)
	if err != nil {
		log.Fatalf("blob store: %v", err)
	}
	mailer := notify.New(cfg)
	if cfg.SMTPHost == "" {
		log.Printf("SMTP_HOST not set, result emails are only logged")
	}

	handler := api.NewRouter(api.Deps{
		Auth:         authSvc,
		Directory:    dir,
		Banks:        bank.NewCatalog(cfg.BanksDir),
		Sessions:     quiz.NewMemoryStore(),
		Pipeline:     pipeline.New(bs, sink, mailer, cfg.Recipients, cfg.BadgeVerifyURL),
		Artifacts:    bs,
		Results:      sink,
		DefaultCount: cfg.DefaultQuestionCount,
		CORSOrigins:  cfg.CORSOrigins(),
	})

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: handler, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		log.Printf("listening on %s (mode=%s, banks=%s, results=%s)", cfg.HTTPAddr, cfg.Mode, cfg.BanksDir, cfg.ResultsPath)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
