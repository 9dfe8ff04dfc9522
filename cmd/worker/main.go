package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spring-sisters/spring-backend/config"
	"github.com/spring-sisters/spring-backend/internal/auth"
	"github.com/spring-sisters/spring-backend/internal/bootstrap"
	"github.com/spring-sisters/spring-backend/internal/logger"
	"github.com/spring-sisters/spring-backend/internal/notify"
	profilerepo "github.com/spring-sisters/spring-backend/internal/profile/repository"
	profilesvc "github.com/spring-sisters/spring-backend/internal/profile/service"
	"github.com/spring-sisters/spring-backend/internal/reminder"
	trackingrepo "github.com/spring-sisters/spring-backend/internal/tracking/repository"
	trackingsvc "github.com/spring-sisters/spring-backend/internal/tracking/service"
	"github.com/spring-sisters/spring-backend/internal/whisper"
)

// usage: worker [run-once]
// Without arguments the reorder sweep runs on REORDER_CRON until SIGTERM.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := logger.Init(cfg.App.Environment, cfg.App.LogLevel); err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()
	lg := logger.L().Sugar()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := bootstrap.OpenDB(ctx, cfg.Database, bootstrap.DBOptions{})
	if err != nil {
		lg.Fatalf("db: %v", err)
	}
	defer pool.Close()

	rdb, err := bootstrap.OpenRedis(ctx, cfg.Redis, bootstrap.DBOptions{})
	if err != nil {
		lg.Fatalf("redis: %v", err)
	}
	defer rdb.Close()

	var sender notify.Sender = notify.LogSender{}
	if cfg.Firebase.CredentialsPath != "" {
		app, err := auth.InitializeFirebase(ctx, &cfg.Firebase)
		if err != nil {
			lg.Fatalf("firebase: %v", err)
		}
		client, err := app.Messaging(ctx)
		if err != nil {
			lg.Fatalf("firebase messaging: %v", err)
		}
		sender = notify.NewFCMSender(client)
	} else {
		lg.Warn("FIREBASE_CREDENTIALS_PATH not set: pushes are only logged")
	}

	job := reminder.NewReorderJob(
		profilesvc.NewProfileService(profilerepo.NewRepo(pool)),
		trackingsvc.NewTrackingService(trackingrepo.NewTrackedRepository(rdb)),
		whisper.NewService(whisper.NewMarkerStore(rdb)),
		sender,
		cfg.Worker.Parallelism,
	)

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "run-once":
			res, err := job.Run(ctx, time.Now())
			if err != nil {
				lg.Fatalf("reorder sweep: %v", err)
			}
			lg.Infof("reorder sweep: targets=%d sent=%d skipped=%d failed=%d", res.Targets, res.Sent, res.Skipped, res.Failed)
			return
		default:
			lg.Fatalf("unknown command: %s", os.Args[1])
		}
	}

	sched := reminder.NewScheduler(job, 10*time.Minute)
	if err := sched.Start(cfg.Worker.ReorderCron); err != nil {
		lg.Fatalf("scheduler: %v", err)
	}
	<-ctx.Done()
	lg.Info("stopping scheduler")
	sched.Stop()
}
