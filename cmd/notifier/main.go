package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"guest_portal/internal/adapters/expo"
	"guest_portal/internal/adapters/observability"
	"guest_portal/internal/app"
	"guest_portal/internal/domain"
	"guest_portal/internal/shared"
	mysqlrepo "guest_portal/internal/storage/mysql"
)

// Polls for pending upsell requests the host has not been notified about
// and fans out Expo pushes with bounded concurrency. Runs separately
// from the API so slow or failing pushes never touch request creation.
func main() {
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)

	log.Info().
		Str("expo", cfg.ExpoBase).
		Int("workers", cfg.PushWorkers).
		Dur("interval", cfg.NotifyEvery).
		Msg("notifier starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)
	push := expo.New(cfg.ExpoBase, 5)
	svc := app.NewNotifyService(repo, push)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(cfg.NotifyEvery)
	defer ticker.Stop()

	for {
		dispatch(ctx, svc, cfg.PushWorkers, cfg.NotifyBatch)
		select {
		case <-ctx.Done():
			log.Info().Msg("notifier stopping")
			return
		case <-ticker.C:
		}
	}
}

func dispatch(ctx context.Context, svc *app.NotifyService, workers, batch int) {
	reqs, err := svc.Pending(ctx, batch)
	if err != nil {
		log.Warn().Err(err).Msg("list pending failed")
		return
	}
	if len(reqs) == 0 {
		return
	}

	sem := semaphore.NewWeighted(int64(workers))
	var wg sync.WaitGroup

	for _, req := range reqs {
		req := req

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Warn().Err(err).Msg("semaphore acquire failed")
			break
		}

		wg.Add(1)
		go func(r domain.UpsellRequest) {
			defer wg.Done()
			defer sem.Release(1)

			if err := svc.Notify(ctx, r); err != nil {
				log.Warn().Str("request_id", r.ID).Err(err).Msg("notify failed")
				return
			}
			log.Info().Str("request_id", r.ID).Msg("host notified")
		}(req)
	}

	wg.Wait()
}
