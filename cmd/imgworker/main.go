package main

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"staybook/internal/adapters/imaging"
	"staybook/internal/adapters/observability"
	redisad "staybook/internal/adapters/redis"
	"staybook/internal/domain"
	"staybook/internal/shared"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	// initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	log.Info().
		Str("redis", cfg.RedisAddr).
		Int("workers", cfg.ResizeWorkers).
		Msg("image worker starting")

	queue := redisad.NewQueue(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	sem := semaphore.NewWeighted(int64(cfg.ResizeWorkers))

	for {
		task, err := queue.Dequeue(ctx, 5*time.Second)
		if err != nil {
			log.Warn().Err(err).Msg("dequeue failed")
			time.Sleep(time.Second)
			continue
		}
		if task == nil {
			continue
		}

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		go func(t domain.ResizeTask) {
			defer sem.Release(1)

			paths, err := imaging.ResizeFile(t.Path, t.Widths)
			res := domain.TaskResult{OK: err == nil, Paths: paths}
			if err != nil {
				res.Err = err.Error()
				log.Warn().Str("task", t.ID).Err(err).Msg("resize failed")
			} else {
				log.Info().Str("task", t.ID).Int("variants", len(paths)).Msg("resize ok")
			}
			if err := queue.Complete(ctx, t.ID, res); err != nil {
				log.Warn().Str("task", t.ID).Err(err).Msg("publish result failed")
			}
		}(*task)
	}
}
