package cli

import (
	"context"
	"fmt"
	"time"

	"blockquest/internal/app"
	"blockquest/internal/config"
	"blockquest/internal/domain"
	"blockquest/internal/infra/gemini"
	"blockquest/internal/infra/memory"
	pgloader "blockquest/internal/infra/postgres"
	redisinfra "blockquest/internal/infra/redis"
	"blockquest/internal/logger"
	"blockquest/internal/provider"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
)

// deps are the long-lived clients behind a MiningService.
type deps struct {
	redis *redis.Client
	pool  *pgxpool.Pool
}

func (d deps) Close() {
	if d.pool != nil {
		d.pool.Close()
	}
	if d.redis != nil {
		_ = d.redis.Close()
	}
}

// buildService wires stores, the question provider and the leaderboard from cfg.
// Redis and Postgres are optional; without them everything stays in memory.
func buildService(ctx context.Context, cfg config.Config, log *logger.Logger) (*app.MiningService, deps, error) {
	var d deps

	if cfg.Redis.Addr != "" {
		d.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := d.redis.Ping(ctx).Err(); err != nil {
			d.Close()
			return nil, deps{}, fmt.Errorf("redis ping: %w", err)
		}
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)

	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			d.Close()
			return nil, deps{}, fmt.Errorf("postgres connect: %w", err)
		}
		d.pool = pool
	}

	var loader memory.BankLoader = memory.NewStaticBankLoader(memory.SeedQuestions())
	if d.pool != nil {
		loader = pgloader.NewBankLoader(d.pool)
	}

	bankTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	var bank provider.Bank
	if d.redis != nil {
		bank = redisinfra.NewQuestionBank(d.redis, loader, bankTTL)
	} else {
		bank = memory.NewQuestionBank(loader, bankTTL)
	}

	var gen provider.Generator
	if cfg.Provider.APIKey != "" {
		g, err := gemini.NewGenerator(ctx, cfg.Provider.APIKey, cfg.Provider.Model, log)
		if err != nil {
			d.Close()
			return nil, deps{}, err
		}
		gen = g
	} else {
		log.Warn("no gemini api key configured, serving the demo question")
	}
	questions := provider.New(gen, bank, provider.Options{
		Timeout:   config.TTLDuration(cfg.Provider.Timeout, 20*time.Second),
		DemoDelay: config.TTLDuration(cfg.Provider.DemoDelay, time.Second),
		Logger:    log,
	})

	var store app.PlayerRepository
	var board app.LeaderboardSource
	if d.redis != nil {
		store = redisinfra.NewPlayerStore(d.redis, redisTTL)
		lb := redisinfra.NewLeaderboard(d.redis, cfg.Redis.LeaderboardLimit)
		if err := lb.SeedIfEmpty(ctx, domain.MockLeaderboard()); err != nil {
			d.Close()
			return nil, deps{}, err
		}
		board = lb
	} else {
		store = memory.NewPlayerStore()
		board = memory.NewStaticLeaderboard(nil)
	}

	service := app.NewMiningService(store, questions, board, app.ServiceOptions{
		RewardDelay: config.TTLDuration(cfg.Quiz.RewardDelay, app.DefaultRewardDelay),
		Logger:      log,
	})
	return service, d, nil
}
