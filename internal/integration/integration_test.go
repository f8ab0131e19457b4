package integration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"blockquest/internal/app"
	"blockquest/internal/domain"
	"blockquest/internal/infra/memory"
	pgbank "blockquest/internal/infra/postgres"
	pgmigrations "blockquest/internal/infra/postgres/migrations"
	infraredis "blockquest/internal/infra/redis"
	"blockquest/internal/provider"
	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
)

// failingGenerator forces every fetch onto the curated bank.
type failingGenerator struct{}

func (failingGenerator) Generate(context.Context, string, domain.Difficulty) (domain.QuizQuestion, error) {
	return domain.QuizQuestion{}, errors.New("generator offline")
}

func TestMineBlockFromCuratedBankEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	migrateAndSeed(t, ctx, pgURL)

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	loader := pgbank.NewBankLoader(pool)
	curated, err := loader.LoadQuestions(ctx, "security")
	if err != nil {
		t.Fatalf("load curated: %v", err)
	}
	if len(curated) != len(memory.SeedQuestions()["security"]) {
		t.Fatalf("expected seeded security questions, got %d", len(curated))
	}

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	defer redisClient.Close()

	board := infraredis.NewLeaderboard(redisClient, 3)
	if err := board.SeedIfEmpty(ctx, domain.MockLeaderboard()); err != nil {
		t.Fatalf("seed leaderboard: %v", err)
	}

	service := app.NewMiningService(
		infraredis.NewPlayerStore(redisClient, 5*time.Minute),
		provider.New(failingGenerator{}, infraredis.NewQuestionBank(redisClient, loader, 5*time.Minute), provider.Options{}),
		board,
		app.ServiceOptions{},
	)

	player := service.NewPlayer("Ada", "robot")
	defer service.Leave(player.ID())
	if n, err := redisClient.Exists(ctx, "quiz:player:"+player.ID()).Result(); err != nil || n != 1 {
		t.Fatalf("expected liveness key, got %d %v", n, err)
	}

	if err := service.SelectTopic(ctx, player.ID(), "security"); err != nil {
		t.Fatalf("select topic: %v", err)
	}
	player.Quiz().Wait()

	view := player.Quiz().View()
	if view.State != app.StatePresenting || view.Question == nil {
		t.Fatalf("expected presented question, got %+v", view)
	}
	correct := -1
	for _, q := range curated {
		if q.Question == view.Question.Question {
			correct = q.CorrectIndex
		}
	}
	if correct < 0 {
		t.Fatalf("question %q did not come from the curated bank", view.Question.Question)
	}

	res, err := service.SelectOption(player.ID(), correct)
	if err != nil || !res.Correct {
		t.Fatalf("expected correct answer, got %+v %v", res, err)
	}
	if err := player.Ledger().Verify(); err != nil || player.Ledger().Length() != 1 {
		t.Fatalf("expected one verified block, len=%d err=%v", player.Ledger().Length(), err)
	}
	if !player.Profile().HasBadge("genesis") {
		t.Fatalf("expected genesis badge, got %+v", player.Profile())
	}

	entries, err := service.Leaderboard(ctx)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(entries) != 3 || entries[0].Name != "Satoshi_N" || entries[2].Rank != 3 {
		t.Fatalf("unexpected leaderboard %+v", entries)
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "quest", "POSTGRES_PASSWORD": "questpass", "POSTGRES_DB": "questdb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://quest:questpass@%s:%s/questdb?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func migrateAndSeed(t *testing.T, ctx context.Context, dsn string) {
	t.Helper()
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	n, err := pgbank.SeedQuestions(ctx, db, memory.SeedQuestions())
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if n == 0 {
		t.Fatalf("expected rows seeded")
	}
	// seeding is idempotent per topic
	if again, err := pgbank.SeedQuestions(ctx, db, memory.SeedQuestions()); err != nil || again != 0 {
		t.Fatalf("expected no rows on reseed, got %d %v", again, err)
	}
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(opts), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("integration test skipped in short mode")
	}
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
