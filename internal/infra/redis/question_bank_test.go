package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"blockquest/internal/domain"
	"blockquest/internal/infra/memory"
	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestQuestionBankCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)

	loader := &countingLoader{
		BankLoader: memory.NewStaticBankLoader(memory.SeedQuestions()),
	}
	bank := NewQuestionBank(client, loader, time.Minute)

	questions, err := bank.Questions(context.Background(), "consensus")
	if err != nil {
		t.Fatalf("questions: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.calls)
	}
	if !mr.Exists("quiz:bank:consensus") {
		t.Fatalf("expected redis key to be set")
	}
	if ttl := mr.TTL("quiz:bank:consensus"); ttl < time.Minute {
		t.Fatalf("expected ttl of at least a minute, got %s", ttl)
	}

	// Second call should hit cache, loader not incremented.
	cached, err := bank.Questions(context.Background(), "consensus")
	if err != nil {
		t.Fatalf("questions 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}
	if len(cached) != len(questions) || cached[0].Question != questions[0].Question {
		t.Fatalf("cached questions differ: %+v", cached)
	}
}

func TestQuestionBankPropagatesLoaderError(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	bank := NewQuestionBank(newClient(mr), memory.NewStaticBankLoader(nil), time.Minute)
	if _, err := bank.Questions(context.Background(), "basics"); !errors.Is(err, domain.ErrQuestionsNotFound) {
		t.Fatalf("expected ErrQuestionsNotFound, got %v", err)
	}
	if mr.Exists("quiz:bank:basics") {
		t.Fatalf("nothing should be cached on error")
	}
}

type countingLoader struct {
	memory.BankLoader
	calls int
}

func (l *countingLoader) LoadQuestions(ctx context.Context, topic string) ([]domain.QuizQuestion, error) {
	l.calls++
	return l.BankLoader.LoadQuestions(ctx, topic)
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
