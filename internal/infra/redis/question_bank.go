package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"sync"
	"time"

	"blockquest/internal/domain"
	"blockquest/internal/infra/memory"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// QuestionBank caches curated questions in Redis and falls back to a loader on cache miss.
// Each topic is stored as one JSON array: SET quiz:bank:{topic} [...]
type QuestionBank struct {
	client *redis.Client
	loader memory.BankLoader
	ttl    time.Duration
	sf     singleflight.Group

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewQuestionBank(client *redis.Client, loader memory.BankLoader, ttl time.Duration) *QuestionBank {
	return &QuestionBank{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Questions implements provider.Bank.
func (b *QuestionBank) Questions(ctx context.Context, topic string) ([]domain.QuizQuestion, error) {
	if questions, ok := b.cached(ctx, topic); ok {
		return questions, nil
	}

	result, err, _ := b.sf.Do(topic, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if questions, ok := b.cached(ctx, topic); ok {
			return questions, nil
		}

		questions, err := b.loader.LoadQuestions(ctx, topic)
		if err != nil {
			return nil, err
		}

		if raw, err := json.Marshal(questions); err == nil {
			// best-effort; a failed write only costs another load
			_ = b.client.Set(ctx, b.key(topic), raw, b.ttlWithJitter()).Err()
		}
		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.QuizQuestion), nil
}

func (b *QuestionBank) cached(ctx context.Context, topic string) ([]domain.QuizQuestion, bool) {
	raw, err := b.client.Get(ctx, b.key(topic)).Bytes()
	if err != nil {
		return nil, false
	}
	var questions []domain.QuizQuestion
	if err := json.Unmarshal(raw, &questions); err != nil || len(questions) == 0 {
		return nil, false
	}
	return questions, true
}

func (b *QuestionBank) key(topic string) string {
	return "quiz:bank:" + topic
}

func (b *QuestionBank) ttlWithJitter() time.Duration {
	if b.ttl <= 0 {
		return 0
	}
	jitterMax := int64(b.ttl) / 10
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ttl + time.Duration(b.rnd.Int63n(jitterMax+1))
}
