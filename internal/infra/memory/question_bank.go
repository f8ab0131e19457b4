package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"blockquest/internal/domain"
	"golang.org/x/sync/singleflight"
)

// BankLoader fetches curated questions from a backing store (e.g., Postgres).
type BankLoader interface {
	LoadQuestions(ctx context.Context, topic string) ([]domain.QuizQuestion, error)
}

// QuestionBank caches curated questions per topic with TTL to avoid repeated DB hits.
type QuestionBank struct {
	loader BankLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group

	rndMu sync.Mutex
	rnd   *rand.Rand

	mu    sync.RWMutex
	cache map[string]cachedQuestions
}

type cachedQuestions struct {
	questions []domain.QuizQuestion
	expiresAt time.Time
}

func NewQuestionBank(loader BankLoader, ttl time.Duration) *QuestionBank {
	return &QuestionBank{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedQuestions),
	}
}

// Questions implements provider.Bank.
func (b *QuestionBank) Questions(ctx context.Context, topic string) ([]domain.QuizQuestion, error) {
	now := b.clock()

	b.mu.RLock()
	if entry, ok := b.cache[topic]; ok && entry.expiresAt.After(now) {
		b.mu.RUnlock()
		return entry.questions, nil
	}
	b.mu.RUnlock()

	result, err, _ := b.sf.Do(topic, func() (interface{}, error) {
		now := b.clock()
		b.mu.RLock()
		if entry, ok := b.cache[topic]; ok && entry.expiresAt.After(now) {
			b.mu.RUnlock()
			return entry.questions, nil
		}
		b.mu.RUnlock()

		questions, err := b.loader.LoadQuestions(ctx, topic)
		if err != nil {
			return nil, err
		}

		ttl := b.ttlWithJitter()
		b.mu.Lock()
		b.cache[topic] = cachedQuestions{
			questions: questions,
			expiresAt: now.Add(ttl),
		}
		b.mu.Unlock()
		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.QuizQuestion), nil
}

// StaticBankLoader is a simple loader backed by an in-memory map (useful for tests/demos).
type StaticBankLoader struct {
	questions map[string][]domain.QuizQuestion
}

func NewStaticBankLoader(questions map[string][]domain.QuizQuestion) *StaticBankLoader {
	return &StaticBankLoader{questions: questions}
}

func (l *StaticBankLoader) LoadQuestions(_ context.Context, topic string) ([]domain.QuizQuestion, error) {
	if questions, ok := l.questions[topic]; ok && len(questions) > 0 {
		return questions, nil
	}
	return nil, domain.ErrQuestionsNotFound
}

func (b *QuestionBank) ttlWithJitter() time.Duration {
	if b.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(b.ttl) / 10
	b.rndMu.Lock()
	defer b.rndMu.Unlock()
	return b.ttl + time.Duration(b.rnd.Int63n(jitterMax+1))
}
