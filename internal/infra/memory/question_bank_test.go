package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"blockquest/internal/domain"
)

func TestQuestionBankCaches(t *testing.T) {
	loader := &countingLoader{
		BankLoader: NewStaticBankLoader(map[string][]domain.QuizQuestion{
			"basics": {sampleQuestion()},
		}),
	}
	bank := NewQuestionBank(loader, time.Minute)

	if _, err := bank.Questions(context.Background(), "basics"); err != nil {
		t.Fatalf("questions: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader once, got %d", loader.calls)
	}

	questions, err := bank.Questions(context.Background(), "basics")
	if err != nil {
		t.Fatalf("questions 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.calls)
	}
	if len(questions) != 1 || questions[0].CorrectIndex != 1 {
		t.Fatalf("unexpected questions %+v", questions)
	}
}

func TestQuestionBankExpires(t *testing.T) {
	loader := &countingLoader{
		BankLoader: NewStaticBankLoader(map[string][]domain.QuizQuestion{
			"basics": {sampleQuestion()},
		}),
	}
	bank := NewQuestionBank(loader, time.Minute)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	bank.clock = func() time.Time { return now }

	if _, err := bank.Questions(context.Background(), "basics"); err != nil {
		t.Fatalf("questions: %v", err)
	}
	now = now.Add(2 * time.Minute)
	if _, err := bank.Questions(context.Background(), "basics"); err != nil {
		t.Fatalf("questions after expiry: %v", err)
	}
	if loader.calls != 2 {
		t.Fatalf("expected reload after ttl, got %d calls", loader.calls)
	}
}

func TestStaticBankLoaderUnknownTopic(t *testing.T) {
	loader := NewStaticBankLoader(nil)
	if _, err := loader.LoadQuestions(context.Background(), "defi"); !errors.Is(err, domain.ErrQuestionsNotFound) {
		t.Fatalf("expected ErrQuestionsNotFound, got %v", err)
	}
}

func TestSeedQuestionsAreValid(t *testing.T) {
	seed := SeedQuestions()
	for _, topic := range domain.Topics() {
		questions := seed[topic.ID]
		if len(questions) == 0 {
			t.Fatalf("no seed questions for %s", topic.ID)
		}
		for _, q := range questions {
			if !q.Valid() || q.Topic != topic.ID {
				t.Fatalf("invalid seed question %+v", q)
			}
		}
	}
}

type countingLoader struct {
	BankLoader
	calls int
}

func (l *countingLoader) LoadQuestions(ctx context.Context, topic string) ([]domain.QuizQuestion, error) {
	l.calls++
	return l.BankLoader.LoadQuestions(ctx, topic)
}

func sampleQuestion() domain.QuizQuestion {
	return domain.QuizQuestion{
		Question:     "What does each block store?",
		Options:      []string{"A password", "The previous block's hash", "An email", "A font"},
		CorrectIndex: 1,
		Explanation:  "Blocks are linked by the previous block's hash.",
		Topic:        "basics",
	}
}
