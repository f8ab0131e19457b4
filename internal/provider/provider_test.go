package provider

import (
	"context"
	"errors"
	"testing"
	"time"

	"blockquest/internal/domain"
)

type genFunc func(ctx context.Context, topic string, d domain.Difficulty) (domain.QuizQuestion, error)

func (f genFunc) Generate(ctx context.Context, topic string, d domain.Difficulty) (domain.QuizQuestion, error) {
	return f(ctx, topic, d)
}

type bankFunc func(ctx context.Context, topic string) ([]domain.QuizQuestion, error)

func (f bankFunc) Questions(ctx context.Context, topic string) ([]domain.QuizQuestion, error) {
	return f(ctx, topic)
}

func validQuestion(text string) domain.QuizQuestion {
	return domain.QuizQuestion{
		Question:     text,
		Options:      []string{"a", "b", "c", "d"},
		CorrectIndex: 2,
		Explanation:  "because",
	}
}

func TestFetchWithoutGeneratorServesDemo(t *testing.T) {
	p := New(nil, nil, Options{})
	q := p.FetchQuestion(context.Background(), "basics", domain.DifficultyEasy)
	if q.CorrectIndex != 1 || q.Topic != "basics" || !q.Valid() {
		t.Fatalf("unexpected demo question %+v", q)
	}
}

func TestDemoDelayHonoursCancellation(t *testing.T) {
	p := New(nil, nil, Options{DemoDelay: time.Hour})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan domain.QuizQuestion, 1)
	go func() { done <- p.FetchQuestion(ctx, "basics", domain.DifficultyEasy) }()
	select {
	case q := <-done:
		if !q.Valid() {
			t.Fatalf("expected a well-formed question, got %+v", q)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("fetch ignored cancellation")
	}
}

func TestFetchPassesGeneratedQuestion(t *testing.T) {
	var gotDeadline bool
	gen := genFunc(func(ctx context.Context, topic string, d domain.Difficulty) (domain.QuizQuestion, error) {
		_, gotDeadline = ctx.Deadline()
		if topic != "consensus" || d != domain.DifficultyMedium {
			t.Errorf("unexpected request %s %s", topic, d)
		}
		return validQuestion("generated"), nil
	})
	p := New(gen, nil, Options{Timeout: time.Second})

	q := p.FetchQuestion(context.Background(), "consensus", domain.DifficultyMedium)
	if q.Question != "generated" || q.Topic != "consensus" {
		t.Fatalf("unexpected question %+v", q)
	}
	if !gotDeadline {
		t.Fatalf("expected generator call to carry a deadline")
	}
}

func TestFetchFallsBackToBank(t *testing.T) {
	gen := genFunc(func(context.Context, string, domain.Difficulty) (domain.QuizQuestion, error) {
		return domain.QuizQuestion{}, errors.New("quota exceeded")
	})
	bank := bankFunc(func(_ context.Context, topic string) ([]domain.QuizQuestion, error) {
		bad := validQuestion("broken")
		bad.Options = bad.Options[:2]
		return []domain.QuizQuestion{bad, validQuestion("curated")}, nil
	})
	p := New(gen, bank, Options{})

	for i := 0; i < 10; i++ {
		q := p.FetchQuestion(context.Background(), "security", domain.DifficultyHard)
		if q.Question != "curated" || q.Topic != "security" {
			t.Fatalf("expected curated fallback, got %+v", q)
		}
	}
}

func TestFetchMalformedFallsBackToCongested(t *testing.T) {
	gen := genFunc(func(context.Context, string, domain.Difficulty) (domain.QuizQuestion, error) {
		q := validQuestion("too many options")
		q.Options = append(q.Options, "e")
		return q, nil
	})
	bank := bankFunc(func(context.Context, string) ([]domain.QuizQuestion, error) {
		return nil, domain.ErrQuestionsNotFound
	})

	for _, p := range []*Provider{New(gen, nil, Options{}), New(gen, bank, Options{})} {
		q := p.FetchQuestion(context.Background(), "basics", domain.DifficultyEasy)
		want := CongestedQuestion("basics")
		if q.Question != want.Question || q.CorrectIndex != 0 || q.Topic != "basics" {
			t.Fatalf("expected congested question, got %+v", q)
		}
	}
}

func TestFallbackQuestionsAreWellFormed(t *testing.T) {
	for _, q := range []domain.QuizQuestion{DemoQuestion("x"), CongestedQuestion("x")} {
		if !q.Valid() {
			t.Fatalf("fallback question is malformed: %+v", q)
		}
	}
}
