// Package provider supplies quiz questions without ever failing upward.
//
// A Generator (the AI service) is tried first. When it is absent the fixed
// demo question is served; when it errors or returns something malformed a
// curated question from the Bank is used, and failing that the fixed
// "network congested" question.
package provider

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"blockquest/internal/domain"
	"blockquest/internal/logger"
)

// Generator produces a fresh question for a topic.
type Generator interface {
	Generate(ctx context.Context, topic string, difficulty domain.Difficulty) (domain.QuizQuestion, error)
}

// Bank serves curated questions for a topic.
type Bank interface {
	Questions(ctx context.Context, topic string) ([]domain.QuizQuestion, error)
}

// Options tunes a Provider.
type Options struct {
	// Timeout bounds a single Generate call.
	Timeout time.Duration
	// DemoDelay simulates latency when no generator is configured.
	DemoDelay time.Duration
	Logger    *logger.Logger
}

// Provider implements app.QuestionProvider.
type Provider struct {
	gen  Generator
	bank Bank
	opts Options
	log  *logger.Logger

	mu  sync.Mutex
	rnd *rand.Rand
}

// New builds a provider. gen and bank may be nil.
func New(gen Generator, bank Bank, opts Options) *Provider {
	if opts.Logger == nil {
		opts.Logger = logger.NewNop()
	}
	return &Provider{
		gen:  gen,
		bank: bank,
		opts: opts,
		log:  opts.Logger.With("component", "QuestionProvider"),
		rnd:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// FetchQuestion always returns a well-formed question.
func (p *Provider) FetchQuestion(ctx context.Context, topic string, difficulty domain.Difficulty) domain.QuizQuestion {
	if p.gen == nil {
		if p.opts.DemoDelay > 0 {
			timer := time.NewTimer(p.opts.DemoDelay)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
			}
		}
		return DemoQuestion(topic)
	}

	genCtx := ctx
	if p.opts.Timeout > 0 {
		var cancel context.CancelFunc
		genCtx, cancel = context.WithTimeout(ctx, p.opts.Timeout)
		defer cancel()
	}

	q, err := p.gen.Generate(genCtx, topic, difficulty)
	if err == nil && q.Valid() {
		if q.Topic == "" {
			q.Topic = topic
		}
		return q
	}
	if err == nil {
		p.log.Warn("generator returned malformed question", "topic", topic, "options", len(q.Options), "correctIndex", q.CorrectIndex)
	} else {
		p.log.Warn("question generation failed", "topic", topic, "difficulty", difficulty, "error", err)
	}
	return p.fallback(ctx, topic)
}

func (p *Provider) fallback(ctx context.Context, topic string) domain.QuizQuestion {
	if p.bank == nil {
		return CongestedQuestion(topic)
	}
	questions, err := p.bank.Questions(ctx, topic)
	if err != nil {
		p.log.Warn("question bank unavailable", "topic", topic, "error", err)
		return CongestedQuestion(topic)
	}

	valid := make([]domain.QuizQuestion, 0, len(questions))
	for _, q := range questions {
		if q.Valid() {
			valid = append(valid, q)
		}
	}
	if len(valid) == 0 {
		return CongestedQuestion(topic)
	}

	p.mu.Lock()
	q := valid[p.rnd.Intn(len(valid))]
	p.mu.Unlock()

	q.Options = append([]string(nil), q.Options...)
	if q.Topic == "" {
		q.Topic = topic
	}
	return q
}

// DemoQuestion is served when no generator is configured.
func DemoQuestion(topic string) domain.QuizQuestion {
	return domain.QuizQuestion{
		Question: "What is the primary function of a miner in a Proof of Work blockchain (Demo Mode)?",
		Options: []string{
			"To store all the data",
			"To validate transactions and secure the network",
			"To issue new tokens to developers",
			"To create the graphical interface",
		},
		CorrectIndex: 1,
		Explanation:  "Miners use computational power to solve complex mathematical puzzles, validating transactions and adding new blocks to the chain.",
		Topic:        topic,
	}
}

// CongestedQuestion is the last-resort question when generation fails.
func CongestedQuestion(topic string) domain.QuizQuestion {
	return domain.QuizQuestion{
		Question:     "The network is congested (API Error). What is a 'Fork'?",
		Options:      []string{"A split in the blockchain", "A spoon", "A password", "A wallet"},
		CorrectIndex: 0,
		Explanation:  "A fork happens when a blockchain splits into two potential paths forward.",
		Topic:        topic,
	}
}
