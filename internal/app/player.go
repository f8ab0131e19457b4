package app

import (
	"context"
	"sync"
	"time"

	"blockquest/internal/chain"
	"blockquest/internal/domain"
	"blockquest/internal/logger"
	"blockquest/internal/progression"
)

// Snapshot is everything a renderer needs to draw a player's screen.
type Snapshot struct {
	PlayerID  string             `json:"playerId"`
	Profile   domain.UserProfile `json:"profile"`
	Chain     []domain.Block     `json:"chain"`
	Quiz      QuizView           `json:"quiz"`
	Unlocked  []string           `json:"unlocked,omitempty"` // badges latched by the latest block
	UpdatedAt time.Time          `json:"updatedAt"`
}

// Player is one session: a chain, a profile and a quiz flow.
type Player struct {
	id     string
	now    func() time.Time
	log    *logger.Logger
	ledger *chain.Ledger
	engine *progression.Engine
	quiz   *QuizSession

	mu           sync.Mutex
	lastUnlocked []string
	subscribers  map[chan Snapshot]struct{}
}

// PlayerOptions configures NewPlayer.
type PlayerOptions struct {
	Profile     domain.UserProfile
	RewardDelay time.Duration
	Clock       func() time.Time
	Logger      *logger.Logger
}

func NewPlayer(id string, provider QuestionProvider, opts PlayerOptions) *Player {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewNop()
	}
	if opts.Profile.Level == 0 {
		opts.Profile = domain.NewProfile(opts.Profile.Name, opts.Profile.AvatarID)
	}

	p := &Player{
		id:          id,
		now:         opts.Clock,
		log:         opts.Logger.With("player", id),
		ledger:      chain.NewLedgerWithClock(opts.Clock),
		engine:      progression.NewEngine(opts.Profile),
		subscribers: make(map[chan Snapshot]struct{}),
	}
	p.quiz = NewQuizSession(provider, SessionOptions{
		RewardDelay: opts.RewardDelay,
		OnReward:    p.reward,
		OnChange:    p.notify,
		Logger:      p.log,
	})
	return p
}

// ID returns the player id.
func (p *Player) ID() string {
	return p.id
}

// Quiz exposes the quiz state machine.
func (p *Player) Quiz() *QuizSession {
	return p.quiz
}

// Ledger exposes the player's chain for reading.
func (p *Player) Ledger() *chain.Ledger {
	return p.ledger
}

// Profile returns the current profile.
func (p *Player) Profile() domain.UserProfile {
	return p.engine.Profile()
}

// Snapshot captures the current state.
func (p *Player) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshotLocked()
}

// Subscribe returns a channel that receives a snapshot on every change.
// The caller must invoke the returned cancel function to avoid leaks.
func (p *Player) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 8)

	p.mu.Lock()
	p.subscribers[ch] = struct{}{}
	// fresh buffer: cannot block, and no broadcast can overtake it
	ch <- p.snapshotLocked()
	p.mu.Unlock()

	cancel := func() {
		p.mu.Lock()
		if _, ok := p.subscribers[ch]; ok {
			delete(p.subscribers, ch)
			close(ch)
		}
		p.mu.Unlock()
	}
	return ch, cancel
}

// SelectTopic starts mining topic.
func (p *Player) SelectTopic(ctx context.Context, topic domain.Topic) error {
	return p.quiz.SelectTopic(ctx, topic.ID, topic.Difficulty)
}

// Close stops the quiz flow and detaches all subscribers.
func (p *Player) Close() {
	p.quiz.Close()
	p.mu.Lock()
	for ch := range p.subscribers {
		delete(p.subscribers, ch)
		close(ch)
	}
	p.mu.Unlock()
}

func (p *Player) reward(topic string, difficulty domain.Difficulty) {
	p.mu.Lock()
	defer p.mu.Unlock()

	block := p.ledger.Append(topic, difficulty)
	res := p.engine.Apply(difficulty)
	p.lastUnlocked = res.Unlocked

	p.log.Info("block mined",
		"index", block.Index,
		"hash", block.Hash,
		"level", res.Profile.Level,
		"hashRate", res.Profile.HashRate,
	)
	if res.LeveledUp {
		p.log.Info("level up", "level", res.Profile.Level)
	}
	for _, id := range res.Unlocked {
		p.log.Info("badge unlocked", "badge", id)
	}
	p.broadcastLocked()
	p.lastUnlocked = nil
}

func (p *Player) notify() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.broadcastLocked()
}

func (p *Player) broadcastLocked() {
	snap := p.snapshotLocked()
	for ch := range p.subscribers {
		select {
		case ch <- snap:
		default:
			// Slow subscriber: drop its oldest snapshot so the newest always lands.
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
}

func (p *Player) snapshotLocked() Snapshot {
	return Snapshot{
		PlayerID:  p.id,
		Profile:   p.engine.Profile(),
		Chain:     p.ledger.All(),
		Quiz:      p.quiz.View(),
		Unlocked:  append([]string(nil), p.lastUnlocked...),
		UpdatedAt: p.now(),
	}
}
