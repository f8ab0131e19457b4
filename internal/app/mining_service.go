package app

import (
	"context"
	"time"

	"blockquest/internal/domain"
	"blockquest/internal/logger"
	"blockquest/internal/progression"
	"github.com/google/uuid"
)

// PlayerRepository abstracts where live players are kept (in-memory, Redis, etc).
type PlayerRepository interface {
	Add(player *Player)
	Get(playerID string) (*Player, bool)
	Delete(playerID string)
}

// livenessTracker is implemented by repositories that expire idle players.
type livenessTracker interface {
	Touch(ctx context.Context, playerID string) error
}

// LeaderboardSource serves the read-only network leaderboard.
type LeaderboardSource interface {
	Leaderboard(ctx context.Context) ([]domain.LeaderboardEntry, error)
}

// ServiceOptions tunes the mining flow.
type ServiceOptions struct {
	RewardDelay time.Duration
	Clock       func() time.Time
	Logger      *logger.Logger
}

// MiningService contains the mining (quiz) use cases.
type MiningService struct {
	players     PlayerRepository
	provider    QuestionProvider
	leaderboard LeaderboardSource
	opts        ServiceOptions
	log         *logger.Logger
}

func NewMiningService(players PlayerRepository, provider QuestionProvider, leaderboard LeaderboardSource, opts ServiceOptions) *MiningService {
	if opts.Logger == nil {
		opts.Logger = logger.NewNop()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &MiningService{
		players:     players,
		provider:    provider,
		leaderboard: leaderboard,
		opts:        opts,
		log:         opts.Logger.With("component", "MiningService"),
	}
}

// NewPlayer starts a fresh session with the initial profile.
func (s *MiningService) NewPlayer(name, avatarID string) *Player {
	id := uuid.NewString()
	player := NewPlayer(id, s.provider, PlayerOptions{
		Profile:     domain.NewProfile(name, avatarID),
		RewardDelay: s.opts.RewardDelay,
		Clock:       s.opts.Clock,
		Logger:      s.opts.Logger,
	})
	s.players.Add(player)
	s.log.Info("player joined", "player", id, "name", player.Profile().Name)
	return player
}

// Player looks up a live player.
func (s *MiningService) Player(playerID string) (*Player, error) {
	player, ok := s.players.Get(playerID)
	if !ok {
		return nil, domain.ErrPlayerNotFound
	}
	return player, nil
}

// SelectTopic asks the provider for a question on topicID.
func (s *MiningService) SelectTopic(ctx context.Context, playerID, topicID string) error {
	player, err := s.Player(playerID)
	if err != nil {
		return err
	}
	topic, ok := domain.LookupTopic(topicID)
	if !ok {
		return domain.ErrUnknownTopic
	}
	return player.SelectTopic(ctx, topic)
}

// SelectOption answers the player's current question.
func (s *MiningService) SelectOption(playerID string, idx int) (AnswerResult, error) {
	player, err := s.Player(playerID)
	if err != nil {
		return AnswerResult{}, err
	}
	return player.Quiz().SelectOption(idx)
}

// Retry requests a replacement question after a wrong answer.
func (s *MiningService) Retry(ctx context.Context, playerID string) error {
	player, err := s.Player(playerID)
	if err != nil {
		return err
	}
	return player.Quiz().Retry(ctx)
}

// Abort returns the player's quiz to idle.
func (s *MiningService) Abort(playerID string) error {
	player, err := s.Player(playerID)
	if err != nil {
		return err
	}
	player.Quiz().Abort()
	return nil
}

// Subscribe returns a channel of snapshots for a player.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *MiningService) Subscribe(playerID string) (<-chan Snapshot, func(), error) {
	player, err := s.Player(playerID)
	if err != nil {
		return nil, nil, err
	}
	ch, cancel := player.Subscribe()
	return ch, cancel, nil
}

// Leave ends a player's session; its chain and profile are discarded.
func (s *MiningService) Leave(playerID string) {
	player, ok := s.players.Get(playerID)
	if !ok {
		return
	}
	player.Close()
	s.players.Delete(playerID)
	s.log.Info("player left", "player", playerID, "blocks", player.Ledger().Length())
}

// Touch marks a player as active when the repository tracks liveness.
func (s *MiningService) Touch(ctx context.Context, playerID string) {
	tracker, ok := s.players.(livenessTracker)
	if !ok {
		return
	}
	if err := tracker.Touch(ctx, playerID); err != nil {
		s.log.Warn("touch player failed", "player", playerID, "error", err)
	}
}

// Topics lists the minable topics.
func (s *MiningService) Topics() []domain.Topic {
	return domain.Topics()
}

// Badges lists the badge catalog.
func (s *MiningService) Badges() []domain.Badge {
	return progression.Catalog()
}

// Leaderboard returns the network leaderboard.
func (s *MiningService) Leaderboard(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	return s.leaderboard.Leaderboard(ctx)
}
