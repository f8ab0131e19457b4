package app

import (
	"context"
	"sync"
	"time"

	"blockquest/internal/domain"
	"blockquest/internal/logger"
)

// QuizState is the phase of the per-topic quiz flow.
type QuizState string

const (
	StateIdle       QuizState = "idle"
	StateLoading    QuizState = "loading"
	StatePresenting QuizState = "presenting"
	StateAnswered   QuizState = "answered"
)

// Outcome is the verdict on an answered question.
type Outcome string

const (
	OutcomeNone      Outcome = ""
	OutcomeCorrect   Outcome = "correct"
	OutcomeIncorrect Outcome = "incorrect"
)

const (
	// RewardDifficulty is what a correct answer is credited as, whatever the topic's tag.
	RewardDifficulty = domain.DifficultyMedium
	// RetryDifficulty is requested for the replacement question after a wrong answer.
	RetryDifficulty = domain.DifficultyEasy
	// DefaultRewardDelay leaves the verdict on screen before the block is mined.
	DefaultRewardDelay = 1500 * time.Millisecond
)

// QuestionProvider supplies quiz content. It never fails: on any internal
// error it returns a fallback question instead.
type QuestionProvider interface {
	FetchQuestion(ctx context.Context, topic string, difficulty domain.Difficulty) domain.QuizQuestion
}

// RewardFunc commits a correct answer to the chain and the profile.
type RewardFunc func(topic string, difficulty domain.Difficulty)

// PublicQuestion is a question without its answer.
type PublicQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Topic    string   `json:"topic"`
}

// QuizView is a read-only snapshot of a QuizSession.
type QuizView struct {
	State        QuizState         `json:"state"`
	Topic        string            `json:"topic,omitempty"`
	Difficulty   domain.Difficulty `json:"difficulty,omitempty"`
	Question     *PublicQuestion   `json:"question,omitempty"`
	Selected     *int              `json:"selected,omitempty"`
	Outcome      Outcome           `json:"outcome,omitempty"`
	CorrectIndex *int              `json:"correctIndex,omitempty"`
	Explanation  string            `json:"explanation,omitempty"`
}

// AnswerResult is returned for a selected option.
type AnswerResult struct {
	Outcome      Outcome `json:"outcome"`
	Correct      bool    `json:"correct"`
	CorrectIndex int     `json:"correctIndex"`
	Explanation  string  `json:"explanation"`
}

// SessionOptions configures a QuizSession.
type SessionOptions struct {
	RewardDelay time.Duration
	OnReward    RewardFunc
	OnChange    func()
	Logger      *logger.Logger
}

// QuizSession coordinates idle -> loading -> presenting -> answered for one player.
// Only one question request is in flight at a time; results that arrive after an
// abort or a newer request are discarded.
type QuizSession struct {
	provider    QuestionProvider
	rewardDelay time.Duration
	onReward    RewardFunc
	onChange    func()
	log         *logger.Logger

	mu          sync.Mutex
	state       QuizState
	topic       string
	difficulty  domain.Difficulty
	question    *domain.QuizQuestion
	selected    int
	outcome     Outcome
	epoch       uint64
	cancelFetch context.CancelFunc
	pending     map[*time.Timer]struct{}
	closed      bool
	wg          sync.WaitGroup
}

func NewQuizSession(provider QuestionProvider, opts SessionOptions) *QuizSession {
	if opts.OnReward == nil {
		opts.OnReward = func(string, domain.Difficulty) {}
	}
	if opts.OnChange == nil {
		opts.OnChange = func() {}
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewNop()
	}
	return &QuizSession{
		provider:    provider,
		rewardDelay: opts.RewardDelay,
		onReward:    opts.OnReward,
		onChange:    opts.OnChange,
		log:         opts.Logger.With("component", "QuizSession"),
		state:       StateIdle,
		selected:    -1,
		pending:     make(map[*time.Timer]struct{}),
	}
}

// State returns the current phase.
func (s *QuizSession) State() QuizState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SelectTopic requests a question for topic. Only accepted while idle.
func (s *QuizSession) SelectTopic(ctx context.Context, topic string, difficulty domain.Difficulty) error {
	s.mu.Lock()
	switch {
	case s.closed:
		s.mu.Unlock()
		return domain.ErrInvalidTransition
	case s.state == StateLoading:
		s.mu.Unlock()
		return domain.ErrFetchInFlight
	case s.state != StateIdle:
		s.mu.Unlock()
		return domain.ErrInvalidTransition
	}
	s.topic = topic
	s.startFetchLocked(ctx, difficulty)
	s.mu.Unlock()

	s.onChange()
	return nil
}

// Retry requests a new, easy question for the same topic after a wrong answer.
func (s *QuizSession) Retry(ctx context.Context) error {
	s.mu.Lock()
	switch {
	case s.state == StateLoading:
		s.mu.Unlock()
		return domain.ErrFetchInFlight
	case s.closed || s.state != StateAnswered || s.outcome != OutcomeIncorrect:
		s.mu.Unlock()
		return domain.ErrInvalidTransition
	}
	s.startFetchLocked(ctx, RetryDifficulty)
	s.mu.Unlock()

	s.onChange()
	return nil
}

// SelectOption answers the presented question. The first answer is final:
// later calls return the recorded outcome without changing anything.
func (s *QuizSession) SelectOption(idx int) (AnswerResult, error) {
	s.mu.Lock()
	switch s.state {
	case StateAnswered:
		res := s.resultLocked()
		s.mu.Unlock()
		return res, nil
	case StatePresenting:
	default:
		s.mu.Unlock()
		return AnswerResult{}, domain.ErrNoQuestion
	}
	if idx < 0 || idx >= len(s.question.Options) {
		s.mu.Unlock()
		return AnswerResult{}, domain.ErrOptionOutOfRange
	}

	s.selected = idx
	s.state = StateAnswered
	s.outcome = OutcomeIncorrect
	if idx == s.question.CorrectIndex {
		s.outcome = OutcomeCorrect
	}
	res := s.resultLocked()
	rewardTopic := s.question.Topic
	if res.Correct && s.rewardDelay > 0 {
		s.scheduleRewardLocked(rewardTopic)
	}
	s.mu.Unlock()

	s.log.Debug("answer recorded", "topic", rewardTopic, "outcome", res.Outcome)
	s.onChange()
	if res.Correct && s.rewardDelay <= 0 {
		s.onReward(rewardTopic, RewardDifficulty)
	}
	return res, nil
}

// Abort returns to idle and discards any in-flight question. A reward
// already earned is still committed.
func (s *QuizSession) Abort() {
	s.mu.Lock()
	s.resetLocked()
	s.mu.Unlock()
	s.onChange()
}

// Close aborts and cancels rewards that have not fired yet.
func (s *QuizSession) Close() {
	s.mu.Lock()
	s.closed = true
	s.resetLocked()
	for t := range s.pending {
		if t.Stop() {
			s.wg.Done()
		}
	}
	s.pending = make(map[*time.Timer]struct{})
	s.mu.Unlock()
}

// Wait blocks until in-flight fetches and scheduled rewards have finished.
func (s *QuizSession) Wait() {
	s.wg.Wait()
}

// View snapshots the session for rendering.
func (s *QuizSession) View() QuizView {
	s.mu.Lock()
	defer s.mu.Unlock()

	view := QuizView{
		State:      s.state,
		Topic:      s.topic,
		Difficulty: s.difficulty,
		Outcome:    s.outcome,
	}
	if s.question != nil {
		view.Question = &PublicQuestion{
			Question: s.question.Question,
			Options:  append([]string(nil), s.question.Options...),
			Topic:    s.question.Topic,
		}
	}
	if s.state == StateAnswered {
		selected := s.selected
		correct := s.question.CorrectIndex
		view.Selected = &selected
		view.CorrectIndex = &correct
		view.Explanation = s.question.Explanation
	}
	return view
}

func (s *QuizSession) startFetchLocked(ctx context.Context, difficulty domain.Difficulty) {
	s.epoch++
	epoch := s.epoch
	s.state = StateLoading
	s.difficulty = difficulty
	s.question = nil
	s.selected = -1
	s.outcome = OutcomeNone

	fetchCtx, cancel := context.WithCancel(ctx)
	s.cancelFetch = cancel
	topic := s.topic

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()
		q := s.provider.FetchQuestion(fetchCtx, topic, difficulty)
		s.deliver(epoch, topic, q)
	}()
}

func (s *QuizSession) deliver(epoch uint64, topic string, q domain.QuizQuestion) {
	s.mu.Lock()
	if epoch != s.epoch || s.state != StateLoading {
		s.mu.Unlock()
		s.log.Debug("discarding stale question", "topic", topic)
		return
	}
	if q.Topic == "" {
		q.Topic = topic
	}
	s.question = &q
	s.state = StatePresenting
	s.cancelFetch = nil
	s.mu.Unlock()

	s.onChange()
}

func (s *QuizSession) resetLocked() {
	s.epoch++
	if s.cancelFetch != nil {
		s.cancelFetch()
		s.cancelFetch = nil
	}
	s.state = StateIdle
	s.topic = ""
	s.difficulty = ""
	s.question = nil
	s.selected = -1
	s.outcome = OutcomeNone
}

func (s *QuizSession) scheduleRewardLocked(topic string) {
	s.wg.Add(1)
	var t *time.Timer
	t = time.AfterFunc(s.rewardDelay, func() {
		defer s.wg.Done()
		s.mu.Lock()
		delete(s.pending, t)
		s.mu.Unlock()
		s.onReward(topic, RewardDifficulty)
	})
	s.pending[t] = struct{}{}
}

func (s *QuizSession) resultLocked() AnswerResult {
	return AnswerResult{
		Outcome:      s.outcome,
		Correct:      s.outcome == OutcomeCorrect,
		CorrectIndex: s.question.CorrectIndex,
		Explanation:  s.question.Explanation,
	}
}
