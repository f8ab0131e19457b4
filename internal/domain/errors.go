package domain

import "errors"

var (
	// ErrPlayerNotFound is returned when a player id has no live session.
	ErrPlayerNotFound = errors.New("player not found")
	// ErrUnknownTopic indicates a topic id outside the catalog.
	ErrUnknownTopic = errors.New("unknown topic")
	// ErrFetchInFlight rejects topic selection while a question is loading.
	ErrFetchInFlight = errors.New("question request already in flight")
	// ErrInvalidTransition indicates an action the quiz state does not accept.
	ErrInvalidTransition = errors.New("invalid quiz transition")
	// ErrNoQuestion indicates an answer was submitted before a question was presented.
	ErrNoQuestion = errors.New("no question presented")
	// ErrOptionOutOfRange indicates a submitted option index is invalid.
	ErrOptionOutOfRange = errors.New("option index out of range")
	// ErrChainBroken is returned by chain verification.
	ErrChainBroken = errors.New("chain linkage broken")
	// ErrQuestionsNotFound indicates the question bank has nothing for a topic.
	ErrQuestionsNotFound = errors.New("no questions for topic")
)
