package services

import (
	"context"
	"errors"
	"sync"

	"styleswipe_server/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrSessionNotFound is returned for swipes against an unknown or ended session.
var ErrSessionNotFound = errors.New("session not found")

// SessionState is the synthesis trigger's position for one browsing session.
type SessionState int

const (
	// StateBrowsing is the normal deck flow.
	StateBrowsing SessionState = iota
	// StateReanalysisArmed is the moment between the dislike streak hitting
	// the threshold and the replacement cards arriving.
	StateReanalysisArmed
	// StateReanalysisBrowsing is the forced run of neutral cards before
	// re-analysis fires.
	StateReanalysisBrowsing
	// StateAnalyzing means an external analysis call is in flight.
	StateAnalyzing
)

func (s SessionState) String() string {
	switch s {
	case StateBrowsing:
		return "browsing"
	case StateReanalysisArmed:
		return "reanalysis-armed"
	case StateReanalysisBrowsing:
		return "reanalysis-browsing"
	case StateAnalyzing:
		return "analyzing"
	default:
		return "unknown"
	}
}

// deckSource supplies decks and restock cards.
type deckSource interface {
	FetchDeck(ctx context.Context, identity models.Identity, requestedLimit int) ([]models.Card, error)
	FetchRandomCards(ctx context.Context, identity models.Identity, count int) ([]models.Card, error)
}

// preferenceEngine runs and reads preference analysis.
type preferenceEngine interface {
	AnalyzeFromSwipes(ctx context.Context, identity models.Identity, reanalyze bool) (string, error)
	FetchUserPreference(ctx context.Context, userID, deviceID string) (*models.UserPreference, error)
}

// swipeWriter records decisions.
type swipeWriter interface {
	RecordSwipe(ctx context.Context, identity models.Identity, cardID, direction string) error
}

// sessionState holds everything one browsing session owns: the unseen stack
// and the trigger counters. Counters live here, never in package state, so
// concurrent sessions cannot cross-contaminate.
type sessionState struct {
	identity models.Identity
	stack    []models.Card

	state            SessionState
	swipeCount       int
	nopeStreak       int
	reanalysisSeen   int
	hasPreference    bool
	analysisInFlight bool

	// generation guards asynchronous completions: bumped whenever the stack
	// is replaced outright, so a stale analysis result is discarded instead
	// of splicing into a stack it never saw.
	generation uint64
}

// SwipeOutcome tells the caller what one swipe set in motion.
type SwipeOutcome struct {
	Direction string `json:"direction"`
	// AnalysisStarted is "", "first" or "reanalysis".
	AnalysisStarted string        `json:"analysisStarted,omitempty"`
	ReplacedStack   []models.Card `json:"replacedStack,omitempty"`
	StackRemaining  int           `json:"stackRemaining"`
}

// SessionService drives the preference synthesis trigger: a per-session state
// machine fed by the swipe stream. Counters advance synchronously under the
// lock before any analysis is dispatched, so a second trigger cannot fire
// mid-flight for the same session.
type SessionService struct {
	Cards       deckSource
	Preferences preferenceEngine
	Swipes      swipeWriter
	Logger      *zap.Logger

	FirstAnalysisSwipes int
	ReanalysisStreak    int
	ReanalysisCardCount int

	mu       sync.Mutex
	sessions map[string]*sessionState

	// dispatch runs the asynchronous analysis; tests substitute a
	// synchronous version.
	dispatch func(func())
}

func NewSessionService(cards deckSource, preferences preferenceEngine, swipes swipeWriter, logger *zap.Logger, firstAnalysisSwipes, reanalysisStreak, reanalysisCardCount int) *SessionService {
	return &SessionService{
		Cards:               cards,
		Preferences:         preferences,
		Swipes:              swipes,
		Logger:              logger,
		FirstAnalysisSwipes: firstAnalysisSwipes,
		ReanalysisStreak:    reanalysisStreak,
		ReanalysisCardCount: reanalysisCardCount,
		sessions:            make(map[string]*sessionState),
		dispatch:            func(f func()) { go f() },
	}
}

// StartSession mints an identity (reusing the caller's durable userId when it
// replays one) and deals the initial deck. The identity triple is always
// issued whole.
func (s *SessionService) StartSession(ctx context.Context, existingUserID string) (models.Identity, []models.Card, error) {
	userID := existingUserID
	if userID == "" {
		userID = uuid.New().String()
	}
	identity := models.Identity{
		UserID:    userID,
		DeviceID:  userID,
		SessionID: uuid.New().String(),
	}

	hasPreference := false
	if pref, err := s.Preferences.FetchUserPreference(ctx, identity.UserID, identity.DeviceID); err != nil {
		s.Logger.Warn("Failed to check stored preference at session start", zap.Error(err))
	} else if pref != nil {
		hasPreference = true
	}

	deck, err := s.Cards.FetchDeck(ctx, identity, 0)
	if err != nil {
		return models.Identity{}, nil, err
	}

	s.mu.Lock()
	s.sessions[identity.SessionID] = &sessionState{
		identity:      identity,
		stack:         deck,
		state:         StateBrowsing,
		hasPreference: hasPreference,
	}
	s.mu.Unlock()

	s.Logger.Info("✅ Session started",
		zap.String("sessionId", identity.SessionID),
		zap.Int("deck", len(deck)),
		zap.Bool("hasPreference", hasPreference))
	return identity, deck, nil
}

// Swipe records one decision and advances the trigger machine. The swipe is
// persisted first; counters move synchronously; any analysis runs after this
// method returns.
func (s *SessionService) Swipe(ctx context.Context, sessionID, cardID, direction string) (*SwipeOutcome, error) {
	dir, err := NormalizeDirection(direction)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		s.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	identity := sess.identity
	s.mu.Unlock()

	if err := s.Swipes.RecordSwipe(ctx, identity, cardID, dir); err != nil {
		return nil, err
	}

	outcome := &SwipeOutcome{Direction: dir}
	var analysisJob func()
	armed := false

	s.mu.Lock()
	sess.swipeCount++
	if dir == models.DirectionNope {
		sess.nopeStreak++
	} else {
		sess.nopeStreak = 0
	}
	sess.stack = removeCard(sess.stack, cardID)

	switch sess.state {
	case StateBrowsing:
		switch {
		case sess.nopeStreak >= s.ReanalysisStreak && !sess.analysisInFlight:
			sess.state = StateReanalysisArmed
			sess.nopeStreak = 0
			armed = true
		case sess.swipeCount == s.FirstAnalysisSwipes && !sess.hasPreference && !sess.analysisInFlight:
			sess.state = StateAnalyzing
			sess.analysisInFlight = true
			generation := sess.generation
			analysisJob = func() { s.runAnalysis(identity, sessionID, generation, false) }
			outcome.AnalysisStarted = "first"
		}
	case StateReanalysisBrowsing:
		sess.reanalysisSeen++
		if sess.reanalysisSeen >= s.ReanalysisCardCount && !sess.analysisInFlight {
			sess.state = StateAnalyzing
			sess.analysisInFlight = true
			// Dislikes across the neutral run must not re-arm the trigger
			// the moment browsing resumes.
			sess.nopeStreak = 0
			generation := sess.generation
			analysisJob = func() { s.runAnalysis(identity, sessionID, generation, true) }
			outcome.AnalysisStarted = "reanalysis"
		}
	}
	outcome.StackRemaining = len(sess.stack)
	s.mu.Unlock()

	if armed {
		s.replaceStack(ctx, sess, identity, outcome)
	}
	if analysisJob != nil {
		s.dispatch(analysisJob)
	}
	return outcome, nil
}

// replaceStack swaps the session's deck for a handful of random unseen cards
// and enters the forced-neutral browsing phase. When the fetch fails the
// session quietly returns to browsing with its old stack.
func (s *SessionService) replaceStack(ctx context.Context, sess *sessionState, identity models.Identity, outcome *SwipeOutcome) {
	replacement, err := s.Cards.FetchRandomCards(ctx, identity, s.ReanalysisCardCount)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil || len(replacement) == 0 {
		s.Logger.Warn("Failed to fetch re-analysis cards, resuming browsing", zap.Error(err))
		sess.state = StateBrowsing
		return
	}
	sess.stack = replacement
	sess.state = StateReanalysisBrowsing
	sess.reanalysisSeen = 0
	sess.generation++
	outcome.ReplacedStack = replacement
	outcome.StackRemaining = len(replacement)
	s.Logger.Info("🔄 Stack replaced for re-analysis",
		zap.String("sessionId", identity.SessionID),
		zap.Int("cards", len(replacement)))
}

// runAnalysis is the asynchronous completion path. Failures revert silently
// to browsing; the user never sees them. Results for a session that ended or
// replaced its stack in the meantime are discarded.
func (s *SessionService) runAnalysis(identity models.Identity, sessionID string, generation uint64, reanalyze bool) {
	ctx := context.Background()

	text, err := s.Preferences.AnalyzeFromSwipes(ctx, identity, reanalyze)

	var freshDeck []models.Card
	if err == nil && text != "" {
		if deck, deckErr := s.Cards.FetchDeck(ctx, identity, 0); deckErr != nil {
			s.Logger.Warn("Re-ranking after analysis failed", zap.Error(deckErr))
		} else {
			freshDeck = deck
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok || sess.generation != generation {
		s.Logger.Info("Discarding stale analysis result", zap.String("sessionId", sessionID))
		return
	}

	sess.analysisInFlight = false
	sess.state = StateBrowsing

	if err != nil || text == "" {
		if err != nil {
			s.Logger.Warn("Preference analysis failed, resuming browsing", zap.Error(err))
		}
		return
	}

	sess.hasPreference = true
	if len(freshDeck) > 0 {
		before := len(sess.stack)
		sess.stack = MergeIntoStack(sess.stack, freshDeck)
		s.Logger.Info("✅ Ranked cards spliced onto stack",
			zap.String("sessionId", sessionID),
			zap.Int("added", len(sess.stack)-before))
	}
}

// GetStack returns the session's current unseen stack.
func (s *SessionService) GetStack(sessionID string) ([]models.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	stack := make([]models.Card, len(sess.stack))
	copy(stack, sess.stack)
	return stack, nil
}

// EndSession drops the session. Any in-flight analysis result is discarded on
// arrival by the liveness check in runAnalysis.
func (s *SessionService) EndSession(sessionID string) {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
}

// MergeIntoStack appends fresh cards onto the tail of the unseen stack,
// skipping ids already staged. Cards already queued for viewing keep their
// position.
func MergeIntoStack(stack []models.Card, fresh []models.Card) []models.Card {
	present := make(map[string]struct{}, len(stack))
	for _, card := range stack {
		present[card.ID] = struct{}{}
	}
	for _, card := range fresh {
		if _, ok := present[card.ID]; ok {
			continue
		}
		present[card.ID] = struct{}{}
		stack = append(stack, card)
	}
	return stack
}

func removeCard(stack []models.Card, cardID string) []models.Card {
	for i, card := range stack {
		if card.ID == cardID {
			return append(stack[:i], stack[i+1:]...)
		}
	}
	return stack
}
