package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"styleswipe_server/models"
	"styleswipe_server/utils"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrNotConfigured is the one terminal pipeline error: no storage client was
// wired at all. Everything else degrades to the next tier.
var ErrNotConfigured = errors.New("card service not configured")

// swipeHistory is what the pipeline needs to know about past swipes.
type swipeHistory interface {
	GetViewedCardIDs(ctx context.Context, identityKey string) ([]string, error)
	CountSwipesToday(ctx context.Context, identityKey string, now time.Time) (int, error)
	GetLikedCardIDs(ctx context.Context, identityKey string) ([]string, error)
}

// preferenceReader resolves the stored preference for an identity, nil when
// none exists.
type preferenceReader interface {
	FetchUserPreference(ctx context.Context, userID, deviceID string) (*models.UserPreference, error)
}

// Ranker is the set of server-side candidate functions the cascade tries.
type Ranker interface {
	RankedByTags(ctx context.Context, userTags []string, viewedIDs map[string]struct{}, limit int) ([]models.Card, error)
	BasicMatchByTags(ctx context.Context, userTags []string, viewedIDs map[string]struct{}, limit int) ([]models.Card, error)
	RandomUnseen(ctx context.Context, viewedIDs map[string]struct{}, limit int) ([]models.Card, error)
}

// CardService owns the deck pipeline: preference lookup, tag extraction,
// viewed-set exclusion, the daily quota gate, and the tiered candidate
// cascade. It also serves the catalog itself (liked cards, admin writes).
type CardService struct {
	Dynamo      *DynamoService
	Swipes      swipeHistory
	Preferences preferenceReader
	Ranker      Ranker
	Logger      *zap.Logger
	DailyCap    int
	PoolLimit   int
	Now         func() time.Time
}

func (s *CardService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

type deckTier struct {
	name  string
	fetch func(limit int) ([]models.Card, error)
}

// FetchDeck produces the ordered candidate deck for one identity, capped at
// min(remaining daily quota, requestedLimit). requestedLimit <= 0 means "up to
// the quota". The tiers are tried strictly in order and the first non-empty
// success wins; a tier failure is logged and never surfaced.
func (s *CardService) FetchDeck(ctx context.Context, identity models.Identity, requestedLimit int) ([]models.Card, error) {
	if s.Dynamo == nil || s.Ranker == nil {
		return nil, ErrNotConfigured
	}

	identityKey := identity.Key()

	// Preference → tags. A missing or unreadable preference just means a
	// tag-less user.
	var userTags []string
	if pref, err := s.Preferences.FetchUserPreference(ctx, identity.UserID, identity.DeviceID); err != nil {
		s.Logger.Warn("Failed to fetch user preference, continuing without tags", zap.Error(err))
	} else if pref != nil {
		userTags = ExtractPreferenceTags(pref.PreferenceText)
		s.Logger.Info("✅ User has preference analysis", zap.Int("tags", len(userTags)))
	}

	// Viewed set: every card ever swiped by this identity.
	viewedIDs := map[string]struct{}{}
	if ids, err := s.Swipes.GetViewedCardIDs(ctx, identityKey); err != nil {
		s.Logger.Warn("Failed to fetch viewed cards", zap.Error(err))
	} else {
		viewedIDs = utils.StringSet(ids)
	}

	// Daily quota gate. At or past the cap the deck is empty, full stop.
	viewedToday, err := s.Swipes.CountSwipesToday(ctx, identityKey, s.now())
	if err != nil {
		s.Logger.Warn("Failed to count today's swipes, assuming zero", zap.Error(err))
		viewedToday = 0
	}
	remaining := s.DailyCap - viewedToday
	if remaining <= 0 {
		s.Logger.Info("🛑 Daily card limit reached", zap.String("identityId", identityKey), zap.Int("viewedToday", viewedToday))
		return []models.Card{}, nil
	}
	limit := remaining
	if requestedLimit > 0 && requestedLimit < limit {
		limit = requestedLimit
	}

	var tiers []deckTier
	if len(userTags) > 0 {
		tiers = append(tiers,
			deckTier{"tfidf", func(n int) ([]models.Card, error) {
				return s.Ranker.RankedByTags(ctx, userTags, viewedIDs, n)
			}},
			deckTier{"basic-match", func(n int) ([]models.Card, error) {
				return s.Ranker.BasicMatchByTags(ctx, userTags, viewedIDs, n)
			}},
		)
	}
	tiers = append(tiers, deckTier{"random", func(n int) ([]models.Card, error) {
		return s.Ranker.RandomUnseen(ctx, viewedIDs, n)
	}})

	for _, tier := range tiers {
		cards, err := tier.fetch(limit)
		if err != nil {
			s.Logger.Warn("Deck tier failed, falling through", zap.String("tier", tier.name), zap.Error(err))
			continue
		}
		if len(cards) > 0 {
			s.Logger.Info("✅ Deck ready", zap.String("tier", tier.name), zap.Int("cards", len(cards)))
			return cards, nil
		}
	}

	// Last resort: bounded catalog pool, shuffled client side.
	return s.shuffledPool(ctx, viewedIDs, limit)
}

// shuffledPool is the final fallback tier: fetch a bounded pool straight from
// the catalog, drop viewed ids, Fisher-Yates shuffle, take a prefix.
func (s *CardService) shuffledPool(ctx context.Context, viewedIDs map[string]struct{}, limit int) ([]models.Card, error) {
	items, err := s.Dynamo.ScanItems(ctx, models.CardsTable, s.PoolLimit)
	if err != nil {
		s.Logger.Error("❌ Fallback pool scan failed", zap.Error(err))
		return []models.Card{}, nil
	}
	var pool []models.Card
	if err := attributevalue.UnmarshalListOfMaps(items, &pool); err != nil {
		s.Logger.Error("❌ Failed to unmarshal fallback pool", zap.Error(err))
		return []models.Card{}, nil
	}

	unseen := filterViewed(pool, viewedIDs)
	shuffleCards(unseen)
	if limit > 0 && len(unseen) > limit {
		unseen = unseen[:limit]
	}
	s.Logger.Info("✅ Deck ready", zap.String("tier", "shuffled-pool"), zap.Int("cards", len(unseen)))
	return unseen, nil
}

// FetchRandomCards returns count random unseen cards, used to restock the deck
// when the re-analysis trigger fires.
func (s *CardService) FetchRandomCards(ctx context.Context, identity models.Identity, count int) ([]models.Card, error) {
	if s.Dynamo == nil || s.Ranker == nil {
		return nil, ErrNotConfigured
	}

	viewedIDs := map[string]struct{}{}
	if ids, err := s.Swipes.GetViewedCardIDs(ctx, identity.Key()); err != nil {
		s.Logger.Warn("Failed to fetch viewed cards", zap.Error(err))
	} else {
		viewedIDs = utils.StringSet(ids)
	}

	cards, err := s.Ranker.RandomUnseen(ctx, viewedIDs, count)
	if err != nil {
		s.Logger.Warn("Random tier failed, using shuffled pool", zap.Error(err))
		return s.shuffledPool(ctx, viewedIDs, count)
	}
	return cards, nil
}

// FetchLikedCards returns the cards this identity liked, most recent first.
func (s *CardService) FetchLikedCards(ctx context.Context, identity models.Identity) ([]models.Card, error) {
	likedIDs, err := s.Swipes.GetLikedCardIDs(ctx, identity.Key())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch liked card ids: %w", err)
	}

	cards := make([]models.Card, 0, len(likedIDs))
	for _, id := range likedIDs {
		card, err := s.GetCard(ctx, id)
		if err != nil {
			if !errors.Is(err, ErrItemNotFound) {
				s.Logger.Warn("Failed to load liked card", zap.String("cardId", id), zap.Error(err))
			}
			continue
		}
		cards = append(cards, *card)
	}
	return cards, nil
}

// GetCard loads one catalog card by id.
func (s *CardService) GetCard(ctx context.Context, cardID string) (*models.Card, error) {
	key := map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: cardID},
	}
	item, err := s.Dynamo.GetItem(ctx, models.CardsTable, key)
	if err != nil {
		return nil, err
	}
	var card models.Card
	if err := attributevalue.UnmarshalMap(item, &card); err != nil {
		return nil, fmt.Errorf("failed to unmarshal card: %w", err)
	}
	return &card, nil
}

// CreateCard writes one catalog card, minting an id when the author left it
// empty.
func (s *CardService) CreateCard(ctx context.Context, card models.Card) (*models.Card, error) {
	if card.ID == "" {
		card.ID = uuid.New().String()
	}
	card.CreatedAt = utils.NowRFC3339()
	if err := s.Dynamo.PutItem(ctx, models.CardsTable, card); err != nil {
		return nil, err
	}
	s.Logger.Info("✅ Card created", zap.String("cardId", card.ID), zap.String("name", card.Name))
	return &card, nil
}

// ImportCards batch-writes catalog cards (admin bulk import).
func (s *CardService) ImportCards(ctx context.Context, cards []models.Card) (int, error) {
	writeRequests := make([]types.WriteRequest, 0, len(cards))
	for _, card := range cards {
		if card.ID == "" {
			card.ID = uuid.New().String()
		}
		card.CreatedAt = utils.NowRFC3339()
		item, err := attributevalue.MarshalMap(card)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal card %q: %w", card.Name, err)
		}
		writeRequests = append(writeRequests, types.WriteRequest{
			PutRequest: &types.PutRequest{Item: item},
		})
	}
	if err := s.Dynamo.BatchWriteItems(ctx, models.CardsTable, writeRequests); err != nil {
		return 0, err
	}
	s.Logger.Info("✅ Cards imported", zap.Int("count", len(writeRequests)))
	return len(writeRequests), nil
}
