package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"styleswipe_server/models"
	"styleswipe_server/utils"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// SwipeService records like/nope decisions and answers the derived questions
// the ranking pipeline asks about them (viewed set, today's count, recent
// history, liked cards).
type SwipeService struct {
	Dynamo              *DynamoService
	Logger              *zap.Logger
	TimezoneOffsetHours int
}

// NormalizeDirection maps client gesture values onto stored directions.
// A left drag is a like, a right drag is a nope; explicit values pass through.
func NormalizeDirection(direction string) (string, error) {
	switch direction {
	case models.GestureLeft, models.DirectionLike:
		return models.DirectionLike, nil
	case models.GestureRight, models.DirectionNope:
		return models.DirectionNope, nil
	default:
		return "", fmt.Errorf("unknown swipe direction %q", direction)
	}
}

// RecordSwipe upserts one decision for (identity, card). PutItem on the
// (identityId, cardId) key replaces any earlier row for the same pair, so a
// re-swipe changes the recorded direction instead of duplicating it.
func (s *SwipeService) RecordSwipe(ctx context.Context, identity models.Identity, cardID, direction string) error {
	dir, err := NormalizeDirection(direction)
	if err != nil {
		return err
	}

	swipe := models.Swipe{
		IdentityID: identity.Key(),
		CardID:     cardID,
		UserID:     identity.UserID,
		DeviceID:   identity.DeviceID,
		Direction:  dir,
		SessionID:  identity.SessionID,
		CreatedAt:  utils.NowRFC3339(),
	}

	if err := s.Dynamo.PutItem(ctx, models.SwipesTable, swipe); err != nil {
		s.Logger.Error("❌ Failed to save swipe", zap.String("cardId", cardID), zap.Error(err))
		return err
	}

	s.Logger.Info("✅ Swipe recorded",
		zap.String("identityId", swipe.IdentityID),
		zap.String("cardId", cardID),
		zap.String("direction", dir))
	return nil
}

func (s *SwipeService) querySwipes(ctx context.Context, identityKey string) ([]map[string]types.AttributeValue, error) {
	keyCondition := "identityId = :identity"
	expressionValues := map[string]types.AttributeValue{
		":identity": &types.AttributeValueMemberS{Value: identityKey},
	}
	return s.Dynamo.QueryItems(ctx, models.SwipesTable, keyCondition, expressionValues, 0)
}

// GetViewedCardIDs returns every card id this identity has ever swiped,
// deduplicated. Recomputed per ranking request, never cached.
func (s *SwipeService) GetViewedCardIDs(ctx context.Context, identityKey string) ([]string, error) {
	items, err := s.querySwipes(ctx, identityKey)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch viewed cards: %w", err)
	}

	seen := make(map[string]struct{}, len(items))
	ids := make([]string, 0, len(items))
	for _, item := range items {
		id := utils.ExtractString(item, "cardId")
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

// CountSwipesToday counts swipes whose createdAt falls in the local calendar
// day containing now. This is the daily quota's only input.
func (s *SwipeService) CountSwipesToday(ctx context.Context, identityKey string, now time.Time) (int, error) {
	items, err := s.querySwipes(ctx, identityKey)
	if err != nil {
		return 0, fmt.Errorf("failed to count today's swipes: %w", err)
	}

	count := 0
	for _, item := range items {
		if utils.InDayWindow(utils.ExtractString(item, "createdAt"), now, s.TimezoneOffsetHours) {
			count++
		}
	}
	return count, nil
}

// GetRecentSwipes returns up to limit swipes, latest first, through the
// (identityId, createdAt) GSI so DynamoDB applies the order and the limit.
func (s *SwipeService) GetRecentSwipes(ctx context.Context, identityKey string, limit int) ([]models.Swipe, error) {
	keyCondition := "identityId = :identity"
	expressionValues := map[string]types.AttributeValue{
		":identity": &types.AttributeValueMemberS{Value: identityKey},
	}
	items, err := s.Dynamo.QueryItemsWithOptions(ctx, models.SwipesTable, models.SwipeCreatedAtIndex, keyCondition, expressionValues, int32(limit), true)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recent swipes: %w", err)
	}

	swipes := make([]models.Swipe, 0, len(items))
	for _, item := range items {
		var swipe models.Swipe
		if err := attributevalue.UnmarshalMap(item, &swipe); err != nil {
			s.Logger.Warn("❌ Failed to unmarshal swipe", zap.Error(err))
			continue
		}
		swipes = append(swipes, swipe)
	}

	sort.Slice(swipes, func(i, j int) bool {
		return swipes[i].CreatedAt > swipes[j].CreatedAt
	})
	if limit > 0 && len(swipes) > limit {
		swipes = swipes[:limit]
	}
	return swipes, nil
}

// GetLikedCardIDs returns ids of cards this identity liked, latest first.
func (s *SwipeService) GetLikedCardIDs(ctx context.Context, identityKey string) ([]string, error) {
	swipes, err := s.GetRecentSwipes(ctx, identityKey, 0)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(swipes))
	for _, swipe := range swipes {
		if swipe.Direction == models.DirectionLike {
			ids = append(ids, swipe.CardID)
		}
	}
	return ids, nil
}
