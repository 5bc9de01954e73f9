package services

import (
	"context"
	"errors"
	"fmt"

	"styleswipe_server/models"
	"styleswipe_server/utils"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// swipeRecent supplies the recent history the analysis prompt is built from.
type swipeRecent interface {
	GetRecentSwipes(ctx context.Context, identityKey string, limit int) ([]models.Swipe, error)
}

// cardGetter loads card details for swiped ids.
type cardGetter interface {
	GetCard(ctx context.Context, cardID string) (*models.Card, error)
}

// analyzer turns samples into preference text.
type analyzer interface {
	AnalyzeSwipes(ctx context.Context, samples []SwipeSample) (string, error)
}

// PreferenceService stores at most one preference row per identity and runs
// the analysis that produces it.
type PreferenceService struct {
	Dynamo   *DynamoService
	Swipes   swipeRecent
	Cards    cardGetter
	Analyzer analyzer
	Logger   *zap.Logger

	// FirstAnalysisSwipes is how many swipes the first analysis requires,
	// exactly; RecentSwipeLimit caps the history fed to the model.
	FirstAnalysisSwipes int
	RecentSwipeLimit    int
}

// FetchUserPreference looks the stored preference up by userId first, then by
// deviceId. Returns nil without error when neither matches.
func (s *PreferenceService) FetchUserPreference(ctx context.Context, userID, deviceID string) (*models.UserPreference, error) {
	if userID != "" {
		key := map[string]types.AttributeValue{
			"userId": &types.AttributeValueMemberS{Value: userID},
		}
		item, err := s.Dynamo.GetItem(ctx, models.UserPreferencesTable, key)
		if err == nil {
			var pref models.UserPreference
			if err := attributevalue.UnmarshalMap(item, &pref); err != nil {
				return nil, fmt.Errorf("failed to unmarshal preference: %w", err)
			}
			return &pref, nil
		}
		if !errors.Is(err, ErrItemNotFound) {
			return nil, err
		}
	}

	if deviceID == "" {
		return nil, nil
	}

	keyCondition := "deviceId = :device"
	expressionValues := map[string]types.AttributeValue{
		":device": &types.AttributeValueMemberS{Value: deviceID},
	}
	items, err := s.Dynamo.QueryItemsWithIndex(ctx, models.UserPreferencesTable, models.DeviceIDIndex, keyCondition, expressionValues, 1)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	var pref models.UserPreference
	if err := attributevalue.UnmarshalMap(items[0], &pref); err != nil {
		return nil, fmt.Errorf("failed to unmarshal preference: %w", err)
	}
	return &pref, nil
}

// SaveUserPreference overwrites the stored preference wholesale, creating the
// row the first time.
func (s *PreferenceService) SaveUserPreference(ctx context.Context, userID, deviceID, preferenceText string) error {
	now := utils.NowRFC3339()

	existing, err := s.FetchUserPreference(ctx, userID, deviceID)
	if err != nil {
		return err
	}

	if existing != nil {
		key := map[string]types.AttributeValue{
			"userId": &types.AttributeValueMemberS{Value: existing.UserID},
		}
		updateExpression := "SET preferenceText = :text, analyzedAt = :analyzedAt, updatedAt = :updatedAt"
		expressionValues := map[string]types.AttributeValue{
			":text":       &types.AttributeValueMemberS{Value: preferenceText},
			":analyzedAt": &types.AttributeValueMemberS{Value: now},
			":updatedAt":  &types.AttributeValueMemberS{Value: now},
		}
		if _, err := s.Dynamo.UpdateItem(ctx, models.UserPreferencesTable, updateExpression, key, expressionValues); err != nil {
			return err
		}
		s.Logger.Info("✅ Preference overwritten", zap.String("userId", existing.UserID))
		return nil
	}

	pref := models.UserPreference{
		UserID:         userID,
		DeviceID:       deviceID,
		PreferenceText: preferenceText,
		AnalyzedAt:     now,
		CreatedAt:      now,
	}
	if err := s.Dynamo.PutItem(ctx, models.UserPreferencesTable, pref); err != nil {
		return err
	}
	s.Logger.Info("✅ Preference created", zap.String("userId", userID))
	return nil
}

// AnalyzeFromSwipes collects recent swipes, joins card details, runs the
// external analysis and persists the result.
//
// First-analysis path (reanalyze=false): skipped when a preference already
// exists, and only runs when the identity has exactly FirstAnalysisSwipes
// swipes — fewer or more is a quiet no-op, not an error. Re-analysis
// (reanalyze=true) always runs and overwrites the stored row.
func (s *PreferenceService) AnalyzeFromSwipes(ctx context.Context, identity models.Identity, reanalyze bool) (string, error) {
	if !reanalyze {
		existing, err := s.FetchUserPreference(ctx, identity.UserID, identity.DeviceID)
		if err != nil {
			return "", err
		}
		if existing != nil {
			s.Logger.Info("Preference already analyzed, skipping", zap.String("userId", identity.UserID))
			return existing.PreferenceText, nil
		}
	}

	swipes, err := s.Swipes.GetRecentSwipes(ctx, identity.Key(), s.RecentSwipeLimit)
	if err != nil {
		return "", err
	}
	if !reanalyze && len(swipes) != s.FirstAnalysisSwipes {
		return "", nil
	}

	samples := make([]SwipeSample, 0, len(swipes))
	for _, swipe := range swipes {
		card, err := s.Cards.GetCard(ctx, swipe.CardID)
		if err != nil {
			s.Logger.Warn("Skipping swiped card without catalog row", zap.String("cardId", swipe.CardID), zap.Error(err))
			continue
		}
		sample := SwipeSample{Name: card.Name, Direction: swipe.Direction}
		if card.Tag != nil {
			sample.Tag = *card.Tag
		}
		if card.Description != nil {
			sample.Description = *card.Description
		}
		samples = append(samples, sample)
	}
	if len(samples) == 0 {
		return "", errors.New("no valid swipe data found")
	}

	preference, err := s.Analyzer.AnalyzeSwipes(ctx, samples)
	if err != nil {
		return "", err
	}

	if err := s.SaveUserPreference(ctx, identity.UserID, identity.DeviceID, preference); err != nil {
		return preference, err
	}
	return preference, nil
}
