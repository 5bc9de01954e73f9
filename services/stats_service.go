package services

import (
	"context"
	"fmt"

	"styleswipe_server/models"
	"styleswipe_server/utils"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// CardStats is the public tally one card shows.
type CardStats struct {
	LikeCount    int `json:"likeCount"`
	NopeCount    int `json:"nopeCount"`
	CommentCount int `json:"commentCount"`
}

type StatsService struct {
	Dynamo *DynamoService
	Logger *zap.Logger
}

// FetchCardStats tallies likes, nopes and comments for one card.
func (s *StatsService) FetchCardStats(ctx context.Context, cardID string) (*CardStats, error) {
	keyCondition := "cardId = :card"
	expressionValues := map[string]types.AttributeValue{
		":card": &types.AttributeValueMemberS{Value: cardID},
	}

	swipes, err := s.Dynamo.QueryItemsWithIndex(ctx, models.SwipesTable, models.CardIDIndex, keyCondition, expressionValues, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch card swipes: %w", err)
	}

	stats := &CardStats{}
	for _, item := range swipes {
		switch utils.ExtractString(item, "direction") {
		case models.DirectionLike:
			stats.LikeCount++
		case models.DirectionNope:
			stats.NopeCount++
		}
	}

	comments, err := s.Dynamo.QueryItems(ctx, models.CommentsTable, keyCondition, expressionValues, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch card comments: %w", err)
	}
	stats.CommentCount = len(comments)

	return stats, nil
}
