package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"styleswipe_server/models"
	"styleswipe_server/utils"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrNotCommentOwner is returned when someone tries to delete a comment they
// did not write.
var ErrNotCommentOwner = errors.New("comment does not belong to this identity")

// CommentWithReaction is a comment plus the requesting user's own reaction.
type CommentWithReaction struct {
	models.Comment
	UserReaction string `json:"userReaction,omitempty"`
}

type CommentService struct {
	Dynamo *DynamoService
	Logger *zap.Logger
}

// AddComment stores one comment on a card.
func (s *CommentService) AddComment(ctx context.Context, identity models.Identity, cardID, content string) (*models.Comment, error) {
	comment := models.Comment{
		CardID:     cardID,
		CommentID:  uuid.New().String(),
		IdentityID: identity.Key(),
		UserID:     identity.UserID,
		DeviceID:   identity.DeviceID,
		Content:    content,
		CreatedAt:  utils.NowRFC3339(),
	}
	if err := s.Dynamo.PutItem(ctx, models.CommentsTable, comment); err != nil {
		s.Logger.Error("❌ Failed to save comment", zap.String("cardId", cardID), zap.Error(err))
		return nil, err
	}
	s.Logger.Info("💬 Comment added", zap.String("cardId", cardID), zap.String("commentId", comment.CommentID))
	return &comment, nil
}

// GetCommentsByCard lists a card's comments, newest first, with the
// requesting identity's own reaction joined in.
func (s *CommentService) GetCommentsByCard(ctx context.Context, identity models.Identity, cardID string) ([]CommentWithReaction, error) {
	keyCondition := "cardId = :card"
	expressionValues := map[string]types.AttributeValue{
		":card": &types.AttributeValueMemberS{Value: cardID},
	}
	items, err := s.Dynamo.QueryItems(ctx, models.CommentsTable, keyCondition, expressionValues, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch comments: %w", err)
	}
	return s.decorate(ctx, identity, items)
}

// GetUserComments lists every comment an identity wrote, newest first.
func (s *CommentService) GetUserComments(ctx context.Context, identity models.Identity) ([]CommentWithReaction, error) {
	keyCondition := "identityId = :identity"
	expressionValues := map[string]types.AttributeValue{
		":identity": &types.AttributeValueMemberS{Value: identity.Key()},
	}
	items, err := s.Dynamo.QueryItemsWithIndex(ctx, models.CommentsTable, models.CommentUserIndex, keyCondition, expressionValues, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user comments: %w", err)
	}
	return s.decorate(ctx, identity, items)
}

func (s *CommentService) decorate(ctx context.Context, identity models.Identity, items []map[string]types.AttributeValue) ([]CommentWithReaction, error) {
	var comments []models.Comment
	if err := attributevalue.UnmarshalListOfMaps(items, &comments); err != nil {
		return nil, fmt.Errorf("failed to unmarshal comments: %w", err)
	}

	sort.Slice(comments, func(i, j int) bool {
		return comments[i].CreatedAt > comments[j].CreatedAt
	})

	result := make([]CommentWithReaction, 0, len(comments))
	for _, comment := range comments {
		entry := CommentWithReaction{Comment: comment}
		if reaction, err := s.getReaction(ctx, comment.CommentID, identity.Key()); err == nil && reaction != nil {
			entry.UserReaction = reaction.Reaction
		}
		result = append(result, entry)
	}
	return result, nil
}

func (s *CommentService) getReaction(ctx context.Context, commentID, identityKey string) (*models.CommentReaction, error) {
	key := map[string]types.AttributeValue{
		"commentId":  &types.AttributeValueMemberS{Value: commentID},
		"identityId": &types.AttributeValueMemberS{Value: identityKey},
	}
	item, err := s.Dynamo.GetItem(ctx, models.CommentReactionsTable, key)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return nil, nil
		}
		return nil, err
	}
	var reaction models.CommentReaction
	if err := attributevalue.UnmarshalMap(item, &reaction); err != nil {
		return nil, fmt.Errorf("failed to unmarshal reaction: %w", err)
	}
	return &reaction, nil
}

// ReactToComment upserts one like/nope reaction per identity per comment and
// keeps the denormalized counters on the comment row in step. The reaction
// write is conditional on the state the deltas were computed from, so two
// racing reactions from the same identity cannot double-count.
func (s *CommentService) ReactToComment(ctx context.Context, identity models.Identity, cardID, commentID, reaction string) error {
	if reaction != models.ReactionLike && reaction != models.ReactionNope {
		return fmt.Errorf("unknown reaction %q", reaction)
	}

	existing, err := s.getReaction(ctx, commentID, identity.Key())
	if err != nil {
		return err
	}
	if existing != nil && existing.Reaction == reaction {
		return nil
	}

	likeDelta, nopeDelta := 0, 0
	condition := "attribute_not_exists(commentId)"
	var conditionValues map[string]types.AttributeValue
	if existing != nil {
		condition = "reaction = :prev"
		conditionValues = map[string]types.AttributeValue{
			":prev": &types.AttributeValueMemberS{Value: existing.Reaction},
		}
		if existing.Reaction == models.ReactionLike {
			likeDelta--
		} else {
			nopeDelta--
		}
	}
	if reaction == models.ReactionLike {
		likeDelta++
	} else {
		nopeDelta++
	}

	row := models.CommentReaction{
		CommentID:  commentID,
		IdentityID: identity.Key(),
		Reaction:   reaction,
		CreatedAt:  utils.NowRFC3339(),
	}
	if err := s.Dynamo.PutItemWithCondition(ctx, models.CommentReactionsTable, row, condition, conditionValues); err != nil {
		if errors.Is(err, ErrConditionFailed) {
			s.Logger.Info("Reaction raced with a concurrent write, keeping the earlier one",
				zap.String("commentId", commentID))
			return nil
		}
		return err
	}

	key := map[string]types.AttributeValue{
		"cardId":    &types.AttributeValueMemberS{Value: cardID},
		"commentId": &types.AttributeValueMemberS{Value: commentID},
	}
	updateExpression := "ADD likeCount :likeDelta, nopeCount :nopeDelta"
	expressionValues := map[string]types.AttributeValue{
		":likeDelta": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", likeDelta)},
		":nopeDelta": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", nopeDelta)},
	}
	if _, err := s.Dynamo.UpdateItem(ctx, models.CommentsTable, updateExpression, key, expressionValues); err != nil {
		s.Logger.Warn("Failed to update comment counters", zap.String("commentId", commentID), zap.Error(err))
		return err
	}
	return nil
}

// DeleteComment removes one of the identity's own comments.
func (s *CommentService) DeleteComment(ctx context.Context, identity models.Identity, cardID, commentID string) error {
	key := map[string]types.AttributeValue{
		"cardId":    &types.AttributeValueMemberS{Value: cardID},
		"commentId": &types.AttributeValueMemberS{Value: commentID},
	}
	item, err := s.Dynamo.GetItem(ctx, models.CommentsTable, key)
	if err != nil {
		return err
	}
	if utils.ExtractString(item, "identityId") != identity.Key() {
		return ErrNotCommentOwner
	}
	return s.Dynamo.DeleteItem(ctx, models.CommentsTable, key)
}
