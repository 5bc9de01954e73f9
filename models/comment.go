package models

// Comment is a user comment left on a card.
type Comment struct {
	CardID     string `dynamodbav:"cardId" json:"cardId"`         // ✅ Partition Key
	CommentID  string `dynamodbav:"commentId" json:"commentId"`   // ✅ Sort Key
	IdentityID string `dynamodbav:"identityId" json:"identityId"` // ✅ Used in GSI
	UserID     string `dynamodbav:"userId,omitempty" json:"userId,omitempty"`
	DeviceID   string `dynamodbav:"deviceId,omitempty" json:"deviceId,omitempty"`
	Content    string `dynamodbav:"content" json:"content"`
	LikeCount  int    `dynamodbav:"likeCount" json:"likeCount"`
	NopeCount  int    `dynamodbav:"nopeCount" json:"nopeCount"`
	CreatedAt  string `dynamodbav:"createdAt" json:"createdAt"`
	UpdatedAt  string `dynamodbav:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// CommentReaction records one like/nope reaction per user per comment.
type CommentReaction struct {
	CommentID  string `dynamodbav:"commentId" json:"commentId"`   // ✅ Partition Key
	IdentityID string `dynamodbav:"identityId" json:"identityId"` // ✅ Sort Key
	Reaction   string `dynamodbav:"reaction" json:"reaction"` // like, nope
	CreatedAt  string `dynamodbav:"createdAt" json:"createdAt"`
}

// Table and index names for comments
const (
	CommentsTable         = "Comments"
	CommentReactionsTable = "CommentReactions"
	CommentUserIndex      = "identityId-index"
)
