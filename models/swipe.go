package models

// Swipe records one like/nope decision. The table key is (identityId, cardId)
// where identityId is the userId when known, otherwise the deviceId, so a
// re-swipe of the same card overwrites the earlier row instead of duplicating it.
type Swipe struct {
	IdentityID string `dynamodbav:"identityId" json:"identityId"` // ✅ Partition Key (userId or deviceId)
	CardID     string `dynamodbav:"cardId" json:"cardId"`         // ✅ Sort Key
	UserID     string `dynamodbav:"userId,omitempty" json:"userId,omitempty"`
	DeviceID   string `dynamodbav:"deviceId,omitempty" json:"deviceId,omitempty"`
	Direction  string `dynamodbav:"direction" json:"direction"` // like, nope
	SessionID  string `dynamodbav:"sessionId,omitempty" json:"sessionId,omitempty"`
	CreatedAt  string `dynamodbav:"createdAt" json:"createdAt"`
}

// SwipesTable is the DynamoDB table name for swipes
const SwipesTable = "Swipes"

// CardIDIndex is the GSI for per-card swipe lookups (like/nope tallies)
const CardIDIndex = "cardId-index"

// SwipeCreatedAtIndex is the GSI keyed (identityId, createdAt) for
// latest-first history reads
const SwipeCreatedAtIndex = "identityId-createdAt-index"
