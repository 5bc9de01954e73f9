package models

// Card is one catalog entry shown in the swipe deck. Optional fields stay nil
// when the catalog row never set them, and are omitted from responses.
type Card struct {
	ID           string  `dynamodbav:"id" json:"id"` // ✅ Partition Key
	Name         string  `dynamodbav:"name" json:"name"`
	Age          int     `dynamodbav:"age" json:"age"`
	City         string  `dynamodbav:"city" json:"city"`
	About        string  `dynamodbav:"about" json:"about"`
	Image        string  `dynamodbav:"image" json:"image"`
	Tag          *string `dynamodbav:"tag,omitempty" json:"tag,omitempty"`
	InstagramURL *string `dynamodbav:"instagramUrl,omitempty" json:"instagramUrl,omitempty"`
	Description  *string `dynamodbav:"description,omitempty" json:"description,omitempty"`
	// AITags is comma-separated free text used only for preference matching.
	// Immutable once authored.
	AITags    *string `dynamodbav:"aiTags,omitempty" json:"aiTags,omitempty"`
	CreatedAt string  `dynamodbav:"createdAt,omitempty" json:"createdAt,omitempty"`
}

// CardsTable is the DynamoDB table name for the card catalog
const CardsTable = "Cards"
