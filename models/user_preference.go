package models

// UserPreference holds the AI-generated taste description for one identity.
// At most one row per user; re-analysis overwrites the row wholesale.
type UserPreference struct {
	UserID         string `dynamodbav:"userId" json:"userId"` // ✅ Partition Key
	DeviceID       string `dynamodbav:"deviceId,omitempty" json:"deviceId,omitempty"`
	PreferenceText string `dynamodbav:"preferenceText" json:"preferenceText"`
	AnalyzedAt     string `dynamodbav:"analyzedAt" json:"analyzedAt"`
	CreatedAt      string `dynamodbav:"createdAt,omitempty" json:"createdAt,omitempty"`
	UpdatedAt      string `dynamodbav:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// UserPreferencesTable is the DynamoDB table name for user preferences
const UserPreferencesTable = "UserPreferences"

// DeviceIDIndex is the GSI used to look a preference up by deviceId when no
// userId row exists
const DeviceIDIndex = "deviceId-index"
