package models

// Identity is the triple every request carries. UserID and DeviceID are the
// same durable UUID (deviceId kept for backward compatibility with older
// clients); SessionID is minted fresh per session. The three are always
// populated together.
type Identity struct {
	UserID    string `json:"userId"`
	DeviceID  string `json:"deviceId"`
	SessionID string `json:"sessionId"`
}

// Key returns the identifier swipes are keyed by: userId when present,
// otherwise deviceId.
func (id Identity) Key() string {
	if id.UserID != "" {
		return id.UserID
	}
	return id.DeviceID
}
