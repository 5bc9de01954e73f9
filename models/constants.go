package models

// Swipe directions as stored. A left drag means like, right means nope.
const (
	DirectionLike = "like"
	DirectionNope = "nope"
)

// Gesture values accepted from clients before normalization
const (
	GestureLeft  = "left"
	GestureRight = "right"
)

// Comment reaction values
const (
	ReactionLike = "like"
	ReactionNope = "nope"
)
