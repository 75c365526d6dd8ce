package model

import "time"

// PlacedObject is an object placed on a farm.
// The id is generated server-side (callers never supply one) and the
// record is immutable after creation; objects are removed only by the
// farm deletion cascade.
type PlacedObject struct {
	ID             string
	FarmID         FarmID
	Type           string
	Transformation Transformation
	PlacedBy       PlayerID
	PlacedAt       time.Time
}
