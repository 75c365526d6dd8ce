package model

import (
	"strconv"
	"time"
)

// FarmID uniquely identifies a shared farm instance
type FarmID int64

// ParseFarmID parses the wire representation of a farm id.
// Clients send farm ids as strings; anything that does not parse to a
// positive integer is rejected before any session state is touched.
func ParseFarmID(s string) (FarmID, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidFarmID
	}
	return FarmID(id), nil
}

// String returns the wire representation of the farm id
func (id FarmID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// Farm represents a shared spatial instance that players join
type Farm struct {
	ID        FarmID
	OwnerID   PlayerID
	Name      string
	CreatedAt time.Time
}
