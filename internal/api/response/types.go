package response

import (
	"time"

	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/model"
	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/services/auth"
	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/services/farm"
)

// Player represents a player in API responses
type Player struct {
	ID          int64  `json:"id"`
	DisplayName string `json:"display_name"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	return Player{
		ID:          int64(p.ID),
		DisplayName: p.DisplayName,
	}
}

// AuthResponse is the response for authentication endpoints
type AuthResponse struct {
	Player    Player    `json:"player"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AuthResponseFromSession creates an AuthResponse from a session
func AuthResponseFromSession(s *auth.Session) AuthResponse {
	return AuthResponse{
		Player:    PlayerFromModel(&s.Player),
		Token:     s.Token,
		ExpiresAt: s.ExpiresAt,
	}
}

// Farm represents a farm in API responses
type Farm struct {
	ID        int64     `json:"id"`
	OwnerID   int64     `json:"owner_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// FarmFromModel converts model.Farm
func FarmFromModel(f *model.Farm) Farm {
	return Farm{
		ID:        int64(f.ID),
		OwnerID:   int64(f.OwnerID),
		Name:      f.Name,
		CreatedAt: f.CreatedAt,
	}
}

// FarmList is the response for listing a player's farms
type FarmList struct {
	Farms []Farm `json:"farms"`
}

// FarmListFromModel converts a slice of model.Farm
func FarmListFromModel(farms []*model.Farm) FarmList {
	out := FarmList{Farms: make([]Farm, len(farms))}
	for i, f := range farms {
		out.Farms[i] = FarmFromModel(f)
	}
	return out
}

// PlacedObject represents a placed object in API responses
type PlacedObject struct {
	ID             string               `json:"id"`
	Type           string               `json:"type"`
	Transformation model.Transformation `json:"transformation"`
	PlacedBy       int64                `json:"placed_by"`
	PlacedAt       time.Time            `json:"placed_at"`
}

// PlacedObjectFromModel converts model.PlacedObject
func PlacedObjectFromModel(o *model.PlacedObject) PlacedObject {
	return PlacedObject{
		ID:             o.ID,
		Type:           o.Type,
		Transformation: o.Transformation,
		PlacedBy:       int64(o.PlacedBy),
		PlacedAt:       o.PlacedAt,
	}
}

// FarmState is a farm plus its objects and current occupants
type FarmState struct {
	Farm           Farm           `json:"farm"`
	Objects        []PlacedObject `json:"objects"`
	PresentPlayers []int64        `json:"present_players"`
}

// FarmStateFromModel converts a farm.FarmState
func FarmStateFromModel(s *farm.FarmState) FarmState {
	objects := make([]PlacedObject, len(s.Objects))
	for i, o := range s.Objects {
		objects[i] = PlacedObjectFromModel(o)
	}
	present := make([]int64, len(s.PresentPlayers))
	for i, p := range s.PresentPlayers {
		present[i] = int64(p)
	}
	return FarmState{
		Farm:           FarmFromModel(s.Farm),
		Objects:        objects,
		PresentPlayers: present,
	}
}

// InventoryItem represents one held item stack
type InventoryItem struct {
	ItemType string `json:"item_type"`
	Quantity int    `json:"quantity"`
}

// Inventory is the response for listing a player's inventory
type Inventory struct {
	Items []InventoryItem `json:"items"`
}

// InventoryFromModel converts a slice of model.InventoryItem
func InventoryFromModel(items []*model.InventoryItem) Inventory {
	out := Inventory{Items: make([]InventoryItem, len(items))}
	for i, item := range items {
		out.Items[i] = InventoryItem{
			ItemType: item.ItemType,
			Quantity: item.Quantity,
		}
	}
	return out
}
