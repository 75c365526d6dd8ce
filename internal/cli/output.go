package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Player:
		o.printPlayer(v)
	case AuthResult:
		o.printAuthResult(v)
	case Farm:
		o.printFarm(v)
	case FarmList:
		o.printFarmList(v)
	case FarmState:
		o.printFarmState(v)
	case Inventory:
		o.printInventory(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Player response type (matches API)
type Player struct {
	ID          int64  `json:"id"`
	DisplayName string `json:"display_name"`
}

// AuthResult combines player and token
type AuthResult struct {
	Player    Player    `json:"player"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Farm response type
type Farm struct {
	ID        int64     `json:"id"`
	OwnerID   int64     `json:"owner_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// FarmList response type
type FarmList struct {
	Farms []Farm `json:"farms"`
}

// Transformation response type
type Transformation struct {
	PositionX float64 `json:"positionX"`
	PositionY float64 `json:"positionY"`
	PositionZ float64 `json:"positionZ"`
	RotationX float64 `json:"rotationX"`
	RotationY float64 `json:"rotationY"`
	RotationZ float64 `json:"rotationZ"`
}

// PlacedObject response type
type PlacedObject struct {
	ID             string         `json:"id"`
	Type           string         `json:"type"`
	Transformation Transformation `json:"transformation"`
	PlacedBy       int64          `json:"placed_by"`
	PlacedAt       time.Time      `json:"placed_at"`
}

// FarmState response type
type FarmState struct {
	Farm           Farm           `json:"farm"`
	Objects        []PlacedObject `json:"objects"`
	PresentPlayers []int64        `json:"present_players"`
}

// InventoryItem response type
type InventoryItem struct {
	ItemType string `json:"item_type"`
	Quantity int    `json:"quantity"`
}

// Inventory response type
type Inventory struct {
	Items []InventoryItem `json:"items"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printPlayer(p Player) {
	fmt.Printf("Player: %s (%d)\n", p.DisplayName, p.ID)
}

func (o *Output) printAuthResult(a AuthResult) {
	o.printPlayer(a.Player)
	fmt.Printf("Token: %s\n", a.Token)
	fmt.Printf("Expires: %s\n", a.ExpiresAt.Format(time.RFC3339))
}

func (o *Output) printFarm(f Farm) {
	fmt.Printf("Farm: %s (%d)\n", f.Name, f.ID)
	fmt.Printf("Owner: %d\n", f.OwnerID)
	fmt.Printf("Created: %s\n", f.CreatedAt.Format(time.RFC3339))
}

func (o *Output) printFarmList(l FarmList) {
	fmt.Printf("Farms (%d):\n", len(l.Farms))
	for _, f := range l.Farms {
		fmt.Printf("  - %s (%d)\n", f.Name, f.ID)
	}
}

func (o *Output) printFarmState(s FarmState) {
	o.printFarm(s.Farm)

	fmt.Printf("Present (%d):\n", len(s.PresentPlayers))
	for _, p := range s.PresentPlayers {
		fmt.Printf("  - player %d\n", p)
	}

	fmt.Printf("Objects (%d):\n", len(s.Objects))
	for _, obj := range s.Objects {
		fmt.Printf("  - %s at (%.1f, %.1f, %.1f) [%s]\n",
			obj.Type,
			obj.Transformation.PositionX,
			obj.Transformation.PositionY,
			obj.Transformation.PositionZ,
			obj.ID)
	}
}

func (o *Output) printInventory(inv Inventory) {
	fmt.Printf("Inventory (%d item types):\n", len(inv.Items))
	for _, item := range inv.Items {
		fmt.Printf("  - %s x%d\n", item.ItemType, item.Quantity)
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
