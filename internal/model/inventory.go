package model

// InventoryItem is the durable quantity of one item type in a player's
// account-wide inventory
type InventoryItem struct {
	PlayerID PlayerID
	ItemType string
	Quantity int
}
