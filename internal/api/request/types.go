package request

// RegisterRequest is the request body for registering a player
type RegisterRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CreateFarmRequest is the request body for creating a farm
type CreateFarmRequest struct {
	Name string `json:"name"`
}

// AdjustInventoryRequest is the request body for adding or removing
// inventory items
type AdjustInventoryRequest struct {
	ItemType string `json:"item_type"`
	Quantity int    `json:"quantity"`
}
