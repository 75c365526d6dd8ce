package inventory

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/model"
	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/registry"
	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/storage"
	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/transport"
)

// KickReasonSuperseded is sent to a stale account-scope connection
// when the same player connects from elsewhere
const KickReasonSuperseded = "Logged in elsewhere"

// Coordinator manages the account-scoped real-time surface. Unlike a
// farm session it has no spatial state: a player connects once per
// account and receives inventory pushes regardless of which farm, if
// any, they currently occupy. At most one account-scope connection
// exists per player, tracked in a registry separate from the farm one.
type Coordinator struct {
	storage    storage.Storage
	dispatcher transport.Dispatcher
	registry   *registry.Registry
	logger     *slog.Logger
}

// NewCoordinator creates a new inventory Coordinator
func NewCoordinator(
	store storage.Storage,
	dispatcher transport.Dispatcher,
	reg *registry.Registry,
	logger *slog.Logger,
) *Coordinator {
	return &Coordinator{
		storage:    store,
		dispatcher: dispatcher,
		registry:   reg,
		logger:     logger.With(slog.String("component", "inventory")),
	}
}

// Connect binds a connection to a player's account group. A prior
// connection for the same player is kicked and unbound first, so
// inventory pushes only ever reach the newest device.
func (c *Coordinator) Connect(ctx context.Context, playerID model.PlayerID, connID model.ConnectionID) error {
	if _, err := c.storage.GetPlayer(ctx, playerID); err != nil {
		return err
	}

	group := transport.PlayerGroup(playerID)
	if evicted, ok := c.registry.Register(playerID, connID); ok && evicted != connID {
		_ = c.dispatcher.SendToConnection(ctx, evicted, transport.Event{
			Type:    model.EventKicked,
			Payload: model.KickedPayload{Reason: KickReasonSuperseded},
		})
		c.dispatcher.RemoveFromGroup(group, evicted)
		c.logger.Info("account connection superseded",
			slog.Int64("player_id", int64(playerID)),
			slog.String("old_connection_id", string(evicted)))
	}
	c.dispatcher.AddToGroup(group, connID)

	c.logger.Info("account connected",
		slog.Int64("player_id", int64(playerID)),
		slog.String("connection_id", string(connID)))
	return nil
}

// HandleDisconnect unbinds a dropped account-scope connection. Unknown
// connections resolve silently.
func (c *Coordinator) HandleDisconnect(ctx context.Context, connID model.ConnectionID) {
	playerID, ok := c.registry.Unregister(connID)
	if !ok {
		return
	}
	c.dispatcher.RemoveFromGroup(transport.PlayerGroup(playerID), connID)

	c.logger.Info("account disconnected",
		slog.Int64("player_id", int64(playerID)),
		slog.String("connection_id", string(connID)))
}

// AddItem increases the durable quantity of an item and pushes the
// change to the player's account group.
func (c *Coordinator) AddItem(ctx context.Context, playerID model.PlayerID, itemType string, quantity int) error {
	if quantity <= 0 {
		return model.ErrInvalidQuantity
	}
	return c.adjust(ctx, playerID, itemType, quantity)
}

// RemoveItem decreases the durable quantity of an item and pushes the
// change to the player's account group. Removing more than the player
// holds fails without changing anything.
func (c *Coordinator) RemoveItem(ctx context.Context, playerID model.PlayerID, itemType string, quantity int) error {
	if quantity <= 0 {
		return model.ErrInvalidQuantity
	}
	return c.adjust(ctx, playerID, itemType, -quantity)
}

// Inventory returns every item the player holds
func (c *Coordinator) Inventory(ctx context.Context, playerID model.PlayerID) ([]*model.InventoryItem, error) {
	return c.storage.GetInventory(ctx, playerID)
}

func (c *Coordinator) adjust(ctx context.Context, playerID model.PlayerID, itemType string, delta int) error {
	current := 0
	item, err := c.storage.GetInventoryItem(ctx, playerID, itemType)
	if err == nil {
		current = item.Quantity
	} else if !errors.Is(err, model.ErrItemNotFound) {
		return err
	}

	updated := current + delta
	if updated < 0 {
		return model.ErrInsufficientQuantity
	}

	if err := c.storage.SaveInventoryItem(ctx, &model.InventoryItem{
		PlayerID: playerID,
		ItemType: itemType,
		Quantity: updated,
	}); err != nil {
		return err
	}

	c.logger.Info("inventory adjusted",
		slog.Int64("player_id", int64(playerID)),
		slog.String("item_type", itemType),
		slog.Int("delta", delta),
		slog.Int("quantity", updated))

	return c.dispatcher.SendToGroup(ctx, transport.PlayerGroup(playerID), transport.Event{
		Type: model.EventInventoryUpdated,
		Payload: model.InventoryUpdatedPayload{
			ItemType: itemType,
			Delta:    delta,
		},
	})
}
