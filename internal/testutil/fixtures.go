package testutil

import (
	"net/url"

	"github.com/dechi99991/cooking-sim/internal/wire"
)

// GamePath returns the authority route for a session-scoped action, matching
// what the api client sends.
func GamePath(sessionID, suffix string) string {
	return "/api/game/" + url.PathEscape(sessionID) + "/" + suffix
}

// GameState returns a plausible morning snapshot for a fresh session.
func GameState(sessionID string, day int) wire.GameState {
	return wire.GameState{
		SessionID:    sessionID,
		Day:          day,
		Month:        4,
		Phase:        "morning",
		PhaseDisplay: "朝",
		Weather:      "sunny",
		WeekdayName:  "月",
		Player: wire.Player{
			Money:      50000,
			Energy:     10,
			Stamina:    80,
			Fullness:   2,
			MaxEnergy:  20,
			MaxStamina: 100,
		},
		Stock:             []wire.StockItem{},
		Provisions:        []wire.ProvisionItem{},
		Prepared:          []wire.PreparedItem{},
		PendingDeliveries: []wire.PendingDelivery{},
		Relics:            []string{},
		BagCapacity:       10,
		CookingEnergyCost: 2,
		CanCook:           true,
		CanGoShopping:     true,
		IsOfficeWorker:    true,
	}
}

// StockItem returns a fresh ingredient batch.
func StockItem(name, category string, quantity int) wire.StockItem {
	return wire.StockItem{
		Name:          name,
		Category:      category,
		Quantity:      quantity,
		PurchaseDay:   1,
		ExpiryDay:     4,
		DaysRemaining: 3,
	}
}

// Started returns the response to a successful start request.
func Started(sessionID string, day int) wire.StartGameResponse {
	return wire.StartGameResponse{SessionID: sessionID, State: GameState(sessionID, day)}
}
