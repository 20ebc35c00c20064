package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"golang.org/x/text/unicode/norm"

	"github.com/dechi99991/cooking-sim/internal/wire"
)

// ListCharacters returns the selectable characters.
func (c *Client) ListCharacters(ctx context.Context) ([]wire.Character, error) {
	var out []wire.Character
	if err := c.call(ctx, "ListCharacters", http.MethodGet, "/api/characters", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// StartGame creates a new session. An empty characterID selects the
// authority's default character.
func (c *Client) StartGame(ctx context.Context, characterID string) (*wire.StartGameResponse, error) {
	req := wire.StartGameRequest{}
	if characterID != "" {
		req.CharacterID = &characterID
	}
	var out wire.StartGameResponse
	if err := c.call(ctx, "StartGame", http.MethodPost, "/api/game/start", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetState fetches the current snapshot.
func (c *Client) GetState(ctx context.Context, sessionID string) (*wire.GameState, error) {
	var out wire.GameState
	if err := c.call(ctx, "GetState", http.MethodGet, gamePath(sessionID, "state"), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GoShopping spends energy and stamina to go to the supermarket.
func (c *Client) GoShopping(ctx context.Context, sessionID string) (*wire.GoShoppingResponse, error) {
	var out wire.GoShoppingResponse
	if err := c.call(ctx, "GoShopping", http.MethodPost, gamePath(sessionID, "go-shopping"), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetShop fetches today's supermarket listing. distant selects the
// far-away store available on holidays.
func (c *Client) GetShop(ctx context.Context, sessionID string, distant bool) (*wire.ShopListing, error) {
	q := url.Values{"is_distant": []string{strconv.FormatBool(distant)}}
	var out wire.ShopListing
	if err := c.call(ctx, "GetShop", http.MethodGet, gamePath(sessionID, "shop"), q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// BuyFromShop purchases the given lines from the supermarket.
func (c *Client) BuyFromShop(ctx context.Context, sessionID string, lines []wire.PurchaseLine, distant bool) (*wire.GameState, error) {
	items := make([]wire.PurchaseLine, len(lines))
	for i, l := range lines {
		items[i] = wire.PurchaseLine{IngredientName: norm.NFC.String(l.IngredientName), Quantity: l.Quantity}
	}
	req := wire.ShopBuyRequest{Items: items, IsDistant: distant}
	var out wire.GameState
	if err := c.call(ctx, "BuyFromShop", http.MethodPost, gamePath(sessionID, "shop/buy"), nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetOnlineShop fetches today's online shop listing.
func (c *Client) GetOnlineShop(ctx context.Context, sessionID string) (*wire.OnlineShopListing, error) {
	var out wire.OnlineShopListing
	if err := c.call(ctx, "GetOnlineShop", http.MethodGet, gamePath(sessionID, "online-shop"), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// BuyFromOnlineShop orders an item for next-day delivery on the card.
// A quantity below 1 is sent as 1.
func (c *Client) BuyFromOnlineShop(ctx context.Context, sessionID string, itemType wire.OnlineItemType, itemName string, quantity int) (*wire.GameState, error) {
	if quantity < 1 {
		quantity = 1
	}
	req := wire.OnlineShopBuyRequest{
		ItemType: itemType,
		ItemName: norm.NFC.String(itemName),
		Quantity: quantity,
	}
	var out wire.GameState
	if err := c.call(ctx, "BuyFromOnlineShop", http.MethodPost, gamePath(sessionID, "online-shop/buy"), nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetRecipes lists the named recipes makeable from current stock.
func (c *Client) GetRecipes(ctx context.Context, sessionID string) ([]wire.NamedRecipe, error) {
	var out wire.RecipeListing
	if err := c.call(ctx, "GetRecipes", http.MethodGet, gamePath(sessionID, "recipes"), nil, nil, &out); err != nil {
		return nil, err
	}
	if out.Available == nil {
		return []wire.NamedRecipe{}, nil
	}
	return out.Available, nil
}

// CookPreview evaluates a dish without cooking it. DishNumber defaults to 1.
func (c *Client) CookPreview(ctx context.Context, sessionID string, req wire.CookPreviewRequest) (*wire.CookPreview, error) {
	req.IngredientNames = normalizeNames(req.IngredientNames)
	if req.DishNumber < 1 {
		req.DishNumber = 1
	}
	var out wire.CookPreview
	if err := c.call(ctx, "CookPreview", http.MethodPost, gamePath(sessionID, "cook/preview"), nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CookConfirm cooks and eats a dish.
func (c *Client) CookConfirm(ctx context.Context, sessionID string, ingredientNames []string) (*wire.CookResponse, error) {
	req := wire.IngredientsRequest{IngredientNames: normalizeNames(ingredientNames)}
	var out wire.CookResponse
	if err := c.call(ctx, "CookConfirm", http.MethodPost, gamePath(sessionID, "cook/confirm"), nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// EatCafeteria eats at the company cafeteria.
func (c *Client) EatCafeteria(ctx context.Context, sessionID string) (*wire.GameState, error) {
	return c.stateAction(ctx, "EatCafeteria", gamePath(sessionID, "eat-cafeteria"), nil, nil)
}

// EatDelivery orders a delivered meal.
func (c *Client) EatDelivery(ctx context.Context, sessionID string) (*wire.GameState, error) {
	return c.stateAction(ctx, "EatDelivery", gamePath(sessionID, "eat-delivery"), nil, nil)
}

// MakeBento cooks a dish into a bento for later.
func (c *Client) MakeBento(ctx context.Context, sessionID string, ingredientNames []string) (*wire.BentoResponse, error) {
	req := wire.IngredientsRequest{IngredientNames: normalizeNames(ingredientNames)}
	var out wire.BentoResponse
	if err := c.call(ctx, "MakeBento", http.MethodPost, gamePath(sessionID, "make-bento"), nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// EatProvision consumes provisions by name.
func (c *Client) EatProvision(ctx context.Context, sessionID string, provisionNames []string) (*wire.GameState, error) {
	req := wire.EatProvisionRequest{ProvisionNames: normalizeNames(provisionNames)}
	return c.stateAction(ctx, "EatProvision", gamePath(sessionID, "eat-provision"), nil, req)
}

// EatPrepared eats the prepared dish at index.
func (c *Client) EatPrepared(ctx context.Context, sessionID string, index int) (*wire.GameState, error) {
	q := url.Values{"prepared_index": []string{strconv.Itoa(index)}}
	return c.stateAction(ctx, "EatPrepared", gamePath(sessionID, "eat-prepared"), q, nil)
}

// AdvancePhase moves the session to the next phase that needs input.
func (c *Client) AdvancePhase(ctx context.Context, sessionID string) (*wire.AdvancePhaseResponse, error) {
	var out wire.AdvancePhaseResponse
	if err := c.call(ctx, "AdvancePhase", http.MethodPost, gamePath(sessionID, "advance-phase"), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// HolidayAction performs a holiday action identified by tag.
func (c *Client) HolidayAction(ctx context.Context, sessionID string, action string) (*wire.GameState, error) {
	req := wire.HolidayActionRequest{Action: action}
	return c.stateAction(ctx, "HolidayAction", gamePath(sessionID, "holiday-action"), nil, req)
}

// MarkBossPreviewShown acknowledges the weekly boss preview.
func (c *Client) MarkBossPreviewShown(ctx context.Context, sessionID string) (*wire.GameState, error) {
	return c.stateAction(ctx, "MarkBossPreviewShown", gamePath(sessionID, "boss-preview-shown"), nil, nil)
}

// stateAction is a POST whose response is a bare snapshot.
func (c *Client) stateAction(ctx context.Context, op, path string, query url.Values, body any) (*wire.GameState, error) {
	var out wire.GameState
	if err := c.call(ctx, op, http.MethodPost, path, query, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
