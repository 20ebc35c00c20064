package api

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/unicode/norm"

	"github.com/dechi99991/cooking-sim/internal/testutil"
	"github.com/dechi99991/cooking-sim/internal/wire"
)

func newTestClient(t *testing.T) (*Client, *testutil.Remote) {
	t.Helper()
	remote := testutil.StartRemote(t)
	c, err := New(remote.URL())
	require.NoError(t, err)
	return c, remote
}

func TestNew_DefaultsAndValidation(t *testing.T) {
	c, err := New("")
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, c.BaseURL())

	c, err = New("http://example.test:9000/")
	require.NoError(t, err)
	assert.Equal(t, "http://example.test:9000", c.BaseURL())

	_, err = New("localhost:8000/api")
	assert.Error(t, err)
}

func TestStartGame_SendsNullCharacterWhenEmpty(t *testing.T) {
	c, remote := newTestClient(t)
	remote.JSON(http.MethodPost, "/api/game/start", testutil.Started("abc", 1))

	resp, err := c.StartGame(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "abc", resp.SessionID)
	assert.Equal(t, 1, resp.State.Day)

	req, ok := remote.Last(http.MethodPost, "/api/game/start")
	require.True(t, ok)
	assert.JSONEq(t, `{"character_id":null}`, string(req.Body))

	_, err = c.StartGame(context.Background(), "salaryman")
	require.NoError(t, err)
	req, _ = remote.Last(http.MethodPost, "/api/game/start")
	assert.JSONEq(t, `{"character_id":"salaryman"}`, string(req.Body))
}

func TestListCharacters(t *testing.T) {
	c, remote := newTestClient(t)
	remote.JSON(http.MethodGet, "/api/characters", []wire.Character{{ID: "a", Name: "会社員"}})

	chars, err := c.ListCharacters(context.Background())
	require.NoError(t, err)
	require.Len(t, chars, 1)
	assert.Equal(t, "会社員", chars[0].Name)
}

func TestSessionRoutes(t *testing.T) {
	ctx := context.Background()
	state := testutil.GameState("s1", 3)

	tests := []struct {
		name   string
		method string
		suffix string
		reply  any
		call   func(c *Client) error
		body   string
		query  string
	}{
		{"state", http.MethodGet, "state", state, func(c *Client) error {
			_, err := c.GetState(ctx, "s1")
			return err
		}, "", ""},
		{"go shopping", http.MethodPost, "go-shopping", wire.GoShoppingResponse{State: state}, func(c *Client) error {
			_, err := c.GoShopping(ctx, "s1")
			return err
		}, "", ""},
		{"shop", http.MethodGet, "shop", wire.ShopListing{}, func(c *Client) error {
			_, err := c.GetShop(ctx, "s1", true)
			return err
		}, "", "is_distant=true"},
		{"buy", http.MethodPost, "shop/buy", state, func(c *Client) error {
			_, err := c.BuyFromShop(ctx, "s1", []wire.PurchaseLine{{IngredientName: "卵", Quantity: 2}}, false)
			return err
		}, `{"items":[{"ingredient_name":"卵","quantity":2}],"is_distant":false}`, ""},
		{"online shop", http.MethodGet, "online-shop", wire.OnlineShopListing{}, func(c *Client) error {
			_, err := c.GetOnlineShop(ctx, "s1")
			return err
		}, "", ""},
		{"online buy", http.MethodPost, "online-shop/buy", state, func(c *Client) error {
			_, err := c.BuyFromOnlineShop(ctx, "s1", wire.OnlineItemRelic, "圧力鍋", 0)
			return err
		}, `{"item_type":"relic","item_name":"圧力鍋","quantity":1}`, ""},
		{"preview", http.MethodPost, "cook/preview", wire.CookPreview{DishName: "卵焼き"}, func(c *Client) error {
			_, err := c.CookPreview(ctx, "s1", wire.CookPreviewRequest{IngredientNames: []string{"卵"}})
			return err
		}, `{"ingredient_names":["卵"],"meal_nutrition":null,"meal_fullness":0,"dish_number":1}`, ""},
		{"confirm", http.MethodPost, "cook/confirm", wire.CookResponse{State: state}, func(c *Client) error {
			_, err := c.CookConfirm(ctx, "s1", nil)
			return err
		}, `{"ingredient_names":[]}`, ""},
		{"cafeteria", http.MethodPost, "eat-cafeteria", state, func(c *Client) error {
			_, err := c.EatCafeteria(ctx, "s1")
			return err
		}, "", ""},
		{"delivery", http.MethodPost, "eat-delivery", state, func(c *Client) error {
			_, err := c.EatDelivery(ctx, "s1")
			return err
		}, "", ""},
		{"bento", http.MethodPost, "make-bento", wire.BentoResponse{BentoName: "卵弁当", State: state}, func(c *Client) error {
			_, err := c.MakeBento(ctx, "s1", []string{"卵"})
			return err
		}, `{"ingredient_names":["卵"]}`, ""},
		{"provision", http.MethodPost, "eat-provision", state, func(c *Client) error {
			_, err := c.EatProvision(ctx, "s1", []string{"カップ麺"})
			return err
		}, `{"provision_names":["カップ麺"]}`, ""},
		{"prepared", http.MethodPost, "eat-prepared", state, func(c *Client) error {
			_, err := c.EatPrepared(ctx, "s1", 2)
			return err
		}, "", "prepared_index=2"},
		{"advance", http.MethodPost, "advance-phase", wire.AdvancePhaseResponse{State: state}, func(c *Client) error {
			_, err := c.AdvancePhase(ctx, "s1")
			return err
		}, "", ""},
		{"holiday", http.MethodPost, "holiday-action", state, func(c *Client) error {
			_, err := c.HolidayAction(ctx, "s1", wire.HolidayRest)
			return err
		}, `{"action":"rest"}`, ""},
		{"boss preview", http.MethodPost, "boss-preview-shown", state, func(c *Client) error {
			_, err := c.MarkBossPreviewShown(ctx, "s1")
			return err
		}, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, remote := newTestClient(t)
			path := testutil.GamePath("s1", tt.suffix)
			remote.JSON(tt.method, path, tt.reply)

			require.NoError(t, tt.call(c))

			req, ok := remote.Last(tt.method, path)
			require.True(t, ok, "no request to %s %s", tt.method, path)
			if tt.body != "" {
				assert.JSONEq(t, tt.body, string(req.Body))
			}
			if tt.query != "" {
				assert.Equal(t, tt.query, req.Query.Encode())
			}
		})
	}
}

func TestGetRecipes_UnwrapsAvailable(t *testing.T) {
	c, remote := newTestClient(t)
	remote.JSON(http.MethodGet, testutil.GamePath("s1", "recipes"), wire.RecipeListing{
		Available: []wire.NamedRecipe{{Name: "親子丼", RequiredIngredients: []string{"卵", "鶏肉"}, NutritionMultiplier: 1.5}},
	})

	recipes, err := c.GetRecipes(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, "親子丼", recipes[0].Name)
	assert.InDelta(t, 1.5, recipes[0].NutritionMultiplier, 1e-9)
}

func TestGetRecipes_EmptyListIsNotNil(t *testing.T) {
	c, remote := newTestClient(t)
	remote.JSON(http.MethodGet, testutil.GamePath("s1", "recipes"), map[string]any{"available": nil})

	recipes, err := c.GetRecipes(context.Background(), "s1")
	require.NoError(t, err)
	assert.NotNil(t, recipes)
	assert.Empty(t, recipes)
}

func TestSessionIDIsPathEscaped(t *testing.T) {
	c, remote := newTestClient(t)
	remote.JSON(http.MethodGet, "/api/game/a%2Fb/state", testutil.GameState("a/b", 1))

	st, err := c.GetState(context.Background(), "a/b")
	require.NoError(t, err)
	assert.Equal(t, "a/b", st.SessionID)
}

func TestNamesAreNFCNormalized(t *testing.T) {
	c, remote := newTestClient(t)
	path := testutil.GamePath("s1", "cook/confirm")
	remote.JSON(http.MethodPost, path, wire.CookResponse{})

	decomposed := norm.NFD.String("ガ")
	require.NotEqual(t, "ガ", decomposed)

	_, err := c.CookConfirm(context.Background(), "s1", []string{decomposed})
	require.NoError(t, err)

	req, _ := remote.Last(http.MethodPost, path)
	assert.JSONEq(t, `{"ingredient_names":["ガ"]}`, string(req.Body))
}

func TestErrors_DetailFromAuthority(t *testing.T) {
	c, remote := newTestClient(t)
	path := testutil.GamePath("s1", "cook/confirm")
	remote.Fail(http.MethodPost, path, http.StatusBadRequest, "エネルギーが足りません")

	_, err := c.CookConfirm(context.Background(), "s1", []string{"卵"})
	require.Error(t, err)

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "CookConfirm", apiErr.Op)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "エネルギーが足りません", apiErr.Message)
	assert.Equal(t, http.StatusBadRequest, StatusCode(err))
	assert.Contains(t, err.Error(), "エネルギーが足りません")
}

func TestErrors_ValidationListFallsBackToStatusText(t *testing.T) {
	c, remote := newTestClient(t)
	path := testutil.GamePath("s1", "state")
	remote.On(http.MethodGet, path, testutil.Reply{
		Status: http.StatusUnprocessableEntity,
		Body:   map[string]any{"detail": []map[string]string{{"msg": "field required"}}},
	})

	_, err := c.GetState(context.Background(), "s1")
	require.Error(t, err)
	assert.Equal(t, "GetState: Unprocessable Entity", err.Error())
}

func TestErrors_MalformedResponse(t *testing.T) {
	c, remote := newTestClient(t)
	path := testutil.GamePath("s1", "state")
	remote.On(http.MethodGet, path, testutil.Reply{Raw: "{not json"})

	_, err := c.GetState(context.Background(), "s1")
	require.Error(t, err)

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "malformed response", apiErr.Message)
	assert.Equal(t, http.StatusOK, apiErr.Status)
	assert.NotNil(t, apiErr.Unwrap())
}

func TestErrors_Transport(t *testing.T) {
	remote := testutil.NewRemote()
	url := remote.URL()
	remote.Close()

	c, err := New(url)
	require.NoError(t, err)

	_, err = c.GetState(context.Background(), "s1")
	require.Error(t, err)
	assert.Equal(t, 0, StatusCode(err))

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.NotNil(t, apiErr.Err)
}

func TestErrors_ContextCancelled(t *testing.T) {
	c, remote := newTestClient(t)
	hold := make(chan struct{})
	defer close(hold)
	remote.On(http.MethodGet, testutil.GamePath("s1", "state"), testutil.Reply{Hold: hold})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.GetState(ctx, "s1")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDetailMessage(t *testing.T) {
	assert.Equal(t, "nope", detailMessage(400, []byte(`{"detail":"nope"}`)))
	assert.Equal(t, "Internal Server Error", detailMessage(500, []byte(`<html>oops</html>`)))
	assert.Equal(t, "upstream down", detailMessage(502, []byte("upstream down\n")))
	assert.Equal(t, "status 599", detailMessage(599, nil))
}
