package wire

// OnlineItemType selects what kind of item an online purchase is for.
type OnlineItemType string

const (
	OnlineItemProvision OnlineItemType = "provision"
	OnlineItemRelic     OnlineItemType = "relic"
)

// Holiday action tags understood by the authority. The client forwards any
// tag unchanged; these exist for callers and help text.
const (
	HolidayRest    = "rest"
	HolidayLocal   = "local"
	HolidayOuting  = "outing"
	HolidayPrep    = "prep"
	HolidayShop    = "shop"
	HolidayDistant = "distant"
	HolidayBatch   = "batch"
	HolidaySkip    = "skip"
)

// StartGameRequest creates a session. A nil CharacterID selects the
// authority's default character.
type StartGameRequest struct {
	CharacterID *string `json:"character_id"`
}

// PurchaseLine is one line of a shop purchase.
type PurchaseLine struct {
	IngredientName string `json:"ingredient_name"`
	Quantity       int    `json:"quantity"`
}

// ShopBuyRequest buys from the supermarket.
type ShopBuyRequest struct {
	Items     []PurchaseLine `json:"items"`
	IsDistant bool           `json:"is_distant"`
}

// OnlineShopBuyRequest orders from the online shop.
type OnlineShopBuyRequest struct {
	ItemType OnlineItemType `json:"item_type"`
	ItemName string         `json:"item_name"`
	Quantity int            `json:"quantity"`
}

// CookPreviewRequest asks for a preview of one dish within a meal.
// MealNutrition and MealFullness are the running totals of dishes already
// previewed for the same meal; DishNumber is 1-based.
type CookPreviewRequest struct {
	IngredientNames []string   `json:"ingredient_names"`
	MealNutrition   *Nutrition `json:"meal_nutrition"`
	MealFullness    int        `json:"meal_fullness"`
	DishNumber      int        `json:"dish_number"`
}

// IngredientsRequest is the body of cook-confirm and make-bento.
type IngredientsRequest struct {
	IngredientNames []string `json:"ingredient_names"`
}

// EatProvisionRequest consumes provisions by name.
type EatProvisionRequest struct {
	ProvisionNames []string `json:"provision_names"`
}

// HolidayActionRequest performs a holiday action.
type HolidayActionRequest struct {
	Action string `json:"action"`
}
