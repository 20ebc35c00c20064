package wire

// ShopItem is one line of the daily supermarket listing.
type ShopItem struct {
	Name          string    `json:"name"`
	Category      string    `json:"category"`
	Price         int       `json:"price"`
	Quantity      int       `json:"quantity"`
	IsSale        bool      `json:"is_sale"`
	Nutrition     Nutrition `json:"nutrition"`
	Fullness      int       `json:"fullness"`
	ExpiryDays    int       `json:"expiry_days"`
	IsDistantOnly bool      `json:"is_distant_only"`
}

// ShopListing is the shop catalog for the current day.
type ShopListing struct {
	Items       []ShopItem `json:"items"`
	BagCapacity int        `json:"bag_capacity"`
	PlayerMoney int        `json:"player_money"`
}

// OnlineProvision is a provision sold by the online shop.
type OnlineProvision struct {
	Name      string    `json:"name"`
	Price     int       `json:"price"`
	IsSale    bool      `json:"is_sale"`
	Nutrition Nutrition `json:"nutrition"`
	Fullness  int       `json:"fullness"`
	Caffeine  int       `json:"caffeine"`
}

// OnlineRelic is a relic sold by the online shop.
type OnlineRelic struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int    `json:"price"`
	IsSale      bool   `json:"is_sale"`
	EffectType  string `json:"effect_type"`
	EffectValue int    `json:"effect_value"`
	IsOwned     bool   `json:"is_owned"`
	IsPending   bool   `json:"is_pending"`
}

// OnlineShopListing is the online shop catalog for the current day.
type OnlineShopListing struct {
	Provisions  []OnlineProvision `json:"provisions"`
	Relics      []OnlineRelic     `json:"relics"`
	PlayerMoney int               `json:"player_money"`
	CardDebt    int               `json:"card_debt"`
}

// NamedRecipe is a recipe the authority recognises by its ingredient set.
type NamedRecipe struct {
	Name                string   `json:"name"`
	RequiredIngredients []string `json:"required_ingredients"`
	NutritionMultiplier float64  `json:"nutrition_multiplier"`
	FullnessBonus       int      `json:"fullness_bonus"`
	CanMake             bool     `json:"can_make"`
}

// RecipeListing wraps the recipe list as returned on the wire.
type RecipeListing struct {
	Available []NamedRecipe `json:"available"`
}
