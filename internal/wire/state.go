package wire

// Nutrition is the five-axis nutrition vector used by stock, dishes and the
// daily running total.
type Nutrition struct {
	Vitality  int `json:"vitality"`
	Mental    int `json:"mental"`
	Awakening int `json:"awakening"`
	Sustain   int `json:"sustain"`
	Defense   int `json:"defense"`
}

// Player is the player's resource pool.
type Player struct {
	Money      int  `json:"money"`
	Energy     int  `json:"energy"`
	Stamina    int  `json:"stamina"`
	Fullness   int  `json:"fullness"`
	CardDebt   int  `json:"card_debt"`
	MaxEnergy  int  `json:"max_energy"`
	MaxStamina int  `json:"max_stamina"`
	GritUsed   bool `json:"grit_used"` // one-time recovery already spent
}

// StockItem is a batch of purchased ingredients sharing a purchase day.
type StockItem struct {
	Name          string    `json:"name"`
	Category      string    `json:"category"`
	Quantity      int       `json:"quantity"`
	PurchaseDay   int       `json:"purchase_day"`
	ExpiryDay     int       `json:"expiry_day"`
	DaysRemaining int       `json:"days_remaining"`
	IsExpired     bool      `json:"is_expired"`
	Nutrition     Nutrition `json:"nutrition"`
	Fullness      int       `json:"fullness"`
}

// ProvisionItem is a shelf-stable provision.
type ProvisionItem struct {
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	Nutrition Nutrition `json:"nutrition"`
	Fullness  int       `json:"fullness"`
	Caffeine  int       `json:"caffeine"`
}

// PreparedItem is a pre-made dish (bento or batch-cooked).
type PreparedItem struct {
	Name      string    `json:"name"`
	DishType  string    `json:"dish_type"`
	Nutrition Nutrition `json:"nutrition"`
	Fullness  int       `json:"fullness"`
	ExpiryDay int       `json:"expiry_day"`
}

// PendingDelivery is an online-shop order waiting for delivery.
type PendingDelivery struct {
	ItemType    string `json:"item_type"`
	Name        string `json:"name"`
	Quantity    int    `json:"quantity"`
	DeliveryDay int    `json:"delivery_day"`
}

// Temperament is the player's hidden trait once revealed.
type Temperament struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// WeeklyBoss describes the current weekly challenge.
type WeeklyBoss struct {
	ID                   string         `json:"id"`
	Name                 string         `json:"name"`
	Description          string         `json:"description"`
	Category             string         `json:"category"` // event, work, life, nutrition
	RequirementsText     string         `json:"requirements_text"`
	RequiredMoney        int            `json:"required_money"`
	RequiredEnergy       int            `json:"required_energy"`
	RequiredStamina      int            `json:"required_stamina"`
	RequiredItem         *string        `json:"required_item"`
	RequiredNutrition    map[string]int `json:"required_nutrition"`
	RequiredAllNutrients int            `json:"required_all_nutrients"`
}

// GameState is the authority's full snapshot of one session.
// Every successful action returns a complete replacement.
type GameState struct {
	SessionID    string `json:"session_id"`
	Day          int    `json:"day"`
	Month        int    `json:"month"`
	Phase        string `json:"phase"`
	PhaseDisplay string `json:"phase_display"`
	Weather      string `json:"weather"`
	IsHoliday    bool   `json:"is_holiday"`
	IsFriday     bool   `json:"is_friday"`
	IsWeekend    bool   `json:"is_weekend"`
	WeekdayName  string `json:"weekday_name"`

	Player            Player            `json:"player"`
	Stock             []StockItem       `json:"stock"`
	Provisions        []ProvisionItem   `json:"provisions"`
	Prepared          []PreparedItem    `json:"prepared"`
	PendingDeliveries []PendingDelivery `json:"pending_deliveries"`
	Relics            []string          `json:"relics"`
	DailyNutrition    Nutrition         `json:"daily_nutrition"`
	Caffeine          int               `json:"caffeine"`

	IsGameOver     bool    `json:"is_game_over"`
	IsGameClear    bool    `json:"is_game_clear"`
	GameOverReason *string `json:"game_over_reason"`

	BagCapacity       int  `json:"bag_capacity"`
	CookingEnergyCost int  `json:"cooking_energy_cost"`
	CanCook           bool `json:"can_cook"`
	CanGoShopping     bool `json:"can_go_shopping"`
	IsOfficeWorker    bool `json:"is_office_worker"`

	CommuteWillCauseGameOver  bool `json:"commute_will_cause_game_over"`
	ShoppingWillCauseGameOver bool `json:"shopping_will_cause_game_over"`

	Temperament             *Temperament `json:"temperament"`
	TemperamentJustRevealed bool         `json:"temperament_just_revealed"`

	CurrentBoss           *WeeklyBoss `json:"current_boss"`
	ShouldShowBossPreview bool        `json:"should_show_boss_preview"`
}

// Character is a selectable player character.
type Character struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	InitialMoney   int    `json:"initial_money"`
	InitialEnergy  int    `json:"initial_energy"`
	InitialStamina int    `json:"initial_stamina"`
	SalaryAmount   int    `json:"salary_amount"`
	BonusAmount    int    `json:"bonus_amount"`
	HasBonus       bool   `json:"has_bonus"`
	RentAmount     int    `json:"rent_amount"`
}
