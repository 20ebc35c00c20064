package wire

// Dish is a cooked dish.
type Dish struct {
	Name            string    `json:"name"`
	Nutrition       Nutrition `json:"nutrition"`
	Fullness        int       `json:"fullness"`
	Ingredients     []string  `json:"ingredients"`
	IsNamed         bool      `json:"is_named"`
	NamedRecipeName *string   `json:"named_recipe_name"`
}

// Event is a random event triggered during phase progression.
type Event struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Timing      string `json:"timing"`
	Reason      string `json:"reason"`
}

// AutoConsume reports a provision the authority consumed on the player's
// behalf (e.g. an energy drink before shopping).
type AutoConsume struct {
	ConsumedName      string `json:"consumed_name"`
	CaffeineAmount    int    `json:"caffeine_amount"`
	EnergyRestored    int    `json:"energy_restored"`
	WillCauseInsomnia bool   `json:"will_cause_insomnia"`
}

// SalaryInfo is the payday breakdown.
type SalaryInfo struct {
	Gross int `json:"gross"`
	Rent  int `json:"rent"`
	Net   int `json:"net"`
}

// BonusInfo is a bonus payment.
type BonusInfo struct {
	Amount int `json:"amount"`
}

// WeeklyEvaluation is the pre-boss weekly grade. The authority still sends it
// for older clients; it is decoded but not cached.
type WeeklyEvaluation struct {
	Rank           string `json:"rank"`
	NutritionGrade string `json:"nutrition_grade"`
	NutrientsOK    int    `json:"nutrients_ok"`
	SavingSuccess  bool   `json:"saving_success"`
	Overspending   bool   `json:"overspending"`
	FoodSpending   int    `json:"food_spending"`
	MealsCooked    int    `json:"meals_cooked"`
	EnergyChange   int    `json:"energy_change"`
	StaminaChange  int    `json:"stamina_change"`
	MoneyChange    int    `json:"money_change"`
	Message        string `json:"message"`
}

// BossResult is the outcome of a weekly boss challenge.
type BossResult struct {
	BossID           string    `json:"boss_id"`
	BossName         string    `json:"boss_name"`
	Category         string    `json:"category"`
	Success          bool      `json:"success"`
	RequirementsText string    `json:"requirements_text"`
	EnergyChange     int       `json:"energy_change"`
	StaminaChange    int       `json:"stamina_change"`
	MoneyChange      int       `json:"money_change"` // reward minus debt
	Message          string    `json:"message"`
	WeeklyNutrition  Nutrition `json:"weekly_nutrition"`
}

// StartGameResponse is returned when a session is created.
type StartGameResponse struct {
	SessionID string    `json:"session_id"`
	State     GameState `json:"state"`
}

// GoShoppingResponse is returned by go-shopping.
type GoShoppingResponse struct {
	State       GameState    `json:"state"`
	AutoConsume *AutoConsume `json:"auto_consume"`
}

// CookResponse is returned by a confirmed cook.
type CookResponse struct {
	Dish              Dish         `json:"dish"`
	State             GameState    `json:"state"`
	EvaluationComment string       `json:"evaluation_comment"`
	AutoConsume       *AutoConsume `json:"auto_consume"`
}

// CookPreview describes what a cook would produce. It carries no state.
type CookPreview struct {
	DishName          string    `json:"dish_name"`
	Nutrition         Nutrition `json:"nutrition"`
	Fullness          int       `json:"fullness"`
	IsNamed           bool      `json:"is_named"`
	NamedRecipeName   *string   `json:"named_recipe_name"`
	EvaluationComment string    `json:"evaluation_comment"`
	CanMake           bool      `json:"can_make"`

	// Running meal totals when several dishes make up one meal.
	MealNutrition Nutrition `json:"meal_nutrition"`
	MealFullness  int       `json:"meal_fullness"`
	DishNumber    int       `json:"dish_number"`
}

// BentoResponse is returned by make-bento.
type BentoResponse struct {
	BentoName   string       `json:"bento_name"`
	State       GameState    `json:"state"`
	AutoConsume *AutoConsume `json:"auto_consume"`
}

// AdvancePhaseResponse bundles everything produced while the authority moved
// the session to the next phase that needs player input.
type AdvancePhaseResponse struct {
	Events               []Event           `json:"events"`
	State                GameState         `json:"state"`
	Deliveries           []PendingDelivery `json:"deliveries"`
	SalaryInfo           *SalaryInfo       `json:"salary_info"`
	BonusInfo            *BonusInfo        `json:"bonus_info"`
	EncouragementMessage *string           `json:"encouragement_message"`
	WeeklyEvaluation     *WeeklyEvaluation `json:"weekly_evaluation"`
	BossResult           *BossResult       `json:"boss_result"`
}
