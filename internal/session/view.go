package session

import "github.com/dechi99991/cooking-sim/internal/wire"

// View is a consistent copy of everything a presentation layer renders.
// Pointers and slices share memory with the Store and must not be modified.
type View struct {
	SessionID    string           `json:"session_id"`
	State        *wire.GameState  `json:"state"`
	Characters   []wire.Character `json:"characters"`
	Busy         bool             `json:"busy"`
	Error        string           `json:"error"`
	IsPlaying    bool             `json:"is_playing"`
	IsGameOver   bool             `json:"is_game_over"`
	IsGameClear  bool             `json:"is_game_clear"`
	CurrentPhase string           `json:"current_phase"`
	PhaseDisplay string           `json:"phase_display"`
	IsHoliday    bool             `json:"is_holiday"`
	StockGroups  []StockGroup     `json:"stock_groups"`

	LastCookedDish           *wire.Dish             `json:"last_cooked_dish"`
	LastEvaluationComment    string                 `json:"last_evaluation_comment"`
	LastCookPreview          *wire.CookPreview      `json:"last_cook_preview"`
	LastBentoName            string                 `json:"last_bento_name"`
	LastEvents               []wire.Event           `json:"last_events"`
	LastDeliveries           []wire.PendingDelivery `json:"last_deliveries"`
	LastSalaryInfo           *wire.SalaryInfo       `json:"last_salary_info"`
	LastBonusInfo            *wire.BonusInfo        `json:"last_bonus_info"`
	LastEncouragementMessage *string                `json:"last_encouragement_message"`
	LastBossResult           *wire.BossResult       `json:"last_boss_result"`
	LastAutoConsume          *wire.AutoConsume      `json:"last_auto_consume"`

	Shop            *wire.ShopListing       `json:"shop"`
	ShopStale       bool                    `json:"shop_stale"`
	OnlineShop      *wire.OnlineShopListing `json:"online_shop"`
	OnlineShopStale bool                    `json:"online_shop_stale"`
	Recipes         []wire.NamedRecipe      `json:"recipes"`
	RecipesStale    bool                    `json:"recipes_stale"`
}

// View snapshots the Store under a single lock.
func (s *Store) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{
		SessionID:   s.sessionID,
		State:       s.state,
		Characters:  s.characters,
		Busy:        s.busy,
		Error:       s.err,
		IsPlaying:   s.isPlayingLocked(),
		StockGroups: []StockGroup{},

		LastCookedDish:           s.cache.cookedDish,
		LastEvaluationComment:    s.cache.evaluationComment,
		LastCookPreview:          s.cache.cookPreview,
		LastBentoName:            s.cache.bentoName,
		LastEvents:               s.cache.events,
		LastDeliveries:           s.cache.deliveries,
		LastSalaryInfo:           s.cache.salary,
		LastBonusInfo:            s.cache.bonus,
		LastEncouragementMessage: s.cache.encouragement,
		LastBossResult:           s.cache.bossResult,
		LastAutoConsume:          s.cache.autoConsume,

		Shop:            s.shop.Data,
		ShopStale:       s.shop.stale(s.revision),
		OnlineShop:      s.onlineShop.Data,
		OnlineShopStale: s.onlineShop.stale(s.revision),
		Recipes:         s.recipes.Data,
		RecipesStale:    s.recipes.stale(s.revision),
	}
	if s.state != nil {
		v.IsGameOver = s.state.IsGameOver
		v.IsGameClear = s.state.IsGameClear
		v.CurrentPhase = s.state.Phase
		v.PhaseDisplay = s.state.PhaseDisplay
		v.IsHoliday = s.state.IsHoliday
		v.StockGroups = GroupStock(s.state.Stock)
	}
	return v
}

// Shop returns the shop catalog.
func (s *Store) Shop() Catalog[*wire.ShopListing] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shop
}

// OnlineShop returns the online shop catalog.
func (s *Store) OnlineShop() Catalog[*wire.OnlineShopListing] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.onlineShop
}

// Recipes returns the recipe catalog.
func (s *Store) Recipes() Catalog[[]wire.NamedRecipe] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recipes
}

