package session

import (
	"context"

	"github.com/dechi99991/cooking-sim/internal/wire"
)

// applyFunc folds a successful response into the Store. It runs with s.mu held.
type applyFunc func(s *Store)

// remoteCall performs the remote half of an action for the given session.
type remoteCall func(ctx context.Context, sessionID string) (applyFunc, error)

// run drives one session-scoped action. It is a no-op without a session.
func (s *Store) run(ctx context.Context, action string, args map[string]any, call remoteCall) {
	s.mu.Lock()
	if s.sessionID == "" {
		s.mu.Unlock()
		s.logger.Debug("no active session, skipping", "action", action)
		return
	}
	id, gen := s.sessionID, s.generation
	s.busy = true
	s.err = ""
	s.mu.Unlock()

	seq := s.invoke(ctx, Invocation{Action: action, SessionID: id, Args: args})
	apply, err := call(ctx, id)
	s.finish(ctx, action, seq, id, gen, apply, err)
}

// finish applies or records the outcome of an action and clears busy.
// Responses issued for a session that has since been reset or replaced are
// dropped so that the session id and snapshot never disagree.
func (s *Store) finish(ctx context.Context, action string, seq int64, sessionID string, gen uint64, apply applyFunc, err error) {
	s.mu.Lock()
	comp := Completion{Outcome: OutcomeOK}
	switch {
	case gen != s.generation || sessionID != s.sessionID:
		comp.Outcome = OutcomeDiscarded
		s.logger.Warn("discarding response for a stale session", "action", action, "session_id", sessionID)
	case err != nil:
		s.err = err.Error()
		comp.Outcome = OutcomeError
		comp.Message = s.err
		s.logger.Debug("action failed", "action", action, "error", err)
	default:
		apply(s)
		s.logger.Debug("action applied", "action", action, "session_id", s.sessionID)
	}
	s.busy = false
	if s.state != nil {
		comp.Day = s.state.Day
		comp.Phase = s.state.Phase
	}
	s.mu.Unlock()

	s.complete(ctx, seq, comp)
}

func (s *Store) invoke(ctx context.Context, inv Invocation) int64 {
	seq, err := s.recorder.RecordInvocation(ctx, inv)
	if err != nil {
		s.logger.Warn("journal invocation failed", "action", inv.Action, "error", err)
	}
	return seq
}

func (s *Store) complete(ctx context.Context, seq int64, comp Completion) {
	if err := s.recorder.RecordCompletion(ctx, seq, comp); err != nil {
		s.logger.Warn("journal completion failed", "seq", seq, "error", err)
	}
}

// setStateLocked replaces the snapshot after a mutating action and marks
// every catalog stale.
func (s *Store) setStateLocked(st *wire.GameState) {
	s.state = st
	s.revision++
}

// stateOnly wraps a remote call that answers with a bare GameState.
func stateOnly(fn func(ctx context.Context, sessionID string) (*wire.GameState, error)) remoteCall {
	return func(ctx context.Context, sessionID string) (applyFunc, error) {
		st, err := fn(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		return func(s *Store) { s.setStateLocked(st) }, nil
	}
}

// FetchCharacters loads the selectable characters. It needs no session.
func (s *Store) FetchCharacters(ctx context.Context) {
	s.mu.Lock()
	s.busy = true
	s.err = ""
	s.mu.Unlock()

	seq := s.invoke(ctx, Invocation{Action: "fetch_characters"})
	chars, err := s.remote.ListCharacters(ctx)

	s.mu.Lock()
	comp := Completion{Outcome: OutcomeOK}
	if err != nil {
		s.err = err.Error()
		comp.Outcome = OutcomeError
		comp.Message = s.err
	} else {
		if chars == nil {
			chars = []wire.Character{}
		}
		s.characters = chars
	}
	s.busy = false
	s.mu.Unlock()

	s.complete(ctx, seq, comp)
}

// StartGame creates a new session. An empty characterID lets the authority
// pick its default. Starting while a session is active records
// ErrSessionActive and leaves the current session in place.
func (s *Store) StartGame(ctx context.Context, characterID string) {
	s.mu.Lock()
	if s.sessionID != "" {
		s.err = ErrSessionActive.Error()
		s.mu.Unlock()
		return
	}
	gen := s.generation
	s.busy = true
	s.err = ""
	s.mu.Unlock()

	var args map[string]any
	if characterID != "" {
		args = map[string]any{"character_id": characterID}
	}
	seq := s.invoke(ctx, Invocation{Action: "start_game", Args: args})

	resp, err := s.remote.StartGame(ctx, characterID)
	if err == nil && resp.SessionID == "" {
		err = errNoSessionID
	}
	var apply applyFunc
	if err == nil {
		apply = func(s *Store) {
			st := resp.State
			s.generation++
			s.sessionID = resp.SessionID
			s.clearSessionDataLocked()
			s.setStateLocked(&st)
		}
	}
	s.finish(ctx, "start_game", seq, "", gen, apply, err)
}

// RefreshState re-reads the snapshot. Caches and catalog freshness are untouched.
func (s *Store) RefreshState(ctx context.Context) {
	s.run(ctx, "refresh_state", nil, func(ctx context.Context, id string) (applyFunc, error) {
		st, err := s.remote.GetState(ctx, id)
		if err != nil {
			return nil, err
		}
		return func(s *Store) { s.state = st }, nil
	})
}

// GoShopping starts a shopping trip.
func (s *Store) GoShopping(ctx context.Context) {
	s.run(ctx, "go_shopping", nil, func(ctx context.Context, id string) (applyFunc, error) {
		resp, err := s.remote.GoShopping(ctx, id)
		if err != nil {
			return nil, err
		}
		return func(s *Store) {
			st := resp.State
			s.setStateLocked(&st)
			s.cache.autoConsume = resp.AutoConsume
		}, nil
	})
}

// FetchShop loads the supermarket listing; distant selects the distant shop.
func (s *Store) FetchShop(ctx context.Context, distant bool) {
	s.run(ctx, "fetch_shop", map[string]any{"distant": distant}, func(ctx context.Context, id string) (applyFunc, error) {
		listing, err := s.remote.GetShop(ctx, id, distant)
		if err != nil {
			return nil, err
		}
		return func(s *Store) {
			s.shop = Catalog[*wire.ShopListing]{Data: listing, Revision: s.revision, fetched: true}
		}, nil
	})
}

// BuyFromShop purchases the given lines.
func (s *Store) BuyFromShop(ctx context.Context, lines []wire.PurchaseLine, distant bool) {
	args := map[string]any{"items": lines, "distant": distant}
	s.run(ctx, "buy_from_shop", args, stateOnly(func(ctx context.Context, id string) (*wire.GameState, error) {
		return s.remote.BuyFromShop(ctx, id, lines, distant)
	}))
}

// FetchOnlineShop loads the online shop listing.
func (s *Store) FetchOnlineShop(ctx context.Context) {
	s.run(ctx, "fetch_online_shop", nil, func(ctx context.Context, id string) (applyFunc, error) {
		listing, err := s.remote.GetOnlineShop(ctx, id)
		if err != nil {
			return nil, err
		}
		return func(s *Store) {
			s.onlineShop = Catalog[*wire.OnlineShopListing]{Data: listing, Revision: s.revision, fetched: true}
		}, nil
	})
}

// BuyFromOnlineShop orders a provision or relic for later delivery.
func (s *Store) BuyFromOnlineShop(ctx context.Context, itemType wire.OnlineItemType, itemName string, quantity int) {
	args := map[string]any{"item_type": string(itemType), "item_name": itemName, "quantity": quantity}
	s.run(ctx, "buy_from_online_shop", args, stateOnly(func(ctx context.Context, id string) (*wire.GameState, error) {
		return s.remote.BuyFromOnlineShop(ctx, id, itemType, itemName, quantity)
	}))
}

// FetchRecipes loads the named recipe list.
func (s *Store) FetchRecipes(ctx context.Context) {
	s.run(ctx, "fetch_recipes", nil, func(ctx context.Context, id string) (applyFunc, error) {
		recipes, err := s.remote.GetRecipes(ctx, id)
		if err != nil {
			return nil, err
		}
		if recipes == nil {
			recipes = []wire.NamedRecipe{}
		}
		return func(s *Store) {
			s.recipes = Catalog[[]wire.NamedRecipe]{Data: recipes, Revision: s.revision, fetched: true}
		}, nil
	})
}

// CookPreview asks what cooking the ingredients would produce. The preview is
// cached and returned; it is nil on failure or without a session. The
// snapshot is never touched.
func (s *Store) CookPreview(ctx context.Context, req wire.CookPreviewRequest) *wire.CookPreview {
	var out *wire.CookPreview
	args := map[string]any{"ingredients": req.IngredientNames, "dish_number": req.DishNumber}
	s.run(ctx, "cook_preview", args, func(ctx context.Context, id string) (applyFunc, error) {
		preview, err := s.remote.CookPreview(ctx, id, req)
		if err != nil {
			return nil, err
		}
		return func(s *Store) {
			s.cache.cookPreview = preview
			out = preview
		}, nil
	})
	return out
}

// CookConfirm cooks the ingredients.
func (s *Store) CookConfirm(ctx context.Context, ingredientNames []string) {
	args := map[string]any{"ingredients": ingredientNames}
	s.run(ctx, "cook_confirm", args, func(ctx context.Context, id string) (applyFunc, error) {
		resp, err := s.remote.CookConfirm(ctx, id, ingredientNames)
		if err != nil {
			return nil, err
		}
		return func(s *Store) {
			st, dish := resp.State, resp.Dish
			s.setStateLocked(&st)
			s.cache.cookedDish = &dish
			s.cache.evaluationComment = resp.EvaluationComment
			s.cache.cookPreview = nil
			s.cache.autoConsume = resp.AutoConsume
		}, nil
	})
}

// EatCafeteria eats at the company cafeteria.
func (s *Store) EatCafeteria(ctx context.Context) {
	s.run(ctx, "eat_cafeteria", nil, stateOnly(s.remote.EatCafeteria))
}

// EatDelivery orders a delivered meal.
func (s *Store) EatDelivery(ctx context.Context) {
	s.run(ctx, "eat_delivery", nil, stateOnly(s.remote.EatDelivery))
}

// MakeBento packs a bento from the ingredients.
func (s *Store) MakeBento(ctx context.Context, ingredientNames []string) {
	args := map[string]any{"ingredients": ingredientNames}
	s.run(ctx, "make_bento", args, func(ctx context.Context, id string) (applyFunc, error) {
		resp, err := s.remote.MakeBento(ctx, id, ingredientNames)
		if err != nil {
			return nil, err
		}
		return func(s *Store) {
			st := resp.State
			s.setStateLocked(&st)
			s.cache.bentoName = resp.BentoName
			s.cache.autoConsume = resp.AutoConsume
		}, nil
	})
}

// EatProvision eats the named provisions.
func (s *Store) EatProvision(ctx context.Context, provisionNames []string) {
	args := map[string]any{"provisions": provisionNames}
	s.run(ctx, "eat_provision", args, stateOnly(func(ctx context.Context, id string) (*wire.GameState, error) {
		return s.remote.EatProvision(ctx, id, provisionNames)
	}))
}

// EatPrepared eats the prepared dish at index.
func (s *Store) EatPrepared(ctx context.Context, index int) {
	s.run(ctx, "eat_prepared", map[string]any{"index": index}, stateOnly(func(ctx context.Context, id string) (*wire.GameState, error) {
		return s.remote.EatPrepared(ctx, id, index)
	}))
}

// AdvancePhase moves the session forward. Every advance-produced cache is
// replaced, so values the response omits become empty rather than stale.
func (s *Store) AdvancePhase(ctx context.Context) {
	s.run(ctx, "advance_phase", nil, func(ctx context.Context, id string) (applyFunc, error) {
		resp, err := s.remote.AdvancePhase(ctx, id)
		if err != nil {
			return nil, err
		}
		return func(s *Store) {
			st := resp.State
			s.setStateLocked(&st)
			s.cache.events = resp.Events
			if s.cache.events == nil {
				s.cache.events = []wire.Event{}
			}
			s.cache.deliveries = resp.Deliveries
			if s.cache.deliveries == nil {
				s.cache.deliveries = []wire.PendingDelivery{}
			}
			s.cache.salary = resp.SalaryInfo
			s.cache.bonus = resp.BonusInfo
			s.cache.encouragement = resp.EncouragementMessage
			s.cache.bossResult = resp.BossResult
		}, nil
	})
}

// HolidayAction performs a holiday activity such as "rest" or "outing".
func (s *Store) HolidayAction(ctx context.Context, action string) {
	s.run(ctx, "holiday_action", map[string]any{"action": action}, stateOnly(func(ctx context.Context, id string) (*wire.GameState, error) {
		return s.remote.HolidayAction(ctx, id, action)
	}))
}

// MarkBossPreviewShown acknowledges the weekly boss preview.
func (s *Store) MarkBossPreviewShown(ctx context.Context) {
	s.run(ctx, "mark_boss_preview_shown", nil, stateOnly(s.remote.MarkBossPreviewShown))
}
