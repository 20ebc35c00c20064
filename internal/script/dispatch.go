package script

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/dechi99991/cooking-sim/internal/session"
	"github.com/dechi99991/cooking-sim/internal/wire"
)

// ErrNoSession is returned by Dispatch for a session-scoped action issued
// while no session is active. The store is not called.
var ErrNoSession = errors.New("no active session")

// sessionFree lists the actions that run without an active session.
var sessionFree = map[string]bool{
	"fetch_characters": true,
	"start_game":       true,
	"reset":            true,
}

type handler func(ctx context.Context, s *session.Store, step Step) error

type purchaseLine struct {
	IngredientName string `yaml:"ingredient_name"`
	Quantity       int    `yaml:"quantity"`
}

type previewArgs struct {
	Ingredients   []string        `yaml:"ingredients"`
	MealNutrition *wire.Nutrition `yaml:"meal_nutrition"`
	MealFullness  int             `yaml:"meal_fullness"`
	DishNumber    int             `yaml:"dish_number"`
}

var handlers = map[string]handler{
	"fetch_characters": func(ctx context.Context, s *session.Store, _ Step) error {
		s.FetchCharacters(ctx)
		return nil
	},
	"start_game": func(ctx context.Context, s *session.Store, step Step) error {
		var args struct {
			CharacterID string `yaml:"character_id"`
		}
		if err := decodeArgs(step, &args); err != nil {
			return err
		}
		s.StartGame(ctx, args.CharacterID)
		return nil
	},
	"refresh_state": func(ctx context.Context, s *session.Store, _ Step) error {
		s.RefreshState(ctx)
		return nil
	},
	"reset": func(_ context.Context, s *session.Store, _ Step) error {
		s.Reset()
		return nil
	},
	"go_shopping": func(ctx context.Context, s *session.Store, _ Step) error {
		s.GoShopping(ctx)
		return nil
	},
	"fetch_shop": func(ctx context.Context, s *session.Store, step Step) error {
		var args struct {
			Distant bool `yaml:"distant"`
		}
		if err := decodeArgs(step, &args); err != nil {
			return err
		}
		s.FetchShop(ctx, args.Distant)
		return nil
	},
	"buy_from_shop": func(ctx context.Context, s *session.Store, step Step) error {
		var args struct {
			Items   []purchaseLine `yaml:"items"`
			Distant bool           `yaml:"distant"`
		}
		if err := decodeArgs(step, &args); err != nil {
			return err
		}
		lines := make([]wire.PurchaseLine, len(args.Items))
		for i, it := range args.Items {
			lines[i] = wire.PurchaseLine{IngredientName: it.IngredientName, Quantity: it.Quantity}
		}
		s.BuyFromShop(ctx, lines, args.Distant)
		return nil
	},
	"fetch_online_shop": func(ctx context.Context, s *session.Store, _ Step) error {
		s.FetchOnlineShop(ctx)
		return nil
	},
	"buy_from_online_shop": func(ctx context.Context, s *session.Store, step Step) error {
		var args struct {
			ItemType string `yaml:"item_type"`
			ItemName string `yaml:"item_name"`
			Quantity int    `yaml:"quantity"`
		}
		if err := decodeArgs(step, &args); err != nil {
			return err
		}
		s.BuyFromOnlineShop(ctx, wire.OnlineItemType(args.ItemType), args.ItemName, args.Quantity)
		return nil
	},
	"fetch_recipes": func(ctx context.Context, s *session.Store, _ Step) error {
		s.FetchRecipes(ctx)
		return nil
	},
	"cook_preview": func(ctx context.Context, s *session.Store, step Step) error {
		var args previewArgs
		if err := decodeArgs(step, &args); err != nil {
			return err
		}
		s.CookPreview(ctx, wire.CookPreviewRequest{
			IngredientNames: args.Ingredients,
			MealNutrition:   args.MealNutrition,
			MealFullness:    args.MealFullness,
			DishNumber:      args.DishNumber,
		})
		return nil
	},
	"cook_confirm": func(ctx context.Context, s *session.Store, step Step) error {
		names, err := nameArgs(step, "ingredients")
		if err != nil {
			return err
		}
		s.CookConfirm(ctx, names)
		return nil
	},
	"eat_cafeteria": func(ctx context.Context, s *session.Store, _ Step) error {
		s.EatCafeteria(ctx)
		return nil
	},
	"eat_delivery": func(ctx context.Context, s *session.Store, _ Step) error {
		s.EatDelivery(ctx)
		return nil
	},
	"make_bento": func(ctx context.Context, s *session.Store, step Step) error {
		names, err := nameArgs(step, "ingredients")
		if err != nil {
			return err
		}
		s.MakeBento(ctx, names)
		return nil
	},
	"eat_provision": func(ctx context.Context, s *session.Store, step Step) error {
		names, err := nameArgs(step, "provisions")
		if err != nil {
			return err
		}
		s.EatProvision(ctx, names)
		return nil
	},
	"eat_prepared": func(ctx context.Context, s *session.Store, step Step) error {
		var args struct {
			Index int `yaml:"index"`
		}
		if err := decodeArgs(step, &args); err != nil {
			return err
		}
		s.EatPrepared(ctx, args.Index)
		return nil
	},
	"advance_phase": func(ctx context.Context, s *session.Store, _ Step) error {
		s.AdvancePhase(ctx)
		return nil
	},
	"holiday_action": func(ctx context.Context, s *session.Store, step Step) error {
		var args struct {
			Action string `yaml:"action"`
		}
		if err := decodeArgs(step, &args); err != nil {
			return err
		}
		s.HolidayAction(ctx, args.Action)
		return nil
	},
	"mark_boss_preview_shown": func(ctx context.Context, s *session.Store, _ Step) error {
		s.MarkBossPreviewShown(ctx)
		return nil
	},
}

// Actions lists every action name Dispatch understands, sorted.
func Actions() []string {
	names := make([]string, 0, len(handlers))
	for name := range handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dispatch runs one step against the store.
//
// The returned error covers the step itself (unknown action, malformed args)
// and ErrNoSession for session-scoped actions without a session. When it is
// nil the action ran, and whether the authority accepted it is read from
// s.Err afterwards, as with any other Store call.
func Dispatch(ctx context.Context, s *session.Store, step Step) error {
	h, ok := handlers[step.Action]
	if !ok {
		return fmt.Errorf("unknown action %q", step.Action)
	}
	if !sessionFree[step.Action] && s.SessionID() == "" {
		return ErrNoSession
	}
	return h(ctx, s, step)
}

// Exec dispatches one step and reports how it finished. The error slot is
// consulted only when the action actually ran, so a step skipped for want
// of a session never inherits an earlier failure.
//
// The returned error is non-nil only for a step that could not be
// dispatched at all (unknown action, malformed args).
func Exec(ctx context.Context, s *session.Store, step Step) (StepResult, error) {
	res := StepResult{Action: step.Action, OK: true}
	err := Dispatch(ctx, s, step)
	switch {
	case errors.Is(err, ErrNoSession):
		res.OK, res.Skipped, res.Error = false, true, err.Error()
		return res, nil
	case err != nil:
		res.OK, res.Error = false, err.Error()
		return res, err
	}
	if msg := s.Err(); msg != "" {
		res.OK, res.Error = false, msg
	}
	return res, nil
}

// decodeArgs converts a step's loosely typed args into out, rejecting
// unknown keys.
func decodeArgs(step Step, out any) error {
	if len(step.Args) == 0 {
		return nil
	}
	data, err := yaml.Marshal(step.Args)
	if err != nil {
		return fmt.Errorf("%s: encode args: %w", step.Action, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("%s: args: %w", step.Action, err)
	}
	return nil
}

func nameArgs(step Step, key string) ([]string, error) {
	var args map[string][]string
	if err := decodeArgs(step, &args); err != nil {
		return nil, err
	}
	for k := range args {
		if k != key {
			return nil, fmt.Errorf("%s: args: unknown field %q", step.Action, k)
		}
	}
	return args[key], nil
}
