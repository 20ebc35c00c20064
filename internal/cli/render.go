package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dechi99991/cooking-sim/internal/session"
	"github.com/dechi99991/cooking-sim/internal/wire"
)

// writeStatus prints a one-line summary of the session.
func writeStatus(w io.Writer, v session.View) {
	st := v.State
	if st == nil {
		fmt.Fprintln(w, "No active session. Use start_game to begin.")
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Day %d (%s) %s", st.Day, st.WeekdayName, st.PhaseDisplay)
	if st.IsHoliday {
		b.WriteString(" [holiday]")
	}
	p := st.Player
	fmt.Fprintf(&b, " | money %d | energy %d/%d | stamina %d/%d | fullness %d",
		p.Money, p.Energy, p.MaxEnergy, p.Stamina, p.MaxStamina, p.Fullness)
	if p.CardDebt > 0 {
		fmt.Fprintf(&b, " | card debt %d", p.CardDebt)
	}
	fmt.Fprintln(w, b.String())

	switch {
	case st.IsGameOver:
		reason := "game over"
		if st.GameOverReason != nil {
			reason = *st.GameOverReason
		}
		fmt.Fprintf(w, "GAME OVER: %s\n", reason)
	case st.IsGameClear:
		fmt.Fprintln(w, "GAME CLEAR")
	}
}

// writeStock prints stock grouped by category, then provisions and
// prepared dishes.
func writeStock(w io.Writer, v session.View) {
	if v.State == nil {
		fmt.Fprintln(w, "No active session.")
		return
	}
	if len(v.StockGroups) == 0 && len(v.State.Provisions) == 0 && len(v.State.Prepared) == 0 {
		fmt.Fprintln(w, "Nothing in stock.")
		return
	}

	for _, g := range v.StockGroups {
		fmt.Fprintf(w, "%s:\n", g.Category)
		t := &table{indent: "  "}
		for _, it := range g.Items {
			t.add(it.Name, "x"+strconv.Itoa(it.Quantity), expiryLabel(it))
		}
		t.write(w)
	}
	if len(v.State.Provisions) > 0 {
		fmt.Fprintln(w, "provisions:")
		t := &table{indent: "  "}
		for _, it := range v.State.Provisions {
			t.add(it.Name, "x"+strconv.Itoa(it.Quantity))
		}
		t.write(w)
	}
	if len(v.State.Prepared) > 0 {
		fmt.Fprintln(w, "prepared:")
		t := &table{indent: "  "}
		for i, it := range v.State.Prepared {
			t.add(strconv.Itoa(i), it.Name, it.DishType, fmt.Sprintf("until day %d", it.ExpiryDay))
		}
		t.write(w)
	}
}

func expiryLabel(it wire.StockItem) string {
	if it.IsExpired {
		return "expired"
	}
	return fmt.Sprintf("%d days left", it.DaysRemaining)
}

// writeOutcome prints what an action produced beyond the new state.
func writeOutcome(w io.Writer, action string, v session.View) {
	switch action {
	case "fetch_characters":
		writeCharacters(w, v.Characters)
	case "fetch_shop":
		if v.Shop != nil {
			t := &table{indent: "  "}
			for _, it := range v.Shop.Items {
				sale := ""
				if it.IsSale {
					sale = "sale"
				}
				t.add(it.Name, it.Category, strconv.Itoa(it.Price), "x"+strconv.Itoa(it.Quantity), sale)
			}
			t.write(w)
		}
	case "fetch_online_shop":
		if v.OnlineShop != nil {
			t := &table{indent: "  "}
			for _, it := range v.OnlineShop.Provisions {
				t.add("provision", it.Name, strconv.Itoa(it.Price))
			}
			for _, it := range v.OnlineShop.Relics {
				state := ""
				switch {
				case it.IsOwned:
					state = "owned"
				case it.IsPending:
					state = "pending"
				}
				t.add("relic", it.Name, strconv.Itoa(it.Price), state)
			}
			t.write(w)
		}
	case "fetch_recipes":
		for _, r := range v.Recipes {
			mark := " "
			if r.CanMake {
				mark = "*"
			}
			fmt.Fprintf(w, "  %s %s: %s\n", mark, r.Name, strings.Join(r.RequiredIngredients, ", "))
		}
	case "cook_preview":
		if p := v.LastCookPreview; p != nil {
			fmt.Fprintf(w, "preview: %s (fullness %d)\n", p.DishName, p.Fullness)
			if p.EvaluationComment != "" {
				fmt.Fprintf(w, "  %s\n", p.EvaluationComment)
			}
		}
	case "cook_confirm":
		if d := v.LastCookedDish; d != nil {
			fmt.Fprintf(w, "cooked: %s\n", d.Name)
			if v.LastEvaluationComment != "" {
				fmt.Fprintf(w, "  %s\n", v.LastEvaluationComment)
			}
		}
	case "make_bento":
		if v.LastBentoName != "" {
			fmt.Fprintf(w, "bento: %s\n", v.LastBentoName)
		}
	case "advance_phase":
		writeAdvance(w, v)
	}

	switch action {
	case "go_shopping", "cook_confirm", "make_bento":
		if ac := v.LastAutoConsume; ac != nil {
			fmt.Fprintf(w, "auto-consumed %s (+%d energy)\n", ac.ConsumedName, ac.EnergyRestored)
		}
	}
}

func writeAdvance(w io.Writer, v session.View) {
	for _, ev := range v.LastEvents {
		fmt.Fprintf(w, "event: %s\n", ev.Name)
		if ev.Description != "" {
			fmt.Fprintf(w, "  %s\n", ev.Description)
		}
	}
	for _, d := range v.LastDeliveries {
		fmt.Fprintf(w, "delivered: %s x%d\n", d.Name, d.Quantity)
	}
	if s := v.LastSalaryInfo; s != nil {
		fmt.Fprintf(w, "payday: %d gross, %d rent, %d net\n", s.Gross, s.Rent, s.Net)
	}
	if b := v.LastBonusInfo; b != nil {
		fmt.Fprintf(w, "bonus: %d\n", b.Amount)
	}
	if m := v.LastEncouragementMessage; m != nil && *m != "" {
		fmt.Fprintln(w, *m)
	}
	if r := v.LastBossResult; r != nil {
		verdict := "failed"
		if r.Success {
			verdict = "cleared"
		}
		fmt.Fprintf(w, "boss %s %s: %s\n", r.BossName, verdict, r.Message)
	}
}
