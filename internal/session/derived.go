package session

import "github.com/dechi99991/cooking-sim/internal/wire"

// StockGroup is one category of stock items.
type StockGroup struct {
	Category string           `json:"category"`
	Items    []wire.StockItem `json:"items"`
}

// GroupStock groups items by category. Groups appear in order of first
// appearance and items keep their order within a group. Categories are not
// validated; an unknown category is just another group.
func GroupStock(items []wire.StockItem) []StockGroup {
	groups := []StockGroup{}
	index := make(map[string]int)
	for _, item := range items {
		i, ok := index[item.Category]
		if !ok {
			i = len(groups)
			index[item.Category] = i
			groups = append(groups, StockGroup{Category: item.Category})
		}
		groups[i].Items = append(groups[i].Items, item)
	}
	return groups
}

// IsPlaying reports whether a session is active.
func (s *Store) IsPlaying() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isPlayingLocked()
}

func (s *Store) isPlayingLocked() bool {
	return s.sessionID != "" && s.state != nil
}

// IsGameOver reports whether the active session has been lost.
func (s *Store) IsGameOver() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state != nil && s.state.IsGameOver
}

// IsGameClear reports whether the active session has been won.
func (s *Store) IsGameClear() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state != nil && s.state.IsGameClear
}

// CurrentPhase returns the phase identifier, or "" without a session.
func (s *Store) CurrentPhase() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		return ""
	}
	return s.state.Phase
}

// PhaseDisplay returns the human-readable phase label.
func (s *Store) PhaseDisplay() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		return ""
	}
	return s.state.PhaseDisplay
}

// IsHoliday reports whether today is a holiday.
func (s *Store) IsHoliday() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state != nil && s.state.IsHoliday
}

// StockByCategory maps each category to its stock items in snapshot order.
// It is empty without a session.
func (s *Store) StockByCategory() map[string][]wire.StockItem {
	out := make(map[string][]wire.StockItem)
	for _, g := range s.StockGroups() {
		out[g.Category] = g.Items
	}
	return out
}

// StockGroups is StockByCategory in render order.
func (s *Store) StockGroups() []StockGroup {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		return []StockGroup{}
	}
	return GroupStock(s.state.Stock)
}
