package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/dechi99991/cooking-sim/internal/wire"
)

// ErrSessionActive is recorded when StartGame is called while a session is
// already active. Reset the store first.
var ErrSessionActive = errors.New("a session is already active; reset before starting a new one")

// errNoSessionID is recorded when the authority accepts a start request but
// returns no session handle.
var errNoSessionID = errors.New("start game: authority returned no session id")

// Remote is the authority the Store talks to. *api.Client satisfies it.
type Remote interface {
	ListCharacters(ctx context.Context) ([]wire.Character, error)
	StartGame(ctx context.Context, characterID string) (*wire.StartGameResponse, error)
	GetState(ctx context.Context, sessionID string) (*wire.GameState, error)
	GoShopping(ctx context.Context, sessionID string) (*wire.GoShoppingResponse, error)
	GetShop(ctx context.Context, sessionID string, distant bool) (*wire.ShopListing, error)
	BuyFromShop(ctx context.Context, sessionID string, lines []wire.PurchaseLine, distant bool) (*wire.GameState, error)
	GetOnlineShop(ctx context.Context, sessionID string) (*wire.OnlineShopListing, error)
	BuyFromOnlineShop(ctx context.Context, sessionID string, itemType wire.OnlineItemType, itemName string, quantity int) (*wire.GameState, error)
	GetRecipes(ctx context.Context, sessionID string) ([]wire.NamedRecipe, error)
	CookPreview(ctx context.Context, sessionID string, req wire.CookPreviewRequest) (*wire.CookPreview, error)
	CookConfirm(ctx context.Context, sessionID string, ingredientNames []string) (*wire.CookResponse, error)
	EatCafeteria(ctx context.Context, sessionID string) (*wire.GameState, error)
	EatDelivery(ctx context.Context, sessionID string) (*wire.GameState, error)
	MakeBento(ctx context.Context, sessionID string, ingredientNames []string) (*wire.BentoResponse, error)
	EatProvision(ctx context.Context, sessionID string, provisionNames []string) (*wire.GameState, error)
	EatPrepared(ctx context.Context, sessionID string, index int) (*wire.GameState, error)
	AdvancePhase(ctx context.Context, sessionID string) (*wire.AdvancePhaseResponse, error)
	HolidayAction(ctx context.Context, sessionID string, action string) (*wire.GameState, error)
	MarkBossPreviewShown(ctx context.Context, sessionID string) (*wire.GameState, error)
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithJournal attaches a Recorder that observes every remote action.
func WithJournal(r Recorder) Option {
	return func(s *Store) {
		if r != nil {
			s.recorder = r
		}
	}
}

// Catalog is a listing fetched from the authority, stamped with the state
// revision that was current when it arrived.
type Catalog[T any] struct {
	Data     T
	Revision uint64
	fetched  bool
}

// Fetched reports whether the catalog holds a listing.
func (c Catalog[T]) Fetched() bool { return c.fetched }

// stale reports whether a state-mutating action has run since the fetch.
func (c Catalog[T]) stale(current uint64) bool {
	return c.fetched && c.Revision != current
}

// caches holds the transient results of the most recent actions.
type caches struct {
	cookedDish        *wire.Dish
	evaluationComment string
	cookPreview       *wire.CookPreview
	bentoName         string
	events            []wire.Event
	deliveries        []wire.PendingDelivery
	salary            *wire.SalaryInfo
	bonus             *wire.BonusInfo
	encouragement     *string
	bossResult        *wire.BossResult
	autoConsume       *wire.AutoConsume
}

func emptyCaches() caches {
	return caches{
		events:     []wire.Event{},
		deliveries: []wire.PendingDelivery{},
	}
}

// Store holds the single active session. The zero value is not usable; call New.
type Store struct {
	remote   Remote
	logger   *slog.Logger
	recorder Recorder

	mu         sync.Mutex
	sessionID  string
	state      *wire.GameState
	generation uint64 // bumped whenever the session is replaced or reset
	revision   uint64 // bumped by every successful state-mutating action
	characters []wire.Character
	busy       bool
	err        string
	cache      caches
	shop       Catalog[*wire.ShopListing]
	onlineShop Catalog[*wire.OnlineShopListing]
	recipes    Catalog[[]wire.NamedRecipe]
}

// New creates an empty Store with no active session.
func New(remote Remote, opts ...Option) *Store {
	s := &Store{
		remote:     remote,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		recorder:   nopRecorder{},
		characters: []wire.Character{},
		cache:      emptyCaches(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Reset drops the session, its snapshot, every cache and every catalog, and
// clears the error slot. It always succeeds. The busy flag is left alone so
// an in-flight action still clears it when its (discarded) response lands.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sessionID != "" {
		s.logger.Debug("session reset", "session_id", s.sessionID)
	}
	s.generation++
	s.sessionID = ""
	s.state = nil
	s.err = ""
	s.clearSessionDataLocked()
}

func (s *Store) clearSessionDataLocked() {
	s.cache = emptyCaches()
	s.shop = Catalog[*wire.ShopListing]{}
	s.onlineShop = Catalog[*wire.OnlineShopListing]{}
	s.recipes = Catalog[[]wire.NamedRecipe]{}
}

// SessionID returns the active session handle, or "" when there is none.
func (s *Store) SessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionID
}

// State returns the latest snapshot, or nil when there is no session.
// The returned value is shared and must not be modified.
func (s *Store) State() *wire.GameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Busy reports whether an action is in flight.
func (s *Store) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// Err returns the message of the most recent failed action, or "".
func (s *Store) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Characters returns the last fetched character list.
func (s *Store) Characters() []wire.Character {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.characters
}
