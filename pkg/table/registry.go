package table

import (
	"sort"
	"sync"
	"time"

	"blackjack-server/internal/rng"
	"blackjack-server/pkg/blackjack"

	"github.com/sirupsen/logrus"
	"github.com/thoas/go-funk"
	"github.com/weedbox/timebank"
)

// DefaultIdleExpiry is how long an empty table's metadata survives before
// the registry deletes it
const DefaultIdleExpiry = time.Minute * 5

const codeChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
const codeLength = 6

// Info is the registry's descriptor for a table. It never carries player
// identities.
type Info struct {
	ID              string    `json:"id"`
	TypeKey         string    `json:"type"`
	Config          Type      `json:"config"`
	CreatedAt       time.Time `json:"createdAt"`
	Private         bool      `json:"isPrivate"`
	PlayerCount     int       `json:"playerCount"`
	RoundInProgress bool      `json:"roundInProgress"`
}

// Listing is a public table entry: occupancy and betting limits only
type Listing struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Type            string `json:"type"`
	PlayerCount     int    `json:"playerCount"`
	MaxPlayers      int    `json:"maxPlayers"`
	MinBet          int    `json:"minBet"`
	MaxBet          int    `json:"maxBet"`
	RoundInProgress bool   `json:"roundInProgress"`
}

// Registry creates, lists, and expires table metadata.
// Live sessions are owned elsewhere; the registry only tracks descriptors,
// so a table id can outlive its session by the idle-expiry grace period and
// be rejoined.
type Registry struct {
	mu sync.Mutex

	types      map[string]Type
	defaultKey string
	rules      blackjack.Rules
	tables     map[string]*Info
	expiry     map[string]*timebank.TimeBank
	idleExpiry time.Duration
	random     rng.Generator
	logger     logrus.FieldLogger
}

// NewRegistry returns a registry over the given closed set of table types.
// The first type is the fallback for unknown keys.
func NewRegistry(types []Type, rules blackjack.Rules, logger logrus.FieldLogger) *Registry {
	byKey := make(map[string]Type, len(types))
	for _, t := range types {
		byKey[t.Key] = t
	}

	return &Registry{
		types:      byKey,
		defaultKey: types[0].Key,
		rules:      rules,
		tables:     make(map[string]*Info),
		expiry:     make(map[string]*timebank.TimeBank),
		idleExpiry: DefaultIdleExpiry,
		random:     rng.Crypto{},
		logger:     logger,
	}
}

// SetIdleExpiry overrides the empty-table grace period
func (r *Registry) SetIdleExpiry(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.idleExpiry = d
}

// Rules returns the ruleset every table in this registry plays
func (r *Registry) Rules() blackjack.Rules {
	return r.rules
}

// Types returns the configured table types, sorted by minimum bet
func (r *Registry) Types() []Type {
	r.mu.Lock()
	defer r.mu.Unlock()

	types := funk.Map(r.types, func(_ string, t Type) Type { return t }).([]Type)
	sort.Slice(types, func(i, j int) bool { return types[i].MinBet < types[j].MinBet })

	return types
}

// Create allocates a table descriptor. A custom id marks the table private,
// keeping it out of public listings; unknown type keys fall back to the
// default type.
func (r *Registry) Create(typeKey, customID string) *Info {
	r.mu.Lock()
	defer r.mu.Unlock()

	typ, ok := r.types[typeKey]
	if !ok {
		typeKey = r.defaultKey
		typ = r.types[typeKey]
	}

	id := customID
	if id == "" {
		id = r.newCode()
	}

	info := &Info{
		ID:        id,
		TypeKey:   typeKey,
		Config:    typ,
		CreatedAt: time.Now(),
		Private:   customID != "",
	}

	r.tables[id] = info
	r.logger.WithFields(logrus.Fields{
		"table":   id,
		"type":    typeKey,
		"private": info.Private,
	}).Info("table created")

	return info
}

// Get returns the descriptor for a table id
func (r *Registry) Get(id string) (*Info, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	info, ok := r.tables[id]
	return info, ok
}

// GetOrCreate returns the descriptor for the id, creating a private
// default-type table when the id is unknown
func (r *Registry) GetOrCreate(id string) *Info {
	r.mu.Lock()
	info, ok := r.tables[id]
	r.mu.Unlock()

	if ok {
		return info
	}

	return r.Create(r.defaultKey, id)
}

// List returns the public tables that still have a free seat
func (r *Registry) List() []*Listing {
	r.mu.Lock()
	defer r.mu.Unlock()

	open := funk.Filter(funk.Values(r.tables), func(info *Info) bool {
		return !info.Private && info.PlayerCount < info.Config.MaxPlayers
	}).([]*Info)

	listings := funk.Map(open, func(info *Info) *Listing {
		return &Listing{
			ID:              info.ID,
			Name:            info.Config.Name,
			Type:            info.TypeKey,
			PlayerCount:     info.PlayerCount,
			MaxPlayers:      info.Config.MaxPlayers,
			MinBet:          info.Config.MinBet,
			MaxBet:          info.Config.MaxBet,
			RoundInProgress: info.RoundInProgress,
		}
	}).([]*Listing)

	sort.Slice(listings, func(i, j int) bool { return listings[i].ID < listings[j].ID })

	return listings
}

// CanJoin checks capacity and the buy-in floor. The two failures are
// distinct errors so callers can tell them apart.
func (r *Registry) CanJoin(id string, bankroll int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	info, ok := r.tables[id]
	if !ok {
		return ErrTableNotFound
	}

	if info.PlayerCount >= info.Config.MaxPlayers {
		return ErrTableFull
	}

	if bankroll > 0 && bankroll < info.Config.BuyInMin {
		return ErrBuyInTooLow
	}

	return nil
}

// SetPlayerCount updates a table's occupancy. Reaching zero starts the
// idle-expiry countdown; any occupancy cancels a pending one.
func (r *Registry) SetPlayerCount(id string, count int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	info, ok := r.tables[id]
	if !ok {
		return
	}

	info.PlayerCount = count

	tb, ok := r.expiry[id]
	if !ok {
		tb = timebank.NewTimeBank()
		r.expiry[id] = tb
	}

	tb.Cancel()

	if count > 0 {
		return
	}

	_ = tb.NewTask(r.idleExpiry, func(isCancelled bool) {
		if isCancelled {
			return
		}

		r.mu.Lock()
		defer r.mu.Unlock()

		if info, ok := r.tables[id]; ok && info.PlayerCount == 0 {
			delete(r.tables, id)
			delete(r.expiry, id)
			r.logger.WithField("table", id).Info("idle table expired")
		}
	})
}

// SetRoundInProgress flags whether the table is mid-round, for listings
func (r *Registry) SetRoundInProgress(id string, inProgress bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if info, ok := r.tables[id]; ok {
		info.RoundInProgress = inProgress
	}
}

// Delete removes a table descriptor immediately
func (r *Registry) Delete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if tb, ok := r.expiry[id]; ok {
		tb.Cancel()
		delete(r.expiry, id)
	}

	_, ok := r.tables[id]
	delete(r.tables, id)

	return ok
}

// Count returns the number of registered tables
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tables)
}

// newCode generates a join code for a public table. Lock must be held.
func (r *Registry) newCode() string {
	for {
		code := make([]byte, codeLength)
		for i := range code {
			code[i] = codeChars[r.random.Intn(len(codeChars))]
		}

		if _, exists := r.tables[string(code)]; !exists {
			return string(code)
		}
	}
}
