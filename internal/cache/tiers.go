package cache

import (
	"context"
	"time"
)

// Tiers holds one Store per logical dataset, each with a TTL chosen by
// volatility: seconds for live scheduling data, minutes for client and
// billing data, tens of minutes for near-static reference data. The
// Negative store is shared by the upstream client and keyed per
// endpoint, so a failure on one endpoint never suppresses another.
type Tiers struct {
	Clients   *Store
	Pets      *Store
	Schedule  *Store
	Reference *Store
	Billing   *Store
	Dashboard *Store
	Negative  *Store
}

// TiersConfig configures each tier's TTL. Zero durations fall back to
// the tier defaults below.
type TiersConfig struct {
	MaxEntries   int
	Disabled     bool
	ClientsTTL   time.Duration
	PetsTTL      time.Duration
	ScheduleTTL  time.Duration
	ReferenceTTL time.Duration
	BillingTTL   time.Duration
	DashboardTTL time.Duration
	NegativeTTL  time.Duration
}

// Tier default TTLs.
const (
	DefaultClientsTTL   = 5 * time.Minute
	DefaultPetsTTL      = 5 * time.Minute
	DefaultScheduleTTL  = 30 * time.Second
	DefaultReferenceTTL = 30 * time.Minute
	DefaultBillingTTL   = 2 * time.Minute
	DefaultDashboardTTL = time.Minute
	DefaultNegativeTTL  = 30 * time.Second
)

// NewTiers creates the per-dataset stores.
func NewTiers(cfg TiersConfig) *Tiers {
	mk := func(ttl, fallback time.Duration) *Store {
		if ttl <= 0 {
			ttl = fallback
		}
		return New(Config{
			MaxEntries:  cfg.MaxEntries,
			DefaultTTL:  ttl,
			NegativeTTL: cfg.NegativeTTL,
			Disabled:    cfg.Disabled,
		})
	}
	return &Tiers{
		Clients:   mk(cfg.ClientsTTL, DefaultClientsTTL),
		Pets:      mk(cfg.PetsTTL, DefaultPetsTTL),
		Schedule:  mk(cfg.ScheduleTTL, DefaultScheduleTTL),
		Reference: mk(cfg.ReferenceTTL, DefaultReferenceTTL),
		Billing:   mk(cfg.BillingTTL, DefaultBillingTTL),
		Dashboard: mk(cfg.DashboardTTL, DefaultDashboardTTL),
		Negative:  mk(cfg.NegativeTTL, DefaultNegativeTTL),
	}
}

// StartJanitors starts the periodic expiry sweep on every tier.
func (t *Tiers) StartJanitors(ctx context.Context, interval time.Duration) {
	for _, s := range t.all() {
		s.StartJanitor(ctx, interval)
	}
}

// Flush empties every tier.
func (t *Tiers) Flush() {
	for _, s := range t.all() {
		s.Flush()
	}
}

// Stats returns per-tier statistics keyed by tier name.
func (t *Tiers) Stats() map[string]Stats {
	out := make(map[string]Stats, 7)
	for name, s := range t.byName() {
		out[name] = s.Stats()
	}
	return out
}

func (t *Tiers) all() []*Store {
	return []*Store{
		t.Clients, t.Pets, t.Schedule, t.Reference,
		t.Billing, t.Dashboard, t.Negative,
	}
}

func (t *Tiers) byName() map[string]*Store {
	return map[string]*Store{
		"clients":   t.Clients,
		"pets":      t.Pets,
		"schedule":  t.Schedule,
		"reference": t.Reference,
		"billing":   t.Billing,
		"dashboard": t.Dashboard,
		"negative":  t.Negative,
	}
}
