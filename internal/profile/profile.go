// Package profile tracks the player identity, subscription tier and credit
// balance that the arcade games draw wagers from.
package profile

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Tier is the player's subscription level.
type Tier string

const (
	TierFree       Tier = "free"
	TierPro        Tier = "pro"
	TierEnterprise Tier = "enterprise"
)

// tierSpec holds the perks each tier grants.
type tierSpec struct {
	name     string
	credits  int64
	maxWager int64
	support  string
}

var tiers = map[Tier]tierSpec{
	TierFree:       {name: "Free", credits: 1000, maxWager: 60, support: "Basic"},
	TierPro:        {name: "Pro", credits: 100000, maxWager: 600, support: "Priority"},
	TierEnterprise: {name: "Enterprise", credits: 10000000, maxWager: 5000, support: "Dedicated"},
}

// Tiers lists the known tiers from cheapest to richest.
func Tiers() []Tier {
	return []Tier{TierFree, TierPro, TierEnterprise}
}

// ParseTier maps user input to a tier.
func ParseTier(raw string) (Tier, error) {
	t := Tier(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := tiers[t]; !ok {
		return "", fmt.Errorf("profile: unknown tier %q", raw)
	}
	return t, nil
}

// Name returns the display name of the tier.
func (t Tier) Name() string { return tiers[t].name }

// StartingCredits returns the balance a fresh profile of this tier opens with.
func (t Tier) StartingCredits() int64 { return tiers[t].credits }

// MaxWager caps a single bet for this tier.
func (t Tier) MaxWager() int64 { return tiers[t].maxWager }

// Support returns the support level the tier is entitled to.
func (t Tier) Support() string { return tiers[t].support }

func (t Tier) valid() bool {
	_, ok := tiers[t]
	return ok
}

// Profile is one player's identity and balance.
type Profile struct {
	ID      string
	Name    string
	Tier    Tier
	credits int64
}

// New creates a profile with the tier's starting credits.
func New(name string, tier Tier) (*Profile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("profile: name is required")
	}
	if !tier.valid() {
		return nil, fmt.Errorf("profile: unknown tier %q", tier)
	}
	return &Profile{
		ID:      uuid.NewString(),
		Name:    name,
		Tier:    tier,
		credits: tier.StartingCredits(),
	}, nil
}

// Restore rebuilds a profile loaded from the score store.
func Restore(id, name string, tier Tier, credits int64) (*Profile, error) {
	if id == "" {
		return nil, fmt.Errorf("profile: id is required")
	}
	p, err := New(name, tier)
	if err != nil {
		return nil, err
	}
	if credits < 0 {
		return nil, fmt.Errorf("profile: credits cannot be negative")
	}
	p.ID = id
	p.credits = credits
	return p, nil
}

// Credits returns the current balance.
func (p *Profile) Credits() int64 { return p.credits }

// CanWager reports whether the amount is a legal bet for this profile.
func (p *Profile) CanWager(amount int64) bool {
	return amount > 0 && amount <= p.Tier.MaxWager() && amount <= p.credits
}

// Spend deducts amount from the balance.
func (p *Profile) Spend(amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("profile: spend amount must be positive")
	}
	if amount > p.credits {
		return fmt.Errorf("profile: %d credits available, %d requested", p.credits, amount)
	}
	p.credits -= amount
	return nil
}

// Award adds amount to the balance.
func (p *Profile) Award(amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("profile: award amount must be positive")
	}
	p.credits += amount
	return nil
}

// Settle applies a signed payout from a wagering game. A negative payout
// larger than the balance clamps the balance to zero.
func (p *Profile) Settle(payout int64) {
	p.credits += payout
	if p.credits < 0 {
		p.credits = 0
	}
}
