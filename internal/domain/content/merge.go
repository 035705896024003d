package content

import (
	"fmt"
	"time"

	"dispatchsite/internal/domain/account"
)

// Update is a partial Document: a nil section means "not supplied, keep the
// stored value". A supplied section replaces the stored one wholesale — there
// is no deep field-level merge inside a section.
//
// UpdatedAt is accepted so a client echoing back a full document still
// decodes, but it is never applied: the merged document always gets the
// server clock.
type Update struct {
	Hero      *Hero          `json:"hero"`
	Services  *[]Service     `json:"services"`
	Process   *[]string      `json:"process"`
	Pricing   *[]PricingTier `json:"pricing"`
	Tops      *[]TopEntry    `json:"tops"`
	Contact   *Contact       `json:"contact"`
	Footer    *Footer        `json:"footer"`
	UpdatedAt *time.Time     `json:"updatedAt"`
}

// ApplyUpdate computes the document to persist from the stored document, an
// incoming partial update, and the caller's role. It is a pure function: no
// I/O, no partial-failure mode; the caller persists the result atomically.
//
// Role scoping is a hard allow-list: admin may replace any top-level section,
// limited may replace only tops. Sections added to Document later are
// therefore admin-only until explicitly opened up.
//
// PRE: existing was loaded by the store (boot seeding guarantees one exists)
// POST: returned document passes Validate; UpdatedAt is now, never client input
// INVARIANT: existing and incoming are not mutated
func ApplyUpdate(existing Document, incoming Update, role string, now time.Time) (Document, error) {
	if err := existing.Validate(); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrCorruptDocument, err)
	}

	next := existing
	switch role {
	case account.RoleAdmin:
		if incoming.Hero != nil {
			next.Hero = *incoming.Hero
		}
		if incoming.Services != nil {
			next.Services = *incoming.Services
		}
		if incoming.Process != nil {
			next.Process = *incoming.Process
		}
		if incoming.Pricing != nil {
			next.Pricing = *incoming.Pricing
		}
		if incoming.Tops != nil {
			next.Tops = *incoming.Tops
		}
		if incoming.Contact != nil {
			next.Contact = *incoming.Contact
		}
		if incoming.Footer != nil {
			next.Footer = *incoming.Footer
		}
	case account.RoleLimited:
		if incoming.Tops != nil {
			next.Tops = *incoming.Tops
		}
	default:
		return Document{}, fmt.Errorf("unknown role %q", role)
	}

	if incoming.Tops != nil {
		if len(next.Tops) != TopCount {
			return Document{}, ErrInvalidTops
		}
		// Ranks are positional; whatever the client sent is overwritten.
		tops := make([]TopEntry, TopCount)
		copy(tops, next.Tops)
		for i := range tops {
			tops[i].Rank = Ranks[i]
		}
		next.Tops = tops
	}

	next.UpdatedAt = now
	return next, nil
}
