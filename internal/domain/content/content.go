package content

import (
	"errors"
	"time"
)

// TopCount is the fixed number of leaderboard entries. Index 0..2 is bound
// to rank Winner/Silver/Bronze.
const TopCount = 3

// Rank constants for leaderboard entries.
const (
	RankWinner = "Winner"
	RankSilver = "Silver"
	RankBronze = "Bronze"
)

// Ranks maps a tops index to its fixed rank.
var Ranks = [TopCount]string{RankWinner, RankSilver, RankBronze}

// Domain errors
var (
	ErrCorruptDocument = errors.New("stored content document is missing or corrupt")
	ErrInvalidTops     = errors.New("tops must contain exactly 3 entries")
	ErrInvalidIndex    = errors.New("top index must be between 0 and 2")
)

// Hero is the landing banner section.
type Hero struct {
	Title    string   `json:"title"`
	Subtitle string   `json:"subtitle"`
	Bullets  []string `json:"bullets"`
}

// Service is one offered service card.
type Service struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// PricingTier is one pricing card.
type PricingTier struct {
	Name      string `json:"name"`
	PriceText string `json:"priceText"`
	Badge     string `json:"badge,omitempty"`
	Featured  bool   `json:"featured,omitempty"`
}

// TopEntry is one leaderboard record. Rank is derived from position, never
// from client input.
type TopEntry struct {
	Rank  string `json:"rank"`
	Name  string `json:"name"`
	Route string `json:"route"`
	Km    string `json:"km"`
	Image string `json:"image"`
	Video string `json:"video"`
}

// Contact holds the site's contact details section.
type Contact struct {
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Location string `json:"location"`
}

// Footer holds the footer section.
type Footer struct {
	BrandText string `json:"brandText"`
}

// Document is the single editable content record for the whole site.
// It is read and replaced wholesale; UpdatedAt is set server-side on every
// successful write.
type Document struct {
	Hero      Hero          `json:"hero"`
	Services  []Service     `json:"services"`
	Process   []string      `json:"process"`
	Pricing   []PricingTier `json:"pricing"`
	Tops      []TopEntry    `json:"tops"`
	Contact   Contact       `json:"contact"`
	Footer    Footer        `json:"footer"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// Validate checks the Document's structural invariants.
// PRE: Document struct is populated
// POST: Returns nil if valid, error otherwise
func (d *Document) Validate() error {
	if len(d.Tops) != TopCount {
		return ErrInvalidTops
	}
	for i, top := range d.Tops {
		if top.Rank != Ranks[i] {
			return errors.New("top entry rank does not match its position")
		}
	}
	return nil
}

// ValidateTopIndex checks that index addresses one of the fixed leaderboard slots.
// POST: Returns nil if 0 <= index < TopCount, ErrInvalidIndex otherwise
func ValidateTopIndex(index int) error {
	if index < 0 || index >= TopCount {
		return ErrInvalidIndex
	}
	return nil
}

// SetTopImage points the leaderboard entry at index to a stored image path.
// PRE: index has been validated via ValidateTopIndex
// POST: Tops[index].Image is set, rank re-pinned, UpdatedAt refreshed
func (d *Document) SetTopImage(index int, path string, now time.Time) error {
	if err := ValidateTopIndex(index); err != nil {
		return err
	}
	d.Tops[index].Image = path
	d.Tops[index].Rank = Ranks[index]
	d.UpdatedAt = now
	return nil
}

// DefaultDocument returns the content seeded at first boot.
func DefaultDocument(now time.Time) Document {
	return Document{
		Hero: Hero{
			Title:    "JTS Logistics INC",
			Subtitle: "Truck Dispatch Service that keeps you moving & profitable",
			Bullets: []string{
				"Top load sourcing & rate negotiation",
				"Carrier packets, BOL & invoicing handled",
				"No long-term contracts",
			},
		},
		Services: []Service{
			{Title: "Load Hunting & Dispatch", Text: "We find and negotiate the best loads."},
			{Title: "Paperwork & Compliance", Text: "Packets, COI, BOL/POD, invoicing."},
			{Title: "Dedicated Support 24/7", Text: "Pickups, deliveries, lumper & updates."},
		},
		Process: []string{
			"Tell us your lanes",
			"We source loads",
			"You approve, we dispatch",
			"Deliver & get paid",
		},
		Pricing: []PricingTier{
			{Name: "Owner-Operator", PriceText: "7% per load"},
			{Name: "Small Fleet (2–10)", PriceText: "6% per load", Badge: "Most Popular", Featured: true},
			{Name: "Custom", PriceText: "Flat monthly"},
		},
		Tops: []TopEntry{
			{Rank: RankWinner, Name: "—", Route: "Route A → B", Km: "0"},
			{Rank: RankSilver, Name: "—", Route: "Route A → B", Km: "0"},
			{Rank: RankBronze, Name: "—", Route: "Route A → B", Km: "0"},
		},
		Contact: Contact{
			Phone:    "+1 (555) 123-4567",
			Email:    "dispatch@jtslogistics.com",
			Location: "Nationwide",
		},
		Footer:    Footer{BrandText: "JTS Logistics INC"},
		UpdatedAt: now,
	}
}
