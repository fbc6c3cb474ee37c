package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// EventType identifies one of the festival events sold through the store
type EventType string

const (
	EventLessOnline EventType = "lessonline"
	EventManifest   EventType = "manifest"
	EventSummerCamp EventType = "summer_camp"
	EventAllAccess  EventType = "all_access"
)

// EventTypeOrder is the canonical iteration order for events: LessOnline
// first, then the full-festival pass, then the remaining events.
var EventTypeOrder = []EventType{
	EventLessOnline,
	EventAllAccess,
	EventManifest,
	EventSummerCamp,
}

// TicketType identifies a pricing tier within an event
type TicketType string

const (
	TicketStandard            TicketType = "standard"
	TicketEarlyBird           TicketType = "early_bird"
	TicketSupporter           TicketType = "supporter"
	TicketVolunteer           TicketType = "volunteer"
	TicketDayPassFri          TicketType = "day_pass_fri"
	TicketDayPass             TicketType = "day_pass"
	TicketFullAccessEarlyBird TicketType = "full_access_early_bird"
	TicketStudent             TicketType = "student"
	TicketUpgrade             TicketType = "upgrade"
)

// TicketTypeOrder is the canonical iteration order for ticket tiers.
var TicketTypeOrder = []TicketType{
	TicketStandard,
	TicketEarlyBird,
	TicketSupporter,
	TicketVolunteer,
	TicketDayPassFri,
	TicketDayPass,
	TicketFullAccessEarlyBird,
	TicketStudent,
	TicketUpgrade,
}

// ValidateEventType validates an event type
func ValidateEventType(event EventType) error {
	switch event {
	case EventLessOnline, EventManifest, EventSummerCamp, EventAllAccess:
		return nil
	default:
		return fmt.Errorf("invalid event type: %q", event)
	}
}

// ValidateTicketType validates a ticket type
func ValidateTicketType(ticket TicketType) error {
	switch ticket {
	case TicketStandard, TicketEarlyBird, TicketSupporter, TicketVolunteer,
		TicketDayPassFri, TicketDayPass, TicketFullAccessEarlyBird,
		TicketStudent, TicketUpgrade:
		return nil
	default:
		return fmt.Errorf("invalid ticket type: %q", ticket)
	}
}

// PriceCatalog maps (event, ticket) pairs to unit prices. Presence in the
// catalog is the single definition of pair validity: a pair without a price
// is not sellable. The catalog is immutable for the life of a store session.
type PriceCatalog map[EventType]map[TicketType]decimal.Decimal

// Price returns the unit price for a pair and whether the pair exists.
func (c PriceCatalog) Price(event EventType, ticket TicketType) (decimal.Decimal, bool) {
	price, ok := c[event][ticket]
	return price, ok
}

// Has reports whether the pair exists in the catalog.
func (c PriceCatalog) Has(event EventType, ticket TicketType) bool {
	_, ok := c[event][ticket]
	return ok
}

// displayNames maps catalogued pairs to their customer-facing names.
var displayNames = map[EventType]map[TicketType]string{
	EventLessOnline: {
		TicketEarlyBird:  "LessOnline Early Bird",
		TicketStandard:   "LessOnline",
		TicketSupporter:  "LessOnline Supporter",
		TicketVolunteer:  "LessOnline Volunteer",
		TicketDayPassFri: "LessOnline Half Day Pass (Fri)",
		TicketDayPass:    "LessOnline Day Pass",
		TicketUpgrade:    "LessOnline Upgrade",
	},
	EventManifest: {
		TicketEarlyBird:  "Manifest Early Bird",
		TicketStandard:   "Manifest",
		TicketSupporter:  "Manifest Supporter",
		TicketStudent:    "Manifest Student",
		TicketVolunteer:  "Manifest Volunteer",
		TicketDayPassFri: "Manifest Half Day Pass (Fri)",
		TicketDayPass:    "Manifest Day Pass",
	},
	EventSummerCamp: {
		TicketEarlyBird:  "Summer Camp Early Bird",
		TicketStandard:   "Summer Camp",
		TicketSupporter:  "Summer Camp Supporter",
		TicketDayPass:    "Summer Camp Day Pass",
		TicketDayPassFri: "Summer Camp Half Day Pass (Fri)",
	},
	EventAllAccess: {
		TicketEarlyBird: "All-Access Early Bird",
		TicketSupporter: "All-Access Supporter",
	},
}

// DisplayName returns the customer-facing name for a pair, falling back to
// "<event> <ticket>" for pairs without a curated name.
func DisplayName(event EventType, ticket TicketType) string {
	if name, ok := displayNames[event][ticket]; ok {
		return name
	}
	return fmt.Sprintf("%s %s", event, ticket)
}

// DefaultPriceCatalog returns the built-in price table used when no external
// catalog source is available.
func DefaultPriceCatalog() PriceCatalog {
	usd := func(amount int64) decimal.Decimal { return decimal.NewFromInt(amount) }
	return PriceCatalog{
		EventLessOnline: {
			TicketEarlyBird:  usd(200),
			TicketStandard:   usd(250),
			TicketSupporter:  usd(700),
			TicketVolunteer:  usd(100),
			TicketDayPassFri: usd(50),
			TicketDayPass:    usd(100),
			TicketUpgrade:    usd(150),
		},
		EventManifest: {
			TicketEarlyBird: usd(380),
			TicketStandard:  usd(450),
			TicketSupporter: usd(950),
			TicketStudent:   usd(180),
			TicketVolunteer: usd(90),
			TicketDayPass:   usd(180),
		},
		EventSummerCamp: {
			TicketEarlyBird: usd(450),
			TicketStandard:  usd(500),
			TicketDayPass:   usd(140),
		},
		EventAllAccess: {
			TicketEarlyBird: usd(1080),
			TicketSupporter: usd(2200),
		},
	}
}
