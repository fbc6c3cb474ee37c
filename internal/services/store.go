package services

import (
	"festival-ticketing-platform/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StoreSession is the per-buyer store state: the cart plus the two discount
// slots. One session belongs to one buyer; all mutations are sequential
// within an interaction.
type StoreSession struct {
	ID    uuid.UUID            `json:"id"`
	Cart  *models.Cart         `json:"cart"`
	Karma *models.DiscountSlot `json:"karma"`
	Mana  *models.DiscountSlot `json:"mana"`
}

// StoreSummary is the display surface consumed by the UI layer.
type StoreSummary struct {
	Items         []LineItem      `json:"items"`
	TotalTickets  int             `json:"totalTickets"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	KarmaDiscount decimal.Decimal `json:"karmaDiscount"`
	ManaDiscount  decimal.Decimal `json:"manaDiscount"`
}

// StoreService orchestrates cart edits, discount application and summary
// assembly for store sessions.
type StoreService struct {
	pricing *PricingService
}

// NewStoreService creates a store service over a price catalog
func NewStoreService(catalog models.PriceCatalog) *StoreService {
	return &StoreService{pricing: NewPricingService(catalog)}
}

// Pricing exposes the underlying pricing service.
func (s *StoreService) Pricing() *PricingService {
	return s.pricing
}

// NewSession creates an empty buyer session
func (s *StoreService) NewSession() *StoreSession {
	return &StoreSession{
		ID:    uuid.New(),
		Cart:  models.NewCart(),
		Karma: models.NewDiscountSlot(),
		Mana:  models.NewDiscountSlot(),
	}
}

// SetQuantity updates the cart. The pair must exist in the catalog.
// Applied discounts are deliberately left untouched: an applied amount is
// frozen at application time even when the cart changes afterwards.
func (s *StoreService) SetQuantity(sess *StoreSession, event models.EventType, ticket models.TicketType, qty int) error {
	if !s.pricing.Catalog().Has(event, ticket) {
		return models.ErrTicketNotInCatalog
	}
	sess.Cart.SetQuantity(event, ticket, qty)
	return nil
}

// ApplyKarmaDiscount validates a karma grant against the current cart and
// freezes the resulting amount into the karma slot.
func (s *StoreService) ApplyKarmaDiscount(sess *StoreSession, username string, points float64) (decimal.Decimal, error) {
	if sess.Karma.IsApplied() {
		return decimal.Zero, models.ErrDiscountAlreadyApplied
	}
	amount, err := s.pricing.ComputeKarmaDiscount(sess.Cart, username, points)
	if err != nil {
		return decimal.Zero, err
	}
	if err := sess.Karma.Apply(models.AppliedDiscount{
		Kind:     models.DiscountKarma,
		Username: username,
		Points:   points,
		Amount:   amount,
	}); err != nil {
		return decimal.Zero, err
	}
	return amount, nil
}

// ApplyManaDiscount validates a mana grant against the current cart and
// freezes the resulting amount into the mana slot.
func (s *StoreService) ApplyManaDiscount(sess *StoreSession, username string) (decimal.Decimal, error) {
	if sess.Mana.IsApplied() {
		return decimal.Zero, models.ErrDiscountAlreadyApplied
	}
	amount, err := s.pricing.ComputeManaDiscount(sess.Cart, username)
	if err != nil {
		return decimal.Zero, err
	}
	if err := sess.Mana.Apply(models.AppliedDiscount{
		Kind:     models.DiscountMana,
		Username: username,
		Amount:   amount,
	}); err != nil {
		return decimal.Zero, err
	}
	return amount, nil
}

// ClearDiscount empties the slot of the given kind.
func (s *StoreService) ClearDiscount(sess *StoreSession, kind models.DiscountKind) error {
	switch kind {
	case models.DiscountKarma:
		if !sess.Karma.IsApplied() {
			return models.ErrDiscountNotApplied
		}
		sess.Karma.Clear()
	case models.DiscountMana:
		if !sess.Mana.IsApplied() {
			return models.ErrDiscountNotApplied
		}
		sess.Mana.Clear()
	default:
		return models.ValidateDiscountKind(kind)
	}
	return nil
}

// Summary assembles the itemized summary and running totals for a session.
func (s *StoreService) Summary(sess *StoreSession) *StoreSummary {
	karma := sess.Karma.Amount()
	mana := sess.Mana.Amount()

	return &StoreSummary{
		Items:         s.pricing.BuildSummary(sess.Cart, karma, mana),
		TotalTickets:  sess.Cart.TotalQuantity(),
		TotalAmount:   s.pricing.OrderTotal(sess.Cart, karma, mana),
		KarmaDiscount: karma,
		ManaDiscount:  mana,
	}
}
