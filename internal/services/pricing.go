package services

import (
	"math"
	"strings"

	"festival-ticketing-platform/internal/models"

	"github.com/shopspring/decimal"
)

var (
	// karmaPointsPerDollar converts a karma grant to dollars: 100 points = $1.
	karmaPointsPerDollar = decimal.NewFromInt(100)
	// manifestDiscountRate is the mana percentage rule: 10% off manifest tickets.
	manifestDiscountRate = decimal.New(1, -1)
	// flatDiscountPerUnit is the mana flat rule: $55 off per all-access or upgrade unit.
	flatDiscountPerUnit = decimal.NewFromInt(55)
)

// PricingService computes discount amounts and itemized summaries for a cart
// against an immutable price catalog. All computations are pure: the same
// cart and grant inputs always yield the same amounts.
type PricingService struct {
	catalog models.PriceCatalog
}

// NewPricingService creates a pricing service over a catalog
func NewPricingService(catalog models.PriceCatalog) *PricingService {
	return &PricingService{catalog: catalog}
}

// Catalog returns the catalog this service prices against.
func (s *PricingService) Catalog() models.PriceCatalog {
	return s.catalog
}

// ComputeKarmaDiscount converts a karma point grant into a discount amount:
// points/100 dollars, capped by the eligible spend on LessOnline and
// All-Access tickets. A grant against zero eligible spend yields zero
// regardless of points.
func (s *PricingService) ComputeKarmaDiscount(cart *models.Cart, username string, points float64) (decimal.Decimal, error) {
	if strings.TrimSpace(username) == "" {
		return decimal.Zero, models.NewValidationError("a LessWrong username is required")
	}
	if math.IsNaN(points) || math.IsInf(points, 0) || points < 0 {
		return decimal.Zero, models.NewValidationError("karma points must be a non-negative number")
	}

	eligible := cart.EventTotal(s.catalog, models.EventLessOnline).
		Add(cart.EventTotal(s.catalog, models.EventAllAccess))

	amount := decimal.NewFromFloat(points).Div(karmaPointsPerDollar)
	return decimal.Min(amount, eligible), nil
}

// ComputeManaDiscount computes the Manifold mana discount: 10% off every
// manifest ticket except volunteer, plus $55 per all-access unit, plus $55
// per LessOnline upgrade unit. The three sub-rules are independent and the
// sum is not capped by eligible spend.
func (s *PricingService) ComputeManaDiscount(cart *models.Cart, username string) (decimal.Decimal, error) {
	if strings.TrimSpace(username) == "" {
		return decimal.Zero, models.NewValidationError("a Manifold username is required")
	}

	manifest := decimal.Zero
	for _, entry := range cart.EventEntries(models.EventManifest) {
		if entry.TicketType == models.TicketVolunteer {
			continue
		}
		if price, ok := s.catalog.Price(models.EventManifest, entry.TicketType); ok {
			lineTotal := price.Mul(decimal.NewFromInt(int64(entry.Quantity)))
			manifest = manifest.Add(lineTotal.Mul(manifestDiscountRate))
		}
	}

	allAccess := decimal.Zero
	for _, entry := range cart.EventEntries(models.EventAllAccess) {
		if s.catalog.Has(models.EventAllAccess, entry.TicketType) {
			allAccess = allAccess.Add(flatDiscountPerUnit.Mul(decimal.NewFromInt(int64(entry.Quantity))))
		}
	}

	upgrade := decimal.Zero
	if qty := cart.Quantity(models.EventLessOnline, models.TicketUpgrade); qty > 0 {
		upgrade = flatDiscountPerUnit.Mul(decimal.NewFromInt(int64(qty)))
	}

	return manifest.Add(allAccess).Add(upgrade), nil
}

// OrderTotal returns the payable total: original spend minus both applied
// discount amounts, floored at zero.
func (s *PricingService) OrderTotal(cart *models.Cart, karmaDiscount, manaDiscount decimal.Decimal) decimal.Decimal {
	total := cart.TotalOriginalAmount(s.catalog).Sub(karmaDiscount).Sub(manaDiscount)
	if total.IsNegative() {
		return decimal.Zero
	}
	return total
}
