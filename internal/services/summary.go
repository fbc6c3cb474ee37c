package services

import (
	"sort"

	"festival-ticketing-platform/internal/models"

	"github.com/shopspring/decimal"
)

// LineItem is one row of the itemized price summary, carrying both the
// original and the discount-attributed effective unit price.
// EffectivePrice is always UnitPrice minus DiscountPerUnit.
type LineItem struct {
	EventType       models.EventType  `json:"eventType"`
	TicketType      models.TicketType `json:"ticketType"`
	DisplayName     string            `json:"displayName"`
	Quantity        int               `json:"quantity"`
	UnitPrice       decimal.Decimal   `json:"unitPrice"`
	EffectivePrice  decimal.Decimal   `json:"effectivePrice"`
	Discounted      bool              `json:"discounted"`
	DiscountPerUnit decimal.Decimal   `json:"discountPerUnit"`
}

// allocItem is a cart entry paired with its unit price for greedy allocation.
type allocItem struct {
	ticketType models.TicketType
	quantity   int
	price      decimal.Decimal
}

// BuildSummary produces the ordered line items for display and payload
// construction. Allocation policy:
//
//  1. A karma amount is consumed greedily across LessOnline items sorted by
//     unit price descending, then across All-Access items the same way while
//     budget remains. Once a karma discount exists, every LessOnline item is
//     rendered through the discount path, including items the exhausted
//     budget reaches with amount zero.
//  2. A mana amount renders manifest items at 10% off (volunteer at full
//     price), then All-Access items not covered by step 1 and the LessOnline
//     upgrade at $55 per unit, each behind a non-strict remaining-budget
//     check that never caps the per-item amount.
//  3. Everything else renders at full price in canonical cart order.
func (s *PricingService) BuildSummary(cart *models.Cart, karmaDiscount, manaDiscount decimal.Decimal) []LineItem {
	var items []LineItem
	remainingKarma := karmaDiscount
	remainingMana := manaDiscount

	if karmaDiscount.IsPositive() {
		for _, item := range s.sortedByPriceDesc(cart, models.EventLessOnline) {
			items = append(items, s.discountedGreedy(models.EventLessOnline, item, &remainingKarma))
		}
		if remainingKarma.IsPositive() {
			for _, item := range s.sortedByPriceDesc(cart, models.EventAllAccess) {
				if !remainingKarma.IsPositive() {
					break
				}
				items = append(items, s.discountedGreedy(models.EventAllAccess, item, &remainingKarma))
			}
		}
	} else {
		for _, entry := range cart.EventEntries(models.EventLessOnline) {
			if price, ok := s.catalog.Price(models.EventLessOnline, entry.TicketType); ok {
				items = append(items, s.plainItem(models.EventLessOnline, entry.TicketType, entry.Quantity, price))
			}
		}
	}

	if manaDiscount.IsPositive() {
		for _, entry := range cart.EventEntries(models.EventManifest) {
			price, ok := s.catalog.Price(models.EventManifest, entry.TicketType)
			if !ok {
				continue
			}
			if entry.TicketType == models.TicketVolunteer {
				items = append(items, s.plainItem(models.EventManifest, entry.TicketType, entry.Quantity, price))
				continue
			}
			perUnit := price.Mul(manifestDiscountRate)
			items = append(items, LineItem{
				EventType:       models.EventManifest,
				TicketType:      entry.TicketType,
				DisplayName:     models.DisplayName(models.EventManifest, entry.TicketType),
				Quantity:        entry.Quantity,
				UnitPrice:       price,
				EffectivePrice:  price.Sub(perUnit),
				Discounted:      true,
				DiscountPerUnit: perUnit,
			})
			remainingMana = remainingMana.Sub(perUnit.Mul(decimal.NewFromInt(int64(entry.Quantity))))
		}

		covered := coveredAllAccess(items)
		for _, entry := range cart.EventEntries(models.EventAllAccess) {
			if covered[entry.TicketType] {
				continue
			}
			price, ok := s.catalog.Price(models.EventAllAccess, entry.TicketType)
			if !ok || !remainingMana.IsPositive() {
				continue
			}
			items = append(items, LineItem{
				EventType:       models.EventAllAccess,
				TicketType:      entry.TicketType,
				DisplayName:     models.DisplayName(models.EventAllAccess, entry.TicketType),
				Quantity:        entry.Quantity,
				UnitPrice:       price,
				EffectivePrice:  price.Sub(flatDiscountPerUnit),
				Discounted:      true,
				DiscountPerUnit: flatDiscountPerUnit,
			})
			remainingMana = remainingMana.Sub(flatDiscountPerUnit.Mul(decimal.NewFromInt(int64(entry.Quantity))))
		}

		if qty := cart.Quantity(models.EventLessOnline, models.TicketUpgrade); qty > 0 && remainingMana.IsPositive() {
			if price, ok := s.catalog.Price(models.EventLessOnline, models.TicketUpgrade); ok {
				items = append(items, LineItem{
					EventType:       models.EventLessOnline,
					TicketType:      models.TicketUpgrade,
					DisplayName:     models.DisplayName(models.EventLessOnline, models.TicketUpgrade),
					Quantity:        qty,
					UnitPrice:       price,
					EffectivePrice:  price.Sub(flatDiscountPerUnit),
					Discounted:      true,
					DiscountPerUnit: flatDiscountPerUnit,
				})
				remainingMana = remainingMana.Sub(flatDiscountPerUnit.Mul(decimal.NewFromInt(int64(qty))))
			}
		}

		for _, entry := range cart.EventEntries(models.EventSummerCamp) {
			if price, ok := s.catalog.Price(models.EventSummerCamp, entry.TicketType); ok {
				items = append(items, s.plainItem(models.EventSummerCamp, entry.TicketType, entry.Quantity, price))
			}
		}
	} else {
		covered := coveredAllAccess(items)
		for _, entry := range cart.EventEntries(models.EventAllAccess) {
			if covered[entry.TicketType] {
				continue
			}
			if price, ok := s.catalog.Price(models.EventAllAccess, entry.TicketType); ok {
				items = append(items, s.plainItem(models.EventAllAccess, entry.TicketType, entry.Quantity, price))
			}
		}
		for _, event := range []models.EventType{models.EventManifest, models.EventSummerCamp} {
			for _, entry := range cart.EventEntries(event) {
				if price, ok := s.catalog.Price(event, entry.TicketType); ok {
					items = append(items, s.plainItem(event, entry.TicketType, entry.Quantity, price))
				}
			}
		}
	}

	return items
}

// sortedByPriceDesc returns the event's non-zero entries ordered by unit
// price descending. The sort is stable, so price ties keep cart order.
// Entries missing from the catalog price at zero rather than dropping out.
func (s *PricingService) sortedByPriceDesc(cart *models.Cart, event models.EventType) []allocItem {
	var items []allocItem
	for _, entry := range cart.EventEntries(event) {
		price, _ := s.catalog.Price(event, entry.TicketType)
		items = append(items, allocItem{ticketType: entry.TicketType, quantity: entry.Quantity, price: price})
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].price.GreaterThan(items[j].price)
	})
	return items
}

// discountedGreedy consumes min(remaining, line total) from the budget and
// renders the item as discounted, spreading the consumed amount evenly per
// unit. A zero consumption still renders as a discounted item.
func (s *PricingService) discountedGreedy(event models.EventType, item allocItem, remaining *decimal.Decimal) LineItem {
	qty := decimal.NewFromInt(int64(item.quantity))
	lineTotal := item.price.Mul(qty)
	itemDiscount := decimal.Min(*remaining, lineTotal)
	*remaining = remaining.Sub(itemDiscount)

	return LineItem{
		EventType:       event,
		TicketType:      item.ticketType,
		DisplayName:     models.DisplayName(event, item.ticketType),
		Quantity:        item.quantity,
		UnitPrice:       item.price,
		EffectivePrice:  lineTotal.Sub(itemDiscount).Div(qty),
		Discounted:      true,
		DiscountPerUnit: itemDiscount.Div(qty),
	}
}

func (s *PricingService) plainItem(event models.EventType, ticket models.TicketType, qty int, price decimal.Decimal) LineItem {
	return LineItem{
		EventType:       event,
		TicketType:      ticket,
		DisplayName:     models.DisplayName(event, ticket),
		Quantity:        qty,
		UnitPrice:       price,
		EffectivePrice:  price,
		DiscountPerUnit: decimal.Zero,
	}
}

// coveredAllAccess collects the all-access ticket types already present in
// the summary, so later legs do not render them twice.
func coveredAllAccess(items []LineItem) map[models.TicketType]bool {
	covered := make(map[models.TicketType]bool)
	for _, item := range items {
		if item.EventType == models.EventAllAccess {
			covered[item.TicketType] = true
		}
	}
	return covered
}
