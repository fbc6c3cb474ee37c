package models

import "github.com/shopspring/decimal"

// Cart holds the buyer's selected ticket quantities for one session.
// A missing or zero entry means "not selected"; quantities are never negative.
type Cart struct {
	Quantities map[EventType]map[TicketType]int `json:"quantities"`
}

// CartEntry is one selected (event, ticket) pair with its quantity.
type CartEntry struct {
	EventType  EventType  `json:"eventType"`
	TicketType TicketType `json:"ticketType"`
	Quantity   int        `json:"quantity"`
}

// NewCart creates an empty cart
func NewCart() *Cart {
	return &Cart{Quantities: make(map[EventType]map[TicketType]int)}
}

// SetQuantity sets the quantity for a pair. Negative values clamp to zero,
// and zero entries are removed so absence and zero stay equivalent.
func (c *Cart) SetQuantity(event EventType, ticket TicketType, qty int) {
	if qty < 0 {
		qty = 0
	}
	if qty == 0 {
		if tickets, ok := c.Quantities[event]; ok {
			delete(tickets, ticket)
			if len(tickets) == 0 {
				delete(c.Quantities, event)
			}
		}
		return
	}
	if c.Quantities == nil {
		c.Quantities = make(map[EventType]map[TicketType]int)
	}
	if c.Quantities[event] == nil {
		c.Quantities[event] = make(map[TicketType]int)
	}
	c.Quantities[event][ticket] = qty
}

// Quantity returns the selected quantity for a pair (zero if not selected).
func (c *Cart) Quantity(event EventType, ticket TicketType) int {
	return c.Quantities[event][ticket]
}

// HasAnyTicketFor reports whether the buyer holds any ticket granting access
// to the given event. The all-access full-festival SKU counts toward every
// constituent event.
func (c *Cart) HasAnyTicketFor(event EventType) bool {
	for _, qty := range c.Quantities[event] {
		if qty > 0 {
			return true
		}
	}
	return c.Quantities[EventAllAccess][TicketEarlyBird] > 0
}

// TotalQuantity returns the total number of selected tickets.
func (c *Cart) TotalQuantity() int {
	total := 0
	for _, tickets := range c.Quantities {
		for _, qty := range tickets {
			total += qty
		}
	}
	return total
}

// IsEmpty reports whether no tickets are selected.
func (c *Cart) IsEmpty() bool {
	return c.TotalQuantity() == 0
}

// TotalOriginalAmount returns the pre-discount total over all entries priced
// by the catalog. Entries for pairs absent from the catalog contribute nothing.
func (c *Cart) TotalOriginalAmount(catalog PriceCatalog) decimal.Decimal {
	total := decimal.Zero
	for _, entry := range c.Entries() {
		if price, ok := catalog.Price(entry.EventType, entry.TicketType); ok {
			total = total.Add(price.Mul(decimal.NewFromInt(int64(entry.Quantity))))
		}
	}
	return total
}

// EventTotal returns the pre-discount spend on a single event.
func (c *Cart) EventTotal(catalog PriceCatalog, event EventType) decimal.Decimal {
	total := decimal.Zero
	for _, entry := range c.EventEntries(event) {
		if price, ok := catalog.Price(event, entry.TicketType); ok {
			total = total.Add(price.Mul(decimal.NewFromInt(int64(entry.Quantity))))
		}
	}
	return total
}

// Entries returns all non-zero cart entries in canonical order.
func (c *Cart) Entries() []CartEntry {
	var entries []CartEntry
	for _, event := range EventTypeOrder {
		entries = append(entries, c.EventEntries(event)...)
	}
	return entries
}

// EventEntries returns the non-zero entries for one event in canonical order.
func (c *Cart) EventEntries(event EventType) []CartEntry {
	var entries []CartEntry
	for _, ticket := range TicketTypeOrder {
		if qty := c.Quantities[event][ticket]; qty > 0 {
			entries = append(entries, CartEntry{EventType: event, TicketType: ticket, Quantity: qty})
		}
	}
	return entries
}
