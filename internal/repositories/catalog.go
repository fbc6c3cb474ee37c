package repositories

import (
	"database/sql"
	"fmt"

	"festival-ticketing-platform/internal/models"

	"github.com/shopspring/decimal"
)

// CatalogRepository loads the festival price table
type CatalogRepository struct {
	db *sql.DB
}

// NewCatalogRepository creates a new catalog repository
func NewCatalogRepository(db *sql.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// LoadPriceCatalog reads the full price table. The table is the single
// source of (event, ticket) validity: a pair not present is not sellable.
func (r *CatalogRepository) LoadPriceCatalog() (models.PriceCatalog, error) {
	query := `
		SELECT event_type, ticket_type, price
		FROM festival_ticket_prices
		ORDER BY event_type, ticket_type`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query price catalog: %w", err)
	}
	defer rows.Close()

	catalog := make(models.PriceCatalog)
	for rows.Next() {
		var eventType, ticketType, price string
		if err := rows.Scan(&eventType, &ticketType, &price); err != nil {
			return nil, fmt.Errorf("failed to scan price row: %w", err)
		}

		event := models.EventType(eventType)
		ticket := models.TicketType(ticketType)
		if err := models.ValidateEventType(event); err != nil {
			return nil, fmt.Errorf("bad catalog row: %w", err)
		}
		if err := models.ValidateTicketType(ticket); err != nil {
			return nil, fmt.Errorf("bad catalog row: %w", err)
		}

		unitPrice, err := decimal.NewFromString(price)
		if err != nil {
			return nil, fmt.Errorf("bad price for %s/%s: %w", event, ticket, err)
		}
		if unitPrice.IsNegative() {
			return nil, fmt.Errorf("negative price for %s/%s", event, ticket)
		}

		if catalog[event] == nil {
			catalog[event] = make(map[models.TicketType]decimal.Decimal)
		}
		catalog[event][ticket] = unitPrice
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read price catalog: %w", err)
	}
	if len(catalog) == 0 {
		return nil, fmt.Errorf("price catalog is empty")
	}

	return catalog, nil
}
