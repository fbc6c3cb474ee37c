package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"festival-ticketing-platform/internal/models"
)

// CheckoutConfig represents order service configuration
type CheckoutConfig struct {
	BaseURL string
}

// CheckoutService builds checkout requests and submits them to the external
// order/payment service.
type CheckoutService struct {
	config CheckoutConfig
	client *http.Client
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(config CheckoutConfig) *CheckoutService {
	return &CheckoutService{
		config: config,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// CheckoutTicket is one cart entry in the order service wire format.
type CheckoutTicket struct {
	EventType models.EventType  `json:"eventType"`
	Type      models.TicketType `json:"type"`
	Quantity  int               `json:"quantity"`
}

// CheckoutDiscount is one applied grant in the order service wire format.
// Amounts go over the wire as plain numbers.
type CheckoutDiscount struct {
	Type     models.DiscountKind `json:"type"`
	Username string              `json:"username"`
	Points   float64             `json:"points,omitempty"`
	Amount   float64             `json:"amount"`
}

// CheckoutDiscountData wraps the applied grants, or is omitted entirely when
// no discount is applied.
type CheckoutDiscountData struct {
	Discounts []CheckoutDiscount `json:"discounts"`
}

// CheckoutRequest is the order service request body.
type CheckoutRequest struct {
	Tickets   []CheckoutTicket      `json:"tickets"`
	Attendees []models.AttendeeInfo `json:"attendees"`
	Discount  *CheckoutDiscountData `json:"discount"`
}

// CheckoutResponse is the order service response body.
type CheckoutResponse struct {
	CheckoutURL string `json:"checkoutUrl"`
}

// checkoutError represents an error response from the order service
type checkoutError struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// IsCheckoutReady is the pure checkout gate: true only when the cart holds at
// least one ticket and every required attendee field is filled. The UI uses
// it to disable the checkout action before submission is attempted.
func IsCheckoutReady(cart *models.Cart, attendee *models.AttendeeInfo) bool {
	if cart.TotalQuantity() == 0 {
		return false
	}
	err := attendee.Validate(
		cart.HasAnyTicketFor(models.EventManifest),
		cart.HasAnyTicketFor(models.EventLessOnline),
	)
	return err == nil
}

// BuildCheckoutRequest validates the attendee and assembles the order service
// request body from the cart and the applied discount slots. Grants with a
// zero frozen amount are left out of the payload.
func BuildCheckoutRequest(cart *models.Cart, attendee *models.AttendeeInfo, karma, mana *models.DiscountSlot) (*CheckoutRequest, error) {
	if cart.TotalQuantity() == 0 {
		return nil, models.ErrCartEmpty
	}
	if err := attendee.Validate(
		cart.HasAnyTicketFor(models.EventManifest),
		cart.HasAnyTicketFor(models.EventLessOnline),
	); err != nil {
		return nil, err
	}

	var tickets []CheckoutTicket
	for _, entry := range cart.Entries() {
		tickets = append(tickets, CheckoutTicket{
			EventType: entry.EventType,
			Type:      entry.TicketType,
			Quantity:  entry.Quantity,
		})
	}

	var discount *CheckoutDiscountData
	for _, slot := range []*models.DiscountSlot{karma, mana} {
		if slot == nil || !slot.IsApplied() || !slot.Applied.Amount.IsPositive() {
			continue
		}
		if discount == nil {
			discount = &CheckoutDiscountData{}
		}
		discount.Discounts = append(discount.Discounts, CheckoutDiscount{
			Type:     slot.Applied.Kind,
			Username: slot.Applied.Username,
			Points:   slot.Applied.Points,
			Amount:   slot.Applied.Amount.InexactFloat64(),
		})
	}

	return &CheckoutRequest{
		Tickets:   tickets,
		Attendees: []models.AttendeeInfo{*attendee},
		Discount:  discount,
	}, nil
}

// CreateCheckoutSession submits the request to the event-scoped checkout
// endpoint and returns the redirect URL. Any non-2xx status or a response
// without a checkout URL is a submission failure; the caller's cart and
// attendee state stay intact for a retry.
func (s *CheckoutService) CreateCheckoutSession(slug string, req *CheckoutRequest) (string, error) {
	jsonData, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal checkout request: %w", err)
	}

	checkoutURL := fmt.Sprintf("%s/api/festival-tickets/calculate/%s", s.config.BaseURL, slug)
	httpReq, err := http.NewRequest("POST", checkoutURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create checkout request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to send checkout request: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read checkout response body: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", s.handleAPIError(resp.StatusCode, bodyBytes)
	}

	var checkoutResp CheckoutResponse
	if err := json.Unmarshal(bodyBytes, &checkoutResp); err != nil {
		return "", fmt.Errorf("failed to decode checkout response: %w", err)
	}

	if checkoutResp.CheckoutURL == "" {
		return "", fmt.Errorf("no checkout URL received")
	}

	return checkoutResp.CheckoutURL, nil
}

// handleAPIError handles order service errors
func (s *CheckoutService) handleAPIError(statusCode int, body []byte) error {
	var svcErr checkoutError
	if err := json.Unmarshal(body, &svcErr); err != nil || (svcErr.Message == "" && svcErr.Error == "") {
		return fmt.Errorf("order service error (status %d): %s", statusCode, string(body))
	}
	message := svcErr.Message
	if message == "" {
		message = svcErr.Error
	}

	switch statusCode {
	case http.StatusBadRequest:
		return fmt.Errorf("order service rejected request: %s", message)
	case http.StatusNotFound:
		return fmt.Errorf("unknown checkout event: %s", message)
	case http.StatusUnprocessableEntity:
		return fmt.Errorf("order service validation error: %s", message)
	default:
		return fmt.Errorf("order service error (status %d): %s", statusCode, message)
	}
}
