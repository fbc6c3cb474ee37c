package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"festival-ticketing-platform/internal/models"
	"festival-ticketing-platform/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
)

const (
	storeSessionName = "festival-store"
	storeSessionKey  = "store"
)

// StoreHandler handles the ticket store API: cart edits, discount
// application and checkout. Store state is session-scoped: one buyer, one
// cookie session.
type StoreHandler struct {
	storeService    *services.StoreService
	checkoutService *services.CheckoutService
	sessionStore    sessions.Store
}

// NewStoreHandler creates a new store handler
func NewStoreHandler(
	storeService *services.StoreService,
	checkoutService *services.CheckoutService,
	sessionStore sessions.Store,
) *StoreHandler {
	return &StoreHandler{
		storeService:    storeService,
		checkoutService: checkoutService,
		sessionStore:    sessionStore,
	}
}

// RegisterRoutes mounts the store API on a chi router
func (h *StoreHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/store/{slug}", func(r chi.Router) {
		r.Get("/summary", h.GetSummary)
		r.Put("/tickets", h.SetTicketQuantity)
		r.Post("/discounts/karma", h.ApplyKarmaDiscount)
		r.Post("/discounts/mana", h.ApplyManaDiscount)
		r.Delete("/discounts/{kind}", h.ClearDiscount)
		r.Post("/checkout/validate", h.ValidateCheckout)
		r.Post("/checkout", h.Checkout)
	})
}

// setTicketRequest is the body for quantity updates
type setTicketRequest struct {
	EventType  models.EventType  `json:"eventType"`
	TicketType models.TicketType `json:"ticketType"`
	Quantity   int               `json:"quantity"`
}

// karmaDiscountRequest is the body for karma grant application
type karmaDiscountRequest struct {
	Username string  `json:"username"`
	Points   float64 `json:"points"`
}

// manaDiscountRequest is the body for mana grant application
type manaDiscountRequest struct {
	Username string `json:"username"`
}

// checkoutRequestBody carries the attendee record submitted at checkout
type checkoutRequestBody struct {
	Attendee models.AttendeeInfo `json:"attendee"`
}

// GetSummary returns the itemized summary and running totals
func (h *StoreHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	session, state := h.loadSession(r)
	h.saveAndRespond(w, r, session, state, http.StatusOK)
}

// SetTicketQuantity sets the quantity for one (event, ticket) pair
func (h *StoreHandler) SetTicketQuantity(w http.ResponseWriter, r *http.Request) {
	var req setTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := models.ValidateEventType(req.EventType); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := models.ValidateTicketType(req.TicketType); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	session, state := h.loadSession(r)
	if err := h.storeService.SetQuantity(state, req.EventType, req.TicketType, req.Quantity); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.saveAndRespond(w, r, session, state, http.StatusOK)
}

// ApplyKarmaDiscount validates and freezes a karma grant
func (h *StoreHandler) ApplyKarmaDiscount(w http.ResponseWriter, r *http.Request) {
	var req karmaDiscountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, state := h.loadSession(r)
	if _, err := h.storeService.ApplyKarmaDiscount(state, req.Username, req.Points); err != nil {
		respondDiscountError(w, err)
		return
	}
	h.saveAndRespond(w, r, session, state, http.StatusOK)
}

// ApplyManaDiscount validates and freezes a mana grant
func (h *StoreHandler) ApplyManaDiscount(w http.ResponseWriter, r *http.Request) {
	var req manaDiscountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, state := h.loadSession(r)
	if _, err := h.storeService.ApplyManaDiscount(state, req.Username); err != nil {
		respondDiscountError(w, err)
		return
	}
	h.saveAndRespond(w, r, session, state, http.StatusOK)
}

// ClearDiscount empties the named discount slot
func (h *StoreHandler) ClearDiscount(w http.ResponseWriter, r *http.Request) {
	kind := models.DiscountKind(chi.URLParam(r, "kind"))
	if err := models.ValidateDiscountKind(kind); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	session, state := h.loadSession(r)
	if err := h.storeService.ClearDiscount(state, kind); err != nil {
		if errors.Is(err, models.ErrDiscountNotApplied) {
			respondError(w, http.StatusNotFound, err.Error())
			return
		}
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.saveAndRespond(w, r, session, state, http.StatusOK)
}

// ValidateCheckout reports whether checkout would be accepted for the given
// attendee without attempting submission
func (h *StoreHandler) ValidateCheckout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequestBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	_, state := h.loadSession(r)
	respondJSON(w, http.StatusOK, map[string]bool{
		"valid": services.IsCheckoutReady(state.Cart, &req.Attendee),
	})
}

// Checkout validates the attendee, builds the order service request and
// returns the redirect URL on success
func (h *StoreHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequestBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	_, state := h.loadSession(r)
	checkoutReq, err := services.BuildCheckoutRequest(state.Cart, &req.Attendee, state.Karma, state.Mana)
	if err != nil {
		if models.IsValidationError(err) {
			respondError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	checkoutURL, err := h.checkoutService.CreateCheckoutSession(chi.URLParam(r, "slug"), checkoutReq)
	if err != nil {
		log.Printf("checkout failed: %v", err)
		respondError(w, http.StatusBadGateway, "checkout failed, please try again")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"checkoutUrl": checkoutURL})
}

// loadSession returns the cookie session and the store state stored in it,
// creating both as needed. Decode errors fall back to a fresh session.
func (h *StoreHandler) loadSession(r *http.Request) (*sessions.Session, *services.StoreSession) {
	session, err := h.sessionStore.Get(r, storeSessionName)
	if err != nil {
		log.Printf("store session decode failed, starting fresh: %v", err)
	}
	if state, ok := session.Values[storeSessionKey].(*services.StoreSession); ok && state != nil {
		return session, state
	}
	return session, h.storeService.NewSession()
}

func (h *StoreHandler) saveAndRespond(w http.ResponseWriter, r *http.Request, session *sessions.Session, state *services.StoreSession, status int) {
	session.Values[storeSessionKey] = state
	if err := session.Save(r, w); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to save session")
		return
	}
	respondJSON(w, status, h.storeService.Summary(state))
}

func respondDiscountError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrDiscountAlreadyApplied):
		respondError(w, http.StatusConflict, err.Error())
	case models.IsValidationError(err):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
