package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DiscountKind identifies one of the two independent discount sources
type DiscountKind string

const (
	DiscountKarma DiscountKind = "karma"
	DiscountMana  DiscountKind = "mana"
)

// ValidateDiscountKind validates a discount kind
func ValidateDiscountKind(kind DiscountKind) error {
	switch kind {
	case DiscountKarma, DiscountMana:
		return nil
	default:
		return fmt.Errorf("invalid discount kind: %q", kind)
	}
}

// AppliedDiscount is a discount grant frozen into a fixed amount. Once
// applied, the amount does not track later cart changes; the buyer must clear
// and re-apply to pick up a new cart state.
type AppliedDiscount struct {
	Kind     DiscountKind    `json:"type"`
	Username string          `json:"username"`
	Points   float64         `json:"points,omitempty"` // karma grants only
	Amount   decimal.Decimal `json:"amount"`
}

// DiscountSlotState represents the lifecycle state of one discount slot
type DiscountSlotState string

const (
	DiscountNone    DiscountSlotState = "none"
	DiscountEditing DiscountSlotState = "editing"
	DiscountApplied DiscountSlotState = "applied"
)

// DiscountSlot tracks one discount source through none → editing → applied.
// The two slots (karma, mana) are independent; each holds at most one grant.
type DiscountSlot struct {
	State   DiscountSlotState `json:"state"`
	Applied *AppliedDiscount  `json:"applied,omitempty"`
}

// NewDiscountSlot creates an empty slot
func NewDiscountSlot() *DiscountSlot {
	return &DiscountSlot{State: DiscountNone}
}

// Edit moves the slot into the editing state. Not allowed once applied;
// the grant must be cleared first.
func (s *DiscountSlot) Edit() error {
	if s.State == DiscountApplied {
		return ErrDiscountAlreadyApplied
	}
	s.State = DiscountEditing
	return nil
}

// Apply freezes a validated grant into the slot. An applied slot cannot be
// re-applied in place.
func (s *DiscountSlot) Apply(d AppliedDiscount) error {
	if s.State == DiscountApplied {
		return ErrDiscountAlreadyApplied
	}
	s.State = DiscountApplied
	s.Applied = &d
	return nil
}

// Clear empties the slot from any state.
func (s *DiscountSlot) Clear() {
	s.State = DiscountNone
	s.Applied = nil
}

// IsApplied reports whether the slot holds a frozen grant.
func (s *DiscountSlot) IsApplied() bool {
	return s.State == DiscountApplied && s.Applied != nil
}

// Amount returns the frozen amount, or zero when nothing is applied.
func (s *DiscountSlot) Amount() decimal.Decimal {
	if !s.IsApplied() {
		return decimal.Zero
	}
	return s.Applied.Amount
}
