package services

import (
	"testing"

	"festival-ticketing-platform/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findItem(t *testing.T, items []LineItem, event models.EventType, ticket models.TicketType) LineItem {
	t.Helper()
	for _, item := range items {
		if item.EventType == event && item.TicketType == ticket {
			return item
		}
	}
	t.Fatalf("no line item for %s %s", event, ticket)
	return LineItem{}
}

func TestBuildSummary_KarmaGreedyAllocation(t *testing.T) {
	pricing := NewPricingService(testCatalog())

	cart := models.NewCart()
	cart.SetQuantity(models.EventLessOnline, models.TicketDayPass, 1)    // $40
	cart.SetQuantity(models.EventLessOnline, models.TicketDayPassFri, 1) // $25

	// $50 budget: the $40 item is fully covered first, the $25 item
	// absorbs the remaining $10.
	items := pricing.BuildSummary(cart, decimal.NewFromInt(50), decimal.Zero)
	require.Len(t, items, 2)

	assert.Equal(t, models.TicketDayPass, items[0].TicketType, "higher-priced item allocates first")
	assert.True(t, items[0].Discounted)
	assertAmount(t, "40", items[0].DiscountPerUnit)
	assertAmount(t, "0", items[0].EffectivePrice)

	assert.Equal(t, models.TicketDayPassFri, items[1].TicketType)
	assert.True(t, items[1].Discounted)
	assertAmount(t, "10", items[1].DiscountPerUnit)
	assertAmount(t, "15", items[1].EffectivePrice)
}

func TestBuildSummary_KarmaExhaustedStillRendersDiscounted(t *testing.T) {
	pricing := NewPricingService(testCatalog())

	cart := models.NewCart()
	cart.SetQuantity(models.EventLessOnline, models.TicketDayPass, 1)    // $40
	cart.SetQuantity(models.EventLessOnline, models.TicketDayPassFri, 1) // $25

	// $40 budget is consumed entirely by the first item. The second item
	// still goes through the discount path with a zero amount.
	items := pricing.BuildSummary(cart, decimal.NewFromInt(40), decimal.Zero)
	require.Len(t, items, 2)

	second := findItem(t, items, models.EventLessOnline, models.TicketDayPassFri)
	assert.True(t, second.Discounted)
	assertAmount(t, "0", second.DiscountPerUnit)
	assertAmount(t, "25", second.EffectivePrice)
}

func TestBuildSummary_KarmaSpillsIntoAllAccess(t *testing.T) {
	pricing := NewPricingService(testCatalog())

	cart := models.NewCart()
	cart.SetQuantity(models.EventLessOnline, models.TicketDayPass, 1)  // $40
	cart.SetQuantity(models.EventAllAccess, models.TicketEarlyBird, 1) // $1080

	items := pricing.BuildSummary(cart, decimal.NewFromInt(100), decimal.Zero)

	lessOnline := findItem(t, items, models.EventLessOnline, models.TicketDayPass)
	assertAmount(t, "40", lessOnline.DiscountPerUnit)

	allAccess := findItem(t, items, models.EventAllAccess, models.TicketEarlyBird)
	assert.True(t, allAccess.Discounted)
	assertAmount(t, "60", allAccess.DiscountPerUnit)
	assertAmount(t, "1020", allAccess.EffectivePrice)
}

func TestBuildSummary_KarmaExactlyConsumedSkipsAllAccessLeg(t *testing.T) {
	pricing := NewPricingService(testCatalog())

	cart := models.NewCart()
	cart.SetQuantity(models.EventLessOnline, models.TicketDayPass, 1)  // $40
	cart.SetQuantity(models.EventAllAccess, models.TicketEarlyBird, 1) // $1080

	items := pricing.BuildSummary(cart, decimal.NewFromInt(40), decimal.Zero)

	allAccess := findItem(t, items, models.EventAllAccess, models.TicketEarlyBird)
	assert.False(t, allAccess.Discounted, "all-access renders plain once the budget is spent")
	assertAmount(t, "1080", allAccess.EffectivePrice)
}

func TestBuildSummary_KarmaSpreadsAcrossUnits(t *testing.T) {
	pricing := NewPricingService(testCatalog())

	cart := models.NewCart()
	cart.SetQuantity(models.EventLessOnline, models.TicketDayPass, 2) // $80 line

	items := pricing.BuildSummary(cart, decimal.NewFromInt(50), decimal.Zero)
	require.Len(t, items, 1)

	assertAmount(t, "25", items[0].DiscountPerUnit)
	assertAmount(t, "15", items[0].EffectivePrice)
}

func TestBuildSummary_ManaRendering(t *testing.T) {
	pricing := NewPricingService(testCatalog())

	cart := models.NewCart()
	cart.SetQuantity(models.EventManifest, models.TicketSupporter, 1)  // $150, 10% off
	cart.SetQuantity(models.EventManifest, models.TicketVolunteer, 1)  // full price
	cart.SetQuantity(models.EventAllAccess, models.TicketSupporter, 1) // $55 off
	cart.SetQuantity(models.EventSummerCamp, models.TicketDayPass, 1)  // full price

	mana, err := pricing.ComputeManaDiscount(cart, "bob")
	require.NoError(t, err)
	assertAmount(t, "70", mana) // 15 + 55

	items := pricing.BuildSummary(cart, decimal.Zero, mana)

	supporter := findItem(t, items, models.EventManifest, models.TicketSupporter)
	assert.True(t, supporter.Discounted)
	assertAmount(t, "15", supporter.DiscountPerUnit)
	assertAmount(t, "135", supporter.EffectivePrice)

	volunteer := findItem(t, items, models.EventManifest, models.TicketVolunteer)
	assert.False(t, volunteer.Discounted)
	assertAmount(t, "90", volunteer.EffectivePrice)

	allAccess := findItem(t, items, models.EventAllAccess, models.TicketSupporter)
	assert.True(t, allAccess.Discounted)
	assertAmount(t, "55", allAccess.DiscountPerUnit)
	assertAmount(t, "2145", allAccess.EffectivePrice)

	summerCamp := findItem(t, items, models.EventSummerCamp, models.TicketDayPass)
	assert.False(t, summerCamp.Discounted)
}

func TestBuildSummary_ManaUpgradeFlatDiscount(t *testing.T) {
	pricing := NewPricingService(testCatalog())

	cart := models.NewCart()
	cart.SetQuantity(models.EventLessOnline, models.TicketUpgrade, 2)

	mana, err := pricing.ComputeManaDiscount(cart, "bob")
	require.NoError(t, err)
	assertAmount(t, "110", mana)

	// Without a karma grant the upgrade renders twice: once plain in the
	// LessOnline pass, once discounted in the mana pass.
	items := pricing.BuildSummary(cart, decimal.Zero, mana)
	require.Len(t, items, 2)

	assert.False(t, items[0].Discounted)
	assertAmount(t, "150", items[0].EffectivePrice)

	assert.True(t, items[1].Discounted)
	assertAmount(t, "55", items[1].DiscountPerUnit)
	assertAmount(t, "95", items[1].EffectivePrice)
}

func TestBuildSummary_KarmaCoveredAllAccessNotRepeatedByMana(t *testing.T) {
	pricing := NewPricingService(testCatalog())

	cart := models.NewCart()
	cart.SetQuantity(models.EventLessOnline, models.TicketDayPass, 1)  // $40
	cart.SetQuantity(models.EventAllAccess, models.TicketEarlyBird, 1) // $1080
	cart.SetQuantity(models.EventManifest, models.TicketSupporter, 1)  // $150

	// Karma spills into the all-access item, so the mana pass must not
	// render it a second time.
	items := pricing.BuildSummary(cart, decimal.NewFromInt(100), decimal.NewFromInt(70))

	count := 0
	for _, item := range items {
		if item.EventType == models.EventAllAccess {
			count++
		}
	}
	assert.Equal(t, 1, count, "all-access item rendered once")
}

func TestBuildSummary_NoDiscountsCanonicalOrder(t *testing.T) {
	pricing := NewPricingService(testCatalog())

	cart := models.NewCart()
	cart.SetQuantity(models.EventSummerCamp, models.TicketDayPass, 1)
	cart.SetQuantity(models.EventManifest, models.TicketSupporter, 1)
	cart.SetQuantity(models.EventAllAccess, models.TicketEarlyBird, 1)
	cart.SetQuantity(models.EventLessOnline, models.TicketEarlyBird, 1)

	items := pricing.BuildSummary(cart, decimal.Zero, decimal.Zero)
	require.Len(t, items, 4)

	assert.Equal(t, models.EventLessOnline, items[0].EventType)
	assert.Equal(t, models.EventAllAccess, items[1].EventType)
	assert.Equal(t, models.EventManifest, items[2].EventType)
	assert.Equal(t, models.EventSummerCamp, items[3].EventType)

	for _, item := range items {
		assert.False(t, item.Discounted)
		assert.True(t, item.UnitPrice.Equal(item.EffectivePrice))
		assert.True(t, item.DiscountPerUnit.IsZero())
	}
}

func TestBuildSummary_FullPriceScenario(t *testing.T) {
	pricing := NewPricingService(testCatalog())

	cart := models.NewCart()
	cart.SetQuantity(models.EventLessOnline, models.TicketEarlyBird, 1) // $200
	cart.SetQuantity(models.EventManifest, models.TicketSupporter, 1)   // $150

	items := pricing.BuildSummary(cart, decimal.Zero, decimal.Zero)
	require.Len(t, items, 2)

	total := decimal.Zero
	for _, item := range items {
		assert.False(t, item.Discounted)
		total = total.Add(item.EffectivePrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	assertAmount(t, "350", total)
	assertAmount(t, "350", pricing.OrderTotal(cart, decimal.Zero, decimal.Zero))
}

func TestBuildSummary_RoundTripTotals(t *testing.T) {
	pricing := NewPricingService(testCatalog())

	cart := models.NewCart()
	cart.SetQuantity(models.EventLessOnline, models.TicketEarlyBird, 1) // $200
	cart.SetQuantity(models.EventLessOnline, models.TicketDayPass, 1)   // $40
	cart.SetQuantity(models.EventAllAccess, models.TicketEarlyBird, 1)  // $1080
	cart.SetQuantity(models.EventManifest, models.TicketSupporter, 1)   // $150
	cart.SetQuantity(models.EventSummerCamp, models.TicketEarlyBird, 1) // $450

	karma, err := pricing.ComputeKarmaDiscount(cart, "ada", 30000) // $300
	require.NoError(t, err)
	mana, err := pricing.ComputeManaDiscount(cart, "bob")
	require.NoError(t, err)

	items := pricing.BuildSummary(cart, karma, mana)

	// Adding each item's per-unit discount back to its effective price
	// reconstructs the pre-discount total.
	reconstructed := decimal.Zero
	for _, item := range items {
		qty := decimal.NewFromInt(int64(item.Quantity))
		reconstructed = reconstructed.Add(item.EffectivePrice.Add(item.DiscountPerUnit).Mul(qty))
	}
	assertAmount(t, "1920", reconstructed)
	assert.True(t, reconstructed.Equal(cart.TotalOriginalAmount(pricing.Catalog())))
}
