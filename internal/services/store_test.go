package services

import (
	"testing"

	"festival-ticketing-platform/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreService_SetQuantity(t *testing.T) {
	store := NewStoreService(testCatalog())
	sess := store.NewSession()

	require.NoError(t, store.SetQuantity(sess, models.EventLessOnline, models.TicketEarlyBird, 2))
	assert.Equal(t, 2, sess.Cart.Quantity(models.EventLessOnline, models.TicketEarlyBird))

	err := store.SetQuantity(sess, models.EventSummerCamp, models.TicketUpgrade, 1)
	assert.ErrorIs(t, err, models.ErrTicketNotInCatalog)
	assert.Equal(t, 2, sess.Cart.TotalQuantity())
}

func TestStoreService_AppliedAmountIsFrozen(t *testing.T) {
	store := NewStoreService(testCatalog())
	sess := store.NewSession()

	require.NoError(t, store.SetQuantity(sess, models.EventLessOnline, models.TicketDayPass, 1)) // $40

	amount, err := store.ApplyKarmaDiscount(sess, "ada", 100000)
	require.NoError(t, err)
	assertAmount(t, "40", amount)

	// Growing the cart after application does not recompute the grant.
	require.NoError(t, store.SetQuantity(sess, models.EventLessOnline, models.TicketEarlyBird, 1))
	assertAmount(t, "40", sess.Karma.Amount())

	// Neither does shrinking it.
	require.NoError(t, store.SetQuantity(sess, models.EventLessOnline, models.TicketDayPass, 0))
	assertAmount(t, "40", sess.Karma.Amount())
}

func TestStoreService_DiscountSlotLifecycle(t *testing.T) {
	store := NewStoreService(testCatalog())
	sess := store.NewSession()
	require.NoError(t, store.SetQuantity(sess, models.EventManifest, models.TicketSupporter, 1))

	_, err := store.ApplyManaDiscount(sess, "bob")
	require.NoError(t, err)

	_, err = store.ApplyManaDiscount(sess, "bob")
	assert.ErrorIs(t, err, models.ErrDiscountAlreadyApplied)

	require.NoError(t, store.ClearDiscount(sess, models.DiscountMana))
	assert.False(t, sess.Mana.IsApplied())

	err = store.ClearDiscount(sess, models.DiscountMana)
	assert.ErrorIs(t, err, models.ErrDiscountNotApplied)

	// Re-applying after a clear picks up the current cart state.
	require.NoError(t, store.SetQuantity(sess, models.EventManifest, models.TicketSupporter, 2))
	amount, err := store.ApplyManaDiscount(sess, "bob")
	require.NoError(t, err)
	assertAmount(t, "30", amount)
}

func TestStoreService_SlotsAreIndependent(t *testing.T) {
	store := NewStoreService(testCatalog())
	sess := store.NewSession()
	require.NoError(t, store.SetQuantity(sess, models.EventLessOnline, models.TicketDayPass, 1))
	require.NoError(t, store.SetQuantity(sess, models.EventManifest, models.TicketSupporter, 1))

	_, err := store.ApplyKarmaDiscount(sess, "ada", 1000)
	require.NoError(t, err)
	_, err = store.ApplyManaDiscount(sess, "bob")
	require.NoError(t, err)

	require.NoError(t, store.ClearDiscount(sess, models.DiscountKarma))
	assert.False(t, sess.Karma.IsApplied())
	assert.True(t, sess.Mana.IsApplied(), "clearing karma leaves mana applied")
}

func TestStoreService_ClearDiscountRejectsUnknownKind(t *testing.T) {
	store := NewStoreService(testCatalog())
	sess := store.NewSession()

	err := store.ClearDiscount(sess, models.DiscountKind("loyalty"))
	require.Error(t, err)
}

func TestStoreService_Summary(t *testing.T) {
	store := NewStoreService(testCatalog())
	sess := store.NewSession()
	require.NoError(t, store.SetQuantity(sess, models.EventLessOnline, models.TicketDayPass, 1)) // $40
	require.NoError(t, store.SetQuantity(sess, models.EventManifest, models.TicketSupporter, 1)) // $150

	_, err := store.ApplyKarmaDiscount(sess, "ada", 1000) // $10
	require.NoError(t, err)
	_, err = store.ApplyManaDiscount(sess, "bob") // $15
	require.NoError(t, err)

	summary := store.Summary(sess)
	assert.Equal(t, 2, summary.TotalTickets)
	assertAmount(t, "10", summary.KarmaDiscount)
	assertAmount(t, "15", summary.ManaDiscount)
	assertAmount(t, "165", summary.TotalAmount)
	require.Len(t, summary.Items, 2)
}

func TestStoreService_SummaryEmptySession(t *testing.T) {
	store := NewStoreService(testCatalog())
	sess := store.NewSession()

	summary := store.Summary(sess)
	assert.Zero(t, summary.TotalTickets)
	assert.Empty(t, summary.Items)
	assertAmount(t, "0", summary.TotalAmount)
}
