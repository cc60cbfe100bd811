package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettlePartialPayment(t *testing.T) {
	paid, due, err := Settle(dec("30000.00"), dec("15000.00"))
	require.NoError(t, err)
	assert.True(t, paid.Equal(dec("15000.00")))
	assert.True(t, due.Equal(dec("15000.00")))
}

func TestSettleReplacesRatherThanAdds(t *testing.T) {
	// Setting the paid amount twice must not accumulate.
	_, due, err := Settle(dec("1000.00"), dec("400.00"))
	require.NoError(t, err)
	assert.True(t, due.Equal(dec("600.00")))

	_, due, err = Settle(dec("1000.00"), dec("250.00"))
	require.NoError(t, err)
	assert.True(t, due.Equal(dec("750.00")))
}

func TestSettleOverpaymentFloorsDueAtZero(t *testing.T) {
	paid, due, err := Settle(dec("1000.00"), dec("1200.00"))
	require.NoError(t, err)
	assert.True(t, paid.Equal(dec("1200.00")))
	assert.True(t, due.IsZero())
}

func TestSettleExactPayment(t *testing.T) {
	_, due, err := Settle(dec("1000.00"), dec("1000.00"))
	require.NoError(t, err)
	assert.True(t, due.IsZero())
}

func TestSettleRejectsNegative(t *testing.T) {
	_, _, err := Settle(dec("1000.00"), dec("-1"))
	assert.ErrorIs(t, err, ErrInvalidPaymentAmount)
}

func TestDueIsDerived(t *testing.T) {
	assert.True(t, Due(dec("500.00"), dec("120.00")).Equal(dec("380.00")))
	assert.True(t, Due(dec("500.00"), dec("900.00")).IsZero())
	assert.True(t, Due(dec("500.00"), dec("0")).Equal(dec("500.00")))
}
