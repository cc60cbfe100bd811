package billing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveSameState(t *testing.T) {
	resolver := NewRateResolver(nil)
	po := PORates{CGST: dec("9"), SGST: dec("9"), IGST: dec("18")}

	got, err := resolver.Resolve(ClientSameState, po)
	require.NoError(t, err)

	assert.Equal(t, CalculationMonthly, got.Calculation)
	assert.Equal(t, "INR", got.Currency)
	assert.Equal(t, TaxRegimeIntraState, got.Regime)
	assert.True(t, got.CGST.Equal(dec("9")))
	assert.True(t, got.SGST.Equal(dec("9")))
	// the IGST rate on the PO is not part of an intra-state schema
	assert.True(t, got.IGST.IsZero())
}

func TestResolveOtherState(t *testing.T) {
	resolver := NewRateResolver(nil)
	po := PORates{CGST: dec("9"), SGST: dec("9"), IGST: dec("18")}

	got, err := resolver.Resolve(ClientOtherState, po)
	require.NoError(t, err)

	assert.Equal(t, CalculationMonthly, got.Calculation)
	assert.Equal(t, "INR", got.Currency)
	assert.Equal(t, TaxRegimeInterState, got.Regime)
	assert.True(t, got.IGST.Equal(dec("18")))
	assert.True(t, got.CGST.IsZero())
	assert.True(t, got.SGST.IsZero())
}

func TestResolveForeign(t *testing.T) {
	resolver := NewRateResolver(nil)
	po := PORates{CGST: dec("9"), SGST: dec("9"), IGST: dec("18")}

	got, err := resolver.Resolve(ClientForeign, po)
	require.NoError(t, err)

	assert.Equal(t, CalculationHourly, got.Calculation)
	assert.Equal(t, "USD", got.Currency)
	assert.Equal(t, TaxRegimeNone, got.Regime)
	// exports carry no GST components at all
	assert.True(t, got.CGST.IsZero())
	assert.True(t, got.SGST.IsZero())
	assert.True(t, got.IGST.IsZero())
}

func TestResolveUnknownClientType(t *testing.T) {
	resolver := NewRateResolver(nil)

	_, err := resolver.Resolve(ClientType("intergalactic"), PORates{})
	require.Error(t, err)

	var unresolved *UnresolvedTaxSchemaError
	require.True(t, errors.As(err, &unresolved))
	assert.Equal(t, "intergalactic", unresolved.ClientType)
}

func TestResolveCustomTable(t *testing.T) {
	// The mapping is injected; a different policy table must win over the default.
	table := TaxSchemaTable{
		ClientForeign: {Calculation: CalculationMonthly, Currency: "EUR", Regime: TaxRegimeNone},
	}
	resolver := NewRateResolver(table)

	got, err := resolver.Resolve(ClientForeign, PORates{})
	require.NoError(t, err)
	assert.Equal(t, "EUR", got.Currency)
	assert.Equal(t, CalculationMonthly, got.Calculation)

	_, err = resolver.Resolve(ClientSameState, PORates{})
	assert.Error(t, err)
}
