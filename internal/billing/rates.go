package billing

import "github.com/shopspring/decimal"

// ClientType classifies a company for currency and GST purposes. It is
// snapshotted onto every invoice at generation time.
type ClientType string

const (
	ClientSameState  ClientType = "same_state"
	ClientOtherState ClientType = "other_state"
	ClientForeign    ClientType = "foreign"
)

// TaxRegime names which GST components apply to a schema.
type TaxRegime string

const (
	// TaxRegimeNone applies to exports: no GST at all.
	TaxRegimeNone TaxRegime = "none"
	// TaxRegimeIntraState splits GST into equal CGST and SGST components.
	TaxRegimeIntraState TaxRegime = "intra_state"
	// TaxRegimeInterState applies a single IGST component.
	TaxRegimeInterState TaxRegime = "inter_state"
)

// RateSchema describes how one client type is billed: the calculation basis,
// the invoice currency and which of the PO's tax rates are meaningful.
type RateSchema struct {
	Calculation CalculationType
	Currency    string
	Regime      TaxRegime
}

// TaxSchemaTable maps client types to rate schemas. It is injected so the
// mapping is policy, not code scattered across handlers.
type TaxSchemaTable map[ClientType]RateSchema

// DefaultTaxSchemaTable follows standard GST practice: intra-state supplies
// attract CGST+SGST, inter-state supplies attract IGST, exports attract none.
func DefaultTaxSchemaTable() TaxSchemaTable {
	return TaxSchemaTable{
		ClientSameState:  {Calculation: CalculationMonthly, Currency: "INR", Regime: TaxRegimeIntraState},
		ClientOtherState: {Calculation: CalculationMonthly, Currency: "INR", Regime: TaxRegimeInterState},
		ClientForeign:    {Calculation: CalculationHourly, Currency: "USD", Regime: TaxRegimeNone},
	}
}

// PORates carries the billing terms of a purchase order. Only the fields
// matching the resolved schema are read; the rest stay zero.
type PORates struct {
	MonthlyBudget decimal.Decimal
	HourlyRate    decimal.Decimal
	CGST          decimal.Decimal
	SGST          decimal.Decimal
	IGST          decimal.Decimal
}

// ResolvedRates is a schema combined with the PO's concrete percentages.
type ResolvedRates struct {
	Calculation CalculationType
	Currency    string
	Regime      TaxRegime
	CGST        decimal.Decimal
	SGST        decimal.Decimal
	IGST        decimal.Decimal
}

// RateResolver resolves billing basis and tax components per client type.
type RateResolver struct {
	table TaxSchemaTable
}

func NewRateResolver(table TaxSchemaTable) *RateResolver {
	if table == nil {
		table = DefaultTaxSchemaTable()
	}
	return &RateResolver{table: table}
}

// Resolve returns the schema for the client type with the PO's applicable tax
// percentages filled in. Unknown client types fail loudly; invoicing must not
// guess a regime.
func (r *RateResolver) Resolve(clientType ClientType, po PORates) (ResolvedRates, error) {
	schema, ok := r.table[clientType]
	if !ok {
		return ResolvedRates{}, &UnresolvedTaxSchemaError{ClientType: string(clientType)}
	}

	resolved := ResolvedRates{
		Calculation: schema.Calculation,
		Currency:    schema.Currency,
		Regime:      schema.Regime,
	}
	switch schema.Regime {
	case TaxRegimeIntraState:
		resolved.CGST = po.CGST
		resolved.SGST = po.SGST
	case TaxRegimeInterState:
		resolved.IGST = po.IGST
	}
	return resolved, nil
}
