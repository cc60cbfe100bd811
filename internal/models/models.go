package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	APPName    = "Timesheet Invoicing"
	APPVersion = "1.0"
)

// Response is the type for response
type Response struct {
	Error   bool   `json:"error"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// JWT holds the signed-in user's claims
type JWT struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	Issuer    string    `json:"iss"`
	Audience  string    `json:"aud"`
	ExpiresAt int64     `json:"exp"`
	IssuedAt  int64     `json:"iat"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type JWTConfig struct {
	SecretKey string
	Issuer    string
	Audience  string
	Algorithm string
	Expiry    time.Duration
	Refresh   time.Duration
}

type DBConfig struct {
	DSN    string
	DEVDSN string
}

// BillingConfig carries the externally supplied invoicing constants. The
// engine never computes these: working days exclude weekends per company
// policy and the conversion rate is fixed by the finance team.
type BillingConfig struct {
	StandardWorkingDays int
	USDToINRRate        decimal.Decimal
}

type Config struct {
	Port         int
	Env          string
	UploadDir    string
	DocumentsDir string
	JWT          JWTConfig
	DB           DBConfig
	Billing      BillingConfig
}

// User is an admin account that can sign in to the tool
type User struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"` //username
	Password  string    `json:"-"`     // don't expose
	Role      string    `json:"role"`  //admin //staff
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Company model. client_type drives currency and tax schema: same_state,
// other_state or foreign. Invoices snapshot it at generation time.
type Company struct {
	ID            int64            `json:"id"`
	Name          string           `json:"name"`
	ContactNumber string           `json:"contact_number"`
	BuildingNo    string           `json:"building_no"`
	LocalStreet   string           `json:"local_street"`
	City          string           `json:"city"`
	State         string           `json:"state"`
	Country       string           `json:"country"`
	GST           string           `json:"gst"`
	SAC           string           `json:"sac"`
	Email         string           `json:"email"`
	ClientType    string           `json:"client_type"`
	DocumentPath  string           `json:"document_path,omitempty"`
	IsActive      bool             `json:"is_active"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
	POCount       int              `json:"po_count,omitempty"`
	PONumbers     []*PurchaseOrder `json:"po_numbers,omitempty"`
}

// PurchaseOrder model. Domestic POs carry a monthly budget, foreign POs an
// hourly rate; only the tax rates matching the company's client type matter.
type PurchaseOrder struct {
	ID            int64           `json:"id"`
	CompanyID     int64           `json:"company_id"`
	PONumber      string          `json:"po_number"`
	MonthlyBudget decimal.Decimal `json:"monthly_budget"`
	HourlyRate    decimal.Decimal `json:"hourly_rate"`
	CGST          decimal.Decimal `json:"cgst"`
	SGST          decimal.Decimal `json:"sgst"`
	IGST          decimal.Decimal `json:"igst"`
	EmployeeCount int             `json:"employee_count,omitempty"`
	Employees     []*Employee     `json:"employees,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Employee model: the unit timesheets are uploaded and billed for
type Employee struct {
	ID            int64     `json:"id"`
	POID          int64     `json:"po_id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	DateOfJoining string    `json:"date_of_joining"`
	Location      string    `json:"location"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// InvoiceLineItem is the persisted per-employee share of an invoice
type InvoiceLineItem struct {
	ID              int64           `json:"id"`
	InvoiceID       int64           `json:"invoice_id"`
	EmployeeID      int64           `json:"employee_id"`
	EmployeeName    string          `json:"employee_name"`
	CalculationType string          `json:"calculation_type"`
	WorkedQuantity  decimal.Decimal `json:"worked_quantity"`
	SubTotal        decimal.Decimal `json:"sub_total"`
}

// Invoice model. SubTotal is the pre-tax taxable base in the contract's
// native currency; tax amounts live beside it, never inside it. DueAmount is
// derived from sub_total and paid_amount on every read and never persisted.
type Invoice struct {
	ID            int64           `json:"id"`
	InvoiceNumber int64           `json:"invoice_number"`
	CompanyID     int64           `json:"company_id"`
	POID          int64           `json:"po_id"`
	Month         string          `json:"month"` // "01".."12"
	Year          int             `json:"year"`
	ClientType    string          `json:"client_type"` // snapshot at generation
	Currency      string          `json:"currency"`
	SubTotal      decimal.Decimal `json:"sub_total"`
	SubTotalINR   decimal.Decimal `json:"sub_total_in_inr"`
	CGSTAmount    decimal.Decimal `json:"cgst_amount"`
	SGSTAmount    decimal.Decimal `json:"sgst_amount"`
	IGSTAmount    decimal.Decimal `json:"igst_amount"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	DueAmount     decimal.Decimal `json:"due_amount"`
	CreatedAt     time.Time       `json:"created_at"`

	// joined for list/detail views
	CompanyName string             `json:"company_name,omitempty"`
	PONumber    string             `json:"po_number,omitempty"`
	LineItems   []*InvoiceLineItem `json:"employees,omitempty"`
}
