package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus is the lifecycle state of an invoice in the CRM.
type InvoiceStatus string

const (
	StatusDraft     InvoiceStatus = "draft"
	StatusSent      InvoiceStatus = "sent"
	StatusPaid      InvoiceStatus = "paid"
	StatusOverdue   InvoiceStatus = "overdue"
	StatusCancelled InvoiceStatus = "cancelled"
)

// Valid reports whether s is one of the known statuses.
func (s InvoiceStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusSent, StatusPaid, StatusOverdue, StatusCancelled:
		return true
	}
	return false
}

// DeductionType selects the Swedish labour deduction an invoice was issued under.
type DeductionType string

const (
	DeductionNone DeductionType = ""
	DeductionROT  DeductionType = "ROT" // home improvement labour
	DeductionRUT  DeductionType = "RUT" // household services labour
)

// ParseDeductionType accepts "rot"/"rut" in any case. An empty string yields DeductionNone.
func ParseDeductionType(s string) (DeductionType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "":
		return DeductionNone, nil
	case "ROT":
		return DeductionROT, nil
	case "RUT":
		return DeductionRUT, nil
	default:
		return DeductionNone, fmt.Errorf("unknown deduction type %q (must be ROT or RUT)", s)
	}
}

// Lower returns the lowercase form used in file names.
func (d DeductionType) Lower() string {
	return strings.ToLower(string(d))
}

// Customer is the part of the CRM customer record the exporters need.
type Customer struct {
	Name string
	// OrgNumber holds the customer's personal identity number for ROT/RUT customers,
	// despite the column name.
	OrgNumber string
}

// Invoice is a read-only view of an invoice row.
type Invoice struct {
	// Core identifiers
	ID            string // Opaque unique identifier
	InvoiceNumber int    // Unique per user, used as voucher and case number

	// Dates (calendar dates, time of day is ignored)
	IssueDate time.Time
	DueDate   time.Time

	Status InvoiceStatus

	// Amount is the total invoiced value including 25% VAT, before the ROT/RUT
	// deduction is subtracted. The customer pays Amount - RotRutAmount.
	Amount decimal.Decimal

	// Deduction fields, only meaningful when RotRutType is set
	RotRutType          DeductionType
	RotRutAmount        *decimal.Decimal // Deduction reclaimed from Skatteverket
	LaborCost           *decimal.Decimal // Labour-only share of Amount, VAT inclusive
	PropertyDesignation string           // Fastighetsbeteckning, ROT only

	Customer *Customer
}

// PersonalNumber returns the raw identity number of the customer, or "" if unknown.
func (i *Invoice) PersonalNumber() string {
	if i.Customer == nil {
		return ""
	}
	return strings.TrimSpace(i.Customer.OrgNumber)
}

// CustomerName returns the customer name, or "" if the relation is missing.
func (i *Invoice) CustomerName() string {
	if i.Customer == nil {
		return ""
	}
	return i.Customer.Name
}

// RotRutAmountOrZero treats a missing deduction as zero.
func (i *Invoice) RotRutAmountOrZero() decimal.Decimal {
	if i.RotRutAmount == nil {
		return decimal.Zero
	}
	return *i.RotRutAmount
}

// LaborCostOrZero treats a missing labour cost as zero.
func (i *Invoice) LaborCostOrZero() decimal.Decimal {
	if i.LaborCost == nil {
		return decimal.Zero
	}
	return *i.LaborCost
}

// HasDeduction reports whether the invoice carries a positive ROT/RUT deduction.
func (i *Invoice) HasDeduction() bool {
	return i.RotRutAmountOrZero().IsPositive()
}

// CompanyInfo describes the exporting company. It is supplied per export call.
type CompanyInfo struct {
	Name          string `yaml:"name" validate:"required,max=100"`
	OrgNumber     string `yaml:"org_number" validate:"omitempty,orgnumber"`
	ContactPerson string `yaml:"contact_person" validate:"omitempty,max=100"`
}
