package domain

import "github.com/shopspring/decimal"

// Listing represents an unstructured third-party record describing a
// purchasable item. ID is assigned by the listing source when the record
// is decoded; it identifies the record in logs and tests and is never
// serialized to results.
type Listing struct {
	ID           string          `json:"-"`
	Title        string          `json:"title"`
	Manufacturer string          `json:"manufacturer,omitempty"`
	Currency     string          `json:"currency,omitempty"`
	Price        decimal.Decimal `json:"price"`
}
