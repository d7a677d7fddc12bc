package domain

import "time"

// Product represents a canonical catalog entry that a listing may describe.
// Identity is Name; two products are never merged. The catalog is loaded
// once at startup and shared read-only across all matching workers.
type Product struct {
	Name          string     `json:"product_name"`
	Manufacturer  string     `json:"manufacturer"`
	Family        string     `json:"family,omitempty"`
	Model         string     `json:"model,omitempty"`
	AnnouncedDate *time.Time `json:"announced-date,omitempty"`
}
