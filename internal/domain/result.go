package domain

// MatchResult pairs a listing with the product it resolved to.
// An empty ProductName means the listing matched nothing.
type MatchResult struct {
	ProductName string
	Listing     Listing
}

// Matched reports whether the listing resolved to a product.
func (r MatchResult) Matched() bool {
	return r.ProductName != ""
}

// ResultGroup is the externally visible output unit: every listing that
// resolved to one product. The order of groups and the relative order of
// listings contributed by different chunks are not guaranteed.
type ResultGroup struct {
	ProductName string    `json:"product_name"`
	Listings    []Listing `json:"listings"`
}

// Summary reports run totals. MatchedListings plus UnmatchedListings
// always equals TotalListings.
type Summary struct {
	TotalListings     int
	MatchedListings   int
	UnmatchedListings int
	MatchedProducts   int
	TotalProducts     int
}
