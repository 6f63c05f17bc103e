package model

// Product is a shop listing candidate. Price and Specs come from the detail
// page and stay empty when the detail fetch fails; a listing with a title and
// link is still usable.
type Product struct {
	Title     string            `json:"title"`
	Link      string            `json:"link"`
	Thumbnail string            `json:"thumbnail,omitempty"`
	Price     *float64          `json:"price,omitempty"`
	Specs     map[string]string `json:"specs,omitempty"`
	Category  string            `json:"category,omitempty"`
}
