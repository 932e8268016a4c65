package models

// Shop is one vendor's storefront. The slug is what a shared QR code
// encodes; it must resolve to at most one shop at any time.
type Shop struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Slug       string `json:"slug"`
	Currency   string `json:"currency"` // display symbol, applied at render time only
	Contact    string `json:"contact"`  // chat id the formatted order is delivered to
	LogoFileID string `json:"logo_file_id,omitempty"`
}
