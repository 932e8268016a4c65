package services

import "errors"

var (
	// ErrShopNotFound is returned when a slug resolves to no shop, or to
	// more than one (the resolver never picks between duplicates).
	ErrShopNotFound = errors.New("shop not found")

	// ErrInvalidItem is returned for a create or update with a missing
	// name or a negative price.
	ErrInvalidItem = errors.New("invalid menu item")

	// ErrItemUnavailable is returned when a customer tries to add an
	// item the vendor has toggled off.
	ErrItemUnavailable = errors.New("item is not available")

	// ErrMissingCustomerName aborts checkout before anything is
	// composed or sent.
	ErrMissingCustomerName = errors.New("customer name is required")

	// ErrSlugTaken is returned when a shop update would reuse another
	// shop's slug.
	ErrSlugTaken = errors.New("slug already in use")
)
