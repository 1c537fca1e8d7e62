package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found, or is not
	// owned by the caller. Ownership failures are deliberately
	// indistinguishable from absence.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a unique constraint was violated.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidQuantity indicates a non-positive quantity was supplied.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	// ErrInsufficientStock indicates the requested quantity exceeds the
	// currently available inventory.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrEmptyCart indicates checkout was attempted with no line items.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrInvalidAddress indicates a missing or not-owned address reference.
	ErrInvalidAddress = errors.New("invalid shipping address")
	// ErrInvalidTransition indicates an order lifecycle change was requested
	// from a state that disallows it.
	ErrInvalidTransition = errors.New("invalid order status transition")
	// ErrDuplicateReview indicates a second review for the same product by
	// the same user.
	ErrDuplicateReview = errors.New("product already reviewed")
	// ErrInvalidRating indicates a rating outside the 1..5 scale.
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
	// ErrInvalidReview indicates a review without content.
	ErrInvalidReview = errors.New("review content required")
)
