package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a unique key is taken.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidInput indicates a malformed or missing request field.
	ErrInvalidInput = errors.New("invalid input")

	// ErrCartNotFound indicates no cart has the requested id.
	ErrCartNotFound = errors.New("cart not found")
	// ErrProductNotFound indicates no product has the requested id.
	ErrProductNotFound = errors.New("product not found")
	// ErrItemNotFound indicates the cart has no line with the requested id.
	ErrItemNotFound = errors.New("item not found")
	// ErrUserNotFound indicates no user matches the requested id or name.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidQuantity is returned for a quantity of zero or less, or one
	// that would push a line above MaxQuantity.
	ErrInvalidQuantity = errors.New("quantity should be greater than 0")

	// ErrItemNotAttachedToCart indicates a line being priced does not belong to
	// the cart.
	ErrItemNotAttachedToCart = errors.New("item is not attached to cart")
	// ErrUserNotAttachedToCart indicates a cart is being priced without its user.
	ErrUserNotAttachedToCart = errors.New("user is not attached to cart")

	// ErrNegativeTotalCost signals a cart whose stored total went below zero.
	// It points at corrupted state rather than bad input.
	ErrNegativeTotalCost = errors.New("total cost is negative")

	// ErrInternal covers missing references that should never be missing.
	ErrInternal = errors.New("server error occurred, please try again later")
)
