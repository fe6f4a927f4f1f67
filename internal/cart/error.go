package cart

import "errors"

var (
	// -- Validation & Input --
	ErrIncompleteVariants  = errors.New("incomplete variant selection")
	ErrUnknownVariantGroup = errors.New("selection references unknown variant group")
	ErrInvalidQuantity     = errors.New("invalid cart quantity")

	// -- Resource State --
	ErrLineNotFound = errors.New("cart line not found")
	ErrCartEmpty    = errors.New("cart is already empty")
)
