package cart

import (
	"time"

	"github.com/google/uuid"
)

// LocalizedText is an English/Arabic label pair. The storefront renders
// either side depending on the active language.
type LocalizedText struct {
	En string `json:"en"`
	Ar string `json:"ar"`
}

// In returns the label for the given language tag, falling back to English.
func (t LocalizedText) In(lang string) string {
	if lang == "ar" && t.Ar != "" {
		return t.Ar
	}
	return t.En
}

// CartItem is one line in the cart. Two lines with the same ProductID but
// different SelectedVariants are distinct and never merged.
type CartItem struct {
	// ID is a cart-scoped surrogate key, assigned at add time for guest
	// lines that have no server identity. Unique within the cart.
	ID        string `json:"id,omitempty"`
	ProductID int64  `json:"productId"`

	Name     LocalizedText `json:"name"`
	ImageURL string        `json:"imageUrl"`

	Quantity int `json:"quantity"`

	// Price is the effective unit price after discount; OriginalPrice the
	// pre-discount unit price. Price = OriginalPrice * (1 - DiscountPercentage/100).
	Price              float64 `json:"price"`
	OriginalPrice      float64 `json:"originalPrice"`
	DiscountPercentage float64 `json:"discountPercentage"`

	// SelectedVariants maps a variant attribute id to the chosen option's
	// localized label pair.
	SelectedVariants map[string]LocalizedText `json:"selectedVariants,omitempty"`
}

type Cart struct {
	Items []CartItem `json:"items"`

	TotalItems    int     `json:"totalItems"`
	TotalQuantity int     `json:"totalQuantity"`
	SubTotal      float64 `json:"subTotal"`
	DiscountTotal float64 `json:"discountTotal"`
	GrandTotal    float64 `json:"grandTotal"`

	// UserID is empty for a guest cart.
	UserID  string `json:"userId,omitempty"`
	IsGuest bool   `json:"isGuest"`

	UpdatedAt time.Time `json:"updatedAt"`
}

// Empty returns a fresh guest cart with zeroed totals.
func Empty() Cart {
	return Cart{
		Items:     []CartItem{},
		IsGuest:   true,
		UpdatedAt: time.Now().UTC(),
	}
}

// NewLineID mints a surrogate id for a guest line. UUIDs are unique by
// construction, so no collision check against existing lines is needed.
func NewLineID() string {
	return uuid.NewString()
}

// SameLine reports whether two items belong to the same cart line:
// identical product and deeply equal variant selections.
func SameLine(a, b CartItem) bool {
	if a.ProductID != b.ProductID {
		return false
	}
	return equalSelections(a.SelectedVariants, b.SelectedVariants)
}

func equalSelections(a, b map[string]LocalizedText) bool {
	if len(a) != len(b) {
		return false
	}
	for key, opt := range a {
		other, ok := b[key]
		if !ok || other != opt {
			return false
		}
	}
	return true
}

// ValidateSelection checks that every variant group of a product has
// exactly one chosen option. Products without variants always pass.
func ValidateSelection(groups []string, selected map[string]LocalizedText) error {
	for _, group := range groups {
		opt, ok := selected[group]
		if !ok || (opt.En == "" && opt.Ar == "") {
			return ErrIncompleteVariants
		}
	}
	for key := range selected {
		if !containsGroup(groups, key) {
			return ErrUnknownVariantGroup
		}
	}
	return nil
}

func containsGroup(groups []string, key string) bool {
	for _, g := range groups {
		if g == key {
			return true
		}
	}
	return false
}
