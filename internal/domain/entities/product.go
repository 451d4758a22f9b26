package entities

import (
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UncategorizedName is shown when a product's category reference is dangling.
const UncategorizedName = "Sem categoria"

var ErrInvalidPrice = errors.New("price is not a valid decimal amount")

// Product is a catalog item. Price is kept as a decimal string end to end;
// clients parse it to a number only for display.
type Product struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Description  *string   `json:"description"`
	Price        string    `json:"price"`
	Images       []string  `json:"images"`
	CategoryID   uuid.UUID `json:"categoryId"`
	PurchaseLink *string   `json:"purchaseLink"`
	Terms        *string   `json:"terms"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ProductWithCategory is the read model with the category name joined in.
type ProductWithCategory struct {
	Product
	CategoryName string `json:"categoryName"`
}

// NewProductInput carries the fields accepted on product creation.
type NewProductInput struct {
	Name         string    `json:"name"`
	Description  *string   `json:"description"`
	Price        string    `json:"price"`
	Images       []string  `json:"images"`
	CategoryID   uuid.UUID `json:"categoryId"`
	PurchaseLink *string   `json:"purchaseLink"`
	Terms        *string   `json:"terms"`
	IsActive     *bool     `json:"isActive"`
}

// NewProduct builds a product from the input, filling defaults: IsActive
// true when unspecified, Images never nil, both timestamps set to now.
func NewProduct(in NewProductInput) *Product {
	now := time.Now()
	p := &Product{
		ID:           uuid.New(),
		Name:         in.Name,
		Description:  in.Description,
		Price:        in.Price,
		Images:       in.Images,
		CategoryID:   in.CategoryID,
		PurchaseLink: in.PurchaseLink,
		Terms:        in.Terms,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	return p
}

// ProductPatch carries the fields of a partial product update. Nil fields
// are left untouched.
type ProductPatch struct {
	Name         *string    `json:"name"`
	Description  *string    `json:"description"`
	Price        *string    `json:"price"`
	Images       []string   `json:"images"`
	CategoryID   *uuid.UUID `json:"categoryId"`
	PurchaseLink *string    `json:"purchaseLink"`
	Terms        *string    `json:"terms"`
	IsActive     *bool      `json:"isActive"`
}

// Apply merges the supplied fields onto the product and refreshes UpdatedAt.
// Both storage backends patch through this one function.
func (p *Product) Apply(patch ProductPatch) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = patch.Description
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Images != nil {
		p.Images = patch.Images
	}
	if patch.CategoryID != nil {
		p.CategoryID = *patch.CategoryID
	}
	if patch.PurchaseLink != nil {
		p.PurchaseLink = patch.PurchaseLink
	}
	if patch.Terms != nil {
		p.Terms = patch.Terms
	}
	if patch.IsActive != nil {
		p.IsActive = *patch.IsActive
	}
	p.UpdatedAt = time.Now()
}

// ValidatePrice checks that a price string parses as a non-negative decimal.
func ValidatePrice(price string) error {
	d, err := decimal.NewFromString(price)
	if err != nil {
		return ErrInvalidPrice
	}
	if d.IsNegative() {
		return ErrInvalidPrice
	}
	return nil
}

// SortProductsNewestFirst orders products by creation time, newest first,
// with the id as a stable tie-break.
func SortProductsNewestFirst(products []ProductWithCategory) {
	sort.Slice(products, func(i, j int) bool {
		if products[i].CreatedAt.Equal(products[j].CreatedAt) {
			return products[i].ID.String() < products[j].ID.String()
		}
		return products[i].CreatedAt.After(products[j].CreatedAt)
	})
}
