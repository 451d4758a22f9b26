// Package repositories declares the storage contract shared by the
// in-memory and relational backends.
package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"storefront/internal/domain/entities"
)

// ErrDuplicateUsername is returned by CreateUser when the username is taken.
var ErrDuplicateUsername = errors.New("username already exists")

// Storage is the single façade over users, categories and products. Lookups
// return (nil, nil) when the record does not exist; missing records are not
// errors. Both backends must be observably equivalent for every operation.
type Storage interface {
	// Users
	GetUser(ctx context.Context, id uuid.UUID) (*entities.User, error)
	GetUserByUsername(ctx context.Context, username string) (*entities.User, error)
	CreateUser(ctx context.Context, username, password string) (*entities.User, error)
	// ValidateCredentials returns (nil, nil) both for an unknown username
	// and for a wrong password, so callers cannot enumerate usernames.
	ValidateCredentials(ctx context.Context, username, password string) (*entities.User, error)

	// Categories
	GetCategories(ctx context.Context) ([]entities.Category, error)
	CreateCategory(ctx context.Context, name string) (*entities.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, patch entities.CategoryPatch) (*entities.Category, error)
	// DeleteCategory returns false while any product references the
	// category, or when no such category exists.
	DeleteCategory(ctx context.Context, id uuid.UUID) (bool, error)

	// Products
	GetProducts(ctx context.Context) ([]entities.ProductWithCategory, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*entities.Product, error)
	CreateProduct(ctx context.Context, in entities.NewProductInput) (*entities.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, patch entities.ProductPatch) (*entities.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) (bool, error)
}
