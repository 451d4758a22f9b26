// Package memory implements the storage façade on plain maps. All state is
// lost on restart; it exists for demo deployments and tests.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"storefront/internal/domain/entities"
	"storefront/internal/domain/repositories"
)

type Storage struct {
	mu         sync.RWMutex
	users      map[uuid.UUID]*entities.User
	categories map[uuid.UUID]*entities.Category
	products   map[uuid.UUID]*entities.Product
}

var _ repositories.Storage = (*Storage)(nil)

func NewStorage() *Storage {
	return &Storage{
		users:      make(map[uuid.UUID]*entities.User),
		categories: make(map[uuid.UUID]*entities.Category),
		products:   make(map[uuid.UUID]*entities.Product),
	}
}

// Users

func (s *Storage) GetUser(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	return cloneUser(user), nil
}

func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*entities.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneUser(s.findByUsername(username)), nil
}

func (s *Storage) CreateUser(ctx context.Context, username, password string) (*entities.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findByUsername(username) != nil {
		return nil, repositories.ErrDuplicateUsername
	}

	user := entities.NewUser(username, password)
	if err := user.HashPassword(); err != nil {
		return nil, err
	}
	s.users[user.ID] = user
	return cloneUser(user), nil
}

func (s *Storage) ValidateCredentials(ctx context.Context, username, password string) (*entities.User, error) {
	s.mu.RLock()
	user := s.findByUsername(username)
	s.mu.RUnlock()

	if user == nil {
		return nil, nil
	}
	if !user.CheckPassword(password) {
		return nil, nil
	}
	return cloneUser(user), nil
}

// findByUsername must be called with the lock held.
func (s *Storage) findByUsername(username string) *entities.User {
	for _, user := range s.users {
		if user.Username == username {
			return user
		}
	}
	return nil
}

// Categories

func (s *Storage) GetCategories(ctx context.Context) ([]entities.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	categories := make([]entities.Category, 0, len(s.categories))
	for _, category := range s.categories {
		categories = append(categories, *category)
	}
	entities.SortCategories(categories)
	return categories, nil
}

func (s *Storage) CreateCategory(ctx context.Context, name string) (*entities.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	category := entities.NewCategory(name)
	s.categories[category.ID] = category
	out := *category
	return &out, nil
}

func (s *Storage) UpdateCategory(ctx context.Context, id uuid.UUID, patch entities.CategoryPatch) (*entities.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	category, ok := s.categories[id]
	if !ok {
		return nil, nil
	}
	category.Apply(patch)
	out := *category
	return &out, nil
}

func (s *Storage) DeleteCategory(ctx context.Context, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, product := range s.products {
		if product.CategoryID == id {
			return false, nil
		}
	}
	if _, ok := s.categories[id]; !ok {
		return false, nil
	}
	delete(s.categories, id)
	return true, nil
}

// Products

func (s *Storage) GetProducts(ctx context.Context) ([]entities.ProductWithCategory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make([]entities.ProductWithCategory, 0, len(s.products))
	for _, product := range s.products {
		name := entities.UncategorizedName
		if category, ok := s.categories[product.CategoryID]; ok {
			name = category.Name
		}
		products = append(products, entities.ProductWithCategory{
			Product:      *cloneProduct(product),
			CategoryName: name,
		})
	}
	entities.SortProductsNewestFirst(products)
	return products, nil
}

func (s *Storage) GetProduct(ctx context.Context, id uuid.UUID) (*entities.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	product, ok := s.products[id]
	if !ok {
		return nil, nil
	}
	return cloneProduct(product), nil
}

func (s *Storage) CreateProduct(ctx context.Context, in entities.NewProductInput) (*entities.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product := entities.NewProduct(in)
	s.products[product.ID] = product
	return cloneProduct(product), nil
}

func (s *Storage) UpdateProduct(ctx context.Context, id uuid.UUID, patch entities.ProductPatch) (*entities.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.products[id]
	if !ok {
		return nil, nil
	}
	product.Apply(patch)
	return cloneProduct(product), nil
}

func (s *Storage) DeleteProduct(ctx context.Context, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return false, nil
	}
	delete(s.products, id)
	return true, nil
}

func cloneUser(user *entities.User) *entities.User {
	if user == nil {
		return nil
	}
	out := *user
	return &out
}

func cloneProduct(product *entities.Product) *entities.Product {
	out := *product
	out.Images = append([]string(nil), product.Images...)
	if out.Images == nil {
		out.Images = []string{}
	}
	return &out
}
