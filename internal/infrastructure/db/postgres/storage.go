// Package postgres implements the storage façade on a relational database
// through gorm. Uniqueness and referential checks live in application code,
// not in database constraints, so this backend behaves exactly like the
// in-memory one.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"storefront/internal/domain/entities"
	"storefront/internal/domain/repositories"
)

type Storage struct {
	db *gorm.DB
}

var _ repositories.Storage = (*Storage)(nil)

// Open connects to a PostgreSQL database and migrates the schema.
func Open(dsn string) (*Storage, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	return New(db)
}

// New wraps an existing gorm connection, migrating the schema. Tests use it
// with the sqlite driver.
func New(db *gorm.DB) (*Storage, error) {
	if err := db.AutoMigrate(&UserModel{}, &CategoryModel{}, &ProductModel{}); err != nil {
		return nil, err
	}
	return &Storage{db: db}, nil
}

// Users

func (s *Storage) GetUser(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	var model UserModel
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.toEntity(), nil
}

func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*entities.User, error) {
	var model UserModel
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.toEntity(), nil
}

func (s *Storage) CreateUser(ctx context.Context, username, password string) (*entities.User, error) {
	existing, err := s.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, repositories.ErrDuplicateUsername
	}

	user := entities.NewUser(username, password)
	if err := user.HashPassword(); err != nil {
		return nil, err
	}

	model := userToModel(user)
	if err := s.db.WithContext(ctx).Create(&model).Error; err != nil {
		return nil, err
	}
	return s.GetUser(ctx, user.ID)
}

func (s *Storage) ValidateCredentials(ctx context.Context, username, password string) (*entities.User, error) {
	user, err := s.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}
	if !user.CheckPassword(password) {
		return nil, nil
	}
	return user, nil
}

// Categories

func (s *Storage) GetCategories(ctx context.Context) ([]entities.Category, error) {
	var models []CategoryModel
	if err := s.db.WithContext(ctx).Find(&models).Error; err != nil {
		return nil, err
	}
	categories := make([]entities.Category, 0, len(models))
	for i := range models {
		categories = append(categories, models[i].toEntity())
	}
	entities.SortCategories(categories)
	return categories, nil
}

func (s *Storage) CreateCategory(ctx context.Context, name string) (*entities.Category, error) {
	category := entities.NewCategory(name)
	model := categoryToModel(category)
	if err := s.db.WithContext(ctx).Create(&model).Error; err != nil {
		return nil, err
	}
	out := model.toEntity()
	return &out, nil
}

func (s *Storage) UpdateCategory(ctx context.Context, id uuid.UUID, patch entities.CategoryPatch) (*entities.Category, error) {
	var model CategoryModel
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	category := model.toEntity()
	category.Apply(patch)
	model = categoryToModel(&category)
	if err := s.db.WithContext(ctx).Save(&model).Error; err != nil {
		return nil, err
	}
	out := model.toEntity()
	return &out, nil
}

func (s *Storage) DeleteCategory(ctx context.Context, id uuid.UUID) (bool, error) {
	deleted := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var referencing int64
		if err := tx.Model(&ProductModel{}).Where("category_id = ?", id).Count(&referencing).Error; err != nil {
			return err
		}
		if referencing > 0 {
			return nil
		}
		result := tx.Where("id = ?", id).Delete(&CategoryModel{})
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

// Products

// productRow is the left-join read model row.
type productRow struct {
	ID           uuid.UUID
	Name         string
	Description  *string
	Price        string
	Images       string
	CategoryID   uuid.UUID
	PurchaseLink *string
	Terms        *string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
	CategoryName *string
}

func (s *Storage) GetProducts(ctx context.Context) ([]entities.ProductWithCategory, error) {
	var rows []productRow
	err := s.db.WithContext(ctx).
		Table("products").
		Select("products.*, categories.name AS category_name").
		Joins("LEFT JOIN categories ON categories.id = products.category_id").
		Order("products.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	products := make([]entities.ProductWithCategory, 0, len(rows))
	for i := range rows {
		row := &rows[i]
		model := ProductModel{
			ID:           row.ID,
			Name:         row.Name,
			Description:  row.Description,
			Price:        row.Price,
			Images:       row.Images,
			CategoryID:   row.CategoryID,
			PurchaseLink: row.PurchaseLink,
			Terms:        row.Terms,
			IsActive:     row.IsActive,
			CreatedAt:    row.CreatedAt,
			UpdatedAt:    row.UpdatedAt,
		}
		product, err := model.toEntity()
		if err != nil {
			return nil, err
		}
		name := entities.UncategorizedName
		if row.CategoryName != nil {
			name = *row.CategoryName
		}
		products = append(products, entities.ProductWithCategory{
			Product:      *product,
			CategoryName: name,
		})
	}
	entities.SortProductsNewestFirst(products)
	return products, nil
}

func (s *Storage) GetProduct(ctx context.Context, id uuid.UUID) (*entities.Product, error) {
	var model ProductModel
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.toEntity()
}

func (s *Storage) CreateProduct(ctx context.Context, in entities.NewProductInput) (*entities.Product, error) {
	product := entities.NewProduct(in)
	model, err := productToModel(product)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(&model).Error; err != nil {
		return nil, err
	}
	return s.GetProduct(ctx, product.ID)
}

func (s *Storage) UpdateProduct(ctx context.Context, id uuid.UUID, patch entities.ProductPatch) (*entities.Product, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil || product == nil {
		return nil, err
	}

	product.Apply(patch)
	model, err := productToModel(product)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Save(&model).Error; err != nil {
		return nil, err
	}
	return s.GetProduct(ctx, id)
}

func (s *Storage) DeleteProduct(ctx context.Context, id uuid.UUID) (bool, error) {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&ProductModel{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
