package postgres

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"storefront/internal/domain/entities"
)

type UserModel struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username string    `gorm:"uniqueIndex;not null"`
	Password string    `gorm:"not null"`
}

func (UserModel) TableName() string {
	return "users"
}

type CategoryModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"not null"`
	CreatedAt time.Time
}

func (CategoryModel) TableName() string {
	return "categories"
}

type ProductModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name         string    `gorm:"not null"`
	Description  *string
	Price        string `gorm:"not null"`
	// Images is a JSON-encoded string slice so the same column works on
	// every SQL driver.
	Images       string    `gorm:"type:text;not null"`
	CategoryID   uuid.UUID `gorm:"type:uuid;index"`
	PurchaseLink *string
	Terms        *string
	IsActive     bool `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (ProductModel) TableName() string {
	return "products"
}

func userToModel(user *entities.User) UserModel {
	return UserModel{
		ID:       user.ID,
		Username: user.Username,
		Password: user.Password,
	}
}

func (m *UserModel) toEntity() *entities.User {
	return &entities.User{
		ID:       m.ID,
		Username: m.Username,
		Password: m.Password,
	}
}

func categoryToModel(category *entities.Category) CategoryModel {
	return CategoryModel{
		ID:        category.ID,
		Name:      category.Name,
		CreatedAt: category.CreatedAt,
	}
}

func (m *CategoryModel) toEntity() entities.Category {
	return entities.Category{
		ID:        m.ID,
		Name:      m.Name,
		CreatedAt: m.CreatedAt,
	}
}

func productToModel(product *entities.Product) (ProductModel, error) {
	images, err := json.Marshal(product.Images)
	if err != nil {
		return ProductModel{}, err
	}
	return ProductModel{
		ID:           product.ID,
		Name:         product.Name,
		Description:  product.Description,
		Price:        product.Price,
		Images:       string(images),
		CategoryID:   product.CategoryID,
		PurchaseLink: product.PurchaseLink,
		Terms:        product.Terms,
		IsActive:     product.IsActive,
		CreatedAt:    product.CreatedAt,
		UpdatedAt:    product.UpdatedAt,
	}, nil
}

func (m *ProductModel) toEntity() (*entities.Product, error) {
	images := []string{}
	if m.Images != "" {
		if err := json.Unmarshal([]byte(m.Images), &images); err != nil {
			return nil, err
		}
	}
	if images == nil {
		images = []string{}
	}
	return &entities.Product{
		ID:           m.ID,
		Name:         m.Name,
		Description:  m.Description,
		Price:        m.Price,
		Images:       images,
		CategoryID:   m.CategoryID,
		PurchaseLink: m.PurchaseLink,
		Terms:        m.Terms,
		IsActive:     m.IsActive,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}, nil
}
