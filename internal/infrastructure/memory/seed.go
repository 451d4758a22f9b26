package memory

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/domain/entities"
)

type seedProduct struct {
	name         string
	description  string
	price        string
	image        string
	categoryName string
	purchaseLink string
}

var seedCategories = []string{"Casa e Jardim", "Eletrônicos", "Roupas"}

var seedProducts = []seedProduct{
	{
		name:         "Smartphone Galaxy",
		description:  "Celular moderno com câmera de alta qualidade",
		price:        "899.99",
		image:        "https://via.placeholder.com/300x300?text=Smartphone",
		categoryName: "Eletrônicos",
		purchaseLink: "https://wa.me/5511999999999?text=Quero%20comprar%20smartphone",
	},
	{
		name:         "Notebook Dell",
		description:  "Laptop para trabalho e estudos",
		price:        "1299.99",
		image:        "https://via.placeholder.com/300x300?text=Notebook",
		categoryName: "Eletrônicos",
		purchaseLink: "https://wa.me/5511999999999?text=Quero%20comprar%20notebook",
	},
	{
		name:         "Camiseta Básica",
		description:  "Camiseta 100% algodão, várias cores",
		price:        "29.99",
		image:        "https://via.placeholder.com/300x300?text=Camiseta",
		categoryName: "Roupas",
		purchaseLink: "https://wa.me/5511999999999?text=Quero%20comprar%20camiseta",
	},
	{
		name:         "Calça Jeans",
		description:  "Calça jeans azul tradicional",
		price:        "89.99",
		image:        "https://via.placeholder.com/300x300?text=Calca",
		categoryName: "Roupas",
		purchaseLink: "https://wa.me/5511999999999?text=Quero%20comprar%20calca",
	},
	{
		name:         "Vaso Decorativo",
		description:  "Vaso de cerâmica para plantas",
		price:        "45.99",
		image:        "https://via.placeholder.com/300x300?text=Vaso",
		categoryName: "Casa e Jardim",
		purchaseLink: "https://wa.me/5511999999999?text=Quero%20comprar%20vaso",
	},
	{
		name:         "Kit Jardinagem",
		description:  "Ferramentas básicas para jardinagem",
		price:        "79.99",
		image:        "https://via.placeholder.com/300x300?text=Kit",
		categoryName: "Casa e Jardim",
		purchaseLink: "https://wa.me/5511999999999?text=Quero%20comprar%20kit",
	},
}

// Seed installs the administrator account and the fixed demo catalog.
func (s *Storage) Seed(ctx context.Context, adminUsername, adminPassword string) error {
	if _, err := s.CreateUser(ctx, adminUsername, adminPassword); err != nil {
		return fmt.Errorf("seed admin user: %w", err)
	}

	categoryIDs := make(map[string]*entities.Category, len(seedCategories))
	for _, name := range seedCategories {
		category, err := s.CreateCategory(ctx, name)
		if err != nil {
			return fmt.Errorf("seed category %q: %w", name, err)
		}
		categoryIDs[name] = category
	}

	for i, sp := range seedProducts {
		category, ok := categoryIDs[sp.categoryName]
		if !ok {
			return fmt.Errorf("seed product %q: unknown category %q", sp.name, sp.categoryName)
		}
		description := sp.description
		purchaseLink := sp.purchaseLink
		product, err := s.CreateProduct(ctx, entities.NewProductInput{
			Name:         sp.name,
			Description:  &description,
			Price:        sp.price,
			Images:       []string{sp.image},
			CategoryID:   category.ID,
			PurchaseLink: &purchaseLink,
		})
		if err != nil {
			return fmt.Errorf("seed product %q: %w", sp.name, err)
		}

		// Spread creation times so newest-first ordering is stable.
		s.mu.Lock()
		stored := s.products[product.ID]
		stored.CreatedAt = stored.CreatedAt.Add(time.Duration(i) * time.Millisecond)
		stored.UpdatedAt = stored.CreatedAt
		s.mu.Unlock()
	}
	return nil
}
