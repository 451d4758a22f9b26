// Package storagetest holds the contract suite every storage backend must
// pass. Running the same suite against the in-memory and relational
// implementations is what keeps them observably equivalent.
package storagetest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain/entities"
	"storefront/internal/domain/repositories"
)

// Factory returns a fresh, empty storage backend for one subtest.
type Factory func(t *testing.T) repositories.Storage

func strptr(s string) *string { return &s }

func boolptr(b bool) *bool { return &b }

// Run executes the full contract against the backend the factory builds.
func Run(t *testing.T, factory Factory) {
	t.Run("UserCredentialRoundTrip", func(t *testing.T) {
		ctx := context.Background()
		store := factory(t)

		created, err := store.CreateUser(ctx, "admin@example.com", "super-secret")
		require.NoError(t, err)
		require.NotNil(t, created)
		assert.NotEqual(t, uuid.Nil, created.ID)
		assert.NotEqual(t, "super-secret", created.Password, "password must be stored hashed")

		valid, err := store.ValidateCredentials(ctx, "admin@example.com", "super-secret")
		require.NoError(t, err)
		require.NotNil(t, valid)
		assert.Equal(t, created.ID, valid.ID)

		wrong, err := store.ValidateCredentials(ctx, "admin@example.com", "wrong-password")
		require.NoError(t, err)
		assert.Nil(t, wrong)

		unknown, err := store.ValidateCredentials(ctx, "nobody@example.com", "super-secret")
		require.NoError(t, err)
		assert.Nil(t, unknown)
	})

	t.Run("UserLookups", func(t *testing.T) {
		ctx := context.Background()
		store := factory(t)

		created, err := store.CreateUser(ctx, "admin@example.com", "super-secret")
		require.NoError(t, err)

		byID, err := store.GetUser(ctx, created.ID)
		require.NoError(t, err)
		require.NotNil(t, byID)
		assert.Equal(t, "admin@example.com", byID.Username)

		byUsername, err := store.GetUserByUsername(ctx, "admin@example.com")
		require.NoError(t, err)
		require.NotNil(t, byUsername)
		assert.Equal(t, created.ID, byUsername.ID)

		missing, err := store.GetUser(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("DuplicateUsername", func(t *testing.T) {
		ctx := context.Background()
		store := factory(t)

		_, err := store.CreateUser(ctx, "admin@example.com", "original")
		require.NoError(t, err)

		_, err = store.CreateUser(ctx, "admin@example.com", "other")
		assert.ErrorIs(t, err, repositories.ErrDuplicateUsername)

		// The failed creation must not have touched the stored record.
		valid, err := store.ValidateCredentials(ctx, "admin@example.com", "original")
		require.NoError(t, err)
		assert.NotNil(t, valid)
	})

	t.Run("CategoriesSortedByName", func(t *testing.T) {
		ctx := context.Background()
		store := factory(t)

		for _, name := range []string{"Roupas", "Casa e Jardim", "Eletrônicos"} {
			_, err := store.CreateCategory(ctx, name)
			require.NoError(t, err)
		}

		categories, err := store.GetCategories(ctx)
		require.NoError(t, err)
		require.Len(t, categories, 3)
		assert.Equal(t, "Casa e Jardim", categories[0].Name)
		assert.Equal(t, "Eletrônicos", categories[1].Name)
		assert.Equal(t, "Roupas", categories[2].Name)
	})

	t.Run("AccentedCategoryOrdering", func(t *testing.T) {
		ctx := context.Background()
		store := factory(t)

		for _, name := range []string{"Roupas", "Óculos", "Bolsas", "Água"} {
			_, err := store.CreateCategory(ctx, name)
			require.NoError(t, err)
		}

		categories, err := store.GetCategories(ctx)
		require.NoError(t, err)
		require.Len(t, categories, 4)

		// pt-BR collation: accented initials sort with their base letter,
		// not after the ASCII range.
		names := make([]string, len(categories))
		for i, category := range categories {
			names[i] = category.Name
		}
		assert.Equal(t, []string{"Água", "Bolsas", "Óculos", "Roupas"}, names)
	})

	t.Run("UpdateCategory", func(t *testing.T) {
		ctx := context.Background()
		store := factory(t)

		category, err := store.CreateCategory(ctx, "Livros")
		require.NoError(t, err)

		renamed, err := store.UpdateCategory(ctx, category.ID, entities.CategoryPatch{Name: strptr("Livros e Revistas")})
		require.NoError(t, err)
		require.NotNil(t, renamed)
		assert.Equal(t, "Livros e Revistas", renamed.Name)
		assert.Equal(t, category.ID, renamed.ID)

		missing, err := store.UpdateCategory(ctx, uuid.New(), entities.CategoryPatch{Name: strptr("x")})
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("DeleteCategoryGuard", func(t *testing.T) {
		ctx := context.Background()
		store := factory(t)

		category, err := store.CreateCategory(ctx, "Eletrônicos")
		require.NoError(t, err)
		product, err := store.CreateProduct(ctx, entities.NewProductInput{
			Name:       "Smartphone",
			Price:      "899.99",
			CategoryID: category.ID,
		})
		require.NoError(t, err)

		deleted, err := store.DeleteCategory(ctx, category.ID)
		require.NoError(t, err)
		assert.False(t, deleted, "category with products must not be deletable")

		categories, err := store.GetCategories(ctx)
		require.NoError(t, err)
		require.Len(t, categories, 1)

		removed, err := store.DeleteProduct(ctx, product.ID)
		require.NoError(t, err)
		assert.True(t, removed)

		deleted, err = store.DeleteCategory(ctx, category.ID)
		require.NoError(t, err)
		assert.True(t, deleted)

		categories, err = store.GetCategories(ctx)
		require.NoError(t, err)
		assert.Empty(t, categories)

		// Deleting it again reports false.
		deleted, err = store.DeleteCategory(ctx, category.ID)
		require.NoError(t, err)
		assert.False(t, deleted)
	})

	t.Run("ProductDefaultsAndRoundTrip", func(t *testing.T) {
		ctx := context.Background()
		store := factory(t)

		category, err := store.CreateCategory(ctx, "Roupas")
		require.NoError(t, err)

		created, err := store.CreateProduct(ctx, entities.NewProductInput{
			Name:       "Camiseta Básica",
			Price:      "29.99",
			CategoryID: category.ID,
		})
		require.NoError(t, err)
		assert.True(t, created.IsActive, "isActive defaults to true")
		assert.NotNil(t, created.Images)
		assert.Empty(t, created.Images)
		assert.Nil(t, created.Description)
		assert.Nil(t, created.PurchaseLink)
		assert.Nil(t, created.Terms)
		assert.False(t, created.CreatedAt.IsZero())
		assert.False(t, created.UpdatedAt.IsZero())

		full, err := store.CreateProduct(ctx, entities.NewProductInput{
			Name:         "Calça Jeans",
			Description:  strptr("Calça jeans azul tradicional"),
			Price:        "89.99",
			Images:       []string{"https://example.com/calca.jpg"},
			CategoryID:   category.ID,
			PurchaseLink: strptr("https://wa.me/5511999999999"),
			Terms:        strptr("Sem trocas"),
			IsActive:     boolptr(false),
		})
		require.NoError(t, err)

		got, err := store.GetProduct(ctx, full.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Calça Jeans", got.Name)
		require.NotNil(t, got.Description)
		assert.Equal(t, "Calça jeans azul tradicional", *got.Description)
		assert.Equal(t, "89.99", got.Price)
		assert.Equal(t, []string{"https://example.com/calca.jpg"}, got.Images)
		assert.Equal(t, category.ID, got.CategoryID)
		require.NotNil(t, got.PurchaseLink)
		assert.Equal(t, "https://wa.me/5511999999999", *got.PurchaseLink)
		require.NotNil(t, got.Terms)
		assert.Equal(t, "Sem trocas", *got.Terms)
		assert.False(t, got.IsActive)
	})

	t.Run("ProductListingJoinAndOrder", func(t *testing.T) {
		ctx := context.Background()
		store := factory(t)

		category, err := store.CreateCategory(ctx, "Eletrônicos")
		require.NoError(t, err)

		first, err := store.CreateProduct(ctx, entities.NewProductInput{
			Name:       "Smartphone",
			Price:      "899.99",
			CategoryID: category.ID,
		})
		require.NoError(t, err)
		time.Sleep(5 * time.Millisecond)
		second, err := store.CreateProduct(ctx, entities.NewProductInput{
			Name:       "Notebook",
			Price:      "1299.99",
			CategoryID: category.ID,
		})
		require.NoError(t, err)
		time.Sleep(5 * time.Millisecond)
		dangling, err := store.CreateProduct(ctx, entities.NewProductInput{
			Name:       "Fone Antigo",
			Price:      "9.99",
			CategoryID: uuid.New(),
		})
		require.NoError(t, err)

		products, err := store.GetProducts(ctx)
		require.NoError(t, err)
		require.Len(t, products, 3)

		// Newest first.
		assert.Equal(t, dangling.ID, products[0].ID)
		assert.Equal(t, second.ID, products[1].ID)
		assert.Equal(t, first.ID, products[2].ID)

		assert.Equal(t, entities.UncategorizedName, products[0].CategoryName)
		assert.Equal(t, "Eletrônicos", products[1].CategoryName)
		assert.Equal(t, "Eletrônicos", products[2].CategoryName)
	})

	t.Run("PartialProductUpdate", func(t *testing.T) {
		ctx := context.Background()
		store := factory(t)

		category, err := store.CreateCategory(ctx, "Casa e Jardim")
		require.NoError(t, err)
		created, err := store.CreateProduct(ctx, entities.NewProductInput{
			Name:        "Vaso Decorativo",
			Description: strptr("Vaso de cerâmica para plantas"),
			Price:       "45.99",
			Images:      []string{"https://example.com/vaso.jpg"},
			CategoryID:  category.ID,
		})
		require.NoError(t, err)

		time.Sleep(5 * time.Millisecond)
		updated, err := store.UpdateProduct(ctx, created.ID, entities.ProductPatch{IsActive: boolptr(false)})
		require.NoError(t, err)
		require.NotNil(t, updated)

		assert.False(t, updated.IsActive)
		assert.Equal(t, "Vaso Decorativo", updated.Name)
		require.NotNil(t, updated.Description)
		assert.Equal(t, "Vaso de cerâmica para plantas", *updated.Description)
		assert.Equal(t, "45.99", updated.Price)
		assert.Equal(t, []string{"https://example.com/vaso.jpg"}, updated.Images)
		assert.True(t, updated.UpdatedAt.After(created.UpdatedAt), "update must refresh updatedAt")

		missing, err := store.UpdateProduct(ctx, uuid.New(), entities.ProductPatch{IsActive: boolptr(false)})
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("DeleteProduct", func(t *testing.T) {
		ctx := context.Background()
		store := factory(t)

		category, err := store.CreateCategory(ctx, "Roupas")
		require.NoError(t, err)
		product, err := store.CreateProduct(ctx, entities.NewProductInput{
			Name:       "Camiseta",
			Price:      "29.99",
			CategoryID: category.ID,
		})
		require.NoError(t, err)

		deleted, err := store.DeleteProduct(ctx, product.ID)
		require.NoError(t, err)
		assert.True(t, deleted)

		got, err := store.GetProduct(ctx, product.ID)
		require.NoError(t, err)
		assert.Nil(t, got)

		deleted, err = store.DeleteProduct(ctx, product.ID)
		require.NoError(t, err)
		assert.False(t, deleted)
	})

	t.Run("DuplicateCategoryNamesCoexist", func(t *testing.T) {
		ctx := context.Background()
		store := factory(t)

		first, err := store.CreateCategory(ctx, "Roupas")
		require.NoError(t, err)
		second, err := store.CreateCategory(ctx, "Roupas")
		require.NoError(t, err)
		assert.NotEqual(t, first.ID, second.ID)

		categories, err := store.GetCategories(ctx)
		require.NoError(t, err)
		assert.Len(t, categories, 2)
	})
}
