package httpapi

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"storefront/internal/domain/entities"
)

func paramID(c echo.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	return id, err == nil
}

// Categories (admin)

func (h *Handler) ListCategories(c echo.Context) error {
	categories, err := h.storage.GetCategories(c.Request().Context())
	if err != nil {
		return h.internalError(c, "list categories", err)
	}
	return c.JSON(http.StatusOK, categories)
}

type createCategoryRequest struct {
	Name string `json:"name"`
}

func (h *Handler) CreateCategory(c echo.Context) error {
	var req createCategoryRequest
	if err := c.Bind(&req); err != nil {
		return h.jsonError(c, http.StatusBadRequest, "Invalid input")
	}
	if req.Name == "" {
		return h.jsonError(c, http.StatusBadRequest, "Invalid input", "Name is required")
	}

	category, err := h.storage.CreateCategory(c.Request().Context(), req.Name)
	if err != nil {
		return h.internalError(c, "create category", err)
	}
	return c.JSON(http.StatusCreated, category)
}

func (h *Handler) UpdateCategory(c echo.Context) error {
	id, ok := paramID(c)
	if !ok {
		return h.jsonError(c, http.StatusBadRequest, "Invalid id")
	}

	var patch entities.CategoryPatch
	if err := c.Bind(&patch); err != nil {
		return h.jsonError(c, http.StatusBadRequest, "Invalid input")
	}

	category, err := h.storage.UpdateCategory(c.Request().Context(), id, patch)
	if err != nil {
		return h.internalError(c, "update category", err)
	}
	if category == nil {
		return h.jsonError(c, http.StatusNotFound, "Category not found")
	}
	return c.JSON(http.StatusOK, category)
}

func (h *Handler) DeleteCategory(c echo.Context) error {
	id, ok := paramID(c)
	if !ok {
		return h.jsonError(c, http.StatusBadRequest, "Invalid id")
	}

	deleted, err := h.storage.DeleteCategory(c.Request().Context(), id)
	if err != nil {
		return h.internalError(c, "delete category", err)
	}
	if !deleted {
		return h.jsonError(c, http.StatusConflict, "Cannot delete category with products")
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Category deleted"})
}

// Products (admin)

func (h *Handler) ListProducts(c echo.Context) error {
	products, err := h.storage.GetProducts(c.Request().Context())
	if err != nil {
		return h.internalError(c, "list products", err)
	}
	return c.JSON(http.StatusOK, products)
}

func (h *Handler) CreateProduct(c echo.Context) error {
	var in entities.NewProductInput
	if err := c.Bind(&in); err != nil {
		return h.jsonError(c, http.StatusBadRequest, "Invalid input")
	}

	var details []string
	if in.Name == "" {
		details = append(details, "Name is required")
	}
	if err := entities.ValidatePrice(in.Price); err != nil {
		details = append(details, "Price must be a valid decimal amount")
	}
	if len(details) > 0 {
		return h.jsonError(c, http.StatusBadRequest, "Invalid input", details...)
	}

	product, err := h.storage.CreateProduct(c.Request().Context(), in)
	if err != nil {
		return h.internalError(c, "create product", err)
	}
	return c.JSON(http.StatusCreated, product)
}

func (h *Handler) UpdateProduct(c echo.Context) error {
	id, ok := paramID(c)
	if !ok {
		return h.jsonError(c, http.StatusBadRequest, "Invalid id")
	}

	var patch entities.ProductPatch
	if err := c.Bind(&patch); err != nil {
		return h.jsonError(c, http.StatusBadRequest, "Invalid input")
	}
	if patch.Price != nil {
		if err := entities.ValidatePrice(*patch.Price); err != nil {
			return h.jsonError(c, http.StatusBadRequest, "Invalid input", "Price must be a valid decimal amount")
		}
	}

	product, err := h.storage.UpdateProduct(c.Request().Context(), id, patch)
	if err != nil {
		return h.internalError(c, "update product", err)
	}
	if product == nil {
		return h.jsonError(c, http.StatusNotFound, "Product not found")
	}
	return c.JSON(http.StatusOK, product)
}

func (h *Handler) DeleteProduct(c echo.Context) error {
	id, ok := paramID(c)
	if !ok {
		return h.jsonError(c, http.StatusBadRequest, "Invalid id")
	}

	deleted, err := h.storage.DeleteProduct(c.Request().Context(), id)
	if err != nil {
		return h.internalError(c, "delete product", err)
	}
	if !deleted {
		return h.jsonError(c, http.StatusNotFound, "Product not found")
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Product deleted"})
}

// Store (public)

// StoreProducts lists only active products for customers.
func (h *Handler) StoreProducts(c echo.Context) error {
	products, err := h.storage.GetProducts(c.Request().Context())
	if err != nil {
		return h.internalError(c, "list store products", err)
	}

	active := make([]entities.ProductWithCategory, 0, len(products))
	for _, product := range products {
		if product.IsActive {
			active = append(active, product)
		}
	}
	return c.JSON(http.StatusOK, active)
}

func (h *Handler) StoreCategories(c echo.Context) error {
	categories, err := h.storage.GetCategories(c.Request().Context())
	if err != nil {
		return h.internalError(c, "list store categories", err)
	}
	return c.JSON(http.StatusOK, categories)
}
