package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/evdbrink/freezer-storage-api/internal/model"
	"github.com/evdbrink/freezer-storage-api/internal/repository"
)

// ProductController handles HTTP requests for the product catalog.
type ProductController struct {
	products repository.ProductRepository
}

// NewProductController creates a new ProductController.
func NewProductController(products repository.ProductRepository) *ProductController {
	return &ProductController{products: products}
}

// ProductBody is the wire shape of a product.
type ProductBody struct {
	ProductID        int64  `json:"productId"`
	Name             string `json:"name"`
	ExpirationMonths int    `json:"expirationMonths"`
}

// CreateProductRequest represents the request body for creating a product.
// ExpirationMonths defaults to six months when omitted.
type CreateProductRequest struct {
	Name             string `json:"name" binding:"required,max=50"`
	ExpirationMonths *int   `json:"expirationMonths" binding:"omitempty,min=0"`
}

// ListProducts handles GET /products, optionally scoped to one product via
// the name query parameter. Product names are globally unique so a name
// match yields at most one element. An empty value counts as absent.
func (pc *ProductController) ListProducts(c *gin.Context) {
	if name := c.Query("name"); name != "" {
		product, err := pc.products.FindByName(c.Request.Context(), name)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, []ProductBody{toProductBody(product)})
		return
	}

	products, err := pc.products.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toProductBodies(products))
}

// GetProduct handles GET /products/:id.
func (pc *ProductController) GetProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.String(http.StatusBadRequest, "invalid product ID")
		return
	}

	product, err := pc.products.FindByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toProductBody(product))
}

// CreateProduct handles POST /products.
func (pc *ProductController) CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	product := &model.Product{
		Name:             req.Name,
		ExpirationMonths: model.DefaultExpirationMonths,
	}
	if req.ExpirationMonths != nil {
		product.ExpirationMonths = *req.ExpirationMonths
	}

	created, err := pc.products.Create(c.Request.Context(), product)
	if err != nil {
		var uniqueErr *repository.UniqueConstraintError
		if errors.As(err, &uniqueErr) {
			c.String(http.StatusInternalServerError, "This product name already exists")
			return
		}
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toProductBody(created))
}

// UpdateProduct handles PATCH /products. The product ID must not change.
func (pc *ProductController) UpdateProduct(c *gin.Context) {
	var req ProductBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	product := &model.Product{
		ID:               req.ProductID,
		Name:             req.Name,
		ExpirationMonths: req.ExpirationMonths,
	}

	updated, err := pc.products.Update(c.Request.Context(), product)
	if err != nil {
		var uniqueErr *repository.UniqueConstraintError
		if errors.As(err, &uniqueErr) {
			c.String(http.StatusInternalServerError, "This product name already exists")
			return
		}
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toProductBody(updated))
}

// DeleteProduct handles DELETE /products/:id.
func (pc *ProductController) DeleteProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.String(http.StatusBadRequest, "invalid product ID")
		return
	}

	if err := pc.products.DeleteByID(c.Request.Context(), id); err != nil {
		var notFoundErr *repository.NotFoundError
		if errors.As(err, &notFoundErr) {
			c.String(http.StatusInternalServerError, "This product id does not exist")
			return
		}
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, id)
}

func toProductBody(product *model.Product) ProductBody {
	return ProductBody{
		ProductID:        product.ID,
		Name:             product.Name,
		ExpirationMonths: product.ExpirationMonths,
	}
}

func toProductBodies(products []model.Product) []ProductBody {
	bodies := make([]ProductBody, 0, len(products))
	for i := range products {
		bodies = append(bodies, toProductBody(&products[i]))
	}
	return bodies
}
