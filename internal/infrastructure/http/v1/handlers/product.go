package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"galen/internal/core/batch"
	"galen/internal/domain"
	"galen/internal/domain/catalogs/product"
	"galen/internal/infrastructure/http/v1/dto"
)

// ProductCatalogHandler is a type alias to keep signatures readable.
type ProductCatalogHandler = CatalogHandler[
	*product.Product,
	dto.CreateProductRequest,
	dto.UpdateProductRequest,
]

// ProductHandler extends the generic catalog handler with
// product-specific endpoints.
type ProductHandler struct {
	*ProductCatalogHandler
	service *product.Service
}

// NewProductHandler is a factory hiding the generic configuration from the router.
func NewProductHandler(
	base *BaseHandler,
	service *product.Service,
) *ProductHandler {

	config := CatalogHandlerConfig[
		*product.Product,
		dto.CreateProductRequest,
		dto.UpdateProductRequest,
	]{
		Service:    service.CatalogService,
		EntityName: "product",

		MapCreateDTO: func(req dto.CreateProductRequest) *product.Product {
			return req.ToEntity()
		},

		MapUpdateDTO: func(req dto.UpdateProductRequest, existing *product.Product) *product.Product {
			req.ApplyTo(existing)
			return existing
		},

		MapToDTO: func(entity *product.Product) any {
			return dto.FromProduct(entity)
		},
	}

	return &ProductHandler{
		ProductCatalogHandler: NewCatalogHandler(base, config),
		service:               service,
	}
}

// ListByCategory handles GET /products/by-category/:category.
func (h *ProductHandler) ListByCategory(c *gin.Context) {
	ctx := c.Request.Context()

	category := batch.Category(c.Param("category"))

	filter := domain.DefaultListFilter()
	filter.Search = c.Query("search")
	filter.Limit = h.ParseIntQuery(c, "limit", 50)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)
	filter.OrderBy = c.DefaultQuery("orderBy", "name")

	result, err := h.service.ListByCategory(ctx, category, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]any, len(result.Items))
	for i, item := range result.Items {
		items[i] = dto.FromProduct(item)
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}
