package handler

import (
	"net/http"

	"tresetapas/internal/dto"
	"tresetapas/internal/service"

	"github.com/gin-gonic/gin"
)

// CatalogoHandler serves the public storefront. No authentication and no
// cost data.
type CatalogoHandler struct {
	productos  service.ProductoService
	categorias service.CategoriaService
}

func NewCatalogoHandler(productos service.ProductoService, categorias service.CategoriaService) *CatalogoHandler {
	return &CatalogoHandler{productos: productos, categorias: categorias}
}

// Listar godoc
// @Summary Catálogo público
// @Tags catalogo
// @Produce json
// @Param nombre query string false "Búsqueda por nombre"
// @Param categoria_id query string false "UUID de categoría"
// @Success 200 {object} dto.CatalogoListResponse
// @Router /v1/catalogo [get]
func (h *CatalogoHandler) Listar(c *gin.Context) {
	var filter dto.ProductoFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.productos.Catalogo(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Producto godoc
// @Summary Detalle público de producto (cacheado)
// @Tags catalogo
// @Produce json
// @Param id path string true "UUID del producto"
// @Success 200 {object} dto.CatalogoProductoResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/catalogo/{id} [get]
func (h *CatalogoHandler) Producto(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	resp, err := h.productos.CatalogoProducto(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CatalogoHandler) Categorias(c *gin.Context) {
	resp, err := h.categorias.Listar(c.Request.Context(), true)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
