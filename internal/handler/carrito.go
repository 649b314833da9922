package handler

import (
	"net/http"

	"tresetapas/internal/apierror"
	"tresetapas/internal/dto"
	"tresetapas/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CarritoHandler exposes the storefront cart. The client owns the cart ID
// (a UUID it generates and keeps).
type CarritoHandler struct{ svc service.CarritoService }

func NewCarritoHandler(svc service.CarritoService) *CarritoHandler {
	return &CarritoHandler{svc: svc}
}

func carritoID(c *gin.Context) (string, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID de carrito invalido"))
		return "", false
	}
	return id.String(), true
}

func (h *CarritoHandler) Obtener(c *gin.Context) {
	id, ok := carritoID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Agregar godoc
// @Summary Agregar producto al carrito
// @Tags carrito
// @Accept json
// @Produce json
// @Param id path string true "UUID del carrito"
// @Param body body dto.AgregarCarritoRequest true "Producto y cantidad"
// @Success 200 {object} dto.CarritoResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/carrito/{id}/items [post]
func (h *CarritoHandler) Agregar(c *gin.Context) {
	id, ok := carritoID(c)
	if !ok {
		return
	}
	var req dto.AgregarCarritoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Agregar(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CarritoHandler) ActualizarCantidad(c *gin.Context) {
	id, ok := carritoID(c)
	if !ok {
		return
	}
	productoID, ok := paramID(c, "producto_id")
	if !ok {
		return
	}
	var req dto.ActualizarCantidadRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ActualizarCantidad(c.Request.Context(), id, productoID, req.Cantidad)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CarritoHandler) Quitar(c *gin.Context) {
	id, ok := carritoID(c)
	if !ok {
		return
	}
	productoID, ok := paramID(c, "producto_id")
	if !ok {
		return
	}
	resp, err := h.svc.Quitar(c.Request.Context(), id, productoID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CarritoHandler) Vaciar(c *gin.Context) {
	id, ok := carritoID(c)
	if !ok {
		return
	}
	if err := h.svc.Vaciar(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Checkout godoc
// @Summary Confirmar el carrito como pedido
// @Tags carrito
// @Accept json
// @Produce json
// @Param id path string true "UUID del carrito"
// @Param body body dto.CheckoutRequest true "Pago y cliente"
// @Success 201 {object} dto.PedidoResponse
// @Failure 400 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/carrito/{id}/checkout [post]
func (h *CarritoHandler) Checkout(c *gin.Context) {
	id, ok := carritoID(c)
	if !ok {
		return
	}
	var req dto.CheckoutRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Checkout(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
