package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"tresetapas/internal/apierror"
	"tresetapas/internal/dto"
	"tresetapas/internal/infra"
	"tresetapas/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	mimePDF  = "application/pdf"
)

type PedidosHandler struct{ svc service.PedidoService }

func NewPedidosHandler(svc service.PedidoService) *PedidosHandler {
	return &PedidosHandler{svc: svc}
}

// Crear godoc
// @Summary Crear pedido (tienda en línea)
// @Description Precios y costos se congelan en cada línea; el stock se descuenta en la misma transacción.
// @Tags pedidos
// @Accept json
// @Produce json
// @Param body body dto.CrearPedidoRequest true "Pedido"
// @Success 201 {object} dto.PedidoResponse
// @Failure 400 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/pedidos [post]
func (h *PedidosHandler) Crear(c *gin.Context) {
	var req dto.CrearPedidoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearPedido(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Seguimiento godoc
// @Summary Consultar un pedido por su código (público)
// @Tags pedidos
// @Produce json
// @Param codigo path string true "Código del pedido"
// @Success 200 {object} dto.PedidoResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/pedidos/seguimiento/{codigo} [get]
func (h *PedidosHandler) Seguimiento(c *gin.Context) {
	resp, err := h.svc.ObtenerPorCodigo(c.Request.Context(), c.Param("codigo"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PedidosHandler) Listar(c *gin.Context) {
	var filter dto.PedidoFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PedidosHandler) ObtenerPorID(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerPorID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ActualizarEstado godoc
// @Summary Avanzar el estado de un pedido
// @Description solicitado → en-proceso → entregado. No se permite retroceder.
// @Tags pedidos
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "UUID del pedido"
// @Param body body dto.ActualizarEstadoRequest true "Nuevo estado"
// @Success 200 {object} dto.PedidoResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/pedidos/{id}/estado [patch]
func (h *PedidosHandler) ActualizarEstado(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.ActualizarEstadoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ActualizarEstado(c.Request.Context(), id, req.Estado)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PedidosHandler) Pendientes(c *gin.Context) {
	n, err := h.svc.ContarPendientes(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.PendientesResponse{Pendientes: n})
}

// Exportar godoc
// @Summary Exportar pedidos a Excel
// @Tags pedidos
// @Security BearerAuth
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param estado query string true "solicitado | en-proceso | entregado"
// @Success 200 {file} file
// @Router /v1/pedidos/exportar [get]
func (h *PedidosHandler) Exportar(c *gin.Context) {
	var filter dto.ExportarPedidosFilter
	if !bindQuery(c, &filter) {
		return
	}
	var buf bytes.Buffer
	if err := h.svc.ExportarXLSX(c.Request.Context(), filter.Estado, &buf); err != nil {
		respondError(c, err)
		return
	}
	nombre := fmt.Sprintf("pedidos_%s_%s.xlsx", infra.HojaPedidos(filter.Estado), time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+nombre+`"`)
	c.Data(http.StatusOK, mimeXLSX, buf.Bytes())
}

// Recibo godoc
// @Summary Recibo PDF de un pedido
// @Tags pedidos
// @Security BearerAuth
// @Produce application/pdf
// @Param id path string true "UUID del pedido"
// @Success 200 {file} file
// @Failure 404 {object} apierror.APIError
// @Router /v1/pedidos/{id}/recibo [get]
func (h *PedidosHandler) Recibo(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var buf bytes.Buffer
	p, err := h.svc.Recibo(c.Request.Context(), id, &buf)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `inline; filename="recibo_`+p.Codigo+`.pdf"`)
	c.Data(http.StatusOK, mimePDF, buf.Bytes())
}

// ── Ventas de mostrador ──────────────────────────────────────────────────────

type VentasHandler struct{ svc service.PedidoService }

func NewVentasHandler(svc service.PedidoService) *VentasHandler { return &VentasHandler{svc: svc} }

// Registrar godoc
// @Summary Registrar venta de mostrador
// @Tags ventas
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body dto.CrearPedidoRequest true "Venta"
// @Success 201 {object} dto.PedidoResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/ventas [post]
func (h *VentasHandler) Registrar(c *gin.Context) {
	claims := claimsOrAbort(c)
	if claims == nil {
		return
	}
	usuarioID, err := claims.UsuarioID()
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New("Token mal formado"))
		return
	}
	var req dto.CrearPedidoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegistrarVentaMostrador(c.Request.Context(), usuarioID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
