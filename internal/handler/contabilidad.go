package handler

import (
	"fmt"
	"net/http"
	"time"

	"tresetapas/internal/dto"
	"tresetapas/internal/service"

	"github.com/gin-gonic/gin"
)

type ContabilidadHandler struct{ svc service.ContabilidadService }

func NewContabilidadHandler(svc service.ContabilidadService) *ContabilidadHandler {
	return &ContabilidadHandler{svc: svc}
}

// Resumen godoc
// @Summary Resumen contable de pedidos entregados
// @Description Venta, costo y ganancia por pedido y totales. Costos estimados a partir del margen se marcan.
// @Tags contabilidad
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.ContabilidadResponse
// @Router /v1/contabilidad [get]
func (h *ContabilidadHandler) Resumen(c *gin.Context) {
	resp, err := h.svc.Resumen(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Detalle godoc
// @Summary Detalle contable de un pedido entregado
// @Tags contabilidad
// @Security BearerAuth
// @Produce json
// @Param id path string true "UUID del pedido"
// @Success 200 {object} dto.DetalleContableResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/contabilidad/pedidos/{id} [get]
func (h *ContabilidadHandler) Detalle(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Detalle(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ContabilidadHandler) ExportarCSV(c *gin.Context) {
	data, err := h.svc.ExportarCSV(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	nombre := fmt.Sprintf("contabilidad_%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+nombre+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

// ── Almacén ───────────────────────────────────────────────────────────────────

type AlmacenHandler struct{ svc service.AlmacenService }

func NewAlmacenHandler(svc service.AlmacenService) *AlmacenHandler {
	return &AlmacenHandler{svc: svc}
}

// Rotacion godoc
// @Summary Rotación de productos
// @Description Unidades vendidas en pedidos entregados dentro de la ventana: alta ≥ 50, media ≥ 10, baja ≥ 1.
// @Tags almacen
// @Security BearerAuth
// @Produce json
// @Param dias query int false "Ventana en días (default 30, max 365)"
// @Success 200 {object} dto.RotacionResponse
// @Router /v1/almacen/rotacion [get]
func (h *AlmacenHandler) Rotacion(c *gin.Context) {
	var filter dto.RotacionFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.Rotacion(c.Request.Context(), filter.Dias)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
