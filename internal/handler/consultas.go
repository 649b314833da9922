package handler

import (
	"net/http"

	"tresetapas/internal/dto"
	"tresetapas/internal/service"

	"github.com/gin-gonic/gin"
)

type ConsultasHandler struct{ svc service.ConsultaService }

func NewConsultasHandler(svc service.ConsultaService) *ConsultasHandler {
	return &ConsultasHandler{svc: svc}
}

// Crear godoc
// @Summary Solicitar asesoría (público)
// @Tags consultas
// @Accept json
// @Produce json
// @Param body body dto.CrearConsultaRequest true "Datos de contacto"
// @Success 201 {object} dto.ConsultaResponse
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/consultas [post]
func (h *ConsultasHandler) Crear(c *gin.Context) {
	var req dto.CrearConsultaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ConsultasHandler) Listar(c *gin.Context) {
	var filter dto.ConsultaFilter
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

func (h *ConsultasHandler) MarcarContactada(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.MarcarContactada(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
