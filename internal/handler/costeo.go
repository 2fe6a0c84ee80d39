package handler

import (
	"net/http"

	"saborpos/internal/dto"
	"saborpos/internal/service"

	"github.com/gin-gonic/gin"
)

type CosteoHandler struct{ svc service.CosteoService }

func NewCosteoHandler(svc service.CosteoService) *CosteoHandler {
	return &CosteoHandler{svc: svc}
}

// Desglose godoc
// @Summary Desglose de precio de un producto (calculo en vivo, con cache)
// @Tags costeo
// @Produce json
// @Param producto_id path string true "Producto ID"
// @Success 200 {object} dto.DesgloseResponse
// @Failure 404 {object} apierror.APIError
// @Failure 422 {object} apierror.APIError
// @Router /v1/costeo/{producto_id} [get]
func (h *CosteoHandler) Desglose(c *gin.Context) {
	id, ok := parseID(c, "producto_id")
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerDesglose(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListarDesgloses GET /v1/costeo
// Prices every active product against a single cost-type snapshot.
func (h *CosteoHandler) ListarDesgloses(c *gin.Context) {
	resp, err := h.svc.ListarDesgloses(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GenerarReporte GET /v1/costeo/reporte — streams the generated PDF.
func (h *CosteoHandler) GenerarReporte(c *gin.Context) {
	ruta, err := h.svc.GenerarReporte(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.FileAttachment(ruta, "reporte_costos.pdf")
}

// EnviarReporte POST /v1/costeo/reporte/email — generates and emails the PDF.
func (h *CosteoHandler) EnviarReporte(c *gin.Context) {
	var req dto.EnviarReporteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.EnviarReporte(c.Request.Context(), req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"ok": true, "mensaje": "reporte encolado para envio"})
}
