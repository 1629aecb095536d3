package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ordesk/orders-api/internal/application/dto"
	"github.com/ordesk/orders-api/internal/application/stock"
)

// AuditHandler maneja la consulta del log de auditoría (protegido).
type AuditHandler struct {
	uc *stock.AuditUseCase
}

// NewAuditHandler construye el handler.
func NewAuditHandler(uc *stock.AuditUseCase) *AuditHandler {
	return &AuditHandler{uc: uc}
}

// Query godoc
// @Summary      Historial de mutaciones de stock
// @Description  Página de registros de auditoría, más recientes primero.
// @Tags         audit
// @Security     Bearer
// @Produce      json
// @Param        product   query  string  false  "filtrar por producto"
// @Param        reason    query  string  false  "manual_update | excel_import | api_import | deduction | restock"
// @Param        since     query  string  false  "RFC 3339; solo registros desde esa fecha"
// @Param        page      query  int     false  "página (desde 1)"
// @Param        per_page  query  int     false  "tamaño de página"
// @Success      200  {object}  dto.AuditPageResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/audit [get]
func (h *AuditHandler) Query(c *fiber.Ctx) error {
	req := dto.AuditQueryRequest{
		Product: c.Query("product"),
		Reason:  c.Query("reason"),
	}
	req.Page = c.QueryInt("page", 1)
	req.PerPage = c.QueryInt("per_page", 50)
	if raw := c.Query("since"); raw != "" {
		since, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "since debe ser RFC 3339"})
		}
		req.Since = &since
	}

	page, err := h.uc.Query(c.Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(page)
}
