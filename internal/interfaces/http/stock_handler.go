package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ordesk/orders-api/internal/application/dto"
	"github.com/ordesk/orders-api/internal/application/stock"
	"github.com/ordesk/orders-api/internal/infrastructure/excel"
)

// StockHandler maneja las peticiones HTTP del ledger de stock (protegido).
type StockHandler struct {
	ledger   *stock.LedgerUseCase
	importer *stock.ImportUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(ledger *stock.LedgerUseCase, importer *stock.ImportUseCase) *StockHandler {
	return &StockHandler{ledger: ledger, importer: importer}
}

// ManualUpdate godoc
// @Summary      Actualización manual de stock (canal texto)
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ManualUpdateRequest  true  "stock: \"Product A:50, Product B:100units\""
// @Success      200   {object}  dto.ImportResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/stock/manual [post]
func (h *StockHandler) ManualUpdate(c *fiber.Ctx) error {
	var in dto.ManualUpdateRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Stock == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "stock es requerido"})
	}
	result, err := h.importer.ImportText(c.Context(), in.Stock)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

// Import godoc
// @Summary      Importar stock desde archivo tabular (.csv o .xlsx)
// @Tags         stock
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "archivo con columnas Product y Quantity"
// @Success      200   {object}  dto.ImportResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/stock/import [post]
func (h *StockHandler) Import(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "archivo requerido en el campo file"})
	}
	f, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "no se pudo abrir el archivo"})
	}
	defer f.Close()

	result, err := h.importer.ImportTabular(c.Context(), fileHeader.Filename, f)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

// Fetch godoc
// @Summary      Importar stock desde un API externo (canal record-form)
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.FetchRequest  true  "api_url y api_key opcional"
// @Success      200   {object}  dto.ImportResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/stock/fetch [post]
func (h *StockHandler) Fetch(c *fiber.Ctx) error {
	var in dto.FetchRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	result, err := h.importer.ImportRemote(c.Context(), in.APIURL, in.APIKey)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

// Deduct godoc
// @Summary      Descontar stock de un producto
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.DeductRequest  true  "product, quantity"
// @Success      200   {object}  map[string]string
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/deduct [post]
func (h *StockHandler) Deduct(c *fiber.Ctx) error {
	var in dto.DeductRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.ledger.Deduct(c.Context(), in.Product, in.Quantity); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": fmt.Sprintf("descontadas %d unidades de %s", in.Quantity, in.Product)})
}

// Restock godoc
// @Summary      Reponer stock de un producto
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RestockRequest  true  "product, quantity"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/stock/restock [post]
func (h *StockHandler) Restock(c *fiber.Ctx) error {
	var in dto.RestockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.ledger.Restock(c.Context(), in.Product, in.Quantity); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": fmt.Sprintf("repuestas %d unidades de %s", in.Quantity, in.Product)})
}

// Snapshot godoc
// @Summary      Estado actual del ledger
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SnapshotResponse
// @Router       /api/stock [get]
func (h *StockHandler) Snapshot(c *fiber.Ctx) error {
	snapshot, err := h.ledger.Snapshot(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.SnapshotResponse{Stock: snapshot, Total: len(snapshot)})
}

// Export godoc
// @Summary      Exportar el ledger como hoja de cálculo
// @Tags         stock
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200  {file}  binary
// @Router       /api/stock/export [get]
func (h *StockHandler) Export(c *fiber.Ctx) error {
	snapshot, err := h.ledger.Snapshot(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	buf, err := excel.WriteSnapshot(snapshot, time.Now())
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="stock.xlsx"`)
	return c.Send(buf.Bytes())
}
