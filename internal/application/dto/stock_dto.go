package dto

import (
	"time"

	"github.com/ordesk/orders-api/internal/domain/entity"
	"github.com/ordesk/orders-api/internal/domain/stock"
)

// ManualUpdateRequest body para POST /api/stock/manual.
type ManualUpdateRequest struct {
	Stock string `json:"stock"` // "Product A:50, Product B:100units"
}

// FetchRequest body para POST /api/stock/fetch (canal API externa).
type FetchRequest struct {
	APIURL string `json:"api_url"`
	APIKey string `json:"api_key,omitempty"`
}

// RestockRequest body para POST /api/stock/restock.
type RestockRequest struct {
	Product  string `json:"product"`
	Quantity int64  `json:"quantity"`
}

// DeductRequest body para POST /api/stock/deduct.
type DeductRequest struct {
	Product  string `json:"product"`
	Quantity int64  `json:"quantity"`
}

// ImportResponse resultado estructurado de cualquier canal de importación:
// cuántos registros se aplicaron, errores por ítem y el reporte de cambios.
type ImportResponse struct {
	ImportedCount int            `json:"imported_count"`
	Errors        []string       `json:"errors"`
	Changes       []stock.Change `json:"changes"`
}

// SnapshotResponse estado actual del ledger.
type SnapshotResponse struct {
	Stock map[string]int64 `json:"stock"`
	Total int              `json:"total"`
}

// AuditPageResponse página de registros de auditoría (más recientes primero).
type AuditPageResponse struct {
	History []*entity.AuditRecord `json:"history"`
	PageMeta
}

// AuditQueryRequest filtros y paginación para GET /api/audit.
type AuditQueryRequest struct {
	Product string     `query:"product"`
	Reason  string     `query:"reason"`
	Since   *time.Time `query:"since"`
	PageRequest
}
