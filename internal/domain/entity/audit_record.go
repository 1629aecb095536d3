package entity

import "time"

// Razones de mutación registradas en la auditoría de stock.
const (
	ReasonManualUpdate = "manual_update"
	ReasonExcelImport  = "excel_import"
	ReasonAPIImport    = "api_import"
	ReasonDeduction    = "deduction"
	ReasonRestock      = "restock"
)

// ValidReason indica si la razón pertenece al enum de auditoría.
func ValidReason(reason string) bool {
	switch reason {
	case ReasonManualUpdate, ReasonExcelImport, ReasonAPIImport, ReasonDeduction, ReasonRestock:
		return true
	}
	return false
}

// AuditRecord entrada inmutable del log de mutaciones de stock.
// Se escribe una por producto cambiado, en la misma transacción que el ledger;
// nunca se actualiza ni se borra.
type AuditRecord struct {
	ID             string    `json:"id"`
	Product        string    `json:"product"`
	QuantityChange int64     `json:"quantity_change"`
	NewQuantity    int64     `json:"new_quantity"`
	Reason         string    `json:"reason"`
	CreatedAt      time.Time `json:"created_at"`
}
