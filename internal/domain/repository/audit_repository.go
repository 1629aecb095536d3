package repository

import (
	"time"

	"github.com/ordesk/orders-api/internal/domain/entity"
)

// AuditFilter filtros opcionales para consultar la auditoría.
type AuditFilter struct {
	Product string
	Reason  string
	Since   *time.Time
}

// AuditRepository define el puerto del log de auditoría de stock (append-only).
// Append se invoca dentro de la misma transacción que muta el ledger; si falla,
// la mutación completa se revierte.
type AuditRepository interface {
	Append(record *entity.AuditRecord) error
	// Query pagina los registros de más reciente a más antiguo sin cargar la
	// tabla completa; devuelve la página y el total de filas que cumplen el filtro.
	Query(filter AuditFilter, page, perPage int) ([]*entity.AuditRecord, int, error)
}
