package stock

import (
	"context"

	"github.com/ordesk/orders-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que la escritura del ledger y el
// append de auditoría sean una sola unidad atómica: si el append falla, la
// mutación del ledger se revierte con el rollback.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		stockRepo repository.StockRepository,
		auditRepo repository.AuditRepository,
	) error) error
}

// Fetcher obtiene el payload de stock de un API remoto (canal record-form).
// La implementación aplica el tope duro de timeout y el bearer token opcional.
type Fetcher interface {
	Fetch(ctx context.Context, apiURL, apiKey string) ([]byte, error)
}
