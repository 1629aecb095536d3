package repository

import (
	"github.com/ordesk/orders-api/internal/domain/entity"
	domstock "github.com/ordesk/orders-api/internal/domain/stock"
)

// StockRepository define el puerto para consultar/actualizar el ledger de stock.
// Las mutaciones se usan dentro de transacciones para garantizar consistencia.
type StockRepository interface {
	Get(product string) (*entity.Stock, error)
	// Snapshot devuelve el estado completo producto -> cantidad.
	Snapshot() (domstock.Snapshot, error)
	Upsert(stock *entity.Stock) error
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE).
	GetForUpdate(product string) (*entity.Stock, error)
}
