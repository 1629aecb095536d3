package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ordesk/orders-api/internal/domain/entity"
	"github.com/ordesk/orders-api/internal/domain/repository"
	domstock "github.com/ordesk/orders-api/internal/domain/stock"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación del ledger de stock sobre PostgreSQL (usable con pool o tx).
// La tabla stock mantiene el snapshot vivo: una fila por producto.
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Get obtiene la cantidad actual de un producto; nil si no existe.
func (r *StockRepo) Get(product string) (*entity.Stock, error) {
	query := `
		SELECT product, quantity, updated_at
		FROM stock WHERE product = $1`
	var s entity.Stock
	err := r.q.QueryRow(context.Background(), query, product).Scan(
		&s.Product, &s.Quantity, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return &s, nil
}

// GetForUpdate obtiene la fila del producto y la bloquea (SELECT FOR UPDATE);
// nil si no existe.
func (r *StockRepo) GetForUpdate(product string) (*entity.Stock, error) {
	query := `
		SELECT product, quantity, updated_at
		FROM stock WHERE product = $1
		FOR UPDATE`
	var s entity.Stock
	err := r.q.QueryRow(context.Background(), query, product).Scan(
		&s.Product, &s.Quantity, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock for update: %w", err)
	}
	return &s, nil
}

// Snapshot devuelve el estado completo producto -> cantidad.
func (r *StockRepo) Snapshot() (domstock.Snapshot, error) {
	rows, err := r.q.Query(context.Background(), `SELECT product, quantity FROM stock`)
	if err != nil {
		return nil, fmt.Errorf("snapshot stock: %w", err)
	}
	defer rows.Close()

	snapshot := domstock.Snapshot{}
	for rows.Next() {
		var product string
		var quantity int64
		if err := rows.Scan(&product, &quantity); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		snapshot[product] = quantity
	}
	return snapshot, rows.Err()
}

// Upsert inserta o actualiza la cantidad de un producto.
func (r *StockRepo) Upsert(stock *entity.Stock) error {
	query := `
		INSERT INTO stock (product, quantity, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (product)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(context.Background(), query, stock.Product, stock.Quantity, stock.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert stock: %w", err)
	}
	return nil
}
