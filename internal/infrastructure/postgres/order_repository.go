package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ordesk/orders-api/internal/domain/entity"
	"github.com/ordesk/orders-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación del flujo de pedidos sobre PostgreSQL.
// Create usa su propia transacción: pedido e ítems se insertan juntos.
type OrderRepo struct {
	pool *pgxpool.Pool
}

// NewOrderRepository construye el adaptador con el pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepo {
	return &OrderRepo{pool: pool}
}

// Create persiste el pedido y sus ítems en una transacción.
func (r *OrderRepo) Create(order *entity.Order, items []entity.OrderItem) error {
	ctx := context.Background()
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO orders (id, order_text, status, stage, details, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		order.ID, order.OrderText, order.Status, order.Stage, order.Details,
		order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create order: %w", err)
	}

	for i := range items {
		if items[i].ID == "" {
			items[i].ID = uuid.New().String()
		}
		items[i].OrderID = order.ID
		_, err = tx.Exec(ctx, `
			INSERT INTO order_items (id, order_id, product, quantity)
			VALUES ($1, $2, $3, $4)`,
			items[i].ID, items[i].OrderID, items[i].Product, items[i].Quantity,
		)
		if err != nil {
			return fmt.Errorf("create order item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// GetByID obtiene un pedido por ID; nil si no existe.
func (r *OrderRepo) GetByID(id string) (*entity.Order, error) {
	query := `
		SELECT id, order_text, status, stage, details, created_at, updated_at
		FROM orders WHERE id = $1`
	var o entity.Order
	err := r.pool.QueryRow(context.Background(), query, id).Scan(
		&o.ID, &o.OrderText, &o.Status, &o.Stage, &o.Details, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return &o, nil
}

// UpdateStatus actualiza estado y etapa del pedido.
func (r *OrderRepo) UpdateStatus(id, status string, stage int) error {
	tag, err := r.pool.Exec(context.Background(),
		`UPDATE orders SET status = $1, stage = $2, updated_at = now() WHERE id = $3`,
		status, stage, id,
	)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update order status: pedido %s no existe", id)
	}
	return nil
}

// ListPaginated devuelve una página de pedidos (más recientes primero) y el total.
func (r *OrderRepo) ListPaginated(page, perPage int) ([]*entity.Order, int, error) {
	ctx := context.Background()

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, order_text, status, stage, details, created_at, updated_at
		FROM orders
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2`,
		perPage, (page-1)*perPage,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []*entity.Order
	for rows.Next() {
		var o entity.Order
		if err := rows.Scan(&o.ID, &o.OrderText, &o.Status, &o.Stage, &o.Details,
			&o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, &o)
	}
	return orders, total, rows.Err()
}

// CountByStatus devuelve el conteo de pedidos por estado.
func (r *OrderRepo) CountByStatus() (map[string]int, error) {
	rows, err := r.pool.Query(context.Background(),
		`SELECT status, COUNT(*) FROM orders GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// ItemsByOrder devuelve los ítems parseados de un pedido.
func (r *OrderRepo) ItemsByOrder(orderID string) ([]entity.OrderItem, error) {
	rows, err := r.pool.Query(context.Background(), `
		SELECT id, order_id, product, quantity
		FROM order_items WHERE order_id = $1
		ORDER BY product`,
		orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("items by order: %w", err)
	}
	defer rows.Close()

	var items []entity.OrderItem
	for rows.Next() {
		var item entity.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.Product, &item.Quantity); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
