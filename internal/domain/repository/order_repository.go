package repository

import "github.com/ordesk/orders-api/internal/domain/entity"

// OrderRepository define el puerto de persistencia del flujo de pedidos.
type OrderRepository interface {
	Create(order *entity.Order, items []entity.OrderItem) error
	GetByID(id string) (*entity.Order, error)
	UpdateStatus(id, status string, stage int) error
	// ListPaginated devuelve una página de pedidos (más recientes primero) y el total.
	ListPaginated(page, perPage int) ([]*entity.Order, int, error)
	CountByStatus() (map[string]int, error)
	ItemsByOrder(orderID string) ([]entity.OrderItem, error)
}
