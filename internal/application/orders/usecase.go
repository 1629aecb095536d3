// Package orders implementa el flujo de pedidos de cinco etapas:
// intake → stock → aprobación → fulfillment → entrega.
package orders

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ordesk/orders-api/internal/application/dto"
	"github.com/ordesk/orders-api/internal/application/normalizer"
	appstock "github.com/ordesk/orders-api/internal/application/stock"
	"github.com/ordesk/orders-api/internal/domain"
	"github.com/ordesk/orders-api/internal/domain/entity"
	"github.com/ordesk/orders-api/internal/domain/repository"
)

// Límites del texto de un pedido.
const (
	minOrderTextLen = 3
	maxOrderTextLen = 1000
)

// transiciones permitidas del flujo lineal.
var transitions = map[string]string{
	entity.OrderStatusReceived:         entity.OrderStatusApproved,
	entity.OrderStatusApproved:         entity.OrderStatusAwaitingPayment,
	entity.OrderStatusAwaitingPayment:  entity.OrderStatusAwaitingDelivery,
	entity.OrderStatusAwaitingDelivery: entity.OrderStatusDelivered,
}

// UseCase coordina el flujo de pedidos contra el repositorio de pedidos y el
// ledger de stock (todas las mutaciones de stock pasan por el ledger, nunca
// directo a la tabla).
type UseCase struct {
	orderRepo    repository.OrderRepository
	ledger       *appstock.LedgerUseCase
	lowThreshold int64
}

// NewUseCase construye el caso de uso. lowThreshold define cuándo un producto
// cuenta como stock bajo en las métricas de oversight.
func NewUseCase(orderRepo repository.OrderRepository, ledger *appstock.LedgerUseCase, lowThreshold int64) *UseCase {
	return &UseCase{orderRepo: orderRepo, ledger: ledger, lowThreshold: lowThreshold}
}

// Intake recibe el texto de un pedido, lo valida, persiste el pedido con sus
// ítems parseados y devuelve un reporte de disponibilidad need/have por ítem.
func (uc *UseCase) Intake(ctx context.Context, orderText string) (*dto.IntakeResponse, error) {
	orderText = strings.TrimSpace(orderText)
	if len(orderText) < minOrderTextLen || len(orderText) > maxOrderTextLen {
		return nil, fmt.Errorf("%w: el texto del pedido debe tener entre %d y %d caracteres",
			domain.ErrInvalidInput, minOrderTextLen, maxOrderTextLen)
	}

	parsed := normalizer.ParseText(orderText)
	items := make([]entity.OrderItem, 0, len(parsed.Records))
	for _, rec := range parsed.Records {
		if rec.Quantity <= 0 {
			continue // en un pedido solo tienen sentido cantidades positivas
		}
		items = append(items, entity.OrderItem{Product: rec.Product, Quantity: rec.Quantity})
	}

	order := &entity.Order{
		OrderText: orderText,
		Status:    entity.OrderStatusReceived,
		Stage:     entity.StageIntake,
	}
	if err := uc.orderRepo.Create(order, items); err != nil {
		return nil, err
	}

	report, err := uc.stockCheckReport(ctx, items)
	if err != nil {
		return nil, err
	}
	return &dto.IntakeResponse{
		OrderID: order.ID,
		Response: fmt.Sprintf("Pedido %s recibido:\n\n%s\n\n--- Verificación de stock ---\n%s",
			order.ID, orderText, report),
	}, nil
}

// Approve aprueba un pedido recibido (received → approved).
func (uc *UseCase) Approve(ctx context.Context, orderID string) (*entity.Order, error) {
	return uc.transition(ctx, orderID, entity.OrderStatusApproved, entity.StageApproval)
}

// MarkPaid registra el pago (approved → awaiting_payment deja de esperar;
// el pedido queda listo para fulfillment).
func (uc *UseCase) MarkPaid(ctx context.Context, orderID string) (*entity.Order, error) {
	return uc.transition(ctx, orderID, entity.OrderStatusAwaitingPayment, entity.StageApproval)
}

// Fulfill descuenta del ledger todos los ítems del pedido en una sola
// transacción todo-o-nada y lo deja en awaiting_delivery. Si algún ítem no
// tiene stock suficiente, ningún descuento queda aplicado y se devuelven los
// fallos por ítem.
func (uc *UseCase) Fulfill(ctx context.Context, orderID string) (*entity.Order, []string, error) {
	order, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, nil, err
	}
	if order == nil {
		return nil, nil, domain.ErrNotFound
	}
	if order.Status != entity.OrderStatusAwaitingPayment && order.Status != entity.OrderStatusApproved {
		return nil, nil, fmt.Errorf("%w: pedido en estado %s no puede pasar a fulfillment",
			domain.ErrInvalidTransition, order.Status)
	}

	items, err := uc.orderRepo.ItemsByOrder(orderID)
	if err != nil {
		return nil, nil, err
	}
	if len(items) == 0 {
		return nil, nil, fmt.Errorf("%w: el pedido no tiene ítems válidos", domain.ErrInvalidInput)
	}

	entries := make([]entity.StockEntry, 0, len(items))
	for _, item := range items {
		entries = append(entries, entity.StockEntry{Product: item.Product, Quantity: item.Quantity})
	}
	failures, err := uc.ledger.DeductMany(ctx, entries)
	if err != nil {
		return nil, nil, err
	}
	if len(failures) > 0 {
		return order, failures, nil
	}

	if err := uc.orderRepo.UpdateStatus(orderID, entity.OrderStatusAwaitingDelivery, entity.StageFulfillment); err != nil {
		return nil, nil, err
	}
	order.Status = entity.OrderStatusAwaitingDelivery
	order.Stage = entity.StageFulfillment
	return order, nil, nil
}

// DeliveryComplete marca el pedido como entregado (awaiting_delivery → delivered).
func (uc *UseCase) DeliveryComplete(ctx context.Context, orderID string) (*entity.Order, error) {
	return uc.transition(ctx, orderID, entity.OrderStatusDelivered, entity.StageFulfillment)
}

// List devuelve el log paginado de pedidos, más recientes primero.
func (uc *UseCase) List(ctx context.Context, req dto.PageRequest) (*dto.OrderPageResponse, error) {
	req.DefaultPage()
	orders, total, err := uc.orderRepo.ListPaginated(req.Page, req.PerPage)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []*entity.Order{}
	}
	return &dto.OrderPageResponse{
		Orders:   orders,
		PageMeta: dto.NewPageMeta(req.Page, req.PerPage, total),
	}, nil
}

// Oversight calcula métricas del pipeline y el estado del stock, y genera
// insights de mejora.
func (uc *UseCase) Oversight(ctx context.Context) (*dto.OversightResponse, error) {
	counts, err := uc.orderRepo.CountByStatus()
	if err != nil {
		return nil, err
	}
	snapshot, err := uc.ledger.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	var totalQty int64
	var low []string
	for product, qty := range snapshot {
		totalQty += qty
		if qty < uc.lowThreshold {
			low = append(low, product)
		}
	}
	sort.Strings(low)

	received := counts[entity.OrderStatusReceived]
	approved := counts[entity.OrderStatusApproved]
	awaitingPayment := counts[entity.OrderStatusAwaitingPayment]
	awaitingDelivery := counts[entity.OrderStatusAwaitingDelivery]
	delivered := counts[entity.OrderStatusDelivered]

	metrics := dto.OversightMetrics{
		TotalReceived:    received + approved + awaitingPayment + awaitingDelivery + delivered,
		TotalApproved:    approved + awaitingPayment + awaitingDelivery + delivered,
		TotalPaid:        awaitingPayment + awaitingDelivery + delivered,
		TotalDelivered:   delivered,
		PendingApproval:  received,
		PendingPayment:   approved,
		PendingDelivery:  awaitingDelivery,
		CurrentStockQty:  totalQty,
		LowStockProducts: low,
	}
	insights := generateInsights(metrics)

	status := "healthy"
	if len(insights) > 0 {
		status = "warning"
	}
	return &dto.OversightResponse{Metrics: metrics, Insights: insights, Status: status}, nil
}

// transition aplica una transición del flujo lineal validando el estado actual.
func (uc *UseCase) transition(ctx context.Context, orderID, target string, stage int) (*entity.Order, error) {
	order, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if transitions[order.Status] != target {
		return nil, fmt.Errorf("%w: %s → %s", domain.ErrInvalidTransition, order.Status, target)
	}
	if err := uc.orderRepo.UpdateStatus(orderID, target, stage); err != nil {
		return nil, err
	}
	order.Status = target
	order.Stage = stage
	return order, nil
}

// stockCheckReport arma el reporte need/have por ítem del pedido.
func (uc *UseCase) stockCheckReport(ctx context.Context, items []entity.OrderItem) (string, error) {
	if len(items) == 0 {
		return "Sin ítems válidos en el pedido\n", nil
	}
	snapshot, err := uc.ledger.Snapshot(ctx)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, item := range items {
		have := snapshot[item.Product]
		status := "disponible"
		if have < item.Quantity {
			status = "insuficiente"
		}
		fmt.Fprintf(&b, "%s: necesita %d, hay %d (%s)\n", item.Product, item.Quantity, have, status)
	}
	return b.String(), nil
}

func generateInsights(m dto.OversightMetrics) []string {
	var insights []string
	if m.PendingApproval > 2 {
		insights = append(insights, "varios pedidos esperando aprobación: agilizar el proceso de aprobación")
	}
	if m.PendingPayment > 3 {
		insights = append(insights, "varios pedidos esperando pago: enviar recordatorios de pago")
	}
	if m.PendingDelivery > 2 {
		insights = append(insights, "cola de entregas acumulada: asignar más recursos de despacho")
	}
	if len(m.LowStockProducts) > 0 {
		insights = append(insights, fmt.Sprintf("stock bajo en: %s", strings.Join(m.LowStockProducts, ", ")))
	}
	if m.TotalReceived > 0 && m.TotalDelivered > 0 {
		rate := float64(m.TotalDelivered) / float64(m.TotalReceived) * 100
		insights = append(insights, fmt.Sprintf("tasa de entrega: %.1f%%", rate))
	}
	return insights
}
