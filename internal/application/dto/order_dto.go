package dto

import "github.com/ordesk/orders-api/internal/domain/entity"

// IntakeRequest body para POST /api/orders (agente de correo).
type IntakeRequest struct {
	Mail string `json:"mail"` // texto del pedido: "Product A: 5, Product B: 10"
}

// IntakeResponse confirmación de intake con verificación de stock.
type IntakeResponse struct {
	OrderID  string `json:"order_id"`
	Response string `json:"response"` // reporte need/have por ítem
}

// OrderPageResponse página del log de pedidos.
type OrderPageResponse struct {
	Orders []*entity.Order `json:"orders"`
	PageMeta
}

// OversightResponse métricas del flujo más insights generados.
type OversightResponse struct {
	Metrics  OversightMetrics `json:"metrics"`
	Insights []string         `json:"insights"`
	Status   string           `json:"status"` // healthy | warning
}

// OversightMetrics conteos del pipeline y estado del stock.
type OversightMetrics struct {
	TotalReceived    int      `json:"total_received"`
	TotalApproved    int      `json:"total_approved"`
	TotalPaid        int      `json:"total_paid"`
	TotalDelivered   int      `json:"total_delivered"`
	PendingApproval  int      `json:"pending_approval"`
	PendingPayment   int      `json:"pending_payment"`
	PendingDelivery  int      `json:"pending_delivery"`
	CurrentStockQty  int64    `json:"current_stock_qty"`
	LowStockProducts []string `json:"low_stock_products"`
}
