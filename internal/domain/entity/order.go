package entity

import (
	"encoding/json"
	"time"
)

// Estados del flujo de pedidos (lineal: intake → aprobación → pago → entrega).
const (
	OrderStatusReceived         = "received"
	OrderStatusApproved         = "approved"
	OrderStatusAwaitingPayment  = "awaiting_payment"
	OrderStatusAwaitingDelivery = "awaiting_delivery"
	OrderStatusDelivered        = "delivered"
)

// Etapas del pipeline que procesan un pedido.
const (
	StageIntake      = 1
	StageWarehouse   = 2
	StageApproval    = 3
	StageFulfillment = 4
	StageOversight   = 5
)

// Order pedido en texto libre con su estado dentro del flujo.
type Order struct {
	ID        string          `json:"id"`
	OrderText string          `json:"order_text"`
	Status    string          `json:"status"`
	Stage     int             `json:"stage"`
	Details   json.RawMessage `json:"details,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// OrderItem ítem parseado de un pedido (persistido para trazabilidad).
type OrderItem struct {
	ID       string `json:"id"`
	OrderID  string `json:"order_id"`
	Product  string `json:"product"`
	Quantity int64  `json:"quantity"`
}
