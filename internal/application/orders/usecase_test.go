package orders_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ordesk/orders-api/internal/application/dto"
	"github.com/ordesk/orders-api/internal/application/orders"
	appstock "github.com/ordesk/orders-api/internal/application/stock"
	"github.com/ordesk/orders-api/internal/domain"
	"github.com/ordesk/orders-api/internal/domain/entity"
	"github.com/ordesk/orders-api/internal/domain/repository"
	domstock "github.com/ordesk/orders-api/internal/domain/stock"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

// fakeOrderRepo repositorio de pedidos en memoria.
type fakeOrderRepo struct {
	orders []*entity.Order
	items  map[string][]entity.OrderItem
	nextID int
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{items: make(map[string][]entity.OrderItem)}
}

func (r *fakeOrderRepo) Create(order *entity.Order, items []entity.OrderItem) error {
	r.nextID++
	order.ID = fmt.Sprintf("order-%d", r.nextID)
	cp := *order
	r.orders = append(r.orders, &cp)
	r.items[order.ID] = items
	return nil
}

func (r *fakeOrderRepo) GetByID(id string) (*entity.Order, error) {
	for _, o := range r.orders {
		if o.ID == id {
			cp := *o
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeOrderRepo) UpdateStatus(id, status string, stage int) error {
	for _, o := range r.orders {
		if o.ID == id {
			o.Status = status
			o.Stage = stage
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *fakeOrderRepo) ListPaginated(page, perPage int) ([]*entity.Order, int, error) {
	total := len(r.orders)
	start := (page - 1) * perPage
	if start >= total {
		return nil, total, nil
	}
	end := start + perPage
	if end > total {
		end = total
	}
	// más recientes primero
	reversed := make([]*entity.Order, 0, total)
	for i := total - 1; i >= 0; i-- {
		reversed = append(reversed, r.orders[i])
	}
	return reversed[start:end], total, nil
}

func (r *fakeOrderRepo) CountByStatus() (map[string]int, error) {
	counts := make(map[string]int)
	for _, o := range r.orders {
		counts[o.Status]++
	}
	return counts, nil
}

func (r *fakeOrderRepo) ItemsByOrder(orderID string) ([]entity.OrderItem, error) {
	return r.items[orderID], nil
}

// fakeLedgerTx TxRunner mínimo con commit/rollback sobre mapas.
type ledgerState struct {
	stock  map[string]int64
	audits int
}

type fakeLedgerTx struct {
	state *ledgerState
}

type txStock struct{ stock map[string]int64 }

func (r *txStock) Get(product string) (*entity.Stock, error) {
	q, ok := r.stock[product]
	if !ok {
		return nil, nil
	}
	return &entity.Stock{Product: product, Quantity: q}, nil
}
func (r *txStock) GetForUpdate(product string) (*entity.Stock, error) { return r.Get(product) }
func (r *txStock) Snapshot() (domstock.Snapshot, error) {
	out := make(domstock.Snapshot, len(r.stock))
	for p, q := range r.stock {
		out[p] = q
	}
	return out, nil
}
func (r *txStock) Upsert(s *entity.Stock) error {
	r.stock[s.Product] = s.Quantity
	return nil
}

type txAudit struct{ appended int }

func (r *txAudit) Append(record *entity.AuditRecord) error {
	r.appended++
	return nil
}
func (r *txAudit) Query(filter repository.AuditFilter, page, perPage int) ([]*entity.AuditRecord, int, error) {
	return nil, 0, nil
}

func (t *fakeLedgerTx) Run(ctx context.Context, fn func(repository.StockRepository, repository.AuditRepository) error) error {
	local := make(map[string]int64, len(t.state.stock))
	for p, q := range t.state.stock {
		local[p] = q
	}
	sr := &txStock{stock: local}
	ar := &txAudit{}
	if err := fn(sr, ar); err != nil {
		return err
	}
	t.state.stock = sr.stock
	t.state.audits += ar.appended
	return nil
}

// poolReader lecturas fuera de transacción sobre el estado compartido.
type poolReader struct{ state *ledgerState }

func (r *poolReader) Get(product string) (*entity.Stock, error) {
	return (&txStock{stock: r.state.stock}).Get(product)
}
func (r *poolReader) GetForUpdate(product string) (*entity.Stock, error) { return r.Get(product) }
func (r *poolReader) Snapshot() (domstock.Snapshot, error) {
	return (&txStock{stock: r.state.stock}).Snapshot()
}
func (r *poolReader) Upsert(s *entity.Stock) error {
	return fmt.Errorf("las escrituras van por transacción")
}

func newOrdersUC(stock map[string]int64, lowThreshold int64) (*orders.UseCase, *fakeOrderRepo, *ledgerState) {
	state := &ledgerState{stock: make(map[string]int64)}
	for p, q := range stock {
		state.stock[p] = q
	}
	ledger := appstock.NewLedgerUseCase(&fakeLedgerTx{state: state}, &poolReader{state: state})
	repo := newFakeOrderRepo()
	return orders.NewUseCase(repo, ledger, lowThreshold), repo, state
}

// ──────────────────────────────────────────────────────────────────────────────
// Intake
// ──────────────────────────────────────────────────────────────────────────────

func TestIntake_CreaPedidoConItems(t *testing.T) {
	uc, repo, _ := newOrdersUC(map[string]int64{"Tornillo": 10}, 5)

	resp, err := uc.Intake(context.Background(), "Tornillo:4, Tuerca:2")
	require.NoError(t, err)
	require.NotEmpty(t, resp.OrderID)

	order, err := repo.GetByID(resp.OrderID)
	require.NoError(t, err)
	require.NotNil(t, order)
	assert.Equal(t, entity.OrderStatusReceived, order.Status)
	assert.Equal(t, entity.StageIntake, order.Stage)

	items := repo.items[resp.OrderID]
	require.Len(t, items, 2)
	assert.Equal(t, "Tornillo", items[0].Product)
	assert.Equal(t, int64(4), items[0].Quantity)

	assert.Contains(t, resp.Response, "Tornillo: necesita 4, hay 10 (disponible)")
	assert.Contains(t, resp.Response, "Tuerca: necesita 2, hay 0 (insuficiente)")
}

func TestIntake_TextoDemasiadoCorto(t *testing.T) {
	uc, _, _ := newOrdersUC(nil, 5)

	_, err := uc.Intake(context.Background(), "ab")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIntake_TextoDemasiadoLargo(t *testing.T) {
	uc, _, _ := newOrdersUC(nil, 5)

	_, err := uc.Intake(context.Background(), strings.Repeat("x", 1001))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIntake_SinItemsParseables(t *testing.T) {
	uc, repo, _ := newOrdersUC(nil, 5)

	// Texto válido como pedido pero sin tokens producto:cantidad.
	resp, err := uc.Intake(context.Background(), "necesito materiales urgente")
	require.NoError(t, err)

	assert.Empty(t, repo.items[resp.OrderID])
	assert.Contains(t, resp.Response, "Sin ítems válidos")
}

func TestIntake_CantidadCeroSeExcluyeDelPedido(t *testing.T) {
	uc, repo, _ := newOrdersUC(nil, 5)

	resp, err := uc.Intake(context.Background(), "Tornillo:0, Tuerca:3")
	require.NoError(t, err)

	items := repo.items[resp.OrderID]
	require.Len(t, items, 1)
	assert.Equal(t, "Tuerca", items[0].Product)
}

// ──────────────────────────────────────────────────────────────────────────────
// Transiciones del flujo
// ──────────────────────────────────────────────────────────────────────────────

func createOrder(t *testing.T, uc *orders.UseCase) string {
	t.Helper()
	resp, err := uc.Intake(context.Background(), "Tornillo:4")
	require.NoError(t, err)
	return resp.OrderID
}

func TestFlujo_Completo(t *testing.T) {
	uc, _, state := newOrdersUC(map[string]int64{"Tornillo": 10}, 5)
	id := createOrder(t, uc)

	order, err := uc.Approve(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusApproved, order.Status)

	order, err = uc.MarkPaid(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusAwaitingPayment, order.Status)

	order, failures, err := uc.Fulfill(context.Background(), id)
	require.NoError(t, err)
	assert.Empty(t, failures)
	assert.Equal(t, entity.OrderStatusAwaitingDelivery, order.Status)
	assert.Equal(t, entity.StageFulfillment, order.Stage)
	assert.Equal(t, int64(6), state.stock["Tornillo"], "el fulfillment descuenta del ledger")

	order, err = uc.DeliveryComplete(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusDelivered, order.Status)
}

func TestTransicion_SaltoInvalido(t *testing.T) {
	uc, _, _ := newOrdersUC(map[string]int64{"Tornillo": 10}, 5)
	id := createOrder(t, uc)

	// received no puede saltar directo a delivered.
	_, err := uc.DeliveryComplete(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	// received no puede pagarse sin aprobación.
	_, err = uc.MarkPaid(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestTransicion_PedidoInexistente(t *testing.T) {
	uc, _, _ := newOrdersUC(nil, 5)

	_, err := uc.Approve(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAprobar_DosVecesFalla(t *testing.T) {
	uc, _, _ := newOrdersUC(map[string]int64{"Tornillo": 10}, 5)
	id := createOrder(t, uc)

	_, err := uc.Approve(context.Background(), id)
	require.NoError(t, err)
	_, err = uc.Approve(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

// ──────────────────────────────────────────────────────────────────────────────
// Fulfillment
// ──────────────────────────────────────────────────────────────────────────────

func TestFulfill_StockInsuficienteNoDescuentaNada(t *testing.T) {
	uc, repo, state := newOrdersUC(map[string]int64{"Tornillo": 10, "Tuerca": 1}, 5)

	resp, err := uc.Intake(context.Background(), "Tornillo:4, Tuerca:5")
	require.NoError(t, err)
	_, err = uc.Approve(context.Background(), resp.OrderID)
	require.NoError(t, err)

	order, failures, err := uc.Fulfill(context.Background(), resp.OrderID)
	require.NoError(t, err)

	require.Len(t, failures, 1)
	assert.Contains(t, failures[0], "Tuerca")

	assert.Equal(t, int64(10), state.stock["Tornillo"], "descuento todo-o-nada: nada aplicado")
	assert.Equal(t, int64(1), state.stock["Tuerca"])

	// El pedido no avanza de estado.
	current, err := repo.GetByID(resp.OrderID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusApproved, current.Status)
	assert.Equal(t, order.Status, current.Status)
}

func TestFulfill_DesdeApprovedSinPago(t *testing.T) {
	// Un pedido aprobado puede despacharse sin registrar el pago primero.
	uc, _, state := newOrdersUC(map[string]int64{"Tornillo": 10}, 5)
	id := createOrder(t, uc)
	_, err := uc.Approve(context.Background(), id)
	require.NoError(t, err)

	order, failures, err := uc.Fulfill(context.Background(), id)
	require.NoError(t, err)
	assert.Empty(t, failures)
	assert.Equal(t, entity.OrderStatusAwaitingDelivery, order.Status)
	assert.Equal(t, int64(6), state.stock["Tornillo"])
}

func TestFulfill_DesdeReceivedFalla(t *testing.T) {
	uc, _, _ := newOrdersUC(map[string]int64{"Tornillo": 10}, 5)
	id := createOrder(t, uc)

	_, _, err := uc.Fulfill(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestFulfill_SinItems(t *testing.T) {
	uc, _, _ := newOrdersUC(nil, 5)

	resp, err := uc.Intake(context.Background(), "pedido sin items parseables")
	require.NoError(t, err)
	_, err = uc.Approve(context.Background(), resp.OrderID)
	require.NoError(t, err)

	_, _, err = uc.Fulfill(context.Background(), resp.OrderID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// List / Oversight
// ──────────────────────────────────────────────────────────────────────────────

func TestList_Paginado(t *testing.T) {
	uc, _, _ := newOrdersUC(map[string]int64{"Tornillo": 100}, 5)
	for i := 0; i < 5; i++ {
		createOrder(t, uc)
	}

	page, err := uc.List(context.Background(), dto.PageRequest{Page: 1, PerPage: 2})
	require.NoError(t, err)

	assert.Len(t, page.Orders, 2)
	assert.Equal(t, 5, page.Total)
	assert.Equal(t, 3, page.Pages)
	assert.Equal(t, "order-5", page.Orders[0].ID, "más recientes primero")
}

func TestList_PaginaVaciaNoEsNull(t *testing.T) {
	uc, _, _ := newOrdersUC(nil, 5)

	page, err := uc.List(context.Background(), dto.PageRequest{Page: 3, PerPage: 10})
	require.NoError(t, err)
	assert.NotNil(t, page.Orders)
	assert.Empty(t, page.Orders)
}

func TestOversight_MetricasYStockBajo(t *testing.T) {
	uc, _, _ := newOrdersUC(map[string]int64{"Tornillo": 10, "Tuerca": 2, "Arandela": 1}, 5)

	id1 := createOrder(t, uc)
	_ = id1
	id2 := createOrder(t, uc)
	_, err := uc.Approve(context.Background(), id2)
	require.NoError(t, err)

	resp, err := uc.Oversight(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, resp.Metrics.TotalReceived)
	assert.Equal(t, 1, resp.Metrics.TotalApproved)
	assert.Equal(t, 1, resp.Metrics.PendingApproval)
	assert.Equal(t, 1, resp.Metrics.PendingPayment)
	assert.Equal(t, int64(13), resp.Metrics.CurrentStockQty)
	assert.Equal(t, []string{"Arandela", "Tuerca"}, resp.Metrics.LowStockProducts, "ordenado por nombre")

	assert.Equal(t, "warning", resp.Status)
	require.NotEmpty(t, resp.Insights)
	assert.Contains(t, resp.Insights[0], "stock bajo")
}

func TestOversight_SinPedidosNiStockBajo(t *testing.T) {
	uc, _, _ := newOrdersUC(map[string]int64{"Tornillo": 10}, 5)

	resp, err := uc.Oversight(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, resp.Metrics.TotalReceived)
	assert.Empty(t, resp.Insights)
	assert.Equal(t, "healthy", resp.Status)
}
