package stock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ordesk/orders-api/internal/domain"
	"github.com/ordesk/orders-api/internal/domain/entity"
	"github.com/ordesk/orders-api/internal/domain/repository"
	domstock "github.com/ordesk/orders-api/internal/domain/stock"
)

// LedgerUseCase es el único escritor del ledger de stock. Toda mutación toma
// el mutex exclusivo del ledger y corre dentro de una transacción que cubre
// la secuencia leer-modificar-escribir-auditar completa: un fallo en el
// append de auditoría revierte también el cambio de cantidad.
//
// El lock es global (no por producto): el throughput esperado es bajo y la
// corrección domina sobre la granularidad.
type LedgerUseCase struct {
	mu        sync.Mutex
	txRunner  TxRunner
	stockRepo repository.StockRepository // atado al pool; solo lecturas
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(txRunner TxRunner, stockRepo repository.StockRepository) *LedgerUseCase {
	return &LedgerUseCase{txRunner: txRunner, stockRepo: stockRepo}
}

// Get devuelve la cantidad actual de un producto; found=false si no existe.
// Lectura no bloqueante: no toma el mutex del ledger.
func (uc *LedgerUseCase) Get(ctx context.Context, product string) (int64, bool, error) {
	s, err := uc.stockRepo.Get(product)
	if err != nil {
		return 0, false, err
	}
	if s == nil {
		return 0, false, nil
	}
	return s.Quantity, true, nil
}

// Snapshot devuelve una copia del estado completo del ledger.
func (uc *LedgerUseCase) Snapshot(ctx context.Context) (domstock.Snapshot, error) {
	return uc.stockRepo.Snapshot()
}

// SetMany upserta cada registro canónico con la razón indicada
// (manual_update / excel_import / api_import) y escribe un AuditRecord por
// producto cuya cantidad realmente cambia (quantity_change = nueva - vieja,
// con vieja = 0 si el producto es nuevo). Política: un upsert que no cambia
// la cantidad NO escribe fila de auditoría.
func (uc *LedgerUseCase) SetMany(ctx context.Context, records []entity.StockEntry, reason string) (int, error) {
	_, applied, err := uc.ApplyBatch(ctx, records, reason)
	return applied, err
}

// ApplyBatch aplica un lote canónico y devuelve además el reporte de cambios
// calculado contra el snapshot previo, todo dentro de la misma sección
// crítica y la misma transacción: el diff no puede cruzarse con otro escritor.
// Un producto del ledger ausente del lote se reporta como removed pero no se
// elimina (el lote solo upserta).
func (uc *LedgerUseCase) ApplyBatch(ctx context.Context, records []entity.StockEntry, reason string) ([]domstock.Change, int, error) {
	if !entity.ValidReason(reason) {
		return nil, 0, fmt.Errorf("%w: razón de auditoría desconocida %q", domain.ErrInvalidInput, reason)
	}
	for _, rec := range records {
		if err := entity.ValidateProductName(rec.Product); err != nil {
			return nil, 0, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		if rec.Quantity < 0 {
			return nil, 0, fmt.Errorf("%w: cantidad negativa para %q", domain.ErrInvalidInput, rec.Product)
		}
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	var changes []domstock.Change
	applied := 0
	err := uc.txRunner.Run(ctx, func(stockRepo repository.StockRepository, auditRepo repository.AuditRepository) error {
		applied = 0
		previous, err := stockRepo.Snapshot()
		if err != nil {
			return err
		}
		incoming := make(domstock.Snapshot, len(records))
		for _, rec := range records {
			incoming[rec.Product] = rec.Quantity
		}
		changes = domstock.Diff(previous, incoming)

		now := time.Now()
		for _, rec := range records {
			current, err := stockRepo.GetForUpdate(rec.Product)
			if err != nil {
				return err
			}
			var oldQty int64
			if current != nil {
				oldQty = current.Quantity
			}
			applied++
			if current != nil && oldQty == rec.Quantity {
				// no-op: mismo valor, sin escritura ni auditoría
				continue
			}
			if err := stockRepo.Upsert(&entity.Stock{Product: rec.Product, Quantity: rec.Quantity, UpdatedAt: now}); err != nil {
				return err
			}
			if err := auditRepo.Append(&entity.AuditRecord{
				Product:        rec.Product,
				QuantityChange: rec.Quantity - oldQty,
				NewQuantity:    rec.Quantity,
				Reason:         reason,
				CreatedAt:      now,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return changes, applied, nil
}

// Deduct descuenta amount del producto. Falla con ErrUnknownProduct si el
// producto no existe y con ErrInsufficientStock si amount supera la cantidad
// disponible; en ambos casos el ledger queda intacto y no se audita nada.
func (uc *LedgerUseCase) Deduct(ctx context.Context, product string, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: la cantidad a descontar debe ser positiva", domain.ErrInvalidInput)
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	return uc.txRunner.Run(ctx, func(stockRepo repository.StockRepository, auditRepo repository.AuditRepository) error {
		return deductOne(stockRepo, auditRepo, product, amount, time.Now())
	})
}

// DeductMany descuenta todos los ítems en una sola transacción, todo o nada:
// si algún ítem falla, ningún descuento queda aplicado. Los fallos por ítem
// se devuelven como lista de descripciones; un error no-nil indica fallo
// sistémico de persistencia.
func (uc *LedgerUseCase) DeductMany(ctx context.Context, items []entity.StockEntry) ([]string, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	var failures []string
	err := uc.txRunner.Run(ctx, func(stockRepo repository.StockRepository, auditRepo repository.AuditRepository) error {
		failures = failures[:0]
		now := time.Now()
		for _, item := range items {
			if err := deductOne(stockRepo, auditRepo, item.Product, item.Quantity, now); err != nil {
				switch {
				case isStockFailure(err):
					failures = append(failures, fmt.Sprintf("%s: %v", item.Product, err))
				default:
					return err
				}
			}
		}
		if len(failures) > 0 {
			// fuerza el rollback de los descuentos ya aplicados en esta tx
			return domain.ErrInsufficientStock
		}
		return nil
	})
	if len(failures) > 0 {
		return failures, nil
	}
	return nil, err
}

// Restock incrementa la cantidad del producto (lo crea si no existe) y
// audita con razón restock.
func (uc *LedgerUseCase) Restock(ctx context.Context, product string, amount int64) error {
	if err := entity.ValidateProductName(product); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if amount <= 0 {
		return fmt.Errorf("%w: la cantidad a reponer debe ser positiva", domain.ErrInvalidInput)
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	return uc.txRunner.Run(ctx, func(stockRepo repository.StockRepository, auditRepo repository.AuditRepository) error {
		now := time.Now()
		current, err := stockRepo.GetForUpdate(product)
		if err != nil {
			return err
		}
		var oldQty int64
		if current != nil {
			oldQty = current.Quantity
		}
		newQty := oldQty + amount
		if err := stockRepo.Upsert(&entity.Stock{Product: product, Quantity: newQty, UpdatedAt: now}); err != nil {
			return err
		}
		return auditRepo.Append(&entity.AuditRecord{
			Product:        product,
			QuantityChange: amount,
			NewQuantity:    newQty,
			Reason:         entity.ReasonRestock,
			CreatedAt:      now,
		})
	})
}

// deductOne aplica un descuento dentro de la transacción del caller.
func deductOne(stockRepo repository.StockRepository, auditRepo repository.AuditRepository, product string, amount int64, now time.Time) error {
	if amount <= 0 {
		return fmt.Errorf("%w: cantidad a descontar no positiva", domain.ErrInvalidInput)
	}
	current, err := stockRepo.GetForUpdate(product)
	if err != nil {
		return err
	}
	if current == nil {
		return fmt.Errorf("%w: %s", domain.ErrUnknownProduct, product)
	}
	if current.Quantity < amount {
		return fmt.Errorf("%w: %s necesita %d, hay %d", domain.ErrInsufficientStock, product, amount, current.Quantity)
	}
	newQty := current.Quantity - amount
	if err := stockRepo.Upsert(&entity.Stock{Product: product, Quantity: newQty, UpdatedAt: now}); err != nil {
		return err
	}
	return auditRepo.Append(&entity.AuditRecord{
		Product:        product,
		QuantityChange: -amount,
		NewQuantity:    newQty,
		Reason:         entity.ReasonDeduction,
		CreatedAt:      now,
	})
}

func isStockFailure(err error) bool {
	return errors.Is(err, domain.ErrUnknownProduct) ||
		errors.Is(err, domain.ErrInsufficientStock) ||
		errors.Is(err, domain.ErrInvalidInput)
}
