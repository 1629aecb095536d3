// Package normalizer convierte los tres canales de entrada de stock
// (texto libre, tabular CSV/XLSX, payload JSON de API externa) a la forma
// canónica (producto, cantidad) antes de tocar el ledger.
//
// Ningún canal es fatal por ítem: los tokens/filas/registros malformados se
// saltan y se reportan uno a uno para que el caller pueda responder con
// éxito parcial.
package normalizer

import (
	"fmt"

	"github.com/ordesk/orders-api/internal/domain/entity"
)

// Result registros canónicos válidos más los errores por ítem detectados.
type Result struct {
	Records []entity.StockEntry
	Errors  []string
}

// validateEntry aplica las invariantes comunes a los tres canales:
// nombre válido y cantidad entera no negativa.
func validateEntry(product string, quantity int64) error {
	if err := entity.ValidateProductName(product); err != nil {
		return err
	}
	if quantity < 0 {
		return fmt.Errorf("cantidad negativa %d para %q", quantity, product)
	}
	return nil
}

// dedupeLastWins resuelve duplicados dentro del mismo lote: gana la última
// ocurrencia, conservando el orden de primera aparición.
func dedupeLastWins(entries []entity.StockEntry) []entity.StockEntry {
	index := make(map[string]int, len(entries))
	out := make([]entity.StockEntry, 0, len(entries))
	for _, e := range entries {
		if i, ok := index[e.Product]; ok {
			out[i].Quantity = e.Quantity
			continue
		}
		index[e.Product] = len(out)
		out = append(out, e)
	}
	return out
}
