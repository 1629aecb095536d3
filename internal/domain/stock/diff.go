package stock

import "sort"

// Snapshot estado del ledger en un instante: producto -> cantidad.
// Solo se usa para calcular el reporte de cambios; no se conserva historial
// de snapshots, únicamente de deltas (auditoría).
type Snapshot map[string]int64

// Clasificaciones de cambio por producto al comparar dos snapshots.
const (
	ChangeAdded     = "added"
	ChangeRemoved   = "removed"
	ChangeIncreased = "increased"
	ChangeDecreased = "decreased"
	ChangeUnchanged = "unchanged"
)

// Change resultado de clasificar un producto entre dos snapshots.
// OldQuantity es nil para added; NewQuantity es nil para removed.
type Change struct {
	Product        string `json:"product"`
	Classification string `json:"classification"`
	OldQuantity    *int64 `json:"old_quantity,omitempty"`
	NewQuantity    *int64 `json:"new_quantity,omitempty"`
}

// Delta devuelve la variación de cantidad que representa el cambio
// (nueva - vieja, con ausente tratado como 0).
func (c Change) Delta() int64 {
	var oldQty, newQty int64
	if c.OldQuantity != nil {
		oldQty = *c.OldQuantity
	}
	if c.NewQuantity != nil {
		newQty = *c.NewQuantity
	}
	return newQty - oldQty
}

// Diff clasifica cada producto de previous ∪ current como
// added/removed/increased/decreased/unchanged. Es pura: no muta ningún
// snapshot. El resultado va ordenado por nombre de producto (orden léxico
// sensible a mayúsculas) para que sea determinista.
func Diff(previous, current Snapshot) []Change {
	products := make([]string, 0, len(previous)+len(current))
	seen := make(map[string]struct{}, len(previous)+len(current))
	for p := range previous {
		products = append(products, p)
		seen[p] = struct{}{}
	}
	for p := range current {
		if _, ok := seen[p]; !ok {
			products = append(products, p)
		}
	}
	sort.Strings(products)

	changes := make([]Change, 0, len(products))
	for _, p := range products {
		oldQty, inOld := previous[p]
		newQty, inNew := current[p]

		c := Change{Product: p}
		switch {
		case !inOld:
			q := newQty
			c.Classification = ChangeAdded
			c.NewQuantity = &q
		case !inNew:
			q := oldQty
			c.Classification = ChangeRemoved
			c.OldQuantity = &q
		default:
			o, n := oldQty, newQty
			c.OldQuantity = &o
			c.NewQuantity = &n
			switch {
			case newQty > oldQty:
				c.Classification = ChangeIncreased
			case newQty < oldQty:
				c.Classification = ChangeDecreased
			default:
				c.Classification = ChangeUnchanged
			}
		}
		changes = append(changes, c)
	}
	return changes
}

// Clone copia el snapshot (los callers no deben compartir el mapa vivo del ledger).
func (s Snapshot) Clone() Snapshot {
	out := make(Snapshot, len(s))
	for p, q := range s {
		out[p] = q
	}
	return out
}

// Apply devuelve un snapshot nuevo con las entradas upsertadas (no muta el receptor).
func (s Snapshot) Apply(entries map[string]int64) Snapshot {
	out := s.Clone()
	for p, q := range entries {
		out[p] = q
	}
	return out
}
