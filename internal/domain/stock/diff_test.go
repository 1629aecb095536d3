package stock_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ordesk/orders-api/internal/domain/stock"
)

func classifications(changes []stock.Change) map[string]string {
	out := make(map[string]string, len(changes))
	for _, c := range changes {
		out[c.Product] = c.Classification
	}
	return out
}

// Comparación con las cinco clasificaciones presentes a la vez.
func TestDiff_CincoClasificaciones(t *testing.T) {
	previous := stock.Snapshot{"A": 5, "B": 3, "C": 7, "E": 2}
	current := stock.Snapshot{"A": 8, "B": 1, "C": 7, "D": 4}

	changes := stock.Diff(previous, current)
	got := classifications(changes)

	assert.Equal(t, stock.ChangeIncreased, got["A"], "A pasó de 5 a 8")
	assert.Equal(t, stock.ChangeDecreased, got["B"], "B pasó de 3 a 1")
	assert.Equal(t, stock.ChangeUnchanged, got["C"], "C no cambió")
	assert.Equal(t, stock.ChangeAdded, got["D"], "D solo existe en el snapshot nuevo")
	assert.Equal(t, stock.ChangeRemoved, got["E"], "E solo existe en el snapshot viejo")
}

// El resultado va ordenado por nombre de producto.
func TestDiff_OrdenDeterminista(t *testing.T) {
	previous := stock.Snapshot{"zeta": 1, "alfa": 2}
	current := stock.Snapshot{"beta": 3, "alfa": 2}

	changes := stock.Diff(previous, current)
	require.Len(t, changes, 3)

	assert.Equal(t, "alfa", changes[0].Product)
	assert.Equal(t, "beta", changes[1].Product)
	assert.Equal(t, "zeta", changes[2].Product)
}

// Diff no muta ninguno de los snapshots de entrada.
func TestDiff_EsPura(t *testing.T) {
	previous := stock.Snapshot{"A": 5}
	current := stock.Snapshot{"B": 3}

	_ = stock.Diff(previous, current)

	assert.Equal(t, stock.Snapshot{"A": 5}, previous)
	assert.Equal(t, stock.Snapshot{"B": 3}, current)
}

// added lleva OldQuantity nil; removed lleva NewQuantity nil.
func TestDiff_CantidadesNulasEnAddedYRemoved(t *testing.T) {
	changes := stock.Diff(stock.Snapshot{"viejo": 4}, stock.Snapshot{"nuevo": 9})
	require.Len(t, changes, 2)

	byProduct := make(map[string]stock.Change)
	for _, c := range changes {
		byProduct[c.Product] = c
	}

	added := byProduct["nuevo"]
	require.Nil(t, added.OldQuantity)
	require.NotNil(t, added.NewQuantity)
	assert.Equal(t, int64(9), *added.NewQuantity)
	assert.Equal(t, int64(9), added.Delta())

	removed := byProduct["viejo"]
	require.NotNil(t, removed.OldQuantity)
	require.Nil(t, removed.NewQuantity)
	assert.Equal(t, int64(4), *removed.OldQuantity)
	assert.Equal(t, int64(-4), removed.Delta())
}

// Aplicar los deltas del diff sobre el snapshot previo reproduce el nuevo
// (para los productos presentes en el nuevo).
func TestDiff_RoundTripDeDeltas(t *testing.T) {
	previous := stock.Snapshot{"A": 5, "B": 3, "C": 7}
	current := stock.Snapshot{"A": 8, "B": 1, "C": 7, "D": 4}

	rebuilt := previous.Clone()
	for _, c := range stock.Diff(previous, current) {
		if c.Classification == stock.ChangeRemoved {
			continue
		}
		rebuilt[c.Product] = rebuilt[c.Product] + c.Delta()
	}

	for product, want := range current {
		assert.Equal(t, want, rebuilt[product], "el delta de %s debe reconstruir la cantidad nueva", product)
	}
}

// Snapshots vacíos: diff vacío.
func TestDiff_AmbosVacios(t *testing.T) {
	assert.Empty(t, stock.Diff(stock.Snapshot{}, stock.Snapshot{}))
}

func TestSnapshot_AplicarNoMuta(t *testing.T) {
	base := stock.Snapshot{"A": 1}
	out := base.Apply(map[string]int64{"A": 2, "B": 3})

	assert.Equal(t, stock.Snapshot{"A": 1}, base, "Apply no debe mutar el receptor")
	assert.Equal(t, stock.Snapshot{"A": 2, "B": 3}, out)
}
