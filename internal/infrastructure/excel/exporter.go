// Package excel exporta el snapshot del ledger como hoja de cálculo.
package excel

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	domstock "github.com/ordesk/orders-api/internal/domain/stock"
)

const sheetName = "Stock"

// WriteSnapshot serializa el snapshot a un .xlsx con columnas
// Product / Quantity / Unit / Last_Updated, ordenado por producto.
func WriteSnapshot(snapshot domstock.Snapshot, now time.Time) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("renombrar hoja: %w", err)
	}
	if err := f.SetSheetRow(sheetName, "A1", &[]any{"Product", "Quantity", "Unit", "Last_Updated"}); err != nil {
		return nil, fmt.Errorf("escribir cabecera: %w", err)
	}

	products := make([]string, 0, len(snapshot))
	for p := range snapshot {
		products = append(products, p)
	}
	sort.Strings(products)

	date := now.Format("2006-01-02")
	for i, p := range products {
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheetName, cell, &[]any{p, snapshot[p], "units", date}); err != nil {
			return nil, fmt.Errorf("escribir fila %s: %w", cell, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serializar xlsx: %w", err)
	}
	return buf, nil
}
