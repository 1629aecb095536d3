package normalizer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ordesk/orders-api/internal/domain/entity"
)

// Cabeceras requeridas en el canal tabular (match exacto, sensible a mayúsculas).
const (
	headerProduct  = "Product"
	headerQuantity = "Quantity"
)

// ParseTabular despacha por extensión del archivo subido: .csv al lector CSV
// y .xlsx/.xlsm al lector de hoja de cálculo.
func ParseTabular(filename string, r io.Reader) (Result, error) {
	name := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(name, ".csv"):
		return ParseCSV(r)
	case strings.HasSuffix(name, ".xlsx"), strings.HasSuffix(name, ".xlsm"):
		return ParseXLSX(r)
	default:
		return Result{}, fmt.Errorf("extensión no soportada en %q (se acepta .csv, .xlsx)", filename)
	}
}

// ParseCSV lee el canal tabular en CSV. Requiere columnas Product y Quantity;
// columnas extra se ignoran. Filas con producto vacío o cantidad no numérica
// se saltan y cuentan como error.
func ParseCSV(r io.Reader) (Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // filas cortas se validan por índice, no aquí

	header, err := reader.Read()
	if err != nil {
		return Result{}, fmt.Errorf("leer cabecera CSV: %w", err)
	}
	prodIdx, qtyIdx, err := locateColumns(header)
	if err != nil {
		return Result{}, err
	}

	var res Result
	var entries []entity.StockEntry
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("fila %d: %v", line, err))
			continue
		}
		if e, rowErr := parseRow(row, prodIdx, qtyIdx, line); rowErr != "" {
			res.Errors = append(res.Errors, rowErr)
		} else {
			entries = append(entries, e)
		}
	}

	res.Records = dedupeLastWins(entries)
	return res, nil
}

// ParseXLSX lee el canal tabular en formato hoja de cálculo (primera hoja).
func ParseXLSX(r io.Reader) (Result, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Result{}, fmt.Errorf("abrir xlsx: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return Result{}, fmt.Errorf("xlsx sin hojas")
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return Result{}, fmt.Errorf("leer hoja %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return Result{}, fmt.Errorf("hoja %q vacía", sheet)
	}

	prodIdx, qtyIdx, err := locateColumns(rows[0])
	if err != nil {
		return Result{}, err
	}

	var res Result
	var entries []entity.StockEntry
	for i, row := range rows[1:] {
		line := i + 2
		if e, rowErr := parseRow(row, prodIdx, qtyIdx, line); rowErr != "" {
			res.Errors = append(res.Errors, rowErr)
		} else {
			entries = append(entries, e)
		}
	}

	res.Records = dedupeLastWins(entries)
	return res, nil
}

// locateColumns ubica Product y Quantity en la cabecera (match exacto).
func locateColumns(header []string) (prodIdx, qtyIdx int, err error) {
	prodIdx, qtyIdx = -1, -1
	for i, col := range header {
		switch strings.TrimSpace(col) {
		case headerProduct:
			prodIdx = i
		case headerQuantity:
			qtyIdx = i
		}
	}
	if prodIdx < 0 || qtyIdx < 0 {
		return 0, 0, fmt.Errorf("faltan columnas requeridas %s y/o %s", headerProduct, headerQuantity)
	}
	return prodIdx, qtyIdx, nil
}

func parseRow(row []string, prodIdx, qtyIdx, line int) (entity.StockEntry, string) {
	if prodIdx >= len(row) || qtyIdx >= len(row) {
		return entity.StockEntry{}, fmt.Sprintf("fila %d: incompleta", line)
	}
	product := strings.TrimSpace(row[prodIdx])
	qtyRaw := strings.TrimSpace(row[qtyIdx])
	qty, err := strconv.ParseInt(qtyRaw, 10, 64)
	if err != nil {
		return entity.StockEntry{}, fmt.Sprintf("fila %d: cantidad no numérica %q", line, qtyRaw)
	}
	if err := validateEntry(product, qty); err != nil {
		return entity.StockEntry{}, fmt.Sprintf("fila %d: %v", line, err)
	}
	return entity.StockEntry{Product: product, Quantity: qty}, ""
}
