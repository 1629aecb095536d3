package normalizer

import (
	"encoding/json"
	"fmt"

	"github.com/ordesk/orders-api/internal/domain"
	"github.com/ordesk/orders-api/internal/domain/entity"
)

// recordDTO forma de un registro del canal API externa.
// json.Number permite rechazar cantidades fraccionarias sin perder precisión.
type recordDTO struct {
	Product  string      `json:"product"`
	Quantity json.Number `json:"quantity"`
}

type recordEnvelope struct {
	Products []recordDTO `json:"products"`
}

// ParseRecords parsea el payload JSON del canal de API externa. Acepta dos
// formas: una secuencia de objetos {product, quantity} o un objeto con campo
// "products" conteniendo esa secuencia. Cualquier otra forma falla con
// domain.ErrInvalidPayloadShape; los registros individuales inválidos se
// saltan y reportan.
func ParseRecords(payload []byte) (Result, error) {
	records, err := decodeRecords(payload)
	if err != nil {
		return Result{}, err
	}

	var res Result
	var entries []entity.StockEntry
	for i, rec := range records {
		qty, err := rec.Quantity.Int64()
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("registro %d (%s): cantidad no entera %q", i, rec.Product, rec.Quantity.String()))
			continue
		}
		if err := validateEntry(rec.Product, qty); err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("registro %d: %v", i, err))
			continue
		}
		entries = append(entries, entity.StockEntry{Product: rec.Product, Quantity: qty})
	}

	res.Records = dedupeLastWins(entries)
	return res, nil
}

func decodeRecords(payload []byte) ([]recordDTO, error) {
	// Forma 1: secuencia de registros al tope del documento.
	var list []recordDTO
	if err := json.Unmarshal(payload, &list); err == nil {
		return list, nil
	}

	// Forma 2: objeto con campo "products".
	var envelope recordEnvelope
	if err := json.Unmarshal(payload, &envelope); err == nil && envelope.Products != nil {
		return envelope.Products, nil
	}

	return nil, fmt.Errorf("%w: se espera una lista de {product, quantity} o un objeto con campo products", domain.ErrInvalidPayloadShape)
}
