package normalizer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ordesk/orders-api/internal/domain/entity"
)

// ParseText parsea entrada manual tipo "Product A:5, Product B:10units".
// Cada token separa nombre y cantidad por ":"; la cantidad es el entero
// inicial de la porción numérica y un sufijo de unidad se acepta y descarta.
// Tokens malformados (sin dos puntos, cantidad no entera o negativa) se
// saltan y se reportan; nunca abortan el lote completo.
func ParseText(text string) Result {
	var res Result
	var entries []entity.StockEntry

	for _, token := range strings.Split(text, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		name, qtyPart, found := strings.Cut(token, ":")
		if !found {
			res.Errors = append(res.Errors, fmt.Sprintf("token %q: falta ':'", token))
			continue
		}
		name = strings.TrimSpace(name)
		qty, err := parseLeadingQuantity(strings.TrimSpace(qtyPart))
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("token %q: %v", token, err))
			continue
		}
		if err := validateEntry(name, qty); err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("token %q: %v", token, err))
			continue
		}
		entries = append(entries, entity.StockEntry{Product: name, Quantity: qty})
	}

	res.Records = dedupeLastWins(entries)
	return res
}

// parseLeadingQuantity extrae el entero inicial de la porción numérica
// ("10units" -> 10). Un signo negativo o la ausencia de dígitos es error.
func parseLeadingQuantity(s string) (int64, error) {
	if s == "" {
		return 0, fmt.Errorf("cantidad vacía")
	}
	if s[0] == '-' {
		return 0, fmt.Errorf("cantidad negativa")
	}
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, fmt.Errorf("cantidad no entera %q", s)
	}
	qty, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("cantidad fuera de rango %q", s)
	}
	return qty, nil
}
