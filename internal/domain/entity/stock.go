package entity

import (
	"fmt"
	"time"
)

// StockEntry par canónico (producto, cantidad) producido por los normalizadores.
// Es la única forma en la que un canal de importación llega al ledger.
type StockEntry struct {
	Product  string `json:"product"`
	Quantity int64  `json:"quantity"`
}

// Stock fila del ledger: cantidad actual de un producto.
type Stock struct {
	Product   string    `json:"product"`
	Quantity  int64     `json:"quantity"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MaxProductNameLen tope del nombre de producto en todos los canales.
const MaxProductNameLen = 100

// ValidateProductName valida nombre no vacío, <=100 caracteres y
// alfanumérico más espacio/guion.
func ValidateProductName(name string) error {
	if name == "" {
		return fmt.Errorf("nombre de producto vacío")
	}
	if len(name) > MaxProductNameLen {
		return fmt.Errorf("nombre de producto supera %d caracteres", MaxProductNameLen)
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == ' ' || r == '-':
		default:
			return fmt.Errorf("nombre de producto con carácter inválido %q", r)
		}
	}
	return nil
}
