package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrUnknownProduct      = errors.New("producto no existe en el stock")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrInvalidPayloadShape = errors.New("forma del payload inválida")
	ErrRemoteFetch         = errors.New("fallo al consultar el API remoto")
	ErrPersistence         = errors.New("fallo de persistencia")
	ErrInvalidTransition   = errors.New("transición de estado inválida")
)
