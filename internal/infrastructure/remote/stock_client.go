// Package remote implementa el canal de importación desde un API externo.
package remote

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/ordesk/orders-api/internal/application/stock"
	"github.com/ordesk/orders-api/internal/domain"
)

// Ensure StockClient implements stock.Fetcher.
var _ stock.Fetcher = (*StockClient)(nil)

// StockClient cliente resty para el fetch remoto de stock. El timeout es un
// tope duro: un API lento falla limpio sin aplicar nada parcialmente.
type StockClient struct {
	httpClient *resty.Client
}

// NewStockClient construye el cliente con el timeout configurado.
func NewStockClient(timeout time.Duration) *StockClient {
	restyClient := resty.New()
	restyClient.
		SetHeader("Accept", "application/json").
		SetTimeout(timeout).
		SetRetryCount(0) // la importación no se reintenta sola

	return &StockClient{httpClient: restyClient}
}

// Fetch hace GET al API indicado con bearer token opcional y devuelve el
// body crudo. Cualquier fallo (timeout, conexión, status != 200) se envuelve
// en domain.ErrRemoteFetch.
func (c *StockClient) Fetch(ctx context.Context, apiURL, apiKey string) ([]byte, error) {
	req := c.httpClient.R().SetContext(ctx)
	if apiKey != "" {
		req.SetHeader("Authorization", fmt.Sprintf("Bearer %s", apiKey))
	}

	resp, err := req.Get(apiURL)
	if err != nil {
		var netErr net.Error
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
			return nil, fmt.Errorf("%w: timeout consultando %s", domain.ErrRemoteFetch, apiURL)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrRemoteFetch, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d de %s", domain.ErrRemoteFetch, resp.StatusCode(), apiURL)
	}
	return resp.Body(), nil
}
