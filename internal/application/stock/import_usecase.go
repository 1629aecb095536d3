package stock

import (
	"context"
	"fmt"
	"io"

	"github.com/ordesk/orders-api/internal/application/dto"
	"github.com/ordesk/orders-api/internal/application/normalizer"
	"github.com/ordesk/orders-api/internal/domain"
	"github.com/ordesk/orders-api/internal/domain/entity"
)

// ImportUseCase orquesta el pipeline de importación de stock: normalizar el
// canal de entrada, comparar contra el snapshot vigente del ledger, aplicar
// bajo el lock exclusivo y responder con el reporte de cambios.
type ImportUseCase struct {
	ledger  *LedgerUseCase
	fetcher Fetcher
}

// NewImportUseCase construye el caso de uso.
func NewImportUseCase(ledger *LedgerUseCase, fetcher Fetcher) *ImportUseCase {
	return &ImportUseCase{ledger: ledger, fetcher: fetcher}
}

// ImportText canal manual: texto "Product A:50, Product B:100units".
func (uc *ImportUseCase) ImportText(ctx context.Context, text string) (*dto.ImportResponse, error) {
	res := normalizer.ParseText(text)
	return uc.apply(ctx, res, entity.ReasonManualUpdate)
}

// ImportTabular canal tabular: archivo .csv o .xlsx subido.
func (uc *ImportUseCase) ImportTabular(ctx context.Context, filename string, r io.Reader) (*dto.ImportResponse, error) {
	res, err := normalizer.ParseTabular(filename, r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return uc.apply(ctx, res, entity.ReasonExcelImport)
}

// ImportRemote canal API externa: GET con bearer opcional y timeout acotado;
// el payload debe tener la forma record (lista de {product, quantity} o un
// objeto con campo products). Un fallo de fetch o de forma no aplica nada.
func (uc *ImportUseCase) ImportRemote(ctx context.Context, apiURL, apiKey string) (*dto.ImportResponse, error) {
	if apiURL == "" {
		return nil, fmt.Errorf("%w: api_url requerido", domain.ErrInvalidInput)
	}
	payload, err := uc.fetcher.Fetch(ctx, apiURL, apiKey)
	if err != nil {
		return nil, err
	}
	res, err := normalizer.ParseRecords(payload)
	if err != nil {
		return nil, err
	}
	return uc.apply(ctx, res, entity.ReasonAPIImport)
}

// apply ejecuta la parte común del pipeline: diff contra el snapshot previo
// y aplicación del lote, ambos dentro de la sección crítica del ledger.
func (uc *ImportUseCase) apply(ctx context.Context, res normalizer.Result, reason string) (*dto.ImportResponse, error) {
	changes, applied, err := uc.ledger.ApplyBatch(ctx, res.Records, reason)
	if err != nil {
		return nil, err
	}

	errs := res.Errors
	if errs == nil {
		errs = []string{}
	}
	return &dto.ImportResponse{
		ImportedCount: applied,
		Errors:        errs,
		Changes:       changes,
	}, nil
}
