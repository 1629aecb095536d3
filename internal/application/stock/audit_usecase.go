package stock

import (
	"context"
	"fmt"

	"github.com/ordesk/orders-api/internal/application/dto"
	"github.com/ordesk/orders-api/internal/domain"
	"github.com/ordesk/orders-api/internal/domain/entity"
	"github.com/ordesk/orders-api/internal/domain/repository"
)

// AuditUseCase consulta paginada del log de auditoría (lectura pura:
// no pasa por el lock del ledger).
type AuditUseCase struct {
	auditRepo repository.AuditRepository
}

// NewAuditUseCase construye el caso de uso.
func NewAuditUseCase(auditRepo repository.AuditRepository) *AuditUseCase {
	return &AuditUseCase{auditRepo: auditRepo}
}

// Query devuelve una página de registros (más recientes primero) con
// metadatos {page, per_page, total, pages}.
func (uc *AuditUseCase) Query(ctx context.Context, req dto.AuditQueryRequest) (*dto.AuditPageResponse, error) {
	req.DefaultPage()
	if req.Reason != "" && !entity.ValidReason(req.Reason) {
		return nil, fmt.Errorf("%w: razón desconocida %q", domain.ErrInvalidInput, req.Reason)
	}

	filter := repository.AuditFilter{
		Product: req.Product,
		Reason:  req.Reason,
		Since:   req.Since,
	}
	records, total, err := uc.auditRepo.Query(filter, req.Page, req.PerPage)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []*entity.AuditRecord{}
	}
	return &dto.AuditPageResponse{
		History:  records,
		PageMeta: dto.NewPageMeta(req.Page, req.PerPage, total),
	}, nil
}
