package stock_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ordesk/orders-api/internal/application/dto"
	appstock "github.com/ordesk/orders-api/internal/application/stock"
	"github.com/ordesk/orders-api/internal/domain"
	"github.com/ordesk/orders-api/internal/domain/entity"
	"github.com/ordesk/orders-api/internal/domain/repository"
)

// fakeAuditQueryRepo repositorio de auditoría solo-lectura con paginación.
type fakeAuditQueryRepo struct {
	records []*entity.AuditRecord

	gotFilter repository.AuditFilter
}

func (r *fakeAuditQueryRepo) Append(record *entity.AuditRecord) error {
	r.records = append(r.records, record)
	return nil
}

func (r *fakeAuditQueryRepo) Query(filter repository.AuditFilter, page, perPage int) ([]*entity.AuditRecord, int, error) {
	r.gotFilter = filter

	var matched []*entity.AuditRecord
	for _, rec := range r.records {
		if filter.Product != "" && rec.Product != filter.Product {
			continue
		}
		if filter.Reason != "" && rec.Reason != filter.Reason {
			continue
		}
		if filter.Since != nil && rec.CreatedAt.Before(*filter.Since) {
			continue
		}
		matched = append(matched, rec)
	}

	total := len(matched)
	start := (page - 1) * perPage
	if start >= total {
		return nil, total, nil
	}
	end := start + perPage
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func auditFixture() *fakeAuditQueryRepo {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	repo := &fakeAuditQueryRepo{}
	for i := 0; i < 5; i++ {
		repo.records = append(repo.records, &entity.AuditRecord{
			Product:        "A",
			QuantityChange: 1,
			NewQuantity:    int64(i + 1),
			Reason:         entity.ReasonManualUpdate,
			CreatedAt:      base.Add(time.Duration(i) * time.Hour),
		})
	}
	repo.records = append(repo.records, &entity.AuditRecord{
		Product:        "B",
		QuantityChange: -2,
		NewQuantity:    3,
		Reason:         entity.ReasonDeduction,
		CreatedAt:      base.Add(10 * time.Hour),
	})
	return repo
}

func TestAuditQuery_PaginacionYMetadatos(t *testing.T) {
	uc := appstock.NewAuditUseCase(auditFixture())

	resp, err := uc.Query(context.Background(), dto.AuditQueryRequest{
		PageRequest: dto.PageRequest{Page: 1, PerPage: 4},
	})
	require.NoError(t, err)

	assert.Len(t, resp.History, 4)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 4, resp.PerPage)
	assert.Equal(t, 6, resp.Total)
	assert.Equal(t, 2, resp.Pages, "6 filas con per_page 4 son 2 páginas")
}

func TestAuditQuery_FiltroPorProductoYRazon(t *testing.T) {
	repo := auditFixture()
	uc := appstock.NewAuditUseCase(repo)

	resp, err := uc.Query(context.Background(), dto.AuditQueryRequest{
		Product: "B",
		Reason:  entity.ReasonDeduction,
	})
	require.NoError(t, err)

	assert.Equal(t, "B", repo.gotFilter.Product)
	assert.Equal(t, entity.ReasonDeduction, repo.gotFilter.Reason)
	require.Len(t, resp.History, 1)
	assert.Equal(t, int64(-2), resp.History[0].QuantityChange)
}

func TestAuditQuery_FiltroSince(t *testing.T) {
	uc := appstock.NewAuditUseCase(auditFixture())

	since := time.Date(2026, 8, 1, 15, 30, 0, 0, time.UTC)
	resp, err := uc.Query(context.Background(), dto.AuditQueryRequest{Since: &since})
	require.NoError(t, err)

	assert.Equal(t, 2, resp.Total, "solo los registros desde la marca temporal")
}

func TestAuditQuery_RazonDesconocida(t *testing.T) {
	uc := appstock.NewAuditUseCase(auditFixture())

	_, err := uc.Query(context.Background(), dto.AuditQueryRequest{Reason: "otra"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAuditQuery_PaginaFueraDeRango(t *testing.T) {
	uc := appstock.NewAuditUseCase(auditFixture())

	resp, err := uc.Query(context.Background(), dto.AuditQueryRequest{
		PageRequest: dto.PageRequest{Page: 9, PerPage: 4},
	})
	require.NoError(t, err)

	assert.NotNil(t, resp.History, "una página vacía serializa como lista, nunca null")
	assert.Empty(t, resp.History)
	assert.Equal(t, 6, resp.Total)
}

func TestAuditQuery_DefaultsDePagina(t *testing.T) {
	repo := auditFixture()
	uc := appstock.NewAuditUseCase(repo)

	resp, err := uc.Query(context.Background(), dto.AuditQueryRequest{})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 50, resp.PerPage)
}
