package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ordesk/orders-api/internal/domain/entity"
	"github.com/ordesk/orders-api/internal/domain/repository"
)

var _ repository.AuditRepository = (*AuditRepo)(nil)

// AuditRepo implementación del log de auditoría sobre PostgreSQL
// (usable con pool o tx). La tabla stock_audit es append-only: nunca
// se emiten UPDATE ni DELETE contra ella.
type AuditRepo struct {
	q Querier
}

// NewAuditRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAuditRepository(q Querier) *AuditRepo {
	return &AuditRepo{q: q}
}

// Append persiste un registro de auditoría.
func (r *AuditRepo) Append(record *entity.AuditRecord) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_audit (id, product, quantity_change, new_quantity, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		record.ID, record.Product, record.QuantityChange, record.NewQuantity,
		record.Reason, record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append audit record: %w", err)
	}
	return nil
}

// Query devuelve una página de registros más recientes primero, aplicando los
// filtros opcionales, y el total de filas que cumplen el filtro. Pagina en la
// BD (LIMIT/OFFSET): nunca carga la tabla completa.
func (r *AuditRepo) Query(filter repository.AuditFilter, page, perPage int) ([]*entity.AuditRecord, int, error) {
	where := ""
	args := []any{}
	pos := 1
	appendCond := func(cond string, value any) {
		if where == "" {
			where = " WHERE "
		} else {
			where += " AND "
		}
		where += fmt.Sprintf(cond, pos)
		args = append(args, value)
		pos++
	}
	if filter.Product != "" {
		appendCond("product = $%d", filter.Product)
	}
	if filter.Reason != "" {
		appendCond("reason = $%d", filter.Reason)
	}
	if filter.Since != nil {
		appendCond("created_at >= $%d", *filter.Since)
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM stock_audit" + where
	if err := r.q.QueryRow(context.Background(), countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count audit records: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, product, quantity_change, new_quantity, reason, created_at
		FROM stock_audit%s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d OFFSET $%d`, where, pos, pos+1)
	args = append(args, perPage, (page-1)*perPage)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query audit records: %w", err)
	}
	defer rows.Close()

	var records []*entity.AuditRecord
	for rows.Next() {
		var rec entity.AuditRecord
		if err := rows.Scan(&rec.ID, &rec.Product, &rec.QuantityChange, &rec.NewQuantity,
			&rec.Reason, &rec.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan audit record: %w", err)
		}
		records = append(records, &rec)
	}
	return records, total, rows.Err()
}
