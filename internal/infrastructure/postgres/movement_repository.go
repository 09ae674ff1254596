package postgres

import (
	"context"
	"fmt"

	"github.com/cvaldivia/bodega-api/internal/domain/entity"
	"github.com/cvaldivia/bodega-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación de MovementRepository sobre PostgreSQL (usable
// con pool o tx).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create persiste un movimiento de stock.
func (r *MovementRepo) Create(ctx context.Context, movement *entity.Movement) error {
	query := `
		INSERT INTO movements (product_id, type, quantity, notes, sale_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, date`
	err := r.q.QueryRow(ctx, query,
		movement.ProductID, movement.Type, movement.Quantity, movement.Notes, movement.SaleID,
	).Scan(&movement.ID, &movement.Date)
	if err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// movementWhere arma el filtro del log con posiciones dinámicas.
func movementWhere(filter repository.MovementFilter, startPos int) (string, []any) {
	var where string
	var args []any
	pos := startPos
	if filter.From != nil {
		where += fmt.Sprintf(" AND m.date >= $%d", pos)
		args = append(args, *filter.From)
		pos++
	}
	if filter.To != nil {
		where += fmt.Sprintf(" AND m.date <= $%d", pos)
		args = append(args, *filter.To)
		pos++
	}
	if filter.Type != "" {
		where += fmt.Sprintf(" AND m.type = $%d", pos)
		args = append(args, filter.Type)
	}
	return where, args
}

// List devuelve movimientos del más reciente al más antiguo con producto y
// repisa resueltos.
func (r *MovementRepo) List(ctx context.Context, filter repository.MovementFilter, limit, offset int) ([]*entity.MovementWithProduct, error) {
	where, args := movementWhere(filter, 1)
	pos := len(args) + 1
	query := fmt.Sprintf(`
		SELECT m.id, m.product_id, m.type, m.quantity, m.date, m.notes, m.sale_id,
		       p.id, p.sku, p.description, p.quantity, p.brand, p.unit, p.notes,
		       p.shelf_letter_id, p.shelf_slot_id, p.location_free, p.created_at, p.updated_at,
		       COALESCE(sl.letter, ''), COALESCE(ss.number, '')
		FROM movements m
		JOIN products p ON p.id = m.product_id
		LEFT JOIN shelf_letters sl ON sl.id = p.shelf_letter_id
		LEFT JOIN shelf_slots ss ON ss.id = p.shelf_slot_id
		WHERE true%s
		ORDER BY m.date DESC
		LIMIT $%d OFFSET $%d`, where, pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	var list []*entity.MovementWithProduct
	for rows.Next() {
		var m entity.MovementWithProduct
		var letterID, slotID *int64
		var free *string
		err := rows.Scan(&m.ID, &m.ProductID, &m.Type, &m.Quantity, &m.Date, &m.Notes, &m.SaleID,
			&m.Product.ID, &m.Product.SKU, &m.Product.Description, &m.Product.Quantity,
			&m.Product.Brand, &m.Product.Unit, &m.Product.Notes,
			&letterID, &slotID, &free, &m.Product.CreatedAt, &m.Product.UpdatedAt,
			&m.Product.ShelfLetter, &m.Product.SlotNumber)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		if letterID != nil && slotID != nil {
			m.Product.Location = entity.ShelfLocation(*letterID, *slotID)
		} else if free != nil {
			m.Product.Location = entity.FreeTextLocation(*free)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// Count cuenta los movimientos que cumplen el filtro.
func (r *MovementRepo) Count(ctx context.Context, filter repository.MovementFilter) (int, error) {
	where, args := movementWhere(filter, 1)
	var total int
	err := r.q.QueryRow(ctx, `SELECT count(*) FROM movements m WHERE true`+where, args...).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count movements: %w", err)
	}
	return total, nil
}

// DeleteByProduct elimina los movimientos de un producto (borrado en cascada
// solicitado explícitamente por el usuario).
func (r *MovementRepo) DeleteByProduct(ctx context.Context, productID int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM movements WHERE product_id = $1`, productID); err != nil {
		return fmt.Errorf("delete movements by product: %w", err)
	}
	return nil
}
