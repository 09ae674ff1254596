package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/cvaldivia/bodega-api/internal/domain"
	"github.com/cvaldivia/bodega-api/internal/domain/entity"
	"github.com/cvaldivia/bodega-api/internal/domain/repository"
)

var _ repository.ShelfRepository = (*ShelfRepo)(nil)

// ShelfRepo implementación de ShelfRepository sobre PostgreSQL (usable con
// pool o tx).
type ShelfRepo struct {
	q Querier
}

// NewShelfRepository construye el adaptador. Pasar pool o tx (Querier).
func NewShelfRepository(q Querier) *ShelfRepo {
	return &ShelfRepo{q: q}
}

// GetByLetter obtiene una repisa por letra.
func (r *ShelfRepo) GetByLetter(ctx context.Context, letter string) (*entity.ShelfLetter, error) {
	var s entity.ShelfLetter
	err := r.q.QueryRow(ctx, `SELECT id, letter FROM shelf_letters WHERE letter = $1`, letter).
		Scan(&s.ID, &s.Letter)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get shelf letter: %w", err)
	}
	return &s, nil
}

// CreateWithSlots crea la repisa y todos sus estantes en una sola operación.
func (r *ShelfRepo) CreateWithSlots(ctx context.Context, letter string, numbers []string) (*entity.ShelfLetter, error) {
	var s entity.ShelfLetter
	err := r.q.QueryRow(ctx, `INSERT INTO shelf_letters (letter) VALUES ($1) RETURNING id, letter`, letter).
		Scan(&s.ID, &s.Letter)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrDuplicate
		}
		return nil, fmt.Errorf("insert shelf letter: %w", err)
	}
	if err := r.CreateSlots(ctx, s.ID, numbers); err != nil {
		return nil, err
	}
	return &s, nil
}

// ListSlots lista los estantes de una repisa.
func (r *ShelfRepo) ListSlots(ctx context.Context, shelfLetterID int64) ([]*entity.ShelfSlot, error) {
	rows, err := r.q.Query(ctx,
		`SELECT id, number, shelf_letter_id FROM shelf_slots WHERE shelf_letter_id = $1 ORDER BY number`,
		shelfLetterID)
	if err != nil {
		return nil, fmt.Errorf("list shelf slots: %w", err)
	}
	defer rows.Close()

	var list []*entity.ShelfSlot
	for rows.Next() {
		var s entity.ShelfSlot
		if err := rows.Scan(&s.ID, &s.Number, &s.ShelfLetterID); err != nil {
			return nil, fmt.Errorf("scan shelf slot: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// CreateSlots inserta los estantes indicados en una repisa existente.
func (r *ShelfRepo) CreateSlots(ctx context.Context, shelfLetterID int64, numbers []string) error {
	for _, n := range numbers {
		_, err := r.q.Exec(ctx,
			`INSERT INTO shelf_slots (number, shelf_letter_id) VALUES ($1, $2)`, n, shelfLetterID)
		if err != nil {
			if isUniqueViolation(err) {
				return domain.ErrDuplicate
			}
			return fmt.Errorf("insert shelf slot: %w", err)
		}
	}
	return nil
}

// GetSlot obtiene un estante por repisa y número.
func (r *ShelfRepo) GetSlot(ctx context.Context, shelfLetterID int64, number string) (*entity.ShelfSlot, error) {
	var s entity.ShelfSlot
	err := r.q.QueryRow(ctx,
		`SELECT id, number, shelf_letter_id FROM shelf_slots WHERE shelf_letter_id = $1 AND number = $2`,
		shelfLetterID, number).Scan(&s.ID, &s.Number, &s.ShelfLetterID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get shelf slot: %w", err)
	}
	return &s, nil
}
