package repository

import (
	"context"

	"github.com/cvaldivia/bodega-api/internal/domain/entity"
)

// ShelfRepository puerto de persistencia para repisas y estantes.
type ShelfRepository interface {
	GetByLetter(ctx context.Context, letter string) (*entity.ShelfLetter, error)
	// CreateWithSlots crea la repisa junto con todos sus estantes en una
	// sola operación.
	CreateWithSlots(ctx context.Context, letter string, numbers []string) (*entity.ShelfLetter, error)
	ListSlots(ctx context.Context, shelfLetterID int64) ([]*entity.ShelfSlot, error)
	CreateSlots(ctx context.Context, shelfLetterID int64, numbers []string) error
	GetSlot(ctx context.Context, shelfLetterID int64, number string) (*entity.ShelfSlot, error)
}
