// Package movements expone el log de movimientos de stock, paginado y
// filtrable por rango de fechas y tipo.
package movements

import (
	"context"
	"fmt"

	"github.com/cvaldivia/bodega-api/internal/application/dto"
	"github.com/cvaldivia/bodega-api/internal/domain/repository"
	"github.com/cvaldivia/bodega-api/pkg/logger"
)

const defaultPageSize = 50

// UseCase consulta del log de movimientos.
type UseCase struct {
	movementRepo repository.MovementRepository
	log          *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(movementRepo repository.MovementRepository, log *logger.Logger) *UseCase {
	return &UseCase{movementRepo: movementRepo, log: log}
}

// ListMovements devuelve la página pedida del log, del movimiento más
// reciente al más antiguo. El filtro acota por fecha (inclusivo) y por tipo
// de movimiento; todos sus campos son opcionales.
func (uc *UseCase) ListMovements(ctx context.Context, page, limit int, filter repository.MovementFilter) (*dto.MovementLogResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultPageSize
	}
	offset := (page - 1) * limit

	movements, err := uc.movementRepo.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listar movimientos: %w", err)
	}
	total, err := uc.movementRepo.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("contar movimientos: %w", err)
	}

	data := make([]dto.MovementDTO, 0, len(movements))
	for _, m := range movements {
		data = append(data, dto.NewMovementDTO(m))
	}
	totalPages := (total + limit - 1) / limit
	return &dto.MovementLogResponse{
		Data: data,
		PageMeta: dto.PageMeta{
			Page:       page,
			Limit:      limit,
			TotalCount: total,
			TotalPages: totalPages,
		},
	}, nil
}
