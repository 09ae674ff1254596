package importer

import (
	"context"
	"fmt"

	"github.com/cvaldivia/bodega-api/internal/domain/repository"
)

// uniqueSKU resuelve colisiones de SKU añadiendo sufijos -2, -3, … sobre la
// base hasta encontrar uno libre tanto en el lote actual como entre los
// productos ya persistidos. seen es el acumulador del lote, pasado
// explícitamente (no estado ambiente); el llamador registra ahí el SKU
// elegido.
func uniqueSKU(ctx context.Context, productRepo repository.ProductRepository, base string, seen map[string]struct{}) (string, error) {
	candidate := base
	for attempt := 2; ; attempt++ {
		if _, taken := seen[candidate]; !taken {
			exists, err := productRepo.ExistsSKU(ctx, candidate)
			if err != nil {
				return "", err
			}
			if !exists {
				return candidate, nil
			}
		}
		candidate = fmt.Sprintf("%s-%d", base, attempt)
	}
}
