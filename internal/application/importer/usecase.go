// Package importer implementa la importación masiva de productos desde una
// planilla: normaliza filas sucias, crea repisas y estantes que falten,
// resuelve SKUs duplicados con sufijos y confirma todo el lote en una sola
// transacción con presupuesto de tiempo extendido.
package importer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cvaldivia/bodega-api/internal/application/dto"
	"github.com/cvaldivia/bodega-api/internal/application/ports"
	"github.com/cvaldivia/bodega-api/internal/domain"
	"github.com/cvaldivia/bodega-api/internal/domain/entity"
	"github.com/cvaldivia/bodega-api/pkg/logger"
)

// Nota que queda en el movimiento inicial de cada producto importado.
const importNote = "Importación masiva"

// UseCase pipeline de importación masiva.
type UseCase struct {
	txRunner ports.TxRunner
	reader   SpreadsheetReader
	timeout  time.Duration
	log      *logger.Logger
}

// NewUseCase construye el caso de uso. timeout es el presupuesto de la
// transacción de importación (archivos grandes tardan).
func NewUseCase(txRunner ports.TxRunner, reader SpreadsheetReader, timeout time.Duration, log *logger.Logger) *UseCase {
	return &UseCase{txRunner: txRunner, reader: reader, timeout: timeout, log: log}
}

// Execute procesa el archivo subido en filePath y devuelve el resultado con
// errores por fila y avisos. El archivo temporal se elimina al terminar por
// cualquier camino, incluidos los fallos de lectura previos a la transacción.
func (uc *UseCase) Execute(ctx context.Context, filePath string) (*dto.ImportResult, error) {
	defer func() { _ = os.Remove(filePath) }()

	rawRows, err := uc.reader.Read(filePath)
	if err != nil {
		return nil, fmt.Errorf("leer archivo: %w", err)
	}
	if len(rawRows) == 0 {
		return nil, fmt.Errorf("%w: archivo sin encabezados", domain.ErrInvalidInput)
	}

	headerMap := ResolveHeaders(rawRows[0])
	dataRows := rawRows[1:]

	var advisories []string
	rows := make([]Row, 0, len(dataRows))
	for i, raw := range dataRows {
		row, rowAdvisories := NormalizeRow(headerMap, raw, i)
		advisories = append(advisories, rowAdvisories...)
		rows = append(rows, row)
	}

	// Repisas y estantes requeridos por las filas con ubicación estructurada.
	needed := collectShelving(rows)

	batchID := uuid.New().String()
	uc.log.Info().
		Str("batch_id", batchID).
		Int("rows", len(rows)).
		Msg("importación masiva iniciada")

	var rowErrors []string
	err = uc.txRunner.RunWithTimeout(ctx, uc.timeout, func(uow ports.UnitOfWork) error {
		shelfAdvisories, err := uc.ensureShelving(ctx, uow, needed)
		if err != nil {
			return err
		}
		advisories = append(advisories, shelfAdvisories...)

		// Acumulador de SKUs del lote, explícito y acotado a esta transacción.
		seen := make(map[string]struct{}, len(rows))
		for _, row := range rows {
			rowErr, err := uc.insertRow(ctx, uow, row, seen)
			if err != nil {
				return err
			}
			if rowErr != "" {
				rowErrors = append(rowErrors, rowErr)
			}
		}
		// Los errores por fila no revierten el lote: las filas correctas
		// quedan confirmadas igual.
		return nil
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, domain.ErrImportTimeout
		}
		return nil, err
	}

	result := &dto.ImportResult{
		Success:    len(rowErrors) == 0,
		Errors:     rowErrors,
		Advisories: advisories,
	}
	if result.Success {
		result.Message = "Importación completada correctamente."
	}
	uc.log.Info().
		Str("batch_id", batchID).
		Int("errors", len(rowErrors)).
		Int("advisories", len(advisories)).
		Msg("importación masiva finalizada")
	return result, nil
}

// collectShelving junta letra -> números de estante de todas las filas con
// ubicación estructurada.
func collectShelving(rows []Row) map[string]map[string]struct{} {
	needed := make(map[string]map[string]struct{})
	for _, row := range rows {
		loc := row.ClassifyLocation()
		if !loc.Structured {
			continue
		}
		if needed[loc.Letter] == nil {
			needed[loc.Letter] = make(map[string]struct{})
		}
		needed[loc.Letter][loc.Slot] = struct{}{}
	}
	return needed
}

// ensureShelving crea las repisas que falten (con todos sus estantes) y
// añade los estantes que falten a las existentes. Devuelve los avisos.
func (uc *UseCase) ensureShelving(ctx context.Context, uow ports.UnitOfWork, needed map[string]map[string]struct{}) ([]string, error) {
	letters := make([]string, 0, len(needed))
	for letter := range needed {
		letters = append(letters, letter)
	}
	sort.Strings(letters)

	var advisories []string
	for _, letter := range letters {
		numbers := sortedKeys(needed[letter])

		shelf, err := uow.Shelves().GetByLetter(ctx, letter)
		if err != nil {
			return nil, err
		}
		if shelf == nil {
			if _, err := uow.Shelves().CreateWithSlots(ctx, letter, numbers); err != nil {
				return nil, err
			}
			advisories = append(advisories,
				fmt.Sprintf("Repisa %s creada con %d estantes.", letter, len(numbers)))
			continue
		}

		existing, err := uow.Shelves().ListSlots(ctx, shelf.ID)
		if err != nil {
			return nil, err
		}
		existingSet := make(map[string]struct{}, len(existing))
		for _, slot := range existing {
			existingSet[slot.Number] = struct{}{}
		}
		var missing []string
		for _, n := range numbers {
			if _, ok := existingSet[n]; !ok {
				missing = append(missing, n)
			}
		}
		if len(missing) > 0 {
			if err := uow.Shelves().CreateSlots(ctx, shelf.ID, missing); err != nil {
				return nil, err
			}
			advisories = append(advisories,
				fmt.Sprintf("Repisa %s actualizada con %d estantes nuevos.", letter, len(missing)))
		}
	}
	return advisories, nil
}

// insertRow inserta el producto de una fila (y su movimiento inicial si trae
// cantidad) dentro de una subtransacción. Devuelve el error por fila como
// texto ("" si la fila quedó bien); el error de retorno aborta el lote y se
// reserva para fallos de infraestructura.
func (uc *UseCase) insertRow(ctx context.Context, uow ports.UnitOfWork, row Row, seen map[string]struct{}) (string, error) {
	sku, err := uniqueSKU(ctx, uow.Products(), row.SKU, seen)
	if err != nil {
		return "", err
	}
	seen[sku] = struct{}{}

	loc := row.ClassifyLocation()
	var location entity.Location
	if loc.Structured {
		// La pasada previa garantizó repisa y estante; si aun así no
		// resuelven, la fila se registra como error y se salta.
		shelf, err := uow.Shelves().GetByLetter(ctx, loc.Letter)
		if err != nil {
			return "", err
		}
		var slot *entity.ShelfSlot
		if shelf != nil {
			slot, err = uow.Shelves().GetSlot(ctx, shelf.ID, loc.Slot)
			if err != nil {
				return "", err
			}
		}
		if shelf == nil || slot == nil {
			return fmt.Sprintf("Fila %d: Ubicación inválida", row.Num), nil
		}
		location = entity.ShelfLocation(shelf.ID, slot.ID)
	} else {
		location = entity.FreeTextLocation(loc.Free)
	}

	err = uow.Nested(ctx, func(sub ports.UnitOfWork) error {
		product := &entity.Product{
			SKU:         sku,
			Description: row.Description,
			Quantity:    row.Quantity,
			Brand:       row.Brand,
			Unit:        row.Unit,
			Notes:       row.Notes,
			Location:    location,
		}
		if err := sub.Products().Create(ctx, product); err != nil {
			return err
		}
		if row.Quantity.GreaterThan(decimal.Zero) {
			mov := &entity.Movement{
				ProductID: product.ID,
				Type:      entity.MovementIngreso,
				Quantity:  row.Quantity,
				Notes:     importNote,
			}
			if err := sub.Movements().Create(ctx, mov); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		// El deadline de la transacción sí aborta el lote.
		if errors.Is(err, context.DeadlineExceeded) {
			return "", err
		}
		return fmt.Sprintf("Fila %d: Error al guardar producto (%v)", row.Num, err), nil
	}
	return "", nil
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
