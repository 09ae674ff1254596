package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/cvaldivia/bodega-api/internal/domain"
	"github.com/cvaldivia/bodega-api/internal/domain/entity"
	"github.com/cvaldivia/bodega-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL
// (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos.
// Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, sku, description, quantity, brand, unit, notes, shelf_letter_id, shelf_slot_id, location_free, created_at, updated_at`

// locationArgs descompone la ubicación en las columnas nullable mutuamente
// excluyentes del esquema.
func locationArgs(loc entity.Location) (letterID, slotID *int64, free *string) {
	if ref, ok := loc.Shelf(); ok {
		return &ref.LetterID, &ref.SlotID, nil
	}
	text, _ := loc.FreeText()
	return nil, nil, &text
}

// scanProduct lee una fila de products y reconstruye la ubicación como unión.
func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	var letterID, slotID *int64
	var free *string
	err := row.Scan(&p.ID, &p.SKU, &p.Description, &p.Quantity, &p.Brand, &p.Unit, &p.Notes,
		&letterID, &slotID, &free, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if letterID != nil && slotID != nil {
		p.Location = entity.ShelfLocation(*letterID, *slotID)
	} else if free != nil {
		p.Location = entity.FreeTextLocation(*free)
	}
	return &p, nil
}

// Create persiste un nuevo producto y asigna su ID.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	letterID, slotID, free := locationArgs(product.Location)
	query := `
		INSERT INTO products (sku, description, quantity, brand, unit, notes, shelf_letter_id, shelf_slot_id, location_free)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`
	err := r.q.QueryRow(ctx, query,
		product.SKU, product.Description, product.Quantity, product.Brand, product.Unit,
		product.Notes, letterID, slotID, free,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetForUpdate obtiene un producto bloqueando su fila (SELECT FOR UPDATE).
func (r *ProductRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product for update: %w", err)
	}
	return p, nil
}

const productWithShelfSelect = `
	SELECT p.id, p.sku, p.description, p.quantity, p.brand, p.unit, p.notes,
	       p.shelf_letter_id, p.shelf_slot_id, p.location_free, p.created_at, p.updated_at,
	       COALESCE(sl.letter, ''), COALESCE(ss.number, '')
	FROM products p
	LEFT JOIN shelf_letters sl ON sl.id = p.shelf_letter_id
	LEFT JOIN shelf_slots ss ON ss.id = p.shelf_slot_id`

func scanProductWithShelf(row pgx.Row) (*entity.ProductWithShelf, error) {
	var p entity.ProductWithShelf
	var letterID, slotID *int64
	var free *string
	err := row.Scan(&p.ID, &p.SKU, &p.Description, &p.Quantity, &p.Brand, &p.Unit, &p.Notes,
		&letterID, &slotID, &free, &p.CreatedAt, &p.UpdatedAt, &p.ShelfLetter, &p.SlotNumber)
	if err != nil {
		return nil, err
	}
	if letterID != nil && slotID != nil {
		p.Location = entity.ShelfLocation(*letterID, *slotID)
	} else if free != nil {
		p.Location = entity.FreeTextLocation(*free)
	}
	return &p, nil
}

// GetBySKU obtiene un producto por SKU con su repisa resuelta.
func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.ProductWithShelf, error) {
	p, err := scanProductWithShelf(r.q.QueryRow(ctx, productWithShelfSelect+` WHERE p.sku = $1`, sku))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product by sku: %w", err)
	}
	return p, nil
}

// ExistsSKU indica si ya hay un producto con ese SKU.
func (r *ProductRepo) ExistsSKU(ctx context.Context, sku string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE sku = $1)`, sku).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists sku: %w", err)
	}
	return exists, nil
}

// Update reescribe la fila completa del producto (campos, cantidad y ubicación).
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	letterID, slotID, free := locationArgs(product.Location)
	query := `
		UPDATE products
		SET sku = $2, description = $3, quantity = $4, brand = $5, unit = $6, notes = $7,
		    shelf_letter_id = $8, shelf_slot_id = $9, location_free = $10, updated_at = now()
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		product.ID, product.SKU, product.Description, product.Quantity, product.Brand,
		product.Unit, product.Notes, letterID, slotID, free,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// sortColumns lista blanca de campos de orden aceptados en búsquedas. Las
// claves son los nombres que expone la API.
var sortColumns = map[string]string{
	"id":          "p.id",
	"sku":         "p.sku",
	"descripcion": "p.description",
	"cantidad":    "p.quantity",
	"marca":       "p.brand",
	"unidad":      "p.unit",
	"fecha":       "p.created_at",
}

// buildSearchWhere arma el WHERE dinámico de la búsqueda: cada token debe
// coincidir con algún campo (OR interno), los tokens y filtros se combinan
// con AND. unaccent + ILIKE hace la comparación insensible a tildes y caso.
func buildSearchWhere(filter repository.ProductFilter) (string, []any) {
	var conds []string
	var args []any
	pos := 1

	for _, token := range filter.Tokens {
		pattern := "%" + token + "%"
		conds = append(conds, fmt.Sprintf(
			`(unaccent(p.sku) ILIKE unaccent($%d) OR unaccent(p.brand) ILIKE unaccent($%d) OR unaccent(p.description) ILIKE unaccent($%d) OR unaccent(p.notes) ILIKE unaccent($%d))`,
			pos, pos, pos, pos))
		args = append(args, pattern)
		pos++
	}
	if filter.Brand != "" {
		conds = append(conds, fmt.Sprintf("p.brand = $%d", pos))
		args = append(args, filter.Brand)
		pos++
	}
	if filter.Unit != "" {
		conds = append(conds, fmt.Sprintf("p.unit = $%d", pos))
		args = append(args, filter.Unit)
		pos++
	}
	if filter.MinQuantity != nil {
		conds = append(conds, fmt.Sprintf("p.quantity >= $%d", pos))
		args = append(args, *filter.MinQuantity)
		pos++
	}
	if filter.MaxQuantity != nil {
		conds = append(conds, fmt.Sprintf("p.quantity <= $%d", pos))
		args = append(args, *filter.MaxQuantity)
		pos++
	}
	if filter.ShelfLetter != "" {
		conds = append(conds, fmt.Sprintf("sl.letter = $%d", pos))
		args = append(args, filter.ShelfLetter)
		pos++
	}
	if filter.SlotNumber != "" {
		conds = append(conds, fmt.Sprintf("ss.number = $%d", pos))
		args = append(args, filter.SlotNumber)
		pos++
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// Search busca productos con filtros, orden y paginación, y devuelve también
// el total sin paginar.
func (r *ProductRepo) Search(ctx context.Context, filter repository.ProductFilter) ([]*entity.ProductWithShelf, int, error) {
	where, args := buildSearchWhere(filter)

	countQuery := `
		SELECT count(*)
		FROM products p
		LEFT JOIN shelf_letters sl ON sl.id = p.shelf_letter_id
		LEFT JOIN shelf_slots ss ON ss.id = p.shelf_slot_id` + where
	var total int
	if err := r.q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	sortCol, ok := sortColumns[filter.SortBy]
	if !ok {
		sortCol = "p.id"
	}
	dir := "ASC"
	if filter.SortDesc {
		dir = "DESC"
	}
	pos := len(args) + 1
	query := fmt.Sprintf("%s%s ORDER BY %s %s LIMIT $%d OFFSET $%d",
		productWithShelfSelect, where, sortCol, dir, pos, pos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("search products: %w", err)
	}
	defer rows.Close()

	var list []*entity.ProductWithShelf
	for rows.Next() {
		p, err := scanProductWithShelf(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, total, rows.Err()
}

// Delete elimina un producto por ID. Si hay ventas o movimientos que lo
// referencian devuelve domain.ErrConflict.
func (r *ProductRepo) Delete(ctx context.Context, id int64) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("delete product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
