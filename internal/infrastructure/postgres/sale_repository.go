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

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación de SaleRepository sobre PostgreSQL (usable con pool
// o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persiste la venta con sus items en una sola escritura.
func (r *SaleRepo) Create(ctx context.Context, sale *entity.Sale) error {
	err := r.q.QueryRow(ctx,
		`INSERT INTO sales (comments) VALUES ($1) RETURNING id, date, voided`,
		sale.Comments,
	).Scan(&sale.ID, &sale.Date, &sale.Voided)
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	for i := range sale.Items {
		item := &sale.Items[i]
		item.SaleID = sale.ID
		err := r.q.QueryRow(ctx,
			`INSERT INTO sale_items (sale_id, product_id, quantity) VALUES ($1, $2, $3) RETURNING id`,
			item.SaleID, item.ProductID, item.Quantity,
		).Scan(&item.ID)
		if err != nil {
			return fmt.Errorf("insert sale item: %w", err)
		}
	}
	return nil
}

// GetByID obtiene una venta con sus items.
func (r *SaleRepo) GetByID(ctx context.Context, id int64) (*entity.Sale, error) {
	var s entity.Sale
	err := r.q.QueryRow(ctx,
		`SELECT id, date, comments, voided FROM sales WHERE id = $1`, id,
	).Scan(&s.ID, &s.Date, &s.Comments, &s.Voided)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}

	rows, err := r.q.Query(ctx,
		`SELECT id, sale_id, product_id, quantity FROM sale_items WHERE sale_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var item entity.SaleItem
		if err := rows.Scan(&item.ID, &item.SaleID, &item.ProductID, &item.Quantity); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		s.Items = append(s.Items, item)
	}
	return &s, rows.Err()
}

// MarkVoided marca la venta como anulada. Es la única transición permitida
// después de crearla.
func (r *SaleRepo) MarkVoided(ctx context.Context, id int64) error {
	cmd, err := r.q.Exec(ctx, `UPDATE sales SET voided = true WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark sale voided: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListHistory devuelve las ventas de la más reciente a la más antigua con los
// datos actuales de cada producto (no una foto histórica).
func (r *SaleRepo) ListHistory(ctx context.Context) ([]*entity.SaleDetail, error) {
	query := `
		SELECT s.id, s.date, s.comments, s.voided,
		       i.id, i.sale_id, i.product_id, i.quantity,
		       p.id, p.sku, p.description, p.quantity, p.brand, p.unit, p.notes,
		       p.shelf_letter_id, p.shelf_slot_id, p.location_free, p.created_at, p.updated_at,
		       COALESCE(sl.letter, ''), COALESCE(ss.number, '')
		FROM sales s
		JOIN sale_items i ON i.sale_id = s.id
		JOIN products p ON p.id = i.product_id
		LEFT JOIN shelf_letters sl ON sl.id = p.shelf_letter_id
		LEFT JOIN shelf_slots ss ON ss.id = p.shelf_slot_id
		ORDER BY s.date DESC, s.id DESC, i.id`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list sale history: %w", err)
	}
	defer rows.Close()

	var list []*entity.SaleDetail
	var current *entity.SaleDetail
	for rows.Next() {
		var (
			saleID   int64
			header   entity.SaleDetail
			detail   entity.SaleItemDetail
			letterID *int64
			slotID   *int64
			free     *string
		)
		err := rows.Scan(&saleID, &header.Date, &header.Comments, &header.Voided,
			&detail.ID, &detail.SaleID, &detail.ProductID, &detail.Quantity,
			&detail.Product.ID, &detail.Product.SKU, &detail.Product.Description,
			&detail.Product.Quantity, &detail.Product.Brand, &detail.Product.Unit,
			&detail.Product.Notes, &letterID, &slotID, &free,
			&detail.Product.CreatedAt, &detail.Product.UpdatedAt,
			&detail.Product.ShelfLetter, &detail.Product.SlotNumber)
		if err != nil {
			return nil, fmt.Errorf("scan sale history: %w", err)
		}
		if letterID != nil && slotID != nil {
			detail.Product.Location = entity.ShelfLocation(*letterID, *slotID)
		} else if free != nil {
			detail.Product.Location = entity.FreeTextLocation(*free)
		}
		if current == nil || current.ID != saleID {
			current = &entity.SaleDetail{
				ID:       saleID,
				Date:     header.Date,
				Comments: header.Comments,
				Voided:   header.Voided,
			}
			list = append(list, current)
		}
		current.Items = append(current.Items, detail)
	}
	return list, rows.Err()
}

// DeleteItemsByProduct elimina los items de venta de un producto (borrado en
// cascada solicitado explícitamente por el usuario).
func (r *SaleRepo) DeleteItemsByProduct(ctx context.Context, productID int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM sale_items WHERE product_id = $1`, productID); err != nil {
		return fmt.Errorf("delete sale items by product: %w", err)
	}
	return nil
}
