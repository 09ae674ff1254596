// Package apptest provee dobles en memoria de los puertos de persistencia
// para los tests de los casos de uso: repositorios sobre mapas y un TxRunner
// con semántica real de rollback (snapshot y restauración del estado).
package apptest

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cvaldivia/bodega-api/internal/application/ports"
	"github.com/cvaldivia/bodega-api/internal/domain"
	"github.com/cvaldivia/bodega-api/internal/domain/entity"
	"github.com/cvaldivia/bodega-api/internal/domain/repository"
)

// Store estado compartido de los repositorios falsos. Los campos Fail*
// inyectan fallos para probar la semántica transaccional.
type Store struct {
	Products  map[int64]entity.Product
	Shelves   map[int64]entity.ShelfLetter
	Slots     map[int64]entity.ShelfSlot
	Sales     map[int64]entity.Sale
	Movements []entity.Movement

	nextProductID  int64
	nextShelfID    int64
	nextSlotID     int64
	nextSaleID     int64
	nextItemID     int64
	nextMovementID int64

	// FailCreateSKU hace fallar Products().Create para ese SKU.
	FailCreateSKU string
	// FailMovementCreate hace fallar Movements().Create.
	FailMovementCreate error
	// FailProductUpdate hace fallar Products().Update.
	FailProductUpdate error
}

// NewStore construye un Store vacío.
func NewStore() *Store {
	return &Store{
		Products: make(map[int64]entity.Product),
		Shelves:  make(map[int64]entity.ShelfLetter),
		Slots:    make(map[int64]entity.ShelfSlot),
		Sales:    make(map[int64]entity.Sale),
	}
}

// SeedProduct inserta un producto directo en el estado y devuelve su ID.
func (s *Store) SeedProduct(sku, description string, quantity decimal.Decimal) int64 {
	s.nextProductID++
	now := time.Now()
	s.Products[s.nextProductID] = entity.Product{
		ID:          s.nextProductID,
		SKU:         sku,
		Description: description,
		Quantity:    quantity,
		Location:    entity.FreeTextLocation("No Posee"),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return s.nextProductID
}

// SeedShelf inserta una repisa con sus estantes y devuelve su ID.
func (s *Store) SeedShelf(letter string, numbers ...string) int64 {
	s.nextShelfID++
	s.Shelves[s.nextShelfID] = entity.ShelfLetter{ID: s.nextShelfID, Letter: letter}
	for _, n := range numbers {
		s.nextSlotID++
		s.Slots[s.nextSlotID] = entity.ShelfSlot{ID: s.nextSlotID, Number: n, ShelfLetterID: s.nextShelfID}
	}
	return s.nextShelfID
}

// MovementsFor devuelve los movimientos de un producto en orden de inserción.
func (s *Store) MovementsFor(productID int64) []entity.Movement {
	var out []entity.Movement
	for _, m := range s.Movements {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out
}

func (s *Store) snapshot() *Store {
	snap := &Store{
		Products:       make(map[int64]entity.Product, len(s.Products)),
		Shelves:        make(map[int64]entity.ShelfLetter, len(s.Shelves)),
		Slots:          make(map[int64]entity.ShelfSlot, len(s.Slots)),
		Sales:          make(map[int64]entity.Sale, len(s.Sales)),
		Movements:      append([]entity.Movement(nil), s.Movements...),
		nextProductID:  s.nextProductID,
		nextShelfID:    s.nextShelfID,
		nextSlotID:     s.nextSlotID,
		nextSaleID:     s.nextSaleID,
		nextItemID:     s.nextItemID,
		nextMovementID: s.nextMovementID,
	}
	for k, v := range s.Products {
		snap.Products[k] = v
	}
	for k, v := range s.Shelves {
		snap.Shelves[k] = v
	}
	for k, v := range s.Slots {
		snap.Slots[k] = v
	}
	for k, v := range s.Sales {
		v.Items = append([]entity.SaleItem(nil), v.Items...)
		snap.Sales[k] = v
	}
	return snap
}

func (s *Store) restore(snap *Store) {
	s.Products = snap.Products
	s.Shelves = snap.Shelves
	s.Slots = snap.Slots
	s.Sales = snap.Sales
	s.Movements = snap.Movements
	s.nextProductID = snap.nextProductID
	s.nextShelfID = snap.nextShelfID
	s.nextSlotID = snap.nextSlotID
	s.nextSaleID = snap.nextSaleID
	s.nextItemID = snap.nextItemID
	s.nextMovementID = snap.nextMovementID
}

func (s *Store) withShelf(p entity.Product) *entity.ProductWithShelf {
	out := &entity.ProductWithShelf{Product: p}
	if ref, ok := p.Location.Shelf(); ok {
		if shelf, found := s.Shelves[ref.LetterID]; found {
			out.ShelfLetter = shelf.Letter
		}
		if slot, found := s.Slots[ref.SlotID]; found {
			out.SlotNumber = slot.Number
		}
	}
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// TxRunner y UnitOfWork
// ──────────────────────────────────────────────────────────────────────────────

// TxRunner implementación en memoria de ports.TxRunner: si fn devuelve error,
// el estado del Store se restaura al snapshot previo.
type TxRunner struct {
	Store *Store
}

// NewTxRunner construye el runner sobre el Store dado.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{Store: store}
}

// Run ejecuta fn con semántica de transacción sobre el estado en memoria.
func (r *TxRunner) Run(ctx context.Context, fn func(uow ports.UnitOfWork) error) error {
	snap := r.Store.snapshot()
	if err := fn(&unitOfWork{store: r.Store}); err != nil {
		r.Store.restore(snap)
		return err
	}
	return nil
}

// RunWithTimeout igual que Run, con un contexto acotado por timeout. Si el
// plazo vence antes de que fn termine de consultar el contexto, fn decide; el
// runner solo revierte cuando fn devuelve error.
func (r *TxRunner) RunWithTimeout(ctx context.Context, timeout time.Duration, fn func(uow ports.UnitOfWork) error) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	snap := r.Store.snapshot()
	if err := fn(&unitOfWork{store: r.Store}); err != nil {
		r.Store.restore(snap)
		return err
	}
	if err := ctx.Err(); err != nil {
		r.Store.restore(snap)
		return err
	}
	return nil
}

type unitOfWork struct {
	store *Store
}

func (u *unitOfWork) Products() repository.ProductRepository   { return &ProductRepo{store: u.store} }
func (u *unitOfWork) Shelves() repository.ShelfRepository      { return &ShelfRepo{store: u.store} }
func (u *unitOfWork) Movements() repository.MovementRepository { return &MovementRepo{store: u.store} }
func (u *unitOfWork) Sales() repository.SaleRepository         { return &SaleRepo{store: u.store} }

func (u *unitOfWork) Nested(ctx context.Context, fn func(uow ports.UnitOfWork) error) error {
	snap := u.store.snapshot()
	if err := fn(&unitOfWork{store: u.store}); err != nil {
		u.store.restore(snap)
		return err
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// ProductRepo
// ──────────────────────────────────────────────────────────────────────────────

// ProductRepo repositorio de productos en memoria.
type ProductRepo struct {
	store *Store
}

// NewProductRepo construye el repositorio sobre el Store dado.
func NewProductRepo(store *Store) *ProductRepo {
	return &ProductRepo{store: store}
}

func (r *ProductRepo) Create(_ context.Context, product *entity.Product) error {
	if r.store.FailCreateSKU != "" && product.SKU == r.store.FailCreateSKU {
		return errInjected("crear producto")
	}
	for _, p := range r.store.Products {
		if p.SKU == product.SKU {
			return domain.ErrDuplicate
		}
	}
	r.store.nextProductID++
	product.ID = r.store.nextProductID
	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now
	r.store.Products[product.ID] = *product
	return nil
}

func (r *ProductRepo) GetByID(_ context.Context, id int64) (*entity.Product, error) {
	p, ok := r.store.Products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *ProductRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *ProductRepo) GetBySKU(_ context.Context, sku string) (*entity.ProductWithShelf, error) {
	for _, p := range r.store.Products {
		if p.SKU == sku {
			return r.store.withShelf(p), nil
		}
	}
	return nil, nil
}

func (r *ProductRepo) ExistsSKU(_ context.Context, sku string) (bool, error) {
	for _, p := range r.store.Products {
		if p.SKU == sku {
			return true, nil
		}
	}
	return false, nil
}

func (r *ProductRepo) Update(_ context.Context, product *entity.Product) error {
	if r.store.FailProductUpdate != nil {
		return r.store.FailProductUpdate
	}
	if _, ok := r.store.Products[product.ID]; !ok {
		return domain.ErrNotFound
	}
	product.UpdatedAt = time.Now()
	r.store.Products[product.ID] = *product
	return nil
}

func (r *ProductRepo) Search(_ context.Context, filter repository.ProductFilter) ([]*entity.ProductWithShelf, int, error) {
	var matched []*entity.ProductWithShelf
	for _, p := range r.store.Products {
		ps := r.store.withShelf(p)
		if !matchesFilter(ps, filter) {
			continue
		}
		matched = append(matched, ps)
	}

	sort.Slice(matched, func(i, j int) bool {
		var less bool
		switch filter.SortBy {
		case "cantidad":
			less = matched[i].Quantity.LessThan(matched[j].Quantity)
		case "sku":
			less = matched[i].SKU < matched[j].SKU
		default:
			less = matched[i].Description < matched[j].Description
		}
		if filter.SortDesc {
			return !less
		}
		return less
	})

	total := len(matched)
	if filter.Offset >= total {
		return nil, total, nil
	}
	matched = matched[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}
	return matched, total, nil
}

func (r *ProductRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.store.Products[id]; !ok {
		return domain.ErrNotFound
	}
	for _, m := range r.store.Movements {
		if m.ProductID == id {
			return domain.ErrConflict
		}
	}
	for _, s := range r.store.Sales {
		for _, item := range s.Items {
			if item.ProductID == id {
				return domain.ErrConflict
			}
		}
	}
	delete(r.store.Products, id)
	return nil
}

func matchesFilter(p *entity.ProductWithShelf, filter repository.ProductFilter) bool {
	for _, token := range filter.Tokens {
		t := strings.ToLower(token)
		if !strings.Contains(strings.ToLower(p.SKU), t) &&
			!strings.Contains(strings.ToLower(p.Description), t) &&
			!strings.Contains(strings.ToLower(p.Brand), t) &&
			!strings.Contains(strings.ToLower(p.Notes), t) {
			return false
		}
	}
	if filter.Brand != "" && !strings.EqualFold(p.Brand, filter.Brand) {
		return false
	}
	if filter.Unit != "" && !strings.EqualFold(p.Unit, filter.Unit) {
		return false
	}
	if filter.MinQuantity != nil && p.Quantity.LessThan(*filter.MinQuantity) {
		return false
	}
	if filter.MaxQuantity != nil && p.Quantity.GreaterThan(*filter.MaxQuantity) {
		return false
	}
	if filter.ShelfLetter != "" && p.ShelfLetter != filter.ShelfLetter {
		return false
	}
	if filter.SlotNumber != "" && p.SlotNumber != filter.SlotNumber {
		return false
	}
	return true
}

// ──────────────────────────────────────────────────────────────────────────────
// ShelfRepo
// ──────────────────────────────────────────────────────────────────────────────

// ShelfRepo repositorio de repisas en memoria.
type ShelfRepo struct {
	store *Store
}

func (r *ShelfRepo) GetByLetter(_ context.Context, letter string) (*entity.ShelfLetter, error) {
	for _, s := range r.store.Shelves {
		if s.Letter == letter {
			shelf := s
			return &shelf, nil
		}
	}
	return nil, nil
}

func (r *ShelfRepo) CreateWithSlots(ctx context.Context, letter string, numbers []string) (*entity.ShelfLetter, error) {
	r.store.nextShelfID++
	shelf := entity.ShelfLetter{ID: r.store.nextShelfID, Letter: letter}
	r.store.Shelves[shelf.ID] = shelf
	if err := r.CreateSlots(ctx, shelf.ID, numbers); err != nil {
		return nil, err
	}
	return &shelf, nil
}

func (r *ShelfRepo) ListSlots(_ context.Context, shelfLetterID int64) ([]*entity.ShelfSlot, error) {
	var out []*entity.ShelfSlot
	for _, slot := range r.store.Slots {
		if slot.ShelfLetterID == shelfLetterID {
			s := slot
			out = append(out, &s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (r *ShelfRepo) CreateSlots(_ context.Context, shelfLetterID int64, numbers []string) error {
	for _, n := range numbers {
		r.store.nextSlotID++
		r.store.Slots[r.store.nextSlotID] = entity.ShelfSlot{
			ID:            r.store.nextSlotID,
			Number:        n,
			ShelfLetterID: shelfLetterID,
		}
	}
	return nil
}

func (r *ShelfRepo) GetSlot(_ context.Context, shelfLetterID int64, number string) (*entity.ShelfSlot, error) {
	for _, slot := range r.store.Slots {
		if slot.ShelfLetterID == shelfLetterID && slot.Number == number {
			s := slot
			return &s, nil
		}
	}
	return nil, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// MovementRepo
// ──────────────────────────────────────────────────────────────────────────────

// MovementRepo repositorio de movimientos en memoria.
type MovementRepo struct {
	store *Store
}

// NewMovementRepo construye el repositorio sobre el Store dado.
func NewMovementRepo(store *Store) *MovementRepo {
	return &MovementRepo{store: store}
}

func (r *MovementRepo) Create(_ context.Context, movement *entity.Movement) error {
	if r.store.FailMovementCreate != nil {
		return r.store.FailMovementCreate
	}
	r.store.nextMovementID++
	movement.ID = r.store.nextMovementID
	if movement.Date.IsZero() {
		movement.Date = time.Now()
	}
	r.store.Movements = append(r.store.Movements, *movement)
	return nil
}

func (r *MovementRepo) List(_ context.Context, filter repository.MovementFilter, limit, offset int) ([]*entity.MovementWithProduct, error) {
	var matched []entity.Movement
	for _, m := range r.store.Movements {
		if !matchesMovement(m, filter) {
			continue
		}
		matched = append(matched, m)
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].Date.Equal(matched[j].Date) {
			return matched[i].Date.After(matched[j].Date)
		}
		return matched[i].ID > matched[j].ID
	})
	if offset >= len(matched) {
		return nil, nil
	}
	matched = matched[offset:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	out := make([]*entity.MovementWithProduct, 0, len(matched))
	for _, m := range matched {
		mw := &entity.MovementWithProduct{Movement: m}
		if p, ok := r.store.Products[m.ProductID]; ok {
			mw.Product = *r.store.withShelf(p)
		}
		out = append(out, mw)
	}
	return out, nil
}

func (r *MovementRepo) Count(_ context.Context, filter repository.MovementFilter) (int, error) {
	count := 0
	for _, m := range r.store.Movements {
		if matchesMovement(m, filter) {
			count++
		}
	}
	return count, nil
}

func matchesMovement(m entity.Movement, filter repository.MovementFilter) bool {
	if filter.From != nil && m.Date.Before(*filter.From) {
		return false
	}
	if filter.To != nil && m.Date.After(*filter.To) {
		return false
	}
	if filter.Type != "" && m.Type != filter.Type {
		return false
	}
	return true
}

func (r *MovementRepo) DeleteByProduct(_ context.Context, productID int64) error {
	kept := r.store.Movements[:0]
	for _, m := range r.store.Movements {
		if m.ProductID != productID {
			kept = append(kept, m)
		}
	}
	r.store.Movements = kept
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// SaleRepo
// ──────────────────────────────────────────────────────────────────────────────

// SaleRepo repositorio de ventas en memoria.
type SaleRepo struct {
	store *Store
}

// NewSaleRepo construye el repositorio sobre el Store dado.
func NewSaleRepo(store *Store) *SaleRepo {
	return &SaleRepo{store: store}
}

func (r *SaleRepo) Create(_ context.Context, sale *entity.Sale) error {
	r.store.nextSaleID++
	sale.ID = r.store.nextSaleID
	if sale.Date.IsZero() {
		sale.Date = time.Now()
	}
	for i := range sale.Items {
		r.store.nextItemID++
		sale.Items[i].ID = r.store.nextItemID
		sale.Items[i].SaleID = sale.ID
	}
	stored := *sale
	stored.Items = append([]entity.SaleItem(nil), sale.Items...)
	r.store.Sales[sale.ID] = stored
	return nil
}

func (r *SaleRepo) GetByID(_ context.Context, id int64) (*entity.Sale, error) {
	s, ok := r.store.Sales[id]
	if !ok {
		return nil, nil
	}
	s.Items = append([]entity.SaleItem(nil), s.Items...)
	return &s, nil
}

func (r *SaleRepo) MarkVoided(_ context.Context, id int64) error {
	s, ok := r.store.Sales[id]
	if !ok {
		return domain.ErrNotFound
	}
	s.Voided = true
	r.store.Sales[id] = s
	return nil
}

func (r *SaleRepo) ListHistory(_ context.Context) ([]*entity.SaleDetail, error) {
	out := make([]*entity.SaleDetail, 0, len(r.store.Sales))
	for _, s := range r.store.Sales {
		detail := &entity.SaleDetail{
			ID:       s.ID,
			Date:     s.Date,
			Comments: s.Comments,
			Voided:   s.Voided,
		}
		for _, item := range s.Items {
			d := entity.SaleItemDetail{SaleItem: item}
			if p, ok := r.store.Products[item.ProductID]; ok {
				d.Product = *r.store.withShelf(p)
			}
			detail.Items = append(detail.Items, d)
		}
		out = append(out, detail)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *SaleRepo) DeleteItemsByProduct(_ context.Context, productID int64) error {
	for id, s := range r.store.Sales {
		kept := s.Items[:0]
		for _, item := range s.Items {
			if item.ProductID != productID {
				kept = append(kept, item)
			}
		}
		s.Items = kept
		r.store.Sales[id] = s
	}
	return nil
}

type errInjected string

func (e errInjected) Error() string { return "fallo inyectado: " + string(e) }
