package repository

import (
	"context"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/GTDGit/creator_match_api/internal/dataset"
	"github.com/GTDGit/creator_match_api/internal/models"
	"github.com/GTDGit/creator_match_api/internal/utils"
)

// snapshot is an immutable, indexed view of one dataset.
type snapshot struct {
	data           *dataset.Dataset
	creatorIdx     map[string]int
	productIdx     map[string]int
	salesByCreator map[string][]models.Sale
	salesByProduct map[string]int
}

func newSnapshot(ds *dataset.Dataset) *snapshot {
	s := &snapshot{
		data:           ds,
		creatorIdx:     make(map[string]int, len(ds.Creators)),
		productIdx:     make(map[string]int, len(ds.Products)),
		salesByCreator: make(map[string][]models.Sale, len(ds.Creators)),
		salesByProduct: make(map[string]int, len(ds.Products)),
	}
	for i, c := range ds.Creators {
		s.creatorIdx[c.ID] = i
	}
	for i, p := range ds.Products {
		s.productIdx[p.ID] = i
	}
	for _, sale := range ds.Sales {
		s.salesByCreator[sale.CreatorID] = append(s.salesByCreator[sale.CreatorID], sale)
		s.salesByProduct[sale.ProductID]++
	}
	for id, sales := range s.salesByCreator {
		sort.SliceStable(sales, func(i, j int) bool {
			return sales[i].SoldAt.Before(sales[j].SoldAt)
		})
		s.salesByCreator[id] = sales
	}
	return s
}

// MemoryStore serves every repository interface from an in-memory dataset.
// Readers never lock; Swap replaces the whole snapshot atomically.
type MemoryStore struct {
	current atomic.Pointer[snapshot]
}

var (
	_ CreatorRepository = (*MemoryStore)(nil)
	_ SaleRepository    = (*MemoryStore)(nil)
	_ ProductRepository = memoryProducts{}
)

// NewMemoryStore creates a store over ds.
func NewMemoryStore(ds *dataset.Dataset) *MemoryStore {
	m := &MemoryStore{}
	m.Swap(ds)
	return m
}

// Swap installs a new dataset. In-flight requests keep the snapshot they
// started with.
func (m *MemoryStore) Swap(ds *dataset.Dataset) {
	m.current.Store(newSnapshot(ds))
}

func (m *MemoryStore) snap() *snapshot {
	return m.current.Load()
}

// Creators returns a CreatorRepository view of the store.
func (m *MemoryStore) Creators() CreatorRepository {
	return m
}

// List implements CreatorRepository.
func (m *MemoryStore) List(_ context.Context, f models.CreatorFilter) ([]models.Creator, int, error) {
	s := m.snap()

	matched := make([]models.Creator, 0, len(s.data.Creators))
	for _, c := range s.data.Creators {
		if f.Platform != "" && c.Platform != f.Platform {
			continue
		}
		if f.Category != "" && !c.HasCategory(f.Category) {
			continue
		}
		matched = append(matched, c)
	}

	sortCreators(matched, f.Sort, f.Order)
	start, end := utils.PageBounds(f.Page, f.Limit, len(matched))
	return matched[start:end], len(matched), nil
}

// GetByID implements CreatorRepository.
func (m *MemoryStore) GetByID(_ context.Context, id string) (*models.Creator, error) {
	s := m.snap()
	i, ok := s.creatorIdx[id]
	if !ok {
		return nil, ErrNotFound
	}
	c := s.data.Creators[i]
	return &c, nil
}

// ListByCategory implements CreatorRepository.
func (m *MemoryStore) ListByCategory(_ context.Context, category models.Category) ([]models.Creator, error) {
	s := m.snap()
	out := make([]models.Creator, 0)
	for _, c := range s.data.Creators {
		if c.HasCategory(category) {
			out = append(out, c)
		}
	}
	return out, nil
}

// Products returns a ProductRepository view of the store. The method names
// of the two catalogs overlap, so each gets its own adapter.
func (m *MemoryStore) Products() ProductRepository {
	return memoryProducts{m}
}

type memoryProducts struct {
	m *MemoryStore
}

func (p memoryProducts) List(_ context.Context, f models.ProductFilter) ([]models.Product, int, error) {
	s := p.m.snap()
	search := strings.ToLower(strings.TrimSpace(f.Search))

	matched := make([]models.Product, 0, len(s.data.Products))
	for _, prod := range s.data.Products {
		if f.Category != "" && prod.Category != f.Category {
			continue
		}
		if f.MinPrice != nil && prod.Price < *f.MinPrice {
			continue
		}
		if f.MaxPrice != nil && prod.Price > *f.MaxPrice {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(prod.Name), search) &&
			!strings.Contains(strings.ToLower(prod.Brand), search) {
			continue
		}
		matched = append(matched, prod)
	}

	sortProducts(matched, f.Sort, f.Order)
	start, end := utils.PageBounds(f.Page, f.Limit, len(matched))
	return matched[start:end], len(matched), nil
}

func (p memoryProducts) GetByID(_ context.Context, id string) (*models.Product, error) {
	s := p.m.snap()
	i, ok := s.productIdx[id]
	if !ok {
		return nil, ErrNotFound
	}
	prod := s.data.Products[i]
	return &prod, nil
}

func (p memoryProducts) GetByIDs(_ context.Context, ids []string) (map[string]models.Product, error) {
	s := p.m.snap()
	out := make(map[string]models.Product, len(ids))
	for _, id := range ids {
		if i, ok := s.productIdx[id]; ok {
			out[id] = s.data.Products[i]
		}
	}
	return out, nil
}

func (p memoryProducts) ListByCategories(_ context.Context, categories []string) ([]models.Product, error) {
	s := p.m.snap()
	want := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		want[c] = struct{}{}
	}
	out := make([]models.Product, 0)
	for _, prod := range s.data.Products {
		if _, ok := want[string(prod.Category)]; ok {
			out = append(out, prod)
		}
	}
	return out, nil
}

// Sales returns a SaleRepository view of the store.
func (m *MemoryStore) Sales() SaleRepository {
	return m
}

// ListByCreator implements SaleRepository.
func (m *MemoryStore) ListByCreator(_ context.Context, creatorID string) ([]models.Sale, error) {
	sales := m.snap().salesByCreator[creatorID]
	out := make([]models.Sale, len(sales))
	copy(out, sales)
	return out, nil
}

// ListByCreatorPaged implements SaleRepository.
func (m *MemoryStore) ListByCreatorPaged(_ context.Context, creatorID string, page, limit int) ([]models.Sale, int, error) {
	sales := m.snap().salesByCreator[creatorID]
	newest := make([]models.Sale, len(sales))
	for i := range sales {
		newest[len(sales)-1-i] = sales[i]
	}
	start, end := utils.PageBounds(page, limit, len(newest))
	return newest[start:end], len(newest), nil
}

// CountByProduct implements SaleRepository.
func (m *MemoryStore) CountByProduct(_ context.Context, productID string) (int, error) {
	return m.snap().salesByProduct[productID], nil
}
