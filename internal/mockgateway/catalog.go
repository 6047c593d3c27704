package mockgateway

import (
	"cmp"
	"slices"
	"strings"
	"sync"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/storefront-client/internal/application/dto"
	"github.com/jhoicas/storefront-client/internal/domain/entity"
)

// catalog productos en memoria, solo lectura para los clientes.
type catalog struct {
	mu       sync.RWMutex
	products []entity.Product
}

// SeedProducts genera n productos reproducibles a partir de seed.
func SeedProducts(n int, seed uint64) []entity.Product {
	f := gofakeit.New(seed)
	menus := []int64{1, 2, 3}
	out := make([]entity.Product, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, entity.Product{
			ID:          int64(i),
			Name:        f.ProductName(),
			Description: f.ProductDescription(),
			Price:       decimal.NewFromFloat(f.Price(1, 120)).Round(2),
			Available:   f.Number(0, 9) > 0,
			MenuID:      menus[f.Number(0, len(menus)-1)],
			Categories:  []string{strings.ToLower(f.ProductCategory())},
		})
	}
	return out
}

func newCatalog(products []entity.Product) *catalog {
	return &catalog{products: slices.Clone(products)}
}

func (c *catalog) get(id int64) (entity.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i := slices.IndexFunc(c.products, func(p entity.Product) bool { return p.ID == id })
	if i < 0 {
		return entity.Product{}, false
	}
	return c.products[i], true
}

// search filtra, ordena y pagina. Un filtro vacío devuelve todo el catálogo.
func (c *catalog) search(f dto.ProductFilter, page dto.PageRequest) pageWire {
	c.mu.RLock()
	matched := make([]entity.Product, 0, len(c.products))
	for _, p := range c.products {
		if matches(p, f) {
			matched = append(matched, p)
		}
	}
	c.mu.RUnlock()

	page.DefaultPage()
	slices.SortStableFunc(matched, func(a, b entity.Product) int {
		var r int
		switch page.SortBy {
		case "name":
			r = cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		case "price":
			r = a.Price.Cmp(b.Price)
		default:
			r = cmp.Compare(a.ID, b.ID)
		}
		if page.SortDir == "desc" {
			return -r
		}
		return r
	})

	total := len(matched)
	from := min(page.Page*page.Size, total)
	to := min(from+page.Size, total)
	out := pageWire{
		Content:       make([]productWire, 0, to-from),
		TotalElements: int64(total),
		TotalPages:    (total + page.Size - 1) / page.Size,
		Size:          page.Size,
		Number:        page.Page,
	}
	for _, p := range matched[from:to] {
		out.Content = append(out.Content, toProductWire(p))
	}
	return out
}

func matches(p entity.Product, f dto.ProductFilter) bool {
	if f.Name != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.Name)) {
		return false
	}
	if f.Description != "" && !strings.Contains(strings.ToLower(p.Description), strings.ToLower(f.Description)) {
		return false
	}
	if f.MinPrice != nil && p.Price.LessThan(*f.MinPrice) {
		return false
	}
	if f.MaxPrice != nil && p.Price.GreaterThan(*f.MaxPrice) {
		return false
	}
	if f.Available != nil && p.Available != *f.Available {
		return false
	}
	if f.MenuID != 0 && p.MenuID != f.MenuID {
		return false
	}
	if len(f.Categories) > 0 && !slices.ContainsFunc(f.Categories, func(c string) bool {
		return slices.Contains(p.Categories, strings.ToLower(c))
	}) {
		return false
	}
	return true
}
