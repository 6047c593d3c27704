// Package cart mantiene el carrito del cliente: una línea por producto,
// cantidades >= 1, orden de inserción preservado.
package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/storefront-client/internal/domain"
	"github.com/jhoicas/storefront-client/internal/domain/entity"
	"github.com/jhoicas/storefront-client/internal/domain/repository"
	"github.com/jhoicas/storefront-client/pkg/logger"
	"github.com/jhoicas/storefront-client/pkg/observable"
)

// Manager dueño del carrito. Cada mutación aplica, persiste y notifica bajo el mismo lock.
type Manager struct {
	store repository.KeyValueStore
	log   *logger.Logger

	mu    sync.Mutex
	items *observable.Subject[[]entity.CartItem]
}

// NewManager crea un carrito vacío; llamar Initialize para rehidratar.
func NewManager(store repository.KeyValueStore, log *logger.Logger) *Manager {
	return &Manager{
		store: store,
		log:   log.Component("cart"),
		items: observable.New([]entity.CartItem{}),
	}
}

// Initialize carga el carrito persistido. Bytes ilegibles o líneas que violan las
// invariantes se descartan: se registra, se borra la clave y el carrito queda vacío.
func (m *Manager) Initialize(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	raw, err := m.store.Get(ctx, repository.KeyCart)
	if err != nil {
		return fmt.Errorf("cart: leer carrito: %w", err)
	}
	if raw == nil {
		m.items.Publish([]entity.CartItem{})
		return nil
	}

	items, err := decodeItems(raw)
	if err != nil {
		m.log.Warn().Err(err).Msg("carrito persistido descartado")
		if rerr := m.store.Remove(ctx, repository.KeyCart); rerr != nil {
			m.log.Warn().Err(rerr).Msg("no se pudo borrar el carrito corrupto")
		}
		m.items.Publish([]entity.CartItem{})
		return nil
	}

	m.items.Publish(items)
	m.log.Debug().Int("lines", len(items)).Msg("carrito rehidratado")
	return nil
}

func decodeItems(raw []byte) ([]entity.CartItem, error) {
	var items []entity.CartItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCorruptedState, err)
	}
	seen := make(map[int64]struct{}, len(items))
	for _, it := range items {
		if it.Quantity < 1 {
			return nil, fmt.Errorf("%w: producto %d con cantidad %d", domain.ErrCorruptedState, it.Product.ID, it.Quantity)
		}
		if it.Product.Price.IsNegative() {
			return nil, fmt.Errorf("%w: producto %d con precio negativo", domain.ErrCorruptedState, it.Product.ID)
		}
		if _, dup := seen[it.Product.ID]; dup {
			return nil, fmt.Errorf("%w: producto %d duplicado", domain.ErrCorruptedState, it.Product.ID)
		}
		seen[it.Product.ID] = struct{}{}
	}
	if items == nil {
		items = []entity.CartItem{}
	}
	return items, nil
}

// AddItem suma quantity a la línea del producto o agrega una línea nueva al final.
func (m *Manager) AddItem(ctx context.Context, product entity.Product, quantity int) error {
	if quantity < 1 {
		return domain.ErrInvalidQuantity
	}
	if !product.Available {
		return fmt.Errorf("%w: %s", domain.ErrProductUnavailable, product.Name)
	}
	if product.Price.IsNegative() {
		return fmt.Errorf("%w: precio negativo", domain.ErrInvalidInput)
	}

	return m.mutate(ctx, func(items []entity.CartItem) ([]entity.CartItem, error) {
		if i := indexOf(items, product.ID); i >= 0 {
			if items[i].Quantity > math.MaxInt-quantity {
				return nil, fmt.Errorf("%w: cantidad fuera de rango", domain.ErrInvalidQuantity)
			}
			items[i].Quantity += quantity
			return items, nil
		}
		return append(items, entity.CartItem{Product: product, Quantity: quantity}), nil
	})
}

// RemoveItem quita la línea si existe. Si no existe no es error: igual persiste y notifica.
func (m *Manager) RemoveItem(ctx context.Context, productID int64) error {
	return m.mutate(ctx, func(items []entity.CartItem) ([]entity.CartItem, error) {
		return removeLine(items, productID), nil
	})
}

// UpdateQuantity fija la cantidad exacta; quantity <= 0 equivale a RemoveItem.
func (m *Manager) UpdateQuantity(ctx context.Context, productID int64, quantity int) error {
	return m.mutate(ctx, func(items []entity.CartItem) ([]entity.CartItem, error) {
		if quantity <= 0 {
			return removeLine(items, productID), nil
		}
		if i := indexOf(items, productID); i >= 0 {
			items[i].Quantity = quantity
		}
		return items, nil
	})
}

// Clear vacía el carrito, persiste y notifica.
func (m *Manager) Clear(ctx context.Context) error {
	return m.mutate(ctx, func([]entity.CartItem) ([]entity.CartItem, error) {
		return []entity.CartItem{}, nil
	})
}

// Items copia ordenada del carrito.
func (m *Manager) Items() []entity.CartItem {
	return cloneItems(m.items.Value())
}

// ItemCount suma de cantidades (para el badge), no el número de líneas.
func (m *Manager) ItemCount() int {
	return Count(m.items.Value())
}

// Count suma de cantidades de un snapshot.
func Count(items []entity.CartItem) int {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}

// TotalPrice suma exacta de precio * cantidad.
func (m *Manager) TotalPrice() decimal.Decimal {
	return Total(m.items.Value())
}

// Total suma de subtotales de un snapshot.
func Total(items []entity.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal())
	}
	return total
}

// Subscribe entrega el snapshot actual y luego cada cambio, en orden.
// fn no debe mutar el carrito de forma síncrona.
func (m *Manager) Subscribe(fn func([]entity.CartItem)) (unsubscribe func()) {
	return m.items.Subscribe(func(items []entity.CartItem) { fn(cloneItems(items)) })
}

// Close descarta los suscriptores.
func (m *Manager) Close() {
	m.items.Close()
}

// mutate aplica fn sobre una copia, persiste y publica. Si fn falla nada cambia.
// Si la escritura falla el nuevo estado igual se confirma y se notifica; se devuelve
// *domain.PersistenceWarning.
func (m *Manager) mutate(ctx context.Context, fn func([]entity.CartItem) ([]entity.CartItem, error)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	next, err := fn(cloneItems(m.items.Value()))
	if err != nil {
		return err
	}
	raw, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("cart: serializar: %w", err)
	}

	var warn error
	if err := m.store.Set(ctx, repository.KeyCart, raw); err != nil {
		warn = &domain.PersistenceWarning{Key: repository.KeyCart, Err: err}
		m.log.Warn().Err(err).Msg("carrito actualizado solo en memoria")
	}
	m.items.Publish(next)
	return warn
}

func indexOf(items []entity.CartItem, productID int64) int {
	for i, it := range items {
		if it.Product.ID == productID {
			return i
		}
	}
	return -1
}

func removeLine(items []entity.CartItem, productID int64) []entity.CartItem {
	if i := indexOf(items, productID); i >= 0 {
		return append(items[:i], items[i+1:]...)
	}
	return items
}

func cloneItems(items []entity.CartItem) []entity.CartItem {
	out := make([]entity.CartItem, len(items))
	copy(out, items)
	return out
}
