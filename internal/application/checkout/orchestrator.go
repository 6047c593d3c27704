// Package checkout convierte el carrito actual en un pedido enviado al servicio de órdenes.
package checkout

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/storefront-client/internal/application/cart"
	"github.com/jhoicas/storefront-client/internal/application/ports"
	"github.com/jhoicas/storefront-client/internal/domain"
	"github.com/jhoicas/storefront-client/internal/domain/entity"
	"github.com/jhoicas/storefront-client/pkg/logger"
)

// Cart lo que el orquestador necesita del carrito.
type Cart interface {
	Items() []entity.CartItem
	Clear(ctx context.Context) error
}

// UserSource usuario autenticado, para precargar los datos de envío.
type UserSource interface {
	CurrentUser() *entity.UserProfile
}

// Summary lo que ve el diálogo de confirmación.
type Summary struct {
	Items    []entity.CartItem
	Total    decimal.Decimal
	Defaults entity.ShippingDetails
}

// ShippingPrompt pide al usuario los datos de envío. ok=false significa que canceló.
type ShippingPrompt interface {
	ShippingDetails(ctx context.Context, summary Summary) (details entity.ShippingDetails, ok bool, err error)
}

// PromptFunc adapta una función a ShippingPrompt.
type PromptFunc func(ctx context.Context, summary Summary) (entity.ShippingDetails, bool, error)

// ShippingDetails implementa ShippingPrompt.
func (f PromptFunc) ShippingDetails(ctx context.Context, summary Summary) (entity.ShippingDetails, bool, error) {
	return f(ctx, summary)
}

// FixedDetails prompt no interactivo que siempre confirma con los datos dados.
func FixedDetails(details entity.ShippingDetails) ShippingPrompt {
	return PromptFunc(func(context.Context, Summary) (entity.ShippingDetails, bool, error) {
		return details, true, nil
	})
}

// Orchestrator arma y envía el pedido. Un solo checkout a la vez.
type Orchestrator struct {
	cart   Cart
	users  UserSource
	orders ports.OrderService
	log    *logger.Logger

	inFlight atomic.Bool
}

// NewOrchestrator users puede ser nil.
func NewOrchestrator(c Cart, users UserSource, orders ports.OrderService, log *logger.Logger) *Orchestrator {
	return &Orchestrator{cart: c, users: users, orders: orders, log: log.Component("checkout")}
}

// Checkout valida el carrito, pide los datos de envío, envía el pedido y vacía el carrito
// solo si el servicio lo aceptó. Ante cualquier error el carrito queda intacto; no hay reintentos.
func (o *Orchestrator) Checkout(ctx context.Context, prompt ShippingPrompt) (*entity.Order, error) {
	if !o.inFlight.CompareAndSwap(false, true) {
		return nil, domain.ErrCheckoutInProgress
	}
	defer o.inFlight.Store(false)

	preview := o.cart.Items()
	if len(preview) == 0 {
		return nil, domain.ErrEmptyCart
	}

	details, ok, err := prompt.ShippingDetails(ctx, Summary{
		Items:    preview,
		Total:    cart.Total(preview),
		Defaults: o.defaults(),
	})
	if err != nil {
		return nil, fmt.Errorf("checkout: datos de envío: %w", err)
	}
	if !ok {
		return nil, domain.ErrCheckoutCancelled
	}
	if err := validateDetails(&details); err != nil {
		return nil, err
	}

	// El pedido se arma con el carrito al momento de enviar, no con el que vio el diálogo.
	snapshot := o.cart.Items()
	if len(snapshot) == 0 {
		return nil, domain.ErrEmptyCart
	}
	order := BuildOrder(snapshot, details)

	o.log.Info().
		Int64("user_id", order.UserID).
		Int("lines", len(order.Items)).
		Str("total", order.TotalAmount.StringFixed(2)).
		Msg("enviando pedido")

	created, err := o.orders.CreateOrder(ctx, order)
	if err != nil {
		o.log.Warn().Err(err).Msg("pedido rechazado, el carrito se conserva")
		return nil, err
	}
	if created == nil {
		created = order
	}

	if err := o.cart.Clear(ctx); err != nil {
		o.log.Warn().Err(err).Int64("order_id", created.ID).Msg("pedido creado pero el carrito no se pudo persistir vacío")
	}
	o.log.Info().Int64("order_id", created.ID).Msg("pedido creado")
	return created, nil
}

// BuildOrder arma un pedido PENDING con una línea por item y el precio unitario del snapshot.
func BuildOrder(items []entity.CartItem, details entity.ShippingDetails) *entity.Order {
	lines := make([]entity.OrderItem, 0, len(items))
	for _, it := range items {
		lines = append(lines, entity.OrderItem{
			ProductID: it.Product.ID,
			Quantity:  it.Quantity,
			Price:     it.Product.Price,
		})
	}
	return &entity.Order{
		UserID:      details.UserID,
		TotalAmount: cart.Total(items),
		Status:      entity.OrderPending,
		Items:       lines,
		Address:     details.Address,
		Phone:       details.Phone,
	}
}

func (o *Orchestrator) defaults() entity.ShippingDetails {
	if o.users == nil {
		return entity.ShippingDetails{}
	}
	u := o.users.CurrentUser()
	if u == nil {
		return entity.ShippingDetails{}
	}
	d := entity.ShippingDetails{Address: u.Address, Phone: u.Phone}
	if id, err := strconv.ParseInt(u.ID, 10, 64); err == nil {
		d.UserID = id
	}
	return d
}

func validateDetails(d *entity.ShippingDetails) error {
	d.Address = strings.TrimSpace(d.Address)
	d.Phone = strings.TrimSpace(d.Phone)
	switch {
	case d.UserID <= 0:
		return fmt.Errorf("%w: identificador de cuenta requerido", domain.ErrInvalidInput)
	case d.Address == "":
		return fmt.Errorf("%w: dirección requerida", domain.ErrInvalidInput)
	case d.Phone == "":
		return fmt.Errorf("%w: teléfono requerido", domain.ErrInvalidInput)
	}
	return nil
}
