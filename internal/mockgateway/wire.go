package mockgateway

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/storefront-client/internal/domain/entity"
)

// Formatos JSON del gateway: IDs y montos como números.

type authWire struct {
	Token   string `json:"token,omitempty"`
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

type productWire struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Price       json.Number `json:"price"`
	Available   bool        `json:"available"`
	MenuID      int64       `json:"menuId,omitempty"`
	Categories  []string    `json:"categories,omitempty"`
}

type pageWire struct {
	Content       []productWire `json:"content"`
	TotalElements int64         `json:"totalElements"`
	TotalPages    int           `json:"totalPages"`
	Size          int           `json:"size"`
	Number        int           `json:"number"`
}

type orderItemWire struct {
	ProductID int64       `json:"productId"`
	Quantity  int         `json:"quantity"`
	Price     json.Number `json:"price"`
}

type orderWire struct {
	ID          int64           `json:"id,omitempty"`
	UserID      int64           `json:"userId"`
	TotalAmount json.Number     `json:"totalAmount"`
	Status      string          `json:"status"`
	Items       []orderItemWire `json:"items"`
	Address     string          `json:"address,omitempty"`
	Phone       string          `json:"phone,omitempty"`
	CreatedAt   *time.Time      `json:"createdAt,omitempty"`
}

type messageWire struct {
	Message string `json:"message"`
}

func formatID(id int64) string { return strconv.FormatInt(id, 10) }

func toAuthWire(a *account) *authWire {
	return &authWire{ID: a.ID, Name: a.Name, Email: a.Email, Phone: a.Phone, Address: a.Address}
}

func toProductWire(p entity.Product) productWire {
	return productWire{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       json.Number(p.Price.String()),
		Available:   p.Available,
		MenuID:      p.MenuID,
		Categories:  p.Categories,
	}
}

func toOrderWire(o *entity.Order) orderWire {
	w := orderWire{
		ID:          o.ID,
		UserID:      o.UserID,
		TotalAmount: json.Number(o.TotalAmount.String()),
		Status:      string(o.Status),
		Items:       make([]orderItemWire, 0, len(o.Items)),
		Address:     o.Address,
		Phone:       o.Phone,
	}
	if !o.CreatedAt.IsZero() {
		t := o.CreatedAt
		w.CreatedAt = &t
	}
	for _, it := range o.Items {
		w.Items = append(w.Items, orderItemWire{ProductID: it.ProductID, Quantity: it.Quantity, Price: json.Number(it.Price.String())})
	}
	return w
}

func (w orderWire) toEntity() (*entity.Order, error) {
	total, err := decimal.NewFromString(w.TotalAmount.String())
	if err != nil {
		return nil, fmt.Errorf("totalAmount inválido: %w", err)
	}
	o := &entity.Order{
		UserID:      w.UserID,
		TotalAmount: total,
		Status:      entity.OrderStatus(w.Status),
		Items:       make([]entity.OrderItem, 0, len(w.Items)),
		Address:     w.Address,
		Phone:       w.Phone,
	}
	for _, it := range w.Items {
		price, err := decimal.NewFromString(it.Price.String())
		if err != nil {
			return nil, fmt.Errorf("precio inválido en producto %d: %w", it.ProductID, err)
		}
		o.Items = append(o.Items, entity.OrderItem{ProductID: it.ProductID, Quantity: it.Quantity, Price: price})
	}
	return o, nil
}
