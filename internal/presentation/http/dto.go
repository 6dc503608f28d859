package httppresentation

import (
	"time"

	domcart "github.com/Jfdeev/eccomerce-qualidade-software/internal/domain/cart"
	domcatalog "github.com/Jfdeev/eccomerce-qualidade-software/internal/domain/catalog"
	domorder "github.com/Jfdeev/eccomerce-qualidade-software/internal/domain/order"
	domuser "github.com/Jfdeev/eccomerce-qualidade-software/internal/domain/user"
)

// Prices are integer cents everywhere on the wire.

type productResponse struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Price        int64    `json:"price"`
	Category     string   `json:"category"`
	Sizes        []string `json:"sizes"`
	Colors       []string `json:"colors"`
	ImageURL     string   `json:"image_url"`
	Stock        int      `json:"stock"`
	Brand        string   `json:"brand"`
	Gender       string   `json:"gender"`
	Rating       float64  `json:"rating"`
	ReviewsCount int      `json:"reviews_count"`
}

func toProductResponse(p *domcatalog.Product) productResponse {
	return productResponse{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price,
		Category:     p.Category,
		Sizes:        p.Sizes,
		Colors:       p.Colors,
		ImageURL:     p.ImageURL,
		Stock:        p.Stock,
		Brand:        p.Brand,
		Gender:       p.Gender,
		Rating:       p.Rating,
		ReviewsCount: p.ReviewsCount,
	}
}

func toProductListResponse(products []*domcatalog.Product) []productResponse {
	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	return out
}

type cartItemPayload struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	Size        string `json:"size"`
	Color       string `json:"color"`
	UnitPrice   int64  `json:"unit_price"`
	Subtotal    int64  `json:"subtotal"`
}

type cartResponse struct {
	UserID     string            `json:"user_id"`
	Items      []cartItemPayload `json:"items"`
	Total      int64             `json:"total"`
	ItemsCount int               `json:"items_count"`
}

func toCartResponse(c *domcart.Cart) cartResponse {
	items := make([]cartItemPayload, 0, len(c.Items))
	for _, item := range c.Items {
		items = append(items, cartItemPayload{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Size:        item.Size,
			Color:       item.Color,
			UnitPrice:   item.UnitPrice,
			Subtotal:    item.Subtotal(),
		})
	}
	return cartResponse{
		UserID:     c.UserID,
		Items:      items,
		Total:      c.Total(),
		ItemsCount: c.ItemsCount(),
	}
}

type orderItemPayload struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	Size        string `json:"size"`
	Color       string `json:"color"`
	UnitPrice   int64  `json:"unit_price"`
	Subtotal    int64  `json:"subtotal"`
}

type orderResponse struct {
	ID              string             `json:"id"`
	UserID          string             `json:"user_id"`
	Items           []orderItemPayload `json:"items"`
	Status          string             `json:"status"`
	Total           int64              `json:"total"`
	CreatedAt       string             `json:"created_at"`
	ShippingAddress string             `json:"shipping_address"`
}

func toOrderResponse(o *domorder.Order) orderResponse {
	items := make([]orderItemPayload, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, orderItemPayload{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Size:        item.Size,
			Color:       item.Color,
			UnitPrice:   item.UnitPrice,
			Subtotal:    item.Subtotal(),
		})
	}
	return orderResponse{
		ID:              o.ID,
		UserID:          o.UserID,
		Items:           items,
		Status:          string(o.Status),
		Total:           o.Total(),
		CreatedAt:       o.CreatedAt.Format(time.RFC3339Nano),
		ShippingAddress: o.ShippingAddress,
	}
}

func toOrderListResponse(orders []*domorder.Order) []orderResponse {
	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o))
	}
	return out
}

// userResponse never carries the password hash.
type userResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

func toUserResponse(u *domuser.User) userResponse {
	return userResponse{
		ID:      u.ID,
		Name:    u.Name,
		Email:   u.Email,
		Address: u.Address,
		Phone:   u.Phone,
	}
}
