package jsonstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	domcatalog "github.com/Jfdeev/eccomerce-qualidade-software/internal/domain/catalog"
	domorder "github.com/Jfdeev/eccomerce-qualidade-software/internal/domain/order"
	domuser "github.com/Jfdeev/eccomerce-qualidade-software/internal/domain/user"
)

// Store is a single-file JSON database shared by the product, order and user
// repositories. Data is loaded once at open and flushed on every mutation.
type Store struct {
	mu   sync.RWMutex
	path string
	data fileData
}

type fileData struct {
	Products []productRecord `json:"products"`
	Users    []userRecord    `json:"users"`
	Orders   []orderRecord   `json:"orders"`
}

type productRecord struct {
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

type userRecord struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash"`
	Address      string `json:"address,omitempty"`
	Phone        string `json:"phone,omitempty"`
}

type orderRecord struct {
	ID              string            `json:"id"`
	UserID          string            `json:"user_id"`
	Items           []orderItemRecord `json:"items"`
	Status          string            `json:"status"`
	CreatedAt       time.Time         `json:"created_at"`
	ShippingAddress string            `json:"shipping_address"`
}

type orderItemRecord struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	Size        string `json:"size"`
	Color       string `json:"color"`
	UnitPrice   int64  `json:"unit_price"`
}

// Open loads the JSON file at path, creating an empty store when the file
// does not exist yet.
func Open(path string) (*Store, error) {
	s := &Store{path: path}
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("jsonstore: read %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, &s.data); err != nil {
		return nil, fmt.Errorf("jsonstore: parse %s: %w", path, err)
	}
	return s, nil
}

// flush writes the whole dataset atomically. Callers must hold the write lock.
func (s *Store) flush() error {
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("jsonstore: marshal: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("jsonstore: mkdir: %w", err)
	}
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("jsonstore: write: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("jsonstore: rename: %w", err)
	}
	return nil
}

func toProductRecord(p *domcatalog.Product) productRecord {
	return productRecord{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price,
		Category:     p.Category,
		Sizes:        append([]string(nil), p.Sizes...),
		Colors:       append([]string(nil), p.Colors...),
		ImageURL:     p.ImageURL,
		Stock:        p.Stock,
		Brand:        p.Brand,
		Gender:       p.Gender,
		Rating:       p.Rating,
		ReviewsCount: p.ReviewsCount,
	}
}

func (r productRecord) toDomain() *domcatalog.Product {
	return &domcatalog.Product{
		ID:           r.ID,
		Name:         r.Name,
		Description:  r.Description,
		Price:        r.Price,
		Category:     r.Category,
		Sizes:        append([]string(nil), r.Sizes...),
		Colors:       append([]string(nil), r.Colors...),
		ImageURL:     r.ImageURL,
		Stock:        r.Stock,
		Brand:        r.Brand,
		Gender:       r.Gender,
		Rating:       r.Rating,
		ReviewsCount: r.ReviewsCount,
	}
}

func toUserRecord(u *domuser.User) userRecord {
	return userRecord{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Address:      u.Address,
		Phone:        u.Phone,
	}
}

func (r userRecord) toDomain() *domuser.User {
	return &domuser.User{
		ID:           r.ID,
		Name:         r.Name,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		Address:      r.Address,
		Phone:        r.Phone,
	}
}

func toOrderRecord(o *domorder.Order) orderRecord {
	items := make([]orderItemRecord, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, orderItemRecord{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Size:        item.Size,
			Color:       item.Color,
			UnitPrice:   item.UnitPrice,
		})
	}
	return orderRecord{
		ID:              o.ID,
		UserID:          o.UserID,
		Items:           items,
		Status:          string(o.Status),
		CreatedAt:       o.CreatedAt,
		ShippingAddress: o.ShippingAddress,
	}
}

func (r orderRecord) toDomain() *domorder.Order {
	items := make([]domorder.Item, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, domorder.Item{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Size:        item.Size,
			Color:       item.Color,
			UnitPrice:   item.UnitPrice,
		})
	}
	return &domorder.Order{
		ID:              r.ID,
		UserID:          r.UserID,
		Items:           items,
		Status:          domorder.Status(r.Status),
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.CreatedAt,
		ShippingAddress: r.ShippingAddress,
	}
}
