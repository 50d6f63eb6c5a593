package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// ============================================================
// ENTITIES (read-only trong service này, admin quản lý ghi)
// ============================================================

type ProductStatus string

const (
	ProductStatusDraft    ProductStatus = "draft"
	ProductStatusActive   ProductStatus = "active"
	ProductStatusArchived ProductStatus = "archived"
)

// Product - bảng products
// Images là danh sách object key trong MinIO (cột text[])
type Product struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	Description *string         `json:"description"`
	Status      ProductStatus   `json:"status"`
	IsFeatured  bool            `json:"is_featured"`
	BasePrice   decimal.Decimal `json:"base_price"`
	Images      pq.StringArray  `json:"images"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	// Relations, chỉ có khi được include
	Variants        []Variant        `json:"variants,omitempty"`
	Categories      []Category       `json:"categories,omitempty"`
	Collections     []Collection     `json:"collections,omitempty"`
	AttributeValues []AttributeValue `json:"attribute_values,omitempty"`
}

// Variant - SKU cụ thể của product, Quantity là tồn kho hiện tại
type Variant struct {
	ID          uuid.UUID        `json:"id"`
	ProductID   uuid.UUID        `json:"product_id"`
	SKU         string           `json:"sku"`
	Quantity    int              `json:"quantity"`
	IsOrderable bool             `json:"is_orderable"`
	Size        *string          `json:"size"`
	MetalType   *string          `json:"metal_type"`
	WeightGrams *decimal.Decimal `json:"weight_grams"`
	Price       *decimal.Decimal `json:"price"`

	Product *Product `json:"product,omitempty"`
}

// Category - cây danh mục qua parent_id
type Category struct {
	ID          uuid.UUID  `json:"id"`
	ParentID    *uuid.UUID `json:"parent_id"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Description *string    `json:"description"`
	Image       *string    `json:"image"`
	Position    int        `json:"position"`

	Children []Category `json:"children,omitempty"`
}

type Collection struct {
	ID          uuid.UUID  `json:"id"`
	ParentID    *uuid.UUID `json:"parent_id"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Description *string    `json:"description"`
	HeroImage   *string    `json:"hero_image"`
	Position    int        `json:"position"`
	IsFeatured  bool       `json:"is_featured"`

	Children []Collection `json:"children,omitempty"`
}

type Attribute struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Slug     string    `json:"slug"`
	Type     string    `json:"type"`
	Position int       `json:"position"`
}

type AttributeValue struct {
	ID          uuid.UUID `json:"id"`
	AttributeID uuid.UUID `json:"attribute_id"`
	Value       string    `json:"value"`
	Slug        string    `json:"slug"`
	HexColor    *string   `json:"hex_color"`
	Position    int       `json:"position"`

	Attribute *Attribute `json:"attribute,omitempty"`
}

// ============================================================
// FACETS
// ============================================================

// Facet là một attribute có ít nhất một value xuất hiện trong tập product đã lọc
type Facet struct {
	ID     uuid.UUID    `json:"id"`
	Name   string       `json:"name"`
	Slug   string       `json:"slug"`
	Type   string       `json:"type"`
	Values []FacetValue `json:"values"`
}

// FacetValue.ProductCount đếm product trong tập đã lọc, không phải toàn catalog
type FacetValue struct {
	ID           uuid.UUID `json:"id"`
	Value        string    `json:"value"`
	Slug         string    `json:"slug"`
	HexColor     *string   `json:"hex_color"`
	ProductCount int       `json:"product_count"`
}

// ============================================================
// PAGINATION
// ============================================================

type ProductPage struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	PerPage  int       `json:"per_page"`
}

func (p ProductPage) LastPage() int {
	if p.PerPage <= 0 || p.Total == 0 {
		return 1
	}
	return (p.Total + p.PerPage - 1) / p.PerPage
}

// CategoryListing là toàn bộ dữ liệu của GET /categories/:slug, được cache chung một key
type CategoryListing struct {
	Category    Category     `json:"category"`
	Page        ProductPage  `json:"page"`
	Facets      []Facet      `json:"facets"`
	Collections []Collection `json:"collections"`
}

type CollectionListing struct {
	Collection Collection  `json:"collection"`
	Page       ProductPage `json:"page"`
	Facets     []Facet     `json:"facets"`
}
