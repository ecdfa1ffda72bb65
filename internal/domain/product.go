package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Category string

const (
	CategoryElectronics Category = "electronics"
	CategoryFashion     Category = "fashion"
	CategoryHome        Category = "home"
	CategorySports      Category = "sports"
	CategoryBooks       Category = "books"
	CategoryToys        Category = "toys"
	CategoryBeauty      Category = "beauty"
	CategoryOther       Category = "other"
)

var categories = []Category{
	CategoryElectronics, CategoryFashion, CategoryHome, CategorySports,
	CategoryBooks, CategoryToys, CategoryBeauty, CategoryOther,
}

// ParseCategory reports whether s names a known category.
func ParseCategory(s string) (Category, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, c := range categories {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

type Product struct {
	ID          uint64          `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string          `json:"name" gorm:"size:200;not null"`
	Description string          `json:"description" gorm:"type:text"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	Stock       int             `json:"stock" gorm:"not null;default:0"`
	Available   bool            `json:"available" gorm:"not null;default:true"`
	Category    Category        `json:"category" gorm:"size:20;not null;default:'other';index"`
	Image       string          `json:"image" gorm:"size:255"`
	CreatedAt   time.Time       `json:"createdAt" gorm:"autoCreateTime;index"`
}

// CanSupply reports whether qty units can be taken from the product right now.
func (p *Product) CanSupply(qty int) bool {
	return p.Available && p.Stock >= qty
}

type ProductSort string

const (
	SortLatest    ProductSort = ""
	SortPriceLow  ProductSort = "price_low"
	SortPriceHigh ProductSort = "price_high"
	SortNameAsc   ProductSort = "name_asc"
	SortNameDesc  ProductSort = "name_desc"
)

// ParseProductSort falls back to SortLatest for anything it does not know.
func ParseProductSort(s string) ProductSort {
	switch ProductSort(s) {
	case SortPriceLow, SortPriceHigh, SortNameAsc, SortNameDesc:
		return ProductSort(s)
	}
	return SortLatest
}

// ProductFilter is a normalized catalog query. A zero Category means every
// category.
type ProductFilter struct {
	Search   string
	Category Category
	Sort     ProductSort
}

// NewProductFilter never rejects input: unknown categories and sort keys are
// dropped.
func NewProductFilter(search, category, sort string) ProductFilter {
	f := ProductFilter{
		Search: strings.TrimSpace(search),
		Sort:   ParseProductSort(sort),
	}
	if c, ok := ParseCategory(category); ok {
		f.Category = c
	}
	return f
}
