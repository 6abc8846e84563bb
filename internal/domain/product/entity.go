// internal/domain/product/entity.go
package product

import (
	"errors"
	"math"
	"strings"
	"time"
)

var (
	ErrNotFound                 = errors.New("product not found")
	ErrInvalidName              = errors.New("product name is required")
	ErrInvalidStock             = errors.New("stock must not be negative")
	ErrInvalidFractionPerUnit   = errors.New("fractionPerUnit must be positive for a divisible product")
	ErrInvalidFractionRemaining = errors.New("fractionRemaining must be in [0, fractionPerUnit)")
	ErrInvalidAmount            = errors.New("amount must be positive")
	ErrWholeUnitsOnly           = errors.New("amount must be a whole number for a non-divisible product")
	ErrInsufficientStock        = errors.New("insufficient stock")
	ErrNameMismatch             = errors.New("confirmation name does not match the product name")
)

// Product は products コレクションの 1 ドキュメントを表します。
//
// Divisible な商品は「整数在庫 (Stock) + 端数 (FractionRemaining)」で保持し、
// FractionPerUnit が 1 単位あたりの端数量（例: 1kg = 1000g）を表します。
// 不変条件: IsDivisible のとき 0 <= FractionRemaining < FractionPerUnit。
type Product struct {
	ID           string
	Name         string
	CategoryName string

	Stock       int64
	IsDivisible bool

	// meaningful only if IsDivisible
	FractionPerUnit   float64
	FractionRemaining float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// New validates inputs and builds a Product. The ID is assigned by the
// repository on create, so it is left empty here.
func New(
	name string,
	categoryName string,
	stock int64,
	isDivisible bool,
	fractionPerUnit float64,
	fractionRemaining float64,
	now time.Time,
) (Product, error) {
	if now.IsZero() {
		now = time.Now().UTC()
	}

	p := Product{
		Name:              strings.TrimSpace(name),
		CategoryName:      strings.TrimSpace(categoryName),
		Stock:             stock,
		IsDivisible:       isDivisible,
		FractionPerUnit:   fractionPerUnit,
		FractionRemaining: fractionRemaining,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if !isDivisible {
		p.FractionPerUnit = 0
		p.FractionRemaining = 0
	}

	if err := p.Validate(); err != nil {
		return Product{}, err
	}
	return p, nil
}

// Validate checks the structural invariants of a Product.
func (p Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrInvalidName
	}
	if p.Stock < 0 {
		return ErrInvalidStock
	}
	if p.IsDivisible {
		if p.FractionPerUnit <= 0 {
			return ErrInvalidFractionPerUnit
		}
		if p.FractionRemaining < 0 || p.FractionRemaining >= p.FractionPerUnit {
			return ErrInvalidFractionRemaining
		}
	}
	return nil
}

func (p Product) divisible() bool {
	return p.IsDivisible && p.FractionPerUnit > 0
}

// ============================================================
// Unit model
// ============================================================
//
// The flattened fraction total is the single source of truth for the
// divisible arithmetic: both Deduct and Return convert to it, operate,
// and convert back, so the two paths stay symmetric.

// FractionTotal flattens (stock, fractionRemaining) into a total fraction
// count: stock * fractionPerUnit + fractionRemaining.
func FractionTotal(stock int64, fractionRemaining, fractionPerUnit float64) float64 {
	return float64(stock)*fractionPerUnit + fractionRemaining
}

// SplitFractionTotal is the inverse of FractionTotal: it derives the whole
// unit count and the remainder, with the remainder strictly below one unit.
func SplitFractionTotal(total, fractionPerUnit float64) (stock int64, fractionRemaining float64) {
	stock = int64(math.Floor(total / fractionPerUnit))
	fractionRemaining = math.Mod(total, fractionPerUnit)
	return stock, fractionRemaining
}

// ============================================================
// Stock transitions
// ============================================================

// ApplyDeduction returns the product state after deducting amount whole-unit
// equivalents. It never mutates the receiver; on any error the caller keeps
// the prior state.
func (p Product) ApplyDeduction(amount float64) (Product, error) {
	if amount <= 0 {
		return Product{}, ErrInvalidAmount
	}

	if p.divisible() {
		total := FractionTotal(p.Stock, p.FractionRemaining, p.FractionPerUnit)
		deduct := amount * p.FractionPerUnit
		if deduct > total {
			return Product{}, ErrInsufficientStock
		}
		p.Stock, p.FractionRemaining = SplitFractionTotal(total-deduct, p.FractionPerUnit)
		return p, nil
	}

	// Non-divisible products are tracked in whole units only.
	if amount != math.Trunc(amount) {
		return Product{}, ErrWholeUnitsOnly
	}
	whole := int64(amount)
	if whole > p.Stock {
		return Product{}, ErrInsufficientStock
	}
	p.Stock -= whole
	return p, nil
}

// ApplyReturn reverses a deduction of amount whole-unit equivalents.
//
// For divisible products the amount is added to the whole-unit count before
// flattening, i.e. total = (stock + amount) * fractionPerUnit + remainder,
// then the pair is re-derived so remainder overflow rolls into whole units.
// This is only an exact inverse of ApplyDeduction when amount lands on a
// whole-fraction boundary; amounts in between truncate at the float level.
func (p Product) ApplyReturn(amount float64) (Product, error) {
	if amount <= 0 {
		return Product{}, ErrInvalidAmount
	}

	if p.divisible() {
		total := (float64(p.Stock) + amount) * p.FractionPerUnit
		total += p.FractionRemaining
		p.Stock, p.FractionRemaining = SplitFractionTotal(total, p.FractionPerUnit)
		return p, nil
	}

	if amount != math.Trunc(amount) {
		return Product{}, ErrWholeUnitsOnly
	}
	p.Stock += int64(amount)
	return p, nil
}
