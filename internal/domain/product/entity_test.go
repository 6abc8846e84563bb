// internal/domain/product/entity_test.go
package product

import (
	"errors"
	"testing"
	"time"
)

func TestNewValidation(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	if _, err := New("  ", "Food", 1, false, 0, 0, now); !errors.Is(err, ErrInvalidName) {
		t.Fatalf("blank name: got %v, want ErrInvalidName", err)
	}
	if _, err := New("Rice", "Food", -1, false, 0, 0, now); !errors.Is(err, ErrInvalidStock) {
		t.Fatalf("negative stock: got %v, want ErrInvalidStock", err)
	}
	if _, err := New("Rice", "Food", 1, true, 0, 0, now); !errors.Is(err, ErrInvalidFractionPerUnit) {
		t.Fatalf("divisible without fractionPerUnit: got %v, want ErrInvalidFractionPerUnit", err)
	}
	if _, err := New("Rice", "Food", 1, true, 1000, 1000, now); !errors.Is(err, ErrInvalidFractionRemaining) {
		t.Fatalf("remainder == fractionPerUnit: got %v, want ErrInvalidFractionRemaining", err)
	}

	// 非分割商品では端数フィールドはゼロ化される
	p, err := New("Box", "Misc", 3, false, 999, 123, now)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if p.FractionPerUnit != 0 || p.FractionRemaining != 0 {
		t.Fatalf("non-divisible fraction fields not zeroed: %+v", p)
	}
}

func TestSplitFractionTotal(t *testing.T) {
	cases := []struct {
		total, fpu float64
		wantStock  int64
		wantRem    float64
	}{
		{2500, 1000, 2, 500},
		{2200, 1000, 2, 200},
		{999, 1000, 0, 999},
		{0, 1000, 0, 0},
		{3000, 1000, 3, 0},
	}
	for _, c := range cases {
		stock, rem := SplitFractionTotal(c.total, c.fpu)
		if stock != c.wantStock || rem != c.wantRem {
			t.Errorf("SplitFractionTotal(%v, %v) = (%d, %v), want (%d, %v)",
				c.total, c.fpu, stock, rem, c.wantStock, c.wantRem)
		}
	}
}

func TestApplyDeductionDivisible(t *testing.T) {
	base := Product{Name: "Rice", Stock: 2, IsDivisible: true, FractionPerUnit: 1000, FractionRemaining: 500}

	t.Run("borrows from whole units", func(t *testing.T) {
		got, err := base.ApplyDeduction(1.2)
		if err != nil {
			t.Fatalf("ApplyDeduction: %v", err)
		}
		if got.Stock != 1 || got.FractionRemaining != 300 {
			t.Fatalf("got (%d, %v), want (1, 300)", got.Stock, got.FractionRemaining)
		}
	})

	t.Run("drains to zero", func(t *testing.T) {
		got, err := base.ApplyDeduction(2.5)
		if err != nil {
			t.Fatalf("ApplyDeduction: %v", err)
		}
		if got.Stock != 0 || got.FractionRemaining != 0 {
			t.Fatalf("got (%d, %v), want (0, 0)", got.Stock, got.FractionRemaining)
		}
	})

	t.Run("rejects more than the flattened total", func(t *testing.T) {
		if _, err := base.ApplyDeduction(2.6); !errors.Is(err, ErrInsufficientStock) {
			t.Fatalf("got %v, want ErrInsufficientStock", err)
		}
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		if _, err := base.ApplyDeduction(0); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("zero: got %v, want ErrInvalidAmount", err)
		}
		if _, err := base.ApplyDeduction(-1); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("negative: got %v, want ErrInvalidAmount", err)
		}
	})

	t.Run("receiver is untouched", func(t *testing.T) {
		_, _ = base.ApplyDeduction(1.2)
		if base.Stock != 2 || base.FractionRemaining != 500 {
			t.Fatalf("receiver mutated: %+v", base)
		}
	})
}

func TestApplyDeductionNonDivisible(t *testing.T) {
	base := Product{Name: "Box", Stock: 5}

	got, err := base.ApplyDeduction(2)
	if err != nil {
		t.Fatalf("ApplyDeduction: %v", err)
	}
	if got.Stock != 3 {
		t.Fatalf("got stock %d, want 3", got.Stock)
	}

	if _, err := base.ApplyDeduction(2.5); !errors.Is(err, ErrWholeUnitsOnly) {
		t.Fatalf("fractional amount: got %v, want ErrWholeUnitsOnly", err)
	}
	if _, err := base.ApplyDeduction(6); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("over stock: got %v, want ErrInsufficientStock", err)
	}
}

func TestApplyReturnDivisible(t *testing.T) {
	// 1.2 を控除した直後の状態 (1, 300) に同じ量を戻すと元の (2, 500) に戻る。
	// (1 + 1.2) * 1000 は IEEE754 上でちょうど 2200.0 になる。
	p := Product{Name: "Rice", Stock: 1, IsDivisible: true, FractionPerUnit: 1000, FractionRemaining: 300}

	got, err := p.ApplyReturn(1.2)
	if err != nil {
		t.Fatalf("ApplyReturn: %v", err)
	}
	if got.Stock != 2 || got.FractionRemaining != 500 {
		t.Fatalf("got (%d, %v), want (2, 500)", got.Stock, got.FractionRemaining)
	}

	if _, err := p.ApplyReturn(0); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("zero: got %v, want ErrInvalidAmount", err)
	}
}

func TestApplyReturnNonDivisible(t *testing.T) {
	p := Product{Name: "Box", Stock: 3}

	got, err := p.ApplyReturn(2)
	if err != nil {
		t.Fatalf("ApplyReturn: %v", err)
	}
	if got.Stock != 5 {
		t.Fatalf("got stock %d, want 5", got.Stock)
	}

	if _, err := p.ApplyReturn(1.5); !errors.Is(err, ErrWholeUnitsOnly) {
		t.Fatalf("fractional amount: got %v, want ErrWholeUnitsOnly", err)
	}
}

// 端数境界に乗る量なら deduct → return で必ず元の状態に戻る。
func TestDeductReturnRoundTrip(t *testing.T) {
	base := Product{Name: "Rice", Stock: 4, IsDivisible: true, FractionPerUnit: 1000, FractionRemaining: 250}

	for _, amount := range []float64{0.25, 0.5, 1, 1.2, 2.75, 4.25} {
		deducted, err := base.ApplyDeduction(amount)
		if err != nil {
			t.Fatalf("ApplyDeduction(%v): %v", amount, err)
		}
		restored, err := deducted.ApplyReturn(amount)
		if err != nil {
			t.Fatalf("ApplyReturn(%v): %v", amount, err)
		}
		if restored.Stock != base.Stock || restored.FractionRemaining != base.FractionRemaining {
			t.Errorf("round trip %v: got (%d, %v), want (%d, %v)",
				amount, restored.Stock, restored.FractionRemaining, base.Stock, base.FractionRemaining)
		}
	}
}
