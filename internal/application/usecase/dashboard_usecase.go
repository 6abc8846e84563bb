// internal/application/usecase/dashboard_usecase.go
package usecase

import (
	"context"
	"errors"
	"log"
	"sort"
	"sync"

	ledgerdom "stockroom/internal/domain/ledger"
	productdom "stockroom/internal/domain/product"
)

const (
	// LowStockThreshold: products with stock below this show up as alerts.
	LowStockThreshold = 10
	// LowStockLimit caps the alert list by server-side ordering.
	LowStockLimit = 20
	// TopSellingWindow is how many of the latest deductions feed the ranking.
	TopSellingWindow = 100
	// TopSellingSize is the length of the ranking.
	TopSellingSize = 5
)

// TopSellingEntry is one row of the top-selling ranking.
type TopSellingEntry struct {
	ProductName     string
	TotalDeductions float64
}

// AlertNotifierPort receives the products that newly dropped below the
// low-stock threshold. Implementations must tolerate being called from the
// subscription goroutine.
type AlertNotifierPort interface {
	SendLowStockAlert(ctx context.Context, products []productdom.Product) error
}

// DashboardUsecase maintains the two live aggregates — stock alerts and the
// top-selling ranking — by subscribing to the product and deduction streams.
// Both are recomputed on every pushed snapshot and served from memory.
type DashboardUsecase struct {
	products productdom.RepositoryPort
	ledger   ledgerdom.RepositoryPort
	notifier AlertNotifierPort

	mu         sync.RWMutex
	alerts     []productdom.Product
	topSelling []TopSellingEntry
	lowSeen    map[string]bool

	stops []func()
}

func NewDashboardUsecase(
	products productdom.RepositoryPort,
	ledger ledgerdom.RepositoryPort,
	notifier AlertNotifierPort,
) *DashboardUsecase {
	return &DashboardUsecase{
		products: products,
		ledger:   ledger,
		notifier: notifier,
		lowSeen:  map[string]bool{},
	}
}

// Start establishes the two subscriptions. Stop must be called on teardown
// to release them.
func (uc *DashboardUsecase) Start(ctx context.Context) error {
	if uc == nil || uc.products == nil || uc.ledger == nil {
		return errors.New("dashboard usecase/repos are nil")
	}

	stopLow, err := uc.products.WatchLowStock(ctx, LowStockThreshold, LowStockLimit, func(list []productdom.Product) {
		uc.applyLowStock(ctx, list)
	})
	if err != nil {
		return err
	}
	uc.stops = append(uc.stops, stopLow)

	stopDed, err := uc.ledger.WatchLatestDeductions(ctx, TopSellingWindow, uc.applyDeductions)
	if err != nil {
		uc.Stop()
		return err
	}
	uc.stops = append(uc.stops, stopDed)

	log.Printf("[dashboard_uc] subscriptions started (threshold=%d window=%d)", LowStockThreshold, TopSellingWindow)
	return nil
}

// Stop cancels all active subscriptions.
func (uc *DashboardUsecase) Stop() {
	if uc == nil {
		return
	}
	for _, stop := range uc.stops {
		if stop != nil {
			stop()
		}
	}
	uc.stops = nil
}

// StockAlerts returns the current low-stock set.
func (uc *DashboardUsecase) StockAlerts() []productdom.Product {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	out := make([]productdom.Product, len(uc.alerts))
	copy(out, uc.alerts)
	return out
}

// TopSelling returns the current ranking.
func (uc *DashboardUsecase) TopSelling() []TopSellingEntry {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	out := make([]TopSellingEntry, len(uc.topSelling))
	copy(out, uc.topSelling)
	return out
}

// applyLowStock replaces the alert set and notifies about products that were
// not below the threshold in the previous snapshot. A product that recovers
// and dips again is notified again.
func (uc *DashboardUsecase) applyLowStock(ctx context.Context, list []productdom.Product) {
	uc.mu.Lock()

	newlyLow := make([]productdom.Product, 0, len(list))
	seen := make(map[string]bool, len(list))
	for _, p := range list {
		seen[p.ID] = true
		if !uc.lowSeen[p.ID] {
			newlyLow = append(newlyLow, p)
		}
	}

	uc.alerts = list
	uc.lowSeen = seen
	uc.mu.Unlock()

	if uc.notifier != nil && len(newlyLow) > 0 {
		if err := uc.notifier.SendLowStockAlert(ctx, newlyLow); err != nil {
			log.Printf("[dashboard_uc] low stock alert mail failed: %v", err)
		}
	}
}

// applyDeductions recomputes the top-selling ranking from the latest
// deduction window: group by product name, sum the amounts, sort descending,
// keep the first TopSellingSize. Ties keep the first-seen order of the name
// in the stream.
func (uc *DashboardUsecase) applyDeductions(list []ledgerdom.Deduction) {
	totals := make(map[string]float64, len(list))
	order := make([]string, 0, len(list))
	for _, d := range list {
		if _, ok := totals[d.ProductName]; !ok {
			order = append(order, d.ProductName)
		}
		totals[d.ProductName] += d.Amount
	}

	entries := make([]TopSellingEntry, 0, len(order))
	for _, name := range order {
		entries = append(entries, TopSellingEntry{ProductName: name, TotalDeductions: totals[name]})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].TotalDeductions > entries[j].TotalDeductions
	})
	if len(entries) > TopSellingSize {
		entries = entries[:TopSellingSize]
	}

	uc.mu.Lock()
	uc.topSelling = entries
	uc.mu.Unlock()
}
