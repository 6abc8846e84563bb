// internal/adapters/out/firestore/ledger_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	ledgerdom "stockroom/internal/domain/ledger"
	productdom "stockroom/internal/domain/product"
)

// Firestore-based implementation of the deduction/return ledger.
//
// Deduct and Return are the transactional core of the whole app: each one is
// a single RunTransaction closure (read product → domain transition → write
// product + ledger records). The Firestore client retries the closure on
// write-conflict, which is what makes concurrent deductions against the same
// product serializable.
type LedgerRepositoryFS struct {
	Client *firestore.Client
}

func NewLedgerRepositoryFS(client *firestore.Client) *LedgerRepositoryFS {
	return &LedgerRepositoryFS{Client: client}
}

func (r *LedgerRepositoryFS) products() *firestore.CollectionRef {
	return r.Client.Collection("products")
}

func (r *LedgerRepositoryFS) deductions() *firestore.CollectionRef {
	return r.Client.Collection("deductions")
}

func (r *LedgerRepositoryFS) returns() *firestore.CollectionRef {
	return r.Client.Collection("returns")
}

// ============================================================
// ledger.RepositoryPort — transactions
// ============================================================

func (r *LedgerRepositoryFS) Deduct(ctx context.Context, productID string, amount float64) (productdom.Product, ledgerdom.Deduction, error) {
	if r == nil || r.Client == nil {
		return productdom.Product{}, ledgerdom.Deduction{}, errors.New("firestore client is nil")
	}

	productID = strings.TrimSpace(productID)
	if productID == "" {
		return productdom.Product{}, ledgerdom.Deduction{}, productdom.ErrNotFound
	}

	productRef := r.products().Doc(productID)
	// The ref is created outside the closure so a transaction retry reuses
	// the same document id instead of minting a new one per attempt.
	dedRef := r.deductions().NewDoc()

	var (
		outP productdom.Product
		outD ledgerdom.Deduction
	)

	err := r.Client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(productRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return productdom.ErrNotFound
			}
			return err
		}

		cur, err := docToProduct(snap)
		if err != nil {
			return err
		}

		next, err := cur.ApplyDeduction(amount)
		if err != nil {
			return err
		}

		if err := tx.Update(productRef, []firestore.Update{
			{Path: "stock", Value: next.Stock},
			{Path: "fractionRemaining", Value: next.FractionRemaining},
			{Path: "updatedAt", Value: firestore.ServerTimestamp},
		}); err != nil {
			return err
		}

		if err := tx.Create(dedRef, map[string]any{
			"productId":    productID,
			"productName":  cur.Name,
			"categoryName": cur.CategoryName,
			"amount":       amount,
			"date":         firestore.ServerTimestamp,
		}); err != nil {
			return err
		}

		outP = next
		outD = ledgerdom.Deduction{
			ID:           dedRef.ID,
			ProductID:    productID,
			ProductName:  cur.Name,
			CategoryName: cur.CategoryName,
			Amount:       amount,
			// The stored date is server-assigned; this is the local view of
			// the record handed back to the caller.
			Date: time.Now().UTC(),
		}
		return nil
	})
	if err != nil {
		return productdom.Product{}, ledgerdom.Deduction{}, err
	}
	return outP, outD, nil
}

func (r *LedgerRepositoryFS) Return(ctx context.Context, deductionID string) (productdom.Product, ledgerdom.Return, error) {
	if r == nil || r.Client == nil {
		return productdom.Product{}, ledgerdom.Return{}, errors.New("firestore client is nil")
	}

	deductionID = strings.TrimSpace(deductionID)
	if deductionID == "" {
		return productdom.Product{}, ledgerdom.Return{}, ledgerdom.ErrDeductionNotFound
	}

	dedRef := r.deductions().Doc(deductionID)
	retRef := r.returns().NewDoc()

	var (
		outP productdom.Product
		outR ledgerdom.Return
	)

	err := r.Client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		// All reads must precede the writes inside a Firestore transaction.
		dedSnap, err := tx.Get(dedRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return ledgerdom.ErrDeductionNotFound
			}
			return err
		}
		ded, err := docToDeduction(dedSnap)
		if err != nil {
			return err
		}

		productRef := r.products().Doc(ded.ProductID)
		productSnap, err := tx.Get(productRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return productdom.ErrNotFound
			}
			return err
		}
		cur, err := docToProduct(productSnap)
		if err != nil {
			return err
		}

		next, err := cur.ApplyReturn(ded.Amount)
		if err != nil {
			return err
		}

		if err := tx.Update(productRef, []firestore.Update{
			{Path: "stock", Value: next.Stock},
			{Path: "fractionRemaining", Value: next.FractionRemaining},
			{Path: "updatedAt", Value: firestore.ServerTimestamp},
		}); err != nil {
			return err
		}

		if err := tx.Create(retRef, map[string]any{
			"productId":    ded.ProductID,
			"productName":  ded.ProductName,
			"categoryName": ded.CategoryName,
			"amount":       ded.Amount,
			"date":         firestore.ServerTimestamp,
		}); err != nil {
			return err
		}

		if err := tx.Delete(dedRef); err != nil {
			return err
		}

		outP = next
		outR = ledgerdom.Return{
			ID:           retRef.ID,
			ProductID:    ded.ProductID,
			ProductName:  ded.ProductName,
			CategoryName: ded.CategoryName,
			Amount:       ded.Amount,
			Date:         time.Now().UTC(),
		}
		return nil
	})
	if err != nil {
		return productdom.Product{}, ledgerdom.Return{}, err
	}
	return outP, outR, nil
}

// ============================================================
// ledger.RepositoryPort — queries
// ============================================================

func (r *LedgerRepositoryFS) GetDeduction(ctx context.Context, id string) (ledgerdom.Deduction, error) {
	if r == nil || r.Client == nil {
		return ledgerdom.Deduction{}, errors.New("firestore client is nil")
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return ledgerdom.Deduction{}, ledgerdom.ErrDeductionNotFound
	}

	snap, err := r.deductions().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return ledgerdom.Deduction{}, ledgerdom.ErrDeductionNotFound
		}
		return ledgerdom.Deduction{}, err
	}
	return docToDeduction(snap)
}

func (r *LedgerRepositoryFS) ListLatestDeductions(ctx context.Context, n int) ([]ledgerdom.Deduction, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("firestore client is nil")
	}
	if n < 1 {
		n = 1
	}

	it := r.deductions().OrderBy("date", firestore.Desc).Limit(n).Documents(ctx)
	defer it.Stop()

	out := make([]ledgerdom.Deduction, 0, n)
	for {
		doc, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		d, err := docToDeduction(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func (r *LedgerRepositoryFS) DeleteDeduction(ctx context.Context, id string) error {
	if r == nil || r.Client == nil {
		return errors.New("firestore client is nil")
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return ledgerdom.ErrDeductionNotFound
	}

	_, err := r.deductions().Doc(id).Delete(ctx)
	return err
}

func (r *LedgerRepositoryFS) ListReturns(ctx context.Context, page, perPage int) ([]ledgerdom.Return, int, error) {
	if r == nil || r.Client == nil {
		return nil, 0, errors.New("firestore client is nil")
	}
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}

	all, err := r.returns().Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, err
	}
	total := len(all)

	it := r.returns().OrderBy("date", firestore.Desc).
		Offset((page - 1) * perPage).
		Limit(perPage).
		Documents(ctx)
	defer it.Stop()

	out := make([]ledgerdom.Return, 0, perPage)
	for {
		doc, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, err
		}
		ret, err := docToReturn(doc)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, ret)
	}
	return out, total, nil
}

func (r *LedgerRepositoryFS) WatchLatestDeductions(ctx context.Context, n int, onChange func([]ledgerdom.Deduction)) (func(), error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("firestore client is nil")
	}
	if onChange == nil {
		return nil, errors.New("onChange callback is nil")
	}
	if n < 1 {
		n = 1
	}

	q := r.deductions().OrderBy("date", firestore.Desc).Limit(n)
	return watchQuery(ctx, "deductions", q, func(snap *firestore.QuerySnapshot) {
		list := make([]ledgerdom.Deduction, 0, snap.Size)
		docs := snap.Documents
		defer docs.Stop()
		for {
			doc, err := docs.Next()
			if err == iterator.Done {
				break
			}
			if err != nil {
				return
			}
			d, err := docToDeduction(doc)
			if err != nil {
				continue
			}
			list = append(list, d)
		}
		onChange(list)
	})
}

// ============================================================
// Mapping Helpers
// ============================================================

type rawLedgerEntry struct {
	ProductID    string    `firestore:"productId"`
	ProductName  string    `firestore:"productName"`
	CategoryName string    `firestore:"categoryName"`
	Amount       float64   `firestore:"amount"`
	Date         time.Time `firestore:"date"`
}

func docToDeduction(doc *firestore.DocumentSnapshot) (ledgerdom.Deduction, error) {
	var raw rawLedgerEntry
	if err := doc.DataTo(&raw); err != nil {
		return ledgerdom.Deduction{}, err
	}
	if strings.TrimSpace(raw.ProductID) == "" {
		return ledgerdom.Deduction{}, ledgerdom.ErrInvalidProductID
	}
	return ledgerdom.Deduction{
		ID:           doc.Ref.ID,
		ProductID:    strings.TrimSpace(raw.ProductID),
		ProductName:  raw.ProductName,
		CategoryName: raw.CategoryName,
		Amount:       raw.Amount,
		Date:         raw.Date,
	}, nil
}

func docToReturn(doc *firestore.DocumentSnapshot) (ledgerdom.Return, error) {
	var raw rawLedgerEntry
	if err := doc.DataTo(&raw); err != nil {
		return ledgerdom.Return{}, err
	}
	return ledgerdom.Return{
		ID:           doc.Ref.ID,
		ProductID:    strings.TrimSpace(raw.ProductID),
		ProductName:  raw.ProductName,
		CategoryName: raw.CategoryName,
		Amount:       raw.Amount,
		Date:         raw.Date,
	}, nil
}
