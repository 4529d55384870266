package domain

import (
	"errors"
	"testing"

	"github.com/wyfcoding/ecommerce/internal/shared/vo"
)

func newTestProduct(t *testing.T) *Product {
	t.Helper()
	p, err := NewProduct("PRD-1", "Mechanical Keyboard", "87 keys", vo.MustMoney("79.90", "USD"), "kb-87", 100, 10, "CAT-1")
	if err != nil {
		t.Fatalf("NewProduct: %v", err)
	}
	p.MarkCommitted()
	return p
}

func TestNewProductValidation(t *testing.T) {
	price := vo.MustMoney("10", "USD")
	tests := []struct {
		name  string
		build func() (*Product, error)
	}{
		{"empty name", func() (*Product, error) {
			return NewProduct("PRD-1", "  ", "", price, "SKU", 1, 0, "")
		}},
		{"zero price", func() (*Product, error) {
			return NewProduct("PRD-1", "n", "", vo.MustMoney("0", "USD"), "SKU", 1, 0, "")
		}},
		{"empty sku", func() (*Product, error) {
			return NewProduct("PRD-1", "n", "", price, " ", 1, 0, "")
		}},
		{"negative stock", func() (*Product, error) {
			return NewProduct("PRD-1", "n", "", price, "SKU", -1, 0, "")
		}},
		{"negative min stock", func() (*Product, error) {
			return NewProduct("PRD-1", "n", "", price, "SKU", 1, -1, "")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.build(); !IsValidation(err) {
				t.Fatalf("got %v, want validation error", err)
			}
		})
	}
}

func TestNewProductEmitsCreatedEvent(t *testing.T) {
	p, err := NewProduct("PRD-1", "Keyboard", "", vo.MustMoney("79.90", "USD"), "kb-87", 5, 1, "CAT-1")
	if err != nil {
		t.Fatalf("NewProduct: %v", err)
	}
	events := p.GetUncommittedEvents()
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	created, ok := events[0].(*ProductCreatedEvent)
	if !ok {
		t.Fatalf("got %T, want *ProductCreatedEvent", events[0])
	}
	if created.SKU != "KB-87" {
		t.Fatalf("sku = %q, want normalized KB-87", created.SKU)
	}
	if created.Stock != 5 {
		t.Fatalf("stock = %d, want 5", created.Stock)
	}
}

func TestChangePriceRejectsCurrencySwitch(t *testing.T) {
	p := newTestProduct(t)
	err := p.ChangePrice(vo.MustMoney("50", "EUR"))
	if !errors.Is(err, vo.ErrCurrencyMismatch) {
		t.Fatalf("got %v, want ErrCurrencyMismatch", err)
	}
	if !p.Price.Equal(vo.MustMoney("79.90", "USD")) {
		t.Fatal("price must not change on rejected update")
	}
}

func TestDecreaseStockNeverGoesNegative(t *testing.T) {
	p := newTestProduct(t)
	err := p.DecreaseStock(101, "oversell")

	var insufficient *InsufficientStockError
	if !errors.As(err, &insufficient) {
		t.Fatalf("got %v, want InsufficientStockError", err)
	}
	if insufficient.Available != 100 || insufficient.Requested != 101 {
		t.Fatalf("error carries %d/%d, want 100/101", insufficient.Available, insufficient.Requested)
	}
	if p.StockQuantity != 100 {
		t.Fatalf("stock = %d, want unchanged 100", p.StockQuantity)
	}
	if len(p.GetUncommittedEvents()) != 0 {
		t.Fatal("rejected operation must not emit events")
	}
}

func TestDecreaseStockBelowMinEmitsLowAlert(t *testing.T) {
	p := newTestProduct(t)
	if err := p.DecreaseStock(95, "order"); err != nil {
		t.Fatalf("DecreaseStock: %v", err)
	}

	events := p.GetUncommittedEvents()
	if len(events) != 2 {
		t.Fatalf("got %d events, want stock change plus low alert", len(events))
	}
	low, ok := events[1].(*ProductStockLowEvent)
	if !ok {
		t.Fatalf("second event is %T, want *ProductStockLowEvent", events[1])
	}
	if low.CurrentStock != 5 || low.MinStockLevel != 10 {
		t.Fatalf("alert carries %d/%d, want 5/10", low.CurrentStock, low.MinStockLevel)
	}
}

func TestIncreaseStockRequiresPositiveDelta(t *testing.T) {
	p := newTestProduct(t)
	if err := p.IncreaseStock(0, ""); !IsValidation(err) {
		t.Fatalf("got %v, want validation error", err)
	}
	if err := p.DecreaseStock(-3, ""); !IsValidation(err) {
		t.Fatalf("got %v, want validation error", err)
	}
}

func TestAddReviewRejectsDuplicateCustomer(t *testing.T) {
	p := newTestProduct(t)
	if err := p.AddReview("REV-1", "CUS-1", 5, "great"); err != nil {
		t.Fatalf("AddReview: %v", err)
	}
	if err := p.AddReview("REV-2", "CUS-1", 1, "changed my mind"); !errors.Is(err, ErrDuplicateReview) {
		t.Fatalf("got %v, want ErrDuplicateReview", err)
	}
	if len(p.Reviews) != 1 {
		t.Fatalf("got %d reviews, want 1", len(p.Reviews))
	}
}

func TestAverageRatingCountsApprovedOnly(t *testing.T) {
	p := newTestProduct(t)
	if err := p.AddReview("REV-1", "CUS-1", 5, ""); err != nil {
		t.Fatal(err)
	}
	if err := p.AddReview("REV-2", "CUS-2", 1, ""); err != nil {
		t.Fatal(err)
	}
	if got := p.AverageRating(); got != 0 {
		t.Fatalf("unapproved reviews must not count, got %v", got)
	}

	if err := p.ApproveReview("REV-1"); err != nil {
		t.Fatal(err)
	}
	if got := p.AverageRating(); got != 5 {
		t.Fatalf("average = %v, want 5", got)
	}

	if err := p.ApproveReview("REV-2"); err != nil {
		t.Fatal(err)
	}
	if got := p.AverageRating(); got != 3 {
		t.Fatalf("average = %v, want 3", got)
	}
}

func TestApproveReviewIsIdempotent(t *testing.T) {
	p := newTestProduct(t)
	if err := p.AddReview("REV-1", "CUS-1", 4, ""); err != nil {
		t.Fatal(err)
	}
	p.MarkCommitted()

	if err := p.ApproveReview("REV-1"); err != nil {
		t.Fatal(err)
	}
	if err := p.ApproveReview("REV-1"); err != nil {
		t.Fatalf("second approval must be a no-op, got %v", err)
	}
	if got := len(p.GetUncommittedEvents()); got != 1 {
		t.Fatalf("got %d events, want 1", got)
	}
}

func TestApproveUnknownReview(t *testing.T) {
	p := newTestProduct(t)
	if err := p.ApproveReview("REV-404"); !errors.Is(err, ErrReviewNotFound) {
		t.Fatalf("got %v, want ErrReviewNotFound", err)
	}
}

func TestSetFeaturedEmitsEvent(t *testing.T) {
	p := newTestProduct(t)

	p.SetFeatured(true)
	events := p.GetUncommittedEvents()
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	changed, ok := events[0].(*ProductFeaturedChangedEvent)
	if !ok {
		t.Fatalf("got %T, want ProductFeaturedChangedEvent", events[0])
	}
	if !changed.Featured {
		t.Fatal("event must carry the new flag")
	}
	if !p.Featured {
		t.Fatal("flag not applied to aggregate")
	}

	// 标记未变化时不产生新事件。
	p.SetFeatured(true)
	if got := len(p.GetUncommittedEvents()); got != 1 {
		t.Fatalf("got %d events after repeated set, want 1", got)
	}
}

func TestDiscontinueBlocksMutations(t *testing.T) {
	p := newTestProduct(t)
	if err := p.Discontinue("end of life"); err != nil {
		t.Fatalf("Discontinue: %v", err)
	}

	if err := p.UpdateDetails("new name", "", ""); !errors.Is(err, ErrProductDiscontinued) {
		t.Fatalf("UpdateDetails: got %v, want ErrProductDiscontinued", err)
	}
	if err := p.ChangePrice(vo.MustMoney("1", "USD")); !errors.Is(err, ErrProductDiscontinued) {
		t.Fatalf("ChangePrice: got %v, want ErrProductDiscontinued", err)
	}
	if err := p.IncreaseStock(1, ""); !errors.Is(err, ErrProductDiscontinued) {
		t.Fatalf("IncreaseStock: got %v, want ErrProductDiscontinued", err)
	}
	if err := p.Discontinue("again"); !errors.Is(err, ErrProductDiscontinued) {
		t.Fatalf("double Discontinue: got %v, want ErrProductDiscontinued", err)
	}
}
