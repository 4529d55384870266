package application

import (
	"context"
	"log/slog"
	"testing"

	"github.com/wyfcoding/ecommerce/internal/order/domain"
	"github.com/wyfcoding/ecommerce/internal/shared/persistence"
	"github.com/wyfcoding/ecommerce/internal/shared/vo"
)

type fakeOrderRepo struct {
	orders map[string]*domain.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[string]*domain.Order)}
}

func (f *fakeOrderRepo) GetByID(_ context.Context, orderID string) (*domain.Order, error) {
	return f.orders[orderID], nil
}

func (f *fakeOrderRepo) GetByCustomerID(context.Context, string, int, int) ([]*domain.Order, error) {
	return nil, nil
}

func (f *fakeOrderRepo) GetAll(context.Context, int, int) ([]*domain.Order, error) { return nil, nil }

func (f *fakeOrderRepo) Add(_ context.Context, o *domain.Order) error {
	f.orders[o.OrderID] = o
	return nil
}

func (f *fakeOrderRepo) Update(_ context.Context, o *domain.Order) error {
	f.orders[o.OrderID] = o
	return nil
}

func (f *fakeOrderRepo) Delete(_ context.Context, orderID string) error {
	delete(f.orders, orderID)
	return nil
}

func (f *fakeOrderRepo) Exists(_ context.Context, orderID string) (bool, error) {
	_, ok := f.orders[orderID]
	return ok, nil
}

func (f *fakeOrderRepo) Find(context.Context, *persistence.Specification) ([]*domain.Order, error) {
	return nil, nil
}

func (f *fakeOrderRepo) FindSingle(context.Context, *persistence.Specification) (*domain.Order, error) {
	return nil, nil
}

func (f *fakeOrderRepo) Count(context.Context, *persistence.Specification) (int64, error) {
	return 0, nil
}

type fakeOrderReadRepo struct {
	docs map[string]*domain.OrderDocument
}

func (f *fakeOrderReadRepo) Save(_ context.Context, doc *domain.OrderDocument) error {
	f.docs[doc.OrderID] = doc
	return nil
}

func (f *fakeOrderReadRepo) Get(_ context.Context, orderID string) (*domain.OrderDocument, error) {
	return f.docs[orderID], nil
}

func (f *fakeOrderReadRepo) Delete(_ context.Context, orderID string) error {
	delete(f.docs, orderID)
	return nil
}

type fakeOrderSearchRepo struct {
	docs map[string]*domain.OrderDocument
}

func (f *fakeOrderSearchRepo) Index(_ context.Context, doc *domain.OrderDocument) error {
	f.docs[doc.OrderID] = doc
	return nil
}

func (f *fakeOrderSearchRepo) Get(_ context.Context, orderID string) (*domain.OrderDocument, error) {
	return f.docs[orderID], nil
}

func (f *fakeOrderSearchRepo) Search(context.Context, *domain.OrderSearchQuery) ([]*domain.OrderDocument, int64, error) {
	return nil, 0, nil
}

func (f *fakeOrderSearchRepo) Delete(_ context.Context, orderID string) error {
	delete(f.docs, orderID)
	return nil
}

func testOrder(t *testing.T) *domain.Order {
	t.Helper()
	items := []domain.OrderItem{{
		ProductID:   "PRD-1",
		ProductName: "keyboard",
		Quantity:    2,
		UnitPrice:   vo.MustMoney("10.00", "USD"),
		Discount:    vo.Zero("USD"),
	}}
	o, err := domain.NewOrder("ORD-1", "CUS-1", "1 Main St", "", items)
	if err != nil {
		t.Fatalf("NewOrder: %v", err)
	}
	o.MarkCommitted()
	return o
}

func TestRefreshRebuildsDocumentFromWriteModel(t *testing.T) {
	repo := newFakeOrderRepo()
	readRepo := &fakeOrderReadRepo{docs: make(map[string]*domain.OrderDocument)}
	searchRepo := &fakeOrderSearchRepo{docs: make(map[string]*domain.OrderDocument)}
	svc := NewOrderProjectionService(repo, readRepo, searchRepo, slog.Default())

	order := testOrder(t)
	repo.orders["ORD-1"] = order

	if err := svc.Refresh(context.Background(), "ORD-1"); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	for _, store := range []map[string]*domain.OrderDocument{readRepo.docs, searchRepo.docs} {
		doc := store["ORD-1"]
		if doc == nil {
			t.Fatal("document missing after refresh")
		}
		if doc.Status != string(domain.StatusPending) {
			t.Fatalf("status = %s, want PENDING", doc.Status)
		}
		if doc.TotalValue != 20 {
			t.Fatalf("total_value = %v, want 20", doc.TotalValue)
		}
		if doc.Paid {
			t.Fatal("order without payment must not be marked paid")
		}
	}

	// 状态推进后重放，文档收敛到最新状态。
	if err := order.Confirm(); err != nil {
		t.Fatal(err)
	}
	if err := svc.Refresh(context.Background(), "ORD-1"); err != nil {
		t.Fatal(err)
	}
	if readRepo.docs["ORD-1"].Status != string(domain.StatusConfirmed) {
		t.Fatalf("status = %s, want CONFIRMED", readRepo.docs["ORD-1"].Status)
	}
}

func TestRefreshUnknownOrderIsSkipped(t *testing.T) {
	repo := newFakeOrderRepo()
	readRepo := &fakeOrderReadRepo{docs: make(map[string]*domain.OrderDocument)}
	searchRepo := &fakeOrderSearchRepo{docs: make(map[string]*domain.OrderDocument)}
	svc := NewOrderProjectionService(repo, readRepo, searchRepo, slog.Default())

	if err := svc.Refresh(context.Background(), "ORD-404"); err != nil {
		t.Fatalf("unknown order must not fail the consumer, got %v", err)
	}
	if len(readRepo.docs) != 0 {
		t.Fatal("no document must be written for unknown order")
	}
}
