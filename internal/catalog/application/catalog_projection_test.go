package application

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/wyfcoding/ecommerce/internal/catalog/domain"
	"github.com/wyfcoding/ecommerce/internal/shared/persistence"
	"github.com/wyfcoding/ecommerce/internal/shared/vo"
)

type fakeReadRepo struct {
	docs    map[string]*domain.ProductDocument
	saveErr error
}

func newFakeReadRepo() *fakeReadRepo {
	return &fakeReadRepo{docs: make(map[string]*domain.ProductDocument)}
}

func (f *fakeReadRepo) Save(_ context.Context, doc *domain.ProductDocument) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	copied := *doc
	f.docs[doc.ProductID] = &copied
	return nil
}

func (f *fakeReadRepo) Get(_ context.Context, productID string) (*domain.ProductDocument, error) {
	doc, ok := f.docs[productID]
	if !ok {
		return nil, nil
	}
	copied := *doc
	return &copied, nil
}

func (f *fakeReadRepo) Delete(_ context.Context, productID string) error {
	delete(f.docs, productID)
	return nil
}

type fakeSearchRepo struct {
	docs     map[string]*domain.ProductDocument
	indexErr error
}

func newFakeSearchRepo() *fakeSearchRepo {
	return &fakeSearchRepo{docs: make(map[string]*domain.ProductDocument)}
}

func (f *fakeSearchRepo) Index(_ context.Context, doc *domain.ProductDocument) error {
	if f.indexErr != nil {
		return f.indexErr
	}
	copied := *doc
	f.docs[doc.ProductID] = &copied
	return nil
}

func (f *fakeSearchRepo) Get(_ context.Context, productID string) (*domain.ProductDocument, error) {
	doc, ok := f.docs[productID]
	if !ok {
		return nil, nil
	}
	copied := *doc
	return &copied, nil
}

func (f *fakeSearchRepo) Search(context.Context, *domain.ProductSearchQuery) ([]*domain.ProductDocument, int64, error) {
	return nil, 0, nil
}

func (f *fakeSearchRepo) Facets(context.Context, *domain.ProductSearchQuery) (*domain.ProductFacets, error) {
	return &domain.ProductFacets{}, nil
}

func (f *fakeSearchRepo) Delete(_ context.Context, productID string) error {
	delete(f.docs, productID)
	return nil
}

type fakeProductRepo struct {
	products map[string]*domain.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[string]*domain.Product)}
}

func (f *fakeProductRepo) GetByID(_ context.Context, productID string) (*domain.Product, error) {
	return f.products[productID], nil
}

func (f *fakeProductRepo) GetBySKU(_ context.Context, sku string) (*domain.Product, error) {
	for _, p := range f.products {
		if p.SKU == sku {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakeProductRepo) GetAll(context.Context, int, int) ([]*domain.Product, error) { return nil, nil }

func (f *fakeProductRepo) Add(_ context.Context, p *domain.Product) error {
	f.products[p.ProductID] = p
	return nil
}

func (f *fakeProductRepo) Update(_ context.Context, p *domain.Product) error {
	f.products[p.ProductID] = p
	return nil
}

func (f *fakeProductRepo) Delete(_ context.Context, productID string) error {
	delete(f.products, productID)
	return nil
}

func (f *fakeProductRepo) Exists(_ context.Context, productID string) (bool, error) {
	_, ok := f.products[productID]
	return ok, nil
}

func (f *fakeProductRepo) Find(context.Context, *persistence.Specification) ([]*domain.Product, error) {
	return nil, nil
}

func (f *fakeProductRepo) FindSingle(context.Context, *persistence.Specification) (*domain.Product, error) {
	return nil, nil
}

func (f *fakeProductRepo) Count(context.Context, *persistence.Specification) (int64, error) {
	return 0, nil
}

func newProjectionFixture() (*ProductProjectionService, *fakeReadRepo, *fakeSearchRepo, *fakeProductRepo) {
	readRepo := newFakeReadRepo()
	searchRepo := newFakeSearchRepo()
	repo := newFakeProductRepo()
	svc := NewProductProjectionService(readRepo, searchRepo, repo, slog.Default())
	return svc, readRepo, searchRepo, repo
}

func createdEvent() *domain.ProductCreatedEvent {
	return &domain.ProductCreatedEvent{
		ProductID:  "PRD-1",
		Name:       "Keyboard",
		SKU:        "KB-87",
		Price:      "79.90",
		Currency:   "USD",
		CategoryID: "CAT-1",
		Stock:      10,
		Time:       1000,
	}
}

func TestHandleProductCreatedWritesBothStores(t *testing.T) {
	svc, readRepo, searchRepo, _ := newProjectionFixture()

	if err := svc.HandleProductCreated(context.Background(), createdEvent()); err != nil {
		t.Fatalf("HandleProductCreated: %v", err)
	}

	for _, store := range []map[string]*domain.ProductDocument{readRepo.docs, searchRepo.docs} {
		doc := store["PRD-1"]
		if doc == nil {
			t.Fatal("document missing after projection")
		}
		if doc.Price != "79.90" || doc.PriceValue != 79.90 {
			t.Fatalf("price = %s/%v, want 79.90", doc.Price, doc.PriceValue)
		}
		if !doc.InStock || !doc.Active {
			t.Fatal("new product must be in stock and active")
		}
	}
}

func TestHandlePriceChangedIsIdempotent(t *testing.T) {
	svc, readRepo, _, _ := newProjectionFixture()
	if err := svc.HandleProductCreated(context.Background(), createdEvent()); err != nil {
		t.Fatal(err)
	}

	event := &domain.ProductPriceChangedEvent{
		ProductID: "PRD-1",
		OldPrice:  "79.90",
		NewPrice:  "59.90",
		Currency:  "USD",
		Time:      2000,
	}
	for i := 0; i < 2; i++ {
		if err := svc.HandlePriceChanged(context.Background(), event); err != nil {
			t.Fatalf("pass %d: %v", i+1, err)
		}
	}

	doc := readRepo.docs["PRD-1"]
	if doc.Price != "59.90" || doc.PriceValue != 59.90 {
		t.Fatalf("price = %s/%v, want 59.90", doc.Price, doc.PriceValue)
	}
	if doc.UpdatedAt != 2000 {
		t.Fatalf("updated_at = %d, want event time 2000", doc.UpdatedAt)
	}
}

func TestHandleStockChangedTogglesInStock(t *testing.T) {
	svc, readRepo, _, _ := newProjectionFixture()
	if err := svc.HandleProductCreated(context.Background(), createdEvent()); err != nil {
		t.Fatal(err)
	}

	event := &domain.ProductStockChangedEvent{ProductID: "PRD-1", PreviousStock: 10, NewStock: 0, Time: 2000}
	if err := svc.HandleStockChanged(context.Background(), event); err != nil {
		t.Fatal(err)
	}

	doc := readRepo.docs["PRD-1"]
	if doc.StockQuantity != 0 || doc.InStock {
		t.Fatalf("stock = %d in_stock = %v, want 0/false", doc.StockQuantity, doc.InStock)
	}
}

func TestHandleFeaturedChangedPatchesBothStores(t *testing.T) {
	svc, readRepo, searchRepo, _ := newProjectionFixture()
	if err := svc.HandleProductCreated(context.Background(), createdEvent()); err != nil {
		t.Fatal(err)
	}

	event := &domain.ProductFeaturedChangedEvent{ProductID: "PRD-1", Featured: true, Time: 2000}
	if err := svc.HandleFeaturedChanged(context.Background(), event); err != nil {
		t.Fatal(err)
	}

	for _, store := range []map[string]*domain.ProductDocument{readRepo.docs, searchRepo.docs} {
		doc := store["PRD-1"]
		if !doc.Featured {
			t.Fatal("featured flag not projected")
		}
		if doc.UpdatedAt != 2000 {
			t.Fatalf("updated_at = %d, want event time 2000", doc.UpdatedAt)
		}
	}
}

func TestPatchMissingDocumentRebuildsFromPrimary(t *testing.T) {
	svc, readRepo, searchRepo, repo := newProjectionFixture()

	product, err := domain.NewProduct("PRD-1", "Keyboard", "", vo.MustMoney("79.90", "USD"), "KB-87", 10, 1, "CAT-1")
	if err != nil {
		t.Fatal(err)
	}
	product.MarkCommitted()
	repo.products["PRD-1"] = product

	event := &domain.ProductDetailsUpdatedEvent{ProductID: "PRD-1", Name: "Keyboard v2", Time: 2000}
	if err := svc.HandleDetailsUpdated(context.Background(), event); err != nil {
		t.Fatal(err)
	}

	if readRepo.docs["PRD-1"] == nil || searchRepo.docs["PRD-1"] == nil {
		t.Fatal("rebuild must write both stores")
	}
	// 兜底重建取写模型状态，不再应用本次事件的增量。
	if readRepo.docs["PRD-1"].Name != "Keyboard" {
		t.Fatalf("name = %q, want write-model snapshot", readRepo.docs["PRD-1"].Name)
	}
}

func TestSaveFailurePropagatesForRetry(t *testing.T) {
	svc, _, searchRepo, _ := newProjectionFixture()
	searchRepo.indexErr = errors.New("es unavailable")

	if err := svc.HandleProductCreated(context.Background(), createdEvent()); err == nil {
		t.Fatal("index failure must surface so the consumer can retry")
	}
}

func TestHandleDiscontinuedKeepsDocumentInactive(t *testing.T) {
	svc, readRepo, _, _ := newProjectionFixture()
	if err := svc.HandleProductCreated(context.Background(), createdEvent()); err != nil {
		t.Fatal(err)
	}

	event := &domain.ProductDiscontinuedEvent{ProductID: "PRD-1", Reason: "eol", Time: 2000}
	if err := svc.HandleDiscontinued(context.Background(), event); err != nil {
		t.Fatal(err)
	}

	doc := readRepo.docs["PRD-1"]
	if doc == nil {
		t.Fatal("document must be kept after discontinue")
	}
	if doc.Active {
		t.Fatal("document must be marked inactive")
	}
}
