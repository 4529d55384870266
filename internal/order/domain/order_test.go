package domain

import (
	"errors"
	"testing"

	"github.com/wyfcoding/ecommerce/internal/shared/vo"
)

func testItem(productID, price string, qty int) OrderItem {
	return OrderItem{
		ProductID:   productID,
		ProductName: "item " + productID,
		Quantity:    qty,
		UnitPrice:   vo.MustMoney(price, "USD"),
		Discount:    vo.Zero("USD"),
	}
}

func newTestOrder(t *testing.T, items ...OrderItem) *Order {
	t.Helper()
	if len(items) == 0 {
		items = []OrderItem{testItem("PRD-1", "10.00", 2)}
	}
	o, err := NewOrder("ORD-1", "CUS-1", "1 Main St", "", items)
	if err != nil {
		t.Fatalf("NewOrder: %v", err)
	}
	o.MarkCommitted()
	return o
}

func TestNewOrderRequiresItems(t *testing.T) {
	if _, err := NewOrder("ORD-1", "CUS-1", "addr", "", nil); !errors.Is(err, ErrOrderEmpty) {
		t.Fatalf("got %v, want ErrOrderEmpty", err)
	}
}

func TestNewOrderRejectsMixedCurrencies(t *testing.T) {
	items := []OrderItem{
		testItem("PRD-1", "10", 1),
		{ProductID: "PRD-2", ProductName: "eur item", Quantity: 1, UnitPrice: vo.MustMoney("5", "EUR"), Discount: vo.Zero("EUR")},
	}
	if _, err := NewOrder("ORD-1", "CUS-1", "addr", "", items); !IsValidation(err) {
		t.Fatalf("got %v, want validation error", err)
	}
}

func TestTotalAmount(t *testing.T) {
	discounted := testItem("PRD-2", "5.50", 4)
	discounted.Discount = vo.MustMoney("2.00", "USD")
	o := newTestOrder(t, testItem("PRD-1", "10.00", 2), discounted)

	// 10*2 + (5.50*4 - 2) = 40
	if got := o.TotalAmount(); !got.Equal(vo.MustMoney("40.00", "USD")) {
		t.Fatalf("total = %s, want 40.00 USD", got)
	}
}

func TestDiscountMayNotExceedSubtotal(t *testing.T) {
	item := testItem("PRD-1", "5", 1)
	item.Discount = vo.MustMoney("6", "USD")
	if _, err := NewOrder("ORD-1", "CUS-1", "addr", "", []OrderItem{item}); !IsValidation(err) {
		t.Fatalf("got %v, want validation error", err)
	}
}

func TestNewOrderMergesDuplicateProductLines(t *testing.T) {
	items := []OrderItem{
		testItem("PRD-1", "10.00", 2),
		testItem("PRD-1", "10.00", 3),
	}
	o, err := NewOrder("ORD-1", "CUS-1", "addr", "", items)
	if err != nil {
		t.Fatalf("NewOrder: %v", err)
	}

	if len(o.Items) != 1 {
		t.Fatalf("got %d lines, want merged single line", len(o.Items))
	}
	if o.Items[0].Quantity != 5 {
		t.Fatalf("quantity = %d, want 5", o.Items[0].Quantity)
	}
	if !o.TotalAmount().Equal(vo.MustMoney("50", "USD")) {
		t.Fatalf("total = %s, want 50 USD", o.TotalAmount().Amount.String())
	}
}

func TestAddItemMergesExistingProduct(t *testing.T) {
	o := newTestOrder(t)
	if err := o.AddItem("PRD-1", "item PRD-1", 3, vo.MustMoney("10.00", "USD"), vo.Zero("USD")); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if len(o.Items) != 1 {
		t.Fatalf("got %d lines, want merged single line", len(o.Items))
	}
	if o.Items[0].Quantity != 5 {
		t.Fatalf("quantity = %d, want 5", o.Items[0].Quantity)
	}
}

func TestRemoveLastItemRejected(t *testing.T) {
	o := newTestOrder(t)
	if err := o.RemoveItem("PRD-1"); !errors.Is(err, ErrOrderEmpty) {
		t.Fatalf("got %v, want ErrOrderEmpty", err)
	}
}

func TestRemoveUnknownItem(t *testing.T) {
	o := newTestOrder(t, testItem("PRD-1", "10", 1), testItem("PRD-2", "5", 1))
	if err := o.RemoveItem("PRD-404"); !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("got %v, want ErrItemNotFound", err)
	}
}

func TestAttachPaymentRequiresExactAmount(t *testing.T) {
	o := newTestOrder(t) // total 20.00 USD

	var mismatch *PaymentMismatchError
	err := o.AttachPayment("PAY-1", vo.MustMoney("19.99", "USD"), "card")
	if !errors.As(err, &mismatch) {
		t.Fatalf("got %v, want PaymentMismatchError", err)
	}

	err = o.AttachPayment("PAY-1", vo.MustMoney("20.00", "EUR"), "card")
	if !errors.As(err, &mismatch) {
		t.Fatalf("wrong currency: got %v, want PaymentMismatchError", err)
	}

	if err := o.AttachPayment("PAY-1", vo.MustMoney("20.00", "USD"), "card"); err != nil {
		t.Fatalf("exact amount rejected: %v", err)
	}
	if o.Payment == nil || o.Payment.PaymentID != "PAY-1" {
		t.Fatal("payment not recorded")
	}
}

func TestAttachPaymentOnlyOnce(t *testing.T) {
	o := newTestOrder(t)
	if err := o.AttachPayment("PAY-1", vo.MustMoney("20.00", "USD"), "card"); err != nil {
		t.Fatal(err)
	}
	if err := o.AttachPayment("PAY-2", vo.MustMoney("20.00", "USD"), "card"); !errors.Is(err, ErrPaymentAlreadyAttached) {
		t.Fatalf("got %v, want ErrPaymentAlreadyAttached", err)
	}
}

func TestStateMachine(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(o *Order) error
		act     func(o *Order) error
		wantOK  bool
	}{
		{"confirm pending", nil, func(o *Order) error { return o.Confirm() }, true},
		{"ship pending", nil, func(o *Order) error { return o.Ship("TRK", "dhl") }, false},
		{"deliver pending", nil, func(o *Order) error { return o.Deliver() }, false},
		{"cancel pending", nil, func(o *Order) error { return o.Cancel("changed mind") }, true},
		{"ship confirmed", func(o *Order) error { return o.Confirm() },
			func(o *Order) error { return o.Ship("TRK", "dhl") }, true},
		{"confirm twice", func(o *Order) error { return o.Confirm() },
			func(o *Order) error { return o.Confirm() }, false},
		{"cancel shipped", func(o *Order) error {
			if err := o.Confirm(); err != nil {
				return err
			}
			return o.Ship("TRK", "dhl")
		}, func(o *Order) error { return o.Cancel("too late") }, false},
		{"deliver shipped", func(o *Order) error {
			if err := o.Confirm(); err != nil {
				return err
			}
			return o.Ship("TRK", "dhl")
		}, func(o *Order) error { return o.Deliver() }, true},
		{"add item after confirm", func(o *Order) error { return o.Confirm() },
			func(o *Order) error {
				return o.AddItem("PRD-9", "late", 1, vo.MustMoney("1", "USD"), vo.Zero("USD"))
			}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := newTestOrder(t)
			if tt.prepare != nil {
				if err := tt.prepare(o); err != nil {
					t.Fatalf("prepare: %v", err)
				}
			}
			err := tt.act(o)
			if tt.wantOK {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var conflict *StateConflictError
			if !errors.As(err, &conflict) {
				t.Fatalf("got %v, want StateConflictError", err)
			}
		})
	}
}

func TestCancelledOrderIsTerminal(t *testing.T) {
	o := newTestOrder(t)
	if err := o.Cancel("out of stock"); err != nil {
		t.Fatal(err)
	}
	var conflict *StateConflictError
	if err := o.Confirm(); !errors.As(err, &conflict) {
		t.Fatalf("got %v, want StateConflictError", err)
	}
	if err := o.Cancel("again"); !errors.As(err, &conflict) {
		t.Fatalf("got %v, want StateConflictError", err)
	}
}

func TestMutationsEmitEventsWithRunningTotal(t *testing.T) {
	o := newTestOrder(t)
	if err := o.AddItem("PRD-2", "second", 1, vo.MustMoney("5.00", "USD"), vo.Zero("USD")); err != nil {
		t.Fatal(err)
	}
	if err := o.UpdateItemQuantity("PRD-2", 4); err != nil {
		t.Fatal(err)
	}

	events := o.GetUncommittedEvents()
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	added, ok := events[0].(*OrderItemAddedEvent)
	if !ok {
		t.Fatalf("first event is %T, want *OrderItemAddedEvent", events[0])
	}
	if got := vo.MustMoney(added.Total, added.Currency); !got.Equal(vo.MustMoney("25", "USD")) {
		t.Fatalf("added total = %s, want 25 USD", got)
	}
	changed, ok := events[1].(*OrderItemQuantityChangedEvent)
	if !ok {
		t.Fatalf("second event is %T, want *OrderItemQuantityChangedEvent", events[1])
	}
	if got := vo.MustMoney(changed.Total, changed.Currency); !got.Equal(vo.MustMoney("40", "USD")) {
		t.Fatalf("changed total = %s, want 40 USD", got)
	}
}
