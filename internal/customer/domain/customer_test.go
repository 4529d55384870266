package domain

import (
	"errors"
	"testing"

	"github.com/wyfcoding/ecommerce/internal/shared/vo"
)

func newTestCustomer(t *testing.T) *Customer {
	t.Helper()
	c, err := NewCustomer("CUS-1", "Alice", vo.MustEmail("alice@example.com"), vo.Phone{})
	if err != nil {
		t.Fatalf("NewCustomer: %v", err)
	}
	c.MarkCommitted()
	return c
}

func addr(id string, primary bool) Address {
	return Address{AddressID: id, Street: id + " Main St", Country: "DE", Primary: primary}
}

func TestTierFor(t *testing.T) {
	tests := []struct {
		points int
		want   LoyaltyTier
	}{
		{0, TierBronze},
		{999, TierBronze},
		{1000, TierSilver},
		{4999, TierSilver},
		{5000, TierGold},
		{19999, TierGold},
		{20000, TierPlatinum},
	}
	for _, tt := range tests {
		if got := TierFor(tt.points); got != tt.want {
			t.Errorf("TierFor(%d) = %s, want %s", tt.points, got, tt.want)
		}
	}
}

func TestNewCustomerRequiresName(t *testing.T) {
	if _, err := NewCustomer("CUS-1", "  ", vo.MustEmail("a@b.co"), vo.Phone{}); !IsValidation(err) {
		t.Fatalf("got %v, want validation error", err)
	}
}

func TestChangeEmailSameValueIsNoOp(t *testing.T) {
	c := newTestCustomer(t)
	if err := c.ChangeEmail(vo.MustEmail("alice@example.com")); err != nil {
		t.Fatal(err)
	}
	if got := len(c.GetUncommittedEvents()); got != 0 {
		t.Fatalf("got %d events, want none for unchanged email", got)
	}

	if err := c.ChangeEmail(vo.MustEmail("new@example.com")); err != nil {
		t.Fatal(err)
	}
	events := c.GetUncommittedEvents()
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	changed, ok := events[0].(*CustomerEmailChangedEvent)
	if !ok {
		t.Fatalf("got %T, want *CustomerEmailChangedEvent", events[0])
	}
	if changed.OldEmail != "alice@example.com" || changed.NewEmail != "new@example.com" {
		t.Fatalf("event carries %s -> %s", changed.OldEmail, changed.NewEmail)
	}
}

func TestFirstAddressBecomesPrimary(t *testing.T) {
	c := newTestCustomer(t)
	if err := c.AddAddress(addr("ADR-1", false)); err != nil {
		t.Fatal(err)
	}
	primary := c.PrimaryAddress()
	if primary == nil || primary.AddressID != "ADR-1" {
		t.Fatal("first address must become primary")
	}
}

func TestExactlyOnePrimaryAddress(t *testing.T) {
	c := newTestCustomer(t)
	for _, a := range []Address{addr("ADR-1", false), addr("ADR-2", true), addr("ADR-3", true)} {
		if err := c.AddAddress(a); err != nil {
			t.Fatal(err)
		}
	}

	count := 0
	for _, a := range c.Addresses {
		if a.Primary {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("got %d primary addresses, want exactly 1", count)
	}
	if c.PrimaryAddress().AddressID != "ADR-3" {
		t.Fatalf("primary = %s, want latest explicit ADR-3", c.PrimaryAddress().AddressID)
	}
}

func TestRemovePrimaryPromotesRemaining(t *testing.T) {
	c := newTestCustomer(t)
	if err := c.AddAddress(addr("ADR-1", false)); err != nil {
		t.Fatal(err)
	}
	if err := c.AddAddress(addr("ADR-2", false)); err != nil {
		t.Fatal(err)
	}

	if err := c.RemoveAddress("ADR-1"); err != nil {
		t.Fatal(err)
	}
	primary := c.PrimaryAddress()
	if primary == nil || primary.AddressID != "ADR-2" {
		t.Fatal("remaining address must be promoted to primary")
	}
}

func TestRemoveUnknownAddress(t *testing.T) {
	c := newTestCustomer(t)
	if err := c.RemoveAddress("ADR-404"); !errors.Is(err, ErrAddressNotFound) {
		t.Fatalf("got %v, want ErrAddressNotFound", err)
	}
}

func TestSetPrimaryAddress(t *testing.T) {
	c := newTestCustomer(t)
	if err := c.AddAddress(addr("ADR-1", false)); err != nil {
		t.Fatal(err)
	}
	if err := c.AddAddress(addr("ADR-2", false)); err != nil {
		t.Fatal(err)
	}

	if err := c.SetPrimaryAddress("ADR-2"); err != nil {
		t.Fatal(err)
	}
	if c.PrimaryAddress().AddressID != "ADR-2" {
		t.Fatal("primary not switched")
	}

	events := c.GetUncommittedEvents()
	changed, ok := events[len(events)-1].(*CustomerAddressPrimaryChangedEvent)
	if !ok {
		t.Fatalf("got %T, want CustomerAddressPrimaryChangedEvent", events[len(events)-1])
	}
	if changed.AddressID != "ADR-2" {
		t.Fatalf("event address = %s, want ADR-2", changed.AddressID)
	}

	// 目标已是主地址时不产生新事件。
	if err := c.SetPrimaryAddress("ADR-2"); err != nil {
		t.Fatal(err)
	}
	if got := len(c.GetUncommittedEvents()); got != len(events) {
		t.Fatalf("got %d events after repeated switch, want %d", got, len(events))
	}

	if err := c.SetPrimaryAddress("ADR-404"); !errors.Is(err, ErrAddressNotFound) {
		t.Fatalf("got %v, want ErrAddressNotFound", err)
	}
}

func TestLoyaltyPointsNeverNegative(t *testing.T) {
	c := newTestCustomer(t)
	if err := c.AddLoyaltyPoints(100, "signup"); err != nil {
		t.Fatal(err)
	}

	err := c.RedeemLoyaltyPoints(101, "discount")
	var insufficient *InsufficientPointsError
	if !errors.As(err, &insufficient) {
		t.Fatalf("got %v, want InsufficientPointsError", err)
	}
	if insufficient.Available != 100 || insufficient.Requested != 101 {
		t.Fatalf("error carries %d/%d, want 100/101", insufficient.Available, insufficient.Requested)
	}
	if c.LoyaltyPoints != 100 {
		t.Fatalf("points = %d, want unchanged 100", c.LoyaltyPoints)
	}
}

func TestLoyaltyEventCarriesAbsoluteState(t *testing.T) {
	c := newTestCustomer(t)
	if err := c.AddLoyaltyPoints(1500, "promo"); err != nil {
		t.Fatal(err)
	}
	c.MarkCommitted()
	if err := c.RedeemLoyaltyPoints(600, "voucher"); err != nil {
		t.Fatal(err)
	}

	events := c.GetUncommittedEvents()
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	changed, ok := events[0].(*CustomerLoyaltyChangedEvent)
	if !ok {
		t.Fatalf("got %T, want *CustomerLoyaltyChangedEvent", events[0])
	}
	if changed.Delta != -600 || changed.Points != 900 {
		t.Fatalf("event carries delta=%d points=%d, want -600/900", changed.Delta, changed.Points)
	}
	if changed.Tier != string(TierBronze) {
		t.Fatalf("tier = %s, want BRONZE after dropping below 1000", changed.Tier)
	}
}

func TestAdjustLoyaltyRequiresPositiveDelta(t *testing.T) {
	c := newTestCustomer(t)
	if err := c.AddLoyaltyPoints(0, ""); !IsValidation(err) {
		t.Fatalf("got %v, want validation error", err)
	}
	if err := c.RedeemLoyaltyPoints(-5, ""); !IsValidation(err) {
		t.Fatalf("got %v, want validation error", err)
	}
}
