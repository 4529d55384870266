package vo

import (
	"errors"
	"testing"
)

func TestNewMoneyFromString(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		currency string
		wantErr  error
	}{
		{name: "valid", amount: "19.99", currency: "USD"},
		{name: "zero allowed", amount: "0", currency: "EUR"},
		{name: "lowercase currency normalized", amount: "5", currency: "usd"},
		{name: "negative rejected", amount: "-1", currency: "USD", wantErr: ErrNegativeAmount},
		{name: "bad currency length", amount: "1", currency: "US", wantErr: ErrInvalidCurrency},
		{name: "non-letter currency", amount: "1", currency: "U5D", wantErr: ErrInvalidCurrency},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMoneyFromString(tt.amount, tt.currency)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("got err %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if m.Currency != "USD" && m.Currency != "EUR" {
				t.Fatalf("currency not normalized: %q", m.Currency)
			}
		})
	}
}

func TestNewMoneyFromStringRejectsGarbage(t *testing.T) {
	if _, err := NewMoneyFromString("abc", "USD"); err == nil {
		t.Fatal("expected error for non-numeric amount")
	}
}

func TestMoneyArithmetic(t *testing.T) {
	a := MustMoney("10.50", "USD")
	b := MustMoney("4.25", "USD")

	sum, err := a.Add(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !sum.Equal(MustMoney("14.75", "USD")) {
		t.Fatalf("sum = %s, want 14.75 USD", sum)
	}

	diff, err := a.Sub(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !diff.Equal(MustMoney("6.25", "USD")) {
		t.Fatalf("diff = %s, want 6.25 USD", diff)
	}

	if got := b.MulInt(3); !got.Equal(MustMoney("12.75", "USD")) {
		t.Fatalf("MulInt = %s, want 12.75 USD", got)
	}
}

func TestMoneyCurrencyMismatch(t *testing.T) {
	usd := MustMoney("1", "USD")
	eur := MustMoney("1", "EUR")

	if _, err := usd.Add(eur); !errors.Is(err, ErrCurrencyMismatch) {
		t.Fatalf("Add: got %v, want ErrCurrencyMismatch", err)
	}
	if _, err := usd.Sub(eur); !errors.Is(err, ErrCurrencyMismatch) {
		t.Fatalf("Sub: got %v, want ErrCurrencyMismatch", err)
	}
	if usd.LessThan(MustMoney("100", "EUR")) {
		t.Fatal("LessThan across currencies must be false")
	}
	if usd.Equal(eur) {
		t.Fatal("Equal across currencies must be false")
	}
}

func TestMoneySubAllowsNegativeResult(t *testing.T) {
	a := MustMoney("1", "USD")
	b := MustMoney("2", "USD")
	diff, err := a.Sub(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !diff.IsNegative() {
		t.Fatalf("diff = %s, want negative", diff)
	}
}

func TestZero(t *testing.T) {
	z := Zero("usd")
	if !z.IsZero() {
		t.Fatal("Zero must have zero amount")
	}
	if z.Currency != "USD" {
		t.Fatalf("currency = %q, want USD", z.Currency)
	}
}
