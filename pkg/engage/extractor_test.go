package engage

import (
	"reflect"
	"strings"
	"testing"
)

func TestExtract(t *testing.T) {
	text := "mail me at abc@paytm or visit http://x.tk, my number is 9876543210"
	got := Extract(text)

	if !reflect.DeepEqual(got.Phones, []string{"9876543210"}) {
		t.Errorf("phones: got %v", got.Phones)
	}
	if !reflect.DeepEqual(got.PaymentHandles, []string{"abc@paytm"}) {
		t.Errorf("handles: got %v", got.PaymentHandles)
	}
	if len(got.URLs) != 1 || !strings.HasPrefix(got.URLs[0], "http://x.tk") {
		t.Errorf("urls: got %v", got.URLs)
	}
}

func TestExtractDedupePreservesOrder(t *testing.T) {
	text := "call 9876543210 or 9876543210, backup 8765432109"
	got := Extract(text)

	want := []string{"9876543210", "8765432109"}
	if !reflect.DeepEqual(got.Phones, want) {
		t.Errorf("phones: got %v, want %v", got.Phones, want)
	}
}

func TestExtractBankNumbers(t *testing.T) {
	got := Extract("account 123456789012 ifsc whatever, card 1234567890123456")
	if len(got.BankNumbers) != 2 {
		t.Errorf("bank numbers: got %v, want 2 entries", got.BankNumbers)
	}
}

func TestExtractPhoneWithCountryCode(t *testing.T) {
	got := Extract("reach me on +91-9876543210 anytime")
	if len(got.Phones) != 1 {
		t.Fatalf("phones: got %v, want 1 entry", got.Phones)
	}
}

func TestExtractEmptyText(t *testing.T) {
	got := Extract("nothing interesting here")
	if !got.IsEmpty() {
		t.Errorf("expected empty entities, got %+v", got)
	}
}

func BenchmarkExtract(b *testing.B) {
	text := "pay 9876543210 via scammer@paytm or http://collect-here.tk/pay, account 123456789012"

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Extract(text)
	}
}
