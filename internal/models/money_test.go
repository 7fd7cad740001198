package models

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseCopay(t *testing.T) {
	copay, err := ParseCopay(" 1500.505 ")
	if err != nil {
		t.Fatalf("parse copay failed: %v", err)
	}
	if copay == nil || copay.String() != "1500.51" {
		t.Fatalf("expected rounded copay 1500.51, got: %v", copay)
	}

	// 空串表示无自付额
	copay, err = ParseCopay("   ")
	if err != nil || copay != nil {
		t.Fatalf("empty copay should be nil without error, got: %v %v", copay, err)
	}

	if _, err := ParseCopay("-10"); !errors.Is(err, ErrCopayInvalid) {
		t.Fatalf("expected ErrCopayInvalid for negative, got: %v", err)
	}
	if _, err := ParseCopay("mil quinientos"); !errors.Is(err, ErrCopayInvalid) {
		t.Fatalf("expected ErrCopayInvalid for garbage, got: %v", err)
	}
}

func TestMoneyMarshalFixedDecimals(t *testing.T) {
	copay, err := ParseCopay("1200")
	if err != nil {
		t.Fatalf("parse copay failed: %v", err)
	}
	out, err := json.Marshal(copay)
	if err != nil {
		t.Fatalf("marshal copay failed: %v", err)
	}
	if string(out) != `"1200.00"` {
		t.Fatalf("expected fixed two decimals, got: %s", out)
	}
}
