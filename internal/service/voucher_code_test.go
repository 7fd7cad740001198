package service

import (
	"strings"
	"testing"
	"time"
)

func TestGenerateVoucherCodeFormat(t *testing.T) {
	for i := 0; i < 50; i++ {
		code := generateVoucherCode("BA", 8)
		if len(code) != 10 {
			t.Fatalf("expected 10 chars, got: %s", code)
		}
		if !strings.HasPrefix(code, "BA") {
			t.Fatalf("expected BA prefix, got: %s", code)
		}
		for _, r := range code[2:] {
			if r < '0' || r > '9' {
				t.Fatalf("expected decimal digits, got: %s", code)
			}
		}
	}
}

func TestGenerateVoucherCodeNormalizesPrefix(t *testing.T) {
	code := generateVoucherCode(" ba ", 6)
	if !strings.HasPrefix(code, "BA") || len(code) != 8 {
		t.Fatalf("unexpected code: %s", code)
	}
	code = generateVoucherCode("", 0)
	if !strings.HasPrefix(code, "BA") || len(code) != 10 {
		t.Fatalf("unexpected default code: %s", code)
	}
}

func TestFallbackVoucherCode(t *testing.T) {
	now := time.Date(2026, 3, 14, 15, 9, 26, 53_000, time.UTC)
	code := fallbackVoucherCode("BA", now)
	if !strings.HasPrefix(code, "BA260314150926") {
		t.Fatalf("expected timestamp derived code, got: %s", code)
	}
	if len(code) != len("BA260314150926")+2 {
		t.Fatalf("expected 2 digit suffix, got: %s", code)
	}
}
