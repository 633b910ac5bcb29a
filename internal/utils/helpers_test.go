package utils

import (
	"testing"

	"github.com/agrolink/quote-service/internal/models"
)

func TestParseLimitOffset(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name       string
		limitStr   string
		offsetStr  string
		wantLimit  int
		wantOffset int
		wantErr    bool
	}{
		{name: "defaults", limitStr: "", offsetStr: "", wantLimit: 20, wantOffset: 0},
		{name: "explicit values", limitStr: "5", offsetStr: "10", wantLimit: 5, wantOffset: 10},
		{name: "limit too large", limitStr: "51", offsetStr: "", wantErr: true},
		{name: "zero limit", limitStr: "0", offsetStr: "", wantErr: true},
		{name: "negative offset", limitStr: "", offsetStr: "-1", wantErr: true},
		{name: "non-numeric limit", limitStr: "abc", offsetStr: "", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			limit, offset, err := ParseLimitOffset(tc.limitStr, tc.offsetStr)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if limit != tc.wantLimit || offset != tc.wantOffset {
				t.Fatalf("expected (%d, %d), got (%d, %d)", tc.wantLimit, tc.wantOffset, limit, offset)
			}
		})
	}
}

func TestContainsQuoteStatus(t *testing.T) {
	t.Parallel()

	transitions := []models.QuoteStatus{models.ClosedQuote}
	if !ContainsQuoteStatus(transitions, models.ClosedQuote) {
		t.Fatal("expected closed to be a valid transition")
	}
	if ContainsQuoteStatus(transitions, models.CompletedQuote) {
		t.Fatal("expected completed to be an invalid transition")
	}
	if ContainsQuoteStatus(nil, models.ClosedQuote) {
		t.Fatal("expected no transitions from an empty list")
	}
}
