package amqp

import (
	"fmt"
	"testing"
	"time"
)

func TestExponentialBackoff(t *testing.T) {
	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{0, 1 * time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 8 * time.Second},
		{4, 16 * time.Second},
		{5, 30 * time.Second},  // capped at 30s
		{10, 30 * time.Second}, // capped at 30s
		{64, 30 * time.Second}, // shift overflow still capped
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("attempt_%d", tt.attempt), func(t *testing.T) {
			result := exponentialBackoff(tt.attempt)
			if result != tt.expected {
				t.Errorf("exponentialBackoff(%d) = %v, want %v", tt.attempt, result, tt.expected)
			}
		})
	}
}

func TestMerchantSuggestMessageRoundTrip(t *testing.T) {
	msg := NewMerchantSuggestMessage([]string{"SQ *CORNER CAFE", "IC*INSTACART"})

	data, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	decoded, err := MerchantSuggestMessageFromJSON(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(decoded.RawNames) != 2 || decoded.RawNames[0] != "SQ *CORNER CAFE" {
		t.Errorf("raw names = %v", decoded.RawNames)
	}
	if decoded.Timestamp.IsZero() {
		t.Error("timestamp not preserved")
	}
}

func TestMerchantSuggestMessageFromInvalidJSON(t *testing.T) {
	if _, err := MerchantSuggestMessageFromJSON([]byte("{not json")); err == nil {
		t.Error("expected error for malformed JSON")
	}
}
