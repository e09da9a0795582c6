package amqp

import (
	"encoding/json"
	"time"
)

// MerchantSuggestMessage asks the worker to propose display names and
// categories for raw merchant strings no stored mapping matches.
type MerchantSuggestMessage struct {
	RawNames  []string  `json:"raw_names"`
	Timestamp time.Time `json:"timestamp"`
}

func NewMerchantSuggestMessage(rawNames []string) *MerchantSuggestMessage {
	return &MerchantSuggestMessage{
		RawNames:  rawNames,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *MerchantSuggestMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// FromJSON creates a message from JSON bytes
func MerchantSuggestMessageFromJSON(data []byte) (*MerchantSuggestMessage, error) {
	var msg MerchantSuggestMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
