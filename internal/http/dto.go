package http

import (
	"fmt"
	"time"

	"fintrack/internal/core"
)

type transactionJSON struct {
	ID          string     `json:"id"`
	Amount      core.Money `json:"amount"`
	Description string     `json:"description"`
	Comments    string     `json:"comments"`
	Tags        []string   `json:"tags"`
	Category    string     `json:"category"`
	Type        string     `json:"type"`
	Date        string     `json:"date"`
	RawMerchant string     `json:"rawMerchant,omitempty"`
}

func toTransactionJSON(t core.Transaction) transactionJSON {
	tags := t.Tags
	if tags == nil {
		tags = []string{}
	}
	return transactionJSON{
		ID:          t.ID,
		Amount:      t.Amount,
		Description: t.Description,
		Comments:    t.Comments,
		Tags:        tags,
		Category:    t.Category,
		Type:        string(t.Type),
		Date:        t.Date.Format(time.RFC3339),
		RawMerchant: t.RawMerchant,
	}
}

func toTransactionList(ts []core.Transaction) []transactionJSON {
	out := make([]transactionJSON, 0, len(ts))
	for _, t := range ts {
		out = append(out, toTransactionJSON(t))
	}
	return out
}

type budgetJSON struct {
	ID        string     `json:"id"`
	Category  string     `json:"category"`
	Amount    core.Money `json:"amount"`
	Spent     core.Money `json:"spent"`
	Month     int        `json:"month"`
	Year      int        `json:"year"`
	Recurring bool       `json:"recurring"`
	Period    string     `json:"period"`
}

func toBudgetJSON(b core.Budget) budgetJSON {
	return budgetJSON{
		ID:        b.ID,
		Category:  b.Category,
		Amount:    b.Amount,
		Spent:     b.Spent,
		Month:     b.Month,
		Year:      b.Year,
		Recurring: b.Recurring,
		Period:    b.Period().String(),
	}
}

func toBudgetList(bs []core.Budget) []budgetJSON {
	out := make([]budgetJSON, 0, len(bs))
	for _, b := range bs {
		out = append(out, toBudgetJSON(b))
	}
	return out
}

type goalJSON struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	TargetAmount  core.Money `json:"targetAmount"`
	CurrentAmount core.Money `json:"currentAmount"`
	Deadline      *string    `json:"deadline"`
}

func toGoalJSON(g core.SavingsGoal) goalJSON {
	out := goalJSON{
		ID:            g.ID,
		Name:          g.Name,
		TargetAmount:  g.TargetAmount,
		CurrentAmount: g.CurrentAmount,
	}
	if g.Deadline != nil {
		d := g.Deadline.Format(time.RFC3339)
		out.Deadline = &d
	}
	return out
}

func toGoalList(gs []core.SavingsGoal) []goalJSON {
	out := make([]goalJSON, 0, len(gs))
	for _, g := range gs {
		out = append(out, toGoalJSON(g))
	}
	return out
}

type mappingJSON struct {
	RawName     string `json:"raw_name"`
	DisplayName string `json:"display_name"`
	Category    string `json:"category"`
}

func toMappingJSON(m core.MerchantMapping) mappingJSON {
	return mappingJSON{RawName: m.RawName, DisplayName: m.DisplayName, Category: m.Category}
}

func toMappingList(ms []core.MerchantMapping) []mappingJSON {
	out := make([]mappingJSON, 0, len(ms))
	for _, m := range ms {
		out = append(out, toMappingJSON(m))
	}
	return out
}

// parseDate accepts RFC 3339 timestamps and bare dates.
func parseDate(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
