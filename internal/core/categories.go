package core

// DefaultCategories is the category taxonomy offered by the API and fed
// to the merchant suggester. It is injected through configuration so the
// list can grow without touching reconciliation code.
var DefaultCategories = []string{
	"Food & Drinks",
	"Groceries",
	"Transportation",
	"Entertainment",
	"Education",
	"Shopping",
	"Health",
	"Bills",
	"Rent",
	"Salary",
	"Freelance",
	"Investments",
	"Side Hustle",
	"Savings",
	"Other",
}

const (
	// CategorySavings is assigned to synthesized savings-goal
	// contribution transactions.
	CategorySavings = "Savings"
	// CategorySavingsTransfer is assigned to the income transaction
	// synthesized when a funded savings goal is deleted.
	CategorySavingsTransfer = "Savings Transfer"
	// CategoryFallback is used when no merchant mapping matches and the
	// suggester cannot produce one.
	CategoryFallback = "Other"
)
