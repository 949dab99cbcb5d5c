package finance

// Transaction is one income or expense entry.
type Transaction struct {
	ID          string  `json:"id"`
	Amount      float64 `json:"amount"`
	Type        string  `json:"type"` // "income" or "expense"
	Category    string  `json:"category"`
	Description string  `json:"description,omitempty"`
	Date        string  `json:"date"`      // YYYY-MM-DD
	MonthYear   string  `json:"monthYear"` // YYYY-MM
}

// MonthlySummary aggregates one month of activity.
type MonthlySummary struct {
	MonthYear string  `json:"monthYear"`
	Income    float64 `json:"income"`
	Expenses  float64 `json:"expenses"`
	Balance   float64 `json:"balance"`
}

// BalancePoint is one step of a multi-month running balance.
type BalancePoint struct {
	MonthYear string  `json:"monthYear"`
	Balance   float64 `json:"balance"`
	Running   float64 `json:"running"`
}

// Repayment is a partial repayment against a lending record.
type Repayment struct {
	Amount float64 `json:"amount"`
	Date   string  `json:"date"`
}

// LendingRecord tracks money lent to or borrowed from a counterparty.
type LendingRecord struct {
	ID           string      `json:"id"`
	Counterparty string      `json:"counterparty"`
	Direction    string      `json:"direction"` // "lent" or "borrowed"
	Principal    float64     `json:"principal"`
	Outstanding  float64     `json:"outstanding"`
	Repayments   []Repayment `json:"repayments,omitempty"`
	CreatedAt    string      `json:"createdAt"`
}

// User is the authenticated account returned by Login.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}
