package core

// Summary is the record count and price total over the whole table. An
// empty table reports Count 0 and Total 0.
type Summary struct {
	Count int64
	Total Money
}

// Balance compares total spending against a budget.
type Balance struct {
	Budget    Money
	Spent     Money
	Remaining Money // may be negative when over budget
}

// NewBalance computes the remaining budget after spent.
func NewBalance(budget, spent Money) Balance {
	return Balance{
		Budget:    budget,
		Spent:     spent,
		Remaining: budget.Sub(spent),
	}
}
