package core

import "math"

// BudgetFigures are the derived spending numbers of one budget.
type BudgetFigures struct {
	Spent        float64
	Remaining    float64
	Percentage   float64
	IsOverBudget bool
	OverBy       float64
}

// ComputeBudget derives spending figures from a limit and the amount spent.
func ComputeBudget(limit, spent float64) BudgetFigures {
	f := BudgetFigures{
		Spent:        spent,
		Remaining:    math.Max(0, limit-spent),
		IsOverBudget: spent > limit,
		OverBy:       math.Max(0, spent-limit),
	}
	if limit > 0 {
		f.Percentage = math.Min(100, spent/limit*100)
	}
	return f
}
