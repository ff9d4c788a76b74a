package shell

import (
	"strings"

	"finance-tracker/internal/models"
)

const dateLayout = "2006-01-02 15:04:05"

func (s *Shell) printMonthly(r *models.MonthlyReport) {
	s.printf("\n--- Monthly Report (%s %d) ---\n", r.Month, r.Year)
	s.println("ID | Date                | Category | Type    | Amount")
	s.println(strings.Repeat("-", 50))
	if len(r.Transactions) == 0 {
		s.println("No entries.")
	}
	for _, t := range r.Transactions {
		s.printf("%-3d| %-19s| %-9s| %-7s| %s\n",
			t.ID, t.Date.Format(dateLayout), t.Category, t.Type, s.money.Format(t.Amount))
	}

	if len(r.Categories) > 0 {
		s.println("\nBy category:")
		for _, c := range r.Categories {
			s.printf("  %-12s %-7s %s (%d)\n", c.Category, c.Type, s.money.Format(c.Total), c.Count)
		}
	}

	s.printTotals(r.Totals)
}

func (s *Shell) printYearly(r *models.YearlyReport) {
	s.printf("\n--- Yearly Report (%d) ---\n", r.Year)
	for _, m := range r.Months {
		if m.Totals.Income.IsZero() && m.Totals.Expense.IsZero() {
			continue
		}
		s.printf("%-9s  Income %s | Expense %s | Savings %s\n", m.Month,
			s.money.Format(m.Totals.Income), s.money.Format(m.Totals.Expense), s.money.Format(m.Totals.Savings))
	}
	s.printTotals(r.Totals)
}

func (s *Shell) printTotals(t models.Totals) {
	s.printf("\nTotal Income: %s\n", s.money.Format(t.Income))
	s.printf("Total Expense: %s\n", s.money.Format(t.Expense))
	s.printf("Savings: %s\n", s.money.Format(t.Savings))
}
