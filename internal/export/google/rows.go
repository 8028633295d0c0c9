package google

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"fintrack/internal/core"
)

const (
	firstColumn = "A"
	lastColumn  = "J"
	dateLayout  = "2006-01-02"
)

var headerRow = []any{"ID", "Date", "Type", "Amount", "From Wallet", "To Wallet", "Category", "Notes", "User", "Updated At"}

// transactionRow renders tx as one A:J row. Amounts are written with two
// decimals so the sheet treats them as numbers.
func transactionRow(tx core.Transaction) []any {
	return []any{
		tx.ID,
		tx.Date.UTC().Format(dateLayout),
		string(tx.Type),
		strconv.FormatFloat(core.RoundAmount(tx.Amount), 'f', 2, 64),
		tx.FromWalletID,
		tx.ToWalletID,
		tx.CategoryID,
		tx.Notes,
		tx.OwnerUserID,
		tx.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// rowIndexOf returns the 1-based sheet row whose first cell equals id, or 0.
// The header row never matches.
func rowIndexOf(values [][]any, id string) int {
	if id == "" {
		return 0
	}
	for i, row := range values {
		if i == 0 || len(row) == 0 {
			continue
		}
		if strings.TrimSpace(fmt.Sprint(row[0])) == id {
			return i + 1
		}
	}
	return 0
}

func rowRange(sheet string, row int) string {
	return fmt.Sprintf("%s!%s%d:%s%d", sheet, firstColumn, row, lastColumn, row)
}

func idColumnRange(sheet string) string {
	return fmt.Sprintf("%s!%s:%s", sheet, firstColumn, firstColumn)
}
