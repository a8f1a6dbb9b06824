// Package batch runs the normalizer over many files with per-file
// isolation, and groups the resulting transactions by account.
package batch

import (
	"fmt"
	"sort"
	"time"

	"fjacquet/taxstmt/internal/common"
	"fjacquet/taxstmt/internal/logging"
	"fjacquet/taxstmt/internal/models"
)

// DateRange represents a date range with start and end dates
type DateRange struct {
	Start time.Time
	End   time.Time
}

// String returns the date range in the format "YYYY-MM-DD_YYYY-MM-DD"
func (dr DateRange) String() string {
	if dr.Start.IsZero() || dr.End.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s_%s", dr.Start.Format(models.ISODate), dr.End.Format(models.ISODate))
}

// Extend widens the range to include t.
func (dr DateRange) Extend(t time.Time) DateRange {
	if t.IsZero() {
		return dr
	}
	if dr.Start.IsZero() || t.Before(dr.Start) {
		dr.Start = t
	}
	if dr.End.IsZero() || t.After(dr.End) {
		dr.End = t
	}
	return dr
}

// AccountGroup holds the transactions of one account.
type AccountGroup struct {
	AccountID    string
	Transactions []models.CanonicalTransaction
	DateRange    DateRange
}

// Aggregator groups canonical transactions by account and reports
// duplicates.
type Aggregator struct {
	logger logging.Logger
}

// NewAggregator creates a new Aggregator instance
func NewAggregator(logger logging.Logger) *Aggregator {
	return &Aggregator{logger: logging.OrDefault(logger)}
}

// GroupByAccount splits transactions by account number, sorted by account
// and chronologically inside each group. Transactions without an account
// go to the group "unknown".
func (a *Aggregator) GroupByAccount(transactions []models.CanonicalTransaction) []AccountGroup {
	byAccount := make(map[string]*AccountGroup)
	for _, tx := range transactions {
		id := tx.AccountNumber
		if id == "" {
			id = "unknown"
		}
		group, ok := byAccount[id]
		if !ok {
			group = &AccountGroup{AccountID: id}
			byAccount[id] = group
		}
		group.Transactions = append(group.Transactions, tx)
		if d, err := time.Parse(models.ISODate, tx.TransactionDate); err == nil {
			group.DateRange = group.DateRange.Extend(d)
		}
	}

	groups := make([]AccountGroup, 0, len(byAccount))
	for _, g := range byAccount {
		SortChronologically(g.Transactions)
		groups = append(groups, *g)
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].AccountID < groups[j].AccountID
	})

	a.logger.Info("Grouped transactions by account",
		logging.F("total_transactions", len(transactions)),
		logging.F("account_groups", len(groups)))
	return groups
}

// SortChronologically orders by ISO date, then amount, keeping the input
// order for ties.
func SortChronologically(transactions []models.CanonicalTransaction) {
	sort.SliceStable(transactions, func(i, j int) bool {
		if transactions[i].TransactionDate != transactions[j].TransactionDate {
			return transactions[i].TransactionDate < transactions[j].TransactionDate
		}
		return transactions[i].Amount < transactions[j].Amount
	})
}

// LogDuplicates warns once per hash seen more than once and returns the
// number of extra occurrences. Nothing is removed.
func (a *Aggregator) LogDuplicates(transactions []models.CanonicalTransaction) int {
	seen := make(map[string]int, len(transactions))
	for _, tx := range transactions {
		seen[tx.TransactionHash]++
	}

	duplicates := 0
	warned := make(map[string]bool)
	for _, tx := range transactions {
		n := seen[tx.TransactionHash]
		if n < 2 || warned[tx.TransactionHash] {
			continue
		}
		warned[tx.TransactionHash] = true
		duplicates += n - 1
		a.logger.Warn("Potential duplicate transaction",
			logging.F(logging.FieldHash, tx.TransactionHash),
			logging.F(logging.FieldCount, n),
			logging.F("date", tx.TransactionDate),
			logging.F("amount", tx.Amount),
			logging.F("description", tx.Description))
	}
	return duplicates
}

// OutputFilename creates a filename for one account's output:
// {account_id}_{start_date}_{end_date}.csv, or {account_id}.csv when the
// range is unknown.
func OutputFilename(accountID string, dateRange DateRange) string {
	sanitized := common.SanitizeAccountID(accountID)
	if r := dateRange.String(); r != "" {
		return fmt.Sprintf("%s_%s.csv", sanitized, r)
	}
	return fmt.Sprintf("%s.csv", sanitized)
}
