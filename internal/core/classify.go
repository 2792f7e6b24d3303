package core

import "strings"

// IsUnfinished reports whether an order is released but neither delivered
// nor technically complete.
//
// Status tokens are matched as substrings of the raw status text, not as a
// token set, because exports do not delimit them consistently. A future
// status code that merely contains "REL" would therefore match too.
func IsUnfinished(systemStatus string) bool {
	return strings.Contains(systemStatus, StatusReleased) &&
		!strings.Contains(systemStatus, StatusDelivered) &&
		!strings.Contains(systemStatus, StatusTechnicallyComplete)
}

// HasCrossMonthError reports whether an order's goods receipt and goods
// issue were posted in different months.
//
// Only the first receipt (101) and the first issue (261) in source row order
// are compared, and only by month of year: December 2023 against December
// 2024 is not flagged, and a mismatch between later postings goes unseen. An
// order lacking either movement, or with an unparseable posting date, is not
// flagged.
func HasCrossMonthError(logs []MaterialMovement) bool {
	receipt, ok := firstOfType(logs, MovementGoodsReceipt)
	if !ok {
		return false
	}
	issue, ok := firstOfType(logs, MovementGoodsIssue)
	if !ok {
		return false
	}

	receiptDate, ok := ParseDate(receipt.PostingDate)
	if !ok {
		return false
	}
	issueDate, ok := ParseDate(issue.PostingDate)
	if !ok {
		return false
	}

	return receiptDate.Month() != issueDate.Month()
}

func firstOfType(logs []MaterialMovement, movementType string) (MaterialMovement, bool) {
	for _, m := range logs {
		if m.MovementType == movementType {
			return m, true
		}
	}
	return MaterialMovement{}, false
}

// Classify sets both flags on a joined order.
func Classify(o AnalyzedOrder) AnalyzedOrder {
	o.IsUnfinished = IsUnfinished(o.SystemStatus)
	o.HasCrossMonthError = HasCrossMonthError(o.MaterialLogs)
	return o
}

// Analyze joins and classifies in one pass.
func Analyze(headers []OrderHeader, movements []MaterialMovement) []AnalyzedOrder {
	orders := Join(headers, movements)
	for i := range orders {
		orders[i] = Classify(orders[i])
	}
	return orders
}

// OrderState is the combined verdict shown next to an order.
type OrderState string

const (
	StateNormal     OrderState = "normal"
	StateUnfinished OrderState = "unfinished"
	StateCrossMonth OrderState = "cross_month"
	StateBoth       OrderState = "unfinished_cross_month"
)

// State folds the two flags into a single verdict.
func (o AnalyzedOrder) State() OrderState {
	switch {
	case o.IsUnfinished && o.HasCrossMonthError:
		return StateBoth
	case o.IsUnfinished:
		return StateUnfinished
	case o.HasCrossMonthError:
		return StateCrossMonth
	default:
		return StateNormal
	}
}
