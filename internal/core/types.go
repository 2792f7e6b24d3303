// Package core provides the order/movement analysis for ERP exports.
// This package has no transport dependencies and can be used by any frontend.
package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Movement type codes the classifier interprets. Every other code passes
// through untouched.
const (
	MovementGoodsReceipt = "101"
	MovementGoodsIssue   = "261"
)

// System status tokens used by the unfinished rule.
const (
	StatusReleased            = "REL"
	StatusDelivered           = "DLV"
	StatusTechnicallyComplete = "TECO"
)

// OrderHeader is one production order from the header export.
// Dates are kept exactly as exported.
type OrderHeader struct {
	OrderNumber          string          `json:"orderNumber"`
	Plant                string          `json:"plant"`
	Material             string          `json:"material"`
	MaterialDescription  string          `json:"materialDescription"`
	OrderType            string          `json:"orderType"`
	MRPController        string          `json:"mrpController"`
	ProductionSupervisor string          `json:"productionSupervisor"`
	ProductionVersion    string          `json:"productionVersion"`
	ProgramRelease       string          `json:"programRelease"`
	SystemStatus         string          `json:"systemStatus"`
	BasicStartDate       string          `json:"basicStartDate"`
	BasicEndDate         string          `json:"basicEndDate"`
	ActualReleaseDate    string          `json:"actualReleaseDate"`
	PlannedReleaseDate   string          `json:"plannedReleaseDate"`
	ActualFinishDate     string          `json:"actualFinishDate"`
	ChangeDate           string          `json:"changeDate"`
	OrderQuantity        decimal.Decimal `json:"orderQuantity"`
	ConfirmedYield       decimal.Decimal `json:"confirmedYield"`
	DeliveredQuantity    decimal.Decimal `json:"deliveredQuantity"`
	Unit                 string          `json:"unit"`
}

// MaterialMovement is one material document line posted against an order.
type MaterialMovement struct {
	OrderNumber          string          `json:"orderNumber"`
	Material             string          `json:"material"`
	MaterialDescription  string          `json:"materialDescription"`
	Plant                string          `json:"plant"`
	MovementType         string          `json:"movementType"`
	MovementIndicator    string          `json:"movementIndicator"`
	PostingDate          string          `json:"postingDate"`
	Quantity             decimal.Decimal `json:"quantity"`
	Unit                 string          `json:"unit"`
	MaterialDocYear      string          `json:"materialDocYear"`
	MaterialDocNumber    string          `json:"materialDocNumber"`
	MaterialDocItem      string          `json:"materialDocItem"`
	StorageLocation      string          `json:"storageLocation"`
	Batch                string          `json:"batch"`
	DebitCreditIndicator string          `json:"debitCreditInd"`
	Amount               decimal.Decimal `json:"amount"`
	Currency             string          `json:"currency"`
}

// AnalyzedOrder is a header joined with its movements and classified.
// It is a derived view; nothing about it is stored.
type AnalyzedOrder struct {
	OrderHeader
	MaterialLogs       []MaterialMovement `json:"materialLogs"`
	IsUnfinished       bool               `json:"isUnfinished"`
	HasCrossMonthError bool               `json:"hasCrossMonthError"`
}

// Snapshot is one load of both source tables.
type Snapshot struct {
	ID        string
	Headers   []OrderHeader
	Movements []MaterialMovement
	LoadedAt  time.Time
}

// Source supplies the current snapshot of the two exports.
//
// Implementations return an empty snapshot when files are missing and an
// error only when a file exists but cannot be decoded.
type Source interface {
	Snapshot(ctx context.Context) (*Snapshot, error)
}

// AnalysisObserver receives a summary after each fresh analysis.
type AnalysisObserver interface {
	ObserveAnalysis(summary Summary, elapsed time.Duration)
}
