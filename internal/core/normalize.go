package core

import (
	"github.com/JonMunkholm/ordercheck/internal/decode"
	"github.com/shopspring/decimal"
)

// fieldReader resolves FieldSpecs against one decoded row.
type fieldReader struct {
	row decode.Row
}

// text returns the first non-empty value among the field's labels, or "".
func (r fieldReader) text(spec FieldSpec) string {
	for _, label := range spec.Labels {
		v, ok := r.row.Get(label)
		if !ok {
			continue
		}
		if v = CleanCell(v); v != "" {
			return v
		}
	}
	return ""
}

func (r fieldReader) quantity(spec FieldSpec) decimal.Decimal {
	return ParseQuantity(r.text(spec))
}

// NormalizeHeader maps a header export row to an OrderHeader.
// It never fails; absent or garbled cells become empty strings and zeros.
func NormalizeHeader(row decode.Row) OrderHeader {
	r := fieldReader{row: row}
	return OrderHeader{
		OrderNumber:          r.text(hdrOrderNumber),
		Plant:                r.text(hdrPlant),
		Material:             r.text(hdrMaterial),
		MaterialDescription:  r.text(hdrMaterialDescription),
		OrderType:            r.text(hdrOrderType),
		MRPController:        r.text(hdrMRPController),
		ProductionSupervisor: r.text(hdrProductionSupervisor),
		ProductionVersion:    r.text(hdrProductionVersion),
		ProgramRelease:       r.text(hdrProgramRelease),
		SystemStatus:         r.text(hdrSystemStatus),
		BasicStartDate:       r.text(hdrBasicStartDate),
		BasicEndDate:         r.text(hdrBasicEndDate),
		ActualReleaseDate:    r.text(hdrActualReleaseDate),
		PlannedReleaseDate:   r.text(hdrPlannedReleaseDate),
		ActualFinishDate:     r.text(hdrActualFinishDate),
		ChangeDate:           r.text(hdrChangeDate),
		OrderQuantity:        r.quantity(hdrOrderQuantity),
		ConfirmedYield:       r.quantity(hdrConfirmedYield),
		DeliveredQuantity:    r.quantity(hdrDeliveredQuantity),
		Unit:                 r.text(hdrUnit),
	}
}

// NormalizeMovement maps a movement export row to a MaterialMovement.
func NormalizeMovement(row decode.Row) MaterialMovement {
	r := fieldReader{row: row}
	return MaterialMovement{
		OrderNumber:          r.text(mvOrderNumber),
		Material:             r.text(mvMaterial),
		MaterialDescription:  r.text(mvMaterialDescription),
		Plant:                r.text(mvPlant),
		MovementType:         r.text(mvMovementType),
		MovementIndicator:    r.text(mvMovementIndicator),
		PostingDate:          r.text(mvPostingDate),
		Quantity:             r.quantity(mvQuantity),
		Unit:                 r.text(mvUnit),
		MaterialDocYear:      r.text(mvMaterialDocYear),
		MaterialDocNumber:    r.text(mvMaterialDocNumber),
		MaterialDocItem:      r.text(mvMaterialDocItem),
		StorageLocation:      r.text(mvStorageLocation),
		Batch:                r.text(mvBatch),
		DebitCreditIndicator: r.text(mvDebitCreditIndicator),
		Amount:               r.quantity(mvAmount),
		Currency:             r.text(mvCurrency),
	}
}

// NormalizeHeaders maps every row of a header table.
func NormalizeHeaders(t *decode.Table) []OrderHeader {
	out := make([]OrderHeader, 0, t.Len())
	if t == nil {
		return out
	}
	for _, row := range t.Rows {
		out = append(out, NormalizeHeader(row))
	}
	return out
}

// NormalizeMovements maps every row of a movement table.
func NormalizeMovements(t *decode.Table) []MaterialMovement {
	out := make([]MaterialMovement, 0, t.Len())
	if t == nil {
		return out
	}
	for _, row := range t.Rows {
		out = append(out, NormalizeMovement(row))
	}
	return out
}
