package core

import "github.com/JonMunkholm/ordercheck/internal/decode"

// FieldType represents how a source column is interpreted.
type FieldType int

const (
	FieldText FieldType = iota
	FieldDate
	FieldNumeric
)

// FieldSpec maps one logical field to the column labels it may appear under.
// Labels are tried in order; the first non-empty value wins. Exports from
// different ERP versions repeat some headings, which spreadsheet tools then
// number ("자재 내역", "자재 내역_1").
type FieldSpec struct {
	Name   string    // Logical field name, matches the JSON key
	Labels []string  // Candidate source labels, primary first
	Type   FieldType // How the value is parsed
}

// Header export columns.
var (
	hdrOrderNumber          = FieldSpec{Name: "orderNumber", Labels: []string{"오더"}}
	hdrPlant                = FieldSpec{Name: "plant", Labels: []string{"플랜트"}}
	hdrMaterial             = FieldSpec{Name: "material", Labels: []string{"자재", "자재_1"}}
	hdrMaterialDescription  = FieldSpec{Name: "materialDescription", Labels: []string{"자재 내역", "자재 내역_1"}}
	hdrOrderType            = FieldSpec{Name: "orderType", Labels: []string{"오더 유형"}}
	hdrMRPController        = FieldSpec{Name: "mrpController", Labels: []string{"MRP 관리자"}}
	hdrProductionSupervisor = FieldSpec{Name: "productionSupervisor", Labels: []string{"생산 감독자"}}
	hdrProductionVersion    = FieldSpec{Name: "productionVersion", Labels: []string{"생산 버전"}}
	hdrProgramRelease       = FieldSpec{Name: "programRelease", Labels: []string{"프로그램 릴리스"}}
	hdrSystemStatus         = FieldSpec{Name: "systemStatus", Labels: []string{"시스템 상태"}}
	hdrBasicStartDate       = FieldSpec{Name: "basicStartDate", Labels: []string{"기본 시작일"}, Type: FieldDate}
	hdrBasicEndDate         = FieldSpec{Name: "basicEndDate", Labels: []string{"기본 종료일", "기본 종료일_1"}, Type: FieldDate}
	hdrActualReleaseDate    = FieldSpec{Name: "actualReleaseDate", Labels: []string{"릴리스일자(실제)"}, Type: FieldDate}
	hdrPlannedReleaseDate   = FieldSpec{Name: "plannedReleaseDate", Labels: []string{"계획된 릴리스일"}, Type: FieldDate}
	hdrActualFinishDate     = FieldSpec{Name: "actualFinishDate", Labels: []string{"실제종료일"}, Type: FieldDate}
	hdrChangeDate           = FieldSpec{Name: "changeDate", Labels: []string{"변경일"}, Type: FieldDate}
	hdrOrderQuantity        = FieldSpec{Name: "orderQuantity", Labels: []string{"오더 수량 (GMEIN)"}, Type: FieldNumeric}
	hdrConfirmedYield       = FieldSpec{Name: "confirmedYield", Labels: []string{"확인된 수율 수량 (GMEIN)"}, Type: FieldNumeric}
	hdrDeliveredQuantity    = FieldSpec{Name: "deliveredQuantity", Labels: []string{"납품 수량 (GMEIN)"}, Type: FieldNumeric}
	hdrUnit                 = FieldSpec{Name: "unit", Labels: []string{"단위 (=GMEIN)"}}
)

// Movement export columns.
var (
	mvOrderNumber          = FieldSpec{Name: "orderNumber", Labels: []string{"오더", "오더_1"}}
	mvMaterial             = FieldSpec{Name: "material", Labels: []string{"자재", "자재_1"}}
	mvMaterialDescription  = FieldSpec{Name: "materialDescription", Labels: []string{"자재 내역"}}
	mvPlant                = FieldSpec{Name: "plant", Labels: []string{"플랜트"}}
	mvMovementType         = FieldSpec{Name: "movementType", Labels: []string{"이동 유형"}}
	mvMovementIndicator    = FieldSpec{Name: "movementIndicator", Labels: []string{"자재이동 지시자"}}
	mvPostingDate          = FieldSpec{Name: "postingDate", Labels: []string{"전기일"}, Type: FieldDate}
	mvQuantity             = FieldSpec{Name: "quantity", Labels: []string{"입력단위수량 (ERFME)"}, Type: FieldNumeric}
	mvUnit                 = FieldSpec{Name: "unit", Labels: []string{"입력단위 (=ERFME)"}}
	mvMaterialDocYear      = FieldSpec{Name: "materialDocYear", Labels: []string{"자재 문서 연도"}}
	mvMaterialDocNumber    = FieldSpec{Name: "materialDocNumber", Labels: []string{"자재 문서"}}
	mvMaterialDocItem      = FieldSpec{Name: "materialDocItem", Labels: []string{"자재 문서 항목"}}
	mvStorageLocation      = FieldSpec{Name: "storageLocation", Labels: []string{"저장 위치"}}
	mvBatch                = FieldSpec{Name: "batch", Labels: []string{"배치"}}
	mvDebitCreditIndicator = FieldSpec{Name: "debitCreditInd", Labels: []string{"차변/대변지시자"}}
	mvAmount               = FieldSpec{Name: "amount", Labels: []string{"금액(현지 통화) (WAERS)"}, Type: FieldNumeric}
	mvCurrency             = FieldSpec{Name: "currency", Labels: []string{"통화"}}
)

// HeaderFields lists every column the header normalizer reads.
var HeaderFields = []FieldSpec{
	hdrOrderNumber, hdrPlant, hdrMaterial, hdrMaterialDescription, hdrOrderType,
	hdrMRPController, hdrProductionSupervisor, hdrProductionVersion, hdrProgramRelease,
	hdrSystemStatus, hdrBasicStartDate, hdrBasicEndDate, hdrActualReleaseDate,
	hdrPlannedReleaseDate, hdrActualFinishDate, hdrChangeDate, hdrOrderQuantity,
	hdrConfirmedYield, hdrDeliveredQuantity, hdrUnit,
}

// MovementFields lists every column the movement normalizer reads.
var MovementFields = []FieldSpec{
	mvOrderNumber, mvMaterial, mvMaterialDescription, mvPlant, mvMovementType,
	mvMovementIndicator, mvPostingDate, mvQuantity, mvUnit, mvMaterialDocYear,
	mvMaterialDocNumber, mvMaterialDocItem, mvStorageLocation, mvBatch,
	mvDebitCreditIndicator, mvAmount, mvCurrency,
}

// MissingColumns returns the names of fields none of whose labels exist in h.
// A missing column is not an error; the field just normalizes to its zero value.
func MissingColumns(h *decode.Header, specs []FieldSpec) []string {
	var missing []string
	for _, spec := range specs {
		found := false
		for _, label := range spec.Labels {
			if h.Has(label) {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, spec.Name)
		}
	}
	return missing
}
