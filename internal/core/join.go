package core

// Join attaches to each header the movements carrying its order number.
//
// Matching is exact string equality on the normalized order number. Each
// header keeps the movements in their source order; movements whose order
// number matches no header are dropped. Headers are returned in input order,
// including ones with an empty order number. The flags are left unset; see
// Classify.
func Join(headers []OrderHeader, movements []MaterialMovement) []AnalyzedOrder {
	byOrder := make(map[string][]MaterialMovement, len(headers))
	for _, m := range movements {
		byOrder[m.OrderNumber] = append(byOrder[m.OrderNumber], m)
	}

	out := make([]AnalyzedOrder, len(headers))
	for i, h := range headers {
		logs := byOrder[h.OrderNumber]
		if logs == nil {
			logs = []MaterialMovement{}
		}
		// Headers sharing a number share the slice; clip so appends copy.
		logs = logs[:len(logs):len(logs)]
		out[i] = AnalyzedOrder{OrderHeader: h, MaterialLogs: logs}
	}
	return out
}
