// Package report renders analyzed orders for people and for other tools.
//
// The same renderers back the CLI's report and order commands and the
// HTTP CSV export, so a report looks the same wherever it is produced.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/JonMunkholm/ordercheck/internal/core"
)

// Format selects a renderer.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatCSV   Format = "csv"
)

// ParseFormat accepts table, json, or csv. Empty means table.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatTable, nil
	case FormatTable, FormatJSON, FormatCSV:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q: want table, json, or csv", s)
	}
}

// OrderColumns are the columns of an order listing.
var OrderColumns = []string{
	"orderNumber", "plant", "material", "materialDescription", "systemStatus",
	"basicStartDate", "basicEndDate", "orderQuantity", "movements",
	"isUnfinished", "hasCrossMonthError", "state",
}

// MovementColumns are the columns of an order's movement listing.
var MovementColumns = []string{
	"movementType", "postingDate", "material", "materialDescription",
	"quantity", "unit", "materialDocNumber", "materialDocItem", "amount", "currency",
}

// OrderRecord flattens an order to OrderColumns.
func OrderRecord(o core.AnalyzedOrder) []string {
	return []string{
		o.OrderNumber,
		o.Plant,
		o.Material,
		o.MaterialDescription,
		o.SystemStatus,
		o.BasicStartDate,
		o.BasicEndDate,
		o.OrderQuantity.String(),
		strconv.Itoa(len(o.MaterialLogs)),
		strconv.FormatBool(o.IsUnfinished),
		strconv.FormatBool(o.HasCrossMonthError),
		string(o.State()),
	}
}

// MovementRecord flattens a movement to MovementColumns.
func MovementRecord(m core.MaterialMovement) []string {
	return []string{
		m.MovementType,
		m.PostingDate,
		m.Material,
		m.MaterialDescription,
		m.Quantity.String(),
		m.Unit,
		m.MaterialDocNumber,
		m.MaterialDocItem,
		m.Amount.String(),
		m.Currency,
	}
}

// WriteOrders renders an order listing.
func WriteOrders(w io.Writer, f Format, orders []core.AnalyzedOrder) error {
	switch f {
	case FormatJSON:
		if orders == nil {
			orders = []core.AnalyzedOrder{}
		}
		return writeJSON(w, orders)

	case FormatCSV:
		cw := csv.NewWriter(w)
		if err := cw.Write(OrderColumns); err != nil {
			return err
		}
		for _, o := range orders {
			if err := cw.Write(OrderRecord(o)); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()

	default:
		rows := make([][]string, len(orders))
		states := make([]core.OrderState, len(orders))
		for i, o := range orders {
			rows[i] = OrderRecord(o)
			states[i] = o.State()
		}
		stateCol := len(OrderColumns) - 1
		t := newTable(OrderColumns, rows).StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == stateCol && row >= 0 && row < len(states) {
				return stateStyle(states[row])
			}
			return cellStyle
		})
		_, err := fmt.Fprintln(w, t.Render())
		return err
	}
}

// WriteOrder renders one order with its movements.
func WriteOrder(w io.Writer, f Format, o core.AnalyzedOrder) error {
	switch f {
	case FormatJSON:
		return writeJSON(w, o)

	case FormatCSV:
		cw := csv.NewWriter(w)
		if err := cw.Write(append([]string{"orderNumber"}, MovementColumns...)); err != nil {
			return err
		}
		for _, m := range o.MaterialLogs {
			if err := cw.Write(append([]string{o.OrderNumber}, MovementRecord(m)...)); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()

	default:
		var b strings.Builder
		fmt.Fprintf(&b, "Order %s  plant %s  status %q\n", o.OrderNumber, o.Plant, o.SystemStatus)
		fmt.Fprintf(&b, "Material %s %s\n", o.Material, o.MaterialDescription)
		fmt.Fprintf(&b, "Basic dates %s .. %s  quantity %s %s\n",
			o.BasicStartDate, o.BasicEndDate, o.OrderQuantity.String(), o.Unit)
		fmt.Fprintf(&b, "Verdict %s\n", stateStyle(o.State()).Render(string(o.State())))

		rows := make([][]string, len(o.MaterialLogs))
		for i, m := range o.MaterialLogs {
			rows[i] = MovementRecord(m)
		}
		t := newTable(MovementColumns, rows).StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
		b.WriteString(t.Render())
		b.WriteString("\n")

		_, err := io.WriteString(w, b.String())
		return err
	}
}

// WriteSummary renders order counts.
func WriteSummary(w io.Writer, f Format, s core.Summary) error {
	switch f {
	case FormatJSON:
		return writeJSON(w, s)

	case FormatCSV:
		cw := csv.NewWriter(w)
		cw.Write([]string{"total", "normal", "unfinished", "crossMonth", "both", "movements"})
		cw.Write([]string{
			strconv.Itoa(s.Total), strconv.Itoa(s.Normal), strconv.Itoa(s.Unfinished),
			strconv.Itoa(s.CrossMonth), strconv.Itoa(s.Both), strconv.Itoa(s.Movements),
		})
		cw.Flush()
		return cw.Error()

	default:
		_, err := fmt.Fprintf(w, "%d orders: %d normal, %d unfinished, %d cross-month (%d both); %d movements\n",
			s.Total, s.Normal, s.Unfinished, s.CrossMonth, s.Both, s.Movements)
		return err
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
