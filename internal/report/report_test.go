package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"

	"github.com/JonMunkholm/ordercheck/internal/core"
)

func sampleOrders() []core.AnalyzedOrder {
	return []core.AnalyzedOrder{
		{
			OrderHeader: core.OrderHeader{
				OrderNumber: "1000001", Plant: "P100", Material: "FG-01", MaterialDescription: "완제품 A",
				SystemStatus: "REL", OrderQuantity: decimal.NewFromInt(1000),
			},
			MaterialLogs: []core.MaterialMovement{},
			IsUnfinished: true,
		},
		{
			OrderHeader: core.OrderHeader{OrderNumber: "1000002", Plant: "P100", SystemStatus: "REL DLV"},
			MaterialLogs: []core.MaterialMovement{
				{OrderNumber: "1000002", MovementType: "101", PostingDate: "2024.01.15", Quantity: decimal.NewFromInt(10)},
				{OrderNumber: "1000002", MovementType: "261", PostingDate: "2024.02.03", Quantity: decimal.RequireFromString("2.5")},
			},
			HasCrossMonthError: true,
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatTable, false},
		{"table", FormatTable, false},
		{"JSON", FormatJSON, false},
		{" csv ", FormatCSV, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWriteOrders_CSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteOrders(&buf, FormatCSV, sampleOrders()); err != nil {
		t.Fatal(err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not CSV: %v", err)
	}
	want := [][]string{
		OrderColumns,
		{"1000001", "P100", "FG-01", "완제품 A", "REL", "", "", "1000", "0", "true", "false", "unfinished"},
		{"1000002", "P100", "", "", "REL DLV", "", "", "0", "2", "false", "true", "cross_month"},
	}
	if diff := cmp.Diff(want, records); diff != "" {
		t.Errorf("CSV mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteOrders_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteOrders(&buf, FormatJSON, sampleOrders()); err != nil {
		t.Fatal(err)
	}

	var got []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0]["orderNumber"] != "1000001" || got[0]["isUnfinished"] != true {
		t.Errorf("first order = %v", got[0])
	}
	if got[0]["orderQuantity"] != "1000" {
		t.Errorf("orderQuantity = %v, want string \"1000\"", got[0]["orderQuantity"])
	}
	logs, ok := got[0]["materialLogs"].([]any)
	if !ok || len(logs) != 0 {
		t.Errorf("materialLogs = %v, want empty array", got[0]["materialLogs"])
	}
}

func TestWriteOrders_EmptyJSONIsArray(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteOrders(&buf, FormatJSON, nil); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(buf.String()); got != "[]" {
		t.Errorf("output = %q, want []", got)
	}
}

func TestWriteOrders_Table(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteOrders(&buf, FormatTable, sampleOrders()); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"orderNumber", "1000001", "1000002", "unfinished", "cross_month"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestWriteOrder(t *testing.T) {
	o := sampleOrders()[1]

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		if err := WriteOrder(&buf, FormatTable, o); err != nil {
			t.Fatal(err)
		}
		out := buf.String()
		for _, want := range []string{"Order 1000002", "2024.01.15", "2024.02.03", "cross_month"} {
			if !strings.Contains(out, want) {
				t.Errorf("detail missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("csv", func(t *testing.T) {
		var buf bytes.Buffer
		if err := WriteOrder(&buf, FormatCSV, o); err != nil {
			t.Fatal(err)
		}
		records, err := csv.NewReader(&buf).ReadAll()
		if err != nil {
			t.Fatal(err)
		}
		if len(records) != 3 {
			t.Fatalf("records = %d, want header + 2", len(records))
		}
		if records[2][1] != "261" || records[2][5] != "2.5" {
			t.Errorf("second movement = %v", records[2])
		}
	})
}

func TestWriteSummary(t *testing.T) {
	var buf bytes.Buffer
	s := core.Summary{Total: 4, Normal: 1, Unfinished: 2, CrossMonth: 2, Both: 1, Movements: 6}
	if err := WriteSummary(&buf, FormatTable, s); err != nil {
		t.Fatal(err)
	}
	want := "4 orders: 1 normal, 2 unfinished, 2 cross-month (1 both); 6 movements\n"
	if buf.String() != want {
		t.Errorf("WriteSummary() = %q, want %q", buf.String(), want)
	}
}
