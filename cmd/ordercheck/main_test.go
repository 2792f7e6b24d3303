package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/text/encoding/korean"

	"github.com/JonMunkholm/ordercheck/internal/core"
)

const headerCSV = "오더,플랜트,자재,시스템 상태,기본 시작일\n" +
	"1000001,P100,FG-01,REL,2024.01.02\n" +
	"1000002,P100,FG-02,REL DLV,2024.01.05\n" +
	"1000003,P200,FG-03,REL TECO,2024.02.10\n"

const materialCSV = "오더,이동 유형,전기일,입력단위수량 (ERFME)\n" +
	"1000002,101,2024.01.15,10\n" +
	"1000002,261,2024.02.03,5\n" +
	"1000003,101,2024.02.11,1\n"

func writeExports(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range map[string]string{"header.csv": headerCSV, "material.csv": materialCSV} {
		encoded, err := korean.EUCKR.NewEncoder().String(content)
		if err != nil {
			t.Fatalf("encode %s: %v", name, err)
		}
		if err := os.WriteFile(filepath.Join(dir, name), []byte(encoded), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("LOG_LEVEL", "error")
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestReportCmd_JSON(t *testing.T) {
	dir := writeExports(t)

	out, err := run(t, "report", "--data-dir", dir, "--filter", "error", "--format", "json")
	if err != nil {
		t.Fatalf("report error = %v", err)
	}

	var orders []struct {
		OrderNumber        string `json:"orderNumber"`
		HasCrossMonthError bool   `json:"hasCrossMonthError"`
	}
	if err := json.Unmarshal([]byte(out), &orders); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if len(orders) != 1 || orders[0].OrderNumber != "1000002" || !orders[0].HasCrossMonthError {
		t.Errorf("orders = %+v, want only 1000002", orders)
	}
}

func TestReportCmd_CSVAndSummary(t *testing.T) {
	dir := writeExports(t)
	t.Setenv("DATA_DIRS", dir)

	out, err := run(t, "report", "--plant", "P100", "--format", "csv")
	if err != nil {
		t.Fatalf("report error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Errorf("csv lines = %d, want header + 2:\n%s", len(lines), out)
	}

	out, err = run(t, "report", "--summary", "--format", "table")
	if err != nil {
		t.Fatalf("summary error = %v", err)
	}
	if !strings.Contains(out, "3 orders") {
		t.Errorf("summary = %q, want it to count 3 orders", out)
	}
}

func TestReportCmd_BadFlags(t *testing.T) {
	dir := writeExports(t)

	tests := []struct {
		name string
		args []string
	}{
		{"filter", []string{"report", "--data-dir", dir, "--filter", "bogus"}},
		{"format", []string{"report", "--data-dir", dir, "--format", "xml"}},
		{"date", []string{"report", "--data-dir", dir, "--from", "soon"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := run(t, tt.args...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestOrderCmd(t *testing.T) {
	dir := writeExports(t)

	out, err := run(t, "order", "1000002", "--data-dir", dir, "--format", "json")
	if err != nil {
		t.Fatalf("order error = %v", err)
	}
	if !strings.Contains(out, `"orderNumber": "1000002"`) {
		t.Errorf("output = %s", out)
	}

	_, err = run(t, "order", "9999999", "--data-dir", dir)
	if !errors.Is(err, core.ErrOrderNotFound) {
		t.Errorf("err = %v, want ErrOrderNotFound", err)
	}
	if got := errorText(err); !strings.Contains(got, "ORD001") {
		t.Errorf("errorText = %q, want ORD001", got)
	}
}
