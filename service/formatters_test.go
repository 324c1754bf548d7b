package service

import (
	"fmt"
	"testing"
	"time"

	"finopschat/models"
)

func TestFormatResultsForTable_PreservesColumnOrderAndRowCount(t *testing.T) {
	results := &models.ResultSet{
		Columns: []string{"symbol", "status", "trade_value"},
		Rows: []map[string]interface{}{
			{"symbol": "AAPL", "status": "Failed", "trade_value": 18450.0},
			{"symbol": "TSLA", "status": "Pending", "trade_value": 12350.0},
		},
	}

	table := FormatResultsForTable(results)

	if len(table.Headers) != 3 || table.Headers[0] != "symbol" || table.Headers[2] != "trade_value" {
		t.Fatalf("unexpected headers: %v", table.Headers)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(table.Rows))
	}
	if table.Rows[0][0] != "AAPL" || table.Rows[1][1] != "Pending" {
		t.Fatalf("unexpected cell values: %v", table.Rows)
	}
}

func TestFormatResultsForTable_CellRendering(t *testing.T) {
	when := time.Date(2024, 11, 18, 9, 30, 0, 0, time.UTC)
	results := &models.ResultSet{
		Columns: []string{"name", "as_of", "quantity", "note"},
		Rows: []map[string]interface{}{
			{"name": nil, "as_of": when, "quantity": int64(250), "note": []byte("raw")},
		},
	}

	table := FormatResultsForTable(results)
	row := table.Rows[0]

	if row[0] != "" {
		t.Fatalf("nil should render as empty string, got %v", row[0])
	}
	if row[1] != "2024-11-18" {
		t.Fatalf("date should render as calendar date, got %v", row[1])
	}
	if row[2] != int64(250) {
		t.Fatalf("numbers should pass through, got %v", row[2])
	}
	if row[3] != "raw" {
		t.Fatalf("bytes should render as string, got %v", row[3])
	}
}

func TestFormatResultsForTable_EmptyInput(t *testing.T) {
	table := FormatResultsForTable(nil)
	if table == nil || len(table.Headers) != 0 || len(table.Rows) != 0 {
		t.Fatalf("expected empty table, got %+v", table)
	}

	table = FormatResultsForTable(&models.ResultSet{Columns: []string{"a"}})
	if len(table.Rows) != 0 {
		t.Fatalf("expected no rows, got %d", len(table.Rows))
	}
}

func TestFormatResultsForChart_UsesColumnNameHints(t *testing.T) {
	results := &models.ResultSet{
		Columns: []string{"fund_name", "fail_count"},
		Rows: []map[string]interface{}{
			{"fund_name": "Global Equity Fund", "fail_count": int64(3)},
			{"fund_name": "Balanced Fund", "fail_count": int64(1)},
		},
	}

	chart := FormatResultsForChart(results, "")

	if chart.Type != "bar" {
		t.Fatalf("expected default bar type, got %q", chart.Type)
	}
	if len(chart.Data) != 2 {
		t.Fatalf("expected 2 points, got %d", len(chart.Data))
	}
	if chart.Data[0].Name != "Global Equity Fund" || chart.Data[0].Value != 3 {
		t.Fatalf("unexpected first point: %+v", chart.Data[0])
	}
}

func TestFormatResultsForChart_FallsBackToNumericColumn(t *testing.T) {
	// No hint match for the measured column; first row's numeric cell
	// should select it.
	results := &models.ResultSet{
		Columns: []string{"symbol", "mv"},
		Rows: []map[string]interface{}{
			{"symbol": "AAPL", "mv": 48000.0},
		},
	}

	chart := FormatResultsForChart(results, "pie")

	if chart.Data[0].Name != "AAPL" {
		t.Fatalf("expected symbol column as name, got %q", chart.Data[0].Name)
	}
	if chart.Data[0].Value != 48000 {
		t.Fatalf("expected numeric column as value, got %v", chart.Data[0].Value)
	}
}

func TestFormatResultsForChart_MarketValueSelection(t *testing.T) {
	results := &models.ResultSet{
		Columns: []string{"symbol", "marketValue"},
		Rows: []map[string]interface{}{
			{"symbol": "AAPL", "marketValue": 48000.0},
		},
	}

	chart := FormatResultsForChart(results, "bar")

	if chart.Data[0].Name != "AAPL" || chart.Data[0].Value != 48000 {
		t.Fatalf("expected {AAPL, 48000}, got %+v", chart.Data[0])
	}
}

func TestFormatResultsForChart_TruncatesToTwentyPoints(t *testing.T) {
	rows := make([]map[string]interface{}, 0, 30)
	for i := 0; i < 30; i++ {
		rows = append(rows, map[string]interface{}{
			"name":  fmt.Sprintf("fund-%d", i),
			"total": float64(i),
		})
	}
	results := &models.ResultSet{Columns: []string{"name", "total"}, Rows: rows}

	chart := FormatResultsForChart(results, "bar")

	if len(chart.Data) != 20 {
		t.Fatalf("expected 20 points, got %d", len(chart.Data))
	}
	if chart.Data[0].Name != "fund-0" || chart.Data[19].Name != "fund-19" {
		t.Fatalf("truncation should keep the first rows: %+v", chart.Data[19])
	}
}

func TestFormatResultsForChart_CellCoercion(t *testing.T) {
	results := &models.ResultSet{
		Columns: []string{"type", "amount"},
		Rows: []map[string]interface{}{
			{"type": nil, "amount": "123.5"},
			{"type": "", "amount": []byte("7")},
			{"type": "Fee", "amount": "not a number"},
		},
	}

	chart := FormatResultsForChart(results, "bar")

	if chart.Data[0].Name != "Unknown" || chart.Data[0].Value != 123.5 {
		t.Fatalf("unexpected point for nil name: %+v", chart.Data[0])
	}
	if chart.Data[1].Name != "Unknown" || chart.Data[1].Value != 7 {
		t.Fatalf("unexpected point for empty name: %+v", chart.Data[1])
	}
	if chart.Data[2].Value != 0 {
		t.Fatalf("non-numeric value should coerce to 0, got %v", chart.Data[2].Value)
	}
}

func TestFormatResultsForChart_EmptyInput(t *testing.T) {
	chart := FormatResultsForChart(nil, "line")
	if chart.Type != "line" || len(chart.Data) != 0 {
		t.Fatalf("expected empty line chart, got %+v", chart)
	}
}
