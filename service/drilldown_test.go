package service

import (
	"strings"
	"testing"

	"finopschat/models"
)

func TestDetectDrillDown_PhraseClassification(t *testing.T) {
	cases := []struct {
		question string
		match    bool
		viewType string
	}{
		{"show as table", true, ViewTable},
		{"Can you show as table please", true, ViewTable},
		{"SHOW AS CHART", true, ViewChart},
		{"visualize this for me", true, ViewChart},
		{"show graph", true, ViewChart},
		{"show all data", true, ViewBoth},
		{"show both", true, ViewBoth},
		{"show everything", true, ViewBoth},
		{"what were settlement fails last week", false, ""},
		{"table of contents", false, ""},
		{"", false, ""},
	}

	for _, tc := range cases {
		match, viewType := DetectDrillDown(tc.question)
		if match != tc.match || viewType != tc.viewType {
			t.Fatalf("DetectDrillDown(%q) = (%v, %q), want (%v, %q)",
				tc.question, match, viewType, tc.match, tc.viewType)
		}
	}
}

func TestDetectDrillDown_Idempotent(t *testing.T) {
	question := "please show as chart"
	m1, v1 := DetectDrillDown(question)
	m2, v2 := DetectDrillDown(question)
	if m1 != m2 || v1 != v2 {
		t.Fatalf("classification changed between calls: (%v,%q) vs (%v,%q)", m1, v1, m2, v2)
	}
}

func TestDetectDrillDown_BothWinsOverNarrowSets(t *testing.T) {
	// "show all data" should never classify as table-only.
	match, viewType := DetectDrillDown("show all data in a table view")
	if !match || viewType != ViewBoth {
		t.Fatalf("expected both view, got (%v, %q)", match, viewType)
	}
}

func retainedPayload() *models.MessageData {
	return &models.MessageData{
		Results: &models.ResultSet{
			Columns: []string{"fund_name", "total_amount"},
			Rows: []map[string]interface{}{
				{"fund_name": "Global Equity Fund", "total_amount": 1200.0},
				{"fund_name": "Fixed Income Fund", "total_amount": 800.0},
			},
		},
		Plan: &models.QueryPlan{
			Category:  "NAV Operations",
			SQL:       "SELECT f.name AS fund_name, SUM(n.amount) AS total_amount FROM nav_adjustments n JOIN funds f ON f.id = n.fund_id GROUP BY f.name",
			ChartType: "pie",
		},
	}
}

func TestAnswerDrillDown_TableView(t *testing.T) {
	resp, err := AnswerDrillDown("show as table", retainedPayload())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.HasTable || resp.HasChart {
		t.Fatalf("expected table-only flags, got hasTable=%v hasChart=%v", resp.HasTable, resp.HasChart)
	}
	if resp.Data == nil || resp.Data.Table == nil || len(resp.Data.Table.Rows) != 2 {
		t.Fatalf("expected table projection with 2 rows, got %+v", resp.Data)
	}
	if !strings.Contains(resp.Content, "2 rows") {
		t.Fatalf("content should mention the row count, got %q", resp.Content)
	}
}

func TestAnswerDrillDown_ChartViewUsesPlanChartType(t *testing.T) {
	resp, err := AnswerDrillDown("show as chart", retainedPayload())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.HasTable || !resp.HasChart {
		t.Fatalf("expected chart-only flags, got hasTable=%v hasChart=%v", resp.HasTable, resp.HasChart)
	}
	if resp.Data.Chart == nil || resp.Data.Chart.Type != "pie" {
		t.Fatalf("expected pie chart from the plan hint, got %+v", resp.Data.Chart)
	}
}

func TestAnswerDrillDown_BothView(t *testing.T) {
	resp, err := AnswerDrillDown("show both", retainedPayload())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.HasTable || !resp.HasChart {
		t.Fatalf("expected both flags set, got hasTable=%v hasChart=%v", resp.HasTable, resp.HasChart)
	}
	if resp.Data.Table == nil || resp.Data.Chart == nil {
		t.Fatalf("expected both projections, got %+v", resp.Data)
	}
}

func TestAnswerDrillDown_RejectsNonDrillDownQuestion(t *testing.T) {
	if _, err := AnswerDrillDown("what failed yesterday", retainedPayload()); err == nil {
		t.Fatal("expected error for non-drill-down question")
	}
}

func TestAnswerDrillDown_RejectsMissingPayload(t *testing.T) {
	for _, payload := range []*models.MessageData{
		nil,
		{},
		{Results: retainedPayload().Results},
		{Plan: retainedPayload().Plan},
	} {
		if _, err := AnswerDrillDown("show as table", payload); err == nil {
			t.Fatalf("expected error for payload %+v", payload)
		}
	}
}
