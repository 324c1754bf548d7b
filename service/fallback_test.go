package service

import (
	"strings"
	"testing"
)

func TestFallbackCategory_KeywordRouting(t *testing.T) {
	cases := []struct {
		question string
		category string
	}{
		{"any settlement fails today", "settlement"},
		{"show my portfolio holdings", "portfolio"},
		{"upcoming dividends this week", "corporate_actions"},
		{"compliance exceptions trend", "compliance"},
		{"fee revenue per client", "fees"},
		{"which clients pay late", "client_behavior"},
		{"nav adjustments by fund", "nav"},
		{"stale prices in reconciliation", "reconciliation"},
		{"hello there", ""},
	}

	for _, tc := range cases {
		if got := fallbackCategory(tc.question); got != tc.category {
			t.Fatalf("fallbackCategory(%q) = %q, want %q", tc.question, got, tc.category)
		}
	}
}

func TestFallbackResponse_CatalogueCoverage(t *testing.T) {
	for category, canned := range fallbackResponses {
		if canned.Content == "" {
			t.Fatalf("category %q has no content", category)
		}
		if canned.HasTable && (canned.Data == nil || canned.Data.Table == nil) {
			t.Fatalf("category %q claims a table but carries none", category)
		}
		if canned.HasChart && (canned.Data == nil || canned.Data.Chart == nil) {
			t.Fatalf("category %q claims a chart but carries none", category)
		}
		if canned.Data != nil && canned.Data.Table != nil {
			width := len(canned.Data.Table.Headers)
			for i, row := range canned.Data.Table.Rows {
				if len(row) != width {
					t.Fatalf("category %q row %d has %d cells, want %d", category, i, len(row), width)
				}
			}
		}
	}
}

func TestFallbackResponse_MatchedQuestionOffersViews(t *testing.T) {
	resp := FallbackResponse("show me settlement fails", "")

	if !strings.Contains(resp.Content, "settlement fails") {
		t.Fatalf("unexpected content %q", resp.Content)
	}
	// Text-first envelope: views offered, not rendered.
	if resp.HasTable || resp.HasChart {
		t.Fatalf("expected no rendered views, got hasTable=%v hasChart=%v", resp.HasTable, resp.HasChart)
	}
	if resp.AvailableViews == nil || !resp.AvailableViews.Table {
		t.Fatalf("expected table view offered, got %+v", resp.AvailableViews)
	}
}

func TestFallbackResponse_UnmatchedQuestionGetsGuidance(t *testing.T) {
	resp := FallbackResponse("tell me a joke about databases", "")

	if !strings.Contains(resp.Content, "more specific") {
		t.Fatalf("expected guidance response, got %q", resp.Content)
	}
	if resp.HasTable || resp.HasChart || resp.AvailableViews != nil {
		t.Fatalf("guidance response must not carry views: %+v", resp)
	}
}

func TestFallbackResponse_DrillDownServesCannedData(t *testing.T) {
	resp := FallbackResponse("show as table", "portfolio")

	if !resp.HasTable || resp.HasChart {
		t.Fatalf("expected table view, got hasTable=%v hasChart=%v", resp.HasTable, resp.HasChart)
	}
	if resp.Data == nil || resp.Data.Table == nil || len(resp.Data.Table.Rows) != 4 {
		t.Fatalf("expected canned portfolio table, got %+v", resp.Data)
	}
}

func TestFallbackResponse_DrillDownAcceptsCategoryLabel(t *testing.T) {
	resp := FallbackResponse("show as chart", "Portfolio Analytics")

	if !resp.HasChart || resp.HasTable {
		t.Fatalf("expected chart view, got hasTable=%v hasChart=%v", resp.HasTable, resp.HasChart)
	}
	if resp.Data == nil || resp.Data.Chart == nil || resp.Data.Chart.Type != "pie" {
		t.Fatalf("expected canned pie chart, got %+v", resp.Data)
	}
}

func TestFallbackResponse_DrillDownWithoutHistoryAsksForQuery(t *testing.T) {
	resp := FallbackResponse("show as chart", "General Query")

	if resp.HasTable || resp.HasChart {
		t.Fatalf("expected no views, got hasTable=%v hasChart=%v", resp.HasTable, resp.HasChart)
	}
	if !strings.Contains(resp.Content, "specific financial query") {
		t.Fatalf("expected guidance to ask a query first, got %q", resp.Content)
	}
}

func TestConversationTitle(t *testing.T) {
	if got := ConversationTitle("any settlement fails today?"); got != "Settlement fails analysis" {
		t.Fatalf("unexpected title %q", got)
	}
	if got := ConversationTitle("nav strike delays by fund size"); got != "NAV and accrual analysis" {
		t.Fatalf("unexpected title %q", got)
	}

	long := strings.Repeat("important question ", 10)
	got := ConversationTitle(long)
	if len(got) != 53 || !strings.HasSuffix(got, "...") {
		t.Fatalf("long questions should truncate to 50 chars plus ellipsis, got %q (%d)", got, len(got))
	}
}

func TestCategorizeConversation(t *testing.T) {
	cases := map[string]string{
		"settlement fail breakdown":   "Settlement & Trade Operations",
		"portfolio by region":         "Portfolio Analytics",
		"dividend calendar":           "Corporate Actions",
		"compliance exception digest": "Compliance & Risk",
		"fee revenue trend":           "Fee Analysis",
		"client payment delays":       "Client Behavior",
		"nav adjustment report":       "NAV Operations",
		"reconciliation break aging":  "Reconciliation",
		"what's the weather":          "General Query",
	}
	for question, want := range cases {
		if got := CategorizeConversation(question); got != want {
			t.Fatalf("CategorizeConversation(%q) = %q, want %q", question, got, want)
		}
	}
}
