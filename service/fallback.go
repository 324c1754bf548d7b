package service

import (
	"fmt"
	"strings"

	"finopschat/models"
)

// fallbackResponses is the canned catalogue the rule-based responder serves
// when the primary pipeline is disabled or fails. Loaded once; never mutated.
var fallbackResponses = map[string]*models.AIResponse{
	"settlement": {
		Content: `Based on today's data, there are 3 settlement fails totaling $2.4M across different counterparties. The main reasons include:

1. Insufficient securities (2 trades - $1.6M)
2. Missing settlement instructions (1 trade - $800K)

The affected counterparties are Goldman Sachs, Morgan Stanley, and JP Morgan. All trades are flagged for immediate follow-up with T+1 settlement recovery procedures.`,
		HasTable: true,
		HasChart: false,
		Data: &models.MessageData{
			Table: &models.TableData{
				Headers: []string{"Trade ID", "Counterparty", "Security", "Amount", "Reason", "Status"},
				Rows: [][]interface{}{
					{"TRD-2024-1001", "Goldman Sachs", "AAPL 100 shares", "$18,450", "Insufficient securities", "Pending"},
					{"TRD-2024-1002", "Morgan Stanley", "TSLA 50 shares", "$12,350", "Insufficient securities", "In Progress"},
					{"TRD-2024-1003", "JP Morgan", "MSFT 25 shares", "$8,125", "Missing instructions", "Escalated"},
				},
			},
		},
	},
	"portfolio": {
		Content: `Your current asset holdings breakdown:

**By Asset Class:**
- Equities: 60% ($1.44B)
- Fixed Income: 25% ($600M)
- Alternatives: 10% ($240M)
- Cash: 5% ($120M)

**By Region:**
- North America: 45%, Europe: 30%, Asia Pacific: 20%, Emerging Markets: 5%

Total portfolio value: $2.4B with a YTD return of +8.3%.`,
		HasTable: true,
		HasChart: true,
		Data: &models.MessageData{
			Table: &models.TableData{
				Headers: []string{"Asset Class", "Value", "Allocation", "YTD Return", "Risk Level"},
				Rows: [][]interface{}{
					{"Equities", "$1.44B", "60%", "+12.5%", "Medium"},
					{"Fixed Income", "$600M", "25%", "+4.2%", "Low"},
					{"Alternatives", "$240M", "10%", "+6.8%", "High"},
					{"Cash", "$120M", "5%", "+2.1%", "Very Low"},
				},
			},
			Chart: &models.ChartData{
				Type: "pie",
				Data: []models.ChartPoint{
					{Name: "Equities", Value: 60},
					{Name: "Fixed Income", Value: 25},
					{Name: "Alternatives", Value: 10},
					{Name: "Cash", Value: 5},
				},
			},
		},
	},
	"corporate_actions": {
		Content: `Today's corporate actions affecting your portfolio:

**Dividends (3 securities):** AAPL $0.24/share, MSFT $0.68/share, JNJ $1.13/share - all ex-date today.
**Stock Splits (1 security):** TSLA 3-for-1 split effective today, position rebalanced.

Total estimated cash flow impact: +$251.8K. All dividend payments will settle within T+2.`,
		HasTable: true,
		HasChart: false,
		Data: &models.MessageData{
			Table: &models.TableData{
				Headers: []string{"Security", "Action Type", "Details", "Ex-Date", "Cash Impact", "Status"},
				Rows: [][]interface{}{
					{"AAPL", "Dividend", "$0.24/share", "2024-11-18", "+$48,000", "Pending"},
					{"MSFT", "Dividend", "$0.68/share", "2024-11-18", "+$136,000", "Pending"},
					{"JNJ", "Dividend", "$1.13/share", "2024-11-18", "+$67,800", "Pending"},
					{"TSLA", "Stock Split", "3-for-1", "2024-11-18", "$0", "Completed"},
				},
			},
		},
	},
	"compliance": {
		Content: `Compliance exception analysis:

**Pre-Trade Exceptions:** 8 instances (down 20% from last month) - concentration limits, restricted securities, liquidity constraints.
**Post-Trade Exceptions:** 12 instances (up 15% from last month) - trade reporting delays, allocation errors, price verification.

The increase in post-trade exceptions is primarily driven by T+1 settlement migration challenges. Recommended action: review allocation workflow automation.`,
		HasTable: true,
		HasChart: true,
		Data: &models.MessageData{
			Table: &models.TableData{
				Headers: []string{"Exception Type", "Category", "Count", "Severity", "Change vs Last Month"},
				Rows: [][]interface{}{
					{"Concentration limits", "Pre-Trade", 5, "Medium", "-20%"},
					{"Restricted securities", "Pre-Trade", 2, "High", "-30%"},
					{"Liquidity constraints", "Pre-Trade", 1, "Low", "0%"},
					{"Trade reporting delays", "Post-Trade", 7, "Medium", "+40%"},
					{"Allocation errors", "Post-Trade", 3, "High", "+50%"},
					{"Price verification", "Post-Trade", 2, "Low", "-33%"},
				},
			},
			Chart: &models.ChartData{
				Type: "bar",
				Data: []models.ChartPoint{
					{Name: "Pre-Trade", Value: 8},
					{Name: "Post-Trade", Value: 12},
				},
			},
		},
	},
	"fees": {
		Content: `Fee revenue and expense allocation analysis:

**Recurring anomalies detected:** Share Class A expense ratio variance of +0.03% vs prospectus; Share Class C administrative fee allocation error ($12K impact).

Fee compression of 2 bps year-over-year, offset by 5% AUM growth. Net revenue impact: +3.2%.`,
		HasTable: true,
		HasChart: true,
		Data: &models.MessageData{
			Table: &models.TableData{
				Headers: []string{"Quarter", "AUM", "Fee Revenue", "Fee Rate", "YoY Change"},
				Rows: [][]interface{}{
					{"Q1 2024", "$2.40B", "$20.4M", "0.85%", "+3.1%"},
					{"Q2 2024", "$2.40B", "$19.9M", "0.83%", "+2.8%"},
					{"Q3 2024", "$2.40B", "$20.9M", "0.87%", "+3.5%"},
					{"Q4 2024 (YTD)", "$2.42B", "$5.2M", "0.86%", "+3.2%"},
				},
			},
			Chart: &models.ChartData{
				Type: "line",
				Data: []models.ChartPoint{
					{Name: "Q1", Value: 20.4},
					{Name: "Q2", Value: 19.9},
					{Name: "Q3", Value: 20.9},
					{Name: "Q4 YTD", Value: 5.2},
				},
			},
		},
	},
	"client_behavior": {
		Content: `Client payment behavior analysis:

**Late payment analysis:** 12 consistently late payers (8% of client base), average delay 18 days past due, total outstanding $450K.

Correlation detected: higher AUM clients have 2.3x higher adjustment rates but better payment timing (avg 5 days vs 18 days).`,
		HasTable: true,
		HasChart: true,
		Data: &models.MessageData{
			Table: &models.TableData{
				Headers: []string{"Client Name", "AUM", "Avg Payment Delay", "Outstanding", "Adjustment Rate"},
				Rows: [][]interface{}{
					{"XYZ Corp", "$125M", "28 days", "$120,000", "18%"},
					{"ABC Fund", "$85M", "22 days", "$95,000", "22%"},
					{"DEF Partners", "$65M", "15 days", "$67,000", "12%"},
					{"GHI Holdings", "$95M", "12 days", "$45,000", "8%"},
					{"JKL Capital", "$78M", "8 days", "$32,000", "5%"},
				},
			},
			Chart: &models.ChartData{
				Type: "bar",
				Data: []models.ChartPoint{
					{Name: "XYZ Corp", Value: 28},
					{Name: "ABC Fund", Value: 22},
					{Name: "DEF Partners", Value: 15},
					{Name: "GHI Holdings", Value: 12},
					{Name: "JKL Capital", Value: 8},
				},
			},
		},
	},
	"nav": {
		Content: `NAV and accrual adjustment trends:

**Equity funds:** average accrual adjustments of $2,400 per fund per month, variance ±0.02% of NAV.
**Fixed income funds:** average accrual adjustments of $8,700 per fund per month, variance ±0.05% of NAV.

NAV strike delay rates grow with fund size: 2% for small funds, 5% for medium, 8% for large. Complexity correlation: 0.73 between number of securities and delay probability.`,
		HasTable: true,
		HasChart: true,
		Data: &models.MessageData{
			Table: &models.TableData{
				Headers: []string{"Fund Type", "Fund Size", "Avg Accrual Adj", "NAV Variance", "Delay Rate", "Avg Delay"},
				Rows: [][]interface{}{
					{"Equity", "Small", "$2,400", "±0.02%", "2%", "15 mins"},
					{"Equity", "Medium", "$2,400", "±0.02%", "5%", "25 mins"},
					{"Equity", "Large", "$2,400", "±0.02%", "8%", "45 mins"},
					{"Fixed Income", "Small", "$8,700", "±0.05%", "3%", "20 mins"},
					{"Fixed Income", "Medium", "$8,700", "±0.05%", "7%", "30 mins"},
					{"Fixed Income", "Large", "$8,700", "±0.05%", "12%", "50 mins"},
				},
			},
			Chart: &models.ChartData{
				Type: "bar",
				Data: []models.ChartPoint{
					{Name: "Small Funds", Value: 2},
					{Name: "Medium Funds", Value: 5},
					{Name: "Large Funds", Value: 8},
				},
			},
		},
	},
	"reconciliation": {
		Content: `Reconciliation and data quality analysis:

**Stale price occurrences:** Equities 0.3%, Fixed Income 1.2%, Alternatives 4.5% of positions during normal volatility. During high volatility periods (+20% VIX), stale prices increase 3.2x across all asset classes.

**Root causes:** vendor data delays (45%), manual pricing required (30%), market closures/holidays (25%).`,
		HasTable: true,
		HasChart: true,
		Data: &models.MessageData{
			Table: &models.TableData{
				Headers: []string{"Asset Class", "Normal Stale Rate", "High Vol Stale Rate", "Primary Cause", "Resolution Time"},
				Rows: [][]interface{}{
					{"Equities", "0.3%", "0.96%", "Vendor delays", "2 hours"},
					{"Fixed Income", "1.2%", "3.84%", "Manual pricing", "4 hours"},
					{"Alternatives", "4.5%", "14.4%", "Illiquidity", "24 hours"},
					{"Emerging Markets", "2.8%", "8.96%", "Market closures", "12 hours"},
				},
			},
			Chart: &models.ChartData{
				Type: "bar",
				Data: []models.ChartPoint{
					{Name: "Vendor delays", Value: 45},
					{Name: "Manual pricing", Value: 30},
					{Name: "Market closures", Value: 25},
				},
			},
		},
	},
}

// fallbackCategory is the rule-based classifier for the canned catalogue.
// Deliberately simpler than the planner's category enum; the two only
// partially overlap.
func fallbackCategory(question string) string {
	lower := strings.ToLower(question)

	switch {
	case strings.Contains(lower, "settlement") || strings.Contains(lower, "trade") || strings.Contains(lower, "fail"):
		return "settlement"
	case strings.Contains(lower, "portfolio") || strings.Contains(lower, "holding") || strings.Contains(lower, "asset"):
		return "portfolio"
	case strings.Contains(lower, "corporate action") || strings.Contains(lower, "dividend") || strings.Contains(lower, "cash flow"):
		return "corporate_actions"
	case strings.Contains(lower, "compliance") || strings.Contains(lower, "risk") || strings.Contains(lower, "exception"):
		return "compliance"
	case strings.Contains(lower, "fee") || strings.Contains(lower, "revenue") || strings.Contains(lower, "expense"):
		return "fees"
	case strings.Contains(lower, "client") || strings.Contains(lower, "payment") || strings.Contains(lower, "invoice"):
		return "client_behavior"
	case strings.Contains(lower, "nav") || strings.Contains(lower, "accrual") || strings.Contains(lower, "fund"):
		return "nav"
	case strings.Contains(lower, "reconcil") || strings.Contains(lower, "stale") || strings.Contains(lower, "data quality"):
		return "reconciliation"
	}
	return ""
}

// displayToKey maps conversation category labels back to catalogue keys.
var displayToKey = map[string]string{
	"Settlement & Trade Operations": "settlement",
	"Portfolio Analytics":           "portfolio",
	"Corporate Actions":             "corporate_actions",
	"Compliance & Risk":             "compliance",
	"Fee Analysis":                  "fees",
	"Client Behavior":               "client_behavior",
	"NAV Operations":                "nav",
	"Reconciliation":                "reconciliation",
}

// FallbackResponse produces a deterministic answer when the agentic pipeline
// is unavailable. Drill-down requests are satisfied from the canned data of
// the conversation's last category. lastCategory accepts either a catalogue
// key or a conversation category label.
func FallbackResponse(question string, lastCategory string) *models.AIResponse {
	isDrillDown, viewType := DetectDrillDown(question)

	if key, ok := displayToKey[lastCategory]; ok {
		lastCategory = key
	}

	if isDrillDown {
		full, ok := fallbackResponses[lastCategory]
		switch {
		case ok && viewType == ViewTable && full.Data != nil && full.Data.Table != nil:
			return &models.AIResponse{
				Content:  "Here's the data in table format:",
				HasTable: true,
				Data:     &models.MessageData{Table: full.Data.Table},
			}
		case ok && viewType == ViewChart && full.Data != nil && full.Data.Chart != nil:
			return &models.AIResponse{
				Content:  "Here's the data visualized as a chart:",
				HasChart: true,
				Data:     &models.MessageData{Chart: full.Data.Chart},
			}
		case ok && viewType == ViewBoth:
			return &models.AIResponse{
				Content:  "Here's the complete data with both table and chart:",
				HasTable: full.HasTable,
				HasChart: full.HasChart,
				Data:     full.Data,
			}
		default:
			return &models.AIResponse{
				Content: "I don't have data available for that visualization request. Please ask a specific financial query first.",
			}
		}
	}

	if category := fallbackCategory(question); category != "" {
		full := fallbackResponses[category]
		// Text-only answer with metadata about which views exist
		return &models.AIResponse{
			Content: full.Content,
			AvailableViews: &models.AvailableViews{
				Table: full.HasTable,
				Chart: full.HasChart,
			},
		}
	}

	return &models.AIResponse{
		Content: fmt.Sprintf(`I've analyzed your query regarding "%s". Based on the latest financial data, I can provide insights across settlement operations, portfolio analytics, compliance monitoring, and more.

Could you provide more specific details about what aspect you'd like to explore? For example:
- Settlement fails and trade matching
- Portfolio performance and holdings breakdown
- Compliance exceptions and trends
- Fee analysis and revenue metrics

I'm here to help you navigate your financial data.`, question),
	}
}

// ConversationTitle derives a short title for a new conversation from its
// first question.
func ConversationTitle(question string) string {
	lower := strings.ToLower(question)

	switch {
	case strings.Contains(lower, "settlement") || strings.Contains(lower, "trade") || strings.Contains(lower, "fail"):
		return "Settlement fails analysis"
	case strings.Contains(lower, "portfolio") || strings.Contains(lower, "holding"):
		return "Portfolio holdings breakdown"
	case strings.Contains(lower, "corporate action") || strings.Contains(lower, "dividend"):
		return "Corporate actions review"
	case strings.Contains(lower, "compliance") || strings.Contains(lower, "exception"):
		return "Compliance exceptions trend"
	case strings.Contains(lower, "fee") || strings.Contains(lower, "revenue"):
		return "Fee revenue analysis"
	case strings.Contains(lower, "client") || strings.Contains(lower, "payment"):
		return "Client payment behavior"
	case strings.Contains(lower, "nav") || strings.Contains(lower, "accrual"):
		return "NAV and accrual analysis"
	case strings.Contains(lower, "reconcil") || strings.Contains(lower, "data quality"):
		return "Reconciliation review"
	}

	if len(question) > 50 {
		return question[:50] + "..."
	}
	return question
}

// CategorizeConversation labels a conversation with its planner-facing
// category display name.
func CategorizeConversation(question string) string {
	lower := strings.ToLower(question)

	switch {
	case strings.Contains(lower, "settlement") || strings.Contains(lower, "trade") || strings.Contains(lower, "fail"):
		return "Settlement & Trade Operations"
	case strings.Contains(lower, "portfolio") || strings.Contains(lower, "holding") || strings.Contains(lower, "asset"):
		return "Portfolio Analytics"
	case strings.Contains(lower, "corporate action") || strings.Contains(lower, "dividend") || strings.Contains(lower, "cash flow"):
		return "Corporate Actions"
	case strings.Contains(lower, "compliance") || strings.Contains(lower, "risk") || strings.Contains(lower, "exception"):
		return "Compliance & Risk"
	case strings.Contains(lower, "fee") || strings.Contains(lower, "revenue") || strings.Contains(lower, "expense"):
		return "Fee Analysis"
	case strings.Contains(lower, "client") || strings.Contains(lower, "payment") || strings.Contains(lower, "invoice"):
		return "Client Behavior"
	case strings.Contains(lower, "nav") || strings.Contains(lower, "accrual") || strings.Contains(lower, "fund"):
		return "NAV Operations"
	case strings.Contains(lower, "reconcil") || strings.Contains(lower, "stale") || strings.Contains(lower, "data quality"):
		return "Reconciliation"
	}
	return "General Query"
}
