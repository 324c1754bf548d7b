package service

import (
	"fmt"
	"strings"

	"finopschat/models"
)

const (
	ViewTable = "table"
	ViewChart = "chart"
	ViewBoth  = "both"
)

// Fixed phrase sets for drill-down classification. The "both" set is checked
// first so "show all data" doesn't match the narrower sets.
var bothKeywords = []string{"show all data", "show both", "show everything", "view all"}
var tableKeywords = []string{"show as table", "view as table", "display table", "show table", "table view", "show data table", "view data table", "display as table"}
var chartKeywords = []string{"show as chart", "view as chart", "display chart", "show chart", "chart view", "show graph", "view graph", "visualize", "display as chart"}

// DetectDrillDown classifies a question as a request to re-view prior
// results. Pure and idempotent.
func DetectDrillDown(question string) (bool, string) {
	lower := strings.ToLower(question)

	for _, keyword := range bothKeywords {
		if strings.Contains(lower, keyword) {
			return true, ViewBoth
		}
	}
	for _, keyword := range tableKeywords {
		if strings.Contains(lower, keyword) {
			return true, ViewTable
		}
	}
	for _, keyword := range chartKeywords {
		if strings.Contains(lower, keyword) {
			return true, ViewChart
		}
	}

	return false, ""
}

// AnswerDrillDown satisfies a drill-down request from a prior message's
// retained payload. It never re-invokes the planner or executor; the payload
// must carry both the retained result set and the query plan.
func AnswerDrillDown(question string, payload *models.MessageData) (*models.AIResponse, error) {
	isRequest, viewType := DetectDrillDown(question)
	if !isRequest {
		return nil, fmt.Errorf("invalid drill-down request")
	}

	if payload == nil || payload.Results == nil || payload.Plan == nil {
		return nil, fmt.Errorf("no SQL results available for drill-down")
	}

	return viewResponse(viewType, payload.Results, payload.Plan), nil
}

// viewResponse renders a forced table/chart/both view from a result set.
// Shared by drill-down handling and the orchestrator's first-turn drill-down
// branch.
func viewResponse(viewType string, results *models.ResultSet, plan *models.QueryPlan) *models.AIResponse {
	chartType := plan.ChartType
	if chartType == "" {
		chartType = "bar"
	}

	switch viewType {
	case ViewChart:
		return &models.AIResponse{
			Content:  fmt.Sprintf("Here's the data visualized as a %s chart:", chartType),
			HasTable: false,
			HasChart: true,
			Data: &models.MessageData{
				Chart: FormatResultsForChart(results, chartType),
			},
		}
	case ViewBoth:
		return &models.AIResponse{
			Content:  "Here's the complete data with both table and chart:",
			HasTable: true,
			HasChart: true,
			Data: &models.MessageData{
				Table: FormatResultsForTable(results),
				Chart: FormatResultsForChart(results, chartType),
			},
		}
	default:
		return &models.AIResponse{
			Content:  fmt.Sprintf("Here's the data in table format (%d rows):", len(results.Rows)),
			HasTable: true,
			HasChart: false,
			Data: &models.MessageData{
				Table: FormatResultsForTable(results),
			},
		}
	}
}
