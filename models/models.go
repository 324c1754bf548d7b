package models

import "time"

type ChatRequest struct {
	Message string `json:"message" binding:"required"`
}

type PostMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

type FeedbackRequest struct {
	Feedback *string `json:"feedback"` // "up", "down" or null to clear
}

// QueryPlan is the structured plan the reasoning service produces for one
// user question. Immutable once validated.
type QueryPlan struct {
	Category          string `json:"category"`
	SQL               string `json:"sql"`
	VisualizationHint string `json:"visualizationHint"` // "table", "chart" or "both"
	ChartType         string `json:"chartType,omitempty"`
}

// ResultSet holds query output with original column order preserved, since
// the formatters derive headers and chart columns from key order.
type ResultSet struct {
	Columns []string                 `json:"columns"`
	Rows    []map[string]interface{} `json:"rows"`
}

type TableData struct {
	Headers []string        `json:"headers"`
	Rows    [][]interface{} `json:"rows"`
}

type ChartPoint struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

type ChartData struct {
	Type string       `json:"type"` // "bar", "line" or "pie"
	Data []ChartPoint `json:"data"`
}

type Narrative struct {
	Summary           string   `json:"summary"`
	Insights          []string `json:"insights"`
	VisualizationHint string   `json:"visualizationHint"`
}

type AvailableViews struct {
	Table bool `json:"table"`
	Chart bool `json:"chart"`
}

// MessageData is the opaque payload stored alongside an assistant message.
// Results and Plan are retained verbatim so a later drill-down request can
// be satisfied without re-planning or re-querying.
type MessageData struct {
	Table          *TableData      `json:"table,omitempty"`
	Chart          *ChartData      `json:"chart,omitempty"`
	AvailableViews *AvailableViews `json:"availableViews,omitempty"`
	Results        *ResultSet      `json:"_sqlResults,omitempty"`
	Plan           *QueryPlan      `json:"_sqlPlan,omitempty"`
}

type AIResponse struct {
	Content        string          `json:"content"`
	HasTable       bool            `json:"hasTable"`
	HasChart       bool            `json:"hasChart"`
	Data           *MessageData    `json:"data,omitempty"`
	AvailableViews *AvailableViews `json:"availableViews,omitempty"`
}

type Conversation struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	Title        string    `json:"title"`
	Category     string    `json:"category"`
	IsBookmarked bool      `json:"isBookmarked"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type ChatMessage struct {
	ID             string       `json:"id"`
	ConversationID string       `json:"conversationId"`
	Role           string       `json:"role"` // "user" or "assistant"
	Content        string       `json:"content"`
	HasTable       bool         `json:"hasTable"`
	HasChart       bool         `json:"hasChart"`
	Data           *MessageData `json:"data,omitempty"`
	Feedback       *string      `json:"feedback,omitempty"`
	CreatedAt      time.Time    `json:"createdAt"`
}
