package service

import (
	"context"
	"log"
	"strings"

	"finopschat/models"
)

// QueryRunner abstracts the analytical store so the orchestrator can be
// exercised without Postgres.
type QueryRunner interface {
	RunQuery(ctx context.Context, query string) (*models.ResultSet, error)
}

// Responder orchestrates the agentic pipeline for one user question:
// classify, plan, execute, format/narrate, with a rule-based fallback when
// any step of the primary pipeline fails.
type Responder struct {
	planner  *Planner
	narrator *Narrator
	store    QueryRunner
	enabled  bool
}

func NewResponder(planner *Planner, narrator *Narrator, store QueryRunner, enabled bool) *Responder {
	return &Responder{
		planner:  planner,
		narrator: narrator,
		store:    store,
		enabled:  enabled,
	}
}

// Respond answers a fresh user question. It always returns a response: any
// planning, validation or execution failure degrades to the canned fallback
// responder instead of surfacing an error.
func (r *Responder) Respond(ctx context.Context, question string, conversationCategory string) *models.AIResponse {
	isDrillDown, viewType := DetectDrillDown(question)

	if !r.enabled || r.store == nil {
		return FallbackResponse(question, conversationCategory)
	}

	plan, err := r.planner.GenerateQueryPlan(ctx, question, conversationCategory)
	if err != nil {
		log.Printf("[AGENTIC] Planning error, falling back: %v", err)
		return FallbackResponse(question, conversationCategory)
	}

	results, err := r.store.RunQuery(ctx, plan.SQL)
	if err != nil {
		log.Printf("[AGENTIC] Query execution error, falling back: %v", err)
		return FallbackResponse(question, conversationCategory)
	}

	// First-turn drill-down: the user asked for a specific view outright,
	// so format the fresh results directly and skip the narrative.
	if isDrillDown {
		return viewResponse(viewType, results, plan)
	}

	narrative := r.narrator.GenerateNarrative(ctx, question, results, plan.SQL)

	content := narrative.Summary
	if len(narrative.Insights) > 0 {
		var b strings.Builder
		b.WriteString(content)
		b.WriteString("\n\n**Key Insights:**\n")
		for i, insight := range narrative.Insights {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString("- ")
			b.WriteString(insight)
		}
		content = b.String()
	}

	var availableViews *models.AvailableViews
	if len(results.Rows) > 0 {
		availableViews = &models.AvailableViews{
			Table: true,
			Chart: plan.ChartType != "" || narrative.VisualizationHint != "table",
		}
	}

	return &models.AIResponse{
		Content:        content,
		HasTable:       false,
		HasChart:       false,
		AvailableViews: availableViews,
		Data: &models.MessageData{
			AvailableViews: availableViews,
			// Retained verbatim for later drill-down requests
			Results: results,
			Plan:    plan,
		},
	}
}
