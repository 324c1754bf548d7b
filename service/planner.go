package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"finopschat/ai"
	"finopschat/config"
	"finopschat/models"
	"finopschat/validation"
)

// planTimeout bounds the reasoning service round trip for plan generation.
const planTimeout = 20 * time.Second

type Planner struct {
	gen ai.Generator
}

func NewPlanner(gen ai.Generator) *Planner {
	return &Planner{gen: gen}
}

// GenerateQueryPlan turns a user question into a validated SQL query plan.
// Errors are not retried here; the caller decides fallback policy.
func (p *Planner) GenerateQueryPlan(ctx context.Context, question string, conversationCategory string) (*models.QueryPlan, error) {
	ctx, cancel := context.WithTimeout(ctx, planTimeout)
	defer cancel()

	systemPrompt, userPrompt := ai.BuildPlanPrompt(question, conversationCategory)

	raw, err := p.gen.GenerateJSON(ctx, systemPrompt, userPrompt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate SQL query: %w", err)
	}

	var plan models.QueryPlan
	if err := json.Unmarshal([]byte(raw), &plan); err != nil {
		return nil, fmt.Errorf("failed to generate SQL query: malformed plan: %w", err)
	}

	if strings.TrimSpace(plan.SQL) == "" {
		return nil, fmt.Errorf("failed to generate SQL query: reasoning service returned no SQL")
	}

	// Remove trailing semicolons if present
	plan.SQL = strings.TrimSpace(strings.TrimRight(strings.TrimSpace(plan.SQL), ";"))

	if !config.IsPlanCategory(plan.Category) {
		return nil, fmt.Errorf("failed to generate SQL query: unknown category %q", plan.Category)
	}

	log.Printf("[AGENTIC SQL] Generated SQL: %.200s", plan.SQL)

	if err := validation.ValidateSQLSafety(plan.SQL); err != nil {
		return nil, fmt.Errorf("failed to generate SQL query: %w", err)
	}

	return &plan, nil
}
