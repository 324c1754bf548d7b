package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"finopschat/ai"
	"finopschat/models"
)

const narrativeTimeout = 15 * time.Second

type Narrator struct {
	gen ai.Generator
}

func NewNarrator(gen ai.Generator) *Narrator {
	return &Narrator{gen: gen}
}

func defaultNarrative() *models.Narrative {
	return &models.Narrative{
		Summary:           "Analysis completed successfully.",
		Insights:          []string{"Data retrieved from database", "Results available for visualization"},
		VisualizationHint: "both",
	}
}

// GenerateNarrative summarizes query results in natural language. Narrative
// generation is best-effort: any failure yields the fixed default narrative
// instead of blocking the response.
func (n *Narrator) GenerateNarrative(ctx context.Context, question string, results *models.ResultSet, sqlQuery string) *models.Narrative {
	ctx, cancel := context.WithTimeout(ctx, narrativeTimeout)
	defer cancel()

	systemPrompt, userPrompt := ai.BuildNarrativePrompt(question, results, sqlQuery)

	raw, err := n.gen.GenerateJSON(ctx, systemPrompt, userPrompt)
	if err != nil {
		log.Printf("[AGENTIC SQL] Error generating narrative: %v", err)
		return defaultNarrative()
	}

	var narrative models.Narrative
	if err := json.Unmarshal([]byte(raw), &narrative); err != nil {
		log.Printf("[AGENTIC SQL] Malformed narrative response: %v", err)
		return defaultNarrative()
	}

	if narrative.Summary == "" {
		return defaultNarrative()
	}
	if narrative.VisualizationHint == "" {
		narrative.VisualizationHint = "both"
	}

	return &narrative
}
