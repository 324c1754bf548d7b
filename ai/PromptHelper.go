package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"finopschat/config"
	"finopschat/models"
)

// BuildPlanPrompt constructs the system and user prompts for query plan
// generation. The system prompt carries the schema description plus the
// exact JSON contract the model must answer with.
func BuildPlanPrompt(question string, conversationCategory string) (string, string) {
	var systemBuilder strings.Builder
	systemBuilder.WriteString(config.DatabaseSchema)
	systemBuilder.WriteString("\nGenerate a SQL query plan for the following user query. Respond with JSON in this exact format:\n")
	systemBuilder.WriteString("{\n")
	systemBuilder.WriteString(`  "category": "` + strings.Join(config.PlanCategories, `" | "`) + `",` + "\n")
	systemBuilder.WriteString("  \"sql\": \"SELECT ...\",\n")
	systemBuilder.WriteString("  \"visualizationHint\": \"table\" | \"chart\" | \"both\",\n")
	systemBuilder.WriteString("  \"chartType\": \"bar\" | \"line\" | \"pie\"\n")
	systemBuilder.WriteString("}\n\n")
	systemBuilder.WriteString("The SQL query must:\n")
	systemBuilder.WriteString("- Be a valid PostgreSQL SELECT query only (NO semicolon at the end)\n")
	systemBuilder.WriteString("- Use proper JOINs to include human-readable names\n")
	systemBuilder.WriteString("- Include appropriate aggregations and GROUP BY clauses\n")
	systemBuilder.WriteString("- Limit results to 100 rows\n")
	systemBuilder.WriteString("- Use date filters for recent data (last 90 days unless specified)\n")
	systemBuilder.WriteString("- Return columns suitable for the visualization type")

	userPrompt := fmt.Sprintf("Query: %s", question)
	if conversationCategory != "" {
		userPrompt = fmt.Sprintf("Category: %s\n\nQuery: %s", conversationCategory, question)
	}

	return systemBuilder.String(), userPrompt
}

// BuildNarrativePrompt constructs the prompts for narrative generation. Only
// the first 5 rows ride along to bound prompt size.
func BuildNarrativePrompt(question string, results *models.ResultSet, sqlQuery string) (string, string) {
	systemPrompt := `You are a financial data analyst. Generate a concise narrative summary of query results.
Respond with JSON in this format:
{
  "summary": "2-3 sentence overview of the findings",
  "insights": ["insight 1", "insight 2", "insight 3"],
  "visualizationHint": "table" | "chart" | "both"
}

Focus on:
- Key metrics and trends
- Notable outliers or patterns
- Actionable insights
- Financial significance`

	preview := results.Rows
	truncated := false
	if len(preview) > 5 {
		preview = preview[:5]
		truncated = true
	}
	previewJSON, err := json.MarshalIndent(preview, "", "  ")
	if err != nil {
		previewJSON = []byte("[]")
	}

	var userBuilder strings.Builder
	userBuilder.WriteString(fmt.Sprintf("User Query: %s\n\n", question))
	userBuilder.WriteString(fmt.Sprintf("SQL Query: %s\n\n", sqlQuery))
	userBuilder.WriteString(fmt.Sprintf("Results (%d rows):\n", len(results.Rows)))
	userBuilder.Write(previewJSON)
	if truncated {
		userBuilder.WriteString("\n... and more rows")
	}
	userBuilder.WriteString("\n\nGenerate a narrative summary.")

	return systemPrompt, userBuilder.String()
}
