package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"finopschat/models"
)

// maxChartPoints caps chart projections to keep them renderable.
const maxChartPoints = 20

var chartNameHints = []string{"name", "symbol", "type", "date"}
var chartValueHints = []string{"count", "total", "amount", "value"}

// FormatResultsForTable derives a table projection from a result set.
// Headers follow the result set's column order; each cell renders per the
// rules: null -> empty string, dates -> ISO calendar date, numbers pass
// through, everything else stringifies.
func FormatResultsForTable(results *models.ResultSet) *models.TableData {
	if results == nil || len(results.Rows) == 0 {
		return &models.TableData{Headers: []string{}, Rows: [][]interface{}{}}
	}

	headers := results.Columns
	rows := make([][]interface{}, 0, len(results.Rows))
	for _, row := range results.Rows {
		cells := make([]interface{}, len(headers))
		for i, header := range headers {
			cells[i] = tableCell(row[header])
		}
		rows = append(rows, cells)
	}

	return &models.TableData{Headers: headers, Rows: rows}
}

func tableCell(value interface{}) interface{} {
	switch v := value.(type) {
	case nil:
		return ""
	case time.Time:
		return v.Format("2006-01-02")
	case int, int32, int64, float32, float64:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// FormatResultsForChart derives a chart projection from a result set,
// auto-selecting the name and value columns and truncating to the first
// 20 rows.
func FormatResultsForChart(results *models.ResultSet, chartType string) *models.ChartData {
	if chartType == "" {
		chartType = "bar"
	}
	if results == nil || len(results.Rows) == 0 {
		return &models.ChartData{Type: chartType, Data: []models.ChartPoint{}}
	}

	nameKey := pickColumn(results.Columns, chartNameHints, nil)
	if nameKey == "" {
		nameKey = results.Columns[0]
	}

	valueKey := pickColumn(results.Columns, chartValueHints, results.Rows[0])
	if valueKey == "" {
		if len(results.Columns) > 1 {
			valueKey = results.Columns[1]
		} else {
			valueKey = results.Columns[0]
		}
	}

	limit := len(results.Rows)
	if limit > maxChartPoints {
		limit = maxChartPoints
	}

	data := make([]models.ChartPoint, 0, limit)
	for _, row := range results.Rows[:limit] {
		data = append(data, models.ChartPoint{
			Name:  chartName(row[nameKey]),
			Value: toFloat(row[valueKey]),
		})
	}

	return &models.ChartData{Type: chartType, Data: data}
}

// pickColumn returns the first column whose lowercased name contains one of
// the hints, or - when firstRow is given - whose first-row value is numeric.
func pickColumn(columns []string, hints []string, firstRow map[string]interface{}) string {
	for _, col := range columns {
		lower := strings.ToLower(col)
		for _, hint := range hints {
			if strings.Contains(lower, hint) {
				return col
			}
		}
		if firstRow != nil && isNumeric(firstRow[col]) {
			return col
		}
	}
	return ""
}

func chartName(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return "Unknown"
	case time.Time:
		return v.Format("2006-01-02")
	case []byte:
		if len(v) == 0 {
			return "Unknown"
		}
		return string(v)
	case string:
		if v == "" {
			return "Unknown"
		}
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

func isNumeric(value interface{}) bool {
	switch value.(type) {
	case int, int32, int64, float32, float64:
		return true
	default:
		return false
	}
}

// toFloat coerces a cell to a number; anything non-numeric becomes 0.
func toFloat(value interface{}) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0
		}
		return f
	case []byte:
		f, err := strconv.ParseFloat(string(v), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}
