// internal/model/baseline.go
package model

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"kpi-prediction-service/internal/models"
)

// defaultBaseline is the historical baseline KPI record, used whenever the
// training data is not present to derive it from.
var defaultBaseline = models.KPIRecord{
	OnTimeDelivery:       79.8,
	DaysSalesOutstanding: 38.0,
	OrderAccuracy:        81.3,
	InvoiceAccuracy:      76.5,
	AvgCostDelivery:      33.48,
}

// loadBaselineKPIs derives the baseline record from order_kpis.csv: the mean
// of each KPI's normalized column, denormalized with the head multipliers.
// Any missing column falls back to that KPI's default.
func loadBaselineKPIs(dataDir string, multipliers []float64) (models.KPIRecord, error) {
	path := filepath.Join(dataDir, "order_kpis.csv")
	f, err := os.Open(path)
	if err != nil {
		return defaultBaseline, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil || len(records) < 2 {
		return defaultBaseline, fmt.Errorf("order_kpis.csv unreadable or empty")
	}

	// Map normalized column name to index.
	colIdx := make(map[string]int, len(records[0]))
	for i, col := range records[0] {
		colIdx[col] = i
	}

	heads := defaultBaseline.Heads()
	for i := 0; i < models.NumKPIs; i++ {
		idx, ok := colIdx[models.KPINames[i]+"_normalized"]
		if !ok {
			continue
		}
		var sum float64
		var count int
		for _, row := range records[1:] {
			if idx >= len(row) {
				continue
			}
			v, err := strconv.ParseFloat(row[idx], 64)
			if err != nil {
				continue
			}
			sum += v
			count++
		}
		if count > 0 {
			heads[i] = (sum / float64(count)) * multipliers[i]
		}
	}
	return models.FromHeads(heads), nil
}
