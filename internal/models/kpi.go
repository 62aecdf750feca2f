// internal/models/kpi.go
package models

// KPIRecord holds the five predicted order-to-cash KPIs in their natural
// units. The field set is fixed; callers never see a dynamically shaped map.
type KPIRecord struct {
	OnTimeDelivery       float64 `json:"onTimeDelivery"`       // percent, [0,100]
	DaysSalesOutstanding float64 `json:"daysSalesOutstanding"` // days, [0,90]
	OrderAccuracy        float64 `json:"orderAccuracy"`        // percent, [0,100]
	InvoiceAccuracy      float64 `json:"invoiceAccuracy"`      // percent, [0,100]
	AvgCostDelivery      float64 `json:"avgCostDelivery"`      // dollars, [0,100]
}

// KPI head order. The model's output heads, the denormalization multipliers
// in the artifact manifest, and KPIRecord fields all follow this order.
const (
	KPIOnTimeDelivery = iota
	KPIDaysSalesOutstanding
	KPIOrderAccuracy
	KPIInvoiceAccuracy
	KPIAvgCostDelivery
	NumKPIs
)

// KPINames maps head index to the canonical KPI name used in artifacts and
// training data columns.
var KPINames = [NumKPIs]string{
	"on_time_delivery",
	"days_sales_outstanding",
	"order_accuracy",
	"invoice_accuracy",
	"avg_cost_delivery",
}

// FromHeads builds a KPIRecord from denormalized head outputs in head order.
func FromHeads(values [NumKPIs]float64) KPIRecord {
	return KPIRecord{
		OnTimeDelivery:       values[KPIOnTimeDelivery],
		DaysSalesOutstanding: values[KPIDaysSalesOutstanding],
		OrderAccuracy:        values[KPIOrderAccuracy],
		InvoiceAccuracy:      values[KPIInvoiceAccuracy],
		AvgCostDelivery:      values[KPIAvgCostDelivery],
	}
}

// Heads returns the record's values in head order.
func (r KPIRecord) Heads() [NumKPIs]float64 {
	return [NumKPIs]float64{
		r.OnTimeDelivery,
		r.DaysSalesOutstanding,
		r.OrderAccuracy,
		r.InvoiceAccuracy,
		r.AvgCostDelivery,
	}
}

// PredictionSource distinguishes how a SimulationResult was produced.
type PredictionSource string

const (
	// SourceModel marks a live regression-model prediction.
	SourceModel PredictionSource = "model"
	// SourceBaseline marks a short circuit: the input was the canonical
	// baseline process, so the precomputed baseline record is returned.
	SourceBaseline PredictionSource = "baseline"
	// SourceDegraded marks a baseline-only response produced because no
	// model is available in this runtime.
	SourceDegraded PredictionSource = "degraded"
)

// SimulationResult is the structured output record exposed to collaborators.
type SimulationResult struct {
	Predicted  KPIRecord        `json:"predicted"`
	Baseline   KPIRecord        `json:"baseline"`
	Source     PredictionSource `json:"source"`
	Confidence float64          `json:"confidence"`
	Summary    string           `json:"summary"`
	SessionID  string           `json:"sessionId"`
}

// IsBaseline reports whether the result is a baseline short circuit rather
// than a live prediction.
func (r SimulationResult) IsBaseline() bool {
	return r.Source != SourceModel
}
