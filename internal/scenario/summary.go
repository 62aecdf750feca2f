// internal/scenario/summary.go
package scenario

import (
	"fmt"
	"strings"

	"kpi-prediction-service/internal/models"
)

// Summarize renders a human-readable account of a scenario and its predicted
// KPIs. Built purely from structured data; no model internals leak through.
func (g *Generator) Summarize(sc *models.Scenario, predicted models.KPIRecord) string {
	var parts []string

	users := make([]string, 0, len(sc.UserIDs))
	for _, id := range sc.UserIDs {
		for i := range g.tables.Users {
			if g.tables.Users[i].ID == id {
				u := g.tables.Users[i]
				role := u.Role
				if role == "" {
					role = "Unknown"
				}
				users = append(users, fmt.Sprintf("%s (%s)", u.Name, role))
				break
			}
		}
	}
	parts = append(parts, fmt.Sprintf("Team members: %s.", strings.Join(users, ", ")))

	totalItems := 0
	for _, line := range sc.Items {
		totalItems += line.Quantity
	}
	itemStrs := make([]string, 0, 3)
	for _, line := range sc.Items[:min(3, len(sc.Items))] {
		// Display names come from the live tables; a cached scenario may
		// predate a reference reload.
		name := line.Name
		if ref := g.tables.ItemByID(line.ItemID); ref != nil {
			name = ref.Name
		}
		itemStrs = append(itemStrs, fmt.Sprintf("%dx %s", line.Quantity, name))
	}
	itemsDesc := strings.Join(itemStrs, ", ")
	if len(sc.Items) > 3 {
		itemsDesc += fmt.Sprintf(", and %d more items", len(sc.Items)-3)
	}
	parts = append(parts, fmt.Sprintf("Order contains %d items (%s) worth $%.2f.", totalItems, itemsDesc, sc.OrderValue))

	suppliers := make([]string, 0, 3)
	for _, id := range sc.SupplierIDs {
		if len(suppliers) == 3 {
			break
		}
		for i := range g.tables.Suppliers {
			if g.tables.Suppliers[i].ID == id {
				suppliers = append(suppliers, g.tables.Suppliers[i].Name)
				break
			}
		}
	}
	suppliersDesc := strings.Join(suppliers, ", ")
	if len(sc.SupplierIDs) > 3 {
		suppliersDesc += fmt.Sprintf(" and %d others", len(sc.SupplierIDs)-3)
	}
	parts = append(parts, fmt.Sprintf("Sourced from suppliers: %s.", suppliersDesc))

	parts = append(parts, fmt.Sprintf("Predicted performance: %.1f%% on-time delivery, %.0f days sales outstanding.",
		predicted.OnTimeDelivery, predicted.DaysSalesOutstanding))

	return strings.Join(parts, " ")
}
