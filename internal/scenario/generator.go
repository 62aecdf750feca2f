// internal/scenario/generator.go

// Package scenario assigns concrete users, items and suppliers to a process
// instance. Generation is fully deterministic: the same seed against the
// same reference tables reproduces the same assignment, which is what lets a
// session see stable entities across repeated simulations.
package scenario

import (
	"fmt"
	"hash/fnv"
	"math/rand"
	"sort"
	"strings"

	"kpi-prediction-service/internal/catalog"
	"kpi-prediction-service/internal/common/logger"
	"kpi-prediction-service/internal/models"
)

// Default entity counts per scenario.
const (
	DefaultUserCount = 3
	DefaultItemCount = 5
)

// Generator draws entity assignments from the loaded reference tables.
type Generator struct {
	tables *catalog.ReferenceTables
	logger logger.Logger
}

// NewGenerator creates a scenario generator over the given reference tables.
func NewGenerator(tables *catalog.ReferenceTables, log logger.Logger) *Generator {
	return &Generator{tables: tables, logger: log}
}

// Tables exposes the reference tables for summary building.
func (g *Generator) Tables() *catalog.ReferenceTables {
	return g.tables
}

// Generate builds a scenario for the given seed. numUsers and numItems
// default when non-positive and are clamped to the table sizes. Each call
// creates its own rand source, so concurrent calls never interleave draws.
func (g *Generator) Generate(seed int64, numUsers, numItems int) *models.Scenario {
	if numUsers <= 0 {
		numUsers = DefaultUserCount
	}
	if numItems <= 0 {
		numItems = DefaultItemCount
	}
	numUsers = min(numUsers, len(g.tables.Users))
	numItems = min(numItems, len(g.tables.Items))

	rng := rand.New(rand.NewSource(seed))

	userIDs := make([]string, 0, numUsers)
	for _, idx := range rng.Perm(len(g.tables.Users))[:numUsers] {
		userIDs = append(userIDs, g.tables.Users[idx].ID)
	}

	items := make([]models.ItemLine, 0, numItems)
	orderValue := 0.0
	supplierNums := make(map[int]bool)
	for _, idx := range rng.Perm(len(g.tables.Items))[:numItems] {
		ref := g.tables.Items[idx]

		// Quantity and supplier choice hang off the item identity, not the
		// rng stream, so adding an item never reshuffles the others.
		quantity := 3 + int(fnvHash(ref.ID)%3)
		line := models.ItemLine{
			ItemID:    ref.ID,
			Name:      ref.Name,
			Category:  ref.Category,
			Quantity:  quantity,
			UnitPrice: ref.UnitPrice,
			LineTotal: float64(quantity) * ref.UnitPrice,
		}
		orderValue += line.LineTotal
		items = append(items, line)

		pool := catalog.SupplierPoolFor(ref.Category)
		supplierNums[pool[fnvHash(ref.ID+ref.Category)%uint64(len(pool))]] = true
	}

	supplierIDs := make([]string, 0, len(supplierNums))
	for num := range supplierNums {
		supplierIDs = append(supplierIDs, formatSupplierID(num))
	}
	sort.Strings(supplierIDs)

	g.logger.Debug("Generated scenario", map[string]interface{}{
		"seed":      seed,
		"users":     len(userIDs),
		"items":     len(items),
		"suppliers": len(supplierIDs),
	})

	return &models.Scenario{
		Seed:        seed,
		UserIDs:     userIDs,
		Items:       items,
		SupplierIDs: supplierIDs,
		OrderValue:  orderValue,
	}
}

// ActivitySeed derives a fallback seed from the activity set for callers
// without a session. Sorted so activity order does not change the seed.
func ActivitySeed(activities []string) int64 {
	sorted := append([]string(nil), activities...)
	sort.Strings(sorted)
	return int64(fnvHash(strings.Join(sorted, "|")) % (1 << 31))
}

// fnvHash is FNV-1a over a string. Unlike a map-seed-dependent hash this is
// stable across processes, which the per-item determinism depends on.
func fnvHash(s string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return h.Sum64()
}

func formatSupplierID(num int) string {
	return fmt.Sprintf("S%03d", num)
}
