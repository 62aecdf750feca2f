// internal/catalog/reference.go
package catalog

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	apperrors "kpi-prediction-service/internal/common/errors"
	"kpi-prediction-service/internal/common/logger"
)

// ==========================
// Reference table records
// ==========================

// UserRef is one row of the users reference table.
type UserRef struct {
	ID   string
	Name string
	Role string
}

// ItemRef is one row of the items reference table.
type ItemRef struct {
	ID        string
	Name      string
	Category  string
	UnitPrice float64
}

// SupplierRef is one row of the suppliers reference table.
type SupplierRef struct {
	ID             string
	Name           string
	Specialization string
}

// ReferenceTables bundles the three entity tables scenarios draw from.
// Synthetic is true when the tables were generated instead of loaded.
type ReferenceTables struct {
	Users     []UserRef
	Items     []ItemRef
	Suppliers []SupplierRef
	Synthetic bool
}

// EntityNumber extracts the 1-based number from a formatted entity ID such
// as "U003" or "S016". Returns 0 when the ID has no numeric suffix.
func EntityNumber(id string) int {
	i := 0
	for i < len(id) && (id[i] < '0' || id[i] > '9') {
		i++
	}
	n, err := strconv.Atoi(id[i:])
	if err != nil {
		return 0
	}
	return n
}

// ItemByID returns the item with the given ID, or nil.
func (rt *ReferenceTables) ItemByID(id string) *ItemRef {
	for i := range rt.Items {
		if rt.Items[i].ID == id {
			return &rt.Items[i]
		}
	}
	return nil
}

// ==========================
// CSV loading
// ==========================

// Loader reads the reference tables from CSV files in a data directory,
// falling back to synthetic tables when the files are missing or malformed.
type Loader struct {
	logger logger.Logger
}

// NewLoader creates a reference table loader.
func NewLoader(log logger.Logger) *Loader {
	return &Loader{logger: log}
}

// Load reads users.csv, items.csv and suppliers.csv from dataDir. Any table
// that cannot be read is replaced by its synthetic counterpart; a fully
// synthetic result is flagged so callers can surface degraded provenance.
func (l *Loader) Load(dataDir string) *ReferenceTables {
	rt := &ReferenceTables{}
	missing := 0

	users, err := l.loadUsers(filepath.Join(dataDir, "users.csv"))
	if err != nil {
		l.logger.Warn("Users reference table unavailable, using synthetic", map[string]interface{}{
			"error": err.Error(),
		})
		users = SyntheticUsers()
		missing++
	}
	rt.Users = users

	items, err := l.loadItems(filepath.Join(dataDir, "items.csv"))
	if err != nil {
		l.logger.Warn("Items reference table unavailable, using synthetic", map[string]interface{}{
			"error": err.Error(),
		})
		items = SyntheticItems()
		missing++
	}
	rt.Items = items

	suppliers, err := l.loadSuppliers(filepath.Join(dataDir, "suppliers.csv"))
	if err != nil {
		l.logger.Warn("Suppliers reference table unavailable, using synthetic", map[string]interface{}{
			"error": err.Error(),
		})
		suppliers = SyntheticSuppliers()
		missing++
	}
	rt.Suppliers = suppliers

	rt.Synthetic = missing == 3
	return rt
}

func (l *Loader) loadUsers(path string) ([]UserRef, error) {
	rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	users := make([]UserRef, 0, len(rows))
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		u := UserRef{ID: strings.TrimSpace(row[0]), Name: strings.TrimSpace(row[1])}
		if len(row) > 2 {
			u.Role = strings.TrimSpace(row[2])
		}
		users = append(users, u)
	}
	if len(users) == 0 {
		return nil, apperrors.NewReferenceDataUnavailableError("users", fmt.Errorf("no rows in %s", path))
	}
	return users, nil
}

func (l *Loader) loadItems(path string) ([]ItemRef, error) {
	rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	items := make([]ItemRef, 0, len(rows))
	for _, row := range rows {
		if len(row) < 4 {
			continue
		}
		price, err := strconv.ParseFloat(strings.TrimSpace(row[3]), 64)
		if err != nil {
			continue
		}
		items = append(items, ItemRef{
			ID:        strings.TrimSpace(row[0]),
			Name:      strings.TrimSpace(row[1]),
			Category:  strings.TrimSpace(row[2]),
			UnitPrice: price,
		})
	}
	if len(items) == 0 {
		return nil, apperrors.NewReferenceDataUnavailableError("items", fmt.Errorf("no rows in %s", path))
	}
	return items, nil
}

func (l *Loader) loadSuppliers(path string) ([]SupplierRef, error) {
	rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	suppliers := make([]SupplierRef, 0, len(rows))
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		s := SupplierRef{ID: strings.TrimSpace(row[0]), Name: strings.TrimSpace(row[1])}
		if len(row) > 2 {
			s.Specialization = strings.TrimSpace(row[2])
		}
		suppliers = append(suppliers, s)
	}
	if len(suppliers) == 0 {
		return nil, apperrors.NewReferenceDataUnavailableError("suppliers", fmt.Errorf("no rows in %s", path))
	}
	return suppliers, nil
}

// readCSV reads all records from a CSV file, skipping the header row.
func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(records) <= 1 {
		return nil, fmt.Errorf("%s has no data rows", path)
	}
	return records[1:], nil
}

// ==========================
// Synthetic fallback tables
// ==========================

var syntheticRoles = []string{"Admin", "Sales", "Finance", "Warehouse", "Shipping", "Quality", "Support"}

var syntheticCategories = []string{"Electronics", "Office Supplies", "Furniture", "Others"}

// SyntheticUsers builds the deterministic 7-user fallback table.
func SyntheticUsers() []UserRef {
	users := make([]UserRef, NumUsers)
	for i := range users {
		users[i] = UserRef{
			ID:   fmt.Sprintf("U%03d", i+1),
			Name: fmt.Sprintf("User %d", i+1),
			Role: syntheticRoles[i%len(syntheticRoles)],
		}
	}
	return users
}

// SyntheticItems builds the deterministic 24-item fallback table: six items
// per category with prices spread over a fixed range.
func SyntheticItems() []ItemRef {
	items := make([]ItemRef, NumItems)
	for i := range items {
		category := syntheticCategories[i/(NumItems/len(syntheticCategories))]
		items[i] = ItemRef{
			ID:        fmt.Sprintf("I%03d", i+1),
			Name:      fmt.Sprintf("Item %d", i+1),
			Category:  category,
			UnitPrice: 10.0 + float64((i*37)%491),
		}
	}
	return items
}

// SyntheticSuppliers builds the deterministic 16-supplier fallback table,
// four per category pool.
func SyntheticSuppliers() []SupplierRef {
	suppliers := make([]SupplierRef, NumSuppliers)
	for i := range suppliers {
		suppliers[i] = SupplierRef{
			ID:             fmt.Sprintf("S%03d", i+1),
			Name:           fmt.Sprintf("Supplier %d", i+1),
			Specialization: syntheticCategories[i/(NumSuppliers/len(syntheticCategories))],
		}
	}
	return suppliers
}
