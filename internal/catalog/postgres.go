// internal/catalog/postgres.go
package catalog

import (
	"context"
	"database/sql"
	"fmt"
)

// LoadReferenceFromDB reads the reference tables from PostgreSQL. It is the
// preferred source when a database is configured; CSV files remain the
// fallback for standalone deployments.
func LoadReferenceFromDB(ctx context.Context, db *sql.DB) (*ReferenceTables, error) {
	users, err := queryUsers(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("loading users: %w", err)
	}
	items, err := queryItems(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("loading items: %w", err)
	}
	suppliers, err := querySuppliers(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("loading suppliers: %w", err)
	}
	return &ReferenceTables{Users: users, Items: items, Suppliers: suppliers}, nil
}

func queryUsers(ctx context.Context, db *sql.DB) ([]UserRef, error) {
	rows, err := db.QueryContext(ctx, `SELECT user_id, name, role FROM users ORDER BY user_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []UserRef
	for rows.Next() {
		var u UserRef
		var role sql.NullString
		if err := rows.Scan(&u.ID, &u.Name, &role); err != nil {
			return nil, err
		}
		u.Role = role.String
		users = append(users, u)
	}
	return users, rows.Err()
}

func queryItems(ctx context.Context, db *sql.DB) ([]ItemRef, error) {
	rows, err := db.QueryContext(ctx, `SELECT item_id, name, category, unit_price FROM items ORDER BY item_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []ItemRef
	for rows.Next() {
		var it ItemRef
		if err := rows.Scan(&it.ID, &it.Name, &it.Category, &it.UnitPrice); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func querySuppliers(ctx context.Context, db *sql.DB) ([]SupplierRef, error) {
	rows, err := db.QueryContext(ctx, `SELECT supplier_id, name, specialization FROM suppliers ORDER BY supplier_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var suppliers []SupplierRef
	for rows.Next() {
		var s SupplierRef
		var spec sql.NullString
		if err := rows.Scan(&s.ID, &s.Name, &spec); err != nil {
			return nil, err
		}
		s.Specialization = spec.String
		suppliers = append(suppliers, s)
	}
	return suppliers, rows.Err()
}
