package store

import (
	"context"
	"database/sql"

	"github.com/erazemk/servis/internal/model"
)

const partColumns = `id, part_number, name, supplier, cost, profit, price, qty, booked, created_at`

// CreatePart adds a part to the ledger. Values are stored as given; negative
// prices or quantities are accepted.
func CreatePart(ctx context.Context, db *sql.DB, in model.PartInput) (*model.Part, error) {
	var booked sql.NullString
	if in.Booked != "" {
		booked = sql.NullString{String: in.Booked, Valid: true}
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO parts (part_number, name, supplier, cost, profit, price, qty, booked)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		in.PartNumber, in.Name, in.Supplier, in.Cost, in.Profit, in.Price, in.Qty, booked,
	)
	if err != nil {
		return nil, &model.PersistenceError{Op: "creating part", Err: err}
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, &model.PersistenceError{Op: "getting part id", Err: err}
	}

	return GetPart(ctx, db, id)
}

// GetPart returns a part by ID, or nil if it does not exist.
func GetPart(ctx context.Context, db *sql.DB, id int64) (*model.Part, error) {
	row := db.QueryRowContext(ctx, `SELECT `+partColumns+` FROM parts WHERE id = ?`, id)
	p, err := scanPart(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, &model.PersistenceError{Op: "getting part", Err: err}
	}
	return p, nil
}

// ListParts returns every part in the ledger. Callers must not depend on the
// order.
func ListParts(ctx context.Context, db *sql.DB) ([]model.Part, error) {
	rows, err := db.QueryContext(ctx, `SELECT `+partColumns+` FROM parts ORDER BY id`)
	if err != nil {
		return nil, &model.PersistenceError{Op: "listing parts", Err: err}
	}
	defer rows.Close()

	var parts []model.Part
	for rows.Next() {
		p, err := scanPart(rows)
		if err != nil {
			return nil, &model.PersistenceError{Op: "scanning part", Err: err}
		}
		parts = append(parts, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, &model.PersistenceError{Op: "listing parts", Err: err}
	}
	return parts, nil
}

// DeletePart removes a part. Removing an id that does not exist succeeds.
func DeletePart(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx, `DELETE FROM parts WHERE id = ?`, id)
	if err != nil {
		return &model.PersistenceError{Op: "deleting part", Err: err}
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPart(s scanner) (*model.Part, error) {
	p := &model.Part{}
	var booked sql.NullString
	err := s.Scan(&p.ID, &p.PartNumber, &p.Name, &p.Supplier,
		&p.Cost, &p.Profit, &p.Price, &p.Qty, &booked, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	p.Booked = booked.String
	return p, nil
}
