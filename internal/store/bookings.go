package store

import (
	"context"
	"database/sql"
	"strings"

	"github.com/erazemk/servis/internal/model"
)

const bookingColumns = `id, car_make, car_model, car_year, car_registration,
	customer_name, customer_email, customer_phone, customer_postcode, customer_address,
	service_label, service_sub,
	labour_hours, labour_cost, parts_cost, subtotal, vat, total,
	date, time, category, created_at`

// Newest first. date is compared as a string, so only sortable formats such
// as ISO-8601 give chronological order.
const bookingOrder = ` ORDER BY date DESC, id DESC`

// CreateBooking stores a booking and its part lines in one transaction.
// Cost fields are written exactly as supplied.
func CreateBooking(ctx context.Context, db *sql.DB, b *model.Booking) (*model.Booking, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, &model.PersistenceError{Op: "beginning transaction", Err: err}
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`INSERT INTO bookings (car_make, car_model, car_year, car_registration, car_registration_fold,
		     customer_name, customer_email, customer_phone, customer_postcode, customer_address,
		     service_label, service_sub,
		     labour_hours, labour_cost, parts_cost, subtotal, vat, total,
		     date, time, category)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.Car.Make, b.Car.Model, b.Car.Year, b.Car.Registration, foldRegistration(b.Car.Registration),
		b.Customer.Name, b.Customer.Email, b.Customer.Phone, b.Customer.Postcode, b.Customer.Address,
		b.Service.Label, b.Service.Sub,
		b.LabourHours, b.LabourCost, b.PartsCost, b.Subtotal, b.VAT, b.Total,
		b.Date, b.Time, b.Category,
	)
	if err != nil {
		return nil, &model.PersistenceError{Op: "creating booking", Err: err}
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, &model.PersistenceError{Op: "getting booking id", Err: err}
	}

	for i, l := range b.Parts {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO booking_parts (booking_id, position, part_number, name, supplier, cost, profit, price, qty)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, i, l.PartNumber, l.Name, l.Supplier, l.Cost, l.Profit, l.Price, l.Qty,
		)
		if err != nil {
			return nil, &model.PersistenceError{Op: "creating booking part line", Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, &model.PersistenceError{Op: "committing booking", Err: err}
	}

	return GetBooking(ctx, db, id)
}

// GetBooking returns a booking with its part lines, or nil if it does not
// exist.
func GetBooking(ctx context.Context, db *sql.DB, id int64) (*model.Booking, error) {
	bookings, err := queryBookings(ctx, db, `SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(bookings) == 0 {
		return nil, nil
	}
	return &bookings[0], nil
}

// ListBookings returns all bookings, or only those whose registration
// matches f.Registration ignoring case. An empty registration means no
// filter. Results are ordered newest first by date.
func ListBookings(ctx context.Context, db *sql.DB, f model.BookingFilter) ([]model.Booking, error) {
	if f.Registration == "" {
		return queryBookings(ctx, db, `SELECT `+bookingColumns+` FROM bookings`+bookingOrder)
	}
	return FindBookingsByRegistration(ctx, db, f.Registration)
}

// FindBookingsByRegistration returns bookings whose registration equals
// registration ignoring case, Unicode included. The comparison is a bound
// equality on the folded copy, so characters such as '%', '_' or '.' only
// match themselves. Whitespace is not normalised. An empty registration
// returns every booking.
func FindBookingsByRegistration(ctx context.Context, db *sql.DB, registration string) ([]model.Booking, error) {
	if registration == "" {
		return ListBookings(ctx, db, model.BookingFilter{})
	}
	return queryBookings(ctx, db,
		`SELECT `+bookingColumns+` FROM bookings
		 WHERE car_registration_fold = ?`+bookingOrder,
		foldRegistration(registration),
	)
}

// foldRegistration maps every case variant of s to one string.
func foldRegistration(s string) string {
	return strings.ToLower(strings.ToUpper(s))
}

// queryBookings runs a booking query and attaches part lines. The booking
// rows are closed before the lines are loaded so a single connection is
// enough.
func queryBookings(ctx context.Context, db *sql.DB, query string, args ...any) ([]model.Booking, error) {
	bookings, err := scanBookings(ctx, db, query, args...)
	if err != nil {
		return nil, err
	}
	if len(bookings) == 0 {
		return []model.Booking{}, nil
	}

	ids := make([]any, len(bookings))
	index := make(map[int64]int, len(bookings))
	for i, b := range bookings {
		ids[i] = b.ID
		index[b.ID] = i
	}

	rows, err := db.QueryContext(ctx,
		`SELECT booking_id, part_number, name, supplier, cost, profit, price, qty
		 FROM booking_parts
		 WHERE booking_id IN (`+placeholders(len(ids))+`)
		 ORDER BY booking_id, position`, ids...,
	)
	if err != nil {
		return nil, &model.PersistenceError{Op: "listing booking part lines", Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		var bookingID int64
		var l model.BookingPartLine
		if err := rows.Scan(&bookingID, &l.PartNumber, &l.Name, &l.Supplier,
			&l.Cost, &l.Profit, &l.Price, &l.Qty); err != nil {
			return nil, &model.PersistenceError{Op: "scanning booking part line", Err: err}
		}
		i := index[bookingID]
		bookings[i].Parts = append(bookings[i].Parts, l)
	}
	if err := rows.Err(); err != nil {
		return nil, &model.PersistenceError{Op: "listing booking part lines", Err: err}
	}
	return bookings, nil
}

func scanBookings(ctx context.Context, db *sql.DB, query string, args ...any) ([]model.Booking, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &model.PersistenceError{Op: "listing bookings", Err: err}
	}
	defer rows.Close()

	var bookings []model.Booking
	for rows.Next() {
		var b model.Booking
		err := rows.Scan(&b.ID, &b.Car.Make, &b.Car.Model, &b.Car.Year, &b.Car.Registration,
			&b.Customer.Name, &b.Customer.Email, &b.Customer.Phone, &b.Customer.Postcode, &b.Customer.Address,
			&b.Service.Label, &b.Service.Sub,
			&b.LabourHours, &b.LabourCost, &b.PartsCost, &b.Subtotal, &b.VAT, &b.Total,
			&b.Date, &b.Time, &b.Category, &b.CreatedAt)
		if err != nil {
			return nil, &model.PersistenceError{Op: "scanning booking", Err: err}
		}
		b.Parts = []model.BookingPartLine{}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, &model.PersistenceError{Op: "listing bookings", Err: err}
	}
	return bookings, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
