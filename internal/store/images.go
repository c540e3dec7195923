package store

import (
	"context"
	"database/sql"

	"github.com/erazemk/servis/internal/model"
)

// CreateServiceImages records one image per URL for a user/service pair in a
// single transaction. Every URL must be non-empty.
func CreateServiceImages(ctx context.Context, db *sql.DB, userID, serviceID string, urls []string) ([]model.ServiceImage, error) {
	if len(urls) == 0 {
		return nil, &model.ValidationError{Field: "imageUrl", Message: "at least one image required"}
	}
	for _, u := range urls {
		if u == "" {
			return nil, &model.ValidationError{Field: "imageUrl", Message: "required"}
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, &model.PersistenceError{Op: "beginning transaction", Err: err}
	}
	defer tx.Rollback()

	ids := make([]int64, 0, len(urls))
	for _, u := range urls {
		result, err := tx.ExecContext(ctx,
			`INSERT INTO service_images (user_id, service_id, image_url) VALUES (?, ?, ?)`,
			userID, serviceID, u,
		)
		if err != nil {
			return nil, &model.PersistenceError{Op: "creating service image", Err: err}
		}
		id, err := result.LastInsertId()
		if err != nil {
			return nil, &model.PersistenceError{Op: "getting service image id", Err: err}
		}
		ids = append(ids, id)
	}

	images := make([]model.ServiceImage, 0, len(ids))
	for _, id := range ids {
		var img model.ServiceImage
		err := tx.QueryRowContext(ctx,
			`SELECT id, user_id, service_id, image_url, uploaded_at FROM service_images WHERE id = ?`, id,
		).Scan(&img.ID, &img.UserID, &img.ServiceID, &img.ImageURL, &img.UploadedAt)
		if err != nil {
			return nil, &model.PersistenceError{Op: "reading service image", Err: err}
		}
		images = append(images, img)
	}

	if err := tx.Commit(); err != nil {
		return nil, &model.PersistenceError{Op: "committing service images", Err: err}
	}
	return images, nil
}

// ListServiceImages returns images newest first, filtered by whichever of
// userID and serviceID are non-empty.
func ListServiceImages(ctx context.Context, db *sql.DB, userID, serviceID string) ([]model.ServiceImage, error) {
	query := `SELECT id, user_id, service_id, image_url, uploaded_at FROM service_images WHERE 1 = 1`
	var args []any
	if userID != "" {
		query += ` AND user_id = ?`
		args = append(args, userID)
	}
	if serviceID != "" {
		query += ` AND service_id = ?`
		args = append(args, serviceID)
	}
	query += ` ORDER BY uploaded_at DESC, id DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &model.PersistenceError{Op: "listing service images", Err: err}
	}
	defer rows.Close()

	images := []model.ServiceImage{}
	for rows.Next() {
		var img model.ServiceImage
		if err := rows.Scan(&img.ID, &img.UserID, &img.ServiceID, &img.ImageURL, &img.UploadedAt); err != nil {
			return nil, &model.PersistenceError{Op: "scanning service image", Err: err}
		}
		images = append(images, img)
	}
	if err := rows.Err(); err != nil {
		return nil, &model.PersistenceError{Op: "listing service images", Err: err}
	}
	return images, nil
}
