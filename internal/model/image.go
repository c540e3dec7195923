package model

import "time"

// ServiceImage links a stored image to a user/service pair. The ids are
// opaque and not checked against any other table.
type ServiceImage struct {
	ID         int64     `json:"id"`
	UserID     string    `json:"userId"`
	ServiceID  string    `json:"serviceId"`
	ImageURL   string    `json:"imageUrl"`
	UploadedAt time.Time `json:"uploadedAt"`
}
