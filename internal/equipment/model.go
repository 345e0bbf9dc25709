package equipment

import "time"

type Equipment struct {
	ID         int       `db:"id" json:"id"`
	DeviceType string    `db:"device_type" json:"device_type"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

type CreateEquipmentRequest struct {
	DeviceType string `json:"device_type" binding:"required"`
}
