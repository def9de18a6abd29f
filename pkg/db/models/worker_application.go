package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/metalbaza/metalbaza-backend/pkg/enums"
)

// WorkerApplication records a client's request to hire a worker.
type WorkerApplication struct {
	ID        uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ClientID  uuid.UUID               `gorm:"column:client_id;type:uuid;not null;index"`
	WorkerID  uuid.UUID               `gorm:"column:worker_id;type:uuid;not null;index"`
	Client    *User                   `gorm:"foreignKey:ClientID"`
	Worker    *User                   `gorm:"foreignKey:WorkerID"`
	Message   *string                 `gorm:"column:message"`
	Status    enums.ApplicationStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	CreatedAt time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}

func (w *WorkerApplication) BeforeCreate(*gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}
