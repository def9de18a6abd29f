package workers

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/metalbaza/metalbaza-backend/pkg/db/models"
	"github.com/metalbaza/metalbaza-backend/pkg/enums"
)

// WorkerView is the marketplace listing of a worker. Passport data and the
// phone number are admin-only and stripped for everyone else.
type WorkerView struct {
	ID              uuid.UUID        `json:"id"`
	FirstName       string           `json:"first_name"`
	LastName        string           `json:"last_name"`
	Specialization  *string          `json:"specialization,omitempty"`
	ExperienceYears *int             `json:"experience_years,omitempty"`
	HourlyRate      *decimal.Decimal `json:"hourly_rate,omitempty"`
	Address         *string          `json:"address,omitempty"`

	// Admin-only fields.
	Phone            string  `json:"phone,omitempty"`
	PassportSeries   *string `json:"passport_series,omitempty"`
	PassportNumber   *string `json:"passport_number,omitempty"`
	PassportIssuedBy *string `json:"passport_issued_by,omitempty"`
}

// CreateApplicationInput carries a client's hiring request.
type CreateApplicationInput struct {
	WorkerID uuid.UUID `json:"worker_id" validate:"required"`
	Message  *string   `json:"message,omitempty" validate:"omitempty,max=1000"`
}

// UpdateApplicationStatusInput carries the admin decision.
type UpdateApplicationStatusInput struct {
	Status string `json:"status" validate:"required,oneof=pending accepted rejected"`
}

// ApplicationView is the API shape of a hiring application.
type ApplicationView struct {
	ID        uuid.UUID               `json:"id"`
	ClientID  uuid.UUID               `json:"client_id"`
	WorkerID  uuid.UUID               `json:"worker_id"`
	Worker    *WorkerView             `json:"worker,omitempty"`
	Message   *string                 `json:"message,omitempty"`
	Status    enums.ApplicationStatus `json:"status"`
	CreatedAt time.Time               `json:"created_at"`
}

// WorkerViewFromModel maps a worker row to the API shape, redacting
// passport and contact data unless the caller is an admin.
func WorkerViewFromModel(user *models.User, isAdmin bool) WorkerView {
	view := WorkerView{
		ID:              user.ID,
		FirstName:       user.FirstName,
		LastName:        user.LastName,
		Specialization:  user.Specialization,
		ExperienceYears: user.ExperienceYears,
		HourlyRate:      user.HourlyRate,
		Address:         user.Address,
	}
	if isAdmin {
		view.Phone = user.Phone
		view.PassportSeries = user.PassportSeries
		view.PassportNumber = user.PassportNumber
		view.PassportIssuedBy = user.PassportIssuedBy
	}
	return view
}

// ApplicationViewFromModel maps an application row to the API shape.
func ApplicationViewFromModel(application *models.WorkerApplication, isAdmin bool) ApplicationView {
	view := ApplicationView{
		ID:        application.ID,
		ClientID:  application.ClientID,
		WorkerID:  application.WorkerID,
		Message:   application.Message,
		Status:    application.Status,
		CreatedAt: application.CreatedAt,
	}
	if application.Worker != nil {
		worker := WorkerViewFromModel(application.Worker, isAdmin)
		view.Worker = &worker
	}
	return view
}
