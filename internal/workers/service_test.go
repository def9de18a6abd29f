package workers

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/metalbaza/metalbaza-backend/internal/users"
	"github.com/metalbaza/metalbaza-backend/pkg/db/models"
	"github.com/metalbaza/metalbaza-backend/pkg/enums"
	pkgerrors "github.com/metalbaza/metalbaza-backend/pkg/errors"
	"github.com/metalbaza/metalbaza-backend/pkg/logger"
)

func setupWorkersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, conn.AutoMigrate(
		&models.User{},
		&models.WorkerApplication{},
	))
	return conn
}

func newWorkersService(t *testing.T, conn *gorm.DB) Service {
	t.Helper()

	svc, err := NewService(NewRepository(conn), users.NewRepository(conn), nil, logger.NewNop())
	require.NoError(t, err)
	return svc
}

func seedUser(t *testing.T, conn *gorm.DB, role enums.UserRole) *models.User {
	t.Helper()

	passportSeries := "AA"
	user := &models.User{
		Phone:     "+99890" + uuid.NewString()[:7],
		FirstName: "Bobur",
		LastName:  "Karimov",
		Role:      role,
	}
	if role == enums.UserRoleWorker {
		spec := "payvandchi"
		user.Specialization = &spec
		user.PassportSeries = &passportSeries
	}
	require.NoError(t, conn.Create(user).Error)
	return user
}

func TestListWorkersRedactsForNonAdmin(t *testing.T) {
	conn := setupWorkersTestDB(t)
	svc := newWorkersService(t, conn)
	worker := seedUser(t, conn, enums.UserRoleWorker)
	seedUser(t, conn, enums.UserRoleClient)

	views, err := svc.ListWorkers(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, views, 1, "only worker accounts belong in the listing")
	assert.Equal(t, worker.ID, views[0].ID)
	assert.Empty(t, views[0].Phone)
	assert.Nil(t, views[0].PassportSeries)

	adminViews, err := svc.ListWorkers(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, adminViews, 1)
	assert.Equal(t, worker.Phone, adminViews[0].Phone)
	assert.NotNil(t, adminViews[0].PassportSeries)
}

func TestGetWorkerRejectsNonWorker(t *testing.T) {
	conn := setupWorkersTestDB(t)
	svc := newWorkersService(t, conn)
	client := seedUser(t, conn, enums.UserRoleClient)

	_, err := svc.GetWorker(context.Background(), client.ID, false)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestCreateApplicationRejectsSelfApply(t *testing.T) {
	conn := setupWorkersTestDB(t)
	svc := newWorkersService(t, conn)
	worker := seedUser(t, conn, enums.UserRoleWorker)

	_, err := svc.CreateApplication(context.Background(), worker.ID, CreateApplicationInput{WorkerID: worker.ID})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestCreateApplicationStartsPending(t *testing.T) {
	conn := setupWorkersTestDB(t)
	svc := newWorkersService(t, conn)
	client := seedUser(t, conn, enums.UserRoleClient)
	worker := seedUser(t, conn, enums.UserRoleWorker)

	view, err := svc.CreateApplication(context.Background(), client.ID, CreateApplicationInput{WorkerID: worker.ID})
	require.NoError(t, err)
	assert.Equal(t, enums.ApplicationStatusPending, view.Status)
	require.NotNil(t, view.Worker)
	assert.Empty(t, view.Worker.Phone, "client-facing view must not leak worker contact data")
}

func TestDecideApplicationByTargetedWorker(t *testing.T) {
	conn := setupWorkersTestDB(t)
	svc := newWorkersService(t, conn)
	client := seedUser(t, conn, enums.UserRoleClient)
	worker := seedUser(t, conn, enums.UserRoleWorker)

	created, err := svc.CreateApplication(context.Background(), client.ID, CreateApplicationInput{WorkerID: worker.ID})
	require.NoError(t, err)

	decided, err := svc.DecideApplication(context.Background(), worker.ID, created.ID, UpdateApplicationStatusInput{Status: "accepted"})
	require.NoError(t, err)
	assert.Equal(t, enums.ApplicationStatusAccepted, decided.Status)

	// A second decision hits the already-decided guard.
	_, err = svc.DecideApplication(context.Background(), worker.ID, created.ID, UpdateApplicationStatusInput{Status: "rejected"})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
}

func TestDecideApplicationForeignWorkerPresentsNotFound(t *testing.T) {
	conn := setupWorkersTestDB(t)
	svc := newWorkersService(t, conn)
	client := seedUser(t, conn, enums.UserRoleClient)
	worker := seedUser(t, conn, enums.UserRoleWorker)
	other := seedUser(t, conn, enums.UserRoleWorker)

	created, err := svc.CreateApplication(context.Background(), client.ID, CreateApplicationInput{WorkerID: worker.ID})
	require.NoError(t, err)

	_, err = svc.DecideApplication(context.Background(), other.ID, created.ID, UpdateApplicationStatusInput{Status: "accepted"})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestListMyApplicationsSplitsBySide(t *testing.T) {
	conn := setupWorkersTestDB(t)
	svc := newWorkersService(t, conn)
	client := seedUser(t, conn, enums.UserRoleClient)
	worker := seedUser(t, conn, enums.UserRoleWorker)

	_, err := svc.CreateApplication(context.Background(), client.ID, CreateApplicationInput{WorkerID: worker.ID})
	require.NoError(t, err)

	asClient, err := svc.ListMyApplications(context.Background(), client.ID, enums.UserRoleClient)
	require.NoError(t, err)
	assert.Len(t, asClient, 1)

	asWorker, err := svc.ListMyApplications(context.Background(), worker.ID, enums.UserRoleWorker)
	require.NoError(t, err)
	assert.Len(t, asWorker, 1)

	asStranger, err := svc.ListMyApplications(context.Background(), uuid.New(), enums.UserRoleClient)
	require.NoError(t, err)
	assert.Empty(t, asStranger)
}
