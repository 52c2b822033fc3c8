package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/techagentng/mopcdash/config"
	"github.com/techagentng/mopcdash/db"
	errs "github.com/techagentng/mopcdash/errors"
	"github.com/techagentng/mopcdash/models"
)

type testEnv struct {
	gdb       *db.GormDB
	reports   ReportService
	pending   PendingReportService
	auth      AuthService
	dashboard DashboardService

	admin      *models.User
	supervisor *models.User
	tech       *models.User
	otherTech  *models.User
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	gdb, err := db.NewGormDB(conn, zap.NewNop())
	require.NoError(t, err)

	conf := &config.Config{JWTSecret: "test-secret"}
	reportRepo := db.NewReportRepo(gdb)
	pendingRepo := db.NewPendingReportRepo(gdb)
	userRepo := db.NewUserRepo(gdb)

	env := &testEnv{gdb: gdb}
	env.reports = NewReportService(reportRepo, conf)
	env.pending = NewPendingReportService(pendingRepo, env.reports, zap.NewNop())
	env.auth = NewAuthService(userRepo, reportRepo, pendingRepo, conf, zap.NewNop())
	env.dashboard = NewDashboardService(env.reports)

	mk := func(username string, role models.Role) *models.User {
		u := &models.User{Username: username, Name: username, Role: role, IsActive: true}
		require.NoError(t, u.SetPassword("clave123"))
		created, err := userRepo.CreateUser(context.Background(), u)
		require.NoError(t, err)
		return created
	}
	env.admin = mk("admin", models.RoleAdmin)
	env.supervisor = mk("supervisor", models.RoleSupervisor)
	env.tech = mk("jperez", models.RoleTecnico)
	env.otherTech = mk("mrosa", models.RoleTecnico)
	return env
}

func statusOf(err error) int {
	return errs.StatusOf(err)
}

func TestReportService_SaveAssignsIdentity(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	saved, err := env.reports.SaveReport(ctx, env.tech, &models.Report{
		Region:            "Región Cibao Norte",
		Province:          "Santiago",
		InterventionLabel: "Caminos: Bacheo",
		Metrics:           models.RoadMetrics{LengthM: 1500},
	})
	require.NoError(t, err)

	assert.Equal(t, "jperez", saved.CreatedBy)
	assert.Contains(t, saved.ID, models.StorageKeyPrefix)
	assert.Regexp(t, `^DCR-\d{4}-\d{6}$`, saved.ReportNumber)
	assert.Equal(t, models.StatusCompleted, saved.Status)
	assert.Equal(t, models.InterventionRoad, saved.InterventionType)
	assert.NotEmpty(t, saved.Date)
}

func TestReportService_DailyLimit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	limit := models.RoleConfigs[models.RoleTecnico].Limits.MaxReportsPerDay
	for i := 0; i < limit; i++ {
		_, err := env.reports.SaveReport(ctx, env.tech, &models.Report{Region: "Región Yuma"})
		require.NoError(t, err)
	}
	_, err := env.reports.SaveReport(ctx, env.tech, &models.Report{Region: "Región Yuma"})
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrDailyLimitReached))

	_, err = env.reports.SaveReport(ctx, env.otherTech, &models.Report{Region: "Región Yuma"})
	assert.NoError(t, err)
}

func TestReportService_Visibility(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	mine, err := env.reports.SaveReport(ctx, env.tech, &models.Report{Region: "Región Ozama", Municipality: "Boca Chica"})
	require.NoError(t, err)
	theirs, err := env.reports.SaveReport(ctx, env.otherTech, &models.Report{Region: "Región Ozama"})
	require.NoError(t, err)

	own, err := env.reports.GetReports(ctx, env.tech, models.ReportFilter{})
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, mine.ID, own[0].ID)

	all, err := env.reports.GetReports(ctx, env.supervisor, models.ReportFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	filtered, err := env.reports.GetReports(ctx, env.supervisor, models.ReportFilter{Query: "boca"})
	require.NoError(t, err)
	assert.Len(t, filtered, 1)

	_, err = env.reports.GetReportByID(ctx, env.tech, theirs.ID)
	assert.Equal(t, 403, statusOf(err))
	_, err = env.reports.GetReportByID(ctx, env.supervisor, theirs.ID)
	assert.NoError(t, err)
	_, err = env.reports.GetReportByID(ctx, env.supervisor, "intervencion_missing")
	assert.Equal(t, 404, statusOf(err))
}

func TestReportService_DeleteAndImages(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	r, err := env.reports.SaveReport(ctx, env.tech, &models.Report{Region: "Región Valdesia"})
	require.NoError(t, err)

	_, err = env.reports.AddImages(ctx, env.otherTech, r.ID, "https://x/1.jpg")
	assert.Equal(t, 403, statusOf(err))

	updated, err := env.reports.AddImages(ctx, env.tech, r.ID, "https://x/1.jpg")
	require.NoError(t, err)
	updated, err = env.reports.AddImages(ctx, env.supervisor, r.ID, "https://x/2.jpg")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://x/1.jpg", "https://x/2.jpg"}, updated.Images)

	assert.Equal(t, 403, statusOf(env.reports.DeleteReport(ctx, env.tech, r.ID)))
	require.NoError(t, env.reports.DeleteReport(ctx, env.supervisor, r.ID))
	assert.Equal(t, 404, statusOf(env.reports.DeleteReport(ctx, env.supervisor, r.ID)))
}

func TestReportService_Statistics(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.reports.SaveReport(ctx, env.tech, &models.Report{Region: "Región Ozama", Status: models.StatusPending})
	require.NoError(t, err)
	_, err = env.reports.SaveReport(ctx, env.otherTech, &models.Report{Region: "Región Ozama", Metrics: models.CanalMetrics{LengthCleanedM: 2000}, InterventionType: models.InterventionCanal})
	require.NoError(t, err)

	stats, err := env.reports.GetStatistics(ctx, env.admin)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.PorRegion["Región Ozama"].Pendientes)
	assert.InDelta(t, 2.0, stats.PorRegion["Región Ozama"].TotalKm, 1e-9)

	own, err := env.reports.GetStatistics(ctx, env.tech)
	require.NoError(t, err)
	assert.Equal(t, 1, own.Total)
}

func TestDashboardService(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for _, r := range []models.Report{
		{Region: "Región Cibao Norte", Province: "Santiago", District: "Tamboril", Sector: "Canca", Date: "2024-01-02", Metrics: models.RoadMetrics{LengthM: 1000}, InterventionType: models.InterventionRoad},
		{Region: "Región Cibao Norte", Province: "Santiago", District: "Tamboril", Date: "2024-03-02", Metrics: models.RoadMetrics{LengthM: 3000}, InterventionType: models.InterventionRoad},
		{Region: "cibao norte", Province: "Puerto Plata", Municipality: "Sosúa"},
	} {
		r := r
		_, err := env.reports.SaveReport(ctx, env.supervisor, &r)
		require.NoError(t, err)
	}

	regions, err := env.dashboard.Regions(ctx, env.admin, models.ByCount)
	require.NoError(t, err)
	require.Len(t, regions.Nodes, len(models.DefaultRegions))
	assert.Equal(t, 3.0, regions.Max)
	assert.Equal(t, 3, regions.ReportCount)

	provinces, err := env.dashboard.Provinces(ctx, env.admin, "Región Cibao Norte", models.ByKilometers)
	require.NoError(t, err)
	require.Len(t, provinces.Nodes, 2)
	assert.Equal(t, "Santiago", provinces.Nodes[0].Name)

	districts, err := env.dashboard.Districts(ctx, env.admin, "cibao norte", "Santiago", models.ByKilometers)
	require.NoError(t, err)
	assert.Equal(t, []string{"Región Cibao Norte", "Santiago"}, districts.Path)
	require.Len(t, districts.Nodes, 1)
	assert.InDelta(t, 4.0, districts.Nodes[0].TotalKilometers, 1e-9)

	district, err := env.dashboard.District(ctx, env.admin, "Región Cibao Norte", "Santiago", "Tamboril", models.ByKilometers)
	require.NoError(t, err)
	require.Len(t, district.Sectors, 2)
	assert.Equal(t, models.NoSector, district.Sectors[0].Name)
	require.Len(t, district.Reports, 2)
	assert.Equal(t, "2024-03-02", district.Reports[0].Date)

	_, err = env.dashboard.Provinces(ctx, env.admin, "Atlántida", models.ByCount)
	assert.Equal(t, 404, statusOf(err))
	_, err = env.dashboard.District(ctx, env.admin, "Región Cibao Norte", "Santiago", "Licey", models.ByCount)
	assert.Equal(t, 404, statusOf(err))

	markers, err := env.dashboard.Markers(ctx, env.admin, models.ReportFilter{})
	require.NoError(t, err)
	assert.Len(t, markers, 3)

	techView, err := env.dashboard.Regions(ctx, env.tech, models.ByCount)
	require.NoError(t, err)
	assert.Zero(t, techView.ReportCount)
}

func TestPendingReportService(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	draft, err := env.pending.SavePendingReport(ctx, env.tech, &models.SavePendingReportRequest{
		Region:           "Región Enriquillo",
		Province:         "Barahona",
		InterventionType: "Canales: Limpieza",
		Progress:         60,
		FormData: map[string]interface{}{
			"municipio":  "Barahona",
			"metricData": map[string]string{"longitud_limpiada": "800"},
		},
	})
	require.NoError(t, err)
	assert.Regexp(t, `^DCR-\d{4}-\d{6}$`, draft.ReportNumber)

	_, err = env.pending.SavePendingReport(ctx, env.otherTech, &models.SavePendingReportRequest{ID: draft.ID})
	assert.Equal(t, 403, statusOf(err))

	count, err := env.pending.GetPendingCount(ctx, env.tech)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	count, err = env.pending.GetPendingCount(ctx, env.otherTech)
	require.NoError(t, err)
	assert.Zero(t, count)

	assert.Equal(t, 403, statusOf(env.pending.DeletePendingReport(ctx, env.otherTech, draft.ID)))

	report, err := env.pending.ContinuePendingReport(ctx, env.tech, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, draft.ReportNumber, report.ReportNumber)
	assert.Equal(t, "Barahona", report.Province)
	assert.Equal(t, "Barahona", report.Municipality)
	assert.Equal(t, models.InterventionCanal, report.InterventionType)
	m, ok := report.Metrics.LengthMeters()
	assert.True(t, ok)
	assert.Equal(t, 800.0, m)

	count, err = env.pending.GetPendingCount(ctx, env.admin)
	require.NoError(t, err)
	assert.Zero(t, count)

	_, err = env.pending.ContinuePendingReport(ctx, env.tech, draft.ID)
	assert.Equal(t, 404, statusOf(err))
}

func TestAuthService(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	resp, apiErr := env.auth.LoginUser(ctx, &models.LoginRequest{Username: "jperez", Password: "clave123"})
	require.Nil(t, apiErr)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, models.RoleTecnico, resp.Role)
	assert.Equal(t, 20, resp.Limits.MaxReportsPerDay)
	require.NotNil(t, resp.LastSeen)
	stored, err := db.NewUserRepo(env.gdb).GetUserByID(ctx, env.tech.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.LastSeen)
	assert.WithinDuration(t, time.Now(), *stored.LastSeen, time.Minute)
	assert.Equal(t, env.tech.HashedPassword, stored.HashedPassword)

	_, apiErr = env.auth.LoginUser(ctx, &models.LoginRequest{Username: "jperez", Password: "wrong123"})
	require.NotNil(t, apiErr)
	assert.Equal(t, 401, apiErr.Status)
	_, apiErr = env.auth.LoginUser(ctx, &models.LoginRequest{Username: "nadie", Password: "clave123"})
	require.NotNil(t, apiErr)

	_, err = env.auth.CreateUser(ctx, env.supervisor, &models.CreateUserRequest{Username: "boss", Name: "Boss", Role: models.RoleAdmin, Password: "clave123"})
	assert.Equal(t, 403, statusOf(err))
	created, err := env.auth.CreateUser(ctx, env.supervisor, &models.CreateUserRequest{Username: "nuevo", Name: "Nuevo", Role: models.RoleTecnico, Password: "clave123"})
	require.NoError(t, err)
	_, err = env.auth.CreateUser(ctx, env.admin, &models.CreateUserRequest{Username: "nuevo", Name: "Otro", Role: models.RoleTecnico, Password: "clave123"})
	assert.Equal(t, 409, statusOf(err))
	_, err = env.auth.CreateUser(ctx, env.tech, &models.CreateUserRequest{Username: "x", Role: models.RoleTecnico, Password: "clave123"})
	assert.Equal(t, 403, statusOf(err))

	_, err = env.auth.UpdateUser(ctx, env.supervisor, env.admin.ID, &models.UpdateUserRequest{Name: "x"})
	assert.Equal(t, 403, statusOf(err))
	_, err = env.auth.UpdateUser(ctx, env.supervisor, created.ID, &models.UpdateUserRequest{Role: models.RoleAdmin})
	assert.Equal(t, 403, statusOf(err))
	inactive := false
	updated, err := env.auth.UpdateUser(ctx, env.supervisor, created.ID, &models.UpdateUserRequest{Department: "Drenaje", IsActive: &inactive})
	require.NoError(t, err)
	assert.Equal(t, "Drenaje", updated.Department)
	assert.False(t, updated.IsActive)

	_, apiErr = env.auth.LoginUser(ctx, &models.LoginRequest{Username: "nuevo", Password: "clave123"})
	require.NotNil(t, apiErr)

	_, err = env.pending.SavePendingReport(ctx, env.tech, &models.SavePendingReportRequest{})
	require.NoError(t, err)
	users, err := env.auth.GetAllUsers(ctx, env.admin)
	require.NoError(t, err)
	require.Len(t, users, 5)
	for _, u := range users {
		if u.Username == "jperez" {
			assert.Equal(t, 1, u.PendingReportCount)
		}
	}
	_, err = env.auth.GetAllUsers(ctx, env.tech)
	assert.Equal(t, 403, statusOf(err))

	assert.Equal(t, 403, statusOf(env.auth.DeleteUser(ctx, env.supervisor, created.ID)))
	assert.Equal(t, 400, statusOf(env.auth.DeleteUser(ctx, env.admin, env.admin.ID)))
	require.NoError(t, env.auth.DeleteUser(ctx, env.admin, created.ID))
	assert.Equal(t, 404, statusOf(env.auth.DeleteUser(ctx, env.admin, created.ID)))
}
