package services

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/diewo77/go-profiles/gate"
	"github.com/diewo77/go-profiles/internal/config"
	"github.com/diewo77/go-profiles/internal/db"
	"github.com/diewo77/go-profiles/internal/events"
	"github.com/diewo77/go-profiles/internal/models"
	"github.com/diewo77/go-profiles/internal/observability"
	"github.com/diewo77/go-profiles/validation"
)

// setupTestDB creates a migrated and seeded SQLite database for one test.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := db.Open(config.DatabaseConfig{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "profiles.db")})
	require.NoError(t, err, "failed to create test database")
	require.NoError(t, db.Migrate(conn), "failed to migrate test database")
	require.NoError(t, db.Seed(conn), "failed to seed test database")
	require.NoError(t, db.ResetProfiles(conn, "Test"))
	return conn
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type recorder struct {
	names []string
}

func (r *recorder) Dispatch(_ context.Context, name string, _ *events.ProfileEvent) error {
	r.names = append(r.names, name)
	return nil
}

func newTestService(t *testing.T, opts ...Option) (*ProfileService, *gorm.DB) {
	t.Helper()
	conn := setupTestDB(t)
	opts = append([]Option{WithLogger(quietLogger())}, opts...)
	return NewProfileService(conn, opts...), conn
}

func createTestProfile(t *testing.T, s *ProfileService) *models.Profile {
	t.Helper()
	ev := &events.ProfileEvent{
		Code:         "Test",
		Locale:       "en_US",
		Title:        events.String("test profile"),
		Chapo:        events.String("test chapo"),
		Description:  events.String("test description"),
		Postscriptum: events.String("test postscriptum"),
	}
	require.NoError(t, s.Create(context.Background(), ev))
	require.NotNil(t, ev.Profile)
	return ev.Profile
}

func TestProfileService_Create(t *testing.T) {
	rec := &recorder{}
	s, _ := newTestService(t, WithDispatcher(rec))

	created := createTestProfile(t, s)

	assert.NotZero(t, created.ID)
	assert.Equal(t, "Test", created.Code)
	tr := created.Translation("en_US")
	assert.Equal(t, "test profile", tr.Title)
	assert.Equal(t, "test chapo", tr.Chapo)
	assert.Equal(t, "test description", tr.Description)
	assert.Equal(t, "test postscriptum", tr.Postscriptum)
	assert.Equal(t, []string{events.ProfileCreated}, rec.names)

	stored, err := s.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "test profile", stored.Translation("en_US").Title)
}

func TestProfileService_Create_NormalizesLocale(t *testing.T) {
	s, _ := newTestService(t)
	ev := &events.ProfileEvent{Code: "Test", Locale: "fr-fr", Title: events.String("profil")}
	require.NoError(t, s.Create(context.Background(), ev))

	assert.Equal(t, "fr_FR", ev.Locale)
	assert.Equal(t, "profil", ev.Profile.Translation("fr_FR").Title)
}

func TestProfileService_Create_DefaultLocale(t *testing.T) {
	s, _ := newTestService(t, WithDefaultLocale("de_DE"))
	ev := &events.ProfileEvent{Code: "Test", Title: events.String("Profil")}
	require.NoError(t, s.Create(context.Background(), ev))

	assert.Equal(t, "de_DE", ev.Locale)
	assert.Equal(t, "Profil", ev.Profile.Translation("de_DE").Title)
}

func TestProfileService_Create_Duplicate(t *testing.T) {
	rec := &recorder{}
	s, _ := newTestService(t, WithDispatcher(rec))
	createTestProfile(t, s)

	ev := &events.ProfileEvent{Code: "Test", Locale: "en_US", Title: events.String("again")}
	err := s.Create(context.Background(), ev)
	assert.ErrorIs(t, err, ErrDuplicateCode)
	assert.Nil(t, ev.Profile)
	assert.Equal(t, []string{events.ProfileCreated}, rec.names)
}

func TestProfileService_Create_Validation(t *testing.T) {
	s, _ := newTestService(t)

	tests := []struct {
		name  string
		ev    events.ProfileEvent
		field string
	}{
		{"missing code", events.ProfileEvent{Locale: "en_US", Title: events.String("t")}, "code"},
		{"missing title", events.ProfileEvent{Code: "Test", Locale: "en_US"}, "title"},
		{"blank title", events.ProfileEvent{Code: "Test", Locale: "en_US", Title: events.String("  ")}, "title"},
		{"bad locale", events.ProfileEvent{Code: "Test", Locale: "!!", Title: events.String("t")}, "locale"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := tt.ev
			err := s.Create(context.Background(), &ev)
			require.Error(t, err)

			var verr *validation.Error
			require.True(t, errors.As(err, &verr), "expected validation error, got %v", err)
			assert.Contains(t, verr.Violations, tt.field)
		})
	}
}

func TestProfileService_Update(t *testing.T) {
	rec := &recorder{}
	s, _ := newTestService(t, WithDispatcher(rec))
	created := createTestProfile(t, s)

	ev := &events.ProfileEvent{
		ID:           created.ID,
		Locale:       "en_US",
		Title:        events.String("test update title"),
		Chapo:        events.String("test update chapo"),
		Description:  events.String("test update description"),
		Postscriptum: events.String("test update postscriptum"),
	}
	require.NoError(t, s.Update(context.Background(), ev))

	updated := ev.Profile
	require.NotNil(t, updated)
	assert.Equal(t, created.Code, updated.Code)
	tr := updated.Translation("en_US")
	assert.Equal(t, "test update title", tr.Title)
	assert.Equal(t, "test update chapo", tr.Chapo)
	assert.Equal(t, "test update description", tr.Description)
	assert.Equal(t, "test update postscriptum", tr.Postscriptum)
	assert.Equal(t, []string{events.ProfileCreated, events.ProfileUpdated}, rec.names)
}

func TestProfileService_Update_PartialAndCodeImmutable(t *testing.T) {
	s, _ := newTestService(t)
	created := createTestProfile(t, s)

	ev := &events.ProfileEvent{
		ID:     created.ID,
		Code:   "Renamed",
		Locale: "en_US",
		Chapo:  events.String("only chapo"),
	}
	require.NoError(t, s.Update(context.Background(), ev))

	assert.Equal(t, "Test", ev.Profile.Code)
	tr := ev.Profile.Translation("en_US")
	assert.Equal(t, "test profile", tr.Title)
	assert.Equal(t, "only chapo", tr.Chapo)
	assert.Equal(t, "test description", tr.Description)
	assert.Equal(t, "test postscriptum", tr.Postscriptum)
}

func TestProfileService_Update_NewLocale(t *testing.T) {
	s, _ := newTestService(t)
	created := createTestProfile(t, s)

	ev := &events.ProfileEvent{ID: created.ID, Locale: "fr_FR", Title: events.String("profil de test")}
	require.NoError(t, s.Update(context.Background(), ev))

	assert.Len(t, ev.Profile.Translations, 2)
	assert.Equal(t, "profil de test", ev.Profile.Translation("fr_FR").Title)
	assert.Equal(t, "test profile", ev.Profile.Translation("en_US").Title)
}

func TestProfileService_Update_NotFound(t *testing.T) {
	s, _ := newTestService(t)

	err := s.Update(context.Background(), &events.ProfileEvent{ID: 999, Title: events.String("x")})
	assert.ErrorIs(t, err, ErrNotFound)

	err = s.Update(context.Background(), &events.ProfileEvent{Title: events.String("x")})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProfileService_Update_BlankTitle(t *testing.T) {
	s, _ := newTestService(t)
	created := createTestProfile(t, s)

	err := s.Update(context.Background(), &events.ProfileEvent{ID: created.ID, Title: events.String("")})
	assert.ErrorIs(t, err, validation.ErrInvalid)
}

func TestProfileService_UpdateResourceAccess(t *testing.T) {
	rec := &recorder{}
	s, _ := newTestService(t, WithDispatcher(rec))
	created := createTestProfile(t, s)

	ev := &events.ProfileEvent{
		ID: created.ID,
		ResourceAccess: map[string][]gate.Action{
			"admin.address": {gate.ActionCreate},
		},
	}
	require.NoError(t, s.UpdateResourceAccess(context.Background(), ev))

	updated := ev.Profile
	require.NotNil(t, updated)
	require.Len(t, updated.Resources, 1)
	assert.Equal(t, []string{"admin.address"}, updated.ResourceCodes())

	access := updated.Resources[0].AccessManager()
	assert.True(t, access.Can(gate.ActionCreate))
	assert.False(t, access.Can(gate.ActionView))
	assert.Equal(t, events.ProfileResourceAccessUpdated, rec.names[len(rec.names)-1])
}

func TestProfileService_UpdateResourceAccess_Idempotent(t *testing.T) {
	s, conn := newTestService(t)
	created := createTestProfile(t, s)

	access := map[string][]gate.Action{"admin.address": {gate.ActionCreate}}
	for i := 0; i < 2; i++ {
		ev := &events.ProfileEvent{ID: created.ID, ResourceAccess: access}
		require.NoError(t, s.UpdateResourceAccess(context.Background(), ev))
		require.Len(t, ev.Profile.Resources, 1)
	}

	var count int64
	require.NoError(t, conn.Model(&models.ProfileResource{}).Where("profile_id = ?", created.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestProfileService_UpdateResourceAccess_Replace(t *testing.T) {
	s, _ := newTestService(t)
	created := createTestProfile(t, s)

	first := &events.ProfileEvent{ID: created.ID, ResourceAccess: map[string][]gate.Action{
		"admin.address": {gate.ActionCreate},
		"admin.order":   {gate.ActionView, gate.ActionUpdate},
	}}
	require.NoError(t, s.UpdateResourceAccess(context.Background(), first))
	require.Len(t, first.Profile.Resources, 2)

	second := &events.ProfileEvent{ID: created.ID, ResourceAccess: map[string][]gate.Action{
		"admin.order": {gate.ActionDelete},
	}}
	require.NoError(t, s.UpdateResourceAccess(context.Background(), second))
	require.Len(t, second.Profile.Resources, 1)

	order, ok := second.Profile.ResourceAccess("admin.order")
	require.True(t, ok)
	assert.Equal(t, []gate.Action{gate.ActionDelete}, order.Actions())
	_, ok = second.Profile.ResourceAccess("admin.address")
	assert.False(t, ok)
}

func TestProfileService_UpdateResourceAccess_Empty(t *testing.T) {
	s, _ := newTestService(t)
	created := createTestProfile(t, s)

	require.NoError(t, s.UpdateResourceAccess(context.Background(), &events.ProfileEvent{
		ID:             created.ID,
		ResourceAccess: map[string][]gate.Action{"admin.address": {gate.ActionCreate}},
	}))

	ev := &events.ProfileEvent{ID: created.ID, ResourceAccess: map[string][]gate.Action{}}
	require.NoError(t, s.UpdateResourceAccess(context.Background(), ev))
	assert.Empty(t, ev.Profile.Resources)
}

func TestProfileService_UpdateResourceAccess_UnknownResource(t *testing.T) {
	s, _ := newTestService(t)
	created := createTestProfile(t, s)

	require.NoError(t, s.UpdateResourceAccess(context.Background(), &events.ProfileEvent{
		ID:             created.ID,
		ResourceAccess: map[string][]gate.Action{"admin.address": {gate.ActionCreate}},
	}))

	err := s.UpdateResourceAccess(context.Background(), &events.ProfileEvent{
		ID:             created.ID,
		ResourceAccess: map[string][]gate.Action{"admin.nope": {gate.ActionView}},
	})
	var verr *validation.Error
	require.True(t, errors.As(err, &verr), "expected validation error, got %v", err)
	assert.Equal(t, "unknown", verr.Violations["resource_access.admin.nope"])

	// previous bindings survive the rejected update
	p, err := s.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"admin.address"}, p.ResourceCodes())
}

func TestProfileService_UpdateResourceAccess_NotFound(t *testing.T) {
	s, _ := newTestService(t)
	err := s.UpdateResourceAccess(context.Background(), &events.ProfileEvent{
		ID:             404,
		ResourceAccess: map[string][]gate.Action{"admin.address": {gate.ActionCreate}},
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProfileService_UpdateModuleAccess(t *testing.T) {
	s, _ := newTestService(t)
	created := createTestProfile(t, s)

	ev := &events.ProfileEvent{ID: created.ID, ModuleAccess: map[string][]gate.Action{
		"Carousel": {gate.ActionView, gate.ActionUpdate},
	}}
	require.NoError(t, s.UpdateModuleAccess(context.Background(), ev))

	require.Len(t, ev.Profile.Modules, 1)
	m, ok := ev.Profile.ModuleAccess("Carousel")
	require.True(t, ok)
	assert.True(t, m.Can(gate.ActionUpdate))
	assert.False(t, m.Can(gate.ActionDelete))

	err := s.UpdateModuleAccess(context.Background(), &events.ProfileEvent{ID: created.ID, ModuleAccess: map[string][]gate.Action{
		"Unknown": {gate.ActionView},
	}})
	assert.ErrorIs(t, err, validation.ErrInvalid)

	err = s.UpdateModuleAccess(context.Background(), &events.ProfileEvent{ID: 404})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProfileService_FindAndList(t *testing.T) {
	s, _ := newTestService(t)
	created := createTestProfile(t, s)

	found, err := s.FindByCode(context.Background(), "Test")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = s.FindByCode(context.Background(), "Missing")
	assert.ErrorIs(t, err, ErrNotFound)

	list, err := s.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Test", list[0].Code)
}

func TestProfileService_Metrics(t *testing.T) {
	m := observability.NewMetrics(nil)
	s, _ := newTestService(t, WithMetrics(m))
	createTestProfile(t, s)

	_ = s.Create(context.Background(), &events.ProfileEvent{Code: "Test", Locale: "en_US", Title: events.String("t")})
	_ = s.Update(context.Background(), &events.ProfileEvent{ID: 404, Title: events.String("t")})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ActionsTotal.WithLabelValues("create", observability.OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ActionsTotal.WithLabelValues("create", observability.OutcomeDuplicate)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ActionsTotal.WithLabelValues("update", observability.OutcomeNotFound)))
}

type failingDispatcher struct{}

func (failingDispatcher) Dispatch(context.Context, string, *events.ProfileEvent) error {
	return errors.New("broker down")
}

func TestProfileService_DispatchFailureDoesNotFailAction(t *testing.T) {
	s, _ := newTestService(t, WithDispatcher(failingDispatcher{}))
	created := createTestProfile(t, s)
	assert.NotZero(t, created.ID)
}

func TestProfileService_Update_Locale(t *testing.T) {
	s, _ := newTestService(t, WithDefaultLocale("fr-fr"))
	created := createTestProfile(t, s)

	ev := &events.ProfileEvent{ID: created.ID, Title: events.String("profil de test")}
	require.NoError(t, s.Update(context.Background(), ev))
	assert.Equal(t, "fr_FR", ev.Locale)
	assert.Equal(t, "profil de test", ev.Profile.Translation("fr_FR").Title)
	assert.Equal(t, "test profile", ev.Profile.Translation("en_US").Title)

	err := s.Update(context.Background(), &events.ProfileEvent{ID: created.ID, Locale: "!!", Title: events.String("x")})
	var verr *validation.Error
	require.True(t, errors.As(err, &verr), "expected validation error, got %v", err)
	assert.Equal(t, "locale", verr.Violations["locale"])
}

func TestProfileService_TitleTooLong(t *testing.T) {
	s, _ := newTestService(t)
	long := strings.Repeat("x", 256)

	err := s.Create(context.Background(), &events.ProfileEvent{Code: "Test", Locale: "en_US", Title: events.String(long)})
	var verr *validation.Error
	require.True(t, errors.As(err, &verr), "expected validation error, got %v", err)
	assert.Equal(t, "max", verr.Violations["title"])

	created := createTestProfile(t, s)
	err = s.Update(context.Background(), &events.ProfileEvent{ID: created.ID, Title: events.String(long)})
	require.True(t, errors.As(err, &verr), "expected validation error, got %v", err)
	assert.Equal(t, "max", verr.Violations["title"])

	p, err := s.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "test profile", p.Translation("en_US").Title)
}
