package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/diewo77/go-profiles/gate"
	"github.com/diewo77/go-profiles/i18n"
	"github.com/diewo77/go-profiles/internal/events"
	"github.com/diewo77/go-profiles/internal/models"
	"github.com/diewo77/go-profiles/internal/observability"
	"github.com/diewo77/go-profiles/validation"
)

// ProfileService applies profile actions: creation, localized updates and
// replacement of resource and module access.
type ProfileService struct {
	db            *gorm.DB
	dispatcher    events.Dispatcher
	validator     *validation.Validator
	logger        logrus.FieldLogger
	metrics       *observability.Metrics
	defaultLocale string
}

// Option customizes a ProfileService.
type Option func(*ProfileService)

// WithDispatcher sets the dispatcher notified after each successful action.
func WithDispatcher(d events.Dispatcher) Option {
	return func(s *ProfileService) { s.dispatcher = d }
}

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *ProfileService) { s.logger = l }
}

// WithMetrics sets the action metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *ProfileService) { s.metrics = m }
}

// WithDefaultLocale sets the locale used when an event carries none.
func WithDefaultLocale(locale string) Option {
	return func(s *ProfileService) { s.defaultLocale = locale }
}

// NewProfileService creates a profile service over db.
func NewProfileService(db *gorm.DB, opts ...Option) *ProfileService {
	s := &ProfileService{
		db:            db,
		validator:     validation.New(),
		logger:        logrus.StandardLogger(),
		defaultLocale: i18n.DefaultLocale,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// maxTitleLength matches the size of the profile_i18n.title column.
const maxTitleLength = 255

type createInput struct {
	Code   string `json:"code" validate:"required,max=100"`
	Locale string `json:"locale" validate:"omitempty,locale"`
	Title  string `json:"title" validate:"required,max=255"`
}

// Create persists a new profile with the translation of ev.Locale and stores
// the result in ev.Profile.
func (s *ProfileService) Create(ctx context.Context, ev *events.ProfileEvent) (err error) {
	start := time.Now()
	defer func() { s.metrics.Observe("create", outcomeOf(err), start) }()

	in := createInput{
		Code:   strings.TrimSpace(ev.Code),
		Locale: strings.TrimSpace(ev.Locale),
		Title:  strings.TrimSpace(deref(ev.Title)),
	}
	if err := s.validator.Struct(in); err != nil {
		return err
	}
	locale, err := i18n.LocaleOrDefault(in.Locale, s.defaultLocale)
	if err != nil {
		return validation.Violations{"locale": "locale"}.Err()
	}

	profile := models.Profile{
		Code: in.Code,
		Translations: []models.ProfileI18n{{
			Locale:       locale,
			Title:        in.Title,
			Chapo:        deref(ev.Chapo),
			Description:  deref(ev.Description),
			Postscriptum: deref(ev.Postscriptum),
		}},
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Profile{}).Where("code = ?", in.Code).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateCode
		}
		if err := tx.Create(&profile).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateCode
			}
			return err
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("create profile %q: %w", in.Code, err)
	}

	return s.finish(ctx, events.ProfileCreated, ev, profile.ID, locale)
}

// Update overwrites the non-nil localized fields of ev.Locale on profile ev.ID.
// The code is never changed.
func (s *ProfileService) Update(ctx context.Context, ev *events.ProfileEvent) (err error) {
	start := time.Now()
	defer func() { s.metrics.Observe("update", outcomeOf(err), start) }()

	locale, err := i18n.LocaleOrDefault(ev.Locale, s.defaultLocale)
	if err != nil {
		return validation.Violations{"locale": "locale"}.Err()
	}
	v := validation.Violations{}
	if ev.Title != nil {
		validation.Required("title", *ev.Title, v)
		validation.MaxLength("title", strings.TrimSpace(*ev.Title), maxTitleLength, v)
	}
	if err := v.Err(); err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := mustExist(tx, ev.ID); err != nil {
			return err
		}
		var tr models.ProfileI18n
		err := tx.Where("profile_id = ? AND locale = ?", ev.ID, locale).First(&tr).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			tr = models.ProfileI18n{ProfileID: ev.ID, Locale: locale}
		case err != nil:
			return err
		}
		if ev.Title != nil {
			tr.Title = strings.TrimSpace(*ev.Title)
		}
		if ev.Chapo != nil {
			tr.Chapo = *ev.Chapo
		}
		if ev.Description != nil {
			tr.Description = *ev.Description
		}
		if ev.Postscriptum != nil {
			tr.Postscriptum = *ev.Postscriptum
		}
		if err := tx.Save(&tr).Error; err != nil {
			return err
		}
		return touch(tx, ev.ID)
	})
	if err != nil {
		return fmt.Errorf("update profile %d: %w", ev.ID, err)
	}

	return s.finish(ctx, events.ProfileUpdated, ev, ev.ID, locale)
}

// UpdateResourceAccess replaces every resource binding of profile ev.ID with
// one binding per entry of ev.ResourceAccess. An empty map removes them all.
func (s *ProfileService) UpdateResourceAccess(ctx context.Context, ev *events.ProfileEvent) (err error) {
	start := time.Now()
	defer func() { s.metrics.Observe("update_resource_access", outcomeOf(err), start) }()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := mustExist(tx, ev.ID); err != nil {
			return err
		}
		ids, err := lookupCodes(tx, &models.Resource{}, "resource_access", ev.ResourceAccess)
		if err != nil {
			return err
		}
		if err := tx.Where("profile_id = ?", ev.ID).Delete(&models.ProfileResource{}).Error; err != nil {
			return err
		}
		bindings := make([]models.ProfileResource, 0, len(ids))
		for _, code := range sortedCodes(ev.ResourceAccess) {
			bindings = append(bindings, models.ProfileResource{
				ProfileID:  ev.ID,
				ResourceID: ids[code],
				Access:     gate.BuildAccess(ev.ResourceAccess[code]...),
			})
		}
		if len(bindings) > 0 {
			if err := tx.Omit("Resource").Create(&bindings).Error; err != nil {
				return err
			}
		}
		return touch(tx, ev.ID)
	})
	if err != nil {
		return fmt.Errorf("update resource access of profile %d: %w", ev.ID, err)
	}

	return s.finish(ctx, events.ProfileResourceAccessUpdated, ev, ev.ID, "")
}

// UpdateModuleAccess replaces every module binding of profile ev.ID with one
// binding per entry of ev.ModuleAccess.
func (s *ProfileService) UpdateModuleAccess(ctx context.Context, ev *events.ProfileEvent) (err error) {
	start := time.Now()
	defer func() { s.metrics.Observe("update_module_access", outcomeOf(err), start) }()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := mustExist(tx, ev.ID); err != nil {
			return err
		}
		ids, err := lookupCodes(tx, &models.Module{}, "module_access", ev.ModuleAccess)
		if err != nil {
			return err
		}
		if err := tx.Where("profile_id = ?", ev.ID).Delete(&models.ProfileModule{}).Error; err != nil {
			return err
		}
		bindings := make([]models.ProfileModule, 0, len(ids))
		for _, code := range sortedCodes(ev.ModuleAccess) {
			bindings = append(bindings, models.ProfileModule{
				ProfileID: ev.ID,
				ModuleID:  ids[code],
				Access:    gate.BuildAccess(ev.ModuleAccess[code]...),
			})
		}
		if len(bindings) > 0 {
			if err := tx.Omit("Module").Create(&bindings).Error; err != nil {
				return err
			}
		}
		return touch(tx, ev.ID)
	})
	if err != nil {
		return fmt.Errorf("update module access of profile %d: %w", ev.ID, err)
	}

	return s.finish(ctx, events.ProfileModuleAccessUpdated, ev, ev.ID, "")
}

// Get returns a profile with translations and bindings loaded.
func (s *ProfileService) Get(ctx context.Context, id uint) (*models.Profile, error) {
	return load(s.db.WithContext(ctx), "id = ?", id)
}

// FindByCode returns the profile identified by code.
func (s *ProfileService) FindByCode(ctx context.Context, code string) (*models.Profile, error) {
	return load(s.db.WithContext(ctx), "code = ?", strings.TrimSpace(code))
}

// List returns every profile ordered by code.
func (s *ProfileService) List(ctx context.Context) ([]models.Profile, error) {
	var profiles []models.Profile
	err := preloadAll(s.db.WithContext(ctx)).Order("code").Find(&profiles).Error
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

// finish reloads the profile into ev and notifies the dispatcher. Dispatch
// failures are logged: the change is already committed.
func (s *ProfileService) finish(ctx context.Context, name string, ev *events.ProfileEvent, id uint, locale string) error {
	profile, err := s.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("reload profile %d: %w", id, err)
	}
	ev.ID = profile.ID
	ev.Code = profile.Code
	if locale != "" {
		ev.Locale = locale
	}
	ev.Profile = profile

	log := s.logger.WithFields(logrus.Fields{"event": name, "profile_id": profile.ID, "code": profile.Code})
	if s.dispatcher != nil {
		if err := s.dispatcher.Dispatch(ctx, name, ev); err != nil {
			log.WithError(err).Warn("dispatch profile event")
		}
	}
	log.Info("profile action applied")
	return nil
}

func mustExist(tx *gorm.DB, id uint) error {
	if id == 0 {
		return ErrNotFound
	}
	var count int64
	if err := tx.Model(&models.Profile{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}

func touch(tx *gorm.DB, id uint) error {
	return tx.Model(&models.Profile{}).Where("id = ?", id).Update("updated_at", time.Now()).Error
}

// lookupCodes maps every code of access to the id of a catalog row of model.
// Unknown codes are reported as violations of field.
func lookupCodes(tx *gorm.DB, model any, field string, access map[string][]gate.Action) (map[string]uint, error) {
	ids := make(map[string]uint, len(access))
	if len(access) == 0 {
		return ids, nil
	}
	codes := sortedCodes(access)
	var rows []struct {
		ID   uint
		Code string
	}
	if err := tx.Model(model).Select("id", "code").Where("code IN ?", codes).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		ids[r.Code] = r.ID
	}
	v := validation.Violations{}
	for _, code := range codes {
		if _, ok := ids[code]; !ok {
			v[field+"."+code] = "unknown"
		}
	}
	if err := v.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

func sortedCodes(access map[string][]gate.Action) []string {
	codes := make([]string, 0, len(access))
	for code := range access {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

func preloadAll(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Translations", func(db *gorm.DB) *gorm.DB { return db.Order("locale") }).
		Preload("Resources", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Resources.Resource").
		Preload("Modules", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Modules.Module")
}

func load(db *gorm.DB, query string, arg any) (*models.Profile, error) {
	var p models.Profile
	err := preloadAll(db).Where(query, arg).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
