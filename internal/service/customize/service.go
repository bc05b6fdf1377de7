package customize

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"customize-api/internal/domain"
	"customize-api/internal/registry"
	"customize-api/internal/repository"
)

const settingCacheTTL = 5 * time.Minute

// Service serves the live customize state: current setting values and the
// descriptive panel/section/control/partial tree.
type Service interface {
	ListSettings(ctx context.Context, user *domain.User) ([]domain.SettingResponse, error)
	GetSetting(ctx context.Context, user *domain.User, id string) (*domain.SettingResponse, error)
	UpdateSetting(ctx context.Context, user *domain.User, id string, value any) (*domain.SettingResponse, error)

	ListPanels(user *domain.User) []domain.Panel
	GetPanel(user *domain.User, id string) (*domain.Panel, error)
	ListSections(user *domain.User) []domain.Section
	GetSection(user *domain.User, id string) (*domain.Section, error)
	ListControls(user *domain.User) []domain.Control
	GetControl(user *domain.User, id string) (*domain.Control, error)
	ListPartials(user *domain.User) []domain.Partial
	GetPartial(user *domain.User, id string) (*domain.Partial, error)
}

type service struct {
	optionRepo repository.OptionRepository
	auditRepo  repository.AuditLogRepository
	reg        *registry.Registry
	caps       registry.CapabilityChecker
	redis      *redis.Client
}

func NewService(
	optionRepo repository.OptionRepository,
	auditRepo repository.AuditLogRepository,
	reg *registry.Registry,
	caps registry.CapabilityChecker,
	redisClient *redis.Client,
) Service {
	return &service{
		optionRepo: optionRepo,
		auditRepo:  auditRepo,
		reg:        reg,
		caps:       caps,
		redis:      redisClient,
	}
}

func (s *service) ListSettings(ctx context.Context, user *domain.User) ([]domain.SettingResponse, error) {
	if !s.caps.Can(user, domain.CapCustomize, "") {
		return nil, domain.ErrForbidden("Not allowed to read settings")
	}

	out := make([]domain.SettingResponse, 0)
	for _, def := range s.reg.Settings() {
		if !s.caps.Can(user, def.Capability, def.ID) {
			continue
		}
		resp, err := s.buildSettingResponse(ctx, def)
		if err != nil {
			return nil, err
		}
		out = append(out, *resp)
	}
	return out, nil
}

func (s *service) GetSetting(ctx context.Context, user *domain.User, id string) (*domain.SettingResponse, error) {
	def, ok := s.reg.ResolveSetting(id)
	if !ok {
		return nil, domain.ErrNotFound("Setting not found: " + id)
	}
	if !s.caps.Can(user, def.Capability, id) {
		return nil, domain.ErrForbidden("Not allowed to read this setting")
	}
	return s.buildSettingResponse(ctx, def)
}

// UpdateSetting writes a value straight to the live configuration, bypassing
// the changeset draft flow. Used for immediate single-setting edits.
func (s *service) UpdateSetting(ctx context.Context, user *domain.User, id string, value any) (*domain.SettingResponse, error) {
	def, ok := s.reg.ResolveSetting(id)
	if !ok {
		return nil, domain.ErrNotFound("Setting not found: " + id)
	}
	if !s.caps.Can(user, def.Capability, id) {
		return nil, domain.ErrForbidden("Not allowed to modify this setting")
	}

	sanitized, code, msg := def.Sanitize(value)
	if code != "" {
		return nil, domain.ErrInvalidParam(msg)
	}

	key := domain.LiveSettingKey(def, id)
	if err := s.optionRepo.Set(ctx, key, sanitized); err != nil {
		return nil, domain.ErrStorageFailure(err)
	}
	s.invalidateCache(ctx, def.ID)

	audit := &domain.AuditLog{
		ID:         uuid.New(),
		UserID:     user.ID,
		Action:     domain.AuditUpdateSetting,
		EntityType: "setting",
		EntityID:   def.ID,
	}
	if raw, err := json.Marshal(sanitized); err == nil {
		audit.NewValue = raw
	}
	_ = s.auditRepo.Create(ctx, audit)

	return s.buildSettingResponse(ctx, def)
}

// buildSettingResponse reads the live value through the Redis cache, falling
// back to the registered default when nothing has been written yet.
func (s *service) buildSettingResponse(ctx context.Context, def *domain.SettingDefinition) (*domain.SettingResponse, error) {
	resp := &domain.SettingResponse{
		ID:            def.ID,
		Type:          def.Type,
		Transport:     def.Transport,
		Default:       def.Default,
		Value:         def.Default,
		ThemeSupports: def.ThemeSupports,
	}

	raw, err := s.cachedLiveValue(ctx, def)
	if err != nil {
		return nil, domain.ErrStorageFailure(err)
	}
	if raw != nil {
		var value any
		if err := json.Unmarshal(raw, &value); err == nil {
			resp.Value = value
			resp.Dirty = true
		}
	}

	return resp, nil
}

func (s *service) cachedLiveValue(ctx context.Context, def *domain.SettingDefinition) (json.RawMessage, error) {
	cacheKey := settingCacheKey(def.ID)

	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, cacheKey).Bytes(); err == nil {
			return cached, nil
		}
	}

	raw, err := s.optionRepo.Get(ctx, domain.LiveSettingKey(def, def.ID))
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}

	if s.redis != nil {
		if err := s.redis.Set(ctx, cacheKey, []byte(raw), settingCacheTTL).Err(); err != nil {
			log.Printf("Failed to cache setting %s: %v", def.ID, err)
		}
	}
	return raw, nil
}

func (s *service) invalidateCache(ctx context.Context, id string) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, settingCacheKey(id)).Err(); err != nil {
		log.Printf("Failed to invalidate setting cache for %s: %v", id, err)
	}
}

func settingCacheKey(id string) string {
	return "customize:setting:" + id
}

func (s *service) ListPanels(user *domain.User) []domain.Panel {
	out := make([]domain.Panel, 0)
	for _, p := range s.reg.Panels() {
		if s.caps.Can(user, p.Capability, p.ID) {
			out = append(out, *p)
		}
	}
	return out
}

func (s *service) GetPanel(user *domain.User, id string) (*domain.Panel, error) {
	p, ok := s.reg.Panel(id)
	if !ok {
		return nil, domain.ErrNotFound("Panel not found: " + id)
	}
	if !s.caps.Can(user, p.Capability, id) {
		return nil, domain.ErrForbidden("Not allowed to read this panel")
	}
	return p, nil
}

func (s *service) ListSections(user *domain.User) []domain.Section {
	out := make([]domain.Section, 0)
	for _, sec := range s.reg.Sections() {
		if s.caps.Can(user, sec.Capability, sec.ID) {
			out = append(out, *sec)
		}
	}
	return out
}

func (s *service) GetSection(user *domain.User, id string) (*domain.Section, error) {
	sec, ok := s.reg.Section(id)
	if !ok {
		return nil, domain.ErrNotFound("Section not found: " + id)
	}
	if !s.caps.Can(user, sec.Capability, id) {
		return nil, domain.ErrForbidden("Not allowed to read this section")
	}
	return sec, nil
}

func (s *service) ListControls(user *domain.User) []domain.Control {
	out := make([]domain.Control, 0)
	for _, c := range s.reg.Controls() {
		if s.caps.Can(user, c.Capability, c.ID) {
			out = append(out, *c)
		}
	}
	return out
}

func (s *service) GetControl(user *domain.User, id string) (*domain.Control, error) {
	c, ok := s.reg.Control(id)
	if !ok {
		return nil, domain.ErrNotFound("Control not found: " + id)
	}
	if !s.caps.Can(user, c.Capability, id) {
		return nil, domain.ErrForbidden("Not allowed to read this control")
	}
	return c, nil
}

func (s *service) ListPartials(user *domain.User) []domain.Partial {
	out := make([]domain.Partial, 0)
	for _, p := range s.reg.Partials() {
		if s.caps.Can(user, p.Capability, p.ID) {
			out = append(out, *p)
		}
	}
	return out
}

func (s *service) GetPartial(user *domain.User, id string) (*domain.Partial, error) {
	p, ok := s.reg.Partial(id)
	if !ok {
		return nil, domain.ErrNotFound("Partial not found: " + id)
	}
	if !s.caps.Can(user, p.Capability, id) {
		return nil, domain.ErrForbidden("Not allowed to read this partial")
	}
	return p, nil
}
