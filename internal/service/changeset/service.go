package changeset

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"customize-api/internal/domain"
	"customize-api/internal/registry"
	"customize-api/internal/repository"
	"customize-api/internal/service/email"
)

// Service owns the changeset lifecycle: lookup, validation, merge, status
// transitions and publishing. Handlers call it in a fixed
// resolve -> authorize -> validate -> persist -> respond order.
type Service interface {
	Get(ctx context.Context, user *domain.User, changesetUUID string) (*domain.ChangesetResponse, error)
	List(ctx context.Context, user *domain.User, filter domain.ChangesetFilter, params domain.PaginationParams) (domain.PaginatedResponse[domain.ChangesetResponse], error)
	Save(ctx context.Context, user *domain.User, input domain.SaveChangesetInput) (*domain.ChangesetResponse, bool, error)
	Delete(ctx context.Context, user *domain.User, changesetUUID string, force bool) (*domain.ChangesetResponse, *domain.DeleteChangesetResult, error)
	RecentActivity(ctx context.Context, user *domain.User, limit int) ([]domain.AuditLog, error)
	SetClock(now func() time.Time)
}

type service struct {
	csRepo     repository.ChangesetRepository
	optionRepo repository.OptionRepository
	userRepo   repository.UserRepository
	auditRepo  repository.AuditLogRepository
	reg        *registry.Registry
	caps       registry.CapabilityChecker
	emailSvc   email.Service
	redis      *redis.Client
	now        func() time.Time
}

func NewService(
	csRepo repository.ChangesetRepository,
	optionRepo repository.OptionRepository,
	userRepo repository.UserRepository,
	auditRepo repository.AuditLogRepository,
	reg *registry.Registry,
	caps registry.CapabilityChecker,
	emailSvc email.Service,
	redisClient *redis.Client,
) Service {
	return &service{
		csRepo:     csRepo,
		optionRepo: optionRepo,
		userRepo:   userRepo,
		auditRepo:  auditRepo,
		reg:        reg,
		caps:       caps,
		emailSvc:   emailSvc,
		redis:      redisClient,
		now:        time.Now,
	}
}

func (s *service) SetClock(now func() time.Time) {
	s.now = now
}

func (s *service) Get(ctx context.Context, user *domain.User, changesetUUID string) (*domain.ChangesetResponse, error) {
	if !domain.IsValidChangesetUUID(changesetUUID) {
		return nil, domain.ErrInvalidUUID()
	}

	cs, err := s.csRepo.FindByUUID(ctx, changesetUUID)
	if err != nil {
		return nil, domain.ErrStorageFailure(err)
	}
	if cs == nil {
		return nil, domain.ErrInvalidUUID()
	}

	if !s.caps.Can(user, domain.CapCustomize, changesetUUID) {
		return nil, domain.ErrForbidden("Not allowed to read changesets")
	}

	return s.toResponse(user, cs, nil, ""), nil
}

func (s *service) List(ctx context.Context, user *domain.User, filter domain.ChangesetFilter, params domain.PaginationParams) (domain.PaginatedResponse[domain.ChangesetResponse], error) {
	var empty domain.PaginatedResponse[domain.ChangesetResponse]

	if !s.caps.Can(user, domain.CapCustomize, "") {
		return empty, domain.ErrForbidden("Not allowed to read changesets")
	}

	params.Validate()
	changesets, total, err := s.csRepo.List(ctx, filter, params)
	if err != nil {
		return empty, domain.ErrStorageFailure(err)
	}

	items := make([]domain.ChangesetResponse, 0, len(changesets))
	for i := range changesets {
		items = append(items, *s.toResponse(user, &changesets[i], nil, ""))
	}

	return domain.NewPaginatedResponse(items, params.Page, params.PageSize, total), nil
}

// Save is the update-or-create-if-absent write path. The returned bool is
// true when a new changeset document was created.
func (s *service) Save(ctx context.Context, user *domain.User, input domain.SaveChangesetInput) (*domain.ChangesetResponse, bool, error) {
	changesetUUID := input.UUID
	if changesetUUID == "" {
		changesetUUID = domain.NewChangesetUUID()
	} else if !domain.IsValidChangesetUUID(changesetUUID) {
		return nil, false, domain.ErrInvalidUUID()
	}

	existing, err := s.csRepo.FindByUUID(ctx, changesetUUID)
	if err != nil {
		return nil, false, domain.ErrStorageFailure(err)
	}
	creating := existing == nil

	if derr := s.checkWriteAccess(user, existing, input); derr != nil {
		return nil, false, derr
	}

	// Validation engine: resolve, authorize and sanitize every proposed
	// setting, then merge into the stored document.
	doc := domain.SettingsDoc{}
	if existing != nil {
		doc = existing.Settings()
	}
	validities := domain.SettingValidities{}
	if hasSettingsPayload(input.Settings) {
		doc, validities, err = s.validateAndMerge(doc, input.Settings, user, creating)
		if err != nil {
			return nil, false, err
		}
	}

	// Lifecycle state machine: status and date guards.
	status, date, derr := s.applyLifecycle(existing, input, user)
	if derr != nil {
		return nil, false, derr
	}

	// Publishing re-validates the full merged document before anything is
	// persisted, so a failure cannot strand a terminal row.
	var liveEntries []liveEntry
	if status == domain.StatusPublish {
		liveEntries, derr = s.validateForPublish(user, doc)
		if derr != nil {
			return nil, false, derr
		}
	}

	cs := s.prepareDocument(existing, input, user, changesetUUID, status, date, doc)

	if creating {
		if err := s.csRepo.Insert(ctx, cs); err != nil {
			return nil, false, domain.ErrStorageFailure(err)
		}
	} else {
		if err := s.csRepo.Update(ctx, cs); err != nil {
			return nil, false, domain.ErrStorageFailure(err)
		}
	}

	nextUUID := ""
	if status == domain.StatusPublish {
		nextUUID, derr = s.publish(ctx, user, cs, liveEntries)
		if derr != nil {
			return nil, false, derr
		}
	}

	if status == domain.StatusPending && (existing == nil || existing.Status != domain.StatusPending) {
		s.notifyPublishers(cs)
	}

	resp := s.toResponse(user, cs, validities, nextUUID)
	return resp, creating, nil
}

func (s *service) Delete(ctx context.Context, user *domain.User, changesetUUID string, force bool) (*domain.ChangesetResponse, *domain.DeleteChangesetResult, error) {
	if !domain.IsValidChangesetUUID(changesetUUID) {
		return nil, nil, domain.ErrInvalidUUID()
	}

	cs, err := s.csRepo.FindByUUID(ctx, changesetUUID)
	if err != nil {
		return nil, nil, domain.ErrStorageFailure(err)
	}
	if cs == nil {
		return nil, nil, domain.ErrInvalidUUID()
	}

	if !s.caps.Can(user, domain.CapDeleteChangesets, changesetUUID) {
		return nil, nil, domain.ErrForbidden("Not allowed to delete this changeset")
	}

	if force {
		previous := s.toResponse(user, cs, nil, "")

		deleted, err := s.csRepo.HardDelete(ctx, cs.ID)
		if err != nil {
			return nil, nil, domain.ErrStorageFailure(err)
		}
		if !deleted {
			return nil, nil, domain.ErrInvalidUUID()
		}

		s.logAudit(ctx, user.ID, domain.AuditDeleteChangeset, cs)
		return nil, &domain.DeleteChangesetResult{Deleted: true, Previous: previous}, nil
	}

	if cs.Status == domain.StatusTrash {
		return nil, nil, domain.ErrAlreadyTrashed()
	}

	if err := s.csRepo.SoftDelete(ctx, cs.ID); err != nil {
		return nil, nil, domain.ErrStorageFailure(err)
	}
	cs.Status = domain.StatusTrash

	s.logAudit(ctx, user.ID, domain.AuditTrashChangeset, cs)
	return s.toResponse(user, cs, nil, ""), nil, nil
}

// RecentActivity lists the latest publish/trash/delete audit entries.
func (s *service) RecentActivity(ctx context.Context, user *domain.User, limit int) ([]domain.AuditLog, error) {
	if !s.caps.Can(user, domain.CapEditChangesets, "") {
		return nil, domain.ErrForbidden("Not allowed to read changeset activity")
	}

	entries, err := s.auditRepo.Recent(ctx, limit)
	if err != nil {
		return nil, domain.ErrStorageFailure(err)
	}
	return entries, nil
}

// checkWriteAccess runs the authorization gates that apply to the request as
// a whole, before any per-setting validation.
func (s *service) checkWriteAccess(user *domain.User, existing *domain.Changeset, input domain.SaveChangesetInput) *domain.Error {
	if existing != nil {
		if existing.Status.Terminal() {
			return domain.ErrCannotEdit("The changeset has already been published")
		}
		if input.Status != nil && domain.ChangesetStatus(*input.Status) == domain.StatusAutoDraft {
			return domain.ErrCannotEdit("Invalid status")
		}
		if !s.caps.Can(user, domain.CapEditChangesets, existing.UUID) {
			return domain.ErrCannotEdit("Not allowed to update this changeset")
		}
	} else {
		if !s.caps.Can(user, domain.CapEditChangesets, "") {
			return domain.ErrCannotCreate("Not allowed to create changesets")
		}
	}

	if input.Author != nil && *input.Author != user.ID && !s.caps.Can(user, domain.CapEditOthersChangesets, "") {
		return domain.ErrCannotEditOthers()
	}

	return nil
}

func (s *service) prepareDocument(existing *domain.Changeset, input domain.SaveChangesetInput, user *domain.User, changesetUUID string, status domain.ChangesetStatus, date *time.Time, doc domain.SettingsDoc) *domain.Changeset {
	cs := &domain.Changeset{}
	if existing != nil {
		*cs = *existing
	} else {
		cs.ID = uuid.New()
		cs.UUID = changesetUUID
		cs.AuthorID = user.ID
	}

	if input.Title != nil && input.Title.Set {
		cs.Title = input.Title.Raw
	}
	if input.Author != nil {
		cs.AuthorID = *input.Author
	}

	cs.Status = status
	cs.Date = date
	cs.Content = domain.EncodeSettings(doc)

	return cs
}

// notifyPublishers emails everyone holding the publish capability that a
// changeset awaits review. Best effort, as in all notification paths.
func (s *service) notifyPublishers(cs *domain.Changeset) {
	go func() {
		ctx := context.Background()
		admins, err := s.userRepo.GetByRoles(ctx, []domain.UserRole{domain.RoleAdmin})
		if err != nil {
			return
		}
		for _, admin := range admins {
			if admin.ID == cs.AuthorID {
				continue
			}
			if err := s.emailSvc.SendChangesetPendingReview(ctx, admin.Email, admin.FullName, cs.UUID, cs.Title); err != nil {
				log.Printf("Failed to send pending review email: %v", err)
			}
		}
	}()
}

func (s *service) logAudit(ctx context.Context, userID uuid.UUID, action string, cs *domain.Changeset) {
	audit := &domain.AuditLog{
		ID:         uuid.New(),
		UserID:     userID,
		Action:     action,
		EntityType: "changeset",
		EntityID:   cs.UUID,
		NewValue:   []byte(`{"status":"` + string(cs.Status) + `"}`),
	}
	_ = s.auditRepo.Create(ctx, audit)
}

// toResponse builds the REST representation. Settings entries the reader
// cannot access are omitted rather than erroring.
func (s *service) toResponse(user *domain.User, cs *domain.Changeset, validities domain.SettingValidities, nextUUID string) *domain.ChangesetResponse {
	settings := domain.SettingsDoc{}
	for id, params := range cs.Settings() {
		def, ok := s.reg.ResolveSetting(id)
		if !ok || !s.caps.Can(user, def.Capability, id) {
			continue
		}
		settings[id] = params
	}

	rendered := cs.Title
	if rendered == "" {
		rendered = "Untitled"
	}

	resp := &domain.ChangesetResponse{
		UUID:      cs.UUID,
		Status:    cs.Status,
		Title:     domain.TitleField{Raw: cs.Title, Rendered: rendered},
		Author:    cs.AuthorID,
		Settings:  settings,
		UpdatedAt: cs.UpdatedAt,
	}
	if cs.Date != nil {
		local := cs.Date.Local().Format(dateLayout)
		gmt := cs.Date.UTC().Format(dateLayout)
		resp.Date = &local
		resp.DateGMT = &gmt
	}
	if len(validities) > 0 {
		resp.SettingValidities = validities
	}
	if nextUUID != "" {
		resp.NextChangesetUUID = nextUUID
	}

	return resp
}
