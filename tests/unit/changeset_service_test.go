package unit_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"customize-api/internal/domain"
	"customize-api/internal/registry"
	"customize-api/internal/service/changeset"
	"customize-api/tests/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type changesetMocks struct {
	csRepo     *mocks.ChangesetRepository
	optionRepo *mocks.OptionRepository
	userRepo   *mocks.UserRepository
	auditRepo  *mocks.AuditLogRepository
	emailSvc   *mocks.EmailService
}

func newChangesetService() (changeset.Service, *changesetMocks) {
	m := &changesetMocks{
		csRepo:     new(mocks.ChangesetRepository),
		optionRepo: new(mocks.OptionRepository),
		userRepo:   new(mocks.UserRepository),
		auditRepo:  new(mocks.AuditLogRepository),
		emailSvc:   new(mocks.EmailService),
	}

	svc := changeset.NewService(
		m.csRepo, m.optionRepo, m.userRepo, m.auditRepo,
		registry.Default(), registry.NewRoleChecker(),
		m.emailSvc, nil,
	)
	return svc, m
}

func adminUser() *domain.User {
	return &domain.User{ID: uuid.New(), Email: "admin@example.com", Role: "admin", IsActive: true}
}

func editorUser() *domain.User {
	return &domain.User{ID: uuid.New(), Email: "editor@example.com", Role: "editor", IsActive: true}
}

func viewerUser() *domain.User {
	return &domain.User{ID: uuid.New(), Email: "viewer@example.com", Role: "viewer", IsActive: true}
}

func settingsJSON(t *testing.T, doc map[string]any) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(doc)
	assert.NoError(t, err)
	return raw
}

func storedChangeset(author uuid.UUID, status domain.ChangesetStatus, doc map[string]any) *domain.Changeset {
	content, _ := json.Marshal(doc)
	return &domain.Changeset{
		ID:       uuid.New(),
		UUID:     domain.NewChangesetUUID(),
		Status:   status,
		AuthorID: author,
		Content:  content,
	}
}

func TestChangesetService_Save_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		svc, m := newChangesetService()
		user := adminUser()

		m.csRepo.On("FindByUUID", ctx, mock.AnythingOfType("string")).Return(nil, nil).Once()
		m.csRepo.On("Insert", ctx, mock.MatchedBy(func(cs *domain.Changeset) bool {
			return cs.Status == domain.StatusAutoDraft && cs.AuthorID == user.ID
		})).Return(nil).Once()

		resp, created, err := svc.Save(ctx, user, domain.SaveChangesetInput{
			Settings: settingsJSON(t, map[string]any{
				"blogname": map[string]any{"value": "My Site"},
			}),
		})

		assert.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, domain.StatusAutoDraft, resp.Status)
		assert.True(t, domain.IsValidChangesetUUID(resp.UUID))
		assert.True(t, resp.SettingValidities["blogname"].Valid)
		assert.Equal(t, "My Site", resp.Settings["blogname"]["value"])
		assert.Equal(t, "option", resp.Settings["blogname"]["type"])
		assert.Equal(t, user.ID.String(), resp.Settings["blogname"]["user_id"])

		m.csRepo.AssertExpectations(t)
	})

	t.Run("Malformed UUID Rejected Before Lookup", func(t *testing.T) {
		svc, m := newChangesetService()

		resp, _, err := svc.Save(ctx, adminUser(), domain.SaveChangesetInput{UUID: "not-a-uuid"})

		assert.Nil(t, resp)
		var derr *domain.Error
		assert.ErrorAs(t, err, &derr)
		assert.Equal(t, domain.KindInvalidUUID, derr.Kind)
		assert.Equal(t, 404, derr.Status)
		m.csRepo.AssertNotCalled(t, "FindByUUID", mock.Anything, mock.Anything)
	})

	t.Run("Unrecognized Setting Aborts Create", func(t *testing.T) {
		svc, m := newChangesetService()

		m.csRepo.On("FindByUUID", ctx, mock.AnythingOfType("string")).Return(nil, nil).Once()

		resp, _, err := svc.Save(ctx, adminUser(), domain.SaveChangesetInput{
			Settings: settingsJSON(t, map[string]any{
				"blogname":           map[string]any{"value": "My Site"},
				"no_such_setting_id": map[string]any{"value": 1},
			}),
		})

		assert.Nil(t, resp)
		var derr *domain.Error
		assert.ErrorAs(t, err, &derr)
		assert.Equal(t, domain.KindInvalidChangesetData, derr.Kind)
		m.csRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	})

	t.Run("Forbidden Setting Aborts Create", func(t *testing.T) {
		svc, m := newChangesetService()

		m.csRepo.On("FindByUUID", ctx, mock.AnythingOfType("string")).Return(nil, nil).Once()

		// blogname requires manage_options, which editors lack.
		resp, _, err := svc.Save(ctx, editorUser(), domain.SaveChangesetInput{
			Settings: settingsJSON(t, map[string]any{
				"blogname": map[string]any{"value": "My Site"},
			}),
		})

		assert.Nil(t, resp)
		var derr *domain.Error
		assert.ErrorAs(t, err, &derr)
		assert.Equal(t, domain.KindForbidden, derr.Kind)
		m.csRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	})

	t.Run("Null Value Aborts Create", func(t *testing.T) {
		svc, m := newChangesetService()

		m.csRepo.On("FindByUUID", ctx, mock.AnythingOfType("string")).Return(nil, nil).Once()

		resp, _, err := svc.Save(ctx, adminUser(), domain.SaveChangesetInput{
			Settings: json.RawMessage(`{"blogname": {"value": null}}`),
		})

		assert.Nil(t, resp)
		var derr *domain.Error
		assert.ErrorAs(t, err, &derr)
		assert.Equal(t, domain.KindInvalidChangesetData, derr.Kind)
		m.csRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	})

	t.Run("Sanitizer Failure Aborts Create", func(t *testing.T) {
		svc, m := newChangesetService()

		m.csRepo.On("FindByUUID", ctx, mock.AnythingOfType("string")).Return(nil, nil).Once()

		resp, _, err := svc.Save(ctx, adminUser(), domain.SaveChangesetInput{
			Settings: settingsJSON(t, map[string]any{
				"blogname": map[string]any{"value": "<script>alert(1)</script>"},
			}),
		})

		assert.Nil(t, resp)
		var derr *domain.Error
		assert.ErrorAs(t, err, &derr)
		assert.Equal(t, domain.KindInvalidChangesetData, derr.Kind)
		m.csRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	})

	t.Run("Non-Object Settings Payload", func(t *testing.T) {
		svc, m := newChangesetService()

		m.csRepo.On("FindByUUID", ctx, mock.AnythingOfType("string")).Return(nil, nil).Once()

		resp, _, err := svc.Save(ctx, adminUser(), domain.SaveChangesetInput{
			Settings: json.RawMessage(`["not", "an", "object"]`),
		})

		assert.Nil(t, resp)
		var derr *domain.Error
		assert.ErrorAs(t, err, &derr)
		assert.Equal(t, domain.KindInvalidChangesetData, derr.Kind)
		m.csRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	})
}

func TestChangesetService_Save_Merge(t *testing.T) {
	ctx := context.Background()

	t.Run("Identical Resubmission Keeps Original Author Stamp", func(t *testing.T) {
		svc, m := newChangesetService()
		original := adminUser()
		editor := adminUser()

		existing := storedChangeset(original.ID, domain.StatusDraft, map[string]any{
			"blogname": map[string]any{"value": "My Site", "type": "option", "user_id": original.ID.String()},
		})

		m.csRepo.On("FindByUUID", ctx, existing.UUID).Return(existing, nil).Once()
		m.csRepo.On("Update", ctx, mock.MatchedBy(func(cs *domain.Changeset) bool {
			doc := cs.Settings()
			return doc["blogname"]["user_id"] == original.ID.String()
		})).Return(nil).Once()

		resp, created, err := svc.Save(ctx, editor, domain.SaveChangesetInput{
			UUID: existing.UUID,
			Settings: settingsJSON(t, map[string]any{
				"blogname": map[string]any{"value": "My Site"},
			}),
		})

		assert.NoError(t, err)
		assert.False(t, created)
		assert.True(t, resp.SettingValidities["blogname"].Valid)
		m.csRepo.AssertExpectations(t)
	})

	t.Run("Changed Value Restamps Author", func(t *testing.T) {
		svc, m := newChangesetService()
		original := adminUser()
		editor := adminUser()

		existing := storedChangeset(original.ID, domain.StatusDraft, map[string]any{
			"blogname": map[string]any{"value": "Old Title", "type": "option", "user_id": original.ID.String()},
		})

		m.csRepo.On("FindByUUID", ctx, existing.UUID).Return(existing, nil).Once()
		m.csRepo.On("Update", ctx, mock.MatchedBy(func(cs *domain.Changeset) bool {
			doc := cs.Settings()
			return doc["blogname"]["value"] == "New Title" && doc["blogname"]["user_id"] == editor.ID.String()
		})).Return(nil).Once()

		_, _, err := svc.Save(ctx, editor, domain.SaveChangesetInput{
			UUID: existing.UUID,
			Settings: settingsJSON(t, map[string]any{
				"blogname": map[string]any{"value": "New Title"},
			}),
		})

		assert.NoError(t, err)
		m.csRepo.AssertExpectations(t)
	})

	t.Run("Null Tombstone Removes Entry", func(t *testing.T) {
		svc, m := newChangesetService()
		user := adminUser()

		existing := storedChangeset(user.ID, domain.StatusDraft, map[string]any{
			"blogname":        map[string]any{"value": "My Site", "type": "option", "user_id": user.ID.String()},
			"blogdescription": map[string]any{"value": "Tagline", "type": "option", "user_id": user.ID.String()},
		})

		m.csRepo.On("FindByUUID", ctx, existing.UUID).Return(existing, nil).Once()
		m.csRepo.On("Update", ctx, mock.MatchedBy(func(cs *domain.Changeset) bool {
			doc := cs.Settings()
			_, gone := doc["blogname"]
			_, kept := doc["blogdescription"]
			return !gone && kept
		})).Return(nil).Once()

		resp, _, err := svc.Save(ctx, user, domain.SaveChangesetInput{
			UUID:     existing.UUID,
			Settings: json.RawMessage(`{"blogname": null}`),
		})

		assert.NoError(t, err)
		assert.True(t, resp.SettingValidities["blogname"].Valid)
		m.csRepo.AssertExpectations(t)
	})

	t.Run("Null Value For Existing Entry Is Invalid", func(t *testing.T) {
		svc, m := newChangesetService()
		user := adminUser()

		existing := storedChangeset(user.ID, domain.StatusDraft, map[string]any{
			"blogname": map[string]any{"value": "My Site", "type": "option", "user_id": user.ID.String()},
		})

		m.csRepo.On("FindByUUID", ctx, existing.UUID).Return(existing, nil).Once()
		m.csRepo.On("Update", ctx, mock.MatchedBy(func(cs *domain.Changeset) bool {
			doc := cs.Settings()
			return doc["blogname"]["value"] == "My Site"
		})).Return(nil).Once()

		resp, _, err := svc.Save(ctx, user, domain.SaveChangesetInput{
			UUID:     existing.UUID,
			Settings: json.RawMessage(`{"blogname": {"value": null}}`),
		})

		assert.NoError(t, err)
		validity := resp.SettingValidities["blogname"]
		assert.False(t, validity.Valid)
		assert.Equal(t, domain.ValidityValueNull, validity.Code)
		m.csRepo.AssertExpectations(t)
	})

	t.Run("Null Value For New Entry Is Invalid", func(t *testing.T) {
		svc, m := newChangesetService()
		user := adminUser()

		existing := storedChangeset(user.ID, domain.StatusDraft, map[string]any{})

		m.csRepo.On("FindByUUID", ctx, existing.UUID).Return(existing, nil).Once()
		m.csRepo.On("Update", ctx, mock.MatchedBy(func(cs *domain.Changeset) bool {
			_, stored := cs.Settings()["blogname"]
			return !stored
		})).Return(nil).Once()

		resp, _, err := svc.Save(ctx, user, domain.SaveChangesetInput{
			UUID:     existing.UUID,
			Settings: json.RawMessage(`{"blogname": {"value": null}}`),
		})

		assert.NoError(t, err)
		validity := resp.SettingValidities["blogname"]
		assert.False(t, validity.Valid)
		assert.Equal(t, domain.ValidityValueNull, validity.Code)
		m.csRepo.AssertExpectations(t)
	})

	t.Run("Update Accepts Partially On Forbidden Setting", func(t *testing.T) {
		svc, m := newChangesetService()
		editor := editorUser()

		existing := storedChangeset(editor.ID, domain.StatusDraft, map[string]any{})

		m.csRepo.On("FindByUUID", ctx, existing.UUID).Return(existing, nil).Once()
		m.csRepo.On("Update", ctx, mock.MatchedBy(func(cs *domain.Changeset) bool {
			doc := cs.Settings()
			_, blogname := doc["blogname"]
			_, logo := doc["custom_logo"]
			return !blogname && logo
		})).Return(nil).Once()

		resp, _, err := svc.Save(ctx, editor, domain.SaveChangesetInput{
			UUID: existing.UUID,
			Settings: settingsJSON(t, map[string]any{
				"blogname":    map[string]any{"value": "My Site"},
				"custom_logo": map[string]any{"value": float64(42)},
			}),
		})

		assert.NoError(t, err)
		assert.False(t, resp.SettingValidities["blogname"].Valid)
		assert.Equal(t, domain.ValidityForbidden, resp.SettingValidities["blogname"].Code)
		assert.True(t, resp.SettingValidities["custom_logo"].Valid)
		m.csRepo.AssertExpectations(t)
	})

	t.Run("Validity Wire Format", func(t *testing.T) {
		validities := domain.SettingValidities{
			"blogname":    domain.ValidSetting(),
			"custom_logo": domain.InvalidSetting(domain.ValidityForbidden, "Not allowed to modify this setting"),
		}

		raw, err := json.Marshal(validities)
		assert.NoError(t, err)

		var decoded map[string]any
		assert.NoError(t, json.Unmarshal(raw, &decoded))
		assert.Equal(t, true, decoded["blogname"])
		invalid := decoded["custom_logo"].(map[string]any)
		assert.Equal(t, true, invalid["forbidden"])
		assert.NotEmpty(t, invalid["message"])
	})
}

func TestChangesetService_Save_Lifecycle(t *testing.T) {
	ctx := context.Background()

	t.Run("Terminal Changeset Cannot Be Edited", func(t *testing.T) {
		svc, m := newChangesetService()
		user := adminUser()

		existing := storedChangeset(user.ID, domain.StatusTrash, map[string]any{})
		m.csRepo.On("FindByUUID", ctx, existing.UUID).Return(existing, nil).Once()

		resp, _, err := svc.Save(ctx, user, domain.SaveChangesetInput{UUID: existing.UUID})

		assert.Nil(t, resp)
		var derr *domain.Error
		assert.ErrorAs(t, err, &derr)
		assert.Equal(t, domain.KindCannotEdit, derr.Kind)
		m.csRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("Unknown Status Rejected", func(t *testing.T) {
		svc, m := newChangesetService()
		user := adminUser()

		existing := storedChangeset(user.ID, domain.StatusDraft, map[string]any{})
		m.csRepo.On("FindByUUID", ctx, existing.UUID).Return(existing, nil).Once()

		status := "published"
		_, _, err := svc.Save(ctx, user, domain.SaveChangesetInput{UUID: existing.UUID, Status: &status})

		var derr *domain.Error
		assert.ErrorAs(t, err, &derr)
		assert.Equal(t, domain.KindBadChangesetStatus, derr.Kind)
		assert.Equal(t, 400, derr.Status)
	})

	t.Run("Auto-Draft Is Not An Assignable Target", func(t *testing.T) {
		svc, m := newChangesetService()
		user := adminUser()

		existing := storedChangeset(user.ID, domain.StatusDraft, map[string]any{})
		m.csRepo.On("FindByUUID", ctx, existing.UUID).Return(existing, nil).Once()

		status := "auto-draft"
		_, _, err := svc.Save(ctx, user, domain.SaveChangesetInput{UUID: existing.UUID, Status: &status})

		var derr *domain.Error
		assert.ErrorAs(t, err, &derr)
		assert.Equal(t, domain.KindCannotEdit, derr.Kind)
	})

	t.Run("Future Status Requires Future Date", func(t *testing.T) {
		svc, m := newChangesetService()
		user := adminUser()
		now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
		svc.SetClock(func() time.Time { return now })

		existing := storedChangeset(user.ID, domain.StatusDraft, map[string]any{})
		m.csRepo.On("FindByUUID", ctx, existing.UUID).Return(existing, nil).Once()

		status := "future"
		date := "2024-05-01 00:00:00"
		_, _, err := svc.Save(ctx, user, domain.SaveChangesetInput{
			UUID:    existing.UUID,
			Status:  &status,
			DateGMT: &date,
		})

		var derr *domain.Error
		assert.ErrorAs(t, err, &derr)
		assert.Equal(t, domain.KindInvalidParam, derr.Kind)
		assert.Equal(t, 400, derr.Status)
	})

	t.Run("Scheduling In The Future Succeeds", func(t *testing.T) {
		svc, m := newChangesetService()
		user := adminUser()
		now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
		svc.SetClock(func() time.Time { return now })

		existing := storedChangeset(user.ID, domain.StatusDraft, map[string]any{})
		m.csRepo.On("FindByUUID", ctx, existing.UUID).Return(existing, nil).Once()
		m.csRepo.On("Update", ctx, mock.MatchedBy(func(cs *domain.Changeset) bool {
			return cs.Status == domain.StatusFuture && cs.Date != nil && cs.Date.After(now)
		})).Return(nil).Once()

		status := "future"
		date := "2024-07-01 00:00:00"
		resp, _, err := svc.Save(ctx, user, domain.SaveChangesetInput{
			UUID:    existing.UUID,
			Status:  &status,
			DateGMT: &date,
		})

		assert.NoError(t, err)
		assert.Equal(t, domain.StatusFuture, resp.Status)
		m.csRepo.AssertExpectations(t)
	})

	t.Run("Date On Auto-Draft Rejected", func(t *testing.T) {
		svc, m := newChangesetService()
		user := adminUser()

		existing := storedChangeset(user.ID, domain.StatusAutoDraft, map[string]any{})
		m.csRepo.On("FindByUUID", ctx, existing.UUID).Return(existing, nil).Once()

		date := "2030-01-01 00:00:00"
		_, _, err := svc.Save(ctx, user, domain.SaveChangesetInput{UUID: existing.UUID, DateGMT: &date})

		var derr *domain.Error
		assert.ErrorAs(t, err, &derr)
		assert.Equal(t, domain.KindInvalidParam, derr.Kind)
	})

	t.Run("Publish Requires Capability", func(t *testing.T) {
		svc, m := newChangesetService()
		editor := editorUser()

		existing := storedChangeset(editor.ID, domain.StatusDraft, map[string]any{})
		m.csRepo.On("FindByUUID", ctx, existing.UUID).Return(existing, nil).Once()

		status := "publish"
		_, _, err := svc.Save(ctx, editor, domain.SaveChangesetInput{UUID: existing.UUID, Status: &status})

		var derr *domain.Error
		assert.ErrorAs(t, err, &derr)
		assert.Equal(t, domain.KindPublishUnauthorized, derr.Kind)
		assert.Equal(t, 403, derr.Status)
	})
}

func TestChangesetService_Publish(t *testing.T) {
	ctx := context.Background()

	t.Run("Applies Settings And Mints Next Changeset", func(t *testing.T) {
		svc, m := newChangesetService()
		user := adminUser()
		now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
		svc.SetClock(func() time.Time { return now })

		existing := storedChangeset(user.ID, domain.StatusDraft, map[string]any{
			"blogname": map[string]any{"value": "Launched", "type": "option", "user_id": user.ID.String()},
		})

		m.csRepo.On("FindByUUID", ctx, existing.UUID).Return(existing, nil).Once()
		m.csRepo.On("Update", ctx, mock.MatchedBy(func(cs *domain.Changeset) bool {
			return cs.Status == domain.StatusPublish && cs.Date != nil && cs.Date.Equal(now)
		})).Return(nil).Once()
		m.optionRepo.On("Set", ctx, "blogname", "Launched").Return(nil).Once()
		m.csRepo.On("SoftDelete", ctx, existing.ID).Return(nil).Once()
		m.csRepo.On("Insert", ctx, mock.MatchedBy(func(cs *domain.Changeset) bool {
			return cs.Status == domain.StatusAutoDraft && cs.UUID != existing.UUID && cs.AuthorID == user.ID
		})).Return(nil).Once()
		m.auditRepo.On("Create", ctx, mock.AnythingOfType("*domain.AuditLog")).Return(nil).Once()

		status := "publish"
		resp, _, err := svc.Save(ctx, user, domain.SaveChangesetInput{UUID: existing.UUID, Status: &status})

		assert.NoError(t, err)
		assert.Equal(t, domain.StatusPublish, resp.Status)
		assert.True(t, domain.IsValidChangesetUUID(resp.NextChangesetUUID))
		assert.NotEqual(t, existing.UUID, resp.NextChangesetUUID)

		m.csRepo.AssertExpectations(t)
		m.optionRepo.AssertExpectations(t)
	})

	t.Run("Live Write Failure Surfaces As Storage Error", func(t *testing.T) {
		svc, m := newChangesetService()
		user := adminUser()

		existing := storedChangeset(user.ID, domain.StatusDraft, map[string]any{
			"blogname": map[string]any{"value": "Launched", "type": "option", "user_id": user.ID.String()},
		})

		m.csRepo.On("FindByUUID", ctx, existing.UUID).Return(existing, nil).Once()
		m.csRepo.On("Update", ctx, mock.AnythingOfType("*domain.Changeset")).Return(nil).Once()
		m.optionRepo.On("Set", ctx, "blogname", "Launched").Return(assert.AnError).Once()

		status := "publish"
		resp, _, err := svc.Save(ctx, user, domain.SaveChangesetInput{UUID: existing.UUID, Status: &status})

		assert.Nil(t, resp)
		var derr *domain.Error
		assert.ErrorAs(t, err, &derr)
		assert.Equal(t, domain.KindStorageFailure, derr.Kind)
		assert.Equal(t, 500, derr.Status)
		m.csRepo.AssertNotCalled(t, "SoftDelete", mock.Anything, mock.Anything)
	})

	t.Run("Stale Document Aborts Publish Before Persisting", func(t *testing.T) {
		svc, m := newChangesetService()
		user := adminUser()

		// A stored value the sanitizer no longer accepts.
		existing := storedChangeset(user.ID, domain.StatusDraft, map[string]any{
			"blogname": map[string]any{"value": float64(7), "type": "option", "user_id": user.ID.String()},
		})

		m.csRepo.On("FindByUUID", ctx, existing.UUID).Return(existing, nil)

		status := "publish"
		resp, _, err := svc.Save(ctx, user, domain.SaveChangesetInput{UUID: existing.UUID, Status: &status})

		assert.Nil(t, resp)
		var derr *domain.Error
		assert.ErrorAs(t, err, &derr)
		assert.Equal(t, domain.KindInvalidChangesetData, derr.Kind)
		m.csRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		m.csRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
		m.csRepo.AssertNotCalled(t, "SoftDelete", mock.Anything, mock.Anything)
		m.optionRepo.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)

		// The failed publish never reached a terminal status, so the
		// changeset stays editable.
		m.csRepo.On("Update", ctx, mock.MatchedBy(func(cs *domain.Changeset) bool {
			return cs.Status == domain.StatusDraft && cs.Title == "Still Editable"
		})).Return(nil).Once()

		resp, _, err = svc.Save(ctx, user, domain.SaveChangesetInput{
			UUID:  existing.UUID,
			Title: &domain.TitleInput{Raw: "Still Editable", Set: true},
		})

		assert.NoError(t, err)
		assert.Equal(t, domain.StatusDraft, resp.Status)
		m.csRepo.AssertExpectations(t)
	})
}

func TestChangesetService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("Soft Delete Trashes", func(t *testing.T) {
		svc, m := newChangesetService()
		user := adminUser()

		existing := storedChangeset(user.ID, domain.StatusDraft, map[string]any{})
		m.csRepo.On("FindByUUID", ctx, existing.UUID).Return(existing, nil).Once()
		m.csRepo.On("SoftDelete", ctx, existing.ID).Return(nil).Once()
		m.auditRepo.On("Create", ctx, mock.AnythingOfType("*domain.AuditLog")).Return(nil).Once()

		resp, result, err := svc.Delete(ctx, user, existing.UUID, false)

		assert.NoError(t, err)
		assert.Nil(t, result)
		assert.Equal(t, domain.StatusTrash, resp.Status)
		m.csRepo.AssertExpectations(t)
	})

	t.Run("Repeat Soft Delete Is Gone", func(t *testing.T) {
		svc, m := newChangesetService()
		user := adminUser()

		existing := storedChangeset(user.ID, domain.StatusTrash, map[string]any{})
		m.csRepo.On("FindByUUID", ctx, existing.UUID).Return(existing, nil).Once()

		resp, result, err := svc.Delete(ctx, user, existing.UUID, false)

		assert.Nil(t, resp)
		assert.Nil(t, result)
		var derr *domain.Error
		assert.ErrorAs(t, err, &derr)
		assert.Equal(t, domain.KindAlreadyTrashed, derr.Kind)
		assert.Equal(t, 410, derr.Status)
		m.csRepo.AssertNotCalled(t, "SoftDelete", mock.Anything, mock.Anything)
	})

	t.Run("Force Delete Returns Previous Representation", func(t *testing.T) {
		svc, m := newChangesetService()
		user := adminUser()

		existing := storedChangeset(user.ID, domain.StatusTrash, map[string]any{})
		existing.Title = "Homepage Rework"
		m.csRepo.On("FindByUUID", ctx, existing.UUID).Return(existing, nil).Once()
		m.csRepo.On("HardDelete", ctx, existing.ID).Return(true, nil).Once()
		m.auditRepo.On("Create", ctx, mock.AnythingOfType("*domain.AuditLog")).Return(nil).Once()

		resp, result, err := svc.Delete(ctx, user, existing.UUID, true)

		assert.NoError(t, err)
		assert.Nil(t, resp)
		assert.True(t, result.Deleted)
		assert.Equal(t, existing.UUID, result.Previous.UUID)
		assert.Equal(t, "Homepage Rework", result.Previous.Title.Raw)
		m.csRepo.AssertExpectations(t)
	})

	t.Run("Malformed UUID Rejected Before Lookup", func(t *testing.T) {
		svc, m := newChangesetService()

		_, _, err := svc.Delete(ctx, adminUser(), "1234", false)

		var derr *domain.Error
		assert.ErrorAs(t, err, &derr)
		assert.Equal(t, domain.KindInvalidUUID, derr.Kind)
		m.csRepo.AssertNotCalled(t, "FindByUUID", mock.Anything, mock.Anything)
	})
}

func TestChangesetService_RecentActivity(t *testing.T) {
	ctx := context.Background()

	t.Run("Returns Audit Entries", func(t *testing.T) {
		svc, m := newChangesetService()

		entries := []domain.AuditLog{{Action: domain.AuditPublishChangeset, EntityType: "changeset"}}
		m.auditRepo.On("Recent", ctx, 20).Return(entries, nil).Once()

		got, err := svc.RecentActivity(ctx, editorUser(), 20)

		assert.NoError(t, err)
		assert.Len(t, got, 1)
		m.auditRepo.AssertExpectations(t)
	})

	t.Run("Viewers Are Forbidden", func(t *testing.T) {
		svc, m := newChangesetService()

		_, err := svc.RecentActivity(ctx, viewerUser(), 20)

		var derr *domain.Error
		assert.ErrorAs(t, err, &derr)
		assert.Equal(t, domain.KindForbidden, derr.Kind)
		m.auditRepo.AssertNotCalled(t, "Recent", mock.Anything, mock.Anything)
	})
}

func TestChangesetService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("Unknown UUID Is Not Found", func(t *testing.T) {
		svc, m := newChangesetService()
		missing := domain.NewChangesetUUID()

		m.csRepo.On("FindByUUID", ctx, missing).Return(nil, nil).Once()

		resp, err := svc.Get(ctx, adminUser(), missing)

		assert.Nil(t, resp)
		var derr *domain.Error
		assert.ErrorAs(t, err, &derr)
		assert.Equal(t, domain.KindInvalidUUID, derr.Kind)
	})

	t.Run("Settings Are Capability Filtered On Read", func(t *testing.T) {
		svc, m := newChangesetService()
		admin := adminUser()

		existing := storedChangeset(admin.ID, domain.StatusDraft, map[string]any{
			"blogname":    map[string]any{"value": "My Site", "type": "option", "user_id": admin.ID.String()},
			"custom_logo": map[string]any{"value": float64(42), "type": "theme_mod", "user_id": admin.ID.String()},
		})
		m.csRepo.On("FindByUUID", ctx, existing.UUID).Return(existing, nil).Twice()

		adminResp, err := svc.Get(ctx, admin, existing.UUID)
		assert.NoError(t, err)
		assert.Len(t, adminResp.Settings, 2)

		editorResp, err := svc.Get(ctx, editorUser(), existing.UUID)
		assert.NoError(t, err)
		assert.Len(t, editorResp.Settings, 1)
		assert.Contains(t, editorResp.Settings, "custom_logo")
	})

	t.Run("Untitled Fallback", func(t *testing.T) {
		svc, m := newChangesetService()
		user := adminUser()

		existing := storedChangeset(user.ID, domain.StatusDraft, map[string]any{})
		m.csRepo.On("FindByUUID", ctx, existing.UUID).Return(existing, nil).Once()

		resp, err := svc.Get(ctx, user, existing.UUID)

		assert.NoError(t, err)
		assert.Equal(t, "", resp.Title.Raw)
		assert.Equal(t, "Untitled", resp.Title.Rendered)
	})
}
