package changeset

import (
	"context"
	"log"
	"sort"

	"github.com/google/uuid"

	"customize-api/internal/domain"
)

// liveEntry is a stored setting re-validated for publishing: the live
// storage key it maps to and the sanitized value to write there.
type liveEntry struct {
	id    string
	key   string
	value any
}

// validateForPublish re-checks every stored entry against the current
// registry and the publishing user's capabilities. It runs before the
// publish status is persisted, so a stale or no-longer-permitted document
// aborts the whole request with nothing written.
func (s *service) validateForPublish(user *domain.User, doc domain.SettingsDoc) ([]liveEntry, *domain.Error) {
	ids := make([]string, 0, len(doc))
	for id := range doc {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	entries := make([]liveEntry, 0, len(ids))
	for _, id := range ids {
		def, ok := s.reg.ResolveSetting(id)
		if !ok {
			return nil, domain.ErrInvalidChangesetData("Invalid setting")
		}
		if !s.caps.Can(user, def.Capability, id) {
			return nil, domain.ErrForbidden("Not allowed to edit some of the settings")
		}

		value, has := doc[id]["value"]
		if !has {
			continue
		}
		sanitized, code, msg := def.Sanitize(value)
		if code != "" {
			return nil, domain.ErrInvalidChangesetData(msg)
		}
		entries = append(entries, liveEntry{id: id, key: domain.LiveSettingKey(def, id), value: sanitized})
	}
	return entries, nil
}

// publish applies the pre-validated live values, then trashes the changeset
// row and mints a fresh auto-draft for the client to continue with.
func (s *service) publish(ctx context.Context, user *domain.User, cs *domain.Changeset, entries []liveEntry) (string, *domain.Error) {
	for _, entry := range entries {
		if err := s.optionRepo.Set(ctx, entry.key, entry.value); err != nil {
			return "", domain.ErrStorageFailure(err)
		}
		s.invalidateSettingCache(ctx, entry.id)
	}

	if err := s.csRepo.SoftDelete(ctx, cs.ID); err != nil {
		return "", domain.ErrStorageFailure(err)
	}

	next := s.mintNextChangeset(ctx, user, cs)

	s.logAudit(ctx, user.ID, domain.AuditPublishChangeset, cs)
	return next, nil
}

func (s *service) mintNextChangeset(ctx context.Context, user *domain.User, published *domain.Changeset) string {
	next := &domain.Changeset{
		ID:       uuid.New(),
		UUID:     domain.NewChangesetUUID(),
		Status:   domain.StatusAutoDraft,
		AuthorID: published.AuthorID,
		Content:  []byte("{}"),
	}
	if err := s.csRepo.Insert(ctx, next); err != nil {
		log.Printf("Failed to mint next changeset: %v", err)
		return ""
	}
	return next.UUID
}

func (s *service) invalidateSettingCache(ctx context.Context, id string) {
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
