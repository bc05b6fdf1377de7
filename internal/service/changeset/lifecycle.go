package changeset

import (
	"time"

	"customize-api/internal/domain"
)

const dateLayout = "2006-01-02 15:04:05"

// applyLifecycle resolves the target status and scheduled date for a save,
// running every guard in a fixed order so callers get stable error kinds.
func (s *service) applyLifecycle(existing *domain.Changeset, input domain.SaveChangesetInput, user *domain.User) (domain.ChangesetStatus, *time.Time, *domain.Error) {
	current := domain.StatusAutoDraft
	var date *time.Time
	if existing != nil {
		current = existing.Status
		date = existing.Date
	}

	status := current
	if input.Status != nil {
		target := domain.ChangesetStatus(*input.Status)
		if !target.IsValid() {
			return "", nil, domain.ErrBadChangesetStatus(*input.Status)
		}
		status = target
	}

	supplied, derr := parseInputDate(input)
	if derr != nil {
		return "", nil, derr
	}
	if supplied != nil {
		date = supplied
	}

	switch status {
	case domain.StatusPublish:
		if !s.caps.Can(user, domain.CapPublishChangesets, "") {
			return "", nil, domain.ErrPublishUnauthorized()
		}
		now := s.now()
		date = &now
	case domain.StatusFuture:
		if !s.caps.Can(user, domain.CapPublishChangesets, "") {
			return "", nil, domain.ErrPublishUnauthorized()
		}
		if date == nil || !date.After(s.now()) {
			return "", nil, domain.ErrInvalidParam("Incorrect date, the date must be in the future for a scheduled changeset")
		}
	case domain.StatusAutoDraft:
		if supplied != nil {
			return "", nil, domain.ErrInvalidParam("Cannot supply a date for an auto-draft changeset")
		}
	}

	return status, date, nil
}

func parseInputDate(input domain.SaveChangesetInput) (*time.Time, *domain.Error) {
	if input.Date != nil {
		t, err := time.ParseInLocation(dateLayout, *input.Date, time.Local)
		if err != nil {
			return nil, domain.ErrInvalidParam("Invalid date")
		}
		t = t.UTC()
		return &t, nil
	}
	if input.DateGMT != nil {
		t, err := time.Parse(dateLayout, *input.DateGMT)
		if err != nil {
			return nil, domain.ErrInvalidParam("Invalid date")
		}
		return &t, nil
	}
	return nil, nil
}
