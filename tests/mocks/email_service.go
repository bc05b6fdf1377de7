package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type EmailService struct {
	mock.Mock
}

func (m *EmailService) SendChangesetPendingReview(ctx context.Context, toEmail, fullName, changesetUUID, title string) error {
	args := m.Called(ctx, toEmail, fullName, changesetUUID, title)
	return args.Error(0)
}
