package mocks

import (
	"context"

	"customize-api/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type ChangesetRepository struct {
	mock.Mock
}

func (m *ChangesetRepository) FindByUUID(ctx context.Context, changesetUUID string) (*domain.Changeset, error) {
	args := m.Called(ctx, changesetUUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Changeset), args.Error(1)
}

func (m *ChangesetRepository) Insert(ctx context.Context, cs *domain.Changeset) error {
	args := m.Called(ctx, cs)
	return args.Error(0)
}

func (m *ChangesetRepository) Update(ctx context.Context, cs *domain.Changeset) error {
	args := m.Called(ctx, cs)
	return args.Error(0)
}

func (m *ChangesetRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *ChangesetRepository) HardDelete(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *ChangesetRepository) List(ctx context.Context, filter domain.ChangesetFilter, params domain.PaginationParams) ([]domain.Changeset, int64, error) {
	args := m.Called(ctx, filter, params)
	return args.Get(0).([]domain.Changeset), args.Get(1).(int64), args.Error(2)
}
