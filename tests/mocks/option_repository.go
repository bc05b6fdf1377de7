package mocks

import (
	"context"
	"encoding/json"

	"github.com/stretchr/testify/mock"
)

type OptionRepository struct {
	mock.Mock
}

func (m *OptionRepository) Get(ctx context.Context, name string) (json.RawMessage, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

func (m *OptionRepository) Set(ctx context.Context, name string, value any) error {
	args := m.Called(ctx, name, value)
	return args.Error(0)
}

func (m *OptionRepository) Delete(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}
