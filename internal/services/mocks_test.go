package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"stockmana/internal/models"
)

type mockSender struct {
	mock.Mock
}

func (m *mockSender) Send(ctx context.Context, msg EmailMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

type mockImageStore struct {
	mock.Mock
}

func (m *mockImageStore) Upload(ctx context.Context, img ImageUpload) (models.ProductImage, error) {
	args := m.Called(ctx, img)
	return args.Get(0).(models.ProductImage), args.Error(1)
}
