package services

import (
	"github.com/stretchr/testify/mock"
	"league-predictor/models"
)

// Ensure MockPredictionService implements PredictionServiceInterface
var _ PredictionServiceInterface = (*MockPredictionService)(nil)

// MockPredictionService is a mock implementation for testing and extends `mock.Mock`
type MockPredictionService struct {
	mock.Mock
}

// GetWidget (Mocked)
func (m *MockPredictionService) GetWidget(widgetID string) *Widget {
	args := m.Called(widgetID)
	return args.Get(0).(*Widget)
}

// ClearWidget (Mocked)
func (m *MockPredictionService) ClearWidget(widgetID string) {
	m.Called(widgetID)
}

// ActiveWidgets (Mocked)
func (m *MockPredictionService) ActiveWidgets() int {
	args := m.Called()
	return args.Int(0)
}

// League (Mocked)
func (m *MockPredictionService) League() *models.League {
	args := m.Called()
	return args.Get(0).(*models.League)
}
