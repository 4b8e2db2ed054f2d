// file: websocket/mock_messenger.go
package websocket

import (
	"github.com/stretchr/testify/mock"
	"league-predictor/models"
)

// MockMessenger is a testify mock of Messenger.
type MockMessenger struct {
	mock.Mock
}

func (m *MockMessenger) BroadcastState(widgetID string, state models.BoardState) {
	m.Called(widgetID, state)
}
