package socketio

import (
	"github.com/stretchr/testify/mock"
)

// MockBroadcaster is a mock implementation of clients.Broadcaster
type MockBroadcaster struct {
	mock.Mock
}

func (m *MockBroadcaster) BroadcastToEpisode(episodeID string, msg any) {
	m.Called(episodeID, msg)
}

func (m *MockBroadcaster) SendToUser(userID string, msg any) {
	m.Called(userID, msg)
}
