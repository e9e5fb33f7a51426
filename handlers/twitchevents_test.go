package handlers

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"streambingo/services/eventsub"
	"streambingo/usecases"
)

func postEventSubRequest(body string, messageType string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/webhooks/twitch", bytes.NewReader([]byte(body)))
	req.Header.Set(headerMessageID, "msg-1")
	req.Header.Set(headerMessageTimestamp, "2026-08-31T12:00:00Z")
	req.Header.Set(headerMessageSignature, "sha256=deadbeef")
	req.Header.Set(headerMessageType, messageType)
	return req
}

func TestHandleTwitchEvent(t *testing.T) {
	t.Run("UnverifiedRequestGets401", func(t *testing.T) {
		mockEventSub := &eventsub.MockEventSubService{}
		mockUseCase := &usecases.MockBingoUseCase{}
		handler := NewTwitchEventsHandler(mockEventSub, mockUseCase)

		mockEventSub.On("Verify", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(false)

		recorder := httptest.NewRecorder()
		handler.HandleTwitchEvent(recorder, postEventSubRequest(`{"subscription":{"id":"sub-123"}}`, messageTypeNotification))

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		mockUseCase.AssertNotCalled(t, "ProcessEventSubNotification", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("VerificationChallengeIsEchoedAsPlainText", func(t *testing.T) {
		mockEventSub := &eventsub.MockEventSubService{}
		mockUseCase := &usecases.MockBingoUseCase{}
		handler := NewTwitchEventsHandler(mockEventSub, mockUseCase)

		mockEventSub.On("Verify", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(true)

		body := `{"subscription":{"id":"sub-123","type":"channel.follow"},"challenge":"pick-me-7f3a"}`
		recorder := httptest.NewRecorder()
		handler.HandleTwitchEvent(recorder, postEventSubRequest(body, messageTypeVerification))

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, "text/plain", recorder.Header().Get("Content-Type"))
		responseBody, err := io.ReadAll(recorder.Body)
		require.NoError(t, err)
		assert.Equal(t, "pick-me-7f3a", string(responseBody))
	})

	t.Run("ChallengeMissingGets400", func(t *testing.T) {
		mockEventSub := &eventsub.MockEventSubService{}
		mockUseCase := &usecases.MockBingoUseCase{}
		handler := NewTwitchEventsHandler(mockEventSub, mockUseCase)

		mockEventSub.On("Verify", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(true)

		recorder := httptest.NewRecorder()
		handler.HandleTwitchEvent(recorder, postEventSubRequest(`{"subscription":{"id":"sub-123"}}`, messageTypeVerification))

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("NotificationIsForwarded", func(t *testing.T) {
		mockEventSub := &eventsub.MockEventSubService{}
		mockUseCase := &usecases.MockBingoUseCase{}
		handler := NewTwitchEventsHandler(mockEventSub, mockUseCase)

		mockEventSub.On("Verify", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(true)
		mockUseCase.On(
			"ProcessEventSubNotification",
			mock.Anything, "sub-123", "channel.cheer",
			map[string]any{"bits": float64(500)},
		).Return(nil)

		body := `{"subscription":{"id":"sub-123","type":"channel.cheer"},"event":{"bits":500}}`
		recorder := httptest.NewRecorder()
		handler.HandleTwitchEvent(recorder, postEventSubRequest(body, messageTypeNotification))

		assert.Equal(t, http.StatusOK, recorder.Code)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("NotificationProcessingFailureIsStillAcknowledged", func(t *testing.T) {
		mockEventSub := &eventsub.MockEventSubService{}
		mockUseCase := &usecases.MockBingoUseCase{}
		handler := NewTwitchEventsHandler(mockEventSub, mockUseCase)

		mockEventSub.On("Verify", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(true)
		mockUseCase.On(
			"ProcessEventSubNotification",
			mock.Anything, "sub-123", "channel.cheer", mock.Anything,
		).Return(assert.AnError)

		body := `{"subscription":{"id":"sub-123","type":"channel.cheer"},"event":{"bits":500}}`
		recorder := httptest.NewRecorder()
		handler.HandleTwitchEvent(recorder, postEventSubRequest(body, messageTypeNotification))

		assert.Equal(t, http.StatusOK, recorder.Code)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("RevocationDropsTheSecret", func(t *testing.T) {
		mockEventSub := &eventsub.MockEventSubService{}
		mockUseCase := &usecases.MockBingoUseCase{}
		handler := NewTwitchEventsHandler(mockEventSub, mockUseCase)

		mockEventSub.On("Verify", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(true)
		mockEventSub.On("DropSubscriptionSecret", "sub-123").Return()

		recorder := httptest.NewRecorder()
		handler.HandleTwitchEvent(recorder, postEventSubRequest(`{"subscription":{"id":"sub-123"}}`, messageTypeRevocation))

		assert.Equal(t, http.StatusOK, recorder.Code)
		mockEventSub.AssertExpectations(t)
	})

	t.Run("UnknownMessageTypeIsAcknowledged", func(t *testing.T) {
		mockEventSub := &eventsub.MockEventSubService{}
		mockUseCase := &usecases.MockBingoUseCase{}
		handler := NewTwitchEventsHandler(mockEventSub, mockUseCase)

		mockEventSub.On("Verify", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(true)

		recorder := httptest.NewRecorder()
		handler.HandleTwitchEvent(recorder, postEventSubRequest(`{"subscription":{"id":"sub-123"}}`, "mystery"))

		assert.Equal(t, http.StatusOK, recorder.Code)
	})
}
