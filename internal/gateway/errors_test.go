package gateway

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromStatusKinds(t *testing.T) {
	tests := []struct {
		status   int
		kind     Kind
		sentinel error
		httpCode int
	}{
		{http.StatusTooManyRequests, KindRateLimited, ErrRateLimited, http.StatusTooManyRequests},
		{http.StatusPaymentRequired, KindPaymentRequired, ErrPaymentRequired, http.StatusPaymentRequired},
		{http.StatusBadRequest, KindGatewayError, ErrGateway, http.StatusInternalServerError},
		{http.StatusBadGateway, KindGatewayError, ErrGateway, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.status), func(t *testing.T) {
			err := FromStatus(tt.status, "body text")
			assert.Equal(t, tt.kind, err.Kind)
			assert.ErrorIs(t, err, tt.sentinel)
			assert.Equal(t, tt.httpCode, err.HTTPStatus())
			assert.Equal(t, "body text", err.Body)
			assert.Equal(t, tt.kind, KindOf(fmt.Errorf("wrapped: %w", err)))
		})
	}
}

func TestUnknownWrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Unknown(cause)

	assert.ErrorIs(t, err, ErrUnknown)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrGateway)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
}

func TestPublicMessage(t *testing.T) {
	assert.Equal(t, "Rate limit exceeded. Please try again later.", FromStatus(429, "").PublicMessage())
	assert.Equal(t, "Payment required. Please add credits to your workspace.", FromStatus(402, "").PublicMessage())
	assert.Equal(t, "AI gateway error", FromStatus(503, "details").PublicMessage())
	assert.Equal(t, "boom", Unknown(errors.New("boom")).PublicMessage())
	assert.Equal(t, "Unknown error", (&Error{Kind: KindUnknown}).PublicMessage())
}
