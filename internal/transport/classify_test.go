package transport_test

import (
	"net/http"
	"testing"

	"github.com/meridian-io/cms/internal/transport"
	"github.com/meridian-io/cms/pkg/cms"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_Success(t *testing.T) {
	t.Parallel()

	for _, statusCode := range []int{http.StatusOK, http.StatusCreated, http.StatusAccepted, http.StatusNoContent} {
		assert.NoError(t, transport.Classify(statusCode, nil))
	}
}

func TestClassify_NotModified(t *testing.T) {
	t.Parallel()

	err := transport.Classify(http.StatusNotModified, nil)
	require.ErrorIs(t, err, cms.ErrNotModified)
}

func TestClassify_NamedStatuses(t *testing.T) {
	t.Parallel()

	tests := []struct {
		statusCode int
		sentinel   error
	}{
		{statusCode: http.StatusBadRequest, sentinel: cms.ErrBadRequest},
		{statusCode: http.StatusUnauthorized, sentinel: cms.ErrUnauthorized},
		{statusCode: http.StatusForbidden, sentinel: cms.ErrForbidden},
		{statusCode: http.StatusNotFound, sentinel: cms.ErrNotFound},
		{statusCode: http.StatusConflict, sentinel: cms.ErrConflict},
		{statusCode: http.StatusInternalServerError, sentinel: cms.ErrServerInternal},
		{statusCode: http.StatusServiceUnavailable, sentinel: cms.ErrServiceUnavailable},
	}

	for _, tt := range tests {
		err := transport.Classify(tt.statusCode, nil)
		require.ErrorIs(t, err, tt.sentinel, "status %d", tt.statusCode)
		assert.Equal(t, tt.statusCode, cms.StatusCode(err))
	}
}

func TestClassify_UnnamedStatus(t *testing.T) {
	t.Parallel()

	err := transport.Classify(http.StatusTeapot, []byte("short and stout"))

	serverErr := &cms.ServerError{}
	require.ErrorAs(t, err, &serverErr)
	assert.Equal(t, http.StatusTeapot, serverErr.StatusCode)
	assert.Equal(t, "short and stout", serverErr.Raw)
	assert.NotErrorIs(t, err, cms.ErrBadRequest)
}

func TestClassify_StructuredBody(t *testing.T) {
	t.Parallel()

	body := []byte(`{"type": "about:blank", "title": "Not Found", "status": 404, "detail": "item missing"}`)

	err := transport.Classify(http.StatusNotFound, body)

	serverErr := &cms.ServerError{}
	require.ErrorAs(t, err, &serverErr)
	require.NotNil(t, serverErr.Body)
	assert.Equal(t, "Not Found", serverErr.Body.Title)
	assert.Equal(t, "item missing", serverErr.Body.Detail)
	assert.Equal(t, string(body), serverErr.Raw)
}

func TestClassify_MalformedBodyDegradesToRaw(t *testing.T) {
	t.Parallel()

	err := transport.Classify(http.StatusBadGateway, []byte("<html>bad gateway</html>"))

	serverErr := &cms.ServerError{}
	require.ErrorAs(t, err, &serverErr)
	assert.Nil(t, serverErr.Body)
	assert.Equal(t, "<html>bad gateway</html>", serverErr.Raw)
}
