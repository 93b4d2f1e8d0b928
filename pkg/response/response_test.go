package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"credential-market/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func TestOK(t *testing.T) {
	c, w := newTestContext()
	c.Set("request_id", "req-123")

	OK(c, gin.H{"balance": int64(4000)})

	assert.Equal(t, http.StatusOK, w.Code)

	var resp SuccessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "req-123", resp.RequestID)
	assert.NotEmpty(t, resp.Timestamp)
}

func TestError_AppError(t *testing.T) {
	c, w := newTestContext()

	Error(c, apperror.ErrGoodUnavailable())

	assert.Equal(t, http.StatusConflict, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "PUR_003", resp.ErrorCode)
	assert.NotEmpty(t, resp.RequestID)
}

func TestError_UnknownError(t *testing.T) {
	c, w := newTestContext()

	Error(c, errors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "SYS_000", resp.ErrorCode)
	assert.Equal(t, "Internal server error", resp.Message)
}
