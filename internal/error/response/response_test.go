package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vizinho-http-service/internal/domain/models"
	"vizinho-http-service/internal/error/code"
)

func TestCodeOf(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, code.ErrSuccess},
		{models.ValidationError("bad"), code.ErrValidation},
		{models.PermissionDenied("no"), code.ErrPermissionDenied},
		{models.NotFound("gone"), code.ErrNotFound},
		{models.InvalidTransition("done"), code.ErrInvalidTransition},
		{models.StaleState("changed"), code.ErrStaleState},
		{models.PaymentFailed("declined"), code.ErrPaymentFailed},
		{fmt.Errorf("wrapped: %w", models.NotFound("gone")), code.ErrNotFound},
		{errors.New("connection refused"), code.ErrUnknown},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CodeOf(tt.err), "%v", tt.err)
	}
}

func TestErrorWritesStatusAndMessage(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		err         error
		wantStatus  int
		wantCode    int
		wantMessage string
	}{
		{models.ValidationError("title is required"), http.StatusBadRequest, code.ErrValidation, "title is required"},
		{models.PermissionDenied("only administrators"), http.StatusForbidden, code.ErrPermissionDenied, "only administrators"},
		{models.NotFound("report 1 not found"), http.StatusNotFound, code.ErrNotFound, "report 1 not found"},
		{models.InvalidTransition("already resolved"), http.StatusConflict, code.ErrInvalidTransition, "already resolved"},
		{models.StaleState("changed"), http.StatusConflict, code.ErrStaleState, "changed"},
		{models.PaymentFailed("declined"), http.StatusBadGateway, code.ErrPaymentFailed, "declined"},
		{errors.New("boom"), http.StatusInternalServerError, code.ErrUnknown, code.GetMessage(code.ErrUnknown)},
	}

	for _, tt := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/api/test", nil)

		Error(c, tt.err)

		assert.Equal(t, tt.wantStatus, w.Code, "%v", tt.err)
		var body Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, tt.wantCode, body.Code)
		assert.Equal(t, tt.wantMessage, body.Message)
	}
}

func TestCreated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Created(c, gin.H{"id": 1})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"code":100000,"message":"`+code.GetMessage(code.ErrSuccess)+`","data":{"id":1}}`, w.Body.String())
}
