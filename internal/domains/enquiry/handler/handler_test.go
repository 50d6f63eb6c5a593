package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"storefront-backend/internal/domains/enquiry/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type stubService struct {
	calls int
}

func (s *stubService) Create(ctx context.Context, req model.CreateEnquiryRequest) (*model.Enquiry, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	s.calls++
	return &model.Enquiry{ID: uuid.New(), Name: req.Name, Email: req.Email, Message: req.Message}, nil
}

func setup(svc *stubService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewEnquiryHandler(svc)
	r := gin.New()
	r.POST("/enquiries", h.Create)
	return r
}

func post(r *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/enquiries", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreate(t *testing.T) {
	svc := &stubService{}
	w := post(setup(svc), `{"name":"Jane","email":"jane@example.com","message":"Is this ring in stock?"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Enquiry created successfully.")
	assert.Equal(t, 1, svc.calls)
}

func TestCreate_Invalid(t *testing.T) {
	svc := &stubService{}
	w := post(setup(svc), `{"name":"","email":"jane"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
	assert.Contains(t, w.Body.String(), "The message field is required.")
	assert.Contains(t, w.Body.String(), "The email field must be a valid email address.")
	assert.Zero(t, svc.calls)
}

func TestCreate_MalformedBody(t *testing.T) {
	w := post(setup(&stubService{}), `{`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
