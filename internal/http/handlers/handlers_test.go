package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/passvault-be/internal/auth"
	"github.com/hongminglow/passvault-be/internal/http/respond"
	"github.com/hongminglow/passvault-be/internal/identity"
	"github.com/hongminglow/passvault-be/internal/middleware"
	"github.com/hongminglow/passvault-be/internal/models"
	"github.com/hongminglow/passvault-be/internal/models/dto"
)

// fakeOrchestrator returns canned results per call.
type fakeOrchestrator struct {
	signupResult identity.SignupResult
	signupErr    error
	loginUser    models.User
	loginPair    auth.TokenPair
	loginErr     error
	refreshPair  auth.TokenPair
	refreshErr   error
	profile      models.User
	profileErr   error
	sendErr      error
	entries      []models.SecretEntry
	verifyErr    error
	entry        models.SecretEntry
	addErr       error
	artifact     models.FaceArtifact
	enrollErr    error
	faceMatch    bool
	faceDist     float64
	faceErr      error
}

func (f *fakeOrchestrator) Signup(context.Context, dto.SignupRequest) (identity.SignupResult, error) {
	return f.signupResult, f.signupErr
}
func (f *fakeOrchestrator) Login(context.Context, string, string) (models.User, auth.TokenPair, error) {
	return f.loginUser, f.loginPair, f.loginErr
}
func (f *fakeOrchestrator) Refresh(context.Context, string) (auth.TokenPair, error) {
	return f.refreshPair, f.refreshErr
}
func (f *fakeOrchestrator) Profile(context.Context, int64) (models.User, error) {
	return f.profile, f.profileErr
}
func (f *fakeOrchestrator) SendOTPEmail(context.Context, int64) error { return f.sendErr }
func (f *fakeOrchestrator) VerifySecretAccess(context.Context, int64, string) ([]models.SecretEntry, error) {
	return f.entries, f.verifyErr
}
func (f *fakeOrchestrator) AddSecret(context.Context, int64, dto.AddSecretRequest) (models.SecretEntry, error) {
	return f.entry, f.addErr
}
func (f *fakeOrchestrator) EnrollFace(context.Context, int64, []byte, string) (models.FaceArtifact, error) {
	return f.artifact, f.enrollErr
}
func (f *fakeOrchestrator) VerifyFace(context.Context, int64, []byte) (bool, float64, error) {
	return f.faceMatch, f.faceDist, f.faceErr
}

var testTokens = auth.NewTokenManager("test-secret", "passvault-test", time.Hour)

func newTestRouter(svc Orchestrator) http.Handler {
	h := New(svc)
	r := chi.NewRouter()
	r.Post("/api/users/signup", h.Signup)
	r.Post("/api/users/login", h.Login)
	r.Post("/api/users/token/refresh", h.RefreshToken)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(testTokens))
		r.Get("/api/users/me", h.Me)
		r.Get("/api/users/send-otp-email", h.SendOTPEmail)
		r.Get("/api/users/verify-otp", h.VerifyOTP)
		r.Post("/api/users/add_password", h.AddPassword)
		r.Post("/api/users/image-upload", h.ImageUpload)
		r.Post("/api/users/verify-face-id", h.VerifyFaceID)
	})
	return r
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, body any) (*httptest.ResponseRecorder, respond.Envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env respond.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func bearerFor(t *testing.T, userID int64) string {
	t.Helper()
	token, _, err := testTokens.Generate(userID)
	require.NoError(t, err)
	return token
}

func TestSignupReturnsTokenPair(t *testing.T) {
	svc := &fakeOrchestrator{signupResult: identity.SignupResult{
		User:   models.User{ID: 1, Username: "alice", Email: "a@x.com"},
		Tokens: auth.TokenPair{AccessToken: "acc", RefreshToken: "ref", ExpiresAt: time.Now().Add(time.Hour)},
	}}
	router := newTestRouter(svc)

	rec, env := doJSON(t, router, http.MethodPost, "/api/users/signup", "", dto.SignupRequest{
		Username: "alice", Email: "a@x.com", Phone: "+1555", Password: "longpassword1",
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Signup successful!", env.Message)
	assert.Empty(t, env.Kind)
}

func TestSignupConflictMapsTo409(t *testing.T) {
	svc := &fakeOrchestrator{signupErr: auth.ErrEmailTaken}
	router := newTestRouter(svc)

	rec, env := doJSON(t, router, http.MethodPost, "/api/users/signup", "", dto.SignupRequest{})

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "conflict_error", env.Kind)
}

func TestLoginFailureIsUniform(t *testing.T) {
	svc := &fakeOrchestrator{loginErr: auth.ErrInvalidCredentials}
	router := newTestRouter(svc)

	rec, env := doJSON(t, router, http.MethodPost, "/api/users/login", "", dto.LoginRequest{
		Email: "a@x.com", Password: "wrong-password",
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "auth_error", env.Kind)
	assert.Equal(t, auth.ErrInvalidCredentials.Error(), env.Message)
}

func TestProtectedEndpointsRequireBearer(t *testing.T) {
	router := newTestRouter(&fakeOrchestrator{})

	for _, path := range []string{"/api/users/me", "/api/users/send-otp-email", "/api/users/verify-otp"} {
		rec, env := doJSON(t, router, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
		assert.Equal(t, "auth_error", env.Kind, path)
	}
}

func TestMeReturnsPublicProfile(t *testing.T) {
	svc := &fakeOrchestrator{profile: models.User{ID: 9, Username: "alice", Email: "a@x.com", PasswordHash: "hash"}}
	router := newTestRouter(svc)

	rec, env := doJSON(t, router, http.MethodGet, "/api/users/me", bearerFor(t, 9), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	data, ok := env.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "alice", data["username"])
	assert.NotContains(t, data, "password_hash")
}

func TestVerifyOTPReturnsEntries(t *testing.T) {
	svc := &fakeOrchestrator{entries: []models.SecretEntry{{ID: "e1", DomainName: "example.com"}}}
	router := newTestRouter(svc)

	rec, env := doJSON(t, router, http.MethodGet, "/api/users/verify-otp?otp=123456", bearerFor(t, 1), nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OTP verified", env.Message)
}

func TestVerifyOTPWrongCodeMapsTo401(t *testing.T) {
	svc := &fakeOrchestrator{verifyErr: identity.ErrInvalidCode}
	router := newTestRouter(svc)

	rec, env := doJSON(t, router, http.MethodGet, "/api/users/verify-otp?otp=000000", bearerFor(t, 1), nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "auth_error", env.Kind)
}

func TestVerifyFaceWithoutEnrollmentMapsTo404(t *testing.T) {
	svc := &fakeOrchestrator{faceErr: identity.ErrNoEnrolledFace}
	router := newTestRouter(svc)

	body := map[string]string{"image": "aGVsbG8="}
	rec, env := doJSON(t, router, http.MethodPost, "/api/users/verify-face-id", bearerFor(t, 1), body)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", env.Kind)
}

func TestImageUploadAcceptsMultipart(t *testing.T) {
	svc := &fakeOrchestrator{artifact: models.FaceArtifact{ID: "a1", Path: "images/x.png"}}
	router := newTestRouter(svc)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("image", "me.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("fake image bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/users/image-upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+bearerFor(t, 1))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestImageUploadRequiresImage(t *testing.T) {
	router := newTestRouter(&fakeOrchestrator{})

	rec, env := doJSON(t, router, http.MethodPost, "/api/users/image-upload", bearerFor(t, 1), map[string]string{})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "input_error", env.Kind)
}

func TestAddPasswordRejectsBadJSON(t *testing.T) {
	router := newTestRouter(&fakeOrchestrator{})

	req := httptest.NewRequest(http.MethodPost, "/api/users/add_password", strings.NewReader("{not json"))
	req.Header.Set("Authorization", "Bearer "+bearerFor(t, 1))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSendOTPDeliveryFailureMapsTo502(t *testing.T) {
	svc := &fakeOrchestrator{sendErr: identity.ErrDelivery}
	router := newTestRouter(svc)

	rec, env := doJSON(t, router, http.MethodGet, "/api/users/send-otp-email", bearerFor(t, 1), nil)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "transient_error", env.Kind)
}
