package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/wshuai/interview_go_server/config"
	"github.com/wshuai/interview_go_server/internal/api/middleware"
	"github.com/wshuai/interview_go_server/internal/model/dto"
	"github.com/wshuai/interview_go_server/internal/pkg/response"
	"github.com/wshuai/interview_go_server/internal/repository"
	"github.com/wshuai/interview_go_server/internal/service"
	"github.com/wshuai/interview_go_server/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testContext 本地测试上下文
type testContext struct {
	DB *gorm.DB
}

// mockAuth 模拟认证中间件
func mockAuth(userID int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, userID)
		c.Next()
	}
}

func performRequest(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBytes)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	return resp
}

func setupAuthHandler(t *testing.T) (*AuthHandler, *testContext, func()) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	profileRepo := repository.NewProfileRepository(db)
	sessionRepo := repository.NewSessionRepository(db)

	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpireHours = 24

	authService := service.NewAuthService(profileRepo, cfg)
	profileService := service.NewProfileService(profileRepo, sessionRepo, nil)
	h := NewAuthHandler(authService, profileService)

	ctx := &testContext{DB: db}
	cleanup := func() {
		testutil.CleanupTestDB(t, db)
	}
	return h, ctx, cleanup
}

func TestAuthHandler_Register_Success(t *testing.T) {
	h, _, cleanup := setupAuthHandler(t)
	defer cleanup()

	router := gin.New()
	router.POST("/register", h.Register)

	req := dto.RegisterRequest{
		Username: "wangwu",
		Email:    "wangwu@example.com",
		Password: "password123",
		FullName: "王五",
	}

	w := performRequest(router, "POST", "/register", req)
	resp := parseResponse(t, w)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, response.CodeSuccess, resp.Code)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.NotZero(t, data["profile_id"])
}

func TestAuthHandler_Register_InvalidBody(t *testing.T) {
	h, _, cleanup := setupAuthHandler(t)
	defer cleanup()

	router := gin.New()
	router.POST("/register", h.Register)

	// 密码太短
	req := dto.RegisterRequest{
		Username: "wangwu",
		Email:    "wangwu@example.com",
		Password: "short",
		FullName: "王五",
	}

	w := performRequest(router, "POST", "/register", req)
	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeParamError, resp.Code)
}

func TestAuthHandler_Register_DuplicateEmail(t *testing.T) {
	h, _, cleanup := setupAuthHandler(t)
	defer cleanup()

	router := gin.New()
	router.POST("/register", h.Register)

	req := dto.RegisterRequest{
		Username: "wangwu",
		Email:    "wangwu@example.com",
		Password: "password123",
		FullName: "王五",
	}
	performRequest(router, "POST", "/register", req)

	req.Username = "zhaoliu"
	w := performRequest(router, "POST", "/register", req)
	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeDuplicateAction, resp.Code)
}

func TestAuthHandler_Login_Success(t *testing.T) {
	h, _, cleanup := setupAuthHandler(t)
	defer cleanup()

	router := gin.New()
	router.POST("/register", h.Register)
	router.POST("/login", h.Login)

	performRequest(router, "POST", "/register", dto.RegisterRequest{
		Username: "wangwu",
		Email:    "wangwu@example.com",
		Password: "password123",
		FullName: "王五",
	})

	w := performRequest(router, "POST", "/login", dto.LoginRequest{
		Email:    "wangwu@example.com",
		Password: "password123",
	})
	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeSuccess, resp.Code)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.NotEmpty(t, data["token"])
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	h, _, cleanup := setupAuthHandler(t)
	defer cleanup()

	router := gin.New()
	router.POST("/register", h.Register)
	router.POST("/login", h.Login)

	performRequest(router, "POST", "/register", dto.RegisterRequest{
		Username: "wangwu",
		Email:    "wangwu@example.com",
		Password: "password123",
		FullName: "王五",
	})

	w := performRequest(router, "POST", "/login", dto.LoginRequest{
		Email:    "wangwu@example.com",
		Password: "wrong-password",
	})
	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeAuthFailed, resp.Code)
}

func TestAuthHandler_Me(t *testing.T) {
	h, ctx, cleanup := setupAuthHandler(t)
	defer cleanup()

	interviewer := testutil.TestInterviewer(t, ctx.DB)

	router := gin.New()
	router.Use(mockAuth(interviewer.ID))
	router.GET("/profile", h.Me)

	w := performRequest(router, "GET", "/profile", nil)
	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeSuccess, resp.Code)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "interviewer", data["role"])
	assert.Equal(t, "idle", data["interviewer_status"])
}
