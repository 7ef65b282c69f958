package middleware_test

import (
	"citygate/internal/api/handlers"
	"citygate/internal/models"
	"citygate/internal/testutil"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestAuthMiddleware_AuthRequired(t *testing.T) {
	tests := []struct {
		name       string
		setupAuth  func(*testutil.TestContext) string
		wantStatus int
		wantErr    string
	}{
		{
			name: "Valid Token",
			setupAuth: func(tc *testutil.TestContext) string {
				account := tc.CreateTestAccount("testuser", "test@example.com", "password123", models.RoleUser)
				return "Bearer " + tc.GetTestToken(account.ID)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "Missing Authorization Header",
			setupAuth: func(tc *testutil.TestContext) string {
				return ""
			},
			wantStatus: http.StatusUnauthorized,
			wantErr:    "UNAUTHORIZED",
		},
		{
			name: "Invalid Authorization Header Format",
			setupAuth: func(tc *testutil.TestContext) string {
				return "InvalidFormat Token"
			},
			wantStatus: http.StatusUnauthorized,
			wantErr:    "UNAUTHORIZED",
		},
		{
			name: "Invalid Token",
			setupAuth: func(tc *testutil.TestContext) string {
				return "Bearer invalid-token"
			},
			wantStatus: http.StatusConflict,
			wantErr:    "BAD_TOKEN",
		},
		{
			name: "Expired Token",
			setupAuth: func(tc *testutil.TestContext) string {
				account := tc.CreateTestAccount("testuser", "test@example.com", "password123", models.RoleUser)
				token := tc.GetTestToken(account.ID)
				tc.Clock.Advance(61 * time.Minute)
				return "Bearer " + token
			},
			wantStatus: http.StatusConflict,
			wantErr:    "BAD_TOKEN",
		},
		{
			name: "Unknown Account",
			setupAuth: func(tc *testutil.TestContext) string {
				return "Bearer " + tc.GetTestToken(uuid.New())
			},
			wantStatus: http.StatusNotFound,
			wantErr:    "USER_DOES_NOT_EXIST",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := testutil.NewTestContext(t)
			header := tt.setupAuth(tc)

			router := gin.New()
			router.Use(tc.AuthMiddleware.AuthRequired())
			router.GET("/test", func(c *gin.Context) {
				account, ok := handlers.CurrentAccount(c)
				require.True(t, ok)
				c.JSON(http.StatusOK, gin.H{"email": account.Email})
			})

			w := httptest.NewRecorder()
			req, _ := http.NewRequest("GET", "/test", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			router.ServeHTTP(w, req)

			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantErr != "" {
				var resp models.ErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				require.Equal(t, tt.wantErr, resp.Errors.Msg)
			} else {
				require.JSONEq(t, `{"email":"test@example.com"}`, w.Body.String())
			}
		})
	}
}

func TestAuthMiddleware_RoleRequired(t *testing.T) {
	tc := testutil.NewTestContext(t)
	user := tc.CreateTestAccount("user", "user@example.com", "password123", models.RoleUser)
	admin := tc.CreateTestAccount("admin", "admin@example.com", "password123", models.RoleAdmin)

	router := gin.New()
	router.GET("/admin", tc.AuthMiddleware.AuthRequired(), tc.AuthMiddleware.RoleRequired(models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	router.GET("/no-auth", tc.AuthMiddleware.RoleRequired(models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	tests := []struct {
		name       string
		path       string
		token      string
		wantStatus int
	}{
		{name: "Admin", path: "/admin", token: tc.GetTestToken(admin.ID), wantStatus: http.StatusOK},
		{name: "User", path: "/admin", token: tc.GetTestToken(user.ID), wantStatus: http.StatusUnauthorized},
		{name: "Without AuthRequired", path: "/no-auth", token: tc.GetTestToken(admin.ID), wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest("GET", tt.path, nil)
			req.Header.Set("Authorization", "Bearer "+tt.token)
			router.ServeHTTP(w, req)
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
		})
	}

	t.Run("Demoted admin loses access with an old token", func(t *testing.T) {
		token := tc.GetTestToken(admin.ID)
		demoted := tc.Account(admin.ID)
		demoted.Role = models.RoleUser
		require.NoError(t, tc.Accounts.Save(context.Background(), demoted))

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
