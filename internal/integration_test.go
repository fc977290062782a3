package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"asset-tracking-backend/config"
	"asset-tracking-backend/internal/accounts"
	"asset-tracking-backend/internal/api"
	"asset-tracking-backend/internal/auth"
	"asset-tracking-backend/internal/db"
	"asset-tracking-backend/internal/model"
	"asset-tracking-backend/internal/store"
)

// TestAssetLifecycle walks one laptop from purchase through assignment, a reported
// fault and its repair, checking what each role sees along the way.
func TestAssetLifecycle(t *testing.T) {
	gin.SetMode(gin.TestMode)

	dbCfg := &config.DatabaseConfig{
		Driver:                 "sqlite",
		DSN:                    fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString()),
		MaxOpenConns:           1,
		MaxIdleConns:           1,
		ConnMaxLifetimeMinutes: 5,
		LogLevel:               "silent",
	}
	gormDB, err := db.Init(dbCfg, zap.NewNop())
	require.NoError(t, err)
	sqlDB, _ := gormDB.DB()
	defer sqlDB.Close()

	appStore := store.NewGormStore(gormDB)
	passwords := auth.NewPasswordHasher(bcrypt.MinCost)
	svc := accounts.NewService(appStore, passwords)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	admin, created, err := svc.EnsureAdmin(ctx, config.AdminConfig{Username: "admin", Email: "admin@example.com", Password: "Admin@123"})
	require.NoError(t, err)
	require.True(t, created)

	router := api.NewRouter(api.Deps{
		Store: appStore,
		Tokens: auth.NewTokenIssuer(&config.AuthConfig{
			SecretKey:       "integration-secret",
			Issuer:          "assetd",
			AccessTokenTTL:  5 * time.Minute,
			RefreshTokenTTL: time.Hour,
		}),
		Passwords: passwords,
		Log:       zap.NewNop(),
		Server:    config.ServerConfig{RateLimitPerSec: 100, RateLimitBurst: 100},
	})

	call := func(method, path, token string, body any) *httptest.ResponseRecorder {
		t.Helper()
		var buf bytes.Buffer
		if body != nil {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
		req := httptest.NewRequest(method, path, &buf)
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}
	login := func(username, password string) string {
		t.Helper()
		w := call(http.MethodPost, "/api/login/", "", map[string]string{"username": username, "password": password})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var pair struct {
			Access string `json:"access"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pair))
		return pair.Access
	}
	idOf := func(w *httptest.ResponseRecorder) int64 {
		t.Helper()
		var v struct {
			ID int64 `json:"id"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
		return v.ID
	}

	adminToken := login(admin.Username, "Admin@123")

	// --- Accounts ---
	w := call(http.MethodPost, "/api/users/", adminToken, map[string]string{"username": "emp", "email": "emp@example.com", "password": "emp-pw"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = call(http.MethodPost, "/api/users/", adminToken, map[string]string{"username": "tech", "password": "tech-pw", "role": "TECHNICIAN"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	techID := idOf(w)

	empToken := login("emp", "emp-pw")
	techToken := login("tech", "tech-pw")

	// --- Asset is bought and handed out ---
	w = call(http.MethodPost, "/api/assets/", adminToken, map[string]string{
		"name": "Dell Latitude", "type": "LAPTOP", "serial_number": "DL-42", "status": "AVAILABLE", "purchase_date": "2025-01-15",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assetID := idOf(w)

	w = call(http.MethodGet, "/api/profile/", empToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	empID := idOf(w)

	w = call(http.MethodPost, "/api/assignments/", adminToken, map[string]any{"asset": assetID, "employee": empID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assignmentID := idOf(w)

	asset, err := appStore.GetAsset(ctx, assetID)
	require.NoError(t, err)
	assert.Equal(t, model.AssetAssigned, asset.Status)

	w = call(http.MethodGet, "/api/employee/assets/", empToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, fmt.Sprintf(`[{"id":%d,"name":"Dell Latitude"}]`, assetID), w.Body.String())

	// --- Employee reports a fault, admin routes it to the technician ---
	w = call(http.MethodPost, "/api/tickets/report/", empToken, map[string]any{"asset": assetID, "issue": "Battery swollen"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	tickets, err := appStore.ListTicketsReportedBy(ctx, empID)
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	ticketID := tickets[0].ID

	w = call(http.MethodPatch, fmt.Sprintf("/api/tickets/%d/", ticketID), adminToken, map[string]any{"technician": techID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// --- Technician works the ticket ---
	for _, status := range []string{"IN_PROGRESS", "CLOSED"} {
		w = call(http.MethodPatch, fmt.Sprintf("/api/technician/tickets/%d/status/", ticketID), techToken, map[string]string{"status": status})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	ticket, err := appStore.GetTicket(ctx, ticketID)
	require.NoError(t, err)
	assert.Equal(t, model.TicketClosed, ticket.Status)
	assert.NotNil(t, ticket.AssignedOn)
	assert.NotNil(t, ticket.ResolvedOn)

	w = call(http.MethodGet, "/api/technician/recent-activity/", techToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var feed []struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &feed))
	require.Len(t, feed, 2)
	assert.Equal(t, "Ticket for Dell Latitude marked CLOSED", feed[0].Message)

	w = call(http.MethodGet, "/api/employee/tickets/", empToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"technician":"tech"`)

	// --- Laptop comes back ---
	w = call(http.MethodPatch, fmt.Sprintf("/api/assignments/%d/", assignmentID), adminToken, map[string]string{"status": "RETURNED"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	asset, err = appStore.GetAsset(ctx, assetID)
	require.NoError(t, err)
	assert.Equal(t, model.AssetAvailable, asset.Status)

	w = call(http.MethodGet, "/api/dashboard/", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats struct {
		TotalAssets    int64 `json:"total_assets"`
		AssignedAssets int64 `json:"assigned_assets"`
		OpenTickets    int64 `json:"open_tickets"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, int64(1), stats.TotalAssets)
	assert.Equal(t, int64(0), stats.AssignedAssets)
	assert.Equal(t, int64(0), stats.OpenTickets)
}
