package api

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"asset-tracking-backend/internal/model"
)

func TestAssetsCRUD(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, env.createUser(t, "admin", "pw", model.RoleAdmin))

	body := map[string]string{
		"name": "ThinkPad X1", "type": "LAPTOP", "serial_number": "SN-100",
		"status": "AVAILABLE", "purchase_date": "2024-05-20",
	}
	w := env.do(t, http.MethodPost, "/api/assets/", token, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[AssetResponse](t, w)
	assert.Equal(t, "2024-05-20", created.PurchaseDate)
	assert.Equal(t, model.AssetAvailable, created.Status)

	w = env.do(t, http.MethodPost, "/api/assets/", token, body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode[errorBody](t, w).Fields, "serial_number")

	bad := map[string]string{
		"name": "Thing", "type": "TOASTER", "serial_number": "SN-101",
		"status": "AVAILABLE", "purchase_date": "20/05/2024",
	}
	w = env.do(t, http.MethodPost, "/api/assets/", token, bad)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode[errorBody](t, w).Fields, "type")

	bad["type"] = "MOUSE"
	w = env.do(t, http.MethodPost, "/api/assets/", token, bad)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode[errorBody](t, w).Fields, "purchase_date")

	path := fmt.Sprintf("/api/assets/%d/", created.ID)
	w = env.do(t, http.MethodPatch, path, token, map[string]string{"name": "ThinkPad X1 Gen 11"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ThinkPad X1 Gen 11", decode[AssetResponse](t, w).Name)
	assert.Equal(t, "SN-100", decode[AssetResponse](t, w).SerialNumber)

	// Re-sending its own serial number is not a conflict.
	w = env.do(t, http.MethodPatch, path, token, map[string]string{"serial_number": "SN-100"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodPut, path, token, map[string]string{"name": "only name"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode[errorBody](t, w).Fields, "serial_number")

	w = env.do(t, http.MethodGet, "/api/assets/", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]AssetResponse](t, w), 1)

	w = env.do(t, http.MethodDelete, path, token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	for _, p := range []string{path, "/api/assets/abc/", "/api/assets/0/"} {
		w = env.do(t, http.MethodGet, p, token, nil)
		assert.Equal(t, http.StatusNotFound, w.Code, p)
	}
}

func TestInventoryStatus(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, env.createUser(t, "admin", "pw", model.RoleAdmin))

	testCases := []struct {
		quantity, threshold int
		expected            model.StockStatus
	}{
		{5, 10, model.StockLow},
		{10, 10, model.StockLow},
		{11, 10, model.StockOK},
		{0, 0, model.StockLow},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%d/%d", tc.quantity, tc.threshold), func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/api/inventory/", token, map[string]any{
				"item_type": "Cables", "quantity": tc.quantity, "threshold": tc.threshold, "status": "OK",
			})
			require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
			item := decode[InventoryResponse](t, w)
			assert.Equal(t, tc.expected, item.Status)

			w = env.do(t, http.MethodGet, fmt.Sprintf("/api/inventory/%d/", item.ID), token, nil)
			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tc.expected, decode[InventoryResponse](t, w).Status)
		})
	}

	w := env.do(t, http.MethodPost, "/api/inventory/", token, map[string]any{"item_type": "Cables", "quantity": -1, "threshold": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode[errorBody](t, w).Fields, "quantity")

	w = env.do(t, http.MethodPost, "/api/inventory/", token, map[string]any{"item_type": "Cables", "quantity": "many", "threshold": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// A restock flips the derived status back.
	w = env.do(t, http.MethodPost, "/api/inventory/", token, map[string]any{"item_type": "Mice", "quantity": 1, "threshold": 3})
	require.Equal(t, http.StatusCreated, w.Code)
	item := decode[InventoryResponse](t, w)
	w = env.do(t, http.MethodPatch, fmt.Sprintf("/api/inventory/%d/", item.ID), token, map[string]any{"quantity": 30})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, model.StockOK, decode[InventoryResponse](t, w).Status)

	w = env.do(t, http.MethodDelete, fmt.Sprintf("/api/inventory/%d/", item.ID), token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = env.do(t, http.MethodDelete, fmt.Sprintf("/api/inventory/%d/", item.ID), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAssignmentLifecycle(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "admin", "pw", model.RoleAdmin)
	emp := env.createUser(t, "emp1", "pw", model.RoleEmployee)
	asset := env.createAsset(t, "Laptop A", "SN-1")
	token := env.token(t, admin)
	ctx := context.Background()

	w := env.do(t, http.MethodPost, "/api/assignments/", token, map[string]any{
		"asset": asset.ID, "employee": emp.ID, "status": "RETURNED",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[AssignmentResponse](t, w)
	assert.Equal(t, model.AssignmentActive, created.Status, "status is forced to ACTIVE")
	assert.Equal(t, "Laptop A", created.AssetName)
	assert.Equal(t, "emp1", created.EmployeeName)
	assert.True(t, created.DateAssigned.Equal(env.now))
	assert.Nil(t, created.DateReturned)

	got, err := env.store.GetAsset(ctx, asset.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AssetAssigned, got.Status)

	path := fmt.Sprintf("/api/assignments/%d/", created.ID)
	env.tick(72 * time.Hour)
	returnedAt := env.now
	w = env.do(t, http.MethodPatch, path, token, map[string]any{"status": "RETURNED"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	returned := decode[AssignmentResponse](t, w)
	require.NotNil(t, returned.DateReturned)
	assert.True(t, returned.DateReturned.Equal(returnedAt))

	got, err = env.store.GetAsset(ctx, asset.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AssetAvailable, got.Status)

	// A second RETURNED update keeps the first return date and leaves the asset alone.
	got.Status = model.AssetUnderRepair
	require.NoError(t, env.store.SaveAsset(ctx, got))
	env.tick(time.Hour)
	w = env.do(t, http.MethodPatch, path, token, map[string]any{"status": "RETURNED"})
	require.Equal(t, http.StatusOK, w.Code)
	again := decode[AssignmentResponse](t, w)
	require.NotNil(t, again.DateReturned)
	assert.True(t, again.DateReturned.Equal(returnedAt))

	got, err = env.store.GetAsset(ctx, asset.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AssetUnderRepair, got.Status)

	w = env.do(t, http.MethodGet, "/api/assignments/", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]AssignmentResponse](t, w), 1)
}

func TestAssignmentValidation(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, env.createUser(t, "admin", "pw", model.RoleAdmin))
	asset := env.createAsset(t, "Laptop A", "SN-1")

	w := env.do(t, http.MethodPost, "/api/assignments/", token, map[string]any{"asset": asset.ID, "employee": 999})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	fields := decode[errorBody](t, w).Fields
	assert.Equal(t, []string{`Invalid pk "999" - object does not exist.`}, fields["employee"])

	w = env.do(t, http.MethodPost, "/api/assignments/", token, map[string]any{"asset": nil})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	fields = decode[errorBody](t, w).Fields
	assert.Contains(t, fields, "asset")
	assert.Contains(t, fields, "employee")

	got, err := env.store.GetAsset(context.Background(), asset.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AssetAvailable, got.Status, "failed create leaves the asset untouched")
}

func TestTicketsCRUD(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "admin", "pw", model.RoleAdmin)
	tech := env.createUser(t, "tech1", "pw", model.RoleTechnician)
	asset := env.createAsset(t, "Laptop A", "SN-1")
	token := env.token(t, admin)

	w := env.do(t, http.MethodPost, "/api/tickets/", token, map[string]any{"asset": asset.ID, "issue": "Fan noise"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	first := decode[TicketResponse](t, w)
	assert.Equal(t, model.TicketOpen, first.Status)
	assert.Equal(t, "Laptop A", first.AssetName)
	assert.Nil(t, first.Technician)

	env.tick(time.Hour)
	w = env.do(t, http.MethodPost, "/api/tickets/", token, map[string]any{
		"asset": fmt.Sprint(asset.ID), "issue": "Cracked screen", "technician": tech.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	second := decode[TicketResponse](t, w)
	require.NotNil(t, second.Technician)
	assert.Equal(t, tech.ID, *second.Technician)

	w = env.do(t, http.MethodGet, "/api/tickets/", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[[]TicketResponse](t, w)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID, "newest opened first")

	path := fmt.Sprintf("/api/tickets/%d/", second.ID)
	w = env.do(t, http.MethodPatch, path, token, map[string]any{"technician": nil, "status": "CLOSED"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	patched := decode[TicketResponse](t, w)
	assert.Nil(t, patched.Technician)
	assert.Equal(t, model.TicketClosed, patched.Status)

	w = env.do(t, http.MethodPatch, path, token, map[string]any{"status": "DONE"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/tickets/", token, map[string]any{"issue": "no asset"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode[errorBody](t, w).Fields, "asset")

	w = env.do(t, http.MethodDelete, path, token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = env.do(t, http.MethodGet, path, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteAssetCascades(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "admin", "pw", model.RoleAdmin)
	asset := env.createAsset(t, "Laptop A", "SN-1")
	token := env.token(t, admin)

	w := env.do(t, http.MethodPost, "/api/assignments/", token, map[string]any{"asset": asset.ID, "employee": admin.ID})
	require.Equal(t, http.StatusCreated, w.Code)
	ticket := env.createTicket(t, asset.ID, admin, nil, model.TicketOpen)

	w = env.do(t, http.MethodDelete, fmt.Sprintf("/api/assets/%d/", asset.ID), token, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(t, http.MethodGet, fmt.Sprintf("/api/tickets/%d/", ticket.ID), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = env.do(t, http.MethodGet, "/api/assignments/", token, nil)
	assert.JSONEq(t, `[]`, w.Body.String())
}
