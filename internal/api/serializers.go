package api

import (
	"bytes"
	"encoding/json"
	"time"

	"asset-tracking-backend/internal/model"
	"asset-tracking-backend/internal/parse"
)

// UserResponse is the public view of an account.
type UserResponse struct {
	ID       int64      `json:"id"`
	Username string     `json:"username"`
	Email    string     `json:"email"`
	Role     model.Role `json:"role"`
}

func newUserResponse(u *model.User) UserResponse {
	return UserResponse{ID: u.ID, Username: u.Username, Email: u.Email, Role: u.Role}
}

// AssetResponse mirrors every persisted asset column.
type AssetResponse struct {
	ID           int64             `json:"id"`
	Name         string            `json:"name"`
	Type         model.AssetType   `json:"type"`
	SerialNumber string            `json:"serial_number"`
	Status       model.AssetStatus `json:"status"`
	PurchaseDate string            `json:"purchase_date"`
}

func newAssetResponse(a *model.Asset) AssetResponse {
	return AssetResponse{
		ID:           a.ID,
		Name:         a.Name,
		Type:         a.Type,
		SerialNumber: a.SerialNumber,
		Status:       a.Status,
		PurchaseDate: a.PurchaseDate.Format(parse.DateLayout),
	}
}

// InventoryResponse carries the derived stock status.
type InventoryResponse struct {
	ID        int64             `json:"id"`
	ItemType  string            `json:"item_type"`
	Quantity  int               `json:"quantity"`
	Threshold int               `json:"threshold"`
	Status    model.StockStatus `json:"status"`
}

func newInventoryResponse(i *model.InventoryItem) InventoryResponse {
	return InventoryResponse{
		ID:        i.ID,
		ItemType:  i.ItemType,
		Quantity:  i.Quantity,
		Threshold: i.Threshold,
		Status:    i.StockStatus(),
	}
}

// AssignmentResponse includes the asset and employee display names.
type AssignmentResponse struct {
	ID           int64                  `json:"id"`
	Asset        int64                  `json:"asset"`
	AssetName    string                 `json:"asset_name"`
	Employee     int64                  `json:"employee"`
	EmployeeName string                 `json:"employee_name"`
	Status       model.AssignmentStatus `json:"status"`
	DateAssigned time.Time              `json:"date_assigned"`
	DateReturned *time.Time             `json:"date_returned"`
}

func newAssignmentResponse(a *model.Assignment) AssignmentResponse {
	resp := AssignmentResponse{
		ID:           a.ID,
		Asset:        a.AssetID,
		Employee:     a.EmployeeID,
		Status:       a.Status,
		DateAssigned: a.DateAssigned,
		DateReturned: a.DateReturned,
	}
	if a.Asset != nil {
		resp.AssetName = a.Asset.Name
	}
	if a.Employee != nil {
		resp.EmployeeName = a.Employee.Username
	}
	return resp
}

// TicketResponse mirrors every ticket column plus the asset name.
type TicketResponse struct {
	ID         int64              `json:"id"`
	AssetName  string             `json:"asset_name"`
	Asset      int64              `json:"asset"`
	ReportedBy *int64             `json:"reported_by"`
	Technician *int64             `json:"technician"`
	Issue      string             `json:"issue"`
	Status     model.TicketStatus `json:"status"`
	OpenedOn   time.Time          `json:"opened_on"`
	AssignedOn *time.Time         `json:"assigned_on"`
	ResolvedOn *time.Time         `json:"resolved_on"`
}

func newTicketResponse(t *model.RepairTicket) TicketResponse {
	resp := TicketResponse{
		ID:         t.ID,
		Asset:      t.AssetID,
		ReportedBy: t.ReportedByID,
		Technician: t.TechnicianID,
		Issue:      t.Issue,
		Status:     t.Status,
		OpenedOn:   t.OpenedOn,
		AssignedOn: t.AssignedOn,
		ResolvedOn: t.ResolvedOn,
	}
	if t.Asset != nil {
		resp.AssetName = t.Asset.Name
	}
	return resp
}

// ActivityResponse is one line of a recent-activity feed.
type ActivityResponse struct {
	Message string `json:"message"`
	Time    any    `json:"time"`
}

var jsonNull = []byte("null")

// optionalID is a foreign key field that distinguishes absent, null and set.
type optionalID struct {
	set bool
	raw json.RawMessage
}

func (o *optionalID) UnmarshalJSON(b []byte) error {
	o.set = true
	o.raw = append(o.raw[:0], b...)
	return nil
}

func (o optionalID) isNull() bool {
	return bytes.Equal(bytes.TrimSpace(o.raw), jsonNull)
}

// optionalTime is a nullable timestamp field that distinguishes absent from null.
type optionalTime struct {
	set bool
	raw json.RawMessage
}

func (o *optionalTime) UnmarshalJSON(b []byte) error {
	o.set = true
	o.raw = append(o.raw[:0], b...)
	return nil
}

// value returns nil for null. Accepts RFC 3339 timestamps and bare dates.
func (o optionalTime) value() (*time.Time, bool) {
	if bytes.Equal(bytes.TrimSpace(o.raw), jsonNull) {
		return nil, true
	}
	var s string
	if err := json.Unmarshal(o.raw, &s); err != nil {
		return nil, false
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		t = t.UTC()
		return &t, true
	}
	if d, err := parse.Date(s); err == nil {
		return &d, true
	}
	return nil, false
}
