package audit

import (
	"time"

	"github.com/afigueroa/mailprov-backend/pkg/enums"
)

// Detail is the action-specific payload stored in the activity row. Each
// action declares its own variant so audit records stay machine-checkable
// instead of untyped maps.
type Detail interface {
	Action() enums.AdminAction
}

// FieldChange captures a single before/after pair in a diff.
type FieldChange struct {
	From any `json:"from"`
	To   any `json:"to"`
}

// OrderDiffDetails records the fields changed by an order update.
type OrderDiffDetails struct {
	Fields map[string]FieldChange `json:"fields"`
}

func (OrderDiffDetails) Action() enums.AdminAction { return enums.ActionUpdateOrder }

// OrderCreatedDetails records the initial shape of an admin-created order.
type OrderCreatedDetails struct {
	UserID   string              `json:"user_id"`
	Priority enums.OrderPriority `json:"priority"`
}

func (OrderCreatedDetails) Action() enums.AdminAction { return enums.ActionCreateOrder }

// OrderSnapshotDetails preserves the row removed by an order delete.
type OrderSnapshotDetails struct {
	UserID      string              `json:"user_id"`
	Status      enums.OrderStatus   `json:"status"`
	Priority    enums.OrderPriority `json:"priority"`
	AdminNotes  *string             `json:"admin_notes,omitempty"`
	DeliveredAt *time.Time          `json:"delivered_at,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
}

func (OrderSnapshotDetails) Action() enums.AdminAction { return enums.ActionDeleteOrder }

// OrderAssignedDetails records a claim or reassignment.
type OrderAssignedDetails struct {
	AssignedAdminID string `json:"assigned_admin_id"`
}

func (OrderAssignedDetails) Action() enums.AdminAction { return enums.ActionAssignOrder }

// UserDiffDetails records the fields changed by a user update.
type UserDiffDetails struct {
	Fields map[string]FieldChange `json:"fields"`
}

func (UserDiffDetails) Action() enums.AdminAction { return enums.ActionUpdateUser }

// DeliveryDetails records the full outcome of a credential delivery,
// including the email result when the business mutation already committed.
type DeliveryDetails struct {
	EnterpriseEmail string `json:"enterprise_email"`
	Notes           string `json:"notes"`
	EmailSent       bool   `json:"emailSent"`
	EmailError      string `json:"emailError,omitempty"`
	ResendID        string `json:"resend_id,omitempty"`
}

func (DeliveryDetails) Action() enums.AdminAction { return enums.ActionDeliverCredentials }
