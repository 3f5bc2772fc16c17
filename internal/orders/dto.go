package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/afigueroa/mailprov-backend/pkg/db/models"
	"github.com/afigueroa/mailprov-backend/pkg/enums"
)

// UserSummary is the slim user shape embedded in order responses.
type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// OrderDTO is the transport shape for a fulfillment order.
type OrderDTO struct {
	ID                  uuid.UUID           `json:"id"`
	UserID              string              `json:"user_id"`
	Status              enums.OrderStatus   `json:"status"`
	PaymentID           *string             `json:"payment_id,omitempty"`
	PolarSubscriptionID *string             `json:"polar_subscription_id,omitempty"`
	AssignedAdminID     *string             `json:"assigned_admin_id,omitempty"`
	AdminNotes          *string             `json:"admin_notes,omitempty"`
	Priority            enums.OrderPriority `json:"priority"`
	DeliveredAt         *time.Time          `json:"delivered_at,omitempty"`
	CreatedAt           time.Time           `json:"created_at"`
	UpdatedAt           time.Time           `json:"updated_at"`

	User          *UserSummary `json:"user,omitempty"`
	AssignedAdmin *UserSummary `json:"assigned_admin,omitempty"`
}

// OrderList wraps a page of orders with the total count.
type OrderList struct {
	Orders []OrderDTO `json:"orders"`
	Total  int64      `json:"total"`
	Page   int        `json:"page"`
	Limit  int        `json:"limit"`
}

// CreateOrderInput carries an admin-created order plus actor info.
type CreateOrderInput struct {
	UserID              string
	PaymentID           *string
	PolarSubscriptionID *string
	Priority            *enums.OrderPriority
	Notes               *string
	ActorID             string
	ActorRole           enums.UserRole
	ActorIP             *string
}

// UpdateOrderInput carries a partial order update plus actor info. Status
// changes are checked against the transition rules before they land, and an
// explicit reassignment must name an existing admin.
type UpdateOrderInput struct {
	Status          *enums.OrderStatus
	Priority        *enums.OrderPriority
	Notes           *string
	AssignedAdminID *string
	ActorID         string
	ActorRole       enums.UserRole
	ActorIP         *string
}

func summarize(u *models.User) *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
}

// FromModel converts a persisted order to its transport shape.
func FromModel(o *models.EmailOrder) *OrderDTO {
	if o == nil {
		return nil
	}
	return &OrderDTO{
		ID:                  o.ID,
		UserID:              o.UserID,
		Status:              o.Status,
		PaymentID:           o.PaymentID,
		PolarSubscriptionID: o.PolarSubscriptionID,
		AssignedAdminID:     o.AssignedAdminID,
		AdminNotes:          o.AdminNotes,
		Priority:            o.Priority,
		DeliveredAt:         o.DeliveredAt,
		CreatedAt:           o.CreatedAt,
		UpdatedAt:           o.UpdatedAt,
		User:                summarize(o.User),
		AssignedAdmin:       summarize(o.AssignedAdmin),
	}
}
