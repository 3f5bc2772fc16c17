package validators

// SignUpForm is the pre-registration payload checked before the auth
// collaborator ever sees it.
type SignUpForm struct {
	Name            string  `json:"name" validate:"required,min=2,max=100"`
	Email           string  `json:"email" validate:"required,email"`
	Password        string  `json:"password" validate:"required,min=8,max=128"`
	ConfirmPassword string  `json:"confirm_password" validate:"required,eqfield=Password"`
	CountryCode     *string `json:"country_code,omitempty" validate:"omitempty,iso3166_1_alpha2"`
}

// DeliverCredentialsForm is the admin delivery payload.
type DeliverCredentialsForm struct {
	EnterpriseEmail    string  `json:"enterprise_email" validate:"required,email"`
	EnterprisePassword string  `json:"enterprise_password" validate:"required,min=8,max=128"`
	Notes              *string `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

// CreateOrderForm is the admin order-creation payload. Payment references are
// optional so manually opened orders can still carry their external ids.
type CreateOrderForm struct {
	UserID              string  `json:"user_id" validate:"required"`
	PaymentID           *string `json:"payment_id,omitempty" validate:"omitempty,min=1,max=255"`
	PolarSubscriptionID *string `json:"polar_subscription_id,omitempty" validate:"omitempty,min=1,max=255"`
	Priority            *string `json:"priority,omitempty" validate:"omitempty,oneof=low normal high urgent"`
	Notes               *string `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

// UpdateOrderForm is the admin partial order update payload.
type UpdateOrderForm struct {
	Status          *string `json:"status,omitempty" validate:"omitempty,oneof=pending processing delivered cancelled failed"`
	Priority        *string `json:"priority,omitempty" validate:"omitempty,oneof=low normal high urgent"`
	Notes           *string `json:"notes,omitempty" validate:"omitempty,max=1000"`
	AssignedAdminID *string `json:"assigned_admin_id,omitempty" validate:"omitempty,min=1,max=128"`
}

// UpdateProfileForm is the self-service profile payload.
type UpdateProfileForm struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	CountryCode *string `json:"country_code,omitempty" validate:"omitempty,iso3166_1_alpha2"`
}

// AdminUpdateUserForm is the super-admin user update payload.
type AdminUpdateUserForm struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Role        *string `json:"role,omitempty" validate:"omitempty,oneof=user admin super_admin"`
	CountryCode *string `json:"country_code,omitempty" validate:"omitempty,iso3166_1_alpha2"`
}
