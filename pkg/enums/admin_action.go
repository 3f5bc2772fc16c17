package enums

// AdminAction identifies the kind of administrative mutation in the audit trail.
type AdminAction string

const (
	ActionCreateUser         AdminAction = "create_user"
	ActionUpdateUser         AdminAction = "update_user"
	ActionDeleteUser         AdminAction = "delete_user"
	ActionCreateOrder        AdminAction = "create_order"
	ActionUpdateOrder        AdminAction = "update_order"
	ActionDeleteOrder        AdminAction = "delete_order"
	ActionAssignOrder        AdminAction = "assign_order"
	ActionDeliverCredentials AdminAction = "deliver_credentials"
)
