package enums

// TargetType names the entity class an admin action operated on.
type TargetType string

const (
	TargetUser   TargetType = "user"
	TargetOrder  TargetType = "order"
	TargetEmail  TargetType = "email"
	TargetSystem TargetType = "system"
)
