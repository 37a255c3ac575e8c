package domain

// Role determines the capability set a user holds.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
)

// Capability names a single permitted operation class. The access gate
// checks capabilities, not roles, so role composition can change without
// touching call sites.
type Capability string

const (
	CapabilityManageRates   Capability = "manage_rates"
	CapabilityViewAudit     Capability = "view_audit"
	CapabilityManageAdvice  Capability = "manage_advice"
	CapabilityPublishSocial Capability = "publish_social"
)

var roleCapabilities = map[Role][]Capability{
	RoleAdmin:  {CapabilityManageRates, CapabilityViewAudit, CapabilityManageAdvice, CapabilityPublishSocial},
	RoleEditor: {CapabilityManageRates, CapabilityManageAdvice},
}

// User is a dashboard operator.
type User struct {
	UserID       string `json:"userID"` // Primary key (UUID)
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Role         Role   `json:"role"`
	AuditFields
}

// HasCapability reports whether the user's role grants the capability.
func (u *User) HasCapability(c Capability) bool {
	for _, granted := range roleCapabilities[u.Role] {
		if granted == c {
			return true
		}
	}
	return false
}
