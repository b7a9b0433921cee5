package models

// Role is the tenant-wide authorization level of a user.
type Role string

const (
	RoleOwner  Role = "OWNER"
	RoleMember Role = "MEMBER"
	RoleGuest  Role = "GUEST"
)

// Roles lists every role in descending order of privilege.
func Roles() []Role {
	return []Role{RoleOwner, RoleMember, RoleGuest}
}

func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleMember, RoleGuest:
		return true
	default:
		return false
	}
}

type User struct {
	BaseModel
	Email          string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Name           string `gorm:"type:varchar(150);not null" json:"name"`
	Role           Role   `gorm:"type:varchar(10);not null;default:'GUEST';index" json:"role"`
	ExternalAuthID string `gorm:"type:varchar(255);uniqueIndex;not null" json:"-"`
}
