package entities

import "time"

type ManagementKind string

const (
	KindRole       ManagementKind = "roles"
	KindPermission ManagementKind = "permissions"
	KindSetting    ManagementKind = "settings"
)

func (k ManagementKind) Valid() bool {
	switch k {
	case KindRole, KindPermission, KindSetting:
		return true
	}
	return false
}

// ManagementItem is a role, permission or setting entry on the admin management page.
type ManagementItem struct {
	ID          int64          `json:"id"`
	Kind        ManagementKind `json:"kind"`
	Name        string         `json:"name" validate:"required,max=80"`
	Description string         `json:"description" validate:"max=500"`
	Value       string         `json:"value,omitempty" validate:"max=500"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}
