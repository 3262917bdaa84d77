package types

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Cabinet struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `gorm:"column:description" json:"description"`
	// CustomFields holds the ordered []CustomFieldDef that every record in
	// this cabinet must validate against.
	CustomFields datatypes.JSON `gorm:"column:custom_fields;type:jsonb" json:"custom_fields"`
	// Approvers holds []CabinetApprover.
	Approvers   datatypes.JSON `gorm:"column:approvers;type:jsonb" json:"approvers"`
	CreatedByID uuid.UUID      `gorm:"type:uuid;column:created_by_id;not null;index" json:"created_by_id"`
	CreatedBy   *User          `gorm:"foreignKey:CreatedByID;references:ID" json:"created_by,omitempty"`
	CreatedAt   time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Cabinet) TableName() string { return "cabinets" }

func (c *Cabinet) FieldDefs() []CustomFieldDef {
	var defs []CustomFieldDef
	if len(c.CustomFields) == 0 {
		return defs
	}
	_ = json.Unmarshal(c.CustomFields, &defs)
	return defs
}

func (c *Cabinet) ApproverList() []CabinetApprover {
	var approvers []CabinetApprover
	if len(c.Approvers) == 0 {
		return approvers
	}
	_ = json.Unmarshal(c.Approvers, &approvers)
	return approvers
}

// HasApprover reports whether userID is on the cabinet's approver list.
func (c *Cabinet) HasApprover(userID uuid.UUID) bool {
	for _, a := range c.ApproverList() {
		if a.UserID == userID.String() {
			return true
		}
	}
	return false
}

const (
	CabinetRoleMemberFull = "member_full"
	CabinetRoleMemberRead = "member_read"
)

type CabinetMember struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CabinetID uuid.UUID `gorm:"type:uuid;column:cabinet_id;not null;index:idx_cabinet_member,unique" json:"cabinet_id"`
	UserID    uuid.UUID `gorm:"type:uuid;column:user_id;not null;index:idx_cabinet_member,unique" json:"user_id"`
	Role      string    `gorm:"column:role;not null;default:'member_read'" json:"role"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (CabinetMember) TableName() string { return "cabinet_members" }
