package models

import (
	"time"

	"gorm.io/gorm"
)

// Staff designations
var DesignationChoices = []string{
	"doctor", "nurse", "surgeon", "anesthetist", "pharmacist",
	"lab", "radiographer", "physiotherapist", "midwife", "admin",
}

// Role represents a user role
type Role struct {
	ID          int64        `gorm:"primaryKey;column:id" json:"id"`
	Name        string       `gorm:"size:50;not null;unique;index;column:name" json:"name"`
	Description string       `gorm:"type:text;column:description" json:"description"`
	CreatedAt   time.Time    `gorm:"autoCreateTime;column:created_at" json:"created_at"`
	Permissions []Permission `gorm:"many2many:role_permissions;" json:"permissions"`
}

func (Role) TableName() string {
	return "roles"
}

// SeedRoles inserts initial roles into the database
func SeedRoles(db *gorm.DB) error {
	initialRoles := []Role{
		{Name: "Admin", Description: "Full access to the system"},
		{Name: "Doctor", Description: "Consultations, lab orders and prescriptions"},
		{Name: "Nurse", Description: "Triage vitals and patient status"},
		{Name: "LabTech", Description: "Lab requests and result entry"},
		{Name: "Pharmacist", Description: "Drug inventory and dispensing"},
		{Name: "Receptionist", Description: "Patient registration and billing"},
	}
	return db.Transaction(func(tx *gorm.DB) error {
		for _, role := range initialRoles {
			if err := tx.FirstOrCreate(&role, Role{Name: role.Name}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// User represents a staff member in the system
type User struct {
	ID          int64     `gorm:"primaryKey;column:id" json:"id"`
	Username    string    `gorm:"size:100;not null;unique;index;column:username" json:"username"`
	Email       string    `gorm:"size:255;not null;unique;index;column:email" json:"email"`
	Password    string    `gorm:"size:255;not null;column:password" json:"password,omitempty"`
	Designation string    `gorm:"size:50;column:designation" json:"designation"`
	RoleID      int64     `gorm:"index;not null;column:role_id" json:"role_id"`
	Role        Role      `gorm:"foreignKey:RoleID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"role"`
	CreatedAt   time.Time `gorm:"autoCreateTime;column:created_at" json:"created_at"`
}

func (User) TableName() string {
	return "users"
}

// Permission represents a permission in the system
type Permission struct {
	ID          int64  `gorm:"primaryKey;column:id" json:"id"`
	Name        string `gorm:"size:100;not null;unique;index;column:name" json:"name"`
	Description string `gorm:"type:text;column:description" json:"description"`
}

func (Permission) TableName() string {
	return "permissions"
}

// SeedPermissions inserts initial permissions into the database
func SeedPermissions(db *gorm.DB) error {
	initialPermissions := []Permission{
		{Name: "manage_users", Description: "Create, update, or delete users"},
		{Name: "manage_patients", Description: "Register and update patients"},
		{Name: "record_triage", Description: "Capture triage vitals"},
		{Name: "run_consultations", Description: "Create consultations and prescriptions"},
		{Name: "enter_lab_results", Description: "Record lab results"},
		{Name: "dispense_drugs", Description: "Dispense drugs and manage stock"},
		{Name: "manage_billing", Description: "Create bills, record payments, cancel invoices"},
	}
	return db.Transaction(func(tx *gorm.DB) error {
		for _, permission := range initialPermissions {
			if err := tx.FirstOrCreate(&permission, Permission{Name: permission.Name}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// RolePermission represents the association between roles and permissions
type RolePermission struct {
	ID           int64 `gorm:"primaryKey;column:id" json:"id"`
	RoleID       int64 `gorm:"index;column:role_id" json:"role_id"`
	PermissionID int64 `gorm:"index;column:permission_id" json:"permission_id"`
}

func (RolePermission) TableName() string {
	return "role_permissions"
}

// SeedRolePermissions inserts initial role permissions into the database
func SeedRolePermissions(db *gorm.DB) error {
	initialRolePermissions := []RolePermission{
		{RoleID: 1, PermissionID: 1}, // Admin: manage_users
		{RoleID: 1, PermissionID: 2}, // Admin: manage_patients
		{RoleID: 1, PermissionID: 7}, // Admin: manage_billing
		{RoleID: 2, PermissionID: 4}, // Doctor: run_consultations
		{RoleID: 3, PermissionID: 3}, // Nurse: record_triage
		{RoleID: 4, PermissionID: 5}, // LabTech: enter_lab_results
		{RoleID: 5, PermissionID: 6}, // Pharmacist: dispense_drugs
		{RoleID: 6, PermissionID: 2}, // Receptionist: manage_patients
		{RoleID: 6, PermissionID: 7}, // Receptionist: manage_billing
	}
	return db.Transaction(func(tx *gorm.DB) error {
		for _, rolePermission := range initialRolePermissions {
			if err := tx.FirstOrCreate(&rolePermission, RolePermission{RoleID: rolePermission.RoleID, PermissionID: rolePermission.PermissionID}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
