package models

import (
	"time"

	"gorm.io/gorm"
)

// CapabilityStatus is the recipient's ability to receive transfers.
type CapabilityStatus string

const (
	CapabilityInactive   CapabilityStatus = "inactive"
	CapabilityPending    CapabilityStatus = "pending"
	CapabilityActive     CapabilityStatus = "active"
	CapabilityRestricted CapabilityStatus = "restricted"
)

// RequirementsStatus summarizes outstanding verification requirements.
// The zero value means the provider reported nothing.
type RequirementsStatus string

const (
	RequirementsUnknown             RequirementsStatus = ""
	RequirementsCurrentlyDue        RequirementsStatus = "currentlyDue"
	RequirementsPastDue             RequirementsStatus = "pastDue"
	RequirementsPendingVerification RequirementsStatus = "pendingVerification"
	RequirementsComplete            RequirementsStatus = "complete"
)

// Profile links a marketplace user to their payable recipient account and
// caches the last derived status.
type Profile struct {
	gorm.Model
	UserID                 uint               `gorm:"uniqueIndex;not null"`
	Email                  string             `gorm:"size:320"`
	RecipientAccountID     *string            `gorm:"uniqueIndex;size:64;default:null"`
	CapabilityStatus       CapabilityStatus   `gorm:"size:32;default:'inactive'"`
	RequirementsStatus     RequirementsStatus `gorm:"size:32"`
	OnboardingComplete     bool               `gorm:"default:false"`
	ReadyToReceivePayments bool               `gorm:"default:false"`
	StatusSyncedAt         *time.Time
}

// AccountID returns the linked recipient account or "".
func (p *Profile) AccountID() string {
	if p == nil || p.RecipientAccountID == nil {
		return ""
	}
	return *p.RecipientAccountID
}

// StatusUpdate is the set of derived fields written by a status refresh.
// Nil pointers leave the column untouched.
type StatusUpdate struct {
	CapabilityStatus       *CapabilityStatus
	RequirementsStatus     *RequirementsStatus
	OnboardingComplete     *bool
	ReadyToReceivePayments *bool
	SyncedAt               time.Time
}

// Columns renders the update as a GORM column map.
func (u StatusUpdate) Columns() map[string]interface{} {
	cols := map[string]interface{}{"status_synced_at": u.SyncedAt}
	if u.CapabilityStatus != nil {
		cols["capability_status"] = *u.CapabilityStatus
	}
	if u.RequirementsStatus != nil {
		cols["requirements_status"] = *u.RequirementsStatus
	}
	if u.OnboardingComplete != nil {
		cols["onboarding_complete"] = *u.OnboardingComplete
	}
	if u.ReadyToReceivePayments != nil {
		cols["ready_to_receive_payments"] = *u.ReadyToReceivePayments
	}
	return cols
}
