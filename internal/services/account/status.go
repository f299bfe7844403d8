package account

import (
	"mentorpay/internal/models"
	"mentorpay/internal/provider"
)

// Status is the derived view of a recipient account.
type Status struct {
	AccountID              string                    `json:"accountId"`
	CapabilityStatus       models.CapabilityStatus   `json:"capabilityStatus"`
	RequirementsStatus     models.RequirementsStatus `json:"requirementsStatus"`
	OnboardingComplete     bool                      `json:"onboardingComplete"`
	ReadyToReceivePayments bool                      `json:"readyToReceivePayments"`
}

// DeriveReadyToReceivePayments is true only for an active capability.
func DeriveReadyToReceivePayments(capability models.CapabilityStatus) bool {
	return capability == models.CapabilityActive
}

// DeriveOnboardingComplete is false only while something is currently or
// past due. Unknown and pendingVerification count as complete.
func DeriveOnboardingComplete(requirements models.RequirementsStatus) bool {
	return requirements != models.RequirementsCurrentlyDue &&
		requirements != models.RequirementsPastDue
}

// CapabilityStatusOf maps the provider's transfers capability.
func CapabilityStatusOf(acct *provider.Account) models.CapabilityStatus {
	switch acct.Capability {
	case "active":
		return models.CapabilityActive
	case "pending":
		return models.CapabilityPending
	case "inactive":
		if acct.DisabledReason != "" {
			return models.CapabilityRestricted
		}
		return models.CapabilityInactive
	default:
		return models.CapabilityInactive
	}
}

// RequirementsStatusOf picks the most urgent requirements bucket.
func RequirementsStatusOf(acct *provider.Account) models.RequirementsStatus {
	req := acct.Requirements
	switch {
	case req == nil:
		return models.RequirementsUnknown
	case len(req.PastDue) > 0:
		return models.RequirementsPastDue
	case len(req.CurrentlyDue) > 0:
		return models.RequirementsCurrentlyDue
	case len(req.PendingVerification) > 0:
		return models.RequirementsPendingVerification
	default:
		return models.RequirementsComplete
	}
}

// Derive builds the full status from a provider account.
func Derive(acct *provider.Account) Status {
	capability := CapabilityStatusOf(acct)
	requirements := RequirementsStatusOf(acct)
	return Status{
		AccountID:              acct.ID,
		CapabilityStatus:       capability,
		RequirementsStatus:     requirements,
		OnboardingComplete:     DeriveOnboardingComplete(requirements),
		ReadyToReceivePayments: DeriveReadyToReceivePayments(capability),
	}
}
