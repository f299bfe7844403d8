package account

import (
	"testing"

	"mentorpay/internal/models"
	"mentorpay/internal/provider"

	"github.com/stretchr/testify/assert"
)

func TestDeriveOnboardingComplete(t *testing.T) {
	tests := []struct {
		in   models.RequirementsStatus
		want bool
	}{
		{models.RequirementsCurrentlyDue, false},
		{models.RequirementsPastDue, false},
		{models.RequirementsPendingVerification, true},
		{models.RequirementsComplete, true},
		{models.RequirementsUnknown, true},
		{models.RequirementsStatus("somethingNew"), true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DeriveOnboardingComplete(tt.in), "requirements %q", tt.in)
	}
}

func TestDeriveReadyToReceivePayments(t *testing.T) {
	assert.True(t, DeriveReadyToReceivePayments(models.CapabilityActive))
	for _, s := range []models.CapabilityStatus{
		models.CapabilityInactive, models.CapabilityPending, models.CapabilityRestricted, "",
	} {
		assert.False(t, DeriveReadyToReceivePayments(s), "capability %q", s)
	}
}

func TestDerive(t *testing.T) {
	tests := []struct {
		name string
		acct provider.Account
		want Status
	}{
		{
			name: "fresh account",
			acct: provider.Account{
				ID:           "acct_1",
				Capability:   "pending",
				Requirements: &provider.Requirements{CurrentlyDue: []string{"external_account"}},
			},
			want: Status{
				AccountID:          "acct_1",
				CapabilityStatus:   models.CapabilityPending,
				RequirementsStatus: models.RequirementsCurrentlyDue,
			},
		},
		{
			name: "past due wins over currently due",
			acct: provider.Account{
				ID:         "acct_2",
				Capability: "inactive",
				Requirements: &provider.Requirements{
					CurrentlyDue: []string{"tos_acceptance.date"},
					PastDue:      []string{"individual.verification.document"},
				},
				DisabledReason: "requirements.past_due",
			},
			want: Status{
				AccountID:          "acct_2",
				CapabilityStatus:   models.CapabilityRestricted,
				RequirementsStatus: models.RequirementsPastDue,
			},
		},
		{
			name: "verifying and active",
			acct: provider.Account{
				ID:           "acct_3",
				Capability:   "active",
				Requirements: &provider.Requirements{PendingVerification: []string{"individual.id_number"}},
			},
			want: Status{
				AccountID:              "acct_3",
				CapabilityStatus:       models.CapabilityActive,
				RequirementsStatus:     models.RequirementsPendingVerification,
				OnboardingComplete:     true,
				ReadyToReceivePayments: true,
			},
		},
		{
			name: "no requirements block and no capability",
			acct: provider.Account{ID: "acct_4"},
			want: Status{
				AccountID:          "acct_4",
				CapabilityStatus:   models.CapabilityInactive,
				RequirementsStatus: models.RequirementsUnknown,
				OnboardingComplete: true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Derive(&tt.acct))
		})
	}
}
