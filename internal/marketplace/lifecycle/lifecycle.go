package lifecycle

// Campaign statuses.
const (
	CampaignActive    = "active"
	CampaignCompleted = "completed"
	CampaignCancelled = "cancelled"
)

// Application statuses. The capitalised values are part of the public contract.
const (
	ApplicationApplied     = "Applied"
	ApplicationUnderReview = "Under Review"
	ApplicationApproved    = "Approved"
	ApplicationRejected    = "Rejected"
	ApplicationSubmitted   = "Submitted"
)

// Submission review statuses.
const (
	ReviewPending  = "pending"
	ReviewApproved = "approved"
	ReviewRejected = "rejected"
)

// Payment statuses.
const (
	PaymentPending   = "Pending"
	PaymentCompleted = "Completed"
)

// Withdrawal statuses.
const (
	WithdrawalPending   = "pending"
	WithdrawalApproved  = "approved"
	WithdrawalRejected  = "rejected"
	WithdrawalCompleted = "completed"
)

// Machine is a named transition table.
type Machine struct {
	name        string
	transitions map[string]map[string]struct{}
}

// Campaign governs campaign status changes.
var Campaign = Machine{
	name: "campaign",
	transitions: map[string]map[string]struct{}{
		CampaignActive: {
			CampaignCompleted: {},
			CampaignCancelled: {},
		},
		CampaignCompleted: {},
		CampaignCancelled: {},
	},
}

// Application governs application status changes. Submitted is only reached
// through content submission.
var Application = Machine{
	name: "application",
	transitions: map[string]map[string]struct{}{
		ApplicationApplied: {
			ApplicationUnderReview: {},
			ApplicationApproved:    {},
			ApplicationRejected:    {},
		},
		ApplicationUnderReview: {
			ApplicationApproved: {},
			ApplicationRejected: {},
		},
		ApplicationApproved: {
			ApplicationSubmitted: {},
		},
		ApplicationRejected:  {},
		ApplicationSubmitted: {},
	},
}

// Submission governs the review status of submitted content.
var Submission = Machine{
	name: "submission",
	transitions: map[string]map[string]struct{}{
		ReviewPending: {
			ReviewApproved: {},
			ReviewRejected: {},
		},
		ReviewApproved: {},
		ReviewRejected: {},
	},
}

// Payment governs payment records.
var Payment = Machine{
	name: "payment",
	transitions: map[string]map[string]struct{}{
		PaymentPending:   {PaymentCompleted: {}},
		PaymentCompleted: {},
	},
}

// Withdrawal governs payout requests.
var Withdrawal = Machine{
	name: "withdrawal",
	transitions: map[string]map[string]struct{}{
		WithdrawalPending: {
			WithdrawalApproved:  {},
			WithdrawalRejected:  {},
			WithdrawalCompleted: {},
		},
		WithdrawalApproved: {
			WithdrawalCompleted: {},
			WithdrawalRejected:  {},
		},
		WithdrawalRejected:  {},
		WithdrawalCompleted: {},
	},
}

// Name returns the machine name used in error messages.
func (m Machine) Name() string {
	return m.name
}

// Known reports whether status belongs to the machine.
func (m Machine) Known(status string) bool {
	_, ok := m.transitions[status]
	return ok
}

// CanTransition returns true when the machine allows moving from current to next status.
func (m Machine) CanTransition(current, next string) bool {
	if !m.Known(current) || !m.Known(next) {
		return false
	}
	if current == next {
		return true
	}
	_, ok := m.transitions[current][next]
	return ok
}

// Terminal reports whether no further transition leaves status.
func (m Machine) Terminal(status string) bool {
	allowed, ok := m.transitions[status]
	return ok && len(allowed) == 0
}
