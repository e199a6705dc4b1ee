package domain

// Account lifecycle states reported by the delete-status endpoint.
const (
	AccountActive          = "ACTIVE"
	AccountPendingDeletion = "PENDING_DELETION"
)

// DeleteStatus is the server's view of the account deletion lifecycle.
// It is fetched fresh on every settings load and after every mutating
// action; daysRemaining and scheduledDeletionDate are displayed verbatim,
// the client never computes day counts locally.
type DeleteStatus struct {
	Status                string `json:"status"`
	ScheduledDeletionDate string `json:"scheduledDeletionDate,omitempty"`
	DaysRemaining         int    `json:"daysRemaining,omitempty"`
	Message               string `json:"message,omitempty"`
}

// PendingDeletion reports whether the account is scheduled for deletion.
func (s DeleteStatus) PendingDeletion() bool {
	return s.Status == AccountPendingDeletion
}
