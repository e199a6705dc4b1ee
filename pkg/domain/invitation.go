package domain

import "time"

// Invitation is a single-use redemption token worth a fixed point value.
type Invitation struct {
	Token       string    `json:"token"`
	PointsValue int       `json:"pointsValue"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// InvitationBatch is the result of one atomic generate call. It lives only
// in view state for display and export; nothing is persisted client-side.
type InvitationBatch struct {
	CampaignID          int64        `json:"campaignId"`
	TotalGenerated      int          `json:"totalGenerated"`
	PointsPerInvitation int          `json:"pointsPerInvitation"`
	ExpirationMinutes   int          `json:"expirationMinutes"`
	Invitations         []Invitation `json:"invitations"`
}
