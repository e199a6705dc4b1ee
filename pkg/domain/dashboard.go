package domain

// Metrics is the dashboard home summary for the authenticated store.
type Metrics struct {
	ActiveCampaigns   int     `json:"activeCampaigns"`
	TotalCustomers    int     `json:"totalCustomers"`
	PointsDistributed int     `json:"pointsDistributed"`
	EngagementRate    float64 `json:"engagementRate"`
}
