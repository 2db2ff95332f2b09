package models

import "time"

// Policy amounts and ages are kept as the strings the intake form submits.
type Policy struct {
	ID              string       `json:"id"`
	FarmerID        string       `json:"farmerId"`
	AgentID         string       `json:"agentId"`
	CattleType      string       `json:"cattleType"`
	Breed           string       `json:"breed"`
	Age             string       `json:"age"`
	UHFTag          string       `json:"uhfTag"`
	CattleValue     string       `json:"cattleValue"`
	PremiumAmount   string       `json:"premiumAmount"`
	CoverageAmount  string       `json:"coverageAmount"`
	PaymentMethod   string       `json:"paymentMethod"`
	Status          PolicyStatus `json:"status"`
	CreatedAt       time.Time    `json:"createdAt"`
	NextRenewalDate time.Time    `json:"nextRenewalDate"`
}

// PolicyWithFarmer is a renewal row: the policy plus its owning farmer, if still present.
type PolicyWithFarmer struct {
	Policy
	Farmer *Farmer `json:"farmer"`
}

type AgentStats struct {
	TotalFarmers   int64 `json:"totalFarmers"`
	TotalPolicies  int64 `json:"totalPolicies"`
	ActivePolicies int64 `json:"activePolicies"`
}
