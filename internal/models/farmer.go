package models

import "time"

type Farmer struct {
	ID          string    `json:"id"`
	FarmerName  string    `json:"farmerName"`
	FarmerPhone string    `json:"farmerPhone"`
	Village     string    `json:"village"`
	District    string    `json:"district"`
	State       string    `json:"state"`
	AgentID     string    `json:"agentId"`
	CreatedAt   time.Time `json:"createdAt"`
}
