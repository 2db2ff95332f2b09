package models

type SignupRequest struct {
	Username  string `json:"username" binding:"required"`
	Password  string `json:"password" binding:"required"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	AgentCode string `json:"agentCode"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type CreateFarmerRequest struct {
	FarmerName  string `json:"farmerName"`
	FarmerPhone string `json:"farmerPhone"`
	Village     string `json:"village"`
	District    string `json:"district"`
	State       string `json:"state"`
}

type CreatePolicyRequest struct {
	FarmerID       string `json:"farmerId"`
	CattleType     string `json:"cattleType"`
	Breed          string `json:"breed"`
	Age            string `json:"age"`
	UHFTag         string `json:"uhfTag"`
	CattleValue    string `json:"cattleValue"`
	PremiumAmount  string `json:"premiumAmount"`
	CoverageAmount string `json:"coverageAmount"`
	PaymentMethod  string `json:"paymentMethod"`
}

type CreateClaimRequest struct {
	PolicyID     string `json:"policyId"`
	FarmerID     string `json:"farmerId"`
	DateOfDeath  string `json:"dateOfDeath"`
	CauseOfDeath string `json:"causeOfDeath"`
	Description  string `json:"description"`
}

type GenerateLinkRequest struct {
	ClaimID  string `json:"claimId"`
	FarmerID string `json:"farmerId"`
}

type VerifyClaimRequest struct {
	ClaimID string `json:"claimId"`
}
