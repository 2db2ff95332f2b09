package repository

func farmerKey(id string) string { return "farmer:" + id }
func policyKey(id string) string { return "policy:" + id }
func claimKey(id string) string { return "claim:" + id }
func uploadGrantKey(token string) string { return "upload:" + token }
func sessionKey(id string) string { return "session:" + id }

func agentFarmersKey(agentID string) string { return "agent:" + agentID + ":farmers" }
func agentPoliciesKey(agentID string) string { return "agent:" + agentID + ":policies" }
func farmerPoliciesKey(farmerID string) string { return "farmer:" + farmerID + ":policies" }
func policyClaimsKey(policyID string) string { return "policy:" + policyID + ":claims" }

func prefixed(ids []string, key func(string) string) []string {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = key(id)
	}
	return keys
}
