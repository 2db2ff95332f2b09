package services

import (
	"context"
	"testing"
	"time"

	"github.com/Ghawri/Cattle-insurance-agent/internal/apperr"
	"github.com/Ghawri/Cattle-insurance-agent/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const day = 24 * time.Hour

func TestFarmerService_CreateAndList(t *testing.T) {
	env := newTestEnv(t)
	svc := env.farmerService()
	ctx := context.Background()
	caller := agentIdentity("a1")

	farmer, err := svc.CreateFarmer(ctx, caller, models.CreateFarmerRequest{FarmerName: "Ram", Village: "X"})
	require.NoError(t, err)
	assert.Equal(t, "a1", farmer.AgentID)
	assert.Equal(t, env.clock.Now(), farmer.CreatedAt)

	farmers, err := svc.ListFarmers(ctx, caller)
	require.NoError(t, err)
	require.Len(t, farmers, 1)
	assert.Equal(t, "Ram", farmers[0].FarmerName)

	others, err := svc.ListFarmers(ctx, agentIdentity("a2"))
	require.NoError(t, err)
	assert.Empty(t, others)

	_, err = svc.CreateFarmer(ctx, caller, models.CreateFarmerRequest{Village: "X"})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.CreateFarmer(ctx, nil, models.CreateFarmerRequest{FarmerName: "Ram"})
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestPolicyService_CreatePolicy(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	caller := agentIdentity("a1")
	farmer, err := env.farmerService().CreateFarmer(ctx, caller, models.CreateFarmerRequest{FarmerName: "Ram"})
	require.NoError(t, err)

	svc := env.policyService(true)
	policy, err := svc.CreatePolicy(ctx, caller, models.CreatePolicyRequest{
		FarmerID:       farmer.ID,
		CattleType:     "cow",
		Breed:          "Gir",
		CoverageAmount: "50000",
	})
	require.NoError(t, err)
	assert.Equal(t, models.PolicyStatusActive, policy.Status)
	assert.Equal(t, policy.CreatedAt.Add(365*day), policy.NextRenewalDate)
	assert.Equal(t, "50000", policy.CoverageAmount)

	byFarmer, err := svc.FarmerPolicies(ctx, caller, farmer.ID)
	require.NoError(t, err)
	require.Len(t, byFarmer, 1)
	assert.Equal(t, policy.ID, byFarmer[0].ID)

	_, err = svc.FarmerPolicies(ctx, caller, "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	none, err := env.policyService(false).FarmerPolicies(ctx, caller, "missing")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
	_, err = svc.FarmerPolicies(ctx, nil, farmer.ID)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	_, err = svc.CreatePolicy(ctx, caller, models.CreatePolicyRequest{FarmerID: "missing"})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = env.policyService(false).CreatePolicy(ctx, caller, models.CreatePolicyRequest{FarmerID: "missing"})
	assert.NoError(t, err)

	_, err = svc.CreatePolicy(ctx, caller, models.CreatePolicyRequest{})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestPolicyService_RenewalWindow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	now := env.clock.Now()
	caller := agentIdentity("a1")

	require.NoError(t, env.farmers.Create(ctx, &models.Farmer{ID: "f1", FarmerName: "Ram", AgentID: "a1"}))

	put := func(id string, renewal time.Time, status models.PolicyStatus, farmerID string) {
		require.NoError(t, env.policies.Create(ctx, &models.Policy{
			ID: id, FarmerID: farmerID, AgentID: "a1", Status: status, NextRenewalDate: renewal,
		}))
	}
	put("in-29", now.Add(29*day), models.PolicyStatusActive, "f1")
	put("out-31", now.Add(31*day), models.PolicyStatusActive, "f1")
	put("past-1", now.Add(-1*day), models.PolicyStatusActive, "f1")
	put("edge-30", now.Add(30*day), models.PolicyStatusActive, "f1")
	put("edge-now", now, models.PolicyStatusActive, "f1")
	put("lapsed-10", now.Add(10*day), models.PolicyStatusLapsed, "f1")
	put("orphan-5", now.Add(5*day), models.PolicyStatusActive, "gone")

	renewals, err := env.policyService(true).Renewals(ctx, caller)
	require.NoError(t, err)

	got := map[string]*models.Farmer{}
	for _, r := range renewals {
		got[r.ID] = r.Farmer
	}
	assert.ElementsMatch(t, []string{"in-29", "edge-30", "edge-now", "orphan-5"}, keys(got))
	require.NotNil(t, got["in-29"])
	assert.Equal(t, "Ram", got["in-29"].FarmerName)
	assert.Nil(t, got["orphan-5"])
}

func TestPolicyService_RenewalsEmpty(t *testing.T) {
	env := newTestEnv(t)

	renewals, err := env.policyService(true).Renewals(context.Background(), agentIdentity("a1"))
	require.NoError(t, err)
	assert.NotNil(t, renewals)
	assert.Empty(t, renewals)
}

func TestPolicyService_Stats(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	caller := agentIdentity("a1")

	farmer, err := env.farmerService().CreateFarmer(ctx, caller, models.CreateFarmerRequest{FarmerName: "Ram", Village: "X"})
	require.NoError(t, err)
	_, err = env.policyService(true).CreatePolicy(ctx, caller, models.CreatePolicyRequest{FarmerID: farmer.ID})
	require.NoError(t, err)
	require.NoError(t, env.policies.Create(ctx, &models.Policy{ID: "old", FarmerID: farmer.ID, AgentID: "a1", Status: models.PolicyStatusCancelled}))

	stats, err := env.policyService(true).Stats(ctx, caller)
	require.NoError(t, err)
	assert.Equal(t, &models.AgentStats{TotalFarmers: 1, TotalPolicies: 2, ActivePolicies: 1}, stats)

	empty, err := env.policyService(true).Stats(ctx, agentIdentity("a2"))
	require.NoError(t, err)
	assert.Equal(t, &models.AgentStats{}, empty)
}

func keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
