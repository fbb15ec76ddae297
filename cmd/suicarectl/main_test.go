package main

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xyrille1/SuiCare/internal/ledger"
	"github.com/xyrille1/SuiCare/internal/logic"
	"github.com/xyrille1/SuiCare/internal/model"
	"github.com/xyrille1/SuiCare/internal/wallet"
)

type registryReader struct{ missing bool }

func (r registryReader) GetObject(_ context.Context, id string) (*ledger.ObjectResponse, error) {
	if r.missing {
		return &ledger.ObjectResponse{Error: &ledger.ObjectError{Code: "notExists", ObjectID: id}}, nil
	}
	return &ledger.ObjectResponse{Data: &ledger.ObjectData{ObjectID: id}}, nil
}

func (registryReader) GetDynamicFields(context.Context, string, *string) (*ledger.DynamicFieldPage, error) {
	return &ledger.DynamicFieldPage{}, nil
}

func (registryReader) MultiGetObjects(context.Context, []string) ([]ledger.ObjectResponse, error) {
	return nil, nil
}

func TestRootCommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["verify"])
	assert.True(t, names["campaigns"])
	assert.True(t, names["activity"])

	sub, _, err := rootCmd.Find([]string{"activity", "index"})
	require.NoError(t, err)
	assert.Equal(t, "index", sub.Name())
}

func TestVerifyReadOnly(t *testing.T) {
	var out bytes.Buffer
	campaigns := logic.NewCampaignLogic(registryReader{}, "0x1e6", "testnet")

	require.NoError(t, verify(context.Background(), &out, campaigns, "", "0xad"))
	assert.Contains(t, out.String(), "registry ok: 0 campaigns")
	assert.Contains(t, out.String(), "read-only")
}

func TestVerifyReportsSignerAdmin(t *testing.T) {
	seed := bytes.Repeat([]byte{7}, ed25519.SeedSize)
	admin := wallet.AddressFromPublicKey(ed25519.NewKeyFromSeed(seed).Public().(ed25519.PublicKey))

	var out bytes.Buffer
	campaigns := logic.NewCampaignLogic(registryReader{}, "0x1e6", "testnet")
	require.NoError(t, verify(context.Background(), &out, campaigns, base64.StdEncoding.EncodeToString(seed), admin))
	assert.Contains(t, out.String(), "signer: "+admin+" (admin: true)")
}

func TestVerifyMissingRegistry(t *testing.T) {
	var out bytes.Buffer
	campaigns := logic.NewCampaignLogic(registryReader{missing: true}, "0x1e6", "devnet")

	err := verify(context.Background(), &out, campaigns, "", "0xad")
	require.ErrorIs(t, err, logic.ErrRegistryNotFound)
	assert.Contains(t, err.Error(), "devnet")
}

func TestPrintCampaigns(t *testing.T) {
	var out bytes.Buffer
	printCampaigns(&out, nil)
	assert.Equal(t, "no campaigns\n", out.String())

	out.Reset()
	printCampaigns(&out, []model.Campaign{{
		ID: "0xc1", Title: "Clean water", TargetAmount: 10_000_000_000, DonatedAmount: 1_500_000_000,
		EscrowBalance: 1_500_000_000, Status: model.CampaignActive,
		Milestones: []model.Milestone{{Description: "Dig", Percentage: 100, Status: model.MilestoneRequested}},
	}})
	s := out.String()
	assert.Contains(t, s, "Clean water")
	assert.Contains(t, s, "1.5")
	assert.Contains(t, s, "#0 100% Requested")
}
