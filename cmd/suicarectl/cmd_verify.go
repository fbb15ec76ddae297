package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/xyrille1/SuiCare/internal/ledger"
	"github.com/xyrille1/SuiCare/internal/logic"
	"github.com/xyrille1/SuiCare/internal/wallet"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check configuration against the configured network",
	Long: `Load configuration, connect to the full node and confirm that the
campaign registry exists. When a signer key is configured, report its
address and whether it matches the configured admin.`,
	RunE: runVerify,
}

func runVerify(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	campaigns := logic.NewCampaignLogic(s.client, s.cfg.Sui.CampaignsID, s.cfg.Sui.NetworkName())
	return verify(ctx, cmd.OutOrStdout(), campaigns, s.cfg.Sui.SignerKey, s.cfg.Sui.AdminAddress)
}

func verify(ctx context.Context, out io.Writer, campaigns *logic.CampaignLogic, signerKey, admin string) error {
	list, err := campaigns.FetchCampaigns(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "registry ok: %d campaigns\n", len(list))

	if signerKey == "" {
		fmt.Fprintln(out, "signer: not configured (read-only)")
		return nil
	}
	w, err := wallet.NewKeyWallet(signerKey, nil)
	if err != nil {
		return err
	}
	addr := w.Address()
	fmt.Fprintf(out, "signer: %s (admin: %t)\n", addr, ledger.SameAddress(addr, admin))
	return nil
}
