package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xyrille1/SuiCare/internal/logic"
	"github.com/xyrille1/SuiCare/internal/model"
)

var campaignsJSON bool

var campaignsCmd = &cobra.Command{
	Use:   "campaigns",
	Short: "List campaigns in the on-chain registry",
	RunE:  runCampaigns,
}

func init() {
	campaignsCmd.Flags().BoolVar(&campaignsJSON, "json", false, "Print normalized campaigns as JSON")
}

func runCampaigns(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	list, err := logic.NewCampaignLogic(s.client, s.cfg.Sui.CampaignsID, s.cfg.Sui.NetworkName()).FetchCampaigns(ctx)
	if err != nil {
		return err
	}
	if campaignsJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(list)
	}
	printCampaigns(cmd.OutOrStdout(), list)
	return nil
}

func printCampaigns(out io.Writer, list []model.Campaign) {
	if len(list) == 0 {
		fmt.Fprintln(out, "no campaigns")
		return
	}
	fmt.Fprintf(out, "%-68s %-9s %14s %14s %14s  %s\n", "ID", "STATUS", "GOAL", "RAISED", "ESCROW", "TITLE")
	for _, c := range list {
		fmt.Fprintf(out, "%-68s %-9s %14s %14s %14s  %s\n",
			c.ID, c.Status,
			logic.MistToSui(c.TargetAmount),
			logic.MistToSui(c.DonatedAmount),
			logic.MistToSui(c.EscrowBalance),
			c.Title,
		)
		for i, m := range c.Milestones {
			fmt.Fprintf(out, "    #%d %3d%% %-9s %s\n", i, m.Percentage, m.Status, strings.TrimSpace(m.Description))
		}
	}
}
