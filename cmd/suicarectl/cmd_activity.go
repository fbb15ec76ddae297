package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xyrille1/SuiCare/internal/database"
	"github.com/xyrille1/SuiCare/internal/logic"
	"github.com/xyrille1/SuiCare/internal/model"
)

var (
	activityFilter string
	activityLimit  int
)

var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Manage the indexed activity feed",
}

var activityIndexCmd = &cobra.Command{
	Use:   "index",
	Short: "Index new package events into the database once",
	RunE:  runActivityIndex,
}

var activityListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the most recent indexed activity",
	RunE:  runActivityList,
}

func init() {
	activityListCmd.Flags().StringVar(&activityFilter, "filter", "all", "all, donations, milestones or admin")
	activityListCmd.Flags().IntVar(&activityLimit, "limit", 20, "Number of items")

	activityCmd.AddCommand(activityIndexCmd)
	activityCmd.AddCommand(activityListCmd)
}

func openActivity(ctx context.Context) (*session, *logic.ActivityLogic, error) {
	s, err := openSession(ctx)
	if err != nil {
		return nil, nil, err
	}
	if !s.cfg.Database.Enabled {
		s.Close()
		return nil, nil, fmt.Errorf("database is disabled; set database.enabled to use the activity feed")
	}
	db, err := database.Init(s.cfg.Database)
	if err != nil {
		s.Close()
		return nil, nil, err
	}
	return s, logic.NewActivityLogic(db, s.client, s.cfg.Sui.PackageID, s.cfg.Sui.Module), nil
}

func runActivityIndex(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	s, activity, err := openActivity(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	n, err := activity.IndexEvents(ctx)
	fmt.Fprintf(cmd.OutOrStdout(), "indexed %d events\n", n)
	return err
}

func runActivityList(cmd *cobra.Command, args []string) error {
	filter, ok := model.ParseActivityFilter(activityFilter)
	if !ok {
		return fmt.Errorf("unknown filter %q", activityFilter)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	s, activity, err := openActivity(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	items, total, err := activity.ListActivity(logic.ActivityQuery{Filter: filter, PageSize: activityLimit})
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, it := range items {
		amount := ""
		if it.AmountMist > 0 {
			amount = logic.MistToSui(uint64(it.AmountMist)) + " SUI"
		}
		fmt.Fprintf(out, "%-22s %-12s %-66s %s\n", it.TypeLabel, amount, it.CampaignId, it.TxDigest)
	}
	fmt.Fprintf(out, "%d of %d\n", len(items), total)
	return nil
}
