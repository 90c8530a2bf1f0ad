package main

import (
	"context"
	"fmt"
	"time"

	"github.com/driftnote/backend/internal/config"
	"github.com/driftnote/backend/internal/logger"
	"github.com/driftnote/backend/internal/ranking"
	"github.com/spf13/cobra"
)

var (
	rankingDepth int
	rankingScore float64
)

var rankingCmd = &cobra.Command{
	Use:   "ranking",
	Short: "Inspect and manage the featured ranking sorted sets",
}

var rankingShowCmd = &cobra.Command{
	Use:   "show <key>",
	Short: "Print the current ranking for a key (e.g. gallery, notes)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source, cleanup, err := newRankingSource()
		if err != nil {
			return err
		}
		defer cleanup()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		candidates, err := source.ComputeRanking(ctx, ranking.Key(args[0]), rankingDepth)
		if err != nil {
			return err
		}

		if len(candidates) == 0 {
			fmt.Println("(empty ranking)")
			return nil
		}
		for i, c := range candidates {
			fmt.Printf("%3d  %-24s  %.2f\n", i+1, c.ID, c.Score)
		}
		return nil
	},
}

var rankingSetCmd = &cobra.Command{
	Use:   "set <key> <id>",
	Short: "Set a candidate's score in a ranking",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		source, cleanup, err := newRankingSource()
		if err != nil {
			return err
		}
		defer cleanup()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := source.UpdateScore(ctx, ranking.Key(args[0]), args[1], rankingScore); err != nil {
			return err
		}
		fmt.Printf("set %s in %s to %.2f\n", args[1], args[0], rankingScore)
		return nil
	},
}

var rankingRemoveCmd = &cobra.Command{
	Use:   "remove <key> <id>",
	Short: "Remove a candidate from a ranking",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		source, cleanup, err := newRankingSource()
		if err != nil {
			return err
		}
		defer cleanup()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := source.RemoveCandidate(ctx, ranking.Key(args[0]), args[1]); err != nil {
			return err
		}
		fmt.Printf("removed %s from %s\n", args[1], args[0])
		return nil
	},
}

func newRankingSource() (*ranking.RedisSource, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	if err := logger.Initialize("warn", cfg.LogFile); err != nil {
		return nil, nil, err
	}

	client, err := ranking.NewRedisClient(cfg.RedisAddr(), cfg.RedisPassword)
	if err != nil {
		return nil, nil, err
	}

	return ranking.NewRedisSource(client), func() { _ = client.Close() }, nil
}

func init() {
	rankingShowCmd.Flags().IntVar(&rankingDepth, "depth", 100, "number of candidates to show")
	rankingSetCmd.Flags().Float64Var(&rankingScore, "score", 1, "engagement score to set")

	rankingCmd.AddCommand(rankingShowCmd)
	rankingCmd.AddCommand(rankingSetCmd)
	rankingCmd.AddCommand(rankingRemoveCmd)
}
