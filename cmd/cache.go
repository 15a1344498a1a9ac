package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"souq/internal/utils"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the local storefront cache",
	Long: `Manage the local cache of storefront data.

Reads are served from this cache when fresh, so the app stays responsive
and usable offline. Entries are never expired eagerly - stale data is kept
as a fallback for when the backend is unreachable - so pruning is the only
way disk space is reclaimed automatically.`,
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache statistics",
	Long:  `Display information about the local cache including entry count and size on disk.`,
	RunE:  runCacheStats,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear all cached data",
	Long:  `Remove all cached storefront data. This will force fresh backend calls on next use and discard the offline fallback.`,
	RunE:  runCacheClear,
}

var cachePruneOlderThan time.Duration

var cachePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove entries not written recently",
	Long: `Remove cache entries that have not been written for longer than the
given duration and reclaim the disk space. Pruned entries are gone for good,
including as offline fallbacks.`,
	RunE: runCachePrune,
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cachePruneCmd)

	cachePruneCmd.Flags().DurationVar(&cachePruneOlderThan, "older-than", 7*24*time.Hour, "remove entries last written before this long ago")
}

func runCacheStats(cmd *cobra.Command, args []string) error {
	env, err := newAppEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	stats, err := env.store.Stats(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to get cache stats: %w", err)
	}

	fmt.Printf("Cache Statistics:\n")
	fmt.Printf("  Total entries: %d\n", stats.TotalEntries)
	fmt.Printf("  Database size: %s\n", utils.FormatBytes(stats.SizeBytes))
	fmt.Printf("  Data version:  %s\n", env.cache.Version())

	return nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	env, err := newAppEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	stats, err := env.store.Stats(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to get cache stats: %w", err)
	}

	if stats.TotalEntries == 0 {
		fmt.Println("Cache is already empty")
		return nil
	}

	if err := env.store.Clear(cmd.Context()); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}

	fmt.Printf("Cleared %d cache entries\n", stats.TotalEntries)
	return nil
}

func runCachePrune(cmd *cobra.Command, args []string) error {
	env, err := newAppEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	statsBefore, err := env.store.Stats(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to get cache stats: %w", err)
	}

	cutoff := time.Now().Add(-cachePruneOlderThan)
	removed, err := env.store.Prune(cmd.Context(), cutoff)
	if err != nil {
		return fmt.Errorf("failed to prune cache: %w", err)
	}

	if removed == 0 {
		fmt.Println("No entries old enough to prune")
		return nil
	}

	statsAfter, err := env.store.Stats(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to get cache stats after prune: %w", err)
	}

	fmt.Printf("Removed %d cache entries\n", removed)
	if saved := statsBefore.SizeBytes - statsAfter.SizeBytes; saved > 0 {
		fmt.Printf("Cache size reduced by %s\n", utils.FormatBytes(saved))
	}

	return nil
}
