package main

import (
	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the repository cache",
}

var cacheInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show cache file details",
	Args:  cobra.NoArgs,
	RunE:  runCacheInfo,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the cache file",
	Args:  cobra.NoArgs,
	RunE:  runCacheClear,
}

func init() {
	cacheCmd.AddCommand(cacheInfoCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}

func runCacheInfo(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	info, err := a.cache.Stat(ctx)
	if err != nil {
		return err
	}

	cmd.Printf("directory:     %s\n", info.Directory)
	cmd.Printf("size:          %d bytes\n", info.FileSize)
	cmd.Printf("repositories:  %d\n", info.Repositories)
	cmd.Printf("last scan:     %s\n", info.LastScan)
	cmd.Printf("history files: %d\n", info.HistoryFiles)
	return nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.cache.Clear(); err != nil {
		return err
	}
	cmd.Println("cache cleared")
	return nil
}
