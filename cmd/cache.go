package main

import (
	"encoding/json"
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/role-scout/internal/cache"
)

var (
	cacheCompany string
	cacheRole    string
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and maintain the result cache",
}

var cacheGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the cached result for a company and role",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store := openStore(ctx, cfg)
		if store == nil {
			return eris.New("cache: no backend available")
		}
		defer store.Close() //nolint:errcheck

		res, ok := cache.NewResultCache(store, cfg.Cache.TTL()).Get(ctx, cacheCompany, cacheRole)
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "not cached")
			return nil
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	},
}

var cachePurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete expired cache rows (SQLite and Postgres)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store := openStore(ctx, cfg)
		if store == nil {
			return eris.New("cache: no backend available")
		}
		defer store.Close() //nolint:errcheck

		p, ok := store.(cache.Purger)
		if !ok {
			zap.L().Info("backend expires keys itself, nothing to purge", zap.String("backend", cfg.Cache.Backend))
			return nil
		}
		n, err := p.DeleteExpired(ctx)
		if err != nil {
			return eris.Wrap(err, "cache: purge")
		}
		zap.L().Info("purged expired cache rows", zap.Int("deleted", n))
		return nil
	},
}

func init() {
	cacheGetCmd.Flags().StringVar(&cacheCompany, "company", "", "company name")
	cacheGetCmd.Flags().StringVar(&cacheRole, "role", "", "role or title")
	_ = cacheGetCmd.MarkFlagRequired("company")
	_ = cacheGetCmd.MarkFlagRequired("role")
	cacheCmd.AddCommand(cacheGetCmd, cachePurgeCmd)
	rootCmd.AddCommand(cacheCmd)
}
