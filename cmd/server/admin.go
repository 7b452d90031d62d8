package main

import (
	"github.com/Luismorlan/yatube/app_setting"
	"github.com/Luismorlan/yatube/cache"
	. "github.com/Luismorlan/yatube/utils/flag"
	. "github.com/Luismorlan/yatube/utils/log"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			ServiceName = Migrator
			if _, _, err := setup(); err != nil {
				return err
			}
			Log.Info("database migrated")
			return nil
		},
	}
}

// newClearCacheCmd drops every cached fragment, making new posts visible on
// the index page right away. Only meaningful for the redis backend, the local
// one lives inside the api server process.
func newClearCacheCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clearcache",
		Short: "Drop every cached template fragment",
		RunE: func(cmd *cobra.Command, args []string) error {
			ServiceName = CacheAdmin
			ctx := cmd.Context()
			setting, err := app_setting.ParseYatubeAppSetting(SettingPath)
			if err != nil {
				return err
			}
			if setting.CACHE_BACKEND != app_setting.CacheBackendRedis {
				Log.Warn("the local cache lives in the api server process, nothing to clear")
				return nil
			}
			fragmentCache, err := cache.NewFromSetting(ctx, setting)
			if err != nil {
				return err
			}
			if err := fragmentCache.Clear(ctx); err != nil {
				return err
			}
			Log.Info("fragment cache cleared")
			return nil
		},
	}
}
