package main

import (
	"context"
	"os"

	"github.com/Luismorlan/yatube/app_setting"
	"github.com/Luismorlan/yatube/utils"
	"github.com/Luismorlan/yatube/utils/dotenv"
	. "github.com/Luismorlan/yatube/utils/flag"
	. "github.com/Luismorlan/yatube/utils/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "yatube",
		Short:         "Yatube blog api server and admin tools",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// flags are parsed by now, so the logger can pick up --dev and --service
			InitLogger()
			return dotenv.LoadDotEnvs()
		},
	}
	AddFlags(root.PersistentFlags())

	root.AddCommand(newServeCmd(), newMigrateCmd(), newClearCacheCmd())
	return root
}

// setup loads the app setting and connects to the migrated database, shared
// by every subcommand.
func setup() (app_setting.YatubeAppSetting, *gorm.DB, error) {
	setting, err := app_setting.ParseYatubeAppSetting(SettingPath)
	if err != nil {
		return setting, nil, err
	}
	db, err := utils.GetDBConnection()
	if err != nil {
		return setting, nil, err
	}
	if err := utils.DatabaseSetupAndMigration(db); err != nil {
		return setting, nil, err
	}
	return setting, db, nil
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		Log.WithError(err).Error("yatube exited with error")
		os.Exit(1)
	}
}
