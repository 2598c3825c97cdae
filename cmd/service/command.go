package service

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/taysluxe/tayai/app/core"
	v1 "github.com/taysluxe/tayai/app/logic/v1"
	"github.com/taysluxe/tayai/pkg/plugins"
	"github.com/taysluxe/tayai/pkg/safe"
)

type Options struct {
	ConfigPath string
	Init       string
}

func (o *Options) AddFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVarP(&o.ConfigPath, "config", "c", "", "init api by given config")
	flagSet.StringVarP(&o.Init, "init", "i", "selfhost", "start service after initialize")
}

func NewCommand() *cobra.Command {
	opts := &Options{}
	cmd := &cobra.Command{
		Use:   "service",
		Short: "chat service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return Run(opts)
		},
	}
	opts.AddFlags(cmd.Flags())
	return cmd
}

func Run(opts *Options) error {
	app := core.MustSetupCore(core.MustLoadBaseConfig(opts.ConfigPath))
	plugins.Setup(app.InstallPlugins, opts.Init)
	startCron(app)
	serve(app)

	return nil
}

// startCron schedules housekeeping: expired access tokens are purged nightly.
func startCron(app *core.Core) {
	c := cron.New()
	if _, err := c.AddFunc("0 3 * * *", func() {
		safe.Run(func() {
			if err := v1.NewAuthLogic(context.Background(), app).PurgeExpiredTokens(); err != nil {
				slog.Error("Failed to purge expired tokens", slog.Any("error", err))
			}
		})
	}); err != nil {
		panic(err)
	}
	c.Start()
}
