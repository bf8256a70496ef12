package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/Laisky/errors/v2"
	gconfig "github.com/Laisky/go-config/v2"
	gcmd "github.com/Laisky/go-utils/v6/cmd"
	"github.com/Laisky/zap"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/dsg/pharmacy-finder/internal/web"
	"github.com/dsg/pharmacy-finder/library/config"
	"github.com/dsg/pharmacy-finder/library/log"
)

var webCMD = &cobra.Command{
	Use:   "web",
	Short: "serve the pharmacy finder page",
	Long:  `serve the pharmacy finder page and proxy /api/direction to the backend`,
	Args:  gcmd.NoExtraArgs,
	PreRun: func(cmd *cobra.Command, args []string) {
		if err := initialize(cmd.Context(), cmd); err != nil {
			log.Logger.Panic("init", zap.Error(err))
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return runWeb(ctx, config.Shared())
	},
}

func runWeb(ctx context.Context, settings config.Settings) error {
	svcs, err := newServices(settings)
	if err != nil {
		return err
	}

	if !gconfig.Shared.GetBool("debug") {
		gin.SetMode(gin.ReleaseMode)
	}

	srv, err := web.NewServer(svcs.client,
		web.WithTitle(settings.Web.Title),
		web.WithPostcodeScriptURL(settings.Picker.ScriptURL),
		web.WithAllowedOrigins(settings.Web.AllowedOrigins),
		web.WithRateLimit(settings.Web.RatePerSecond, settings.Web.RateBurst),
		web.WithOrdering(svcs.ordering()),
		web.WithDirectHosts(settings.Backend.DirectHosts),
		web.WithResolveTimeout(settings.Backend.Timeout),
	)
	if err != nil {
		return errors.Wrap(err, "new web server")
	}

	return srv.Run(ctx, settings.Web.Listen)
}

func init() {
	rootCMD.AddCommand(webCMD)
}
