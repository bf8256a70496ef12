package cmd

import (
	"context"
	"fmt"

	"github.com/Laisky/errors/v2"
	gconfig "github.com/Laisky/go-config/v2"
	gcmd "github.com/Laisky/go-utils/v6/cmd"
	glog "github.com/Laisky/go-utils/v6/log"
	"github.com/Laisky/zap"
	"github.com/spf13/cobra"

	"github.com/dsg/pharmacy-finder/internal/finder"
	"github.com/dsg/pharmacy-finder/library/config"
	"github.com/dsg/pharmacy-finder/library/log"
	"github.com/dsg/pharmacy-finder/library/pharmacy"
	"github.com/dsg/pharmacy-finder/library/postcode"
)

var rootCMD = &cobra.Command{
	Use:   "pharmacy-finder",
	Short: "pharmacy-finder",
	Long:  `find pharmacies near an address`,
	Args:  gcmd.NoExtraArgs,
}

func initialize(ctx context.Context, cmd *cobra.Command) error {
	if err := gconfig.Shared.BindPFlags(cmd.Flags()); err != nil {
		return errors.Wrap(err, "bind pflags")
	}

	setupSettings(ctx)
	setupLogger(ctx)

	if err := validateStartupConfig(); err != nil {
		return errors.Wrap(err, "validate config")
	}

	return nil
}

func setupSettings(_ context.Context) {
	// mode
	if gconfig.Shared.GetBool("debug") {
		fmt.Println("run in debug mode")
		gconfig.Shared.Set("log-level", "debug")
	} else { // prod mode
		fmt.Println("run in prod mode")
	}

	// load configuration
	cfgPath := gconfig.Shared.GetString("config")
	config.LoadFromFile(cfgPath)

	if listen := gconfig.Shared.GetString("listen"); listen != "" &&
		cmdFlagChanged("listen") {
		gconfig.Shared.Set(config.KeyWebListen, listen)
	}
}

func setupLogger(_ context.Context) {
	lvl := gconfig.Shared.GetString("log-level")
	if err := log.SetLevel(lvl); err != nil {
		log.Logger.Panic("change log level", zap.Error(err), zap.String("level", lvl))
	}
}

// cmdFlagChanged reports whether a persistent flag was set on the command line.
func cmdFlagChanged(name string) bool {
	f := rootCMD.PersistentFlags().Lookup(name)
	return f != nil && f.Changed
}

// services is what every front needs from the loaded settings.
type services struct {
	settings config.Settings
	client   *pharmacy.Client
	lookup   *postcode.Lookup
}

// newServices builds the backend client and picker lookup from settings.
func newServices(settings config.Settings) (*services, error) {
	opts := []pharmacy.Option{
		pharmacy.WithDirectHosts(settings.Backend.DirectHosts),
	}
	if settings.Backend.Timeout > 0 {
		opts = append(opts, pharmacy.WithTimeout(settings.Backend.Timeout))
	}

	client, err := pharmacy.NewClient(settings.Backend.BaseURL, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "new pharmacy client")
	}

	lookup := postcode.NewKakaoLookup(settings.Picker.KakaoAPIKey,
		postcode.WithEndpoint(settings.Picker.KakaoEndpoint))

	return &services{
		settings: settings,
		client:   client,
		lookup:   lookup,
	}, nil
}

// ordering maps finder.drop_stale_responses to an ordering policy.
func (s *services) ordering() finder.Ordering {
	if !s.settings.DropStaleResponses {
		return finder.LastResolvedWins
	}
	return finder.LatestIssuedWins
}

// controllerOptions configures the terminal fronts' controllers.
// finder.compose_hangul only applies here; the web page posts what the
// browser sends.
func (s *services) controllerOptions() []finder.Option {
	opts := []finder.Option{finder.WithOrdering(s.ordering())}
	if s.settings.ComposeHangul {
		opts = append(opts, finder.WithHangulComposition())
	}
	return opts
}

func init() {
	rootCMD.PersistentFlags().Bool("debug", false, "run in debug mode")
	rootCMD.PersistentFlags().String("listen", "localhost:8080", "like `localhost:8080`")
	rootCMD.PersistentFlags().StringP("config", "c", config.DefaultPath, "config file path")
	rootCMD.PersistentFlags().String("log-level", "info", "`debug/info/error`")
}

// Execute execute root command
func Execute() {
	if err := rootCMD.Execute(); err != nil {
		glog.Shared.Panic("start", zap.Error(err))
	}
}
