package cli

import (
	"github.com/liran/mongodata"
	"github.com/liran/mongodata/config"
	"github.com/liran/mongodata/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type app struct {
	configPath string
	extra      []mongodata.Option

	cfg *config.Config
	log zerolog.Logger
}

// newDataContext opens nothing yet, the handle is built on first use.
func (a *app) newDataContext(contextName string) *mongodata.DataContext {
	if contextName == "" {
		contextName = a.cfg.Mongo.ContextName
	}
	opts := append(a.cfg.Options(contextName), mongodata.WithLogger(a.log.With().Str("context", contextName).Logger()))
	opts = append(opts, a.extra...)
	return mongodata.NewDataContext(opts...)
}

// NewRootCmd builds the top-level `mongodata` command. extra options are applied to
// every data context the commands open.
func NewRootCmd(extra ...mongodata.Option) *cobra.Command {
	a := &app{extra: extra}

	root := &cobra.Command{
		Use:           "mongodata",
		Short:         "Check MongoDB data contexts",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			a.cfg = cfg
			w := cmd.ErrOrStderr()
			if cfg.Log.Pretty {
				w = logger.Console(w)
			}
			a.log = logger.NewWithWriter(cfg.Log.Level, w)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default ./mongodata.yaml)")

	root.AddCommand(newPingCmd(a))
	root.AddCommand(newTxnCmd(a))
	return root
}
