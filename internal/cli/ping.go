package cli

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newPingCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ping [context...]",
		Short: "Open each named data context and ping its server",
		RunE: func(cmd *cobra.Command, args []string) error {
			names := args
			if len(names) == 0 {
				names = append([]string{a.cfg.Mongo.ContextName}, a.cfg.Mongo.Contexts...)
			}

			g, ctx := errgroup.WithContext(cmd.Context())
			for _, name := range names {
				name := name
				dc :=a.newDataContext(name)
				g.Go(func() error {
					defer dc.Close()

					db, err := dc.Database(ctx)
					if err != nil {
						return errors.Wrapf(err, "context %s", name)
					}
					if err := db.Ping(ctx); err != nil {
						return errors.Wrapf(err, "context %s", name)
					}
					a.log.Info().Str("context", name).Str("database", db.Name()).Msg("ping ok")
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			cmd.Printf("%d context(s) reachable\n", len(names))
			return nil
		},
	}
}
