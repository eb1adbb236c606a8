package cli

import (
	"time"

	"github.com/liran/mongodata"
	"github.com/spf13/cobra"
)

const checkCollection = "mongodata_txn_check"

func newTxnCmd(a *app) *cobra.Command {
	var (
		contextName string
		rollback    bool
	)

	cmd := &cobra.Command{
		Use:   "txn",
		Short: "Write a marker document inside a transaction, then commit or roll back",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			dc := a.newDataContext(contextName)
			defer dc.Close()

			if err := dc.BeginTransaction(ctx, nil, nil); err != nil {
				return err
			}

			id := mongodata.SequentialID()
			err := dc.Txn(ctx, func(txn *mongodata.Txn) error {
				return txn.Model(checkCollection).Set(mongodata.Map().Set("_id", id).Set("at", time.Now()))
			}, true)
			if err != nil {
				_ = dc.EndTransaction(ctx, mongodata.Rollback)
				return err
			}

			mode := mongodata.Commit
			if rollback {
				mode = mongodata.Rollback
			}
			if err := dc.EndTransaction(ctx, mode); err != nil {
				return err
			}

			cmd.Printf("marker %s: %s\n", id, mode)
			return nil
		},
	}
	cmd.Flags().StringVar(&contextName, "context", "", "context name (default mongo.context_name)")
	cmd.Flags().BoolVar(&rollback, "rollback", false, "abort instead of committing")
	return cmd
}
