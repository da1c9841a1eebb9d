package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newResolveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <object-id>",
		Short: "Report where a catalog object currently lives in the store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			objectID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid object id %q", args[0])
			}

			return ctx.withServices(func(svc *cliServices) error {
				obj, err := svc.catalog.GetObject(cmd.Context(), objectID)
				if err != nil {
					return err
				}
				if obj == nil {
					return fmt.Errorf("object %d is not in the catalog", objectID)
				}

				key, strategy, err := svc.resolver.CurrentKeyWithStrategy(cmd.Context(), obj)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintln(out, renderTable(
					[]string{"Field", "Value"},
					[][]string{
						{"Object", strconv.FormatInt(obj.ID, 10)},
						{"File", obj.FileName()},
						{"Resolved key", key},
						{"Strategy", strategy},
						{"Catalog key", obj.CurrentKey},
					},
				))
				if key != obj.CurrentKey {
					fmt.Fprintln(out, "Catalog pointer is stale; run `restow reconcile --execute` to repair it.")
				}
				return nil
			})
		},
	}
}
