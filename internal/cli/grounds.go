package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kickzone/kickzone-admin/internal/grounds"
	"github.com/kickzone/kickzone-admin/internal/rbac"
)

func newGroundsCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grounds",
		Short: "Search grounds and curate the popular list",
	}
	cmd.AddCommand(
		newGroundsSearchCmd(rt),
		newGroundsPopularCmd(rt),
		newGroundsFeatureCmd(rt, true),
		newGroundsFeatureCmd(rt, false),
	)
	return cmd
}

func newGroundsSearchCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "search <name>",
		Short: "Find grounds by name and show whether each is featured",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := rt.require(rbac.PermManagePopular, rbac.PermManageEvents)
			if err != nil {
				return err
			}
			service := grounds.NewService(rt.client)
			found, err := service.Search(rt.ctx(cmd), args[0])
			if err != nil {
				return err
			}
			var popular []grounds.Playground
			if profile.Has(rbac.PermManagePopular) {
				if popular, err = service.Popular(rt.ctx(cmd)); err != nil {
					rt.logger.Warn("popular grounds unavailable", "error", err)
				}
			}
			results := grounds.MarkPopular(found, popular)
			if rt.opts.json {
				return rt.printJSON(results)
			}
			if len(results) == 0 {
				rt.printf("No grounds found.\n")
				return nil
			}
			t := newTable(rt.streams.Out, "id", "name", "address", "manager", "popular")
			for _, r := range results {
				featured := ""
				if r.Popular {
					featured = "yes"
				}
				t.row(itoa(r.ID), r.Name, orNA(r.Address), orNA(r.ManagerName()), featured)
			}
			return t.flush()
		},
	}
}

func newGroundsPopularCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "popular",
		Short: "List the featured grounds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := rt.require(rbac.PermManagePopular); err != nil {
				return err
			}
			list, err := grounds.NewService(rt.client).Popular(rt.ctx(cmd))
			if err != nil {
				return err
			}
			if rt.opts.json {
				return rt.printJSON(list)
			}
			if len(list) == 0 {
				rt.printf("No popular grounds yet.\n")
				return nil
			}
			t := newTable(rt.streams.Out, "id", "name", "address", "manager")
			for _, p := range list {
				t.row(itoa(p.ID), p.Name, orNA(p.Address), orNA(p.ManagerName()))
			}
			return t.flush()
		},
	}
}

func newGroundsFeatureCmd(rt *runtime, add bool) *cobra.Command {
	use, short := "unfeature", "Remove a ground from the popular list"
	if add {
		use, short = "feature", "Add a ground to the popular list"
	}
	return &cobra.Command{
		Use:   use + " <ground-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			groundID, err := parseID(args[0])
			if err != nil {
				return err
			}
			if _, err := rt.require(rbac.PermManagePopular); err != nil {
				return err
			}
			service := grounds.NewService(rt.client)
			if add {
				if err := service.AddPopular(rt.ctx(cmd), groundID); err != nil {
					return failed("add popular ground", err)
				}
				rt.printf("Ground added to popular list.\n")
				return nil
			}
			if err := rt.confirm(fmt.Sprintf("Remove ground %d from the popular list?", groundID)); err != nil {
				return err
			}
			if err := service.RemovePopular(rt.ctx(cmd), groundID); err != nil {
				return failed("remove popular ground", err)
			}
			rt.printf("Ground removed from popular list.\n")
			return nil
		},
	}
}
