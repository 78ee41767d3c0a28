package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/kickzone/kickzone-admin/internal/managers"
	"github.com/kickzone/kickzone-admin/internal/rbac"
)

func newManagersCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "managers",
		Short: "Manage playground managers and their grounds",
	}
	cmd.AddCommand(
		newManagersListCmd(rt),
		newManagersGetCmd(rt),
		newManagersCreateCmd(rt),
		newManagersDeleteCmd(rt),
		newManagersStatsCmd(rt),
	)
	return cmd
}

func newManagersListCmd(rt *runtime) *cobra.Command {
	var (
		filters managers.Filters
		pages   paging
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List managers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := rt.require(rbac.PermManageManagers); err != nil {
				return err
			}
			filters.Page, filters.Size = pages.index(), pages.size
			page, err := managers.NewService(rt.client).List(rt.ctx(cmd), filters)
			if err != nil {
				return err
			}
			if rt.opts.json {
				return rt.printJSON(page)
			}
			if page.Empty() {
				rt.printf("No managers found.\n")
				return nil
			}
			t := newTable(rt.streams.Out, "id", "name", "email", "ground", "address")
			for _, m := range page.Content {
				ground, address := "N/A", "N/A"
				if m.Ground != nil {
					ground, address = orNA(m.Ground.Name), orNA(m.Ground.Address)
				}
				t.row(itoa(m.ID), m.FullName(), m.Email, ground, address)
			}
			if err := t.flush(); err != nil {
				return err
			}
			pageFooter(rt, page)
			return nil
		},
	}
	cmd.Flags().StringVar(&filters.Name, "name", "", "Filter by name")
	cmd.Flags().StringVar(&filters.Email, "email", "", "Filter by email")
	pages.bind(cmd)
	return cmd
}

func newManagersGetCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "get <manager-id>",
		Short: "Show one manager",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			managerID, err := parseID(args[0])
			if err != nil {
				return err
			}
			if _, err := rt.require(rbac.PermManageManagers); err != nil {
				return err
			}
			m, err := managers.NewService(rt.client).Get(rt.ctx(cmd), managerID)
			if err != nil {
				return err
			}
			if rt.opts.json {
				return rt.printJSON(m)
			}
			rt.printf("%s <%s>\n", m.FullName(), m.Email)
			if g := m.Ground; g != nil {
				rt.printf("Ground:      %s\n", g.Name)
				rt.printf("Address:     %s\n", orNA(g.Address))
				rt.printf("Description: %s\n", orNA(g.Description))
				rt.printf("Features:    %s\n", orNA(strings.Join(g.PopularFeatures, ", ")))
			}
			return nil
		},
	}
}

// managerManifest is the YAML shape of managers create -f.
type managerManifest struct {
	managers.Input `yaml:",inline"`
	GroundPicture  string `yaml:"groundPicture"`
}

func newManagersCreateCmd(rt *runtime) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "create -f manager.yaml",
		Short: "Create a manager and their ground from a manifest",
		Example: `  firstName: Jane
  lastName: Doe
  email: jane@example.com
  password: s3cret!
  groundName: Riverside Arena
  groundAddress: 1 River Road
  popularFeatures: [Parking, Showers]
  groundPicture: ./arena.jpg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := rt.require(rbac.PermManageManagers); err != nil {
				return err
			}
			var m managerManifest
			if err := rt.readManifest(file, &m); err != nil {
				return err
			}
			if err := checkStruct(m.Input); err != nil {
				return err
			}
			picture, err := readUpload(m.GroundPicture)
			if err != nil {
				return err
			}
			created, err := managers.NewService(rt.client).Create(rt.ctx(cmd), m.Input, picture)
			if err != nil {
				return failed("create manager", err)
			}
			rt.printf("Manager created successfully (id %d).\n", created.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Manifest file, or - for stdin")
	return cmd
}

func newManagersDeleteCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <manager-id>",
		Short: "Delete a manager",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			managerID, err := parseID(args[0])
			if err != nil {
				return err
			}
			if _, err := rt.require(rbac.PermManageManagers); err != nil {
				return err
			}
			if err := rt.confirm(fmt.Sprintf("Delete manager %d?", managerID)); err != nil {
				return err
			}
			if err := managers.NewService(rt.client).Delete(rt.ctx(cmd), managerID); err != nil {
				return failed("delete manager", err)
			}
			rt.printf("Manager deleted successfully.\n")
			return nil
		},
	}
}

func newManagersStatsCmd(rt *runtime) *cobra.Command {
	var start, end string
	cmd := &cobra.Command{
		Use:   "stats <manager-id>",
		Short: "Show booking statistics of a manager's ground",
		Long:  "Show booking statistics for an inclusive date range. The range defaults to the current month.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			managerID, err := parseID(args[0])
			if err != nil {
				return err
			}
			if _, err := rt.require(rbac.PermManageManagers); err != nil {
				return err
			}
			defStart, defEnd := managers.CurrentMonth(time.Now())
			if start == "" {
				start = defStart
			}
			if end == "" {
				end = defEnd
			}
			from, errFrom := time.Parse(managers.DateLayout, start)
			to, errTo := time.Parse(managers.DateLayout, end)
			if errFrom != nil || errTo != nil {
				return fmt.Errorf("dates must look like %s", managers.DateLayout)
			}
			if to.Before(from) {
				return fmt.Errorf("the end date %s is before the start date %s", end, start)
			}

			stats, err := managers.NewService(rt.client).Stats(rt.ctx(cmd), managerID, start, end)
			if err != nil {
				return err
			}
			if rt.opts.json {
				return rt.printJSON(stats)
			}
			rt.printf("%s to %s\n", start, end)
			rt.printf("Bookings:     %s\n", humanize.Comma(stats.TotalBookings))
			rt.printf("Revenue:      %s\n", money(stats.Revenue))
			rt.printf("Occupancy:    %s%%\n", humanize.FormatFloat("#.#", stats.UsageStats.OccupancyRate))
			rt.printf("Hours booked: %s\n", humanize.FormatFloat("#,###.#", stats.UsageStats.TotalHoursBooked))

			t := newTable(rt.streams.Out, "status", "bookings")
			for _, c := range stats.Breakdown() {
				t.row(c.Status, humanize.Comma(c.Count))
			}
			if err := t.flush(); err != nil {
				return err
			}
			if len(stats.RecentActivity) > 0 {
				rt.printf("\nRecent activity\n")
				t := newTable(rt.streams.Out, "id", "customer", "start", "status", "total")
				for _, a := range stats.RecentActivity {
					t.row(itoa(a.ID), a.CustomerName, a.StartTime, a.Status, money(a.TotalPrice))
				}
				return t.flush()
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&start, "from", "", "Start date (YYYY-MM-DD, default first day of this month)")
	cmd.Flags().StringVar(&end, "to", "", "End date (YYYY-MM-DD, default last day of this month)")
	return cmd
}
