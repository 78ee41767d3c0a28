package cli

import (
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/kickzone/kickzone-admin/internal/analytics"
	"github.com/kickzone/kickzone-admin/internal/rbac"
)

func newDashboardCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show booking analytics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := rt.require(rbac.PermViewDashboard)
			if err != nil {
				return err
			}
			// The CLI reads straight through; caching lives in the console.
			service := analytics.NewService(rt.client, analytics.NewCache(nil, 0), rt.logger)
			data, err := service.Dashboard(rt.ctx(cmd), profile.ID)
			if err != nil {
				return err
			}
			if rt.opts.json {
				return rt.printJSON(data)
			}

			rt.printf("Bookings today:       %s\n", humanize.Comma(data.BookingsToday))
			rt.printf("Bookings this month:  %s\n", humanize.Comma(data.BookingsThisMonth))
			rt.printf("Playgrounds:          %s (%s active, %s inactive)\n",
				humanize.Comma(data.TotalPlaygrounds()), humanize.Comma(data.ActivePlaygrounds), humanize.Comma(data.InactivePlaygrounds))

			sections := []struct {
				title  string
				points []analytics.Point
			}{
				{"Bookings by sport", data.SportSeries()},
				{"Top playgrounds", data.TopPlaygrounds()},
				{"Peak hours", data.HourSeries()},
				{"Busiest days", data.WeekdaySeries()},
			}
			for _, s := range sections {
				if len(s.points) == 0 {
					continue
				}
				rt.printf("\n%s\n", s.title)
				t := newTable(rt.streams.Out, "label", "bookings")
				for _, p := range s.points {
					t.row(p.Label, humanize.Comma(p.Value))
				}
				if err := t.flush(); err != nil {
					return err
				}
			}

			if len(data.LatestBookings) > 0 {
				rt.printf("\nLatest bookings\n")
				t := newTable(rt.streams.Out, "id", "customer", "playground", "start", "status", "total")
				for _, b := range data.LatestBookings {
					t.row(itoa(b.ID), b.CustomerName, b.PlaygroundName, b.StartTime, b.Status, money(b.TotalPrice))
				}
				return t.flush()
			}
			return nil
		},
	}
}
