package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kickzone/kickzone-admin/internal/events"
	"github.com/kickzone/kickzone-admin/internal/rbac"
)

func newEventsCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Manage tournaments and their registrations",
	}
	cmd.AddCommand(
		newEventsListCmd(rt),
		newEventsCreateCmd(rt),
		newEventsDisableCmd(rt),
		newEventsRegistrationsCmd(rt),
	)
	return cmd
}

func newEventsListCmd(rt *runtime) *cobra.Command {
	var (
		pages  paging
		active bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := rt.require(rbac.PermManageEvents); err != nil {
				return err
			}
			service := events.NewService(rt.client)
			var list []events.Event
			if active {
				var err error
				if list, err = service.Active(rt.ctx(cmd)); err != nil {
					return err
				}
			} else {
				page, err := service.List(rt.ctx(cmd), pages.index(), pages.size)
				if err != nil {
					return err
				}
				if rt.opts.json {
					return rt.printJSON(page)
				}
				defer pageFooter(rt, page)
				list = page.Content
			}
			if rt.opts.json {
				return rt.printJSON(list)
			}
			if len(list) == 0 {
				rt.printf("No events found.\n")
				return nil
			}
			t := newTable(rt.streams.Out, "id", "title", "ground", "starts", "registration closes", "fee", "status")
			for _, e := range list {
				t.row(itoa(e.ID), e.Title, e.GroundName(), e.StartTournamentDate, e.LastRegistrationDate, money(e.RegistrationFees), status(e.IsActive))
			}
			return t.flush()
		},
	}
	cmd.Flags().BoolVar(&active, "active", false, "Only active events")
	pages.bind(cmd)
	return cmd
}

// eventManifest is the YAML shape of events create -f.
type eventManifest struct {
	events.Input `yaml:",inline"`
	Image        string `yaml:"image"`
}

func newEventsCreateCmd(rt *runtime) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "create -f event.yaml",
		Short: "Create an event from a manifest",
		Example: `  title: Summer Cup
  description: Five-a-side knockout
  groundId: 12
  lastRegistrationDate: 2026-06-01T18:00
  startTournamentDate: 2026-06-10 09:00:00
  timeFrom: "09:00"
  timeTo: "17:00"
  registrationFees: 25
  maxRegistrations: 16
  isActive: true
  image: ./cup.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := rt.require(rbac.PermManageEvents); err != nil {
				return err
			}
			var m eventManifest
			if err := rt.readManifest(file, &m); err != nil {
				return err
			}
			in := m.Input.Normalize()
			if err := checkStruct(in); err != nil {
				return err
			}
			image, err := readUpload(m.Image)
			if err != nil {
				return err
			}
			created, err := events.NewService(rt.client).Create(rt.ctx(cmd), in, image)
			if err != nil {
				return failed("create event", err)
			}
			rt.printf("Event created successfully (id %d).\n", created.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Manifest file, or - for stdin")
	return cmd
}

func newEventsDisableCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "disable <event-id>",
		Short: "Disable an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eventID, err := parseID(args[0])
			if err != nil {
				return err
			}
			if _, err := rt.require(rbac.PermManageEvents); err != nil {
				return err
			}
			if err := rt.confirm(fmt.Sprintf("Disable event %d?", eventID)); err != nil {
				return err
			}
			if err := events.NewService(rt.client).Disable(rt.ctx(cmd), eventID); err != nil {
				return failed("disable event", err)
			}
			rt.printf("Event disabled successfully.\n")
			return nil
		},
	}
}

func newEventsRegistrationsCmd(rt *runtime) *cobra.Command {
	var team string
	cmd := &cobra.Command{
		Use:   "registrations <event-id>",
		Short: "List the teams registered for an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eventID, err := parseID(args[0])
			if err != nil {
				return err
			}
			if _, err := rt.require(rbac.PermManageEvents); err != nil {
				return err
			}
			regs, err := events.NewService(rt.client).Registrations(rt.ctx(cmd), eventID)
			if err != nil {
				return err
			}
			regs = events.FilterByTeam(regs, team)
			if rt.opts.json {
				return rt.printJSON(regs)
			}
			if len(regs) == 0 {
				rt.printf("No registrations found.\n")
				return nil
			}
			t := newTable(rt.streams.Out, "id", "team", "players", "captain", "email", "registered")
			for _, r := range regs {
				t.row(itoa(r.ID), r.TeamName, fmt.Sprint(r.NumberOfPlayers), r.User.FirstName+" "+r.User.LastName, r.User.Email, r.CreatedAt)
			}
			return t.flush()
		},
	}
	cmd.Flags().StringVar(&team, "team", "", "Only teams whose name contains this text")
	return cmd
}
