package cli

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/kickzone/kickzone-admin/internal/rbac"
	"github.com/kickzone/kickzone-admin/internal/users"
)

func newUsersCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "List and enable or disable end-users",
	}
	cmd.AddCommand(newUsersListCmd(rt), newUserStatusCmd(rt, true), newUserStatusCmd(rt, false))
	return cmd
}

func newUsersListCmd(rt *runtime) *cobra.Command {
	var (
		filters users.Filters
		pages   paging
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List end-users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := rt.require(rbac.PermManageUsers); err != nil {
				return err
			}
			service := users.NewService(rt.client)
			filters.Page, filters.Size = pages.index(), pages.size
			page, err := service.List(rt.ctx(cmd), filters)
			if err != nil {
				return err
			}
			if rt.opts.json {
				return rt.printJSON(page)
			}
			if page.Empty() {
				rt.printf("No users found.\n")
				return nil
			}
			t := newTable(rt.streams.Out, "id", "name", "email", "phone", "status")
			for _, u := range page.Content {
				t.row(itoa(u.ID), u.FullName(), u.Email, orNA(u.PhoneNumber), status(u.Active()))
			}
			if err := t.flush(); err != nil {
				return err
			}
			pageFooter(rt, page)
			if stats, err := service.Stats(rt.ctx(cmd)); err == nil {
				rt.printf("Registered users: %s\n", humanize.Comma(stats.TotalUsers))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&filters.Name, "name", "", "Filter by name")
	cmd.Flags().StringVar(&filters.Email, "email", "", "Filter by email")
	cmd.Flags().StringVar(&filters.PhoneNumber, "phone", "", "Filter by phone number")
	pages.bind(cmd)
	return cmd
}

func newUserStatusCmd(rt *runtime, enable bool) *cobra.Command {
	verb := "disable"
	if enable {
		verb = "enable"
	}
	return &cobra.Command{
		Use:   verb + " <user-id>",
		Short: capitalize(verb) + " a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := parseID(args[0])
			if err != nil {
				return err
			}
			if _, err := rt.require(rbac.PermManageUsers); err != nil {
				return err
			}
			if err := rt.confirm(fmt.Sprintf("%s user %d?", capitalize(verb), userID)); err != nil {
				return err
			}
			service := users.NewService(rt.client)
			if enable {
				err = service.Enable(rt.ctx(cmd), userID)
			} else {
				err = service.Disable(rt.ctx(cmd), userID)
			}
			if err != nil {
				return failed(verb+" user", err)
			}
			rt.printf("User %s successfully.\n", pastTense(verb))
			return nil
		},
	}
}

func parseID(raw string) (int64, error) {
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return v, nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
