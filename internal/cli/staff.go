package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kickzone/kickzone-admin/internal/rbac"
	"github.com/kickzone/kickzone-admin/internal/staff"
)

func newStaffCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "staff",
		Short: "Manage staff accounts (system administrators only)",
	}
	cmd.AddCommand(
		newStaffListCmd(rt),
		newStaffCreateCmd(rt),
		newStaffActionCmd(rt, "enable", (*staff.Service).Enable, false),
		newStaffActionCmd(rt, "disable", (*staff.Service).Disable, true),
		newStaffActionCmd(rt, "delete", (*staff.Service).Delete, true),
	)
	return cmd
}

func newStaffListCmd(rt *runtime) *cobra.Command {
	var (
		filters staff.Filters
		pages   paging
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List staff members",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := rt.require(); err != nil {
				return err
			}
			filters.Page, filters.Size = pages.index(), pages.size
			page, err := staff.NewService(rt.client).List(rt.ctx(cmd), filters)
			if err != nil {
				return err
			}
			if rt.opts.json {
				return rt.printJSON(page)
			}
			if page.Empty() {
				rt.printf("No staff found.\n")
				return nil
			}
			t := newTable(rt.streams.Out, "id", "name", "email", "phone", "status", "permissions")
			for _, s := range page.Content {
				labels := make([]string, 0, len(s.Permissions))
				for _, p := range s.Permissions {
					labels = append(labels, p.Label())
				}
				t.row(itoa(s.ID), s.FullName(), s.Email, orNA(s.PhoneNumber), status(s.Active()), strings.Join(labels, ", "))
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
	cmd.Flags().StringVar(&filters.PhoneNumber, "phone", "", "Filter by phone number")
	pages.bind(cmd)
	return cmd
}

func newStaffCreateCmd(rt *runtime) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "create -f staff.yaml",
		Short: "Create a staff member from a manifest",
		Example: `  firstName: Sam
  lastName: Staff
  email: sam@kickzone.app
  password: s3cret!
  permissions: [MANAGE_EVENTS, VIEW_DASHBOARD]`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := rt.require(); err != nil {
				return err
			}
			var in staff.Input
			if err := rt.readManifest(file, &in); err != nil {
				return err
			}
			if err := in.Check(true); err != nil {
				return errors.New(staff.CheckMessage(err))
			}
			if err := checkStruct(in); err != nil {
				return err
			}
			raw := make([]string, 0, len(in.Permissions))
			for _, p := range in.Permissions {
				raw = append(raw, string(p))
			}
			perms, unknown := rbac.ParsePermissions(raw)
			if len(unknown) > 0 {
				return fmt.Errorf("unknown permissions: %s", strings.Join(unknown, ", "))
			}
			in.Permissions = perms

			created, err := staff.NewService(rt.client).Create(rt.ctx(cmd), in)
			if err != nil {
				return failed("create staff", err)
			}
			rt.printf("Staff created successfully (id %d).\n", created.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Manifest file, or - for stdin")
	return cmd
}

func newStaffActionCmd(rt *runtime, verb string, apply func(*staff.Service, context.Context, int64) error, ask bool) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " <staff-id>",
		Short: capitalize(verb) + " a staff member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			staffID, err := parseID(args[0])
			if err != nil {
				return err
			}
			if _, err := rt.require(); err != nil {
				return err
			}
			if ask {
				if err := rt.confirm(fmt.Sprintf("%s staff member %d?", capitalize(verb), staffID)); err != nil {
					return err
				}
			}
			if err := apply(staff.NewService(rt.client), rt.ctx(cmd), staffID); err != nil {
				return failed(verb+" staff", err)
			}
			rt.printf("Staff %s successfully.\n", pastTense(verb))
			return nil
		},
	}
}

func pastTense(verb string) string {
	if strings.HasSuffix(verb, "e") {
		return verb + "d"
	}
	return verb + "ed"
}
