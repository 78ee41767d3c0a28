package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"

	"github.com/kickzone/kickzone-admin/internal/apiclient"
	"github.com/kickzone/kickzone-admin/internal/auth"
	"github.com/kickzone/kickzone-admin/internal/rbac"
	"github.com/kickzone/kickzone-admin/internal/shared"
)

func newLoginCmd(rt *runtime) *cobra.Command {
	var (
		creds      auth.Credentials
		allowStaff bool
	)
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session",
		Long:  "Sign in with an administrator account. Missing credentials are prompted for. The tokens are stored in the session file.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if creds.Email == "" {
				if creds.Email, err = rt.ask("Email: "); err != nil {
					return err
				}
			}
			if creds.Password == "" {
				if creds.Password, err = rt.ask("Password: "); err != nil {
					return err
				}
			}
			creds.Email = strings.TrimSpace(creds.Email)
			if err := validator.New().Struct(creds); err != nil {
				return errors.New("a valid email and a password are required")
			}

			// No token store: a 401 here means wrong credentials, not an
			// expired session.
			service := auth.NewService(rt.client, allowStaff)
			grant, err := service.Login(cmd.Context(), creds)
			if err != nil {
				if apiclient.StatusCode(err) == 0 && !errors.Is(err, shared.ErrAccessDenied) && !errors.Is(err, auth.ErrNoToken) {
					return fmt.Errorf("sign in: %w", err)
				}
				return errors.New(auth.LoginMessage(err))
			}
			apiclient.ClearSession(rt.store)
			auth.Persist(rt.store, grant)
			if err := rt.store.Err(); err != nil {
				return err
			}
			rt.printf("Welcome back, %s!\n", grant.Profile.DisplayName())
			return nil
		},
	}
	cmd.Flags().StringVarP(&creds.Email, "email", "e", "", "Account email (prompted if omitted)")
	cmd.Flags().StringVarP(&creds.Password, "password", "p", "", "Account password (prompted if omitted)")
	cmd.Flags().BoolVar(&allowStaff, "allow-staff", false, "Accept staff accounts, not only system administrators")
	return cmd
}

func newLogoutCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			apiclient.ClearSession(rt.store)
			rt.printf("Signed out.\n")
			return nil
		},
	}
}

type whoami struct {
	Profile    rbac.Profile `json:"profile"`
	Navigation []string     `json:"navigation"`
}

func newWhoamiCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in profile and the sections it can open",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := rbac.LoadProfile(rt.store)
			if err != nil {
				return errNotLoggedIn
			}
			out := whoami{Profile: profile}
			for _, item := range rbac.Navigation(profile) {
				out.Navigation = append(out.Navigation, item.Text)
			}
			if rt.opts.json {
				return rt.printJSON(out)
			}

			rt.printf("%s <%s>\n", profile.DisplayName(), profile.Email)
			rt.printf("Role:        %s\n", profile.Role)
			if profile.IsSystemAdmin() {
				rt.printf("Permissions: all\n")
			} else {
				labels := make([]string, 0, len(profile.Permissions))
				for _, p := range profile.Permissions {
					labels = append(labels, rbac.Permission(p).Label())
				}
				rt.printf("Permissions: %s\n", orNA(strings.Join(labels, ", ")))
			}
			rt.printf("Sections:    %s\n", orNA(strings.Join(out.Navigation, ", ")))
			return nil
		},
	}
}
