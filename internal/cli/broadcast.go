package cli

import (
	"github.com/spf13/cobra"

	"github.com/kickzone/kickzone-admin/internal/notifications"
)

func newBroadcastCmd(rt *runtime) *cobra.Command {
	var msg notifications.Broadcast
	cmd := &cobra.Command{
		Use:   "broadcast",
		Short: "Send a push notification to every user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := rt.require(); err != nil {
				return err
			}
			if err := msg.Normalize(); err != nil {
				return err
			}
			if err := checkStruct(msg); err != nil {
				return err
			}
			if err := rt.confirm("Send \"" + msg.Title + "\" to every user?"); err != nil {
				return err
			}
			if err := notifications.NewService(rt.client).Broadcast(rt.ctx(cmd), msg); err != nil {
				return failed("send broadcast", err)
			}
			rt.printf("Broadcast sent successfully!\n")
			return nil
		},
	}
	cmd.Flags().StringVarP(&msg.Title, "title", "t", "", "Notification title (max 100 characters)")
	cmd.Flags().StringVarP(&msg.Description, "description", "d", "", "Notification body (max 500 characters)")
	return cmd
}
