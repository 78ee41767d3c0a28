package cli

import (
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/kickzone/kickzone-admin/internal/media"
	"github.com/kickzone/kickzone-admin/internal/rbac"
)

func newImageCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "image",
		Short: "Download uploaded images",
	}
	cmd.AddCommand(newImageGetCmd(rt))
	return cmd
}

func newImageGetCmd(rt *runtime) *cobra.Command {
	var (
		output string
		width  int
	)
	cmd := &cobra.Command{
		Use:   "get <upload-path>",
		Short: "Download an upload with the stored credentials",
		Long:  "Download an image stored by the backend, e.g. uploads/grounds/arena.jpg. --width scales it down to a thumbnail.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := rbac.LoadProfile(rt.store); err != nil {
				return errNotLoggedIn
			}
			if width < 0 || width > 1024 {
				return fmt.Errorf("--width must be between 1 and 1024")
			}
			img, err := media.NewService(rt.client).Fetch(rt.ctx(cmd), args[0])
			if err != nil {
				return failed("download image", err)
			}
			data, ext := img.Data, img.Extension
			if width > 0 {
				var contentType string
				if data, contentType, err = media.Thumbnail(img, width); err != nil {
					return failed("resize image", err)
				}
				ext = ".jpg"
				if contentType == "image/png" {
					ext = ".png"
				}
			}

			if output == "-" {
				_, err := rt.streams.Out.Write(data)
				return err
			}
			if output == "" {
				base := path.Base(strings.TrimRight(args[0], "/"))
				output = strings.TrimSuffix(base, path.Ext(base)) + ext
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write image: %w", err)
			}
			rt.printf("Saved %s (%s, %s)\n", output, img.ContentType, humanize.Bytes(uint64(len(data))))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file, or - for stdout (default: the upload's name)")
	cmd.Flags().IntVarP(&width, "width", "w", 0, "Scale to this width in pixels (1-1024)")
	return cmd
}
