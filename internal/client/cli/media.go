package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"
)

const (
	titleFlag       = "title"
	descriptionFlag = "description"
	formatFlag      = "format"
	outputFlag      = "output"
)

func newUploadCommand(a *app) *cobra.Command {
	flags := map[string]cobraflags.Flag{
		titleFlag: &cobraflags.StringFlag{
			Name:  titleFlag,
			Value: "",
			Usage: "Post title (required)",
		},
		descriptionFlag: &cobraflags.StringFlag{
			Name:  descriptionFlag,
			Value: "",
			Usage: "Post text; omitted when the flag is not given",
		},
	}

	cmd := &cobra.Command{
		Use:   "upload <username> <file>",
		Short: "Create a post with an .mp4 or .fbx file attached",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			username, path := args[0], args[1]

			var description *string
			if cmd.Flags().Changed(descriptionFlag) {
				d := flags[descriptionFlag].GetString()
				description = &d
			}

			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()

			post, err := a.client().Upload(cmd.Context(), username, flags[titleFlag].GetString(), description, filepath.Base(path), f)
			if err != nil {
				return fmt.Errorf("upload: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created post %d %q\n", post.ID, post.Title)
			return nil
		},
	}

	cobraflags.RegisterMap(cmd, flags)
	return cmd
}

func newFetchCommand(a *app) *cobra.Command {
	flags := map[string]cobraflags.Flag{
		formatFlag: &cobraflags.StringFlag{
			Name:  formatFlag,
			Value: "mp4",
			Usage: "Media format: mp4 or fbx",
		},
		outputFlag: &cobraflags.StringFlag{
			Name:  outputFlag,
			Value: "",
			Usage: "Destination file, \"-\" for stdout (default <post-id>.<format>)",
		},
	}

	cmd := &cobra.Command{
		Use:   "fetch <username> <post-id>",
		Short: "Download a post's media",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			username := args[0]
			postID, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("post id must be an integer: %q", args[1])
			}
			format := strings.TrimPrefix(flags[formatFlag].GetString(), ".")

			output := flags[outputFlag].GetString()
			if output == "" {
				output = fmt.Sprintf("%d.%s", postID, format)
			}

			if output == "-" {
				_, err := a.client().Fetch(cmd.Context(), username, postID, format, cmd.OutOrStdout())
				return err
			}
			return fetchToFile(cmd, a.client(), username, postID, format, output)
		},
	}

	cobraflags.RegisterMap(cmd, flags)
	return cmd
}

// fetchToFile downloads into output, removing it again when the request
// fails.
func fetchToFile(cmd *cobra.Command, c apiClient, username string, postID int64, format, output string) (err error) {
	f, err := os.Create(output)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			_ = os.Remove(output)
		}
	}()

	m, err := c.Fetch(cmd.Context(), username, postID, format, f)
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%s, %d bytes)\n", output, m.ContentType, m.Size)
	return nil
}
