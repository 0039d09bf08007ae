package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/evgeniy-krivenko/notes-collab/internal/client"
	"github.com/evgeniy-krivenko/notes-collab/internal/localfile"
)

var editDir string

var editCmd = &cobra.Command{
	Use:   "edit [id]",
	Short: "Edit a note through a local markdown file",
	Long: `edit writes the note to <dir>/<id>.md and keeps it in sync: saving the file
autosaves the note, collaborators' updates rewrite the file. Ctrl-C stops editing;
a change still waiting for autosave is dropped.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		return withClient(ctx, func(c *client.Client) error {
			view, err := c.OpenNote(ctx, args[0])
			if err != nil {
				return err
			}
			defer view.Close()

			printCollaborators(view.Registry.Entries())

			mirror := localfile.NewMirror(editDir, view.Editor)
			fmt.Printf("Editing %s, Ctrl-C to stop\n", mirror.Path())

			return mirror.Run(ctx)
		})
	},
}

func init() {
	rootCmd.AddCommand(editCmd)
	editCmd.Flags().StringVar(&editDir, "dir", ".", "Directory for the note file")
}
