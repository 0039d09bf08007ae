package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/evgeniy-krivenko/notes-collab/internal/client"
	"github.com/evgeniy-krivenko/notes-collab/internal/entity"
)

var watchNotes []string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print live events until interrupted",
	Long: `watch prints notes shared with you as they arrive.
With --note it also prints updates of the given notes.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		return withClient(ctx, func(c *client.Client) error {
			if _, err := requireUser(c); err != nil {
				return err
			}

			ch := c.Channel()
			if ch == nil || !ch.Available() {
				return entity.ErrChannelUnavailable
			}

			defer c.OnNoteShared(func(e entity.NoteSharedEvent) {
				fmt.Printf("%s  shared  %s %q\n", time.Now().Format(time.TimeOnly), e.NoteID, e.Title)
			})()

			defer ch.OnNoteUpdated(func(n entity.Note) {
				fmt.Printf("%s  updated %s %q\n", time.Now().Format(time.TimeOnly), n.ID, n.Title)
			})()

			for _, id := range watchNotes {
				if err := ch.JoinNoteRoom(ctx, id); err != nil {
					return err
				}
			}

			fmt.Println("Watching for live events, Ctrl-C to stop")
			<-ctx.Done()
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringSliceVar(&watchNotes, "note", nil, "Note ids whose updates are printed")
}
