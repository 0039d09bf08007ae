package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/evgeniy-krivenko/notes-collab/internal/client"
	"github.com/evgeniy-krivenko/notes-collab/internal/entity"
)

var (
	listTab     string
	listPage    int
	createTitle string
	createBody  string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List your notes or the notes shared with you",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tab, err := entity.ParseTab(listTab)
		if err != nil {
			return err
		}

		return withClient(cmd.Context(), func(c *client.Client) error {
			page, err := c.ListNotes(cmd.Context(), tab, listPage)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tOWNER\tUPDATED")
			for _, n := range page.Notes {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", n.ID, n.Title, n.Owner.Email, n.LastUpdated.Local().Format(time.DateTime))
			}
			if err := w.Flush(); err != nil {
				return err
			}

			fmt.Printf("Page %d of %d\n", page.Page, page.TotalPages)
			return nil
		})
	},
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a note",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd.Context(), func(c *client.Client) error {
			note, err := c.CreateNote(cmd.Context(), entity.NoteFields{Title: createTitle, Content: createBody})
			if err != nil {
				return err
			}
			fmt.Printf("Note created: %s\n", note.ID)
			return nil
		})
	},
}

var showCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Print a note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd.Context(), func(c *client.Client) error {
			note, err := c.FetchNote(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Printf("# %s\n\n%s\n\n", note.Title, note.Content)
			fmt.Printf("Owner: %s <%s>\n", note.Owner.Name, note.Owner.Email)
			fmt.Printf("Updated: %s\n", note.LastUpdated.Local().Format(time.DateTime))
			return nil
		})
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a note you own",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd.Context(), func(c *client.Client) error {
			if err := c.DeleteNote(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Note deleted: %s\n", args[0])
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(listCmd, createCmd, showCmd, deleteCmd)

	listCmd.Flags().StringVar(&listTab, "tab", string(entity.TabOwn), "own or shared")
	listCmd.Flags().IntVar(&listPage, "page", 1, "Page number, starting at 1")

	createCmd.Flags().StringVar(&createTitle, "title", "", "Note title")
	createCmd.Flags().StringVar(&createBody, "content", "", "Note content")
	_ = createCmd.MarkFlagRequired("title")
	_ = createCmd.MarkFlagRequired("content")
}
