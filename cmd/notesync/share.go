package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/evgeniy-krivenko/notes-collab/internal/client"
	"github.com/evgeniy-krivenko/notes-collab/internal/entity"
)

var sharePermission string

var shareCmd = &cobra.Command{
	Use:   "share [id] [email]",
	Short: "Share a note with another user",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd.Context(), func(c *client.Client) error {
			reg, err := c.Collaborators(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			_, err = reg.Add(cmd.Context(), args[1], entity.Permission(sharePermission))
			return err
		})
	},
}

var permissionCmd = &cobra.Command{
	Use:   "permission [id] [userId] [read|write]",
	Short: "Change a collaborator's permission",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd.Context(), func(c *client.Client) error {
			reg, err := c.Collaborators(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return reg.ChangePermission(cmd.Context(), args[1], entity.Permission(args[2]))
		})
	},
}

var unshareCmd = &cobra.Command{
	Use:   "unshare [id] [userId]",
	Short: "Remove a collaborator",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd.Context(), func(c *client.Client) error {
			reg, err := c.Collaborators(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return reg.Remove(cmd.Context(), args[1])
		})
	},
}

var collaboratorsCmd = &cobra.Command{
	Use:   "collaborators [id]",
	Short: "List the collaborators of a note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd.Context(), func(c *client.Client) error {
			reg, err := c.Collaborators(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printCollaborators(reg.Entries())
			return nil
		})
	},
}

func printCollaborators(entries []entity.Collaboration) {
	if len(entries) == 0 {
		fmt.Println("No collaborators")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "USER ID\tNAME\tEMAIL\tPERMISSION")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.User.ID, e.User.Name, e.User.Email, e.Permission)
	}
	_ = w.Flush()
}

func init() {
	rootCmd.AddCommand(shareCmd, permissionCmd, unshareCmd, collaboratorsCmd)
	shareCmd.Flags().StringVar(&sharePermission, "permission", string(entity.PermissionRead), "read or write")
}
