package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/evgeniy-krivenko/notes-collab/internal/client"
)

var password string

var signupCmd = &cobra.Command{
	Use:   "signup [name] [email]",
	Short: "Create an account and log in",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		pw, err := readPassword()
		if err != nil {
			return err
		}

		return withClient(cmd.Context(), func(c *client.Client) error {
			user, err := c.Signup(cmd.Context(), args[0], args[1], pw)
			if err != nil {
				return err
			}
			fmt.Printf("Signed up as %s <%s>\n", user.Name, user.Email)
			return nil
		})
	},
}

var loginCmd = &cobra.Command{
	Use:   "login [email]",
	Short: "Log in and remember the session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pw, err := readPassword()
		if err != nil {
			return err
		}

		return withClient(cmd.Context(), func(c *client.Client) error {
			user, err := c.Login(cmd.Context(), args[0], pw)
			if err != nil {
				return err
			}
			fmt.Printf("Logged in as %s <%s>\n", user.Name, user.Email)
			return nil
		})
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd.Context(), func(c *client.Client) error {
			if err := c.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("Logged out")
			return nil
		})
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged in user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd.Context(), func(c *client.Client) error {
			user, err := requireUser(c)
			if err != nil {
				return err
			}
			fmt.Printf("%s <%s> (%s)\n", user.Name, user.Email, user.ID)
			return nil
		})
	},
}

// readPassword takes --password or the first line of stdin.
func readPassword() (string, error) {
	if password != "" {
		return password, nil
	}

	fmt.Fprint(os.Stderr, "Password: ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read password: %v", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func init() {
	rootCmd.AddCommand(signupCmd, loginCmd, logoutCmd, whoamiCmd)
	for _, cmd := range []*cobra.Command{signupCmd, loginCmd} {
		cmd.Flags().StringVar(&password, "password", "", "Password (read from stdin when empty)")
	}
}
