package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/bugtrackhq/bugtrack/internal/output"
)

var (
	loginUser   string
	loginSecret string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in as a known user",
	Long: `Log in as a user from the identity directory.

The password is prompted when --password is not given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return loginRun()
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the current session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return logoutRun()
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the active identity",
	RunE: func(cmd *cobra.Command, args []string) error {
		return whoamiRun()
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginUser, "user", "", "Username (required)")
	loginCmd.Flags().StringVar(&loginSecret, "password", "", "Password (prompted when omitted)")
	_ = loginCmd.MarkFlagRequired("user")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}

func loginRun() error {
	m, err := getSession()
	if err != nil {
		return err
	}

	secret := loginSecret
	if secret == "" {
		fmt.Fprint(ui.Out, "Password: ")
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(ui.Out)
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		secret = strings.TrimSpace(string(raw))
	}

	ok, err := m.Authenticate(context.Background(), loginUser, secret)
	if err != nil {
		return err
	}
	if !ok {
		// Deliberately generic: never reveal which check failed.
		return fmt.Errorf("invalid credentials")
	}

	u, _ := m.Current()
	ui.Success("Logged in as %s (%s)", output.Cyan(u.Name), u.Role)
	return nil
}

func logoutRun() error {
	m, err := getSession()
	if err != nil {
		return err
	}

	if _, ok := m.Current(); !ok {
		ui.Info("Not logged in.")
		return nil
	}
	if err := m.EndSession(context.Background()); err != nil {
		return err
	}
	ui.Success("Logged out.")
	return nil
}

func whoamiRun() error {
	u, err := requireUser()
	if err != nil {
		return err
	}
	fmt.Fprintf(ui.Out, "%s  %s <%s>  role=%s  id=%s\n", output.Cyan(u.Username), u.Name, u.Email, u.Role, u.ID)
	return nil
}
