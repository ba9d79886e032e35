package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/localfinder/localfinder-cli/internal/adapters/driving/forms"
	"github.com/localfinder/localfinder-cli/internal/core/domain"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to your account",
	Long: `Sign in as a user, or as a provider with --provider.

The two sessions are independent: you can be signed in as both at once.
Prompts for anything not given as a flag; the password is never echoed.`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account",
	Long: `Create a user account, or a provider account with --provider.

Passwords need at least 8 characters with an uppercase letter, a lowercase
letter and a number.`,
	Args: cobra.NoArgs,
	RunE: runSignup,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the stored session",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

var (
	loginRole  func() domain.Role
	signupRole func() domain.Role
	logoutRole func() domain.Role
	whoamiRole func() domain.Role

	loginEmail       string
	signupEmail      string
	signupFirstName  string
	signupLastName   string
	signupAcceptTerm bool
)

func init() {
	loginRole = roleFlag(loginCmd)
	loginCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "account email")

	signupRole = roleFlag(signupCmd)
	signupCmd.Flags().StringVarP(&signupEmail, "email", "e", "", "account email")
	signupCmd.Flags().StringVar(&signupFirstName, "first-name", "", "first name (users only)")
	signupCmd.Flags().StringVar(&signupLastName, "last-name", "", "last name (users only)")
	signupCmd.Flags().BoolVar(&signupAcceptTerm, "accept-terms", false, "accept the terms and conditions (users only)")

	logoutRole = roleFlag(logoutCmd)
	whoamiRole = roleFlag(whoamiCmd)

	rootCmd.AddCommand(loginCmd, signupCmd, logoutCmd, whoamiCmd)
}

func runLogin(cmd *cobra.Command, _ []string) error {
	if sessionService == nil {
		return errNotConfigured("session service")
	}
	p := newPrompter(cmd)

	var form forms.Login
	var err error
	if form.Email, err = orPrompt(p, loginEmail, "Email"); err != nil {
		return err
	}
	if form.Password, err = p.password("Password"); err != nil {
		return err
	}
	if err := forms.Validate(form); err != nil {
		return fail("login failed", err)
	}

	role := loginRole()
	session, err := sessionService.Login(commandContext(cmd), role, form.Credentials())
	if err != nil {
		return fail("login failed", err)
	}
	cmd.Printf("Logged in as %s <%s> (%s)\n", session.Account.Name, session.Account.Email, role)
	return nil
}

func runSignup(cmd *cobra.Command, _ []string) error {
	if sessionService == nil {
		return errNotConfigured("session service")
	}
	p := newPrompter(cmd)
	ctx := commandContext(cmd)
	role := signupRole()

	email, err := orPrompt(p, signupEmail, "Email")
	if err != nil {
		return err
	}
	password, err := p.password("Password")
	if err != nil {
		return err
	}
	confirm, err := p.password("Confirm password")
	if err != nil {
		return err
	}

	var session *domain.Session
	if role == domain.RoleProvider {
		form := forms.ProviderSignup{Email: email, Password: password, Confirm: confirm}
		if err := forms.Validate(form); err != nil {
			return fail("signup failed", err)
		}
		session, err = sessionService.SignupProvider(ctx, form.Signup())
	} else {
		form := forms.UserSignup{Email: email, Password: password, Confirm: confirm, AcceptTerms: signupAcceptTerm}
		if form.FirstName, err = orPrompt(p, signupFirstName, "First name"); err != nil {
			return err
		}
		if form.LastName, err = orPrompt(p, signupLastName, "Last name"); err != nil {
			return err
		}
		if !form.AcceptTerms {
			if form.AcceptTerms, err = p.confirm("Accept the terms and conditions?"); err != nil {
				return err
			}
		}
		if err := forms.Validate(form); err != nil {
			return fail("signup failed", err)
		}
		session, err = sessionService.SignupUser(ctx, form.Signup())
	}
	if err != nil {
		return fail("signup failed", err)
	}

	if session == nil {
		cmd.Println("Account created. Run 'localfinder login' to sign in.")
		return nil
	}
	cmd.Printf("Account created. Logged in as %s <%s> (%s)\n", session.Account.Name, session.Account.Email, role)
	return nil
}

func runLogout(cmd *cobra.Command, _ []string) error {
	if sessionService == nil {
		return errNotConfigured("session service")
	}
	role := logoutRole()
	if err := sessionService.Logout(commandContext(cmd), role); err != nil {
		return fail("logout failed", err)
	}
	cmd.Printf("Logged out (%s)\n", role)
	return nil
}

func runWhoami(cmd *cobra.Command, _ []string) error {
	if sessionService == nil {
		return errNotConfigured("session service")
	}
	role := whoamiRole()
	session := sessionService.Current(role)
	if !session.Authenticated() {
		cmd.Printf("Not logged in (%s)\n", role)
		return nil
	}

	synced, err := sessionService.SyncAccount(commandContext(cmd), role)
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return fail("whoami failed", err)
	case err != nil:
		cmd.PrintErrf("Warning: showing cached account: %s\n", forms.Describe(err))
	case synced != nil:
		session = synced
	}

	cmd.Printf("%s <%s>\n", session.Account.Name, session.Account.Email)
	cmd.Printf("  Role: %s\n", role)
	if session.Account.ID != "" {
		cmd.Printf("  ID:   %s\n", session.Account.ID)
	}
	return nil
}

// orPrompt returns value, prompting for it when empty.
func orPrompt(p *prompter, value, label string) (string, error) {
	if value != "" {
		return value, nil
	}
	return p.line(label, "")
}
