// Package account provides the login view for users and providers.
package account

import (
	"context"
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/localfinder/localfinder-cli/internal/adapters/driving/forms"
	"github.com/localfinder/localfinder-cli/internal/adapters/driving/tui/components/input"
	"github.com/localfinder/localfinder-cli/internal/adapters/driving/tui/keymap"
	"github.com/localfinder/localfinder-cli/internal/adapters/driving/tui/messages"
	"github.com/localfinder/localfinder-cli/internal/adapters/driving/tui/styles"
	"github.com/localfinder/localfinder-cli/internal/core/domain"
	"github.com/localfinder/localfinder-cli/internal/core/ports/driving"
)

// Row identifies the focused control.
type Row int

const (
	RowRole Row = iota
	RowEmail
	RowPassword
	rowCount
)

// View logs either role in or out.
type View struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	sessions driving.SessionService
	ctx      context.Context

	roles    []domain.Role
	role     int
	email    *input.Field
	password *input.Field
	row      Row
	busy     bool
	message  string
	failed   bool

	width  int
	height int
	ready  bool
}

// NewView creates the account view.
func NewView(s *styles.Styles, km *keymap.KeyMap, sessions driving.SessionService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &View{
		styles:   s,
		keymap:   km,
		sessions: sessions,
		ctx:      context.Background(),
		roles:    domain.Roles(),
		email:    input.NewField(s, "Email:    ", "you@example.com"),
		password: input.NewPasswordField(s, "Password: "),
		width:    80,
		height:   24,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init resets the form.
func (v *View) Init() tea.Cmd {
	v.password.Reset()
	v.email.SetError("")
	v.message = ""
	v.failed = false
	v.setRow(RowRole)
	return nil
}

// Update handles messages for the account view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.SessionChanged:
		v.busy = false
		if msg.Err != nil {
			v.failed = true
			v.message = forms.Describe(msg.Err)
			return v, nil
		}
		v.failed = false
		v.password.Reset()
		if msg.Session != nil {
			v.message = "Logged in as " + msg.Session.Account.Email
		} else {
			v.message = "Logged out of " + string(msg.Role) + " account"
		}
		return v, nil

	case tea.KeyMsg:
		return v.handleKey(msg)
	}
	return v, v.updateField(msg)
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	key := msg.String()
	switch {
	case msg.Type == tea.KeyEsc:
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewMenu} }
	case key == "ctrl+x":
		return v, v.logout()
	case msg.Type == tea.KeyTab || msg.Type == tea.KeyDown:
		v.setRow((v.row + 1) % rowCount)
		return v, nil
	case msg.Type == tea.KeyShiftTab || msg.Type == tea.KeyUp:
		v.setRow((v.row - 1 + rowCount) % rowCount)
		return v, nil
	case msg.Type == tea.KeyEnter:
		if v.row == RowPassword {
			return v, v.login()
		}
		v.setRow(v.row + 1)
		return v, nil
	}

	if v.row == RowRole {
		switch {
		case keymap.Matches(key, v.keymap.Left):
			v.role = (v.role - 1 + len(v.roles)) % len(v.roles)
		case keymap.Matches(key, v.keymap.Right):
			v.role = (v.role + 1) % len(v.roles)
		}
		return v, nil
	}
	return v, v.updateField(msg)
}

func (v *View) updateField(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch v.row {
	case RowEmail:
		_, cmd = v.email.Update(msg)
	case RowPassword:
		_, cmd = v.password.Update(msg)
	}
	return cmd
}

// login validates the form and signs in the selected role.
func (v *View) login() tea.Cmd {
	if v.sessions == nil || v.busy {
		return nil
	}
	form := forms.Login{Email: strings.TrimSpace(v.email.Value()), Password: v.password.Value()}
	v.email.SetError("")
	v.password.SetError("")
	if err := forms.Validate(form); err != nil {
		var verr *forms.ValidationError
		if errors.As(err, &verr) {
			v.email.SetError(verr.Field("email"))
			v.password.SetError(verr.Field("password"))
		}
		v.failed = true
		v.message = forms.Describe(err)
		return nil
	}

	v.busy = true
	v.failed = false
	v.message = "Logging in..."

	svc, ctx, role, creds := v.sessions, v.ctx, v.Role(), form.Credentials()
	return func() tea.Msg {
		sess, err := svc.Login(ctx, role, creds)
		return messages.SessionChanged{Role: role, Session: sess, Err: err}
	}
}

func (v *View) logout() tea.Cmd {
	if v.sessions == nil || v.busy {
		return nil
	}
	role := v.Role()
	if v.sessions.Current(role) == nil {
		v.failed = true
		v.message = "Not logged in as " + string(role)
		return nil
	}
	v.busy = true

	svc, ctx := v.sessions, v.ctx
	return func() tea.Msg {
		return messages.SessionChanged{Role: role, Err: svc.Logout(ctx, role)}
	}
}

func (v *View) setRow(r Row) {
	v.row = r
	if r == RowEmail {
		v.email.Focus()
	} else {
		v.email.Blur()
	}
	if r == RowPassword {
		v.password.Focus()
	} else {
		v.password.Blur()
	}
}

// View renders the account view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Account"))
	b.WriteString("\n\n")

	for _, role := range v.roles {
		b.WriteString(v.styles.Muted.Render(roleLabel(role) + ": "))
		if sess := v.current(role); sess != nil {
			b.WriteString(v.styles.Success.Render(sess.Account.Email))
		} else {
			b.WriteString(v.styles.Muted.Render("not logged in"))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(v.renderRoles())
	b.WriteString("\n")
	b.WriteString(v.email.View())
	b.WriteString("\n")
	b.WriteString(v.password.View())
	b.WriteString("\n\n")

	if v.message != "" {
		if v.failed {
			b.WriteString(v.styles.Error.Render(v.message))
		} else {
			b.WriteString(v.styles.Success.Render(v.message))
		}
		b.WriteString("\n")
	}
	b.WriteString(v.styles.Help.Render("←/→ role • enter login • ctrl+x logout • esc back"))
	return b.String()
}

func (v *View) renderRoles() string {
	parts := make([]string, len(v.roles))
	for i, role := range v.roles {
		label := " " + roleLabel(role) + " "
		if i == v.role {
			parts[i] = v.styles.Selected.Render(label)
		} else {
			parts[i] = v.styles.Muted.Render(label)
		}
	}
	prefix := "Login as: "
	if v.row == RowRole {
		prefix = "> Login as: "
	}
	return v.styles.Normal.Render(prefix) + strings.Join(parts, " ")
}

func (v *View) current(role domain.Role) *domain.Session {
	if v.sessions == nil {
		return nil
	}
	return v.sessions.Current(role)
}

func roleLabel(role domain.Role) string {
	if role == domain.RoleProvider {
		return "Provider"
	}
	return "User"
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.email.SetWidth(width - 4)
	v.password.SetWidth(width - 4)
}

// Role returns the selected role.
func (v *View) Role() domain.Role {
	return v.roles[v.role]
}

// Row returns the focused control.
func (v *View) Row() Row {
	return v.row
}

// Message returns the last outcome shown to the user.
func (v *View) Message() string {
	return v.message
}

// SetCredentials fills the email and password fields.
func (v *View) SetCredentials(email, password string) {
	v.email.SetValue(email)
	v.password.SetValue(password)
}
