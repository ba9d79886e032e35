// Package profile provides the provider profile editor.
package profile

import (
	"context"
	"errors"
	"strconv"
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

// Field names, matching the form tags of forms.Profile.
const (
	FieldName        = "name"
	FieldMobile      = "mobile"
	FieldCategory    = "category"
	FieldDescription = "description"
	FieldPrice       = "price"
	FieldImage       = "image"
)

var fieldOrder = []string{FieldName, FieldMobile, FieldCategory, FieldDescription, FieldPrice, FieldImage}

// View edits the logged-in provider's profile.
type View struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	profile driving.ProfileService
	ctx     context.Context

	fields  map[string]*input.Field
	focus   int
	loading bool
	saving  bool
	message string
	failed  bool

	width  int
	height int
	ready  bool
}

// NewView creates the profile editor.
func NewView(s *styles.Styles, km *keymap.KeyMap, profile driving.ProfileService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &View{
		styles:  s,
		keymap:  km,
		profile: profile,
		ctx:     context.Background(),
		fields: map[string]*input.Field{
			FieldName:        input.NewField(s, "Name:        ", "Business or full name"),
			FieldMobile:      input.NewField(s, "Mobile:      ", "10 to 15 digits"),
			FieldCategory:    input.NewField(s, "Category:    ", "e.g. plumbers"),
			FieldDescription: input.NewField(s, "Description: ", "What you offer"),
			FieldPrice:       input.NewField(s, "Price (₹):   ", "0"),
			FieldImage:       input.NewField(s, "Image file:  ", "Path to a new profile picture"),
		},
		width:  80,
		height: 24,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the profile and focuses the first field.
func (v *View) Init() tea.Cmd {
	v.setFocus(0)
	v.message = ""
	v.failed = false
	if v.profile == nil {
		return nil
	}
	v.loading = true

	svc, ctx := v.profile, v.ctx
	return func() tea.Msg {
		p, err := svc.Get(ctx)
		return messages.ProfileLoaded{Provider: p, Err: err}
	}
}

// Update handles messages for the profile view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.ProfileLoaded:
		v.loading = false
		if msg.Err != nil {
			v.fail(forms.Describe(msg.Err))
			return v, nil
		}
		v.fill(forms.ProfileFrom(msg.Provider))
		return v, nil

	case messages.ProfileSaved:
		v.saving = false
		if msg.Err != nil {
			v.fail(forms.Describe(msg.Err))
			return v, nil
		}
		if msg.Provider != nil {
			v.fill(forms.ProfileFrom(msg.Provider))
		}
		v.fields[FieldImage].Reset()
		v.failed = false
		v.message = "Profile updated"
		return v, nil

	case tea.KeyMsg:
		return v.handleKey(msg)
	}

	_, cmd := v.focused().Update(msg)
	return v, cmd
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	if keymap.Matches(msg.String(), v.keymap.Save) {
		return v, v.submit()
	}

	switch msg.Type {
	case tea.KeyEsc:
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewMenu} }
	case tea.KeyTab, tea.KeyDown:
		v.setFocus((v.focus + 1) % len(fieldOrder))
		return v, nil
	case tea.KeyShiftTab, tea.KeyUp:
		v.setFocus((v.focus - 1 + len(fieldOrder)) % len(fieldOrder))
		return v, nil
	case tea.KeyEnter:
		if v.focus == len(fieldOrder)-1 {
			return v, v.submit()
		}
		v.setFocus(v.focus + 1)
		return v, nil
	}

	_, cmd := v.focused().Update(msg)
	return v, cmd
}

// submit validates the editor and sends the update.
func (v *View) submit() tea.Cmd {
	if v.profile == nil || v.saving || v.loading {
		return nil
	}
	for _, name := range fieldOrder {
		v.fields[name].SetError("")
	}

	form, ok := v.form()
	if !ok {
		return nil
	}
	if err := forms.Validate(form); err != nil {
		v.showValidation(err)
		return nil
	}

	v.saving = true
	v.failed = false
	v.message = "Saving..."

	svc, ctx, update := v.profile, v.ctx, form.Update()
	return func() tea.Msg {
		p, err := svc.Update(ctx, update)
		return messages.ProfileSaved{Provider: p, Err: err}
	}
}

// form reads the fields. A price that is not a number marks the field.
func (v *View) form() (forms.Profile, bool) {
	form := forms.Profile{
		Name:        v.fields[FieldName].Value(),
		Mobile:      v.fields[FieldMobile].Value(),
		Category:    v.fields[FieldCategory].Value(),
		Description: v.fields[FieldDescription].Value(),
		ImagePath:   v.fields[FieldImage].Value(),
	}
	if raw := strings.TrimSpace(v.fields[FieldPrice].Value()); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			v.fields[FieldPrice].SetError("Price must be a number")
			v.fail(forms.MsgCheckInput)
			return form, false
		}
		form.Price = price
	}
	return form, true
}

func (v *View) showValidation(err error) {
	var verr *forms.ValidationError
	if errors.As(err, &verr) {
		for _, name := range fieldOrder {
			v.fields[name].SetError(verr.Field(name))
		}
	}
	v.fail(forms.Describe(err))
}

func (v *View) fill(form forms.Profile) {
	v.fields[FieldName].SetValue(form.Name)
	v.fields[FieldMobile].SetValue(form.Mobile)
	v.fields[FieldCategory].SetValue(form.Category)
	v.fields[FieldDescription].SetValue(form.Description)
	v.fields[FieldPrice].SetValue(strconv.FormatFloat(form.Price, 'f', -1, 64))
	for _, name := range fieldOrder {
		v.fields[name].SetError("")
	}
}

func (v *View) fail(msg string) {
	v.failed = true
	v.message = msg
}

func (v *View) focused() *input.Field {
	return v.fields[fieldOrder[v.focus]]
}

func (v *View) setFocus(i int) {
	v.focus = i
	for j, name := range fieldOrder {
		if j == i {
			v.fields[name].Focus()
		} else {
			v.fields[name].Blur()
		}
	}
}

// View renders the editor.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("My profile"))
	b.WriteString("\n\n")
	if v.loading {
		b.WriteString(v.styles.Muted.Render("Loading profile..."))
		return b.String()
	}

	for _, name := range fieldOrder {
		b.WriteString(v.fields[name].View())
		b.WriteString("\n")
	}
	b.WriteString(v.styles.Muted.Render("Categories: " + categoryIDs()))
	b.WriteString("\n\n")

	if v.message != "" {
		if v.failed {
			b.WriteString(v.styles.Error.Render(v.message))
		} else {
			b.WriteString(v.styles.Success.Render(v.message))
		}
		b.WriteString("\n")
	}
	b.WriteString(v.styles.Help.Render("tab next • ctrl+s save • esc back"))
	return b.String()
}

func categoryIDs() string {
	var ids []string
	for _, c := range domain.DefaultCategories() {
		if c.ID != domain.CategoryAll {
			ids = append(ids, c.ID)
		}
	}
	return strings.Join(ids, ", ")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	for _, f := range v.fields {
		f.SetWidth(width - 4)
	}
}

// Value returns the text of the named field.
func (v *View) Value(field string) string {
	if f, ok := v.fields[field]; ok {
		return f.Value()
	}
	return ""
}

// SetValue sets the text of the named field.
func (v *View) SetValue(field, value string) {
	if f, ok := v.fields[field]; ok {
		f.SetValue(value)
	}
}

// FieldError returns the validation message under the named field.
func (v *View) FieldError(field string) string {
	if f, ok := v.fields[field]; ok {
		return f.Error()
	}
	return ""
}

// Focused returns the name of the focused field.
func (v *View) Focused() string {
	return fieldOrder[v.focus]
}

// Message returns the last outcome shown to the user.
func (v *View) Message() string {
	return v.message
}
