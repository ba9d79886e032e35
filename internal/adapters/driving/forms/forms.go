package forms

import (
	"strings"

	"github.com/localfinder/localfinder-cli/internal/core/domain"
)

// Login is the sign-in form for either role.
type Login struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

// Credentials returns the trimmed credentials.
func (f Login) Credentials() domain.Credentials {
	return domain.Credentials{Email: strings.TrimSpace(f.Email), Password: f.Password}
}

// UserSignup is the end-user registration form.
type UserSignup struct {
	FirstName   string `form:"firstName" validate:"required"`
	LastName    string `form:"lastName" validate:"required"`
	Email       string `form:"email" validate:"required,email"`
	Password    string `form:"password" validate:"required,strongpw"`
	Confirm     string `form:"confirm" validate:"eqfield=Password"`
	AcceptTerms bool   `form:"terms" validate:"eq=true"`
}

// Signup converts the form into the registration request.
func (f UserSignup) Signup() domain.UserSignup {
	return domain.UserSignup{
		FirstName: strings.TrimSpace(f.FirstName),
		LastName:  strings.TrimSpace(f.LastName),
		Email:     strings.TrimSpace(f.Email),
		Password:  f.Password,
	}
}

// ProviderSignup is the provider registration form.
type ProviderSignup struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required,strongpw"`
	Confirm  string `form:"confirm" validate:"eqfield=Password"`
}

// Signup converts the form into the registration request.
func (f ProviderSignup) Signup() domain.ProviderSignup {
	return domain.ProviderSignup{Email: strings.TrimSpace(f.Email), Password: f.Password}
}

// Profile is the provider profile editor.
type Profile struct {
	Name        string  `form:"name" validate:"required"`
	Mobile      string  `form:"mobile" validate:"omitempty,numeric,min=10,max=15"`
	Category    string  `form:"category" validate:"required,category"`
	Description string  `form:"description"`
	Price       float64 `form:"price" validate:"gte=0"`
	ImagePath   string  `form:"image" validate:"omitempty,file"`
}

// ProfileFrom pre-fills the editor from an existing profile.
func ProfileFrom(p *domain.Provider) Profile {
	u := domain.ProfileFromProvider(p)
	return Profile{
		Name:        u.Name,
		Mobile:      u.Mobile,
		Category:    u.Category,
		Description: u.Description,
		Price:       u.Price,
	}
}

// Update converts the form into the profile update. The category is
// normalised to its id.
func (f Profile) Update() domain.ProfileUpdate {
	category := strings.TrimSpace(f.Category)
	if c, ok := domain.FindCategory(domain.DefaultCategories(), category); ok {
		category = c.ID
	}
	return domain.ProfileUpdate{
		Name:        strings.TrimSpace(f.Name),
		Mobile:      strings.TrimSpace(f.Mobile),
		Category:    category,
		Description: strings.TrimSpace(f.Description),
		Price:       f.Price,
		ImagePath:   strings.TrimSpace(f.ImagePath),
	}
}
