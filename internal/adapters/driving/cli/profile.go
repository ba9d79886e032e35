package cli

import (
	"github.com/spf13/cobra"

	"github.com/localfinder/localfinder-cli/internal/adapters/driving/forms"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage your provider profile",
	Long:  `View and edit the profile customers see. Requires a provider login.`,
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show your provider profile",
	Args:  cobra.NoArgs,
	RunE:  runProfileShow,
}

var profileUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update your provider profile",
	Long: `Updates the fields given as flags and keeps the rest.

Examples:
  localfinder profile update --price 450 --description "Leaks fixed fast"
  localfinder profile update --image ./me.png`,
	Args: cobra.NoArgs,
	RunE: runProfileUpdate,
}

var (
	profileJSON bool

	profileName        string
	profileMobile      string
	profileCategory    string
	profileDescription string
	profilePrice       float64
	profileImage       string
)

func init() {
	profileShowCmd.Flags().BoolVar(&profileJSON, "json", false, "output the profile as JSON")

	f := profileUpdateCmd.Flags()
	f.StringVar(&profileName, "name", "", "display name")
	f.StringVar(&profileMobile, "mobile", "", "mobile number")
	f.StringVar(&profileCategory, "category", "", "service category")
	f.StringVar(&profileDescription, "description", "", "description of your services")
	f.Float64Var(&profilePrice, "price", 0, "starting price")
	f.StringVar(&profileImage, "image", "", "path to a profile image (jpeg, png, gif or webp)")

	profileCmd.AddCommand(profileShowCmd, profileUpdateCmd)
	rootCmd.AddCommand(profileCmd)
}

func runProfileShow(cmd *cobra.Command, _ []string) error {
	if profileService == nil {
		return errNotConfigured("profile service")
	}

	p, err := profileService.Get(commandContext(cmd))
	if err != nil {
		return fail("load profile failed", err)
	}
	if profileJSON {
		return outputJSON(cmd, p)
	}
	outputProviderDetail(cmd, p, imageBaseURL())
	return nil
}

func runProfileUpdate(cmd *cobra.Command, _ []string) error {
	if profileService == nil {
		return errNotConfigured("profile service")
	}
	ctx := commandContext(cmd)

	current, err := profileService.Get(ctx)
	if err != nil {
		return fail("load profile failed", err)
	}

	form := forms.ProfileFrom(current)
	flags := cmd.Flags()
	if flags.Changed("name") {
		form.Name = profileName
	}
	if flags.Changed("mobile") {
		form.Mobile = profileMobile
	}
	if flags.Changed("category") {
		form.Category = profileCategory
	}
	if flags.Changed("description") {
		form.Description = profileDescription
	}
	if flags.Changed("price") {
		form.Price = profilePrice
	}
	if flags.Changed("image") {
		form.ImagePath = profileImage
	}

	if err := forms.Validate(form); err != nil {
		return fail("update failed", err)
	}

	updated, err := profileService.Update(ctx, form.Update())
	if err != nil {
		return fail("update failed", err)
	}
	cmd.Println("Profile updated.")
	outputProviderDetail(cmd, updated, imageBaseURL())
	return nil
}
