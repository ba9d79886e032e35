package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/localfinder/localfinder-cli/internal/adapters/driving/forms"
	"github.com/localfinder/localfinder-cli/internal/core/domain"
)

var locationCmd = &cobra.Command{
	Use:   "location",
	Short: "Manage your provider location",
	Long:  `View and set where customers find you on the map. Requires a provider login.`,
}

var locationShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show your saved location",
	Args:  cobra.NoArgs,
	RunE:  runLocationShow,
}

var locationSetCmd = &cobra.Command{
	Use:   "set [lat] [lng]",
	Short: "Set your location",
	Long: `Sets your location from coordinates or a place search, then saves it.

The address is looked up from the coordinate when a maps API key is
configured; --address overrides it.

Examples:
  localfinder location set 12.9716 77.5946
  localfinder location set --search "MG Road, Bengaluru"
  localfinder location set 28.61 77.21 --address "Shop 4, Janpath"`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 0 && len(args) != 2 {
			return errors.New("expected a latitude and a longitude")
		}
		return nil
	},
	RunE: runLocationSet,
}

var (
	locationSearch  string
	locationAddress string
)

func init() {
	locationSetCmd.Flags().StringVarP(&locationSearch, "search", "s", "", "search for a place instead of giving coordinates")
	locationSetCmd.Flags().StringVar(&locationAddress, "address", "", "address text to save")

	locationCmd.AddCommand(locationShowCmd, locationSetCmd)
	rootCmd.AddCommand(locationCmd)
}

func runLocationShow(cmd *cobra.Command, _ []string) error {
	if locationPicker == nil {
		return errNotConfigured("location picker")
	}

	if err := locationPicker.Reload(commandContext(cmd)); err != nil {
		return fail("load location failed", err)
	}
	saved := locationPicker.State().Saved
	if saved == nil {
		cmd.Println("No location saved yet. Use 'localfinder location set'.")
		return nil
	}
	cmd.Printf("%s\n  %s\n", saved.Address, saved.Point)
	return nil
}

func runLocationSet(cmd *cobra.Command, args []string) error {
	if locationPicker == nil {
		return errNotConfigured("location picker")
	}
	ctx := commandContext(cmd)

	switch {
	case locationSearch != "" && len(args) == 2:
		return errors.New("give coordinates or --search, not both")
	case locationSearch != "":
		place, err := locationPicker.SearchPlace(ctx, locationSearch)
		if err != nil {
			return fail("place search failed", err)
		}
		cmd.Printf("Found %s\n", place.FormattedAddress)
	case len(args) == 2:
		p, err := parseLatLng(args[0], args[1])
		if err != nil {
			return err
		}
		if err := locationPicker.Pick(ctx, p); err != nil {
			if !errors.Is(err, domain.ErrGeocoderUnavailable) {
				cmd.PrintErrf("Warning: %s\n", forms.Describe(err))
			}
		}
	default:
		return errors.New("give coordinates or --search")
	}

	if locationAddress != "" {
		locationPicker.SetAddress(locationAddress)
	}

	msg, err := locationPicker.Save(ctx)
	if err != nil {
		return fail(msg, err)
	}
	state := locationPicker.State()
	cmd.Println(msg)
	cmd.Printf("  %s\n  %s\n", state.Address, state.Position)
	return nil
}
