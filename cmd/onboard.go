package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/sourcing-cli/internal/model"
)

var (
	onboardFile      string
	onboardName      string
	onboardType      string
	onboardMaterials []string
	onboardCountries []string
	onboardNotes     string
	onboardShow      bool
)

var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Show or save the buyer company profile",
	Long:  "Saves the buyer profile from a YAML file or flags. With --show, prints the saved profile instead.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initSession(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		out := cmd.OutOrStdout()
		if onboardShow {
			p, err := env.Session.Profile(ctx)
			if err != nil {
				return err
			}
			if p == nil {
				_, _ = fmt.Fprintln(out, "No profile saved yet. Run `sourcing-cli onboard --file profile.yaml`.")
				return nil
			}
			return yaml.NewEncoder(out).Encode(p)
		}

		p, err := profileFromFlags()
		if err != nil {
			return err
		}
		saved, err := env.Session.SaveProfile(ctx, p)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, "Saved profile for %s (%s, %d materials)\n",
			saved.CompanyName, saved.CompanyType, len(saved.RawMaterials))
		return nil
	},
}

// profileFromFlags reads --file when given, then applies any flag overrides.
func profileFromFlags() (model.OnboardProfile, error) {
	var p model.OnboardProfile
	if onboardFile != "" {
		f, err := os.Open(onboardFile)
		if err != nil {
			return p, eris.Wrapf(err, "onboard: open %s", onboardFile)
		}
		defer f.Close() //nolint:errcheck
		if p, err = readProfile(f); err != nil {
			return p, err
		}
	}
	if onboardName != "" {
		p.CompanyName = onboardName
	}
	if onboardType != "" {
		p.CompanyType = onboardType
	}
	if len(onboardMaterials) > 0 {
		p.RawMaterials = onboardMaterials
	}
	if len(onboardCountries) > 0 {
		p.PreferredCountries = onboardCountries
	}
	if onboardNotes != "" {
		p.Notes = onboardNotes
	}
	return p, nil
}

// readProfile decodes a YAML profile document.
func readProfile(r io.Reader) (model.OnboardProfile, error) {
	var p model.OnboardProfile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return p, eris.Wrap(err, "onboard: parse profile")
	}
	return p, nil
}

func init() {
	onboardCmd.Flags().StringVar(&onboardFile, "file", "", "YAML profile file")
	onboardCmd.Flags().StringVar(&onboardName, "name", "", "company name")
	onboardCmd.Flags().StringVar(&onboardType, "type", "", "company type: "+strings.Join(model.CompanyTypes, ", "))
	onboardCmd.Flags().StringSliceVar(&onboardMaterials, "material", nil, "raw material (repeatable)")
	onboardCmd.Flags().StringSliceVar(&onboardCountries, "country", nil, "preferred source country (repeatable)")
	onboardCmd.Flags().StringVar(&onboardNotes, "notes", "", "free-form notes")
	onboardCmd.Flags().BoolVar(&onboardShow, "show", false, "print the saved profile")
	rootCmd.AddCommand(onboardCmd)
}
