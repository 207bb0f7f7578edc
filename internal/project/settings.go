package project

import (
	"fmt"

	"gopkg.in/yaml.v3"

	docapella "github.com/Doctave/docapella-sub001"
)

// Settings is the parsed docapella.yaml. Only the fields the compilation
// core consumes are modeled; unknown keys are ignored so richer hosted
// configurations still load.
type Settings struct {
	Title     string     `yaml:"title"`
	Redirects []Redirect `yaml:"redirects"`

	// UserPreferences declares the preference keys pages may branch on
	// and the values each can take. Link verification compiles every
	// combination so a branch hidden behind a preference still gets its
	// links checked.
	UserPreferences []UserPreference `yaml:"user_preferences"`
}

// Redirect maps an old URI to its replacement.
type Redirect struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// UserPreference is one declared preference and its allowed values.
type UserPreference struct {
	Name   string   `yaml:"name"`
	Values []string `yaml:"values"`
}

// ParseSettings parses docapella.yaml content.
func ParseSettings(src []byte) (Settings, *docapella.Error) {
	var s Settings
	if err := yaml.Unmarshal(src, &s); err != nil {
		return Settings{}, docapella.NewError(docapella.CodeInvalidSettings, "Invalid docapella.yaml").
			WithDescription(fmt.Sprintf("There was an error parsing your docapella.yaml:\n\n%s", err)).
			WithFile(SettingsFileName)
	}
	return s, nil
}

// HasRedirect reports whether a URI is covered by a redirect.
func (s Settings) HasRedirect(uri string) bool {
	for _, r := range s.Redirects {
		if r.From == uri {
			return true
		}
	}
	return false
}

// PreferenceCombinations expands the declared user preferences into every
// value combination, for verification passes that must cover each branch.
// A project without preferences yields one empty combination.
func (s Settings) PreferenceCombinations() []map[string]string {
	combos := []map[string]string{{}}
	for _, pref := range s.UserPreferences {
		if len(pref.Values) == 0 {
			continue
		}
		next := make([]map[string]string, 0, len(combos)*len(pref.Values))
		for _, combo := range combos {
			for _, val := range pref.Values {
				expanded := make(map[string]string, len(combo)+1)
				for k, v := range combo {
					expanded[k] = v
				}
				expanded[pref.Name] = val
				next = append(next, expanded)
			}
		}
		combos = next
	}
	return combos
}
