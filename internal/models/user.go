package models

// Theme is the UI color scheme.
type Theme string

// Theme values.
const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// IsValid reports whether t is a known theme.
func (t Theme) IsValid() bool {
	return t == ThemeLight || t == ThemeDark
}

// Toggled returns the opposite theme.
func (t Theme) Toggled() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// Preference defaults.
const (
	DefaultSkillLevel        = "Any"
	DefaultDietaryPreference = "None"
)

// UserProfile is the locally stored profile. Login is decorative, so the
// profile carries no credentials.
type UserProfile struct {
	Username          string `json:"username"`
	Age               int    `json:"age,omitempty"`
	Gender            string `json:"gender,omitempty"`
	Nation            string `json:"nation,omitempty"`
	Language          string `json:"language,omitempty"`
	Email             string `json:"email,omitempty"`
	DietaryPreference string `json:"dietaryPreference,omitempty"`
	SkillLevel        string `json:"skillLevel,omitempty"`
}

// Preferences returns the profile's skill level and dietary preference,
// falling back to the defaults when unset.
func (p *UserProfile) Preferences() Preferences {
	prefs := Preferences{
		SkillLevel:        DefaultSkillLevel,
		DietaryPreference: DefaultDietaryPreference,
	}
	if p == nil {
		return prefs
	}
	if p.SkillLevel != "" {
		prefs.SkillLevel = p.SkillLevel
	}
	if p.DietaryPreference != "" {
		prefs.DietaryPreference = p.DietaryPreference
	}
	return prefs
}

// Preferences are the generation settings applied to every recipe request.
type Preferences struct {
	SkillLevel        string `json:"skillLevel"`
	DietaryPreference string `json:"dietaryPreference"`
}
