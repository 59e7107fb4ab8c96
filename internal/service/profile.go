package service

import (
	"fmt"
	"regexp"
	"strings"

	goaway "github.com/TwiN/go-away"
	"github.com/asaskevich/govalidator"
	"github.com/windoze95/ingredai-api/internal/models"
)

// DeleteConfirmationText must be typed to delete an account.
const DeleteConfirmationText = "DELETE"

const (
	minUsernameLength = 3
	minPasswordLength = 8
	minAge            = 1
	maxAge            = 120
)

var (
	usernamePattern = regexp.MustCompile(`^\w+$`)
	upperPattern    = regexp.MustCompile(`[A-Z]`)
	lowerPattern    = regexp.MustCompile(`[a-z]`)
	digitPattern    = regexp.MustCompile(`[0-9]`)
	specialPattern  = regexp.MustCompile(`[!@#$%^&*()_+\-=\[\]{};':"\\|,.<>/?]`)
)

// Select options offered by the signup and settings forms.
var (
	Genders         = []string{"male", "female", "other", "prefer_not_to_say"}
	Languages       = []string{"en", "fr", "es", "ja", "zh", "hi", "bn", "ta", "te", "mr"}
	SkillLevels     = []string{models.DefaultSkillLevel, "Beginner"}
	DietaryOptions  = []string{models.DefaultDietaryPreference, "Vegetarian", "Vegan", "Keto", "Gluten-Free & Peanut-Free"}
	forbiddenUsers  = []string{"admin", "administrator", "root", "sys", "sysadmin", "system", "support", "help", "ingredai", "ingredai_admin"}
	profanityFilter = goaway.NewProfanityDetector().WithSanitizeLeetSpeak(true).WithSanitizeSpecialCharacters(true).WithSanitizeAccents(false)
)

// SignupRequest is the signup form.
type SignupRequest struct {
	Username string `json:"username"`
	Age      int    `json:"age"`
	Gender   string `json:"gender"`
	Nation   string `json:"nation"`
	Language string `json:"language"`
	Password string `json:"password"`
}

// Profile returns the profile stored for a successful signup. The password
// is never stored.
func (r SignupRequest) Profile() *models.UserProfile {
	return &models.UserProfile{
		Username: strings.TrimSpace(r.Username),
		Age:      r.Age,
		Gender:   r.Gender,
		Nation:   strings.TrimSpace(r.Nation),
		Language: r.Language,
	}
}

// PasswordChange is the security form.
type PasswordChange struct {
	Current string `json:"currentPassword"`
	New     string `json:"newPassword"`
	Confirm string `json:"confirmPassword"`
}

// ProfileService validates profile, preference and security input.
type ProfileService struct{}

// NewProfileService is the constructor function for initializing a new ProfileService.
func NewProfileService() *ProfileService {
	return &ProfileService{}
}

// ValidateSignup checks every signup field and reports all failures at once.
func (s *ProfileService) ValidateSignup(req SignupRequest) error {
	verr := &ValidationError{}
	if err := s.ValidateUsername(req.Username); err != nil {
		verr.add("username", err.Error())
	}
	if req.Age == 0 {
		verr.add("age", "age is required")
	} else if req.Age < minAge || req.Age > maxAge {
		verr.add("age", fmt.Sprintf("age must be between %d and %d", minAge, maxAge))
	}
	if err := s.ValidatePassword(req.Password); err != nil {
		verr.add("password", err.Error())
	}
	if req.Gender == "" {
		verr.add("gender", "gender is required")
	} else if !contains(Genders, req.Gender) {
		verr.add("gender", "unknown gender option")
	}
	if strings.TrimSpace(req.Nation) == "" {
		verr.add("nation", "nation is required")
	}
	if req.Language == "" {
		verr.add("language", "language is required")
	} else if !contains(Languages, req.Language) {
		verr.add("language", "unsupported language")
	}
	return verr.orNil()
}

// ValidateLogin checks that both login fields are filled.
func (s *ProfileService) ValidateLogin(username, password string) error {
	verr := &ValidationError{}
	if strings.TrimSpace(username) == "" {
		verr.add("username", "username is required")
	}
	if password == "" {
		verr.add("password", "password is required")
	}
	return verr.orNil()
}

// ValidateUsername validates a username against a set of rules.
func (s *ProfileService) ValidateUsername(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return fmt.Errorf("username is required")
	}
	if len(username) < minUsernameLength {
		return fmt.Errorf("username must be at least %d characters", minUsernameLength)
	}
	if !usernamePattern.MatchString(username) {
		return fmt.Errorf("username can only contain letters, numbers and underscores")
	}
	for _, forbidden := range forbiddenUsers {
		if strings.EqualFold(username, forbidden) {
			return fmt.Errorf("username '%s' is not allowed", username)
		}
	}
	if profanityFilter.IsProfane(username) {
		return fmt.Errorf("username contains inappropriate language")
	}
	return nil
}

// ValidateEmail validates an email address. An empty email is allowed.
func (s *ProfileService) ValidateEmail(email string) error {
	if email != "" && !govalidator.IsEmail(email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// ValidatePassword checks the signup password rules and names every missing
// character class.
func (s *ProfileService) ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("password is required")
	}
	if len(password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters long", minPasswordLength)
	}

	var missing []string
	if !upperPattern.MatchString(password) {
		missing = append(missing, "an uppercase letter")
	}
	if !lowerPattern.MatchString(password) {
		missing = append(missing, "a lowercase letter")
	}
	if !digitPattern.MatchString(password) {
		missing = append(missing, "a number")
	}
	if !specialPattern.MatchString(password) {
		missing = append(missing, "a special character")
	}
	if len(missing) > 0 {
		return fmt.Errorf("password must contain %s", strings.Join(missing, ", "))
	}
	return nil
}

// ValidatePasswordChange returns the feedback message for an invalid change,
// or "" when the change is acceptable.
func (s *ProfileService) ValidatePasswordChange(pc PasswordChange) string {
	switch {
	case pc.Current == "" || pc.New == "" || pc.Confirm == "":
		return msgFillAllFields
	case pc.New != pc.Confirm:
		return msgPasswordsNoMatch
	case len(pc.New) < minPasswordLength:
		return msgPasswordLength
	}
	return ""
}

// ValidatePreferences checks the settings form against its options.
func (s *ProfileService) ValidatePreferences(prefs models.Preferences) error {
	verr := &ValidationError{}
	if !contains(SkillLevels, prefs.SkillLevel) {
		verr.add("skillLevel", "unknown skill level")
	}
	if !contains(DietaryOptions, prefs.DietaryPreference) {
		verr.add("dietaryPreference", "unknown dietary preference")
	}
	return verr.orNil()
}

func contains(options []string, v string) bool {
	for _, o := range options {
		if o == v {
			return true
		}
	}
	return false
}
