package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/windoze95/ingredai-api/internal/models"
)

func validSignup() SignupRequest {
	return SignupRequest{
		Username: "chef_anna",
		Age:      30,
		Gender:   "female",
		Nation:   "Canada",
		Language: "fr",
		Password: "Str0ng!Pw",
	}
}

func TestValidateSignup(t *testing.T) {
	svc := NewProfileService()

	tests := []struct {
		name       string
		mutate     func(*SignupRequest)
		wantFields []string
	}{
		{"valid", func(*SignupRequest) {}, nil},
		{"short username", func(r *SignupRequest) { r.Username = "ab" }, []string{"username"}},
		{"username with space", func(r *SignupRequest) { r.Username = "chef anna" }, []string{"username"}},
		{"reserved username", func(r *SignupRequest) { r.Username = "Admin" }, []string{"username"}},
		{"missing age", func(r *SignupRequest) { r.Age = 0 }, []string{"age"}},
		{"age too high", func(r *SignupRequest) { r.Age = 121 }, []string{"age"}},
		{"negative age", func(r *SignupRequest) { r.Age = -4 }, []string{"age"}},
		{"weak password", func(r *SignupRequest) { r.Password = "password" }, []string{"password"}},
		{"unknown gender", func(r *SignupRequest) { r.Gender = "robot" }, []string{"gender"}},
		{"blank nation", func(r *SignupRequest) { r.Nation = "  " }, []string{"nation"}},
		{"unsupported language", func(r *SignupRequest) { r.Language = "de" }, []string{"language"}},
		{"everything missing", func(r *SignupRequest) { *r = SignupRequest{} },
			[]string{"username", "age", "password", "gender", "nation", "language"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validSignup()
			tt.mutate(&req)

			err := svc.ValidateSignup(req)
			if len(tt.wantFields) == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("err = %v, want *ValidationError", err)
			}
			if len(verr.Fields) != len(tt.wantFields) {
				t.Errorf("fields = %v, want %v", verr.Fields, tt.wantFields)
			}
			for _, f := range tt.wantFields {
				if _, ok := verr.Fields[f]; !ok {
					t.Errorf("missing error for field %q in %v", f, verr.Fields)
				}
			}
		})
	}
}

func TestSignupRequest_ProfileDropsPassword(t *testing.T) {
	p := validSignup().Profile()
	want := models.UserProfile{Username: "chef_anna", Age: 30, Gender: "female", Nation: "Canada", Language: "fr"}
	if *p != want {
		t.Errorf("Profile() = %+v, want %+v", *p, want)
	}
}

func TestValidatePassword(t *testing.T) {
	svc := NewProfileService()

	tests := []struct {
		password    string
		wantErr     bool
		wantMissing []string
	}{
		{"Str0ng!Pw", false, nil},
		{"", true, nil},
		{"Sh0rt!", true, nil},
		{"alllowercase", true, []string{"an uppercase letter", "a number", "a special character"}},
		{"ALLUPPER123!", true, []string{"a lowercase letter"}},
		{"NoDigits!!", true, []string{"a number"}},
		{"NoSpecial12", true, []string{"a special character"}},
	}
	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			err := svc.ValidatePassword(tt.password)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			for _, m := range tt.wantMissing {
				if !strings.Contains(err.Error(), m) {
					t.Errorf("error %q should mention %q", err, m)
				}
			}
		})
	}
}

func TestValidateLogin(t *testing.T) {
	svc := NewProfileService()
	if err := svc.ValidateLogin("gardener42", "anything"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	var verr *ValidationError
	if err := svc.ValidateLogin(" ", ""); !errors.As(err, &verr) || len(verr.Fields) != 2 {
		t.Errorf("err = %v, want username and password errors", err)
	}
}

func TestValidateEmail(t *testing.T) {
	svc := NewProfileService()
	for _, ok := range []string{"", "cook@example.com"} {
		if err := svc.ValidateEmail(ok); err != nil {
			t.Errorf("ValidateEmail(%q) = %v", ok, err)
		}
	}
	if err := svc.ValidateEmail("not-an-email"); err == nil {
		t.Error("expected an error for a malformed email")
	}
}

func TestValidatePasswordChange(t *testing.T) {
	svc := NewProfileService()

	tests := []struct {
		name string
		pc   PasswordChange
		want string
	}{
		{"accepted", PasswordChange{"old", "longenough", "longenough"}, ""},
		{"missing current", PasswordChange{"", "longenough", "longenough"}, msgFillAllFields},
		{"missing confirm", PasswordChange{"old", "longenough", ""}, msgFillAllFields},
		{"mismatch checked before length", PasswordChange{"old", "short", "other"}, msgPasswordsNoMatch},
		{"too short", PasswordChange{"old", "short", "short"}, msgPasswordLength},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := svc.ValidatePasswordChange(tt.pc); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidatePreferences(t *testing.T) {
	svc := NewProfileService()
	if err := svc.ValidatePreferences(models.Preferences{SkillLevel: "Beginner", DietaryPreference: "Gluten-Free & Peanut-Free"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	var verr *ValidationError
	err := svc.ValidatePreferences(models.Preferences{SkillLevel: "Expert", DietaryPreference: "Paleo"})
	if !errors.As(err, &verr) || len(verr.Fields) != 2 {
		t.Errorf("err = %v, want two field errors", err)
	}
}

func TestValidationError_Error(t *testing.T) {
	verr := &ValidationError{}
	verr.add("username", "first")
	verr.add("username", "second")
	verr.add("age", "bad")
	if got := verr.Error(); got != "age: bad; username: first" {
		t.Errorf("Error() = %q", got)
	}
}
