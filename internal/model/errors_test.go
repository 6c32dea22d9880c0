package model

import (
	"fmt"
	"testing"
)

func TestAPIError_Error(t *testing.T) {
	err := NewInvalidCredentialsError()
	want := "[AUTH_FAILED] Identifiants invalides"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestAsAPIError_Wrapped(t *testing.T) {
	wrapped := fmt.Errorf("login: %w", NewEmailInUseError())

	apiErr, ok := AsAPIError(wrapped)
	if !ok {
		t.Fatal("expected APIError in chain")
	}
	if apiErr.Code != ErrCodeRegistrationFailed {
		t.Errorf("Code = %q, want %q", apiErr.Code, ErrCodeRegistrationFailed)
	}
	if !HasCode(wrapped, ErrCodeRegistrationFailed) {
		t.Error("HasCode() = false, want true")
	}
	if HasCode(fmt.Errorf("plain"), ErrCodeRegistrationFailed) {
		t.Error("HasCode() on plain error = true, want false")
	}
}

func TestErrorConstructors_Categories(t *testing.T) {
	tests := []struct {
		name     string
		err      *APIError
		code     string
		category string
	}{
		{"auth failed", NewAuthFailedError(), ErrCodeAuthFailed, "auth"},
		{"invalid credentials", NewInvalidCredentialsError(), ErrCodeAuthFailed, "auth"},
		{"registration failed", NewRegistrationFailedError(), ErrCodeRegistrationFailed, "auth"},
		{"email in use", NewEmailInUseError(), ErrCodeRegistrationFailed, "auth"},
		{"geolocation unsupported", NewGeolocationUnsupportedError(), ErrCodeGeolocationFailed, "geolocation"},
		{"geolocation failed", NewGeolocationFailedError(), ErrCodeGeolocationFailed, "geolocation"},
		{"campsite", NewCampsiteNotFoundError("x"), ErrCodeCampsiteNotFound, "validation"},
		{"event", NewEventNotFoundError("e1"), ErrCodeEventNotFound, "validation"},
		{"match", NewMatchNotFoundError("u9"), ErrCodeMatchNotFound, "validation"},
		{"validation", NewValidationError("Âge minimum : 18 ans"), ErrCodeValidation, "validation"},
		{"unauthorized", NewUnauthorizedError(), ErrCodeUnauthorized, "auth"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("Code = %q, want %q", tt.err.Code, tt.code)
			}
			if tt.err.Category != tt.category {
				t.Errorf("Category = %q, want %q", tt.err.Category, tt.category)
			}
			if tt.err.Message == "" || tt.err.Action == "" {
				t.Error("Message and Action must not be empty")
			}
		})
	}
}

func TestVisibility_Toggle(t *testing.T) {
	if VisibilityPublic.Toggle() != VisibilityPrivate {
		t.Errorf("Public.Toggle() = %q", VisibilityPublic.Toggle())
	}
	if VisibilityPrivate.Toggle() != VisibilityPublic {
		t.Errorf("Privé.Toggle() = %q", VisibilityPrivate.Toggle())
	}
}

func TestDefaultProfile(t *testing.T) {
	p := DefaultProfile()

	if p.Coords != nil {
		t.Error("default profile must not have coords")
	}
	if len(p.PreferredCampsites) != 2 {
		t.Fatalf("len(PreferredCampsites) = %d, want 2", len(p.PreferredCampsites))
	}
	if p.PreferredCampsites[0].Name != "Camping Les Mimosas" {
		t.Errorf("first favorite = %q", p.PreferredCampsites[0].Name)
	}
	if p.Age < MinAge {
		t.Errorf("default age %d below minimum", p.Age)
	}
}
