package validator

import "testing"

type inviteRequest struct {
	TeamID string `json:"team_id" validate:"required"`
	Role   string `json:"role" validate:"omitempty,oneof=MEMBER ADMIN OWNER"`
}

func TestValidateStruct(t *testing.T) {
	if err := ValidateStruct(inviteRequest{TeamID: "t1", Role: "ADMIN"}); err != nil {
		t.Fatalf("expected valid struct, got %v", err)
	}

	err := ValidateStruct(inviteRequest{Role: "SUPERUSER"})
	if err == nil {
		t.Fatal("expected validation failure")
	}

	failures, ok := err.(ValidationErrors)
	if !ok {
		t.Fatalf("expected ValidationErrors, got %T", err)
	}
	if len(failures) != 2 {
		t.Fatalf("expected two failures, got %d: %v", len(failures), failures)
	}
}

func TestIsEmail(t *testing.T) {
	valid := []string{"user@example.com", "first.last@sub.domain.org"}
	for _, v := range valid {
		if !IsEmail(v) {
			t.Fatalf("expected %q to be a valid email", v)
		}
	}

	invalid := []string{"", "bad-email@", "@missing", "two@@signs.com", "plainstring"}
	for _, v := range invalid {
		if IsEmail(v) {
			t.Fatalf("expected %q to be rejected", v)
		}
	}
}
