package utils

import "testing"

type registerPayload struct {
	Name                 string `validate:"required,nameok"`
	Email                string `validate:"required,email"`
	Password             string `validate:"required,pwdmin"`
	PasswordConfirmation string `validate:"required,eqfield=Password"`
	Role                 string `validate:"required,roleok"`
}

func validPayload() registerPayload {
	return registerPayload{
		Name:                 "Ada Lovelace",
		Email:                "ada@example.edu",
		Password:             "secret1",
		PasswordConfirmation: "secret1",
		Role:                 "student",
	}
}

func TestValidateStruct_Valid(t *testing.T) {
	p := validPayload()
	if err := ValidateStruct(&p); err != nil {
		t.Fatalf("expected valid payload, got %v", err)
	}
}

func TestValidateStruct_RequiredField(t *testing.T) {
	p := validPayload()
	p.Email = ""
	if err := ValidateStruct(&p); err == nil {
		t.Fatalf("expected error for empty email")
	}
}

func TestValidateStruct_EmailShape(t *testing.T) {
	p := validPayload()
	p.Email = "not-an-email"
	if err := ValidateStruct(&p); err == nil {
		t.Fatalf("expected error for malformed email")
	}
}

func TestValidateStruct_PasswordMismatch(t *testing.T) {
	p := validPayload()
	p.PasswordConfirmation = "different"
	if err := ValidateStruct(&p); err == nil {
		t.Fatalf("expected error for password mismatch")
	}
}

type grantPayload struct {
	StudentID uint   `validate:"required"`
	BadgeID   uint   `validate:"required"`
	Reward    int    `validate:"required"`
	Note      string `validate:"required"`
}

func TestValidateStruct_RequiredNonStringFields(t *testing.T) {
	p := grantPayload{StudentID: 7, BadgeID: 3, Reward: 100, Note: "well earned"}
	if err := ValidateStruct(&p); err != nil {
		t.Fatalf("expected valid payload, got %v", err)
	}

	p.StudentID = 0
	if err := ValidateStruct(&p); err == nil {
		t.Fatal("expected error for zero uint field")
	}

	p.StudentID = 7
	p.Reward = 0
	if err := ValidateStruct(&p); err == nil {
		t.Fatal("expected error for zero int field")
	}
}

func TestValidateStruct_RequiredPointerField(t *testing.T) {
	type payload struct {
		Score *int `validate:"required"`
	}
	if err := ValidateStruct(&payload{}); err == nil {
		t.Fatal("expected error for nil pointer field")
	}
	score := 0
	if err := ValidateStruct(&payload{Score: &score}); err != nil {
		t.Fatalf("non-nil pointer should satisfy required, got %v", err)
	}
}

func TestValidateStruct_RoleRestricted(t *testing.T) {
	p := validPayload()
	p.Role = "admin"
	if err := ValidateStruct(&p); err == nil {
		t.Fatalf("expected error for unknown role")
	}
	p.Role = "professor"
	if err := ValidateStruct(&p); err != nil {
		t.Fatalf("professor should be accepted, got %v", err)
	}
}
