package validate

import (
	"strings"
	"testing"
)

type signupForm struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

func TestStructUsesJSONNames(t *testing.T) {
	v := NewValidator("en")
	errs := v.Struct(&signupForm{Email: "not-an-email", Password: "123"})
	if len(errs) != 3 {
		t.Fatalf("expected 3 errors, got %d: %v", len(errs), errs)
	}
	domains := map[string]string{}
	for _, e := range errs {
		domains[e.Domain] = e.Reason
	}
	for _, name := range []string{"name", "email", "password"} {
		if _, ok := domains[name]; !ok {
			t.Errorf("missing error for %s in %v", name, domains)
		}
	}
	if !strings.Contains(domains["password"], "6") {
		t.Errorf("unexpected password reason %q", domains["password"])
	}
}

func TestStructValid(t *testing.T) {
	v := NewValidator("en")
	if errs := v.Struct(&signupForm{Name: "Ada", Email: "ada@example.com", Password: "secret"}); errs != nil {
		t.Fatalf("unexpected errors %v", errs)
	}
}

func TestOneOfAndJoin(t *testing.T) {
	v := NewValidator("en")
	if e := v.OneOf("language", "Go", []string{"Python", "Go"}); e != nil {
		t.Fatalf("unexpected error %v", e)
	}
	e := v.OneOf("language", "Cobol", []string{"Python", "Go"})
	if e == nil || e.Domain != "language" {
		t.Fatalf("expected language error, got %v", e)
	}
	if errs := Join(nil, e, nil); len(errs) != 1 {
		t.Fatalf("Join kept %d errors", len(errs))
	}
	if errs := Join(nil); errs != nil {
		t.Fatalf("Join of nils should be nil, got %v", errs)
	}
	if Join(nil).Err() != nil {
		t.Fatal("empty Errors must convert to a nil error")
	}
	if Join(e).Err() == nil {
		t.Fatal("non-empty Errors must convert to an error")
	}
}

func TestZhTranslator(t *testing.T) {
	v := NewValidator("zh")
	errs := v.Struct(&signupForm{})
	if len(errs) == 0 {
		t.Fatal("expected errors")
	}
	if strings.Contains(errs[0].Reason, "required") {
		t.Fatalf("expected translated message, got %q", errs[0].Reason)
	}
}
