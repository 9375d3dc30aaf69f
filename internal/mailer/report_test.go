package mailer

import (
	"strings"
	"testing"
)

func TestGenderLabel(t *testing.T) {
	cases := map[string]string{
		"female":     "Kobieta",
		"male":       "Mężczyzna",
		"other":      "Inna",
		"":           "Nie podano",
		"non-binary": "non-binary", // unrecognized values pass through
	}
	for in, want := range cases {
		if got := GenderLabel(in); got != want {
			t.Fatalf("GenderLabel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestComposeReport(t *testing.T) {
	contact := Contact{
		Name:   "Anna",
		Gender: "female",
		Age:    "34",
		Email:  "anna@example.pl",
		Phone:  "",
	}
	questions := []string{"Pytanie pierwsze?", "Pytanie drugie?", "Pytanie trzecie?"}
	answers := map[int]string{
		0: "Widzę spokój.",
		2: "Mały krok.",
	}

	report := ComposeReport(contact, "Spokój", questions, answers)

	for _, want := range []string{
		"=== DANE UCZESTNIKA ===",
		"Imię: Anna",
		"Wiek: 34",
		"Płeć: Kobieta",
		"Telefon: Nie podano",
		"Email: anna@example.pl",
		"=== PRACA Z KARTĄ: Spokój ===",
		"PYTANIE 1: Pytanie pierwsze?",
		"ODPOWIEDŹ: Widzę spokój.",
		"PYTANIE 3: Pytanie trzecie?",
		"ODPOWIEDŹ: Mały krok.",
	} {
		if !strings.Contains(report, want) {
			t.Fatalf("report missing %q:\n%s", want, report)
		}
	}

	// The unanswered question gets the placeholder in its slot.
	if !strings.Contains(report, "PYTANIE 2: Pytanie drugie?\nODPOWIEDŹ: "+NoAnswerPlaceholder) {
		t.Fatalf("unanswered question should carry the placeholder:\n%s", report)
	}

	// Questions appear in order.
	if strings.Index(report, "PYTANIE 1") > strings.Index(report, "PYTANIE 2") {
		t.Fatal("questions out of order")
	}
}

func TestContactValidation(t *testing.T) {
	valid := Contact{Name: "Jan", Gender: "male", Age: "40", Email: "jan@example.pl"}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid contact should pass: %v", err)
	}

	missing := []Contact{
		{Gender: "male", Age: "40", Email: "jan@example.pl"},
		{Name: "Jan", Age: "40", Email: "jan@example.pl"},
		{Name: "Jan", Gender: "male", Email: "jan@example.pl"},
		{Name: "Jan", Gender: "male", Age: "40"},
		{Name: "Jan", Gender: "male", Age: "40", Email: "not-an-email"},
	}
	for i, c := range missing {
		if err := c.Validate(); err == nil {
			t.Fatalf("contact %d should fail validation", i)
		}
	}

	// Phone stays optional.
	valid.Phone = ""
	if err := valid.Validate(); err != nil {
		t.Fatalf("phone must be optional: %v", err)
	}
}
