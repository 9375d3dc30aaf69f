package mailer

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// NoAnswerPlaceholder marks questions the respondent left blank.
const NoAnswerPlaceholder = "--- brak odpowiedzi ---"

// FallbackErrorMessage is shown when the delivery collaborator fails without
// a message of its own.
const FallbackErrorMessage = "Wystąpił nieoczekiwany błąd podczas wysyłania."

// Contact holds the respondent fields. Phone is the only optional one.
type Contact struct {
	Name   string `json:"name" validate:"required"`
	Gender string `json:"gender" validate:"required"`
	Age    string `json:"age" validate:"required"`
	Email  string `json:"email" validate:"required,email"`
	Phone  string `json:"phone"`
}

var validate = validator.New()

func (c Contact) Validate() error {
	return validate.Struct(c)
}

// genderLabels maps form values to the labels used in the mailed report.
// Unrecognized values pass through unchanged.
var genderLabels = map[string]string{
	"female": "Kobieta",
	"male":   "Mężczyzna",
	"other":  "Inna",
	"":       "Nie podano",
}

func GenderLabel(gender string) string {
	if label, ok := genderLabels[gender]; ok {
		return label
	}
	return gender
}

// ComposeReport renders the full human-readable report: respondent data,
// then every question with its answer or the blank-answer placeholder. The
// whole report travels in a single template field, so the mail template only
// needs {{message}} to carry everything.
func ComposeReport(contact Contact, cardName string, questions []string, answers map[int]string) string {
	phone := contact.Phone
	if phone == "" {
		phone = "Nie podano"
	}

	var b strings.Builder
	b.WriteString("=== DANE UCZESTNIKA ===\n")
	fmt.Fprintf(&b, "Imię: %s\n", contact.Name)
	fmt.Fprintf(&b, "Wiek: %s\n", contact.Age)
	fmt.Fprintf(&b, "Płeć: %s\n", GenderLabel(contact.Gender))
	fmt.Fprintf(&b, "Telefon: %s\n", phone)
	fmt.Fprintf(&b, "Email: %s\n\n", contact.Email)

	fmt.Fprintf(&b, "=== PRACA Z KARTĄ: %s ===\n\n", cardName)

	for i, q := range questions {
		answer := answers[i]
		if answer == "" {
			answer = NoAnswerPlaceholder
		}
		fmt.Fprintf(&b, "PYTANIE %d: %s\n", i+1, q)
		fmt.Fprintf(&b, "ODPOWIEDŹ: %s\n\n", answer)
	}
	return b.String()
}
