package handler

import (
    "strings"

    "github.com/go-playground/validator/v10"
)

// FormValidator adapts validator/v10 to echo.Validator.
type FormValidator struct {
    v *validator.Validate
}

func NewValidator() *FormValidator {
    return &FormValidator{v: validator.New(validator.WithRequiredStructEnabled())}
}

func (fv *FormValidator) Validate(i interface{}) error {
    return fv.v.Struct(i)
}

var fieldLabels = map[string]string{
    "Name":        "Name",
    "Email":       "Email",
    "Password":    "Password",
    "Location":    "Location",
    "AnimalCount": "Animal count",
    "FarmerID":    "Farmer",
    "VetID":       "Vet",
    "Q1":          "Question 1",
    "Q2":          "Question 2",
    "Q3":          "Question 3",
    "Notes":       "Notes",
    "Title":       "Title",
    "Description": "Description",
    "URL":         "Link",
}

// describe turns a validation error into one readable sentence.
func describe(err error) string {
    verrs, ok := err.(validator.ValidationErrors)
    if !ok || len(verrs) == 0 {
        return "Please check the form and try again."
    }
    fe := verrs[0]
    label := fieldLabels[fe.Field()]
    if label == "" {
        label = fe.Field()
    }
    switch fe.Tag() {
    case "required":
        return label + " is required."
    case "email":
        return label + " must be a valid email address."
    case "min":
        return label + " must be at least " + fe.Param() + " characters."
    case "max":
        return label + " must be at most " + fe.Param() + " characters."
    case "numeric", "number":
        return label + " must be a number."
    case "url":
        return label + " must be a valid URL."
    default:
        return label + " is invalid (" + strings.ToLower(fe.Tag()) + ")."
    }
}
