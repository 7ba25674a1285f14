// Package validation checks outings and OCR results before they reach the
// calculator, and canonicalizes participant names.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ksdfg/bill-splitter/internal/models"
)

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report JSON field names so error locations match the request body
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// FieldError describes one invalid field of a request body.
type FieldError struct {
	// Loc is the path to the field, e.g. ["body", "bills", 0, "items"].
	Loc  []any  `json:"loc"`
	Msg  string `json:"msg"`
	Type string `json:"type"`
}

// Errors is returned when a document fails validation.
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, len(e))
	for i, fe := range e {
		loc := make([]string, len(fe.Loc))
		for k, l := range fe.Loc {
			loc[k] = fmt.Sprint(l)
		}
		parts[i] = fmt.Sprintf("%s: %s", strings.Join(loc, "."), fe.Msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Canonicalize lowercases and trims participant names and removes duplicate
// consumers of an item. It modifies the outing in place.
func Canonicalize(outing *models.Outing) {
	for b := range outing.Bills {
		bill := &outing.Bills[b]
		bill.PaidBy = canonicalName(bill.PaidBy)
		for i := range bill.Items {
			item := &bill.Items[i]
			seen := make(map[string]bool, len(item.ConsumedBy))
			consumers := make([]string, 0, len(item.ConsumedBy))
			for _, name := range item.ConsumedBy {
				name = canonicalName(name)
				if seen[name] {
					continue
				}
				seen[name] = true
				consumers = append(consumers, name)
			}
			item.ConsumedBy = consumers
		}
	}
}

func canonicalName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Outing canonicalizes the outing's names and validates it.
// It returns Errors if any field is invalid.
func Outing(outing *models.Outing) error {
	Canonicalize(outing)
	return check(outing)
}

// OCRBill validates a bill extracted from a receipt.
func OCRBill(bill *models.OCRBill) error {
	return check(bill)
}

func check(doc any) error {
	err := validate.Struct(doc)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("failed to validate: %w", err)
	}
	out := make(Errors, len(verrs))
	for i, fe := range verrs {
		out[i] = toFieldError(fe)
	}
	return out
}

func toFieldError(fe validator.FieldError) FieldError {
	fieldErr := FieldError{Loc: location(fe.Namespace())}
	switch fe.Tag() {
	case "required":
		if fe.Kind() == reflect.String {
			fieldErr.Type = "string_too_short"
			fieldErr.Msg = "String should have at least 1 character"
		} else {
			fieldErr.Type = "missing"
			fieldErr.Msg = "Field required"
		}
	case "min":
		fieldErr.Type = "too_short"
		fieldErr.Msg = fmt.Sprintf("List should have at least %s item after validation, not %d", fe.Param(), reflect.ValueOf(fe.Value()).Len())
	case "gt":
		fieldErr.Type = "greater_than"
		fieldErr.Msg = "Input should be greater than " + fe.Param()
	case "gte":
		fieldErr.Type = "greater_than_equal"
		fieldErr.Msg = "Input should be greater than or equal to " + fe.Param()
	case "lte":
		fieldErr.Type = "less_than_equal"
		fieldErr.Msg = "Input should be less than or equal to " + fe.Param()
	default:
		fieldErr.Type = fe.Tag()
		fieldErr.Msg = fe.Error()
	}
	return fieldErr
}

// location turns a validator namespace such as "Outing.bills[0].items" into
// ["body", "bills", 0, "items"], dropping the root type name.
func location(namespace string) []any {
	loc := []any{"body"}
	segments := strings.Split(namespace, ".")
	for _, seg := range segments[1:] {
		for seg != "" {
			open := strings.IndexByte(seg, '[')
			if open < 0 {
				loc = append(loc, seg)
				break
			}
			if open > 0 {
				loc = append(loc, seg[:open])
			}
			end := strings.IndexByte(seg, ']')
			if end < open {
				loc = append(loc, seg[open:])
				break
			}
			if idx, err := strconv.Atoi(seg[open+1 : end]); err == nil {
				loc = append(loc, idx)
			} else {
				loc = append(loc, seg[open+1:end])
			}
			seg = seg[end+1:]
		}
	}
	return loc
}
