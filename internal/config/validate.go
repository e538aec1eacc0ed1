package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/vk/satcolor/internal/graph"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints, node name uniqueness and color names.
// Edge endpoints are checked by Bind, which sees the whole node set.
func Validate(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is empty", ErrInvalidDocument)
	}
	if err := validate.Struct(doc); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidDocument, formatValidationError(err))
	}

	seen := make(map[string]struct{}, len(doc.Nodes))
	for _, n := range doc.Nodes {
		if _, dup := seen[n.Name]; dup {
			return fmt.Errorf("%w: node %q is declared twice", ErrInvalidDocument, n.Name)
		}
		seen[n.Name] = struct{}{}
		if _, err := graph.ParseColor(n.Color); err != nil {
			return fmt.Errorf("%w: node %q: %v", ErrInvalidDocument, n.Name, err)
		}
	}
	return nil
}

func formatValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, formatFieldError(e))
	}
	return strings.Join(msgs, "; ")
}

func formatFieldError(e validator.FieldError) string {
	field := e.Namespace()
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, e.Param())
	case "len":
		return fmt.Sprintf("%s must have exactly %s elements", field, e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	default:
		return fmt.Sprintf("%s is invalid (%s)", field, e.Tag())
	}
}
