package validation

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/dd0wney/cluso-followgraph/pkg/identity"
)

var (
	// validate is a singleton validator instance
	validate *validator.Validate

	// Validation constants
	MaxAliasLength = 100
	MaxAliases     = 50

	// Aliases are handles: no whitespace, no separators
	aliasPattern = regexp.MustCompile(`^[^\s|;,]+$`)
)

func init() {
	validate = validator.New()
}

// Struct validates v against its validate tags.
func Struct(v any) error {
	if v == nil {
		return errors.New("value cannot be nil")
	}
	if err := validate.Struct(v); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// ValidateRow checks one master-list row before it joins the roster: the
// struct tags of identity.Row, then every alias of its alias cell.
func ValidateRow(row identity.Row) error {
	if err := Struct(row); err != nil {
		return err
	}

	aliases := identity.SplitAliases(row.AliasCell)
	if len(aliases) > MaxAliases {
		return fmt.Errorf("Aliases: %d aliases exceed the maximum of %d", len(aliases), MaxAliases)
	}
	for _, alias := range aliases {
		if err := ValidateAlias(alias); err != nil {
			return fmt.Errorf("Aliases: %w", err)
		}
	}
	return nil
}

// ValidateAlias validates a normalised alias
func ValidateAlias(alias string) error {
	if alias == "" {
		return errors.New("alias cannot be empty")
	}
	if len(alias) > MaxAliasLength {
		return fmt.Errorf("alias '%s' exceeds maximum length of %d characters", alias, MaxAliasLength)
	}
	if !aliasPattern.MatchString(alias) {
		return fmt.Errorf("alias '%s' contains whitespace or a separator", alias)
	}
	return nil
}

// ValidateAlgorithmNames rejects unknown and repeated algorithm names.
func ValidateAlgorithmNames(names, known []string) error {
	if len(names) == 0 {
		return errors.New("at least one algorithm is required")
	}

	allowed := make(map[string]bool, len(known))
	for _, k := range known {
		allowed[k] = true
	}

	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if !allowed[name] {
			return fmt.Errorf("unknown algorithm %q (known: %v)", name, known)
		}
		if seen[name] {
			return fmt.Errorf("algorithm %q listed more than once", name)
		}
		seen[name] = true
	}
	return nil
}

// formatValidationError converts validator errors to a more user-friendly format
func formatValidationError(err error) error {
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	// Return the first validation error in a user-friendly format
	for _, e := range validationErrs {
		field := e.Field()
		tag := e.Tag()
		param := e.Param()

		switch tag {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "min", "gte":
			return fmt.Errorf("%s: must be at least %s", field, param)
		case "max", "lte":
			return fmt.Errorf("%s: must not exceed %s", field, param)
		case "gt":
			return fmt.Errorf("%s: must be greater than %s", field, param)
		case "oneof":
			return fmt.Errorf("%s: must be one of [%s]", field, param)
		case "url":
			return fmt.Errorf("%s: must be a valid URL", field)
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, tag)
		}
	}

	return err
}
