package domain

import "fmt"

// Field identifies one of the editable asset fields. The set is closed:
// the overlay store and the mutation dispatcher switch exhaustively over it.
type Field int

const (
	FieldPremium Field = iota
	FieldCount
	FieldPrompt
	FieldCountry
)

// String returns the wire name of the field
func (f Field) String() string {
	switch f {
	case FieldPremium:
		return "is_premium"
	case FieldCount:
		return "count"
	case FieldPrompt:
		return "prompt"
	case FieldCountry:
		return "country"
	default:
		return fmt.Sprintf("field(%d)", int(f))
	}
}

// FieldChange is a tagged single-field update. Construct values with
// Premium, CountOf, PromptOf or CountryOf rather than struct literals.
type FieldChange struct {
	Field Field
	Bool  bool
	Int   int
	Str   string
}

// Premium builds a premium-flag change
func Premium(v bool) FieldChange {
	return FieldChange{Field: FieldPremium, Bool: v}
}

// CountOf builds a count change
func CountOf(n int) FieldChange {
	return FieldChange{Field: FieldCount, Int: n}
}

// PromptOf builds a prompt change
func PromptOf(s string) FieldChange {
	return FieldChange{Field: FieldPrompt, Str: s}
}

// CountryOf builds a country-code change
func CountryOf(code string) FieldChange {
	return FieldChange{Field: FieldCountry, Str: code}
}

// Apply returns a copy of the asset with the change merged in.
// The receiver is never mutated.
func (c FieldChange) Apply(a Asset) Asset {
	switch c.Field {
	case FieldPremium:
		a.IsPremium = c.Bool
	case FieldCount:
		a.Count = c.Int
	case FieldPrompt:
		a.Prompt = c.Str
	case FieldCountry:
		a.Country = c.Str
	}
	return a
}

// Validate rejects changes that would break asset invariants
func (c FieldChange) Validate() error {
	if c.Field == FieldCount && c.Int < 1 {
		return fmt.Errorf("count must be >= 1, got %d", c.Int)
	}
	return nil
}
