package domain

import "testing"

func TestAssetValidate(t *testing.T) {
	tests := []struct {
		name        string
		asset       Asset
		expectError bool
	}{
		{
			name:        "valid asset",
			asset:       Asset{ID: "a1", Count: 1, Order: 1},
			expectError: false,
		},
		{
			name:        "empty id",
			asset:       Asset{ID: "  ", Count: 1},
			expectError: true,
		},
		{
			name:        "zero count",
			asset:       Asset{ID: "a1", Count: 0},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.asset.Validate()
			if tt.expectError && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestFieldChangeApply(t *testing.T) {
	base := Asset{ID: "a1", Count: 1, Prompt: "old", Country: "us"}

	tests := []struct {
		name   string
		change FieldChange
		check  func(Asset) bool
	}{
		{"premium", Premium(true), func(a Asset) bool { return a.IsPremium }},
		{"count", CountOf(5), func(a Asset) bool { return a.Count == 5 }},
		{"prompt", PromptOf("new"), func(a Asset) bool { return a.Prompt == "new" }},
		{"country", CountryOf("de"), func(a Asset) bool { return a.Country == "de" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.change.Apply(base)
			if !tt.check(got) {
				t.Errorf("change %s not applied: %+v", tt.change.Field, got)
			}
			// Original must be untouched
			if base.IsPremium || base.Count != 1 || base.Prompt != "old" || base.Country != "us" {
				t.Errorf("Apply mutated its input: %+v", base)
			}
		})
	}
}

func TestFieldChangeValidate(t *testing.T) {
	if err := CountOf(0).Validate(); err == nil {
		t.Error("expected error for count 0")
	}
	if err := CountOf(1).Validate(); err != nil {
		t.Errorf("unexpected error for count 1: %v", err)
	}
	if err := PromptOf("").Validate(); err != nil {
		t.Errorf("empty prompt should be allowed: %v", err)
	}
}

func TestFieldString(t *testing.T) {
	cases := map[Field]string{
		FieldPremium: "is_premium",
		FieldCount:   "count",
		FieldPrompt:  "prompt",
		FieldCountry: "country",
	}
	for field, want := range cases {
		if got := field.String(); got != want {
			t.Errorf("Field(%d).String() = %q, want %q", field, got, want)
		}
	}
}
