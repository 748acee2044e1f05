package assets

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateAssetName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "simple", input: "default"},
		{name: "hyphen and digits", input: "dark-2"},
		{name: "underscore", input: "my_theme"},
		{name: "empty", input: "", wantErr: true},
		{name: "slash", input: "a/b", wantErr: true},
		{name: "backslash", input: `a\b`, wantErr: true},
		{name: "dot dot", input: "..", wantErr: true},
		{name: "extension", input: "page.html", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateAssetName(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidAssetName) {
					t.Errorf("ValidateAssetName(%q) = %v, want ErrInvalidAssetName", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Errorf("ValidateAssetName(%q) = %v, want nil", tt.input, err)
			}
		})
	}
}

func TestValidateAssetName_ErrorMessageQuotesName(t *testing.T) {
	t.Parallel()

	err := ValidateAssetName("x/y")
	if err == nil || !strings.Contains(err.Error(), `"x/y"`) {
		t.Errorf("error = %v, want quoted name", err)
	}
}
