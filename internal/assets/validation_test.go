package assets

import (
	"errors"
	"testing"
)

func TestValidateAssetName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "simple name", input: "default"},
		{name: "name with hyphen", input: "dark-theme"},
		{name: "name with underscore", input: "dark_theme"},
		{name: "name with numbers", input: "poster2"},
		{name: "empty name", input: "", wantErr: ErrInvalidAssetName},
		{name: "forward slash", input: "path/to/template", wantErr: ErrInvalidAssetName},
		{name: "backslash", input: "path\\to\\template", wantErr: ErrInvalidAssetName},
		{name: "parent directory traversal", input: "../secret", wantErr: ErrInvalidAssetName},
		{name: "windows parent traversal", input: "..\\secret", wantErr: ErrInvalidAssetName},
		{name: "extension included", input: "default.html", wantErr: ErrInvalidAssetName},
		{name: "null byte", input: "default\x00", wantErr: ErrInvalidAssetName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateAssetName(tt.input)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateAssetName(%q) unexpected error: %v", tt.input, err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateAssetName(%q) error = %v, want %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
