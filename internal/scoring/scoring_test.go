package scoring

import "testing"

func TestParseProvider(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		expect  Provider
		wantErr bool
	}{
		{input: "", expect: ProviderRemote},
		{input: " Gemini ", expect: ProviderGemini},
		{input: "remote", expect: ProviderRemote},
		{input: "openai", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			got, err := ParseProvider(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}
