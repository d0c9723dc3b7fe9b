package keystore

import (
	"errors"
	"testing"
)

func TestParseAlgorithm(t *testing.T) {
	tests := []struct {
		name    string
		want    Algorithm
		wantErr bool
	}{
		{"", AES256CBC, false},
		{"  ", AES256CBC, false},
		{"aes-256-cbc", AES256CBC, false},
		{"AES-256-CBC", AES256CBC, false},
		{"-aes-256-cbc", AES256CBC, false},
		{"aes256", AES256CBC, false},
		{"aes-192-cbc", AES192CBC, false},
		{"aes192", AES192CBC, false},
		{"bf-cbc", BlowfishCBC, false},
		{"blowfish", BlowfishCBC, false},
		{"bf", BlowfishCBC, false},
		{"-bf", BlowfishCBC, false},
		{"rc4", RC4, false},
		{"RC4", RC4, false},
		{"des", 0, true},
		{"aes-256-gcm", 0, true},
		{"rc4-40", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAlgorithm(tt.name)
			if tt.wantErr {
				if !IsValidationError(err) || !errors.Is(err, ErrUnknownAlgorithm) {
					t.Errorf("ParseAlgorithm(%q) error = %v, want unknown algorithm", tt.name, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAlgorithm(%q) failed: %v", tt.name, err)
			}
			if got != tt.want {
				t.Errorf("ParseAlgorithm(%q) = %s, want %s", tt.name, got, tt.want)
			}
		})
	}
}

func TestAlgorithmNames(t *testing.T) {
	names := AlgorithmNames()
	if len(names) != len(algorithmNames) {
		t.Errorf("AlgorithmNames() has %d names, table has %d", len(names), len(algorithmNames))
	}
	for _, name := range names {
		a, err := ParseAlgorithm(name)
		if err != nil {
			t.Errorf("ParseAlgorithm(%q) failed: %v", name, err)
			continue
		}
		// Canonical names parse back to themselves
		if _, err := ParseAlgorithm(a.String()); err != nil {
			t.Errorf("canonical name %q does not parse", a.String())
		}
	}
}

func TestAlgorithm_Profile(t *testing.T) {
	tests := []struct {
		alg       Algorithm
		name      string
		keyLen    int
		ivLen     int
		blockSize int
		stream    bool
	}{
		{AES256CBC, "aes-256-cbc", 32, 16, 16, false},
		{AES192CBC, "aes-192-cbc", 24, 16, 16, false},
		{BlowfishCBC, "bf-cbc", 16, 8, 8, false},
		{RC4, "rc4", 16, 0, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.alg.String() != tt.name {
				t.Errorf("String() = %q, want %q", tt.alg.String(), tt.name)
			}
			p, err := tt.alg.Profile()
			if err != nil {
				t.Fatalf("Profile() failed: %v", err)
			}
			if p.KeyLen != tt.keyLen || p.IVLen != tt.ivLen || p.BlockSize != tt.blockSize || p.Stream != tt.stream {
				t.Errorf("Profile() = %+v", p)
			}
			if p.KeyMaterialLen() != tt.keyLen+tt.ivLen {
				t.Errorf("KeyMaterialLen() = %d", p.KeyMaterialLen())
			}
		})
	}

	if _, err := Algorithm(42).Profile(); !errors.Is(err, ErrUnknownAlgorithm) {
		t.Errorf("Profile() of unknown algorithm error = %v", err)
	}
	if Algorithm(42).String() != "unknown" {
		t.Errorf("String() of unknown algorithm = %q", Algorithm(42).String())
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{"nil", nil, true},
		{"valid minimal", &Config{Path: "/s.enc", Password: "p"}, false},
		{"valid full", &Config{Path: "/s.enc", Password: "p", Algorithm: "bf", FileMode: 0640, DirMode: 0750, QueueSize: 1}, false},
		{"missing path", &Config{Password: "p"}, true},
		{"missing password", &Config{Path: "/s.enc"}, true},
		{"bad algorithm", &Config{Path: "/s.enc", Password: "p", Algorithm: "des"}, true},
		{"negative queue", &Config{Path: "/s.enc", Password: "p", QueueSize: -5}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_WithDefaults(t *testing.T) {
	c := Config{Path: "/s.enc", Password: "p"}.withDefaults()
	if c.FileMode != DefaultFileMode || c.DirMode != DefaultDirMode || c.QueueSize != DefaultQueueSize {
		t.Errorf("withDefaults() = %+v", c)
	}
	if c.Logger == nil {
		t.Error("withDefaults() left Logger nil")
	}

	set := Config{FileMode: 0644, DirMode: 0755, QueueSize: 3}.withDefaults()
	if set.FileMode != 0644 || set.DirMode != 0755 || set.QueueSize != 3 {
		t.Errorf("withDefaults() overrode explicit values: %+v", set)
	}
}
