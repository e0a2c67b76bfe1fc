package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/screa/hashhunter/internal/crypto"
)

const (
	keyOne     = "0000000000000000000000000000000000000000000000000000000000000001"
	keyOneAddr = "0x7E5F4552091A69125d5DfCb7b8C2659029395Bdf"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true

	cmd := newVerifyCmd()
	if args[0] == "checksum" {
		cmd = newChecksumCmd()
	}
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args[1:])
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	err := cmd.Execute()
	return out.String(), err
}

func TestVerifyCommand(t *testing.T) {
	tests := []struct {
		name    string
		address string
		key     string
		wantErr error
	}{
		{"matching pair", keyOneAddr, keyOne, nil},
		{"lowercase address", strings.ToLower(keyOneAddr), "0x" + keyOne, nil},
		{"wrong key", keyOneAddr, strings.Repeat("0", 63) + "2", errVerificationFailed},
		{"non-hex key", keyOneAddr, strings.Repeat("z", 64), crypto.ErrInvalidPrivateKey},
		{"short key", keyOneAddr, "01", crypto.ErrInvalidPrivateKey},
		{"bad address", "0x1234", keyOne, crypto.ErrInvalidAddress},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCommand(t, "verify", tt.address, tt.key)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("verify failed: %v", err)
				}
				if !strings.Contains(out, "PASSED") {
					t.Errorf("output = %q, want PASSED", out)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("verify error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestChecksumCommand(t *testing.T) {
	out, err := runCommand(t, "checksum", strings.ToLower(keyOneAddr))
	if err != nil {
		t.Fatalf("checksum failed: %v", err)
	}
	if strings.TrimSpace(out) != keyOneAddr {
		t.Errorf("checksum output = %q, want %s", out, keyOneAddr)
	}

	if _, err := runCommand(t, "checksum", "0xnothex"); !errors.Is(err, crypto.ErrInvalidAddress) {
		t.Errorf("checksum of invalid address = %v, want ErrInvalidAddress", err)
	}
}
