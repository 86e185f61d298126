package auth

import (
	"strings"
	"testing"
)

const verifierAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-._~"

func TestGenerateVerifier(t *testing.T) {
	t.Run("DefaultLength", func(t *testing.T) {
		verifier, err := GenerateVerifier(0)
		if err != nil {
			t.Fatalf("failed to generate verifier: %v", err)
		}

		if len(verifier) != DefaultVerifierLength {
			t.Errorf("expected length %d, got %d", DefaultVerifierLength, len(verifier))
		}
	})

	t.Run("BoundaryLengths", func(t *testing.T) {
		for _, length := range []int{43, 64, 128} {
			verifier, err := GenerateVerifier(length)
			if err != nil {
				t.Fatalf("failed to generate verifier of length %d: %v", length, err)
			}
			if len(verifier) != length {
				t.Errorf("expected length %d, got %d", length, len(verifier))
			}
		}
	})

	t.Run("RejectsOutOfRangeLengths", func(t *testing.T) {
		for _, length := range []int{1, 42, 129, 500} {
			if _, err := GenerateVerifier(length); err == nil {
				t.Errorf("length %d should be rejected", length)
			}
		}
	})

	t.Run("UsesOnlyUnreservedCharacters", func(t *testing.T) {
		for i := 0; i < 20; i++ {
			verifier, err := GenerateVerifier(128)
			if err != nil {
				t.Fatalf("failed to generate verifier: %v", err)
			}
			for _, c := range verifier {
				if !strings.ContainsRune(verifierAlphabet, c) {
					t.Fatalf("verifier contains character outside the unreserved set: %q", c)
				}
			}
		}
	})

	t.Run("ProducesDistinctValues", func(t *testing.T) {
		seen := make(map[string]struct{})
		for i := 0; i < 50; i++ {
			verifier, err := GenerateVerifier(43)
			if err != nil {
				t.Fatalf("failed to generate verifier: %v", err)
			}
			if _, dup := seen[verifier]; dup {
				t.Fatal("generated the same verifier twice")
			}
			seen[verifier] = struct{}{}
		}
	})
}

func TestDeriveChallenge(t *testing.T) {
	t.Run("MatchesRFC7636Vector", func(t *testing.T) {
		// Appendix B of RFC 7636
		verifier := "dBjftJeZ4CVP-mB92K27uhbUJU1p1r_wW1gFWFOEjXk"
		want := "E9Melhoa2OwvFrEMTJguCHaoeK1t8URWbuGJSstw-cM"

		if got := DeriveChallenge(verifier); got != want {
			t.Errorf("expected challenge %s, got %s", want, got)
		}
	})

	t.Run("NoPadding", func(t *testing.T) {
		verifier, err := GenerateVerifier(0)
		if err != nil {
			t.Fatalf("failed to generate verifier: %v", err)
		}

		challenge := DeriveChallenge(verifier)
		if strings.Contains(challenge, "=") {
			t.Errorf("challenge should be unpadded, got %s", challenge)
		}
		if len(challenge) != 43 {
			t.Errorf("expected 43-character challenge, got %d", len(challenge))
		}
	})

	t.Run("Deterministic", func(t *testing.T) {
		verifier, err := GenerateVerifier(0)
		if err != nil {
			t.Fatalf("failed to generate verifier: %v", err)
		}

		if DeriveChallenge(verifier) != DeriveChallenge(verifier) {
			t.Error("same verifier should always yield the same challenge")
		}
	})

	t.Run("SensitiveToSingleCharacter", func(t *testing.T) {
		a := "dBjftJeZ4CVP-mB92K27uhbUJU1p1r_wW1gFWFOEjXk"
		b := "dBjftJeZ4CVP-mB92K27uhbUJU1p1r_wW1gFWFOEjXl"

		if DeriveChallenge(a) == DeriveChallenge(b) {
			t.Error("distinct verifiers should yield distinct challenges")
		}
	})
}
