package ticket

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
)

func TestSignVerifyRoundtrip(t *testing.T) {
	issuer := NewIssuer("test-secret")

	nonce, token, err := issuer.Mint(42, 7)
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}

	claims, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.UserID != 42 || claims.EventID != 7 || claims.Nonce != nonce {
		t.Errorf("claims = %+v, want user=42 event=7 nonce=%s", claims, nonce)
	}
}

func TestSignIsDeterministic(t *testing.T) {
	issuer := NewIssuer("test-secret")

	a, err := issuer.Sign(42, 7, "nonce-1")
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	b, err := issuer.Sign(42, 7, "nonce-1")
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if a != b {
		t.Error("re-signing the same credential produced a different token")
	}
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	issuer := NewIssuer("test-secret")

	_, token, err := issuer.Mint(42, 7)
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}

	// flip a character inside the payload segment
	parts := strings.Split(token, ".")
	payload := []byte(parts[1])
	if payload[3] == 'A' {
		payload[3] = 'B'
	} else {
		payload[3] = 'A'
	}
	parts[1] = string(payload)
	tampered := strings.Join(parts, ".")

	if _, err := issuer.Verify(tampered); err != ErrInvalidToken {
		t.Errorf("Verify(tampered) err = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	_, token, err := NewIssuer("secret-a").Mint(42, 7)
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}

	if _, err := NewIssuer("secret-b").Verify(token); err != ErrInvalidToken {
		t.Errorf("Verify err = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	issuer := NewIssuer("test-secret")
	for _, raw := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := issuer.Verify(raw); err != ErrInvalidToken {
			t.Errorf("Verify(%q) err = %v, want ErrInvalidToken", raw, err)
		}
	}
}

func TestRenderIsIdempotent(t *testing.T) {
	issuer := NewIssuer("test-secret")
	nonce, token, err := issuer.Mint(42, 7)
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}

	holder := Holder{Name: "Asha Rao", USN: "1TN22CS042", Year: "3", Course: "CSE"}
	a, err := Render(nonce, token, holder)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	b, err := Render(nonce, token, holder)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	if !bytes.Equal(a.QRPng, b.QRPng) {
		t.Error("re-rendering the same token produced different QR bytes")
	}
	if a.DataURL != b.DataURL {
		t.Error("re-rendering the same token produced a different data URL")
	}
}

func TestDecodeImageRoundtrip(t *testing.T) {
	issuer := NewIssuer("test-secret")
	nonce, token, err := issuer.Mint(42, 7)
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}

	artifact, err := Render(nonce, token, Holder{Name: "Asha Rao"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	decoded, err := DecodeImage(bytes.NewReader(artifact.QRPng))
	if err != nil {
		t.Fatalf("DecodeImage: %v", err)
	}
	if decoded != token {
		t.Errorf("decoded %q, want the original token", decoded)
	}
}

func TestDecodeImageNoCode(t *testing.T) {
	// a blank image has nothing to decode
	blank := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			blank.Set(x, y, color.White)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, blank); err != nil {
		t.Fatalf("png encode: %v", err)
	}

	if _, err := DecodeImage(&buf); err != ErrNoCodeFound {
		t.Errorf("DecodeImage(blank) err = %v, want ErrNoCodeFound", err)
	}

	if _, err := DecodeImage(bytes.NewReader([]byte("not an image"))); err != ErrNoCodeFound {
		t.Errorf("DecodeImage(garbage) err = %v, want ErrNoCodeFound", err)
	}
}
