package dkim

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestGenerateSaveLoadSign(t *testing.T) {
	kp, err := GenerateKey("guschlbauer.at", "sig1")
	if err != nil {
		t.Fatalf("GenerateKey() error = %v", err)
	}

	keyPath := filepath.Join(t.TempDir(), "keys", "dkim.pem")
	if err := kp.SavePrivateKey(keyPath); err != nil {
		t.Fatalf("SavePrivateKey() error = %v", err)
	}

	signer, err := NewSignerFromFile(keyPath, "guschlbauer.at", "sig1")
	if err != nil {
		t.Fatalf("NewSignerFromFile() error = %v", err)
	}
	if signer.Domain() != "guschlbauer.at" {
		t.Errorf("Domain() = %q, want guschlbauer.at", signer.Domain())
	}

	message := []byte("From: it@guschlbauer.at\r\nTo: max@guschlbauer.at\r\nSubject: test\r\n\r\nbody\r\n")
	signed, err := signer.Sign(message)
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}
	if !strings.Contains(string(signed), "DKIM-Signature:") {
		t.Error("signed message missing DKIM-Signature header")
	}
	if !strings.Contains(string(signed), "d=guschlbauer.at") {
		t.Error("signature missing domain tag")
	}
}

func TestDNSRecord(t *testing.T) {
	kp, err := GenerateKey("guschlbauer.at", "sig1")
	if err != nil {
		t.Fatalf("GenerateKey() error = %v", err)
	}

	if got := kp.DNSName(); got != "sig1._domainkey.guschlbauer.at" {
		t.Errorf("DNSName() = %q", got)
	}
	record := kp.DNSRecord()
	if !strings.HasPrefix(record, "v=DKIM1; k=rsa; p=") {
		t.Errorf("DNSRecord() = %q", record)
	}
}

func TestLoadPrivateKeyMissingFile(t *testing.T) {
	if _, err := LoadPrivateKey("/nonexistent/key.pem"); err == nil {
		t.Error("LoadPrivateKey() expected error for missing file")
	}
}
