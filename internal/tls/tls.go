// Package tls resolves the certificate source for the HTTPS listener,
// either from static PEM files or automatically via ACME.
package tls

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"net/http"
	"os"
	"time"

	"golang.org/x/crypto/acme/autocert"

	"github.com/guschlbauermichael93/guschlbauer-signatures/internal/config"
)

// CertificateInfo describes a served certificate.
type CertificateInfo struct {
	Subject   string
	Issuer    string
	NotBefore time.Time
	NotAfter  time.Time
	DaysLeft  int
	DNSNames  []string
}

// Provider yields the tls.Config for the API server. With ACME enabled
// certificates come from Let's Encrypt and renew themselves, otherwise
// the configured cert/key pair is loaded once at startup.
type Provider struct {
	tlsConfig *tls.Config
	acme      *autocert.Manager
	domains   []string
}

// NewProvider builds a Provider from the TLS section of the config.
// Returns nil when TLS is disabled.
func NewProvider(cfg config.TLSConfig) (*Provider, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	if cfg.ACME.Enabled {
		m := &autocert.Manager{
			Prompt:     autocert.AcceptTOS,
			Email:      cfg.ACME.Email,
			HostPolicy: autocert.HostWhitelist(cfg.ACME.Domains...),
			Cache:      autocert.DirCache(cfg.ACME.CacheDir),
		}
		return &Provider{
			tlsConfig: &tls.Config{
				GetCertificate: m.GetCertificate,
				MinVersion:     tls.VersionTLS12,
			},
			acme:    m,
			domains: cfg.ACME.Domains,
		}, nil
	}

	cert, err := tls.LoadX509KeyPair(cfg.CertFile, cfg.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load TLS certificate: %w", err)
	}
	return &Provider{
		tlsConfig: &tls.Config{
			Certificates: []tls.Certificate{cert},
			MinVersion:   tls.VersionTLS12,
		},
	}, nil
}

// Config returns the tls.Config for the listener.
func (p *Provider) Config() *tls.Config {
	return p.tlsConfig
}

// ChallengeHandler wraps fallback with the HTTP-01 challenge responder.
// Without ACME the fallback is returned unchanged.
func (p *Provider) ChallengeHandler(fallback http.Handler) http.Handler {
	if p.acme == nil {
		return fallback
	}
	return p.acme.HTTPHandler(fallback)
}

// UsesACME reports whether certificates are managed automatically.
func (p *Provider) UsesACME() bool {
	return p.acme != nil
}

// CachedCertificates inspects the ACME cache without contacting the CA.
// Domains with no cached certificate are skipped.
func (p *Provider) CachedCertificates(ctx context.Context) []CertificateInfo {
	if p.acme == nil {
		return nil
	}
	cache, ok := p.acme.Cache.(autocert.DirCache)
	if !ok {
		return nil
	}

	var infos []CertificateInfo
	for _, domain := range p.domains {
		data, err := cache.Get(ctx, domain)
		if err != nil {
			continue
		}
		pair, err := tls.X509KeyPair(data, data)
		if err != nil || len(pair.Certificate) == 0 {
			continue
		}
		leaf, err := x509.ParseCertificate(pair.Certificate[0])
		if err != nil {
			continue
		}
		infos = append(infos, describe(leaf))
	}
	return infos
}

// Inspect reads certificate details from a PEM file.
func Inspect(certFile string) (*CertificateInfo, error) {
	data, err := os.ReadFile(certFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read certificate file: %w", err)
	}

	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("no PEM block in %s", certFile)
	}

	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse certificate: %w", err)
	}

	info := describe(cert)
	return &info, nil
}

func describe(cert *x509.Certificate) CertificateInfo {
	return CertificateInfo{
		Subject:   cert.Subject.CommonName,
		Issuer:    cert.Issuer.CommonName,
		NotBefore: cert.NotBefore,
		NotAfter:  cert.NotAfter,
		DaysLeft:  int(time.Until(cert.NotAfter).Hours() / 24),
		DNSNames:  cert.DNSNames,
	}
}
