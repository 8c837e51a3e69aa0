package samlauth

import (
	"context"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"fmt"
	"net/http"
	"net/url"
	"os"

	"github.com/crewjam/saml"
	"github.com/crewjam/saml/samlsp"

	"github.com/DerDob/kleiderkammer/internal/domain"
)

// Attribute names delivered by the identity provider. The OIDs match what
// the IdP is configured to release (givenName and isMemberOf); friendly
// names are accepted as fallback.
const (
	attrNameOID   = "urn:oid:2.5.4.42"
	attrEmailOID  = "urn:oid:0.9.2342.19200300.100.1.3"
	attrGroupsOID = "urn:oid:1.3.6.1.4.1.5923.1.5.1.1"
)

// NewMiddleware builds the samlsp middleware serving the ACS and metadata
// endpoints under baseURL/saml/ and driving the login redirect.
func NewMiddleware(cfg *Config, baseURL string) (*samlsp.Middleware, error) {
	keyPair, err := tls.LoadX509KeyPair(cfg.SP.Certificate, cfg.SP.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("load sp key pair: %w", err)
	}
	keyPair.Leaf, err = x509.ParseCertificate(keyPair.Certificate[0])
	if err != nil {
		return nil, fmt.Errorf("parse sp certificate: %w", err)
	}

	rootURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	idpMetadata, err := idpMetadata(cfg)
	if err != nil {
		return nil, err
	}

	return samlsp.New(samlsp.Options{
		EntityID:    cfg.SP.EntityID,
		URL:         *rootURL,
		Key:         keyPair.PrivateKey.(*rsa.PrivateKey),
		Certificate: keyPair.Leaf,
		IDPMetadata: idpMetadata,
	})
}

// idpMetadata resolves the IdP's entity descriptor, either fetched from a
// metadata URL or assembled from the configured SSO URL and certificate.
func idpMetadata(cfg *Config) (*saml.EntityDescriptor, error) {
	if cfg.IDP.MetadataURL != "" {
		metadataURL, err := url.Parse(cfg.IDP.MetadataURL)
		if err != nil {
			return nil, fmt.Errorf("parse idp metadata url: %w", err)
		}
		metadata, err := samlsp.FetchMetadata(context.Background(), http.DefaultClient, *metadataURL)
		if err != nil {
			return nil, fmt.Errorf("fetch idp metadata: %w", err)
		}
		return metadata, nil
	}

	pemBytes, err := os.ReadFile(cfg.IDP.Certificate)
	if err != nil {
		return nil, fmt.Errorf("read idp certificate: %w", err)
	}
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, fmt.Errorf("idp certificate %s is not PEM", cfg.IDP.Certificate)
	}

	return &saml.EntityDescriptor{
		EntityID: cfg.IDP.EntityID,
		IDPSSODescriptors: []saml.IDPSSODescriptor{{
			SSODescriptor: saml.SSODescriptor{
				RoleDescriptor: saml.RoleDescriptor{
					ProtocolSupportEnumeration: "urn:oasis:names:tc:SAML:2.0:protocol",
					KeyDescriptors: []saml.KeyDescriptor{{
						Use: "signing",
						KeyInfo: saml.KeyInfo{
							X509Data: saml.X509Data{
								X509Certificates: []saml.X509Certificate{{
									Data: base64.StdEncoding.EncodeToString(block.Bytes),
								}},
							},
						},
					}},
				},
			},
			SingleSignOnServices: []saml.Endpoint{{
				Binding:  saml.HTTPRedirectBinding,
				Location: cfg.IDP.SSOURL,
			}},
		}},
	}, nil
}

// UserFromRequest maps the SAML session attributes of an authenticated
// request to a domain user.
func UserFromRequest(r *http.Request) (*domain.User, error) {
	session := samlsp.SessionFromContext(r.Context())
	if session == nil {
		return nil, domain.ErrUnauthorized
	}

	sa, ok := session.(samlsp.SessionWithAttributes)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	attrs := sa.GetAttributes()

	email := firstAttr(attrs, "email", attrEmailOID, "mail")
	if email == "" {
		return nil, fmt.Errorf("%w: assertion carries no email attribute", domain.ErrUnauthorized)
	}

	name := firstAttr(attrs, attrNameOID, "displayName", "cn", "name")
	if name == "" {
		name = email
	}

	groups := attrs[attrGroupsOID]
	if len(groups) == 0 {
		groups = attrs["groups"]
	}

	return &domain.User{
		Name:   name,
		Email:  email,
		Groups: append([]string(nil), groups...),
	}, nil
}

func firstAttr(attrs samlsp.Attributes, names ...string) string {
	for _, name := range names {
		if v := attrs.Get(name); v != "" {
			return v
		}
	}
	return ""
}
