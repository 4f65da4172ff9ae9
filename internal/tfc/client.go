// Package tfc talks to the Terraform Cloud API. Most of the surface comes
// from hashicorp/go-tfe; the one write the pinned client does not expose,
// pointing a workspace at a published registry module, is issued here
// against the same JSON:API wire format.
package tfc

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/hashicorp/go-cleanhttp"
	tfe "github.com/hashicorp/go-tfe"
)

// Config holds what is needed to reach one Terraform Cloud or Terraform
// Enterprise installation.
type Config struct {
	// Address is the normalized API URL, scheme through /api/v2.
	Address string
	Token   string
}

// Client bundles the upstream go-tfe client with the supplemental calls
// this tool needs.
type Client struct {
	// TFE serves every operation the upstream client supports.
	TFE *tfe.Client

	baseURL *url.URL
	token   string
	http    *http.Client
}

// NewClient builds a Client for the given address. No network I/O happens
// here.
func NewClient(config *Config) (*Client, error) {
	u, err := url.Parse(config.Address)
	if err != nil {
		return nil, fmt.Errorf("parse address %q: %w", config.Address, err)
	}

	// go-tfe wants the path separately and with a trailing slash, so
	// Enterprise installs mounted under a path prefix keep working.
	basePath := strings.TrimSuffix(u.Path, "/") + "/"

	tfeClient, err := tfe.NewClient(&tfe.Config{
		Address:  fmt.Sprintf("%s://%s", u.Scheme, u.Host),
		BasePath: basePath,
		Token:    config.Token,
	})
	if err != nil {
		return nil, fmt.Errorf("configure Terraform Cloud client: %w", err)
	}

	base := *u
	base.Path = strings.TrimSuffix(u.Path, "/")

	return &Client{
		TFE:     tfeClient,
		baseURL: &base,
		token:   config.Token,
		http:    cleanhttp.DefaultPooledClient(),
	}, nil
}
