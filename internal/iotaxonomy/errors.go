package iotaxonomy

import (
	"fmt"

	"github.com/gnames/ebirddb/pkg/errcode"
	"github.com/gnames/gn"
)

// MissingCredentialError creates an error for a missing eBird API key.
func MissingCredentialError() error {
	msg := `No eBird API key is configured

<em>How to fix:</em>
  1. Request a key at https://ebird.org/api/keygen
  2. Add it to <em>~/.config/ebirddb/config.yaml</em> as
     <em>taxonomy.api_key</em>, or set <em>EBIRD_API_KEY</em>`

	return &gn.Error{
		Code: errcode.TaxonomyMissingCredentialError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("ebird api key is not set"),
	}
}

// UpstreamError creates an error for transport failures against the
// taxonomy endpoint.
func UpstreamError(url string, err error) error {
	msg := `Cannot reach the eBird taxonomy service at <em>%s</em>

<em>Possible causes:</em>
  - No network connectivity
  - The service is temporarily down

<em>How to fix:</em>
  1. Check your network connection
  2. Retry the species stage later`

	vars := []any{url}

	return &gn.Error{
		Code: errcode.TaxonomyUpstreamError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("taxonomy fetch failed: %w", err),
	}
}

// UpstreamStatusError creates an error for non-success responses from
// the taxonomy endpoint.
func UpstreamStatusError(url string, status int) error {
	msg := `The eBird taxonomy service returned status <em>%d</em>

<em>Possible causes:</em>
  - The API key is invalid or expired (403)
  - The service is temporarily down (5xx)

<em>How to fix:</em>
  1. Verify the key in <em>~/.config/ebirddb/config.yaml</em>
  2. Retry the species stage later`

	vars := []any{status}

	return &gn.Error{
		Code: errcode.TaxonomyUpstreamError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("taxonomy fetch %s: status %d", url, status),
	}
}

// DecodeError creates an error for taxonomy payloads that cannot be
// decoded.
func DecodeError(url string, err error) error {
	msg := `Cannot decode the taxonomy response from <em>%s</em>`

	vars := []any{url}

	return &gn.Error{
		Code: errcode.TaxonomyDecodeError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("taxonomy decode failed: %w", err),
	}
}
