package dap2

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/go-dap2/dap2/internal/percentenc"
)

// URLBuilder combines a base dataset URL with an optional constraint to
// produce the three canonical DAP2 request URLs.
type URLBuilder struct {
	base string
}

// NewURLBuilder validates base and returns a URLBuilder for it. base must
// be an absolute http or https URL; any trailing slash is stripped.
func NewURLBuilder(base string) (*URLBuilder, error) {
	u, err := url.Parse(base)
	if err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, wrap(fmt.Errorf("%w: %q", ErrInvalidBaseURL, base))
	}
	return &URLBuilder{base: strings.TrimRight(base, "/")}, nil
}

// DasURL returns the `.das` URL for the dataset.
func (b *URLBuilder) DasURL() string { return b.base + ".das" }

// DdsURL returns the `.dds` URL for the dataset.
func (b *URLBuilder) DdsURL() string { return b.base + ".dds" }

// DodsURL returns the `.dods` URL for the dataset, appending the
// percent-encoded constraint as the query string when non-empty.
func (b *URLBuilder) DodsURL(constraint string) string {
	if constraint == "" {
		return b.base + ".dods"
	}
	return b.base + ".dods?" + percentenc.Encode(constraint)
}
