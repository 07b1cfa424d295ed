// Package urlguard validates and normalizes candidate URLs and rejects URLs
// that target private, loopback, or internal network hosts.
//
// The private-host check is pattern based on the literal hostname. It does not
// resolve DNS, so a public name that resolves to a private address passes.
package urlguard

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/site-analyzer/internal/types"
)

// PrivateURLMessage is the message carried by PrivateURL errors.
const PrivateURLMessage = "Private or local addresses are not allowed"

var (
	validate = validator.New()

	localHostnames = map[string]bool{
		"localhost": true,
		"0.0.0.0":   true,
		"::1":       true,
	}

	dottedQuad = regexp.MustCompile(`^\d+\.\d+\.\d+\.\d+$`)

	internalSuffixes = []string{".local", ".internal"}
)

// Normalize validates raw as an absolute http(s) URL and returns its canonical form.
// A root path of "/" is dropped so that https://x.com and https://x.com/ share one identity.
// Normalize is idempotent.
func Normalize(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if err := validate.Var(raw, "required,url"); err != nil {
		return "", invalid(raw, "Invalid url", err)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", invalid(raw, "Invalid url", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", invalid(raw, "URL must be absolute with scheme and host", nil)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", invalid(raw, "unsupported scheme: "+u.Scheme, nil)
	}

	u.Host = strings.ToLower(u.Host)
	if u.Path == "/" {
		u.Path = ""
		u.RawPath = ""
	}

	return u.String(), nil
}

// IsPrivateOrLocal reports whether the URL's hostname is a loopback, RFC1918,
// or internal-looking name. Unparseable input counts as private.
func IsPrivateOrLocal(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return true
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return true
	}

	if localHostnames[host] {
		return true
	}

	if dottedQuad.MatchString(host) && isPrivateIPv4(host) {
		return true
	}

	for _, suffix := range internalSuffixes {
		if strings.HasSuffix(host, suffix) {
			return true
		}
	}

	return false
}

// Check normalizes raw and rejects private or local targets.
// It returns the normalized URL on success.
func Check(raw string) (string, error) {
	normalized, err := Normalize(raw)
	if err != nil {
		return "", err
	}
	if IsPrivateOrLocal(normalized) {
		return "", types.NewError(types.KindPrivateURL, PrivateURLMessage, nil).WithURL(normalized)
	}
	return normalized, nil
}

// isPrivateIPv4 covers 10/8, 127/8, 192.168/16 and 172.16/12.
func isPrivateIPv4(host string) bool {
	octets := strings.Split(host, ".")
	a, errA := strconv.Atoi(octets[0])
	b, errB := strconv.Atoi(octets[1])
	if errA != nil || errB != nil {
		return true
	}

	switch {
	case a == 10, a == 127:
		return true
	case a == 192 && b == 168:
		return true
	case a == 172 && b >= 16 && b <= 31:
		return true
	}
	return false
}

func invalid(raw, message string, cause error) *types.PipelineError {
	return types.NewError(types.KindValidation, message, cause).WithURL(raw)
}
