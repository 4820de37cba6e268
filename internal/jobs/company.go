package jobs

import (
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	UnknownCompany = "Unknown Company"

	hiringSeparator = " hiring "
	jobsAtPrefix    = "Jobs at "
)

// aggregators never embed the employer in their host name.
var aggregators = []struct {
	host  string
	label string
}{
	{host: "linkedin.com", label: "LinkedIn Job"},
	{host: "glassdoor.com", label: "Glassdoor Job"},
	{host: "indeed.com", label: "Indeed Job"},
	{host: "greenhouse.io", label: "Greenhouse Job"},
}

// CompanyName returns a best-effort employer name for a posting. It never returns an empty string.
//
// Titles like "Acme Corp hiring Backend Engineer" win over the URL. Otherwise the host decides:
// known job boards get a canned label and other hosts give their second-to-last label
// ("careers.microsoft.com" -> "Microsoft").
func CompanyName(rawURL, title string) (name string) {
	defer func() {
		if r := recover(); r != nil || name == "" {
			name = UnknownCompany
		}
	}()

	if idx := strings.Index(title, hiringSeparator); idx != -1 {
		company := strings.TrimSpace(title[:idx])
		company = strings.TrimSpace(strings.TrimPrefix(company, jobsAtPrefix))
		if company != "" {
			return company
		}
	}

	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return UnknownCompany
	}

	host := strings.ToLower(u.Hostname())
	if host == "" {
		return UnknownCompany
	}

	for _, a := range aggregators {
		if strings.Contains(host, a.host) {
			return a.label
		}
	}

	labels := strings.Split(host, ".")
	if len(labels) >= 2 {
		return capitalize(labels[len(labels)-2])
	}

	return capitalize(host)
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
