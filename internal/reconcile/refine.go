package reconcile

import (
	"regexp"
	"strings"

	"github.com/insurelens/policy-extract/internal/schema"
)

var (
	rePolicyDigits = regexp.MustCompile(`\b\d{10,}\b`)
	reNamePrefix   = regexp.MustCompile(`(?i)^(?:insured|customer name|proposer name)\s*[:\-]?\s*`)
	reNameTrailer  = regexp.MustCompile(`(?i)\s+(?:IMD|Policy|Address|Contact)\b.*$`)
)

// Refine cleans up fields the extractor tends to return with surrounding
// label noise. Policy numbers are reduced to the long digit run when one is
// embedded in a noisy string; customer names lose leading labels and
// trailing address/contact spillover. Values that don't match are left
// untouched.
func Refine(rec Record) []Warning {
	var warns []Warning

	if raw := stringValue(rec[schema.PolicyNo]); raw != "" {
		if m := rePolicyDigits.FindString(raw); m != "" && m != raw {
			warns = append(warns, Warning{
				Field:  schema.PolicyNo,
				Reason: "reduced to embedded policy digit run",
				Old:    raw,
				New:    m,
			})
			rec[schema.PolicyNo] = m
		}
	}

	if raw := stringValue(rec[schema.CustomerName]); raw != "" {
		name := reNamePrefix.ReplaceAllString(raw, "")
		name = reNameTrailer.ReplaceAllString(name, "")
		name = strings.TrimSpace(name)
		if name != "" && name != raw {
			warns = append(warns, Warning{
				Field:  schema.CustomerName,
				Reason: "stripped label noise",
				Old:    raw,
				New:    name,
			})
			rec[schema.CustomerName] = name
		}
	}

	return warns
}
