package reconcile

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/insurelens/policy-extract/internal/normalize"
	"github.com/insurelens/policy-extract/internal/schema"
)

// Tolerance is the acceptable rounding drift between independently reported
// premium components.
const Tolerance = 1e-2

// Record is a canonicalized document record: canonical key -> typed value
// (float64 for premium columns, string otherwise).
type Record map[string]any

// Warning records a non-fatal correction made during reconciliation. The
// corrected value is used and the document still succeeds.
type Warning struct {
	Field  string
	Reason string
	Old    any
	New    any
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s (old=%v new=%v)", w.Field, w.Reason, w.Old, w.New)
}

// ApplySynonyms renames every raw key found in the schema's synonym table to
// its canonical key, producing a new record; the input is never mutated.
// When several variants of the same canonical field appear, the
// lexicographically last raw key wins — a deliberate last-write-wins policy,
// not an error. Keys the schema does not recognize pass through unchanged.
func ApplySynonyms(raw map[string]any, s *schema.FieldSchema) Record {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(Record, len(raw))
	for _, k := range keys {
		if canon, ok := s.Canonical(k); ok {
			out[canon] = raw[k]
			continue
		}
		out[k] = raw[k]
	}
	return out
}

// Premiums recomputes the premium breakdown and cross-validates the extracted
// totals. OD_PREMIUM absorbs the add-on component when one was reported
// separately; NET and TOTAL are corrected whenever they are absent, zero, or
// drift beyond Tolerance from the computed values.
//
// Post-conditions: OD, TP, NET and TOTAL are float64,
// |NET-(OD+TP)| <= Tolerance and |TOTAL-NET| <= Tolerance.
func Premiums(rec Record) []Warning {
	var warns []Warning

	od := normalize.Numeric(rec[schema.ODPremium])
	if addon, ok := rec[schema.ODAddonPremium]; ok {
		if _, hasBase := rec[schema.ODPremium]; hasBase {
			od += normalize.Numeric(addon)
		}
		delete(rec, schema.ODAddonPremium)
	}
	rec[schema.ODPremium] = od

	tp := normalize.Numeric(rec[schema.TPOnlyPremium])
	rec[schema.TPOnlyPremium] = tp

	calculatedNet := od + tp
	netRaw, hasNet := rec[schema.NetPremium]
	net := normalize.Numeric(netRaw)
	if !hasNet || net == 0 || math.Abs(net-calculatedNet) > Tolerance {
		warns = append(warns, Warning{
			Field:  schema.NetPremium,
			Reason: "recomputed from OD_PREMIUM + TP_ONLY_PREMIUM",
			Old:    netRaw,
			New:    calculatedNet,
		})
		net = calculatedNet
	}
	rec[schema.NetPremium] = net

	totalRaw, hasTotal := rec[schema.TotalPremium]
	total := normalize.Numeric(totalRaw)
	if !hasTotal || total == 0 || math.Abs(total-net) > Tolerance {
		warns = append(warns, Warning{
			Field:  schema.TotalPremium,
			Reason: "aligned to NET_PREMIUM",
			Old:    totalRaw,
			New:    net,
		})
		total = net
	}
	rec[schema.TotalPremium] = total

	return warns
}

// Dates forces RENEWAL_DATE to track OD_EXPIRE_DATE (renewal always follows
// OD expiry) and, when the extractor reported the issue date as loose
// day/month/year pieces, composes them into POLICY_ISSUE_DAY.
func Dates(rec Record) []Warning {
	var warns []Warning

	if exp := stringValue(rec[schema.ODExpireDate]); exp != "" {
		if cur := stringValue(rec[schema.RenewalDate]); cur != "" && cur != exp {
			warns = append(warns, Warning{
				Field:  schema.RenewalDate,
				Reason: "forced to OD_EXPIRE_DATE",
				Old:    cur,
				New:    exp,
			})
		}
		rec[schema.RenewalDate] = exp
	}

	day := stringValue(rec[schema.IssueDate])
	month := stringValue(rec[schema.IssueMonth])
	year := stringValue(rec[schema.IssueYear])
	if stringValue(rec[schema.PolicyIssueDay]) == "" && day != "" && month != "" && year != "" {
		rec[schema.PolicyIssueDay] = day + "/" + month + "/" + year
	}
	delete(rec, schema.IssueDate)
	delete(rec, schema.IssueMonth)
	delete(rec, schema.IssueYear)

	return warns
}

// PolicyType classifies the policy from the reconciled OD premium: a zero OD
// component means the policy covers liability only.
func PolicyType(rec Record) {
	if normalize.Numeric(rec[schema.ODPremium]) == 0 {
		rec[schema.PackageLiability] = "Liability Only Policy"
	} else {
		rec[schema.PackageLiability] = "Package Policy"
	}
}

// UsageStatus collapses the free-text usage/registration field into exactly
// one of "New", "Old" or "Unknown". "new" wins over "old"/"used".
func UsageStatus(rec Record) {
	s := strings.ToLower(stringValue(rec[schema.UsageStatus]))
	switch {
	case strings.Contains(s, "new"):
		rec[schema.UsageStatus] = "New"
	case strings.Contains(s, "old"), strings.Contains(s, "used"):
		rec[schema.UsageStatus] = "Old"
	default:
		rec[schema.UsageStatus] = "Unknown"
	}
}

// Apply runs the full reconciliation over an extractor record: synonym
// mapping, field refinement, premium and date reconciliation, then the
// categorical classifiers. Total — unparseable or missing inputs degrade to
// zero/sentinel values plus warnings, never an error.
func Apply(raw map[string]any, s *schema.FieldSchema) (Record, []Warning) {
	rec := ApplySynonyms(raw, s)
	warns := Refine(rec)
	warns = append(warns, Premiums(rec)...)
	warns = append(warns, Dates(rec)...)
	PolicyType(rec)
	UsageStatus(rec)
	return rec, warns
}

// stringValue renders a scalar for comparison; the sentinel counts as absent.
func stringValue(v any) string {
	if v == nil {
		return ""
	}
	s := strings.TrimSpace(fmt.Sprintf("%v", v))
	if s == schema.Sentinel {
		return ""
	}
	return s
}
