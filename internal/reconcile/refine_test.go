package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insurelens/policy-extract/internal/schema"
)

func TestRefinePolicyNumberDigitRun(t *testing.T) {
	rec := Record{schema.PolicyNo: "Policy cum Certificate Number 201520070124700944100000 dated"}
	warns := Refine(rec)
	assert.Equal(t, "201520070124700944100000", rec[schema.PolicyNo])
	require.Len(t, warns, 1)
	assert.Equal(t, schema.PolicyNo, warns[0].Field)
}

func TestRefinePolicyNumberLeftAloneWithoutDigitRun(t *testing.T) {
	// alphanumeric policy refs have no 10+ digit run; keep them verbatim
	rec := Record{schema.PolicyNo: "OG-24-1101-1801-00012345"}
	warns := Refine(rec)
	assert.Equal(t, "OG-24-1101-1801-00012345", rec[schema.PolicyNo])
	assert.Empty(t, warns)
}

func TestRefineCustomerNameStripsNoise(t *testing.T) {
	rec := Record{schema.CustomerName: "Proposer Name: RAVI VERMA Contact 9999999999"}
	Refine(rec)
	assert.Equal(t, "RAVI VERMA", rec[schema.CustomerName])
}

func TestRefineCleanValuesUntouched(t *testing.T) {
	rec := Record{
		schema.PolicyNo:     "98765432109876",
		schema.CustomerName: "AMIT KUMAR SHUKLA",
	}
	warns := Refine(rec)
	assert.Empty(t, warns)
	assert.Equal(t, "98765432109876", rec[schema.PolicyNo])
	assert.Equal(t, "AMIT KUMAR SHUKLA", rec[schema.CustomerName])
}
