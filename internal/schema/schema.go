package schema

import (
	"sort"
	"strings"
)

// Sentinel is written into exported rows for any column a document did not produce.
const Sentinel = "N/A"

// Canonical column names. These are the output table headers, in export order.
const (
	SerialNo         = "SERIAL_NO"
	PolicyNo         = "POLICY_NO"
	CustomerName     = "CUSTOMER_NAME"
	BrokerName       = "BROKER_NAME"
	IMDCode          = "IMD_CODE"
	ChassisNo        = "CHASSIS_NO"
	EngineNo         = "ENGINE_NO"
	RegistrationNo   = "REGISTRATION_NO"
	PolicyIssueDay   = "POLICY_ISSUE_DAY"
	InsuranceCompany = "INSURANCE_COMPANY"
	FuelType         = "FUEL_TYPE"
	Location         = "LOCATION"
	VehicleMake      = "VEHICLE_MAKE"
	VehicleModel     = "VEHICLE_MODEL"
	RiskStartDate    = "RISK_START_DATE"
	ODExpireDate     = "OD_EXPIRE_DATE"
	RenewalDate      = "RENEWAL_DATE"
	ODPremium        = "OD_PREMIUM"
	TPOnlyPremium    = "TP_ONLY_PREMIUM"
	NetPremium       = "NET_PREMIUM"
	TotalPremium     = "TOTAL_PREMIUM"
	PackageLiability = "PACKAGE_LIABILITY"
	UsageStatus      = "USAGE_STATUS"
	SourceFile       = "SOURCE_FILE"
)

// Intermediate keys produced by synonym mapping but not exported as columns.
// The reconciler folds them into canonical columns and drops them.
const (
	ODAddonPremium = "OD_ADDON_PREMIUM"
	IssueYear      = "ISSUE_YEAR"
	IssueMonth     = "ISSUE_MONTH"
	IssueDate      = "ISSUE_DATE"
)

// Kind classifies how a column's values are treated downstream.
type Kind int

const (
	Text Kind = iota
	Numeric
)

// Field is one canonical output column.
type Field struct {
	Name string
	Kind Kind
}

// FieldSchema is the process-wide extraction schema: the ordered canonical
// column list plus the synonym table mapping raw document labels onto
// canonical keys. It is built once and never mutated; construct alternates
// only for tests.
type FieldSchema struct {
	fields   []Field
	kinds    map[string]Kind
	synonyms map[string]string
}

// New builds a FieldSchema from an ordered field list and a raw-label synonym
// table. Synonym lookup is case- and whitespace-insensitive.
func New(fields []Field, synonyms map[string]string) *FieldSchema {
	s := &FieldSchema{
		fields:   append([]Field(nil), fields...),
		kinds:    make(map[string]Kind, len(fields)),
		synonyms: make(map[string]string, len(synonyms)),
	}
	for _, f := range s.fields {
		s.kinds[f.Name] = f.Kind
	}
	for raw, canon := range synonyms {
		s.synonyms[normalizeLabel(raw)] = canon
	}
	return s
}

// Columns returns the canonical column names in export order.
func (s *FieldSchema) Columns() []string {
	out := make([]string, len(s.fields))
	for i, f := range s.fields {
		out[i] = f.Name
	}
	return out
}

// Has reports whether name is a canonical column.
func (s *FieldSchema) Has(name string) bool {
	_, ok := s.kinds[name]
	return ok
}

// IsNumeric reports whether the named column carries numeric values.
func (s *FieldSchema) IsNumeric(name string) bool {
	return s.kinds[name] == Numeric
}

// Canonical resolves a raw document label to its canonical key. Labels that
// already are canonical keys resolve to themselves.
func (s *FieldSchema) Canonical(raw string) (string, bool) {
	if canon, ok := s.synonyms[normalizeLabel(raw)]; ok {
		return canon, true
	}
	if _, ok := s.kinds[raw]; ok {
		return raw, true
	}
	return "", false
}

// SynonymHints returns canonical key -> sorted raw labels, for embedding in
// the extractor instructions. Extraction quality depends on the service being
// told which document labels feed which canonical concept.
func (s *FieldSchema) SynonymHints() map[string][]string {
	hints := make(map[string][]string)
	for raw, canon := range s.synonyms {
		hints[canon] = append(hints[canon], raw)
	}
	for _, labels := range hints {
		sort.Strings(labels)
	}
	return hints
}

func normalizeLabel(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// Default returns the motor-policy extraction schema used in production.
func Default() *FieldSchema {
	fields := []Field{
		{SerialNo, Numeric},
		{PolicyNo, Text},
		{CustomerName, Text},
		{BrokerName, Text},
		{IMDCode, Text},
		{ChassisNo, Text},
		{EngineNo, Text},
		{RegistrationNo, Text},
		{PolicyIssueDay, Text},
		{InsuranceCompany, Text},
		{FuelType, Text},
		{Location, Text},
		{VehicleMake, Text},
		{VehicleModel, Text},
		{RiskStartDate, Text},
		{ODExpireDate, Text},
		{RenewalDate, Text},
		{ODPremium, Numeric},
		{TPOnlyPremium, Numeric},
		{NetPremium, Numeric},
		{TotalPremium, Numeric},
		{PackageLiability, Text},
		{UsageStatus, Text},
		{SourceFile, Text},
	}

	synonyms := map[string]string{
		"policy number":                 PolicyNo,
		"policy no":                     PolicyNo,
		"policy no.":                    PolicyNo,
		"policy ref no":                 PolicyNo,
		"policy numer":                  PolicyNo, // recurring typo in carrier PDFs
		"policy cum certificate number": PolicyNo,
		"policy/certificate no":         PolicyNo,
		"policy_number":                 PolicyNo,

		"customer name": CustomerName,
		"customer_name": CustomerName,
		"insured":       CustomerName,
		"insured name":  CustomerName,
		"proposer name": CustomerName,

		"broker name": BrokerName,
		"broker_name": BrokerName,
		"agent name":  BrokerName,
		"agent_name":  BrokerName,

		"imd code":   IMDCode,
		"imd_code":   IMDCode,
		"agent code": IMDCode,
		"agent_code": IMDCode,

		"chassis number": ChassisNo,
		"chassis no":     ChassisNo,
		"chassis_number": ChassisNo,

		"engine number": EngineNo,
		"engine no":     EngineNo,
		"engine_number": EngineNo,

		"vehicle registration number": RegistrationNo,
		"vehicle_registration_number": RegistrationNo,
		"registration number":         RegistrationNo,
		"registration no":             RegistrationNo,
		"reg no":                      RegistrationNo,

		"policy issue date": PolicyIssueDay,
		"policy_issue_date": PolicyIssueDay,
		"date of issue":     PolicyIssueDay,
		"issue date":        PolicyIssueDay,
		"issued on":         PolicyIssueDay,

		"insurance company name": InsuranceCompany,
		"insurance_company_name": InsuranceCompany,
		"insurer":                InsuranceCompany,

		"fuel type": FuelType,
		"fuel_type": FuelType,
		"fuel":      FuelType,

		"location":              Location,
		"rto location":          Location,
		"place of registration": Location,

		"vehicle make": VehicleMake,
		"vehicle_make": VehicleMake,
		"make":         VehicleMake,

		"vehicle model": VehicleModel,
		"vehicle_model": VehicleModel,
		"model":         VehicleModel,

		"risk start date":          RiskStartDate,
		"risk_start_date":          RiskStartDate,
		"period of insurance from": RiskStartDate,
		"policy period from":       RiskStartDate,

		"od expire date":         ODExpireDate,
		"od_expire_date":         ODExpireDate,
		"od expiry date":         ODExpireDate,
		"own damage expiry date": ODExpireDate,

		"renewal date": RenewalDate,
		"renewal_date": RenewalDate,

		"total own damage premium (a)": ODPremium,
		"total own damage premium":     ODPremium,
		"own damage premium":           ODPremium,
		"total od premium":             ODPremium,
		"od premium":                   ODPremium,
		"od_premium":                   ODPremium,

		"total add on premium (c)": ODAddonPremium,
		"total add-on premium (c)": ODAddonPremium,
		"total add on premium":     ODAddonPremium,
		"add on premium":           ODAddonPremium,
		"addon premium":            ODAddonPremium,

		"total liability premium (b)": TPOnlyPremium,
		"total liability premium":     TPOnlyPremium,
		"liability premium":           TPOnlyPremium,
		"third party premium":         TPOnlyPremium,
		"tp premium":                  TPOnlyPremium,
		"tp_only_premium":             TPOnlyPremium,

		"net premium":       NetPremium,
		"net_premium":       NetPremium,
		"net premium (a+b)": NetPremium,

		"total premium":        TotalPremium,
		"total_premium":        TotalPremium,
		"policy premium":       TotalPremium,
		"gross premium":        TotalPremium,
		"total policy premium": TotalPremium,

		"usage status":        UsageStatus,
		"usage_status":        UsageStatus,
		"registration status": UsageStatus,
		"vehicle status":      UsageStatus,

		// issue-date pieces some carriers (and older extractor prompts) emit
		"year":  IssueYear,
		"month": IssueMonth,
		"date":  IssueDate,
		"day":   IssueDate,
	}

	return New(fields, synonyms)
}
