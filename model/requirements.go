package model

import "strings"

// StepRequirements lists the fields each numbered wizard step requires to be
// non-blank. Steps without an entry are always valid.
var StepRequirements = map[int][]string{
	1: {},
	2: {FieldName, FieldMobile, FieldEmail},
	3: {FieldType},
	4: {FieldPreferredLocation},
	5: {FieldBudget},
	6: {FieldExperience, FieldCurrentJob},
	7: {FieldCapital, FieldFinanceReady},
	8: {FieldMotivation, FieldIdealDay},
	9: {FieldNextStep},
}

// RequiredFields returns every field any step requires, in step order.
func RequiredFields() []string {
	var fields []string
	for step := 1; step <= len(StepRequirements); step++ {
		fields = append(fields, StepRequirements[step]...)
	}
	return fields
}

// IsBlank reports whether a value is empty or whitespace only.
func IsBlank(value string) bool {
	return strings.TrimSpace(value) == ""
}

// MissingFields returns the subset of fields that are blank on p.
func MissingFields(p *BuyerProfile, fields []string) []string {
	var missing []string
	for _, f := range fields {
		if v, _ := p.Get(f); IsBlank(v) {
			missing = append(missing, f)
		}
	}
	return missing
}
