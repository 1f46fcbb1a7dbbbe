package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// OtherOption is the selector value that unlocks an overflow field.
const OtherOption = "Other"

// Field names as they appear on the wire and in validation error sets.
const (
	FieldName                   = "name"
	FieldMobile                 = "mobile"
	FieldEmail                  = "email"
	FieldLocation               = "location"
	FieldType                   = "type"
	FieldTypeOther              = "typeOther"
	FieldPreferredLocation      = "preferredLocation"
	FieldPreferredLocationOther = "preferredLocationOther"
	FieldBudget                 = "budget"
	FieldExperience             = "experience"
	FieldCurrentJob             = "currentJob"
	FieldCurrentJobOther        = "currentJobOther"
	FieldPastPurchase           = "pastPurchase"
	FieldFamiliarity            = "familiarity"
	FieldCapital                = "capital"
	FieldFinanceReady           = "financeReady"
	FieldVendorFinance          = "vendorFinance"
	FieldMotivation             = "motivation"
	FieldMotivationOther        = "motivationOther"
	FieldIdealDay               = "idealDay"
	FieldNonNegotiable          = "nonNegotiable"
	FieldNonNegotiableOther     = "nonNegotiableOther"
	FieldOffMarketAccess        = "offMarketAccess"
	FieldNextStep               = "nextStep"
	FieldFinalNotes             = "finalNotes"
)

// BuyerProfile holds a buyer's answers. Every field defaults to the empty
// string; multi-select fields store selections comma separated in selection
// order.
type BuyerProfile struct {
	Name                   string `json:"name"`
	Mobile                 string `json:"mobile"`
	Email                  string `json:"email"`
	Location               string `json:"location"`
	Type                   string `json:"type"`
	TypeOther              string `json:"typeOther"`
	PreferredLocation      string `json:"preferredLocation"`
	PreferredLocationOther string `json:"preferredLocationOther"`
	Budget                 string `json:"budget"`
	Experience             string `json:"experience"`
	CurrentJob             string `json:"currentJob"`
	CurrentJobOther        string `json:"currentJobOther"`
	PastPurchase           string `json:"pastPurchase"`
	Familiarity            string `json:"familiarity"`
	Capital                string `json:"capital"`
	FinanceReady           string `json:"financeReady"`
	VendorFinance          string `json:"vendorFinance"`
	Motivation             string `json:"motivation"`
	MotivationOther        string `json:"motivationOther"`
	IdealDay               string `json:"idealDay"`
	NonNegotiable          string `json:"nonNegotiable"`
	NonNegotiableOther     string `json:"nonNegotiableOther"`
	OffMarketAccess        string `json:"offMarketAccess"`
	NextStep               string `json:"nextStep"`
	FinalNotes             string `json:"finalNotes"`
}

// OverflowFields maps each "Other"-triggering selector to its free-text field.
var OverflowFields = map[string]string{
	FieldType:              FieldTypeOther,
	FieldPreferredLocation: FieldPreferredLocationOther,
	FieldCurrentJob:        FieldCurrentJobOther,
	FieldMotivation:        FieldMotivationOther,
	FieldNonNegotiable:     FieldNonNegotiableOther,
}

func (p *BuyerProfile) refs() map[string]*string {
	return map[string]*string{
		FieldName:                   &p.Name,
		FieldMobile:                 &p.Mobile,
		FieldEmail:                  &p.Email,
		FieldLocation:               &p.Location,
		FieldType:                   &p.Type,
		FieldTypeOther:              &p.TypeOther,
		FieldPreferredLocation:      &p.PreferredLocation,
		FieldPreferredLocationOther: &p.PreferredLocationOther,
		FieldBudget:                 &p.Budget,
		FieldExperience:             &p.Experience,
		FieldCurrentJob:             &p.CurrentJob,
		FieldCurrentJobOther:        &p.CurrentJobOther,
		FieldPastPurchase:           &p.PastPurchase,
		FieldFamiliarity:            &p.Familiarity,
		FieldCapital:                &p.Capital,
		FieldFinanceReady:           &p.FinanceReady,
		FieldVendorFinance:          &p.VendorFinance,
		FieldMotivation:             &p.Motivation,
		FieldMotivationOther:        &p.MotivationOther,
		FieldIdealDay:               &p.IdealDay,
		FieldNonNegotiable:          &p.NonNegotiable,
		FieldNonNegotiableOther:     &p.NonNegotiableOther,
		FieldOffMarketAccess:        &p.OffMarketAccess,
		FieldNextStep:               &p.NextStep,
		FieldFinalNotes:             &p.FinalNotes,
	}
}

// Get returns the value of the named field.
func (p *BuyerProfile) Get(field string) (string, bool) {
	ref, ok := p.refs()[field]
	if !ok {
		return "", false
	}
	return *ref, true
}

// Set assigns the named field.
func (p *BuyerProfile) Set(field, value string) error {
	ref, ok := p.refs()[field]
	if !ok {
		return fmt.Errorf("%w: unknown field %q", ErrMalformedRequest, field)
	}
	*ref = value
	return nil
}

// FirstBusinessType returns the text before the first comma of Type, or
// "Any" when no type was chosen.
func (p *BuyerProfile) FirstBusinessType() string {
	if p.Type == "" {
		return "Any"
	}
	first, _, _ := strings.Cut(p.Type, ",")
	return first
}

// ParseBuyerProfile decodes a JSON object into a profile. Missing fields stay
// empty; anything other than an object is rejected.
func ParseBuyerProfile(body []byte) (*BuyerProfile, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("%w: body is not a JSON object", ErrMalformedRequest)
	}

	var p BuyerProfile
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRequest, err)
	}
	return &p, nil
}
