package service

import (
	"strings"

	"github.com/samber/lo"

	"github.com/crosti/buyerform/model"
)

// Export column labels, in output order.
const (
	LabelFullName           = "Full Name"
	LabelEmail              = "Email"
	LabelPhone              = "Phone"
	LabelBusinessTypes      = "Business Types Interested In"
	LabelOtherBusinessType  = "Other Business Type"
	LabelPreferredLocations = "Preferred Locations"
	LabelOtherLocation      = "Other Location"
	LabelBudget             = "Budget Range"
	LabelExperience         = "Industry Experience"
	LabelCurrentRole        = "Current Role"
	LabelOtherCurrentRole   = "Other Current Role"
	LabelPastPurchase       = "Previous Business Purchase"
	LabelFamiliarity        = "Business Ownership Familiarity"
	LabelCapital            = "Available Capital"
	LabelPlanningFinance    = "Planning Finance"
	LabelVendorFinance      = "Consider Vendor Finance"
	LabelMotivation         = "Primary Motivation"
	LabelOtherMotivation    = "Other Motivation"
	LabelIdealDay           = "Ideal Day"
	LabelNonNegotiables     = "Non-Negotiables"
	LabelOtherNonNegotiable = "Other Non-Negotiables"
	LabelOffMarket          = "Off-Market Interest"
	LabelNextSteps          = "Next Steps"
	LabelNotes              = "Additional Notes"
)

type exportColumn struct {
	label       string
	field       string
	multiSelect bool
}

var exportColumns = []exportColumn{
	{LabelFullName, model.FieldName, false},
	{LabelEmail, model.FieldEmail, false},
	{LabelPhone, model.FieldMobile, false},
	{LabelBusinessTypes, model.FieldType, true},
	{LabelOtherBusinessType, model.FieldTypeOther, false},
	{LabelPreferredLocations, model.FieldPreferredLocation, true},
	{LabelOtherLocation, model.FieldPreferredLocationOther, false},
	{LabelBudget, model.FieldBudget, false},
	{LabelExperience, model.FieldExperience, false},
	{LabelCurrentRole, model.FieldCurrentJob, false},
	{LabelOtherCurrentRole, model.FieldCurrentJobOther, false},
	{LabelPastPurchase, model.FieldPastPurchase, false},
	{LabelFamiliarity, model.FieldFamiliarity, false},
	{LabelCapital, model.FieldCapital, false},
	{LabelPlanningFinance, model.FieldFinanceReady, false},
	{LabelVendorFinance, model.FieldVendorFinance, false},
	{LabelMotivation, model.FieldMotivation, false},
	{LabelOtherMotivation, model.FieldMotivationOther, false},
	{LabelIdealDay, model.FieldIdealDay, false},
	{LabelNonNegotiables, model.FieldNonNegotiable, false},
	{LabelOtherNonNegotiable, model.FieldNonNegotiableOther, false},
	{LabelOffMarket, model.FieldOffMarketAccess, false},
	{LabelNextSteps, model.FieldNextStep, false},
	{LabelNotes, model.FieldFinalNotes, false},
}

// ExportLabels returns the buyer profile column schema.
func ExportLabels() []string {
	return lo.Map(exportColumns, func(c exportColumn, _ int) string { return c.label })
}

// FormatMultiSelect turns a comma separated selection into one entry per line.
func FormatMultiSelect(value string) string {
	if value == "" {
		return ""
	}
	return strings.ReplaceAll(value, ",", "\n")
}

// Format projects a profile onto the labelled export schema.
func Format(p *model.BuyerProfile) model.ExportRecord {
	return lo.Map(exportColumns, func(c exportColumn, _ int) model.ExportField {
		value, _ := p.Get(c.field)
		if c.multiSelect {
			value = FormatMultiSelect(value)
		}
		return model.ExportField{Label: c.label, Value: value}
	})
}
