package wizard

import "github.com/crosti/buyerform/model"

// Control is how a question is answered.
type Control int

const (
	// ControlText is a single free-text line.
	ControlText Control = iota
	// ControlSelect picks exactly one option.
	ControlSelect
	// ControlMulti toggles any number of options.
	ControlMulti
	// ControlNotes is free text that may span lines.
	ControlNotes
)

// Question is one field as presented on a step.
type Question struct {
	Field   string
	Prompt  string
	Control Control
	Options []string
}

var (
	budgetOptions = []string{"Under $100k", "$100k–$300k", "$300k–$700k", "$700k+"}
	yesNo         = []string{"Yes", "No"}
)

// Overflow text limits. Multi-select elaborations are capped in characters;
// single-select ones in characters with an advisory word count.
const (
	multiOverflowMaxChars  = 200
	singleOverflowMaxChars = 1000
	OverflowWordLimit      = 200
)

var stepTitles = map[Step]string{
	StepWelcome:      "Let's find your perfect business.",
	StepAboutYou:     "About You",
	StepBusinessType: "What Are You Looking For?",
	StepLocation:     "Where Would You Like It?",
	StepBudget:       "What's Your Budget?",
	StepExperience:   "Experience & Background",
	StepFinances:     "Financial Snapshot",
	StepFit:          "Fit & Personality",
	StepConnect:      "Let's Stay Connected",
	StepDone:         "Thank you!",
	StepDetails:      "Get in touch",
}

var stepQuestions = map[Step][]Question{
	StepAboutYou: {
		{Field: model.FieldName, Prompt: "Full Name", Control: ControlText},
		{Field: model.FieldEmail, Prompt: "Email Address", Control: ControlText},
		{Field: model.FieldMobile, Prompt: "Phone Number", Control: ControlText},
	},
	StepBusinessType: {
		{Field: model.FieldType, Prompt: "What type of business are you looking for?", Control: ControlMulti,
			Options: []string{"Cafe", "Restaurant", "Bar", "Pizza Shop", "Takeaway", model.OtherOption}},
		{Field: model.FieldTypeOther, Prompt: "Describe the type of business (max 200 characters)", Control: ControlNotes},
	},
	StepLocation: {
		{Field: model.FieldPreferredLocation, Prompt: "Preferred Location(s)", Control: ControlMulti,
			Options: []string{"Anywhere in Auckland", "Central Auckland", "East Auckland", "West Auckland", "South Auckland", model.OtherOption}},
		{Field: model.FieldPreferredLocationOther, Prompt: "Describe your preferred location (max 200 characters)", Control: ControlNotes},
	},
	StepBudget: {
		{Field: model.FieldBudget, Prompt: "What's your budget range?", Control: ControlSelect, Options: budgetOptions},
	},
	StepExperience: {
		{Field: model.FieldExperience, Prompt: "Any experience in this industry?", Control: ControlSelect, Options: yesNo},
		{Field: model.FieldCurrentJob, Prompt: "What's your current role?", Control: ControlSelect,
			Options: []string{"Business Owner", "Manager", "Employee", "Student", model.OtherOption}},
		{Field: model.FieldCurrentJobOther, Prompt: "Please specify (max 200 words)", Control: ControlNotes},
		{Field: model.FieldPastPurchase, Prompt: "Have you purchased a business before?", Control: ControlSelect, Options: yesNo},
		{Field: model.FieldFamiliarity, Prompt: "How familiar are you with ownership", Control: ControlSelect,
			Options: []string{"Very", "Somewhat", "Not at all"}},
	},
	StepFinances: {
		{Field: model.FieldCapital, Prompt: "What funds do you have ready?", Control: ControlSelect, Options: budgetOptions},
		{Field: model.FieldFinanceReady, Prompt: "Planning to apply for a loan?", Control: ControlSelect, Options: yesNo},
		{Field: model.FieldVendorFinance, Prompt: "Would you consider vendor finance?", Control: ControlSelect,
			Options: []string{"Yes", "No", "Open to it"}},
	},
	StepFit: {
		{Field: model.FieldMotivation, Prompt: "Reason behind buying a business?", Control: ControlSelect,
			Options: []string{"Financial Independence", "Lifestyle Change", "Career Change", "Investment", model.OtherOption}},
		{Field: model.FieldMotivationOther, Prompt: "Please specify (max 200 words)", Control: ControlNotes},
		{Field: model.FieldIdealDay, Prompt: "What would your ideal day look like?", Control: ControlSelect,
			Options: []string{"Hands-on Management", "Strategic Planning", "Part-time Involvement", "Remote Management"}},
		{Field: model.FieldNonNegotiable, Prompt: "What's non-negotiable for you?", Control: ControlSelect,
			Options: []string{"Location", "Price", "Industry", "Work Hours", model.OtherOption}},
		{Field: model.FieldNonNegotiableOther, Prompt: "Please specify (max 200 words)", Control: ControlNotes},
		{Field: model.FieldOffMarketAccess, Prompt: "Interested in off-market business deals?", Control: ControlSelect, Options: yesNo},
	},
	StepConnect: {
		{Field: model.FieldNextStep, Prompt: "What would you like to do next?", Control: ControlSelect,
			Options: []string{"Send me matching listings", "Help me shortlist", "I'd like to speak to Jack Crosti"}},
		{Field: model.FieldFinalNotes, Prompt: "Any final notes or questions?", Control: ControlNotes},
	},
}

// Questions lists the fields shown on a step, in display order. Overflow
// questions are included; use ShowOverflow to decide whether to render them.
func Questions(s Step) []Question {
	return stepQuestions[s]
}

// IsMultiSelect reports whether field stores comma separated selections.
func IsMultiSelect(field string) bool {
	return field == model.FieldType || field == model.FieldPreferredLocation
}

// overflowSelector returns the selector an overflow field belongs to.
func overflowSelector(field string) (string, bool) {
	for selector, overflow := range model.OverflowFields {
		if overflow == field {
			return selector, true
		}
	}
	return "", false
}

// maxChars caps free-text fields the way the form inputs do. Zero means no cap.
func maxChars(field string) int {
	selector, ok := overflowSelector(field)
	if !ok {
		return 0
	}
	if IsMultiSelect(selector) {
		return multiOverflowMaxChars
	}
	return singleOverflowMaxChars
}
