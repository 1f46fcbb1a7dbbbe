package model

import "slices"

// ExportField is one labelled cell of an export.
type ExportField struct {
	Label string
	Value string
}

// ExportRecord is the human-labelled, order-fixed view of a BuyerProfile.
type ExportRecord []ExportField

// Labels returns the column headers in order.
func (r ExportRecord) Labels() []string {
	labels := make([]string, len(r))
	for i, f := range r {
		labels[i] = f.Label
	}
	return labels
}

// Values returns the cell values in column order.
func (r ExportRecord) Values() []string {
	values := make([]string, len(r))
	for i, f := range r {
		values[i] = f.Value
	}
	return values
}

// Get looks up a value by label.
func (r ExportRecord) Get(label string) (string, bool) {
	i := slices.IndexFunc(r, func(f ExportField) bool { return f.Label == label })
	if i < 0 {
		return "", false
	}
	return r[i].Value, true
}

// Enrichment columns appended to every ingested row. They are filled in later
// by hand and are always empty here.
const (
	ColumnDirector     = "director"
	ColumnShareholder  = "shareholder"
	ColumnPhoneNumbers = "phone_numbers"
	ColumnEmails       = "emails"
)

// EnrichmentColumns lists the placeholder columns in output order.
var EnrichmentColumns = []string{ColumnDirector, ColumnShareholder, ColumnPhoneNumbers, ColumnEmails}

// IngestedRow maps column name to cell value.
type IngestedRow map[string]string

// IngestedTable is a parsed upload. Columns keeps first-seen header order.
type IngestedTable struct {
	Columns []string
	Rows    []IngestedRow
}

// AddColumn appends name to the header unless already present.
func (t *IngestedTable) AddColumn(name string) {
	if !slices.Contains(t.Columns, name) {
		t.Columns = append(t.Columns, name)
	}
}
