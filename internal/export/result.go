package export

// Result maps sheet names to CSV text.
//
// Names are unique. Setting an existing name replaces its text but keeps the
// position the name was first inserted at, so iteration order is stable.
type Result struct {
	order []string
	csv   map[string]string
	stats Stats
}

// Stats counts what a collection visited.
type Stats struct {
	Spreadsheets int `json:"spreadsheets"`
	Folders      int `json:"folders"`
	Sheets       int `json:"sheets"`
	HiddenSheets int `json:"hidden_sheets"`
	Overwrites   int `json:"overwrites"`
}

// NewResult creates an empty Result.
func NewResult() *Result {
	return &Result{
		csv: make(map[string]string),
	}
}

// Set stores csv under name and reports whether an earlier entry was replaced.
func (r *Result) Set(name, csv string) (replaced bool) {
	if _, ok := r.csv[name]; ok {
		replaced = true
	} else {
		r.order = append(r.order, name)
	}
	r.csv[name] = csv
	return replaced
}

// Get returns the CSV text stored under name.
func (r *Result) Get(name string) (string, bool) {
	csv, ok := r.csv[name]
	return csv, ok
}

// Names returns the sheet names in insertion order.
func (r *Result) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Len returns the number of entries.
func (r *Result) Len() int {
	return len(r.order)
}

// Map returns a copy of the entries as a plain map.
func (r *Result) Map() map[string]string {
	m := make(map[string]string, len(r.csv))
	for k, v := range r.csv {
		m[k] = v
	}
	return m
}

// Stats returns the traversal counters recorded while collecting.
func (r *Result) Stats() Stats {
	return r.stats
}
