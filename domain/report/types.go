package report

// RawTable is the untyped cell grid read from an uploaded export, exactly as
// it appears in the file: no typed header, merged cells materialized as blanks.
type RawTable [][]string

// Fixed keys for the two identity columns. Every export carries the store
// (entity) in column 0 and the account owner in column 1, whatever the header
// text says.
const (
	ColEntity = "base_entity"
	ColOwner  = "base_owner"
)

// HeaderEntry describes one reconciled column.
type HeaderEntry struct {
	Primary   string // metric group name (row 2, forward-filled)
	Secondary string // sub-label: 指标 / 分子 / 分母 / ...
	Key       string // unique column key derived from the original position
}

// Record is one data row keyed by column key.
type Record map[string]string

// Dataset pairs reconciled records with the headers that describe them.
// Built once per upload and never mutated afterwards, so concurrent report
// generation can share it without locking.
type Dataset struct {
	Headers []HeaderEntry
	Records []Record
}

// Entities returns the distinct entity names in record order, for the
// selection list shown after upload.
func (d *Dataset) Entities() []string {
	seen := make(map[string]bool, len(d.Records))
	var names []string
	for _, rec := range d.Records {
		name := rec[ColEntity]
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

// FilterByEntity returns the records belonging to one entity, in order.
func (d *Dataset) FilterByEntity(entity string) []Record {
	var out []Record
	for _, rec := range d.Records {
		if rec[ColEntity] == entity {
			out = append(out, rec)
		}
	}
	return out
}
