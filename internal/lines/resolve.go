package lines

import "github.com/greerreNFL/nfelomarket-data/internal/model"

// Resolve picks the best fully populated quote for one game from a cohort and
// renames its fields into the group's columns.
//
// Members missing a priority or any source field of the group are skipped.
// The winner is the lowest OrderKey; ties go to the member that appears first
// in the cohort, i.e. upstream stream order (newest first). With no eligible
// member every column is Null.
func Resolve(eventID string, cohort Cohort, group FieldGroup) map[string]model.Value {
	out := make(map[string]model.Value, len(group.Fields))

	var (
		best  Member
		found bool
	)
	for _, m := range cohort.Event(eventID) {
		if !eligible(m.Quote, group) {
			continue
		}
		// Strict comparison keeps the earliest member on ties.
		if !found || m.Key.Less(best.Key) {
			best = m
			found = true
		}
	}

	for _, f := range group.Fields {
		if !found {
			out[f.Column] = model.Null()
			continue
		}
		out[f.Column] = f.Source.Extract(best.Quote)
	}

	return out
}

func eligible(q model.Quote, group FieldGroup) bool {
	if q.Priority == nil {
		return false
	}
	for _, f := range group.Fields {
		if f.Source.Extract(q).IsNull() {
			return false
		}
	}
	return true
}
