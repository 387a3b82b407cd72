package lines

import "github.com/greerreNFL/nfelomarket-data/internal/model"

// CohortKind tags a cohort as open or last.
type CohortKind uint8

const (
	Open CohortKind = iota
	Last
)

func (k CohortKind) String() string {
	if k == Open {
		return "open"
	}
	return "last"
}

// OrderKey ranks cohort members during resolution.
//
// Rank is the source priority from the quote store. Recency is hours since
// local midnight for open-cohort members and zero for last-cohort members.
// The two are compared as their sum: among quotes from one source the
// earliest in the open window wins, but a better source observed later in the
// window can still beat a worse source observed earlier.
type OrderKey struct {
	Rank    int
	Recency float64
}

// Effective returns the combined ordering value. Lower wins.
func (k OrderKey) Effective() float64 {
	return float64(k.Rank) + k.Recency
}

// Less reports whether k outranks o.
func (k OrderKey) Less(o OrderKey) bool {
	return k.Effective() < o.Effective()
}

// Member is a quote selected into a cohort with its ordering key.
type Member struct {
	Quote model.Quote
	Key   OrderKey
}

// Cohort is an ordered set of members with a per-game index.
type Cohort struct {
	Kind    CohortKind
	Members []Member
	byEvent map[string][]int
}

// NewCohort returns an empty cohort.
func NewCohort(kind CohortKind, members ...Member) Cohort {
	c := Cohort{Kind: kind, byEvent: make(map[string][]int)}
	for _, m := range members {
		c.Add(m)
	}
	return c
}

// Add appends a member, preserving insertion order.
func (c *Cohort) Add(m Member) {
	if c.byEvent == nil {
		c.byEvent = make(map[string][]int)
	}
	c.byEvent[m.Quote.EventID] = append(c.byEvent[m.Quote.EventID], len(c.Members))
	c.Members = append(c.Members, m)
}

// Event returns the members for one game in insertion order.
func (c Cohort) Event(id string) []Member {
	idx := c.byEvent[id]
	out := make([]Member, len(idx))
	for i, j := range idx {
		out[i] = c.Members[j]
	}
	return out
}

// Len returns the number of members.
func (c Cohort) Len() int {
	return len(c.Members)
}

// Cohorts holds the two cohorts produced by one classification pass.
type Cohorts struct {
	Open Cohort
	Last Cohort
}

// For returns the cohort of the given kind.
func (c Cohorts) For(kind CohortKind) Cohort {
	if kind == Open {
		return c.Open
	}
	return c.Last
}
