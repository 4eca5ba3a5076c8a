package dashboard

import (
	"net/url"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"verification-dashboard/models"
)

type RiskFilter string

const (
	RiskAll      RiskFilter = "all"
	RiskLow      RiskFilter = RiskFilter(models.RiskLow)
	RiskMedium   RiskFilter = RiskFilter(models.RiskMedium)
	RiskHigh     RiskFilter = RiskFilter(models.RiskHigh)
	RiskCritical RiskFilter = RiskFilter(models.RiskCritical)
)

type StatusFilter string

const (
	StatusAll      StatusFilter = "all"
	StatusVerified StatusFilter = "verified"
	StatusPending  StatusFilter = "pending"
)

type SortKey string

const (
	SortName      SortKey = "name"
	SortRiskLevel SortKey = "risk_level"
	SortRiskScore SortKey = "risk_score"
	SortStatus    SortKey = "status"
)

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

var (
	riskFilters   = []RiskFilter{RiskAll, RiskLow, RiskMedium, RiskHigh, RiskCritical}
	statusFilters = []StatusFilter{StatusAll, StatusVerified, StatusPending}
	sortKeys      = []SortKey{SortName, SortRiskLevel, SortRiskScore, SortStatus}
)

type Filters struct {
	Risk   RiskFilter
	Status StatusFilter
}

type Sort struct {
	Key       SortKey
	Direction Direction
}

// View is the filter and sort state behind one rendering of the table.
type View struct {
	Filters Filters
	Sort    Sort
}

func DefaultView() View {
	return View{
		Filters: Filters{Risk: RiskAll, Status: StatusAll},
		Sort:    Sort{Key: SortName, Direction: Asc},
	}
}

// ParseView reads risk, status, sort and dir query parameters. Unknown
// values fall back to the defaults.
func ParseView(q url.Values) View {
	v := DefaultView()
	if r := RiskFilter(q.Get("risk")); slices.Contains(riskFilters, r) {
		v.Filters.Risk = r
	}
	if s := StatusFilter(q.Get("status")); slices.Contains(statusFilters, s) {
		v.Filters.Status = s
	}
	if k := SortKey(q.Get("sort")); slices.Contains(sortKeys, k) {
		v.Sort.Key = k
	}
	if Direction(q.Get("dir")) == Desc {
		v.Sort.Direction = Desc
	}
	return v
}

// Query encodes the view back into query parameters.
func (v View) Query() url.Values {
	q := url.Values{}
	q.Set("risk", string(v.Filters.Risk))
	q.Set("status", string(v.Filters.Status))
	q.Set("sort", string(v.Sort.Key))
	q.Set("dir", string(v.Sort.Direction))
	return q
}

// Toggle is a click on a column header: the active column flips from
// ascending to descending, anything else selects key ascending.
func (s Sort) Toggle(key SortKey) Sort {
	if s.Key == key && s.Direction == Asc {
		return Sort{Key: key, Direction: Desc}
	}
	return Sort{Key: key, Direction: Asc}
}

// Match reports whether a company passes both filters.
func (f Filters) Match(c models.Company) bool {
	matchesRisk := f.Risk == RiskAll || string(c.RiskLevel) == string(f.Risk)
	matchesStatus := f.Status == StatusAll ||
		(f.Status == StatusVerified && c.Verified) ||
		(f.Status == StatusPending && !c.Verified)
	return matchesRisk && matchesStatus
}

var riskRank = map[models.RiskLevel]int{
	models.RiskLow:      1,
	models.RiskMedium:   2,
	models.RiskHigh:     3,
	models.RiskCritical: 4,
}

func statusRank(c models.Company) int {
	switch {
	case c.ReviewStatus == models.ReviewApproved:
		return 1
	case c.ReviewStatus == models.ReviewRejected:
		return 2
	case c.Verified:
		return 3
	default:
		return 4
	}
}

// Apply filters companies and then sorts them stably. The input slice is not
// modified.
func Apply(companies []models.Company, v View) []models.Company {
	out := make([]models.Company, 0, len(companies))
	for _, c := range companies {
		if v.Filters.Match(c) {
			out = append(out, c)
		}
	}

	cmp := comparator(v.Sort.Key)
	if v.Sort.Direction == Desc {
		asc := cmp
		cmp = func(a, b models.Company) int { return asc(b, a) }
	}
	slices.SortStableFunc(out, cmp)
	return out
}

func comparator(key SortKey) func(a, b models.Company) int {
	switch key {
	case SortRiskLevel:
		return func(a, b models.Company) int { return riskRank[a.RiskLevel] - riskRank[b.RiskLevel] }
	case SortRiskScore:
		return func(a, b models.Company) int { return a.Score() - b.Score() }
	case SortStatus:
		return func(a, b models.Company) int { return statusRank(a) - statusRank(b) }
	default:
		// Collators keep scratch buffers, so each sort gets its own.
		col := collate.New(language.English)
		return func(a, b models.Company) int { return col.CompareString(a.Name, b.Name) }
	}
}
