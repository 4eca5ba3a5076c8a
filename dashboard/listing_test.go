package dashboard

import (
	"fmt"
	"math/rand"
	"net/url"
	"reflect"
	"testing"

	"verification-dashboard/models"
)

func intPtr(v int) *int { return &v }

func randomCompanies(r *rand.Rand, n int) []models.Company {
	levels := []models.RiskLevel{"", models.RiskLow, models.RiskMedium, models.RiskHigh, models.RiskCritical}
	reviews := models.ReviewStatuses
	names := []string{"acme", "Acme", "Globex", "globex", "Initech", "Émile SA", "Zeta", "beta"}
	out := make([]models.Company, n)
	for i := range out {
		c := models.Company{
			ID:           fmt.Sprint(i),
			Name:         names[r.Intn(len(names))],
			Website:      fmt.Sprintf("site%d.com", i),
			Verified:     r.Intn(2) == 0,
			RiskLevel:    levels[r.Intn(len(levels))],
			ReviewStatus: reviews[r.Intn(len(reviews))],
		}
		if r.Intn(4) != 0 {
			c.RiskScore = intPtr(r.Intn(101))
		}
		out[i] = c
	}
	return out
}

func allViews() []View {
	var views []View
	for _, risk := range riskFilters {
		for _, status := range statusFilters {
			for _, key := range sortKeys {
				for _, dir := range []Direction{Asc, Desc} {
					views = append(views, View{Filters: Filters{Risk: risk, Status: status}, Sort: Sort{Key: key, Direction: dir}})
				}
			}
		}
	}
	return views
}

func TestApplyFilterProperties(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for round := 0; round < 20; round++ {
		companies := randomCompanies(r, 40)
		for _, v := range allViews() {
			got := Apply(companies, v)
			if len(got) > len(companies) {
				t.Fatalf("filter grew result: %d > %d", len(got), len(companies))
			}
			for _, c := range got {
				if v.Filters.Risk != RiskAll && string(c.RiskLevel) != string(v.Filters.Risk) {
					t.Fatalf("%+v: company %s has risk %q", v, c.ID, c.RiskLevel)
				}
				if v.Filters.Status == StatusVerified && !c.Verified {
					t.Fatalf("%+v: company %s is not verified", v, c.ID)
				}
				if v.Filters.Status == StatusPending && c.Verified {
					t.Fatalf("%+v: company %s is verified", v, c.ID)
				}
			}
		}
	}
}

func TestApplySortIsOrderedAndStable(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	companies := randomCompanies(r, 60)
	index := make(map[string]int, len(companies))
	for i, c := range companies {
		index[c.ID] = i
	}

	for _, v := range allViews() {
		got := Apply(companies, v)
		cmp := comparator(v.Sort.Key)
		for i := 1; i < len(got); i++ {
			a, b := got[i-1], got[i]
			d := cmp(a, b)
			if v.Sort.Direction == Desc {
				d = -d
			}
			if d > 0 {
				t.Fatalf("%+v: %s before %s breaks order", v.Sort, a.ID, b.ID)
			}
			if d == 0 && index[a.ID] > index[b.ID] {
				t.Fatalf("%+v: equal keys %s and %s swapped", v.Sort, a.ID, b.ID)
			}
		}
	}
}

func TestApplyRiskScoreAscending(t *testing.T) {
	companies := []models.Company{
		{ID: "a", Name: "A", RiskScore: intPtr(70)},
		{ID: "b", Name: "B"},
		{ID: "c", Name: "C", RiskScore: intPtr(10)},
		{ID: "d", Name: "D", RiskScore: intPtr(0)},
	}
	got := Apply(companies, View{Filters: Filters{Risk: RiskAll, Status: StatusAll}, Sort: Sort{Key: SortRiskScore, Direction: Asc}})
	want := []string{"b", "d", "c", "a"}
	for i, c := range got {
		if c.ID != want[i] {
			t.Fatalf("position %d: got %s want %s", i, c.ID, want[i])
		}
	}
}

func TestApplyRiskLevelAndStatusRanks(t *testing.T) {
	companies := []models.Company{
		{ID: "crit", RiskLevel: models.RiskCritical, ReviewStatus: models.ReviewPending},
		{ID: "none", ReviewStatus: models.ReviewPending},
		{ID: "low", RiskLevel: models.RiskLow, ReviewStatus: models.ReviewRejected},
		{ID: "high", RiskLevel: models.RiskHigh, Verified: true, ReviewStatus: models.ReviewPending},
		{ID: "med", RiskLevel: models.RiskMedium, ReviewStatus: models.ReviewApproved},
	}
	base := Filters{Risk: RiskAll, Status: StatusAll}

	got := ids(Apply(companies, View{Filters: base, Sort: Sort{Key: SortRiskLevel, Direction: Asc}}))
	if want := []string{"none", "low", "med", "high", "crit"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("risk_level asc: got %v want %v", got, want)
	}

	got = ids(Apply(companies, View{Filters: base, Sort: Sort{Key: SortStatus, Direction: Asc}}))
	if want := []string{"med", "low", "high", "crit", "none"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("status asc: got %v want %v", got, want)
	}

	got = ids(Apply(companies, View{Filters: base, Sort: Sort{Key: SortStatus, Direction: Desc}}))
	if want := []string{"crit", "none", "high", "low", "med"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("status desc: got %v want %v", got, want)
	}
}

func TestApplyNameIsLocaleAware(t *testing.T) {
	companies := []models.Company{
		{ID: "1", Name: "zeta"},
		{ID: "2", Name: "Émile"},
		{ID: "3", Name: "apple"},
		{ID: "4", Name: "Banana"},
	}
	got := ids(Apply(companies, DefaultView()))
	if want := []string{"3", "4", "2", "1"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("name asc: got %v want %v", got, want)
	}
}

func TestApplyDoesNotModifyInput(t *testing.T) {
	companies := []models.Company{{ID: "b", Name: "b"}, {ID: "a", Name: "a"}}
	_ = Apply(companies, DefaultView())
	if companies[0].ID != "b" {
		t.Fatalf("input reordered")
	}
}

func TestToggle(t *testing.T) {
	s := DefaultView().Sort
	s = s.Toggle(SortName)
	if s != (Sort{Key: SortName, Direction: Desc}) {
		t.Fatalf("same key should flip to desc, got %+v", s)
	}
	s = s.Toggle(SortName)
	if s != (Sort{Key: SortName, Direction: Asc}) {
		t.Fatalf("second toggle should return to asc, got %+v", s)
	}
	s = s.Toggle(SortRiskScore)
	if s != (Sort{Key: SortRiskScore, Direction: Asc}) {
		t.Fatalf("new key should start asc, got %+v", s)
	}
	s = Sort{Key: SortStatus, Direction: Desc}.Toggle(SortName)
	if s != (Sort{Key: SortName, Direction: Asc}) {
		t.Fatalf("switching from desc column should start asc, got %+v", s)
	}
}

func TestToggleTwiceRestoresAscendingResult(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	companies := randomCompanies(r, 30)
	for _, key := range sortKeys {
		v := View{Filters: Filters{Risk: RiskAll, Status: StatusAll}, Sort: Sort{Key: key, Direction: Asc}}
		asc := Apply(companies, v)
		v.Sort = v.Sort.Toggle(key).Toggle(key)
		if again := Apply(companies, v); !reflect.DeepEqual(ids(asc), ids(again)) {
			t.Fatalf("%s: double toggle changed order", key)
		}
	}
}

func TestParseViewAndQuery(t *testing.T) {
	v := ParseView(url.Values{"risk": {"high"}, "status": {"verified"}, "sort": {"risk_score"}, "dir": {"desc"}})
	want := View{Filters: Filters{Risk: RiskHigh, Status: StatusVerified}, Sort: Sort{Key: SortRiskScore, Direction: Desc}}
	if v != want {
		t.Fatalf("got %+v want %+v", v, want)
	}
	if back := ParseView(v.Query()); back != v {
		t.Fatalf("query did not round trip: %+v", back)
	}

	bad := ParseView(url.Values{"risk": {"extreme"}, "status": {"maybe"}, "sort": {"id"}, "dir": {"sideways"}})
	if bad != DefaultView() {
		t.Fatalf("unknown values should fall back to defaults, got %+v", bad)
	}
}

func TestSummarize(t *testing.T) {
	companies := []models.Company{
		{RiskLevel: models.RiskLow, ReviewStatus: models.ReviewApproved},
		{RiskLevel: models.RiskHigh, ReviewStatus: models.ReviewPending},
		{RiskLevel: models.RiskCritical, ReviewStatus: models.ReviewPending},
		{ReviewStatus: models.ReviewPending},
	}
	got := Summarize(companies)
	want := Stats{Total: 4, LowRisk: 1, HighRisk: 1, CriticalRisk: 1, Unscored: 1, AwaitingReview: 3}
	if got != want {
		t.Fatalf("got %+v want %+v", got, want)
	}
}

func ids(companies []models.Company) []string {
	out := make([]string, len(companies))
	for i, c := range companies {
		out[i] = c.ID
	}
	return out
}
