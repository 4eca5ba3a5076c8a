package web

import (
	"fmt"
	"html/template"

	"verification-dashboard/dashboard"
	"verification-dashboard/models"
)

var funcs = template.FuncMap{
	"riskBadge":    models.RiskBadge,
	"statusBadge":  models.StatusBadge,
	"findingBadge": models.FindingBadge,
	"matchBadge":   models.MatchBadge,
	"score":        score,
	"sortLink":     sortLink,
	"sortMark":     sortMark,
	"filterLink":   filterLink,
	"reportLink":   reportPath,
	"backLink":     dashboardPath,
	"viewQuery":    viewQuery,
}

func viewQuery(v dashboard.View) string {
	return v.Query().Encode()
}

func score(s *int) string {
	if s == nil {
		return "-"
	}
	return fmt.Sprintf("%d/100", *s)
}

// sortLink is the href of a column header: the current view with the sort
// toggled on key.
func sortLink(v dashboard.View, key string) string {
	v.Sort = v.Sort.Toggle(dashboard.SortKey(key))
	return "/?" + v.Query().Encode()
}

func sortMark(v dashboard.View, key string) string {
	if v.Sort.Key != dashboard.SortKey(key) {
		return ""
	}
	if v.Sort.Direction == dashboard.Desc {
		return "▼"
	}
	return "▲"
}

// filterLink keeps the sort and the other filter while changing one.
func filterLink(v dashboard.View, name, value string) string {
	switch name {
	case "risk":
		v.Filters.Risk = dashboard.RiskFilter(value)
	case "status":
		v.Filters.Status = dashboard.StatusFilter(value)
	}
	return "/?" + v.Query().Encode()
}
