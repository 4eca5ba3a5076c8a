package dashboard

import "verification-dashboard/models"

// Stats holds the counters shown above the table.
type Stats struct {
	Total          int
	LowRisk        int
	MediumRisk     int
	HighRisk       int
	CriticalRisk   int
	Unscored       int
	AwaitingReview int
}

func Summarize(companies []models.Company) Stats {
	stats := Stats{Total: len(companies)}
	for _, c := range companies {
		switch c.RiskLevel {
		case models.RiskLow:
			stats.LowRisk++
		case models.RiskMedium:
			stats.MediumRisk++
		case models.RiskHigh:
			stats.HighRisk++
		case models.RiskCritical:
			stats.CriticalRisk++
		default:
			stats.Unscored++
		}
		if c.ReviewStatus == models.ReviewPending {
			stats.AwaitingReview++
		}
	}
	return stats
}
