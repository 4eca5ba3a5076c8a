package models

// Badge is the label and style class a template renders for an enum value.
type Badge struct {
	Label string
	Class string
}

var riskBadges = map[RiskLevel]Badge{
	RiskLow:      {Label: "Low Risk", Class: "badge-green"},
	RiskMedium:   {Label: "Medium Risk", Class: "badge-yellow"},
	RiskHigh:     {Label: "High Risk", Class: "badge-orange"},
	RiskCritical: {Label: "Critical", Class: "badge-red"},
}

var unscoredBadge = Badge{Label: "Pending", Class: "badge-gray"}

var reviewBadges = map[ReviewStatus]Badge{
	ReviewPending:  {Label: "Pending", Class: "badge-yellow"},
	ReviewApproved: {Label: "Approved", Class: "badge-green"},
	ReviewRejected: {Label: "Rejected", Class: "badge-red"},
}

var verifiedBadge = Badge{Label: "Verified", Class: "badge-green"}

var findingBadges = map[FindingStatus]Badge{
	FindingPass:    {Label: "Pass", Class: "badge-green"},
	FindingWarning: {Label: "Warning", Class: "badge-yellow"},
	FindingFail:    {Label: "Fail", Class: "badge-red"},
}

// RiskBadge maps a risk level to its badge. Unknown and absent levels render
// as pending.
func RiskBadge(level RiskLevel) Badge {
	if b, ok := riskBadges[level]; ok {
		return b
	}
	return unscoredBadge
}

// StatusBadge is the table's status column: a review decision wins, then the
// verification flag.
func StatusBadge(c Company) Badge {
	switch c.ReviewStatus {
	case ReviewApproved, ReviewRejected:
		return reviewBadges[c.ReviewStatus]
	}
	if c.Verified {
		return verifiedBadge
	}
	return reviewBadges[ReviewPending]
}

// FindingBadge falls back to Fail for statuses the API adds later.
func FindingBadge(status FindingStatus) Badge {
	if b, ok := findingBadges[status]; ok {
		return b
	}
	return findingBadges[FindingFail]
}

// MatchBadge renders an email/phone match flag.
func MatchBadge(ok bool) Badge {
	if ok {
		return Badge{Label: "Verified", Class: "badge-green"}
	}
	return Badge{Label: "Not Found", Class: "badge-red"}
}
