package models

type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// RiskLevels lists every level in ascending severity.
var RiskLevels = []RiskLevel{RiskLow, RiskMedium, RiskHigh, RiskCritical}

type ReviewStatus string

const (
	ReviewPending  ReviewStatus = "pending"
	ReviewApproved ReviewStatus = "approved"
	ReviewRejected ReviewStatus = "rejected"
)

var ReviewStatuses = []ReviewStatus{ReviewPending, ReviewApproved, ReviewRejected}

type FindingStatus string

const (
	FindingPass    FindingStatus = "Pass"
	FindingWarning FindingStatus = "Warning"
	FindingFail    FindingStatus = "Fail"
)

var FindingStatuses = []FindingStatus{FindingPass, FindingWarning, FindingFail}

// Company is one verification record as returned by the verification API.
// RiskLevel is empty and RiskScore nil until the record has been scored.
type Company struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Website      string       `json:"website"`
	Verified     bool         `json:"verified"`
	RiskScore    *int         `json:"risk_score,omitempty"`
	RiskLevel    RiskLevel    `json:"risk_level,omitempty"`
	ReportData   *Report      `json:"report_data,omitempty"`
	ReviewStatus ReviewStatus `json:"review_status"`
	ReviewedAt   *Timestamp   `json:"reviewed_at,omitempty"`
	CreatedAt    *Timestamp   `json:"created_at,omitempty"`
}

type Report struct {
	Summary      string       `json:"summary"`
	Sources      []string     `json:"sources,omitempty"`
	Findings     []Finding    `json:"findings"`
	MatchDetails MatchDetails `json:"match_details"`
	GeneratedAt  string       `json:"generated_at,omitempty"`
}

type Finding struct {
	Source  string        `json:"source"`
	Status  FindingStatus `json:"status"`
	Details string        `json:"details"`
}

type MatchDetails struct {
	NameMatch     bool `json:"name_match"`
	WebsiteMatch  bool `json:"website_match"`
	EmailVerified bool `json:"email_verified"`
	PhoneVerified bool `json:"phone_verified"`
}

// CompanyUpdate carries the editable fields; nil fields are left untouched.
type CompanyUpdate struct {
	Name    *string `json:"name,omitempty"`
	Website *string `json:"website,omitempty"`
}

// Score returns the risk score, treating an unscored company as 0.
func (c Company) Score() int {
	if c.RiskScore == nil {
		return 0
	}
	return *c.RiskScore
}

// Reviewable reports whether approve/reject should be offered.
func (c Company) Reviewable() bool {
	return c.ReviewStatus == ReviewPending
}
