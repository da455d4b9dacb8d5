// Package chef holds the applicant's session and the workflow orchestrators
// built on top of the generation backend: resume ingestion, job-posting
// extraction, match analysis with conditional company research, cover-letter
// generation and text refinement.
package chef

// UnknownCompany is the sentinel the match-analysis workflow uses when the
// job posting does not clearly name a hiring company. No company research is
// triggered for it.
const UnknownCompany = "Unknown Company"

// MatchAnalysis is the result of comparing the ingredient set against a job
// posting. Score is always present; absent list fields decode to empty lists.
type MatchAnalysis struct {
	Score               float64  `json:"matchScore" mapstructure:"matchScore"`
	MissingRequirements []string `json:"missingRequirements" mapstructure:"missingRequirements"`
	FitSummary          string   `json:"fitSummary" mapstructure:"fitSummary"`
	ImprovementTips     []string `json:"improvementTips" mapstructure:"improvementTips"`
	CompanyName         string   `json:"companyName" mapstructure:"companyName"`
}

// HasCompany reports whether the analysis extracted a real company name.
func (m *MatchAnalysis) HasCompany() bool {
	return m.CompanyName != "" && m.CompanyName != UnknownCompany
}

// Source is one citation backing a company-research brief.
type Source struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// CompanyResearch is a free-text markdown brief about a named employer.
// Sources is forward-compatible: the current backend configuration has
// search disabled, so it is always empty.
type CompanyResearch struct {
	CompanyName string   `json:"companyName"`
	Summary     string   `json:"summary"`
	Sources     []Source `json:"sources"`
}

// MatchReport combines a match analysis with the best-effort company
// research chained after it. The two are independent failure domains: a
// populated ResearchErr never invalidates the analysis.
type MatchReport struct {
	Analysis    *MatchAnalysis
	Research    *CompanyResearch
	ResearchErr error
}
