// Package roles defines the portal role model: normalization, synonym
// tolerance, and role-based dashboard resolution.
package roles

import "strings"

// Role is a normalized portal role.
type Role string

// Canonical roles. Fixed for the lifetime of a session.
const (
	Admin     Role = "admin"
	Employer  Role = "employer"
	JobSeeker Role = "job_seeker"
)

// Dashboard paths per role.
const (
	AdminDashboard     = "/admin-dashboard.html"
	EmployerDashboard  = "/employer-dashboard.html"
	JobSeekerDashboard = "/jobseeker-dashboard.html"
)

// synonyms maps observed role spellings to canonical roles. Matching is
// case-insensitive; keys are stored lowercased.
var synonyms = map[string]Role{
	"admin":         Admin,
	"administrator": Admin,
	"superuser":     Admin,
	"employer":      Employer,
	"recruiter":     Employer,
	"company":       Employer,
	"hr":            Employer,
	"job_seeker":    JobSeeker,
	"jobseeker":     JobSeeker,
	"job-seeker":    JobSeeker,
	"seeker":        JobSeeker,
	"candidate":     JobSeeker,
	"applicant":     JobSeeker,
}

// Normalize resolves a raw role value to a canonical role. The second return
// value is false when the value is unrecognized.
func Normalize(raw string) (Role, bool) {
	r, ok := synonyms[strings.ToLower(strings.TrimSpace(raw))]
	return r, ok
}

// Matches reports whether a raw role value resolves to want. This is the
// single role-matching policy used for both UI gating and redirects.
func Matches(raw string, want Role) bool {
	r, ok := Normalize(raw)
	return ok && r == want
}

// FromEmail infers a role from substrings of the email address. Used only as
// a fallback when the backend role value is unrecognized.
func FromEmail(email string) (Role, bool) {
	lower := strings.ToLower(email)
	switch {
	case strings.Contains(lower, "admin"):
		return Admin, true
	case strings.Contains(lower, "employer"), strings.Contains(lower, "recruiter"), strings.Contains(lower, "company"):
		return Employer, true
	}
	return "", false
}

// DashboardFor resolves the post-login destination for a raw role value.
// Unrecognized roles fall back to email inference, then to the job seeker
// dashboard.
func DashboardFor(raw, email string) string {
	r, ok := Normalize(raw)
	if !ok {
		r, ok = FromEmail(email)
	}
	if !ok {
		r = JobSeeker
	}

	switch r {
	case Admin:
		return AdminDashboard
	case Employer:
		return EmployerDashboard
	default:
		return JobSeekerDashboard
	}
}

// ForRegistration clamps a requested registration role to the self-service
// set. Anything outside {job_seeker, employer}, including attempts to
// register as admin, is downgraded to job_seeker.
func ForRegistration(raw string) Role {
	r, ok := Normalize(raw)
	if !ok || r == Admin {
		return JobSeeker
	}
	return r
}
