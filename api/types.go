package api

// AccountKind is the server-reported account type. The zero value means the
// type has not been resolved yet.
type AccountKind string

const (
	AccountUnknown        AccountKind = ""
	AccountCompany        AccountKind = "company"
	AccountRepresentative AccountKind = "rep"
)

// Registration is the decoded success payload of /auth/register.
type Registration struct {
	SubjectID string
	Code      string
}

// Login is the decoded success payload of /auth/login. Code is the one-time
// code the client is expected to dispatch over email.
type Login struct {
	SubjectID string
	Phone     string
	Code      string
}

// Verification is the decoded success payload of the code-verification
// endpoints. Token authorizes the session that follows.
type Verification struct {
	Token string
}

// Activation is the decoded payload of /auth/verify-account.
type Activation struct {
	Success bool
	Message string
}

// PhaseEntry is one entry of a company's onboarding phase list.
type PhaseEntry struct {
	ID        int  `json:"id"`
	Completed bool `json:"completed"`
}

// OnboardingProgress is a company's onboarding progress record.
type OnboardingProgress struct {
	CurrentPhase int          `json:"currentPhase"`
	Phases       []PhaseEntry `json:"phases"`
}

// PhaseCompleted reports whether the phase with the given id is marked done.
func (p OnboardingProgress) PhaseCompleted(id int) bool {
	for _, phase := range p.Phases {
		if phase.ID == id {
			return phase.Completed
		}
	}
	return false
}

// PhaseStatus is a representative onboarding phase.
type PhaseStatus struct {
	Status string `json:"status"`
}

// RepPhases holds the four representative onboarding phases.
type RepPhases struct {
	Phase1 PhaseStatus `json:"phase1"`
	Phase2 PhaseStatus `json:"phase2"`
	Phase3 PhaseStatus `json:"phase3"`
	Phase4 PhaseStatus `json:"phase4"`
}

// RepProfile is a representative's profile as served by the rep API.
type RepProfile struct {
	ID                      string `json:"_id"`
	IsBasicProfileCompleted bool   `json:"isBasicProfileCompleted"`
	OnboardingProgress      struct {
		Phases RepPhases `json:"phases"`
	} `json:"onboardingProgress"`
}

// OnboardingComplete reports whether all four phases are completed.
func (p RepProfile) OnboardingComplete() bool {
	phases := p.OnboardingProgress.Phases
	return phases.Phase1.Status == "completed" &&
		phases.Phase2.Status == "completed" &&
		phases.Phase3.Status == "completed" &&
		phases.Phase4.Status == "completed"
}
