package diagnose

import "github.com/opsbridge/oracle-db-connector/internal/app/domain"

const (
	// StageResolve verifies the hostname resolves from this machine
	StageResolve = "resolve"
	// StageReach verifies a TCP connection to the listener port is accepted
	StageReach = "reach"
	// StageAuthenticate verifies a database session can be established
	StageAuthenticate = "authenticate"
	// StageQuery verifies a trivial query completes a round trip
	StageQuery = "query"
)

// DiagnoseRequest contains the request details for a staged diagnosis. The
// connection is optional; when omitted the values configured through the
// environment are used.
type DiagnoseRequest struct {
	Connection *domain.Connection `json:"connection"`
}

// StageResult represents the outcome of a single diagnosis stage
type StageResult struct {
	// Stage is the name of the checklist stage
	Stage string `json:"stage"`
	// Passed is true when the stage completed without error
	Passed bool `json:"passed"`
	// Skipped is true when an earlier stage failed and this one did not run
	Skipped bool `json:"skipped,omitempty"`
	// DurationMillis is the elapsed time of the stage
	DurationMillis int64 `json:"durationMillis"`
	// Diagnosis classifies the failure when the stage did not pass
	Diagnosis *domain.Diagnosis `json:"diagnosis,omitempty"`
}

// DiagnoseResponse represents the response to a diagnosis request
type DiagnoseResponse struct {
	// RunID identifies this diagnosis run
	RunID string `json:"runId"`
	// Target is the redacted descriptor the diagnosis ran against
	Target string `json:"target"`
	// Healthy is true when every stage passed
	Healthy bool `json:"healthy"`
	// Results holds the per-stage outcomes in checklist order
	Results []*StageResult `json:"results"`
}
