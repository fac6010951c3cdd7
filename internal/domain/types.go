package domain

import "time"

// JobStatus tracks each pipeline stage for a single generation job.
type JobStatus string

const (
	JobStatusSubmitted    JobStatus = "submitted"
	JobStatusTranscribing JobStatus = "transcribing"
	JobStatusGenerating   JobStatus = "generating"
	JobStatusReady        JobStatus = "ready"
	JobStatusError        JobStatus = "error"
)

// Terminal reports whether no further transitions are allowed.
func (s JobStatus) Terminal() bool {
	return s == JobStatusReady || s == JobStatusError
}

// Slide is one generated slide. Position in the enclosing list is its identity.
type Slide struct {
	Title   string   `json:"title"`
	Bullets []string `json:"bullets"`
	Notes   string   `json:"notes"`
	Layout  string   `json:"layout,omitempty"`
}

// Presentation is the ordered slide collection returned by the slides strategy.
type Presentation struct {
	Slides []Slide `json:"slides"`
}

// Artifact references a job's output. Exactly one of Object or Presentation is set.
type Artifact struct {
	// Object is the artifact store name of a binary presentation file.
	Object       string        `json:"object,omitempty"`
	ContentType  string        `json:"contentType,omitempty"`
	Filename     string        `json:"filename,omitempty"`
	Presentation *Presentation `json:"presentation,omitempty"`
	// Handout is an optional companion .docx object for slide collections.
	Handout string `json:"handout,omitempty"`
}

// Job is the in-memory record for one join code.
type Job struct {
	Code       string    `json:"code"`
	Status     JobStatus `json:"status"`
	Percent    int       `json:"percent"`
	Notes      string    `json:"notes,omitempty"`
	Transcript string    `json:"transcript,omitempty"`
	Artifact   *Artifact `json:"artifact,omitempty"`
	Error      string    `json:"error,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Ready reports whether the job has a committed artifact.
func (j Job) Ready() bool {
	return j.Status == JobStatusReady && j.Artifact != nil
}
