// Package models defines the entities the job execution engine reads and
// writes. Every entity ID is a distinct named type wrapping uuid.UUID so
// ids of different entities cannot be mixed up at a call site.
package models

import "github.com/google/uuid"

// OrgID identifies an Organization.
type OrgID struct{ uuid.UUID }

// NewOrgID generates a random OrgID.
func NewOrgID() OrgID { return OrgID{uuid.New()} }

// ParseOrgID parses a string form of an OrgID.
func ParseOrgID(s string) (OrgID, error) {
	u, err := uuid.Parse(s)
	return OrgID{u}, err
}

// DocumentID identifies a Document.
type DocumentID struct{ uuid.UUID }

func NewDocumentID() DocumentID { return DocumentID{uuid.New()} }

func ParseDocumentID(s string) (DocumentID, error) {
	u, err := uuid.Parse(s)
	return DocumentID{u}, err
}

// PipelineID identifies a Pipeline.
type PipelineID struct{ uuid.UUID }

func NewPipelineID() PipelineID { return PipelineID{uuid.New()} }

func ParsePipelineID(s string) (PipelineID, error) {
	u, err := uuid.Parse(s)
	return PipelineID{u}, err
}

// JobID identifies an AnalysisJob.
type JobID struct{ uuid.UUID }

func NewJobID() JobID { return JobID{uuid.New()} }

func ParseJobID(s string) (JobID, error) {
	u, err := uuid.Parse(s)
	return JobID{u}, err
}

// StageOutputID identifies a JobStageOutput.
type StageOutputID struct{ uuid.UUID }

func NewStageOutputID() StageOutputID { return StageOutputID{uuid.New()} }
