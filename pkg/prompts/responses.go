package prompts

import (
	"sync"

	"github.com/EternisAI/persona/pkg/helpers"
)

// SeedInterestsResponse is the object the seed interests prompt asks for.
type SeedInterestsResponse struct {
	SeedInterests []string `json:"seedInterests" jsonschema_description:"Short human-friendly interest labels"`
}

type EvidenceResponse struct {
	ID         string `json:"id"`
	SourceType string `json:"sourceType"`
	Excerpt    string `json:"excerpt" jsonschema_description:"At most 200 characters"`
	URL        string `json:"url"`
}

type ProvenanceResponse struct {
	Count int `json:"count"`
}

// FinalSynthesisResponse is the object the final synthesis prompt asks for.
type FinalSynthesisResponse struct {
	PersonalSummary   string             `json:"personalSummary" jsonschema_description:"One or two short sentences"`
	PersonalInterests []string           `json:"personalInterests"`
	Evidence          []EvidenceResponse `json:"evidence" jsonschema_description:"Up to 3 representative excerpts"`
	Provenance        ProvenanceResponse `json:"provenance"`
}

var (
	seedInterestsSchema = sync.OnceValues(func() (string, error) {
		return helpers.JSONSchema(SeedInterestsResponse{})
	})
	finalSynthesisSchema = sync.OnceValues(func() (string, error) {
		return helpers.JSONSchema(FinalSynthesisResponse{})
	})
)
