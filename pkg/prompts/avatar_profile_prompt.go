package prompts

import (
	_ "embed"
)

//go:embed templates/avatar_profile.tmpl
var avatarProfilePromptTemplate string

// AvatarProfilePrompt feeds a finished personal profile, plus whatever work
// context the caller has, into the public-profile generator.
type AvatarProfilePrompt struct {
	Name              string
	Affiliation       string
	JobTitle          string
	WorkSkills        []string
	PersonalSummary   string
	PersonalInterests []string
	SeedInterests     []string
	EvidenceExcerpts  []string
}

func BuildAvatarProfilePrompt(data AvatarProfilePrompt) (string, error) {
	if len(data.EvidenceExcerpts) > 3 {
		data.EvidenceExcerpts = data.EvidenceExcerpts[:3]
	}
	return render("avatar_profile", avatarProfilePromptTemplate, data)
}
