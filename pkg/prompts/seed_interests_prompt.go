package prompts

import (
	_ "embed"

	"github.com/pkg/errors"
)

//go:embed templates/seed_interests.tmpl
var seedInterestsPromptTemplate string

type SeedInterestsPrompt struct {
	Summaries    string
	MaxInterests int
}

func BuildSeedInterestsPrompt(data SeedInterestsPrompt) (string, error) {
	schema, err := seedInterestsSchema()
	if err != nil {
		return "", errors.Wrap(err, "failed to reflect seed interests schema")
	}
	return render("seed_interests", seedInterestsPromptTemplate, struct {
		SeedInterestsPrompt
		Schema string
	}{data, schema})
}
