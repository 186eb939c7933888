package prompts

import (
	_ "embed"

	"github.com/pkg/errors"
)

//go:embed templates/final_synthesis.tmpl
var finalSynthesisPromptTemplate string

type FinalSynthesisPrompt struct {
	Summaries    string
	Count        int
	MaxInterests int
}

func BuildFinalSynthesisPrompt(data FinalSynthesisPrompt) (string, error) {
	schema, err := finalSynthesisSchema()
	if err != nil {
		return "", errors.Wrap(err, "failed to reflect final synthesis schema")
	}
	return render("final_synthesis", finalSynthesisPromptTemplate, struct {
		FinalSynthesisPrompt
		Schema string
	}{data, schema})
}
