package voice

import (
	"fmt"
	"strings"

	"github.com/windoze95/ingredai-api/internal/models"
	"github.com/windoze95/ingredai-api/internal/util"
)

const listSeparator = " and "

// rule matches a normalized transcript. apply is only called when match
// returned true.
type rule struct {
	name  string
	match func(norm string) bool
	apply func(norm, raw string, ctx Context) Result
}

var generatePhrases = []string{"generate recipe", "get recipe", "make something", "cook something"}

// rules are checked in order; the first match wins. The exact clear phrases
// precede the remove prefix so "remove all ingredients" clears.
var rules = []rule{
	{
		name:  "add",
		match: func(n string) bool { return strings.HasPrefix(n, "add ") },
		apply: func(n, _ string, _ Context) Result {
			names := splitNames(strings.TrimPrefix(n, "add "))
			if len(names) == 0 {
				return feedbackOnly("Could not find ingredients to add.", FeedbackError)
			}
			return Result{
				Command:  &Command{Type: CmdAddIngredients, Names: names},
				Feedback: Feedback{Message: "Added: " + strings.Join(names, ", "), Type: FeedbackSuccess},
			}
		},
	},
	{
		name:  "clear",
		match: func(n string) bool { return n == "clear ingredients" || n == "remove all ingredients" },
		apply: func(_, _ string, _ Context) Result {
			return Result{
				Command:  &Command{Type: CmdClearIngredients},
				Feedback: Feedback{Message: "Cleared all ingredients.", Type: FeedbackSuccess},
			}
		},
	},
	{
		name: "remove",
		match: func(n string) bool {
			return strings.HasPrefix(n, "remove ") || strings.HasPrefix(n, "delete ")
		},
		apply: func(n, _ string, _ Context) Result {
			keyword := "remove "
			if strings.HasPrefix(n, "delete ") {
				keyword = "delete "
			}
			names := splitNames(strings.TrimPrefix(n, keyword))
			if len(names) == 0 {
				return feedbackOnly("Could not find ingredients to remove.", FeedbackError)
			}
			return Result{
				Command:  &Command{Type: CmdRemoveIngredients, Names: names},
				Feedback: Feedback{Message: "Removed: " + strings.Join(names, ", "), Type: FeedbackSuccess},
			}
		},
	},
	{
		name: "generate",
		match: func(n string) bool {
			for _, p := range generatePhrases {
				if strings.Contains(n, p) {
					return true
				}
			}
			return false
		},
		apply: func(_, _ string, _ Context) Result {
			return Result{
				Command:  &Command{Type: CmdGenerateRecipe},
				Feedback: Feedback{Message: "Generating your recipe!", Type: FeedbackInfo},
			}
		},
	},
	{
		name:  "dark mode",
		match: func(n string) bool { return strings.Contains(n, "dark mode") },
		apply: func(_, _ string, ctx Context) Result {
			return themeResult(models.ThemeDark, ctx)
		},
	},
	{
		name:  "light mode",
		match: func(n string) bool { return strings.Contains(n, "light mode") },
		apply: func(_, _ string, ctx Context) Result {
			return themeResult(models.ThemeLight, ctx)
		},
	},
	{
		name:  "save",
		match: func(n string) bool { return strings.Contains(n, "save recipe") },
		apply: func(_, _ string, ctx Context) Result {
			switch {
			case ctx.HasRecipe && !ctx.RecipeAlreadySaved:
				return Result{
					Command:  &Command{Type: CmdSaveCurrentRecipe},
					Feedback: Feedback{Message: fmt.Sprintf("Saved \"%s\" to your cookbook.", ctx.RecipeName), Type: FeedbackSuccess},
				}
			case ctx.HasRecipe:
				return feedbackOnly("This recipe is already saved.", FeedbackInfo)
			default:
				return feedbackOnly("No recipe to save.", FeedbackError)
			}
		},
	},
	{
		name: "logout",
		match: func(n string) bool {
			return strings.Contains(n, "log out") || strings.Contains(n, "sign out")
		},
		apply: func(_, _ string, _ Context) Result {
			return Result{
				Command:  &Command{Type: CmdLogout},
				Feedback: Feedback{Message: "Logging you out.", Type: FeedbackInfo},
			}
		},
	},
}

// Interpret maps a final speech transcript to at most one command and a
// feedback message. It has no side effects.
func Interpret(transcript string, ctx Context) Result {
	norm := Normalize(transcript)
	for _, r := range rules {
		if r.match(norm) {
			return r.apply(norm, transcript, ctx)
		}
	}
	return Result{
		Command: &Command{Type: CmdUnrecognized, Raw: transcript},
		Feedback: Feedback{
			Message: fmt.Sprintf("Sorry, I didn't understand \"%s\". Try \"add tomatoes\" or \"generate recipe\".", transcript),
			Type:    FeedbackError,
		},
	}
}

// Normalize lower-cases and trims a transcript and strips one trailing period.
func Normalize(transcript string) string {
	n := strings.TrimSpace(strings.ToLower(transcript))
	return strings.TrimSuffix(n, ".")
}

func splitNames(list string) []string {
	parts := util.SplitList(list, listSeparator)
	for i, p := range parts {
		parts[i] = util.Capitalize(p)
	}
	return parts
}

func themeResult(target models.Theme, ctx Context) Result {
	res := feedbackOnly(fmt.Sprintf("Switched to %s mode.", target), FeedbackInfo)
	if ctx.Theme != target {
		res.Command = &Command{Type: CmdSetTheme, Theme: target}
	}
	return res
}

func feedbackOnly(msg string, t FeedbackType) Result {
	return Result{Feedback: Feedback{Message: msg, Type: t}}
}
