package mutate

const (
	DeletePrompt      = "Delete this permanently?"
	RemoveImagePrompt = "Remove this photo?"
)

// Confirmer gates destructive actions on an explicit user decision.
type Confirmer interface {
	Confirm(prompt string) bool
}

type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Confirmed is used when the decision was already taken (e.g. a TUI modal or --yes).
var Confirmed Confirmer = ConfirmFunc(func(string) bool { return true })
