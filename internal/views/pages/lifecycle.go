package pages

import (
	"github.com/a-h/templ"

	"formulary/internal/fetch"
	"formulary/internal/views/components"
)

// connectionHint is appended to list-view failures.
const connectionHint = "Please check your API connection."

// Lifecycle renders the view state machine shared by every page: a loading
// affordance, the failure message, or the ready content.
func Lifecycle[T any](state fetch.State[T], loading, hint string, ready func(T) templ.Component) templ.Component {
	switch state.Phase {
	case fetch.Ready:
		return ready(state.Data)
	case fetch.Failed:
		return components.ErrorNotice(state.Message(), hint)
	default:
		return components.Loading(loading)
	}
}
