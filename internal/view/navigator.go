package view

import "github.com/rs/zerolog"

// Navigator abstracts page navigation. The console swaps the active page; a
// browser host would change location. Navigation on auth failure is a hard
// redirect: the current page does no further work afterwards.
type Navigator interface {
	Navigate(path string)
}

// LogNavigator records navigation intents to the log, for one-shot console
// runs where there is no page to swap.
type LogNavigator struct {
	Logger zerolog.Logger
	Last   string
}

// Navigate implements Navigator.
func (n *LogNavigator) Navigate(path string) {
	n.Last = path
	n.Logger.Info().Str("path", path).Msg("navigate")
}
