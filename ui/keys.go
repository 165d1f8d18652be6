package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	PlayPause key.Binding
	Stop      key.Binding
	StopClear key.Binding
	Reset     key.Binding
	Next      key.Binding
	Prev      key.Binding
	Reverse   key.Binding
	MoreLoops key.Binding
	LessLoops key.Binding
	Copy      key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		PlayPause: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "play/pause")),
		Stop:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stop")),
		StopClear: key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "stop and clear")),
		Reset:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "restart")),
		Next:      key.NewBinding(key.WithKeys("n", "right"), key.WithHelp("n/→", "next source")),
		Prev:      key.NewBinding(key.WithKeys("p", "left"), key.WithHelp("p/←", "previous source")),
		Reverse:   key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "reverse")),
		MoreLoops: key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "more loops")),
		LessLoops: key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "fewer loops")),
		Copy:      key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy debug info")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PlayPause, k.Stop, k.Next, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PlayPause, k.Stop, k.StopClear, k.Reset},
		{k.Next, k.Prev, k.Reverse},
		{k.MoreLoops, k.LessLoops, k.Copy},
		{k.Help, k.Quit},
	}
}
