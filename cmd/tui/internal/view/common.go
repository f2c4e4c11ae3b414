package view

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mkante/gestloc/internal/api"
	"github.com/mkante/gestloc/internal/collections"
)

type CommonModel struct {
	Width  int
	Height int
}

type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}

// SessionExpiredMsg routes the whole program back to the login view.
type SessionExpiredMsg struct{}

// RefreshedMsg reports a wholesale snapshot refresh.
type RefreshedMsg struct {
	Err error
}

const apiTimeout = 30 * time.Second

// ApiCtx returns a context with the standard timeout for gateway calls.
func ApiCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), apiTimeout)
}

// routeErr converts a session expiry into its routing message; any other
// error stays with the view that caused it.
func routeErr(err error, msg tea.Msg) tea.Msg {
	if errors.Is(err, api.ErrSessionExpired) {
		return SessionExpiredMsg{}
	}

	return msg
}

// RefreshCmd replaces the snapshot wholesale from the gateway.
func RefreshCmd(snap *collections.Snapshot, gw collections.Gateway) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := ApiCtx()
		defer cancel()

		err := snap.Load(ctx, gw)

		return routeErr(err, RefreshedMsg{Err: err})
	}
}
