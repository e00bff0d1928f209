package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/davidnwogucodes/sadaora/client"
	"github.com/davidnwogucodes/sadaora/feed"
	"github.com/davidnwogucodes/sadaora/model"
	"github.com/davidnwogucodes/sadaora/session"
)

// engine is the part of feed.Engine driven by commands
type engine interface {
	SetFilter(text string)
	Follow(id string)
	Unfollow(id string)
	Retry()
	Snapshot() feed.State
}

// profileSource fetches the profile of the session user
type profileSource interface {
	Me(ctx context.Context) (model.Profile, error)
}

// viewport reports the last rendered profile as visible when asked
// for more
type viewport chan feed.Visibility

func (v viewport) Events() <-chan feed.Visibility { return v }

type terminal struct {
	engine   engine
	profiles profileSource
	viewport viewport
	out      io.Writer
}

func newTerminal(e engine, profiles profileSource, out io.Writer) *terminal {
	return &terminal{
		engine:   e,
		profiles: profiles,
		viewport: make(viewport, 2),
		out:      out,
	}
}

// handle runs one command line. It returns true on quit
func (t *terminal) handle(ctx context.Context, line string) bool {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "":
	case "quit", "exit":
		return true
	case "more":
		st := t.engine.Snapshot()
		if !st.HasMore {
			fmt.Fprintln(t.out, "No more profiles.")
			return false
		}
		if st.LastID == "" {
			return false
		}
		// scrolled away and back to the bottom of the list
		t.viewport <- feed.Visibility{ProfileID: st.LastID, Visible: false}
		t.viewport <- feed.Visibility{ProfileID: st.LastID, Visible: true}
	case "filter":
		t.engine.SetFilter(arg)
	case "clear":
		t.engine.SetFilter("")
	case "follow", "unfollow":
		if arg == "" {
			fmt.Fprintf(t.out, "usage: %s <id>\n", cmd)
			return false
		}
		if cmd == "follow" {
			t.engine.Follow(arg)
		} else {
			t.engine.Unfollow(arg)
		}
	case "retry":
		t.engine.Retry()
	case "me":
		me, err := t.profiles.Me(ctx)
		if err != nil {
			fmt.Fprintln(t.out, describe(err))
			return false
		}
		printProfile(t.out, me)
	default:
		fmt.Fprintf(t.out, "unknown command %q\n", cmd)
	}

	return false
}

// render prints every published state until ctx is done
func (t *terminal) render(ctx context.Context, changes <-chan feed.State) {
	var prev feed.State
	for {
		select {
		case <-ctx.Done():
			return
		case st := <-changes:
			renderChange(t.out, prev, st)
			prev = st
		}
	}
}

// renderChange prints what changed between two states: the whole list
// after a filter reset, the new profiles otherwise
func renderChange(w io.Writer, prev, st feed.State) {
	from := len(prev.Profiles)
	if st.Filter != prev.Filter || len(st.Profiles) < from {
		from = 0
		if st.Filter == "" {
			fmt.Fprintln(w, "== all profiles")
		} else {
			fmt.Fprintf(w, "== profiles interested in %s\n", st.Filter)
		}
	}

	for _, p := range st.Profiles[from:] {
		printProfile(w, p)
	}

	// follow marks of profiles already printed
	for i := 0; i < from; i++ {
		if p := st.Profiles[i]; p.IsFollowing != prev.Profiles[i].IsFollowing {
			fmt.Fprintf(w, "%s %s\n", followLabel(p.IsFollowing), p.Id)
		}
	}

	if st.Err != "" && st.Err != prev.Err {
		fmt.Fprintln(w, "!", st.Err)
	}
	if st.Loading && !prev.Loading {
		fmt.Fprintln(w, "loading...")
	}
	if !st.Loading && prev.Loading && !st.HasMore && st.Err == "" {
		fmt.Fprintln(w, "-- end of feed")
	}
}

func printProfile(w io.Writer, p model.Profile) {
	line := fmt.Sprintf("[%s] %s", p.Id, p.Name)
	if p.Headline != "" {
		line += " - " + p.Headline
	}
	if len(p.Interests) > 0 {
		line += " (" + strings.Join(p.Interests, ", ") + ")"
	}
	if p.IsFollowing {
		line += " *following"
	}
	fmt.Fprintln(w, line)
}

func followLabel(following bool) string {
	if following {
		return "following"
	}
	return "unfollowed"
}

// describe turns client errors into a line for the user
func describe(err error) string {
	var apiErr *client.APIError
	switch {
	case errors.Is(err, session.ErrClosed), errors.Is(err, session.ErrExpired):
		return "Session ended, sign in again."
	case errors.As(err, &apiErr):
		return apiErr.Message
	}
	return err.Error()
}
