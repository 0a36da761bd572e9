package shell

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ANOUAR90ESS/veto7/internal/catalog"
	"github.com/ANOUAR90ESS/veto7/internal/model"
	"github.com/ANOUAR90ESS/veto7/internal/session"
)

// InitialToolCount is how many tools local mode synthesizes at startup.
const InitialToolCount = 9

type Mode string

const (
	ModeRemote Mode = "remote"
	ModeLocal  Mode = "local"
)

type AuthState string

const (
	AuthAnonymous AuthState = "unauthenticated"
	AuthUser      AuthState = "user"
	AuthAdmin     AuthState = "admin"
)

type State struct {
	Mode Mode      `json:"mode"`
	Auth AuthState `json:"auth"`
}

var ErrPremiumRequired = errors.New("upgrade required: slides, tutorials and courses are premium features")

// ContentGenerator is the part of the generative client the shell uses.
type ContentGenerator interface {
	GenerateDirectoryTools(ctx context.Context, n int, headlines []string) ([]model.Tool, error)
	GenerateToolSlides(ctx context.Context, tool model.Tool) ([]model.Slide, error)
	GenerateToolTutorial(ctx context.Context, tool model.Tool) ([]model.TutorialSection, error)
	GenerateFullCourse(ctx context.Context, tool model.Tool) (*model.Course, error)
}

type UsageCounter interface {
	IncrementGenerations(ctx context.Context, id string) error
}

type Options struct {
	Store     catalog.Store
	Generator ContentGenerator
	Usage     UsageCounter
	// Enqueue schedules background enrichment for a tool id. Optional.
	Enqueue func(ctx context.Context, toolID string) error
	// Headlines supplies trending topics for batch generation. Optional.
	Headlines func(ctx context.Context) []string
}

// Shell owns the data mode chosen at startup and the handlers every surface uses.
type Shell struct {
	mode      Mode
	store     catalog.Store
	gen       ContentGenerator
	usage     UsageCounter
	enqueue   func(ctx context.Context, toolID string) error
	headlines func(ctx context.Context) []string
}

func New(opts Options) *Shell {
	mode := ModeLocal
	if opts.Store.Remote() {
		mode = ModeRemote
	}
	return &Shell{
		mode:      mode,
		store:     opts.Store,
		gen:       opts.Generator,
		usage:     opts.Usage,
		enqueue:   opts.Enqueue,
		headlines: opts.Headlines,
	}
}

func (s *Shell) Mode() Mode {
	return s.mode
}

func (s *Shell) Store() catalog.Store {
	return s.store
}

func (s *Shell) AIAvailable() bool {
	return s.gen != nil
}

func (s *Shell) State(p *model.Profile) State {
	st := State{Mode: s.mode, Auth: AuthAnonymous}
	switch {
	case p.IsAdmin():
		st.Auth = AuthAdmin
	case p != nil:
		st.Auth = AuthUser
	}
	return st
}

// CanAccessAdmin gates the dashboard: only a profile whose role is exactly admin passes.
func CanAccessAdmin(p *model.Profile) bool {
	return p.IsAdmin()
}

// Headlines returns trending topics, or nil when no source is configured.
func (s *Shell) Headlines(ctx context.Context) []string {
	if s.headlines == nil {
		return nil
	}
	return s.headlines(ctx)
}

// Bootstrap synthesizes the initial directory in local mode. The store is seeded
// only while it is still empty, so repeated calls never duplicate tools.
func (s *Shell) Bootstrap(ctx context.Context) error {
	if s.mode != ModeLocal || s.gen == nil {
		return nil
	}

	seeder, ok := s.store.(interface{ SeedTools([]model.Tool) bool })
	if !ok {
		return nil
	}

	existing, err := s.store.Tools(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	tools, err := s.gen.GenerateDirectoryTools(ctx, InitialToolCount, s.Headlines(ctx))
	if err != nil {
		slog.Error("error synthesizing initial tools", "error", err)
		return err
	}

	if seeder.SeedTools(tools) {
		slog.Info("seeded local catalog", "tools", len(tools))
	}
	return nil
}

// WatchAuth keeps the resolver's profiles in step with auth events and returns
// the function that stops watching.
func (s *Shell) WatchAuth(n *session.Notifier, r *session.Resolver) func() {
	return n.Subscribe(func(ev session.Event) {
		if err := r.HandleEvent(context.Background(), ev); err != nil {
			slog.Error("error handling auth event", "event", ev.Type, "user_id", ev.UserID, "error", err)
		}
	})
}
