package resolver

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/velichkin/persona/internal/domain"
	"github.com/velichkin/persona/internal/repo"
)

type fakePersons struct {
	person *domain.Person
}

func (f *fakePersons) GetByName(_ context.Context, name string) (*domain.Person, error) {
	if f.person != nil && f.person.Name == name {
		return f.person, nil
	}
	return nil, repo.ErrNotFound
}

type fakeProfiles struct {
	profile *domain.Profile
}

func (f *fakeProfiles) Get(_ context.Context, personID uuid.UUID) (*domain.Profile, error) {
	if f.profile != nil && f.profile.PersonID == personID {
		return f.profile, nil
	}
	return nil, repo.ErrNotFound
}

type fakeMemories struct {
	memory  *domain.Memory
	touched bool
}

func (f *fakeMemories) GetByID(_ context.Context, id uuid.UUID) (*domain.Memory, error) {
	if f.memory != nil && f.memory.ID == id {
		return f.memory, nil
	}
	return nil, repo.ErrNotFound
}

func (f *fakeMemories) Touch(_ context.Context, id uuid.UUID, _ time.Time) error {
	f.touched = true
	return nil
}

type fakeWorkspaces struct {
	ws *domain.Workspace
}

func (f *fakeWorkspaces) GetByName(_ context.Context, name string) (*domain.Workspace, error) {
	if f.ws != nil && f.ws.Name == name {
		return f.ws, nil
	}
	return nil, repo.ErrNotFound
}

func TestParseURI(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		scheme   string
		host     string
		pathLen  int
		wantFail bool
	}{
		{name: "profile value", raw: "persona://marina/trait/caution", scheme: "persona", host: "marina", pathLen: 2},
		{name: "workspace", raw: "workspace://billing-api", scheme: "workspace", host: "billing-api", pathLen: 0},
		{name: "trailing slash", raw: "workspace://billing-api/", scheme: "workspace", host: "billing-api", pathLen: 0},
		{name: "no scheme", raw: "marina/trait/caution", wantFail: true},
		{name: "no host", raw: "persona://", wantFail: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uri, err := ParseURI(tt.raw)
			if tt.wantFail {
				if !errors.Is(err, ErrMalformedURI) {
					t.Errorf("expected ErrMalformedURI, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if uri.Scheme != tt.scheme || uri.Host != tt.host || len(uri.Path) != tt.pathLen {
				t.Errorf("got %+v", uri)
			}
		})
	}
}

func TestResolve_PersonaValue(t *testing.T) {
	person := &domain.Person{ID: uuid.New(), Name: "marina"}
	profile := &domain.Profile{
		PersonID: person.ID,
		Traits:   map[string]float64{"caution": 32.4},
	}

	r := New(NewPersonaSource(&fakePersons{person: person}, &fakeProfiles{profile: profile}))

	item, err := r.Resolve(context.Background(), "persona://marina/trait/caution")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.Kind != "profile-value" {
		t.Errorf("Kind = %q", item.Kind)
	}
	if item.Content != "trait.caution = 32.4" {
		t.Errorf("Content = %q", item.Content)
	}
}

func TestResolve_PersonaUnknownKey(t *testing.T) {
	person := &domain.Person{ID: uuid.New(), Name: "marina"}
	profile := &domain.Profile{PersonID: person.ID, Traits: map[string]float64{}}

	r := New(NewPersonaSource(&fakePersons{person: person}, &fakeProfiles{profile: profile}))

	_, err := r.Resolve(context.Background(), "persona://marina/trait/missing")
	if !errors.Is(err, ErrNotResolved) {
		t.Errorf("expected ErrNotResolved, got %v", err)
	}
}

func TestResolve_MemoryTouches(t *testing.T) {
	person := &domain.Person{ID: uuid.New(), Name: "marina"}
	m := &domain.Memory{ID: uuid.New(), PersonID: person.ID, Content: "prefers table tests"}
	memories := &fakeMemories{memory: m}

	r := New(NewMemorySource(&fakePersons{person: person}, memories))

	item, err := r.Resolve(context.Background(), "memory://marina/"+m.ID.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.Content != "prefers table tests" {
		t.Errorf("Content = %q", item.Content)
	}
	if !memories.touched {
		t.Error("resolving a memory must touch it")
	}
}

func TestResolve_MemoryWrongOwner(t *testing.T) {
	person := &domain.Person{ID: uuid.New(), Name: "marina"}
	m := &domain.Memory{ID: uuid.New(), PersonID: uuid.New(), Content: "not hers"}

	r := New(NewMemorySource(&fakePersons{person: person}, &fakeMemories{memory: m}))

	_, err := r.Resolve(context.Background(), "memory://marina/"+m.ID.String())
	if !errors.Is(err, ErrNotResolved) {
		t.Errorf("expected ErrNotResolved, got %v", err)
	}
}

func TestResolve_Workspace(t *testing.T) {
	ws := &domain.Workspace{ID: uuid.New(), Name: "billing-api", Path: "/srv/billing"}

	r := New(NewWorkspaceSource(&fakeWorkspaces{ws: ws}, nil))

	item, err := r.Resolve(context.Background(), "workspace://billing-api")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.Content != "workspace billing-api at /srv/billing" {
		t.Errorf("Content = %q", item.Content)
	}
}

func TestResolve_UnknownScheme(t *testing.T) {
	r := New()
	_, err := r.Resolve(context.Background(), "ftp://host/file")
	if !errors.Is(err, ErrUnknownScheme) {
		t.Errorf("expected ErrUnknownScheme, got %v", err)
	}

	var resErr *ResolveError
	if !errors.As(err, &resErr) {
		t.Fatalf("expected ResolveError, got %T", err)
	}
	if resErr.URI != "ftp://host/file" {
		t.Errorf("URI = %q", resErr.URI)
	}
}

func TestResolveAll_SkipsFailures(t *testing.T) {
	ws := &domain.Workspace{ID: uuid.New(), Name: "billing-api", Path: "/srv/billing"}
	r := New(NewWorkspaceSource(&fakeWorkspaces{ws: ws}, nil))

	items, errs := r.ResolveAll(context.Background(), []string{
		"workspace://billing-api",
		"workspace://missing",
	})
	if len(items) != 1 {
		t.Errorf("expected 1 item, got %d", len(items))
	}
	if len(errs) != 1 {
		t.Errorf("expected 1 error, got %d", len(errs))
	}
}
