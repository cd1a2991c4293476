package memory

import (
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/felixgeelhaar/opregistry/domain/operation"
	"github.com/felixgeelhaar/opregistry/domain/provider"
)

// stubHandler implements operation.Handler for testing.
type stubHandler struct {
	operation.Unversioned
	name string
	kind operation.Kind
}

func (s *stubHandler) Kind() operation.Kind  { return s.kind }
func (s *stubHandler) DeclaredName() string { return s.name }

func newConverter(name string) *stubHandler {
	return &stubHandler{name: name, kind: operation.KindConverter}
}

func TestNewDirectory(t *testing.T) {
	d := NewDirectory()
	if d == nil {
		t.Fatal("NewDirectory() returned nil")
	}
	if d.Count() != 0 {
		t.Errorf("NewDirectory().Count() = %d, want 0", d.Count())
	}
}

func TestDirectory_Register(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		entry   Entry
		wantErr error
	}{
		{
			name:  "legacy name only",
			entry: Entry{Name: "createServerGroup", Handler: newConverter("createServerGroup")},
		},
		{
			name:  "tags only",
			entry: Entry{Handler: newConverter("createServerGroup"), Tags: []provider.CapabilityTag{"aws"}},
		},
		{
			name:    "nil handler",
			entry:   Entry{Name: "createServerGroup"},
			wantErr: operation.ErrInvalidHandler,
		},
		{
			name:    "no name and no tags",
			entry:   Entry{Handler: newConverter("createServerGroup")},
			wantErr: operation.ErrInvalidHandler,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d := NewDirectory()
			if err := d.Register(tt.entry); !errors.Is(err, tt.wantErr) {
				t.Errorf("Register() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDirectory_RegisterDuplicateName(t *testing.T) {
	t.Parallel()

	d := NewDirectory()
	if err := d.Register(Entry{Name: "resize", Handler: newConverter("resize")}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	err := d.Register(Entry{Name: "resize", Handler: newConverter("resize")})
	if !errors.Is(err, operation.ErrComponentExists) {
		t.Errorf("Register() error = %v, want ErrComponentExists", err)
	}
}

func TestDirectory_LookupByName(t *testing.T) {
	t.Parallel()

	d := NewDirectory()
	h := newConverter("createServerGroup")
	_ = d.Register(Entry{Name: "createServerGroup", Handler: h})

	t.Run("existing component", func(t *testing.T) {
		got, err := d.LookupByName("createServerGroup")
		if err != nil {
			t.Fatalf("LookupByName() error = %v", err)
		}
		if got != h {
			t.Error("LookupByName() returned a different handler")
		}
	})

	t.Run("exact match only", func(t *testing.T) {
		_, err := d.LookupByName("CreateServerGroup")
		if !errors.Is(err, operation.ErrComponentNotFound) {
			t.Errorf("LookupByName() error = %v, want ErrComponentNotFound", err)
		}
	})
}

func TestDirectory_ListByCapabilityTag(t *testing.T) {
	t.Parallel()

	d := NewDirectory()
	first := newConverter("createServerGroup")
	second := newConverter("destroyServerGroup")
	other := newConverter("deployManifest")
	_ = d.Register(Entry{Handler: first, Tags: []provider.CapabilityTag{"aws"}})
	_ = d.Register(Entry{Handler: other, Tags: []provider.CapabilityTag{"kubernetes"}})
	_ = d.Register(Entry{Handler: second, Tags: []provider.CapabilityTag{"aws", "titus"}})

	aws := d.ListByCapabilityTag("aws")
	if len(aws) != 2 || aws[0] != first || aws[1] != second {
		t.Errorf("ListByCapabilityTag(aws) = %v, want [first second]", aws)
	}
	if titus := d.ListByCapabilityTag("titus"); len(titus) != 1 || titus[0] != second {
		t.Errorf("ListByCapabilityTag(titus) = %v, want [second]", titus)
	}
	if none := d.ListByCapabilityTag("gce"); len(none) != 0 {
		t.Errorf("ListByCapabilityTag(gce) = %v, want empty", none)
	}

	// The returned slice must not alias internal state.
	aws[0] = nil
	if d.ListByCapabilityTag("aws")[0] != first {
		t.Error("ListByCapabilityTag() result aliases internal state")
	}
}

func TestDirectory_Unregister(t *testing.T) {
	t.Parallel()

	d := NewDirectory()
	h := newConverter("resize")
	_ = d.Register(Entry{Name: "resize", Handler: h, Tags: []provider.CapabilityTag{"aws"}})

	if err := d.Unregister("resize"); err != nil {
		t.Fatalf("Unregister() error = %v", err)
	}
	if _, err := d.LookupByName("resize"); !errors.Is(err, operation.ErrComponentNotFound) {
		t.Errorf("LookupByName() error = %v, want ErrComponentNotFound", err)
	}
	if got := d.ListByCapabilityTag("aws"); len(got) != 0 {
		t.Errorf("ListByCapabilityTag() = %v, want empty", got)
	}
	if err := d.Unregister("resize"); !errors.Is(err, operation.ErrComponentNotFound) {
		t.Errorf("Unregister() error = %v, want ErrComponentNotFound", err)
	}
}

func TestDirectory_RemoveWhere(t *testing.T) {
	t.Parallel()

	d := NewDirectory()
	tagOnly := newConverter("deploy")
	other := newConverter("deploy")
	named := newConverter("resize")
	_ = d.Register(Entry{Handler: tagOnly, Tags: []provider.CapabilityTag{"aws"}})
	_ = d.Register(Entry{Handler: other, Tags: []provider.CapabilityTag{"aws", "gce"}})
	_ = d.Register(Entry{Name: "resize", Handler: named})

	removed := d.RemoveWhere(func(e Entry) bool { return e.Handler == tagOnly })
	if removed != 1 {
		t.Fatalf("RemoveWhere() = %d, want 1", removed)
	}
	got := d.ListByCapabilityTag("aws")
	if len(got) != 1 || got[0] != other {
		t.Errorf("ListByCapabilityTag(aws) = %v, want only the remaining handler", got)
	}
	if _, err := d.LookupByName("resize"); err != nil {
		t.Errorf("LookupByName(resize) error = %v", err)
	}

	if removed := d.RemoveWhere(func(Entry) bool { return false }); removed != 0 {
		t.Errorf("RemoveWhere(none) = %d, want 0", removed)
	}
	if d.Count() != 2 {
		t.Errorf("Count() = %d, want 2", d.Count())
	}
}

func TestDirectory_Replace(t *testing.T) {
	t.Parallel()

	d := NewDirectory()
	_ = d.Register(Entry{Name: "old", Handler: newConverter("old")})

	err := d.Replace([]Entry{
		{Name: "dup", Handler: newConverter("dup")},
		{Name: "dup", Handler: newConverter("dup")},
	})
	if !errors.Is(err, operation.ErrComponentExists) {
		t.Fatalf("Replace() error = %v, want ErrComponentExists", err)
	}
	if _, err := d.LookupByName("old"); err != nil {
		t.Errorf("failed Replace() should keep previous contents, got %v", err)
	}

	err = d.Replace([]Entry{
		{Name: "alpha", Handler: newConverter("alpha")},
		{Handler: newConverter("beta"), Tags: []provider.CapabilityTag{"aws"}},
	})
	if err != nil {
		t.Fatalf("Replace() error = %v", err)
	}
	if d.Count() != 2 {
		t.Errorf("Count() = %d, want 2", d.Count())
	}
	if _, err := d.LookupByName("old"); !errors.Is(err, operation.ErrComponentNotFound) {
		t.Errorf("LookupByName(old) error = %v, want ErrComponentNotFound", err)
	}
	names := d.Names()
	sort.Strings(names)
	if len(names) != 1 || names[0] != "alpha" {
		t.Errorf("Names() = %v, want [alpha]", names)
	}
	if len(d.Entries()) != 2 {
		t.Errorf("Entries() = %d, want 2", len(d.Entries()))
	}
}

func TestDirectory_ConcurrentReads(t *testing.T) {
	t.Parallel()

	d := NewDirectory()
	_ = d.Register(Entry{Name: "resize", Handler: newConverter("resize"), Tags: []provider.CapabilityTag{"aws"}})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = d.LookupByName("resize")
			_ = d.ListByCapabilityTag("aws")
		}()
	}
	wg.Wait()
}
