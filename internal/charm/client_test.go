// ABOUTME: Tests for snapshot push and pull against an in-memory KV store
// ABOUTME: Never touches the Charm cloud
package charm

import (
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/harper/proposal-forge/internal/models"
)

type memStore struct {
	mu     sync.Mutex
	data   map[string][]byte
	syncs  int
	failOn string
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string][]byte)}
}

func (m *memStore) Set(key, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failOn == "set" {
		return errors.New("set failed")
	}
	m.data[string(key)] = append([]byte(nil), value...)
	return nil
}

func (m *memStore) Get(key []byte) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[string(key)]
	if !ok {
		return nil, errors.New("Key not found")
	}
	return v, nil
}

func (m *memStore) Delete(key []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, string(key))
	return nil
}

func (m *memStore) Keys() ([][]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([][]byte, len(keys))
	for i, k := range keys {
		out[i] = []byte(k)
	}
	return out, nil
}

func (m *memStore) Sync() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failOn == "sync" {
		return errors.New("sync failed")
	}
	m.syncs++
	return nil
}

func (m *memStore) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[string][]byte)
	return nil
}

func (m *memStore) Close() error { return nil }

func testSnapshot() *models.Snapshot {
	return &models.Snapshot{
		Profile:   &models.FreelancerProfile{Name: "Sam"},
		Proposals: []*models.Proposal{{ID: "p1", JobTitle: "Dashboard"}, {ID: "p2"}},
		Projects: []*models.ProjectRecord{
			models.NewProjectRecord(&models.PortfolioProject{ID: "proj1", Name: "Shop", Embedding: []float64{0.5, 1}}),
		},
		Tracking: []*models.ProposalTracking{{ID: "t1", ProposalID: "p1", Connected: 4}},
		Documents: []*models.DocumentRecord{
			models.NewDocumentRecord(&models.Document{ID: "d1", Name: "rates.md", Content: "Hourly rate is $90.", Embedding: []float64{1, 0}}),
		},
	}
}

func TestPushPullSnapshot(t *testing.T) {
	mem := newMemStore()
	c := newClient(mem, &Config{AutoSync: true})

	n, err := c.PushSnapshot(testSnapshot())
	if err != nil {
		t.Fatalf("PushSnapshot() error = %v", err)
	}
	if n != 6 {
		t.Errorf("PushSnapshot() = %d, want 6", n)
	}
	if mem.syncs != 1 {
		t.Errorf("syncs = %d, want exactly 1", mem.syncs)
	}

	snap, err := c.PullSnapshot()
	if err != nil {
		t.Fatalf("PullSnapshot() error = %v", err)
	}
	if snap.Profile == nil || snap.Profile.Name != "Sam" {
		t.Errorf("Profile = %+v, want Sam", snap.Profile)
	}
	proposals, projects, tracking := snap.Counts()
	if proposals != 2 || projects != 1 || tracking != 1 {
		t.Errorf("Counts() = %d/%d/%d, want 2/1/1", proposals, projects, tracking)
	}
	if got := snap.Projects[0].Project().Embedding; len(got) != 2 || got[1] != 1 {
		t.Errorf("embedding = %v, want [0.5 1]", got)
	}
	if snap.Tracking[0].Connected != 4 {
		t.Errorf("Connected = %d, want 4", snap.Tracking[0].Connected)
	}
	if len(snap.Documents) != 1 {
		t.Fatalf("len(Documents) = %d, want 1", len(snap.Documents))
	}
	if doc := snap.Documents[0].Doc(); doc.Name != "rates.md" || len(doc.Embedding) != 2 {
		t.Errorf("document = %+v, want rates.md with its embedding", doc)
	}
}

func TestPushSnapshot_RemovesStaleKeys(t *testing.T) {
	mem := newMemStore()
	c := newClient(mem, &Config{})

	if _, err := c.PushSnapshot(testSnapshot()); err != nil {
		t.Fatalf("PushSnapshot() error = %v", err)
	}
	if err := mem.Set([]byte("unrelated"), []byte("keep")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	smaller := testSnapshot()
	smaller.Proposals = smaller.Proposals[:1]
	smaller.Profile = nil
	if _, err := c.PushSnapshot(smaller); err != nil {
		t.Fatalf("PushSnapshot() error = %v", err)
	}

	keys, err := c.ListKeys(ProposalPrefix)
	if err != nil {
		t.Fatalf("ListKeys() error = %v", err)
	}
	if len(keys) != 1 || keys[0] != ProposalKey("p1") {
		t.Errorf("proposal keys = %v, want [proposal:p1]", keys)
	}
	if profiles, _ := c.ListKeys(ProfilePrefix); len(profiles) != 0 {
		t.Errorf("profile keys = %v, want none", profiles)
	}
	if _, ok := mem.data["unrelated"]; !ok {
		t.Error("keys outside our prefixes must survive a push")
	}
}

func TestPushSnapshot_Errors(t *testing.T) {
	c := newClient(newMemStore(), &Config{})
	if _, err := c.PushSnapshot(nil); err == nil {
		t.Error("PushSnapshot(nil) should fail")
	}

	mem := newMemStore()
	mem.failOn = "sync"
	c = newClient(mem, &Config{})
	if _, err := c.PushSnapshot(testSnapshot()); err == nil {
		t.Error("PushSnapshot() should report sync failures")
	}
}

func TestPullSnapshot_Empty(t *testing.T) {
	c := newClient(newMemStore(), &Config{})

	snap, err := c.PullSnapshot()
	if err != nil {
		t.Fatalf("PullSnapshot() error = %v", err)
	}
	if snap.Profile != nil {
		t.Error("Profile should be nil when nothing was pushed")
	}
	if snap.Proposals == nil || snap.Projects == nil || snap.Tracking == nil || snap.Documents == nil {
		t.Error("collections should be empty, not nil")
	}
}

func TestJSONHelpers(t *testing.T) {
	mem := newMemStore()
	c := newClient(mem, &Config{AutoSync: true})

	if err := c.SetJSON(ProposalKey("x"), map[string]string{"id": "x"}); err != nil {
		t.Fatalf("SetJSON() error = %v", err)
	}
	if mem.syncs != 1 {
		t.Errorf("syncs = %d, want 1 with auto sync", mem.syncs)
	}

	var got map[string]string
	if err := c.GetJSON(ProposalKey("x"), &got); err != nil {
		t.Fatalf("GetJSON() error = %v", err)
	}
	if got["id"] != "x" {
		t.Errorf("GetJSON() = %v", got)
	}

	if err := c.Delete(ProposalKey("x")); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := c.GetJSON(ProposalKey("x"), &got); err == nil {
		t.Error("GetJSON() should fail after Delete")
	}
}

func TestConfigKeys(t *testing.T) {
	if ProfileKey() != "profile:freelancer" {
		t.Errorf("ProfileKey() = %s", ProfileKey())
	}
	if TrackingKey("t") != "tracking:t" || ProjectKey("p") != "project:p" || DocumentKey("d") != "document:d" {
		t.Error("unexpected key layout")
	}
}
