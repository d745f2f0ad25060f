// ABOUTME: Charm KV client wrapper for cloud backup of the proposal dataset
// ABOUTME: Pushes and pulls whole snapshots keyed by record type, with automatic SSH key auth
package charm

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/charm/client"
	"github.com/charmbracelet/charm/kv"
	"github.com/harper/proposal-forge/internal/config"
	"github.com/harper/proposal-forge/internal/models"
)

// Key prefixes for different entity types
const (
	ProposalPrefix = "proposal:"
	ProjectPrefix  = "project:"
	TrackingPrefix = "tracking:"
	ProfilePrefix  = "profile:"
	DocumentPrefix = "document:"
)

// Prefixes lists every prefix owned by this tool, in restore order
var Prefixes = []string{ProfilePrefix, ProposalPrefix, ProjectPrefix, TrackingPrefix, DocumentPrefix}

// Config holds charm client configuration
type Config struct {
	Host     string
	DBName   string
	AutoSync bool
}

// ConfigFrom builds a charm config from application settings
func ConfigFrom(cfg *config.Config) *Config {
	return &Config{
		Host:     cfg.CharmHost,
		DBName:   cfg.CharmDBName,
		AutoSync: cfg.AutoSync,
	}
}

// store is the subset of *kv.KV the client relies on
type store interface {
	Set(key, value []byte) error
	Get(key []byte) ([]byte, error)
	Delete(key []byte) error
	Keys() ([][]byte, error)
	Sync() error
	Reset() error
	Close() error
}

// Client wraps charm KV for backup operations
type Client struct {
	kv     store
	config *Config
	mu     sync.Mutex
}

// NewClient opens the charm KV database described by cfg
func NewClient(cfg *Config) (*Client, error) {
	// charm reads the host from the environment when it opens KV
	if cfg.Host != "" {
		if err := os.Setenv("CHARM_HOST", cfg.Host); err != nil {
			return nil, fmt.Errorf("failed to set CHARM_HOST: %w", err)
		}
	}

	db, err := kv.OpenWithDefaults(cfg.DBName)
	if err != nil {
		return nil, fmt.Errorf("failed to open charm kv: %w", err)
	}
	return newClient(db, cfg), nil
}

func newClient(s store, cfg *Config) *Client {
	return &Client{kv: s, config: cfg}
}

// Close closes the KV database
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.kv == nil {
		return nil
	}
	err := c.kv.Close()
	c.kv = nil
	return err
}

// syncIfEnabled syncs to cloud after writes
func (c *Client) syncIfEnabled() error {
	if c.config.AutoSync {
		return c.kv.Sync()
	}
	return nil
}

// ID returns the charm user ID
func (c *Client) ID() (string, error) {
	cc, err := client.NewClientWithDefaults()
	if err != nil {
		return "", fmt.Errorf("failed to create charm client: %w", err)
	}
	return cc.ID()
}

// SetJSON marshals and stores a value as JSON
func (c *Client) SetJSON(key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.kv.Set([]byte(key), data); err != nil {
		return fmt.Errorf("failed to set key %s: %w", key, err)
	}
	return c.syncIfEnabled()
}

// GetJSON retrieves and unmarshals a JSON value
func (c *Client) GetJSON(key string, dest interface{}) error {
	c.mu.Lock()
	data, err := c.kv.Get([]byte(key))
	c.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to get key %s: %w", key, err)
	}
	if data == nil {
		return fmt.Errorf("key not found: %s", key)
	}
	return json.Unmarshal(data, dest)
}

// Delete removes a key
func (c *Client) Delete(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.kv.Delete([]byte(key)); err != nil {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	return c.syncIfEnabled()
}

// ListKeys returns all keys with the given prefix, sorted
func (c *Client) ListKeys(prefix string) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.listKeys(prefix)
}

func (c *Client) listKeys(prefix string) ([]string, error) {
	keys, err := c.kv.Keys()
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}

	var result []string
	for _, key := range keys {
		keyStr := string(key)
		if strings.HasPrefix(keyStr, prefix) {
			result = append(result, keyStr)
		}
	}
	slices.Sort(result)
	return result, nil
}

// Sync manually triggers a sync with the cloud
func (c *Client) Sync() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.kv.Sync()
}

// Reset wipes all local data (nuclear option)
func (c *Client) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.kv.Reset()
}

// GetAuthorizedKeys returns the list of linked devices/keys
func (c *Client) GetAuthorizedKeys() (string, error) {
	cc, err := client.NewClientWithDefaults()
	if err != nil {
		return "", fmt.Errorf("failed to create charm client: %w", err)
	}
	return cc.AuthorizedKeys()
}

// PushSnapshot mirrors snap into KV: every record is written, keys for
// records that no longer exist are removed, and the result is synced once.
// It returns the number of records written.
func (c *Client) PushSnapshot(snap *models.Snapshot) (int, error) {
	if snap == nil {
		return 0, fmt.Errorf("snapshot is required")
	}

	values := make(map[string]interface{})
	if snap.Profile != nil {
		values[ProfileKey()] = snap.Profile
	}
	for _, p := range snap.Proposals {
		values[ProposalKey(p.ID)] = p
	}
	for _, r := range snap.Projects {
		values[ProjectKey(r.ID)] = r
	}
	for _, t := range snap.Tracking {
		values[TrackingKey(t.ID)] = t
	}
	for _, d := range snap.Documents {
		values[DocumentKey(d.ID)] = d
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, prefix := range Prefixes {
		keys, err := c.listKeys(prefix)
		if err != nil {
			return 0, err
		}
		for _, key := range keys {
			if _, ok := values[key]; ok {
				continue
			}
			if err := c.kv.Delete([]byte(key)); err != nil {
				return 0, fmt.Errorf("failed to delete stale key %s: %w", key, err)
			}
		}
	}

	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	for _, key := range keys {
		data, err := json.Marshal(values[key])
		if err != nil {
			return 0, fmt.Errorf("failed to marshal %s: %w", key, err)
		}
		if err := c.kv.Set([]byte(key), data); err != nil {
			return 0, fmt.Errorf("failed to set key %s: %w", key, err)
		}
	}

	if err := c.kv.Sync(); err != nil {
		return len(keys), fmt.Errorf("failed to sync: %w", err)
	}
	return len(keys), nil
}

// PullSnapshot syncs from the cloud and reads every record back
func (c *Client) PullSnapshot() (*models.Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.kv.Sync(); err != nil {
		return nil, fmt.Errorf("failed to sync: %w", err)
	}

	snap := &models.Snapshot{
		Version:    "1.0",
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Tool:       "proposals",
		Proposals:  []*models.Proposal{},
		Projects:   []*models.ProjectRecord{},
		Tracking:   []*models.ProposalTracking{},
		Documents:  []*models.DocumentRecord{},
	}

	profiles, err := c.listKeys(ProfilePrefix)
	if err != nil {
		return nil, err
	}
	if slices.Contains(profiles, ProfileKey()) {
		var profile models.FreelancerProfile
		if _, err := c.read(ProfileKey(), &profile); err != nil {
			return nil, err
		}
		snap.Profile = &profile
	}

	if err := readAll(c, ProposalPrefix, &snap.Proposals); err != nil {
		return nil, err
	}
	if err := readAll(c, ProjectPrefix, &snap.Projects); err != nil {
		return nil, err
	}
	if err := readAll(c, TrackingPrefix, &snap.Tracking); err != nil {
		return nil, err
	}
	if err := readAll(c, DocumentPrefix, &snap.Documents); err != nil {
		return nil, err
	}
	return snap, nil
}

// readAll decodes every value under prefix and appends it to dest
func readAll[T any](c *Client, prefix string, dest *[]*T) error {
	keys, err := c.listKeys(prefix)
	if err != nil {
		return err
	}
	for _, key := range keys {
		item := new(T)
		found, err := c.read(key, item)
		if err != nil {
			return err
		}
		if found {
			*dest = append(*dest, item)
		}
	}
	return nil
}

func (c *Client) read(key string, dest interface{}) (bool, error) {
	data, err := c.kv.Get([]byte(key))
	if err != nil {
		return false, fmt.Errorf("failed to get key %s: %w", key, err)
	}
	if data == nil {
		return false, nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return true, nil
}

// ProposalKey generates a key for a Proposal
func ProposalKey(id string) string {
	return ProposalPrefix + id
}

// ProjectKey generates a key for a PortfolioProject
func ProjectKey(id string) string {
	return ProjectPrefix + id
}

// TrackingKey generates a key for a ProposalTracking record
func TrackingKey(id string) string {
	return TrackingPrefix + id
}

// DocumentKey generates a key for a Document
func DocumentKey(id string) string {
	return DocumentPrefix + id
}

// ProfileKey generates a key for the FreelancerProfile
func ProfileKey() string {
	return ProfilePrefix + "freelancer"
}
