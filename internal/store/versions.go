package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/hacklet1101/roadmap-kit/internal/roadmap"
)

// ErrVersionNotFound is returned when no snapshot has the requested id.
var ErrVersionNotFound = errors.New("version not found")

// DefaultKeep is the number of snapshots retained when none is configured.
const DefaultKeep = 10

// VersionsFile is the snapshot history file kept next to the roadmap.
const VersionsFile = "versions.json"

// Author identifies who created a snapshot or restored one.
type Author struct {
	ID   string
	Name string
}

// Version is one stored snapshot of the roadmap document.
type Version struct {
	ID          string          `json:"id"`
	Timestamp   time.Time       `json:"timestamp"`
	UserID      string          `json:"userId"`
	UserName    string          `json:"userName"`
	Description string          `json:"description"`
	Snapshot    json.RawMessage `json:"snapshot"`
}

// Roadmap decodes the snapshot into a fresh document.
func (v *Version) Roadmap() (*roadmap.Roadmap, error) {
	r, err := roadmap.Decode(v.Snapshot)
	if err != nil {
		return nil, fmt.Errorf("version %s: %w", v.ID, err)
	}
	return r, nil
}

// VersionInfo is the listing view of a snapshot.
type VersionInfo struct {
	ID            string
	Timestamp     time.Time
	UserName      string
	Description   string
	FeaturesCount int
	TasksCount    int
}

type versionsDocument struct {
	Versions []Version `json:"versions"`
}

// Snapshotter records the current roadmap before it is replaced.
type Snapshotter interface {
	Snapshot(r *roadmap.Roadmap, author Author, description string) (*Version, error)
}

// VersionStore keeps a bounded, newest-first list of roadmap snapshots.
type VersionStore struct {
	path string
	keep int
	now  func() time.Time
}

var _ Snapshotter = (*VersionStore)(nil)

// VersionsPath returns the snapshot file that belongs to roadmapPath.
func VersionsPath(roadmapPath string) string {
	return filepath.Join(filepath.Dir(roadmapPath), VersionsFile)
}

// NewVersionStore opens the snapshot history at path. keep < 1 selects DefaultKeep.
func NewVersionStore(path string, keep int) *VersionStore {
	if keep < 1 {
		keep = DefaultKeep
	}
	return &VersionStore{path: path, keep: keep, now: time.Now}
}

// Path returns the snapshot file location.
func (s *VersionStore) Path() string { return s.path }

func (s *VersionStore) read() (*versionsDocument, error) {
	data, err := os.ReadFile(s.path) //nolint:gosec // G304: path derived from the roadmap location
	if os.IsNotExist(err) {
		return &versionsDocument{Versions: []Version{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading versions: %w", err)
	}
	var doc versionsDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", s.path, err)
	}
	if doc.Versions == nil {
		doc.Versions = []Version{}
	}
	return &doc, nil
}

func (s *VersionStore) write(doc *versionsDocument) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding versions: %w", err)
	}
	if err := WriteFileAtomic(s.path, append(data, '\n')); err != nil {
		return fmt.Errorf("saving versions: %w", err)
	}
	return nil
}

// List returns snapshot metadata, newest first. A missing file is an empty history.
func (s *VersionStore) List() ([]VersionInfo, error) {
	doc, err := s.read()
	if err != nil {
		return nil, err
	}
	infos := make([]VersionInfo, 0, len(doc.Versions))
	for i := range doc.Versions {
		v := &doc.Versions[i]
		info := VersionInfo{
			ID:          v.ID,
			Timestamp:   v.Timestamp,
			UserName:    v.UserName,
			Description: v.Description,
		}
		if r, err := v.Roadmap(); err == nil {
			info.FeaturesCount = len(r.Features)
			info.TasksCount = r.TaskCount()
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// Get returns the snapshot with the given id.
func (s *VersionStore) Get(id string) (*Version, error) {
	doc, err := s.read()
	if err != nil {
		return nil, err
	}
	for i := range doc.Versions {
		if doc.Versions[i].ID == id {
			return &doc.Versions[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrVersionNotFound, id)
}

// Snapshot stores a copy of r at the head of the history and drops the
// oldest entries beyond the retention limit.
func (s *VersionStore) Snapshot(r *roadmap.Roadmap, author Author, description string) (*Version, error) {
	raw, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	doc, err := s.read()
	if err != nil {
		return nil, err
	}

	v := Version{
		ID:          uuid.NewString(),
		Timestamp:   s.now().UTC(),
		UserID:      author.ID,
		UserName:    author.Name,
		Description: description,
		Snapshot:    raw,
	}
	doc.Versions = append([]Version{v}, doc.Versions...)
	if len(doc.Versions) > s.keep {
		doc.Versions = doc.Versions[:s.keep]
	}
	if err := s.write(doc); err != nil {
		return nil, err
	}
	return &v, nil
}

// Restore replaces the document in docs with snapshot id. The current
// document, when present, is snapshotted first so the restore can be undone.
func (s *VersionStore) Restore(id string, docs Documents, author Author) (*roadmap.Roadmap, error) {
	v, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	restored, err := v.Roadmap()
	if err != nil {
		return nil, err
	}

	current, err := docs.Load()
	switch {
	case err == nil:
		if _, err := s.Snapshot(current, author, "Before restore to "+id); err != nil {
			return nil, err
		}
	case errors.Is(err, ErrNotFound):
	default:
		return nil, err
	}

	now := s.now().UTC()
	restored.ProjectInfo.LastSync = &now
	restored.ProjectInfo.RestoredFrom = id
	restored.ProjectInfo.LastEditedBy = author.Name
	if err := docs.Save(restored); err != nil {
		return nil, err
	}
	return restored, nil
}
