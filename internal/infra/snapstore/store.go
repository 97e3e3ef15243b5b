// Package snapstore records queue snapshots as Git plumbing objects.
// A snapshot is a tree holding the YAML-encoded index plus one blob per
// task body, pinned by a ref under the configured namespace so it never
// touches branches or the worktree.
package snapstore

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
	"gopkg.in/yaml.v3"

	"github.com/runoshun/taskq/internal/domain"
)

const (
	indexEntryName = "index.yaml"
	itemsEntryName = "items"

	snapshotStampFormat = "20060102T150405Z"
)

// Store implements domain.SnapshotStore using Git plumbing (refs and
// blobs).
//
// Ref layout:
//
//	refs/<namespace>/
//	  current              → symbolic ref to the latest snapshot
//	  snapshots/
//	    <stamp>_<seq>      → tree (index.yaml, items/<id>.md)
type Store struct {
	repo      *git.Repository
	namespace string
	mu        sync.RWMutex
}

// Open locates the Git repository enclosing dir and returns a snapshot
// store scoped to the given ref namespace. Outside a repository it
// fails with domain.ErrNotGitRepository.
func Open(dir, namespace string) (*Store, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, domain.ErrNotGitRepository
		}
		return nil, fmt.Errorf("open git repository: %w", err)
	}
	return NewWithRepo(repo, namespace), nil
}

// NewWithRepo creates a Store backed by an existing repository instance.
func NewWithRepo(repo *git.Repository, namespace string) *Store {
	if namespace == "" {
		namespace = domain.DefaultNamespace
	}
	return &Store{repo: repo, namespace: namespace}
}

func (s *Store) refPrefix() string {
	return "refs/" + s.namespace + "/"
}

func (s *Store) snapshotRef(label string) plumbing.ReferenceName {
	return plumbing.ReferenceName(s.refPrefix() + "snapshots/" + label)
}

func (s *Store) currentRef() plumbing.ReferenceName {
	return plumbing.ReferenceName(s.refPrefix() + "current")
}

// Save captures the index and the task bodies as one snapshot tree and
// points the current ref at it.
func (s *Store) Save(ix *domain.Index, bodies map[string]string) (domain.SnapshotInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshots, err := s.listLocked()
	if err != nil {
		return domain.SnapshotInfo{}, err
	}
	seq := 1
	if len(snapshots) > 0 {
		seq = snapshots[len(snapshots)-1].Seq + 1
	}

	treeHash, err := s.buildSnapshotTree(ix, bodies)
	if err != nil {
		return domain.SnapshotInfo{}, err
	}

	label := fmt.Sprintf("%s_%03d", time.Now().UTC().Format(snapshotStampFormat), seq)
	refName := s.snapshotRef(label)
	if err := s.repo.Storer.SetReference(plumbing.NewHashReference(refName, treeHash)); err != nil {
		return domain.SnapshotInfo{}, fmt.Errorf("set snapshot ref: %w", err)
	}

	current := plumbing.NewSymbolicReference(s.currentRef(), refName)
	if err := s.repo.Storer.SetReference(current); err != nil {
		return domain.SnapshotInfo{}, fmt.Errorf("set current ref: %w", err)
	}

	return domain.SnapshotInfo{Ref: string(refName), Label: label, Seq: seq}, nil
}

// List returns all snapshots in the namespace, oldest first.
func (s *Store) List() ([]domain.SnapshotInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.listLocked()
}

func (s *Store) listLocked() ([]domain.SnapshotInfo, error) {
	refs, err := s.repo.References()
	if err != nil {
		return nil, fmt.Errorf("list refs: %w", err)
	}

	prefix := s.refPrefix() + "snapshots/"
	var snapshots []domain.SnapshotInfo
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		refName := string(ref.Name())
		if !strings.HasPrefix(refName, prefix) {
			return nil
		}

		// Label format: <stamp>_<seq>
		label := refName[len(prefix):]
		parts := splitLast(label, "_")
		if len(parts) != 2 {
			return nil
		}
		seq, parseErr := strconv.Atoi(parts[1])
		if parseErr != nil {
			return nil
		}

		snapshots = append(snapshots, domain.SnapshotInfo{
			Ref:   refName,
			Label: label,
			Seq:   seq,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(snapshots, func(a, b domain.SnapshotInfo) int {
		if a.Seq != b.Seq {
			return a.Seq - b.Seq
		}
		return strings.Compare(a.Label, b.Label)
	})

	return snapshots, nil
}

// Restore reads the snapshot named by ref and returns its index and
// bodies. The ref may be a full ref name, a bare label, or "current".
// Restoring also repoints the current ref at the snapshot.
func (s *Store) Restore(ref string) (*domain.Index, map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	resolved, err := s.repo.Reference(s.resolveRefName(ref), true)
	if err != nil {
		if err == plumbing.ErrReferenceNotFound {
			return nil, nil, fmt.Errorf("%w: %s", domain.ErrSnapshotNotFound, ref)
		}
		return nil, nil, fmt.Errorf("get snapshot ref: %w", err)
	}

	tree, err := s.repo.TreeObject(resolved.Hash())
	if err != nil {
		return nil, nil, fmt.Errorf("get snapshot tree: %w", err)
	}

	var ix *domain.Index
	bodies := make(map[string]string)
	for _, entry := range tree.Entries {
		switch entry.Name {
		case indexEntryName:
			data, readErr := s.readBlob(entry.Hash)
			if readErr != nil {
				return nil, nil, fmt.Errorf("read snapshot index: %w", readErr)
			}
			var decoded domain.Index
			if decodeErr := yaml.Unmarshal(data, &decoded); decodeErr != nil {
				return nil, nil, fmt.Errorf("%w: %v", domain.ErrCorruptStore, decodeErr)
			}
			ix = &decoded
		case itemsEntryName:
			items, itemsErr := s.repo.TreeObject(entry.Hash)
			if itemsErr != nil {
				return nil, nil, fmt.Errorf("get items tree: %w", itemsErr)
			}
			for _, item := range items.Entries {
				data, readErr := s.readBlob(item.Hash)
				if readErr != nil {
					return nil, nil, fmt.Errorf("read body %s: %w", item.Name, readErr)
				}
				bodies[strings.TrimSuffix(item.Name, ".md")] = string(data)
			}
		}
	}
	if ix == nil {
		return nil, nil, fmt.Errorf("%w: snapshot is missing %s", domain.ErrCorruptStore, indexEntryName)
	}

	current := plumbing.NewSymbolicReference(s.currentRef(), resolved.Name())
	if err := s.repo.Storer.SetReference(current); err != nil {
		return nil, nil, fmt.Errorf("set current ref: %w", err)
	}

	return ix, bodies, nil
}

// resolveRefName maps the user-facing ref argument to a ref name.
func (s *Store) resolveRefName(ref string) plumbing.ReferenceName {
	switch {
	case strings.HasPrefix(ref, "refs/"):
		return plumbing.ReferenceName(ref)
	case ref == "" || ref == "current":
		return s.currentRef()
	default:
		return s.snapshotRef(ref)
	}
}

// buildSnapshotTree writes the index blob and the items subtree, then
// the root tree tying them together.
func (s *Store) buildSnapshotTree(ix *domain.Index, bodies map[string]string) (plumbing.Hash, error) {
	indexData, err := yaml.Marshal(ix)
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("marshal index: %w", err)
	}
	indexHash, err := s.writeBlob(indexData)
	if err != nil {
		return plumbing.ZeroHash, err
	}

	itemsHash, err := s.buildItemsTree(bodies)
	if err != nil {
		return plumbing.ZeroHash, err
	}

	return s.writeTree([]object.TreeEntry{
		{Name: indexEntryName, Mode: filemode.Regular, Hash: indexHash},
		{Name: itemsEntryName, Mode: filemode.Dir, Hash: itemsHash},
	})
}

// buildItemsTree creates a tree with one blob per task body.
func (s *Store) buildItemsTree(bodies map[string]string) (plumbing.Hash, error) {
	entries := make([]object.TreeEntry, 0, len(bodies))
	for id, body := range bodies {
		hash, err := s.writeBlob([]byte(body))
		if err != nil {
			return plumbing.ZeroHash, err
		}
		entries = append(entries, object.TreeEntry{
			Name: id + ".md",
			Mode: filemode.Regular,
			Hash: hash,
		})
	}

	// Sort entries by name for a stable tree hash.
	slices.SortFunc(entries, func(a, b object.TreeEntry) int {
		return strings.Compare(a.Name, b.Name)
	})

	return s.writeTree(entries)
}

func (s *Store) writeTree(entries []object.TreeEntry) (plumbing.Hash, error) {
	tree := &object.Tree{Entries: entries}

	obj := s.repo.Storer.NewEncodedObject()
	if err := tree.Encode(obj); err != nil {
		return plumbing.ZeroHash, fmt.Errorf("encode tree: %w", err)
	}

	hash, err := s.repo.Storer.SetEncodedObject(obj)
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("store tree: %w", err)
	}
	return hash, nil
}

// writeBlob writes data to a blob and returns the hash.
func (s *Store) writeBlob(data []byte) (plumbing.Hash, error) {
	obj := s.repo.Storer.NewEncodedObject()
	obj.SetType(plumbing.BlobObject)
	obj.SetSize(int64(len(data)))

	writer, err := obj.Writer()
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("create blob writer: %w", err)
	}
	if _, writeErr := writer.Write(data); writeErr != nil {
		_ = writer.Close()
		return plumbing.ZeroHash, fmt.Errorf("write blob: %w", writeErr)
	}
	_ = writer.Close()

	hash, err := s.repo.Storer.SetEncodedObject(obj)
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("store blob: %w", err)
	}
	return hash, nil
}

// readBlob reads blob contents by hash.
func (s *Store) readBlob(hash plumbing.Hash) ([]byte, error) {
	blob, err := s.repo.BlobObject(hash)
	if err != nil {
		return nil, fmt.Errorf("get blob: %w", err)
	}

	reader, err := blob.Reader()
	if err != nil {
		return nil, fmt.Errorf("read blob: %w", err)
	}
	defer func() { _ = reader.Close() }()

	data := make([]byte, blob.Size)
	if _, err := io.ReadFull(reader, data); err != nil {
		return nil, fmt.Errorf("read blob data: %w", err)
	}
	return data, nil
}

// splitLast splits s by the last occurrence of sep.
func splitLast(s, sep string) []string {
	idx := strings.LastIndex(s, sep)
	if idx < 0 {
		return []string{s}
	}
	return []string{s[:idx], s[idx+1:]}
}

// Ensure Store implements SnapshotStore.
var _ domain.SnapshotStore = (*Store)(nil)
