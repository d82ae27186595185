package firestore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/studycircle/studycircle/internal/domain"
)

// Store persists sessions and conversation snapshots in Firestore.
// Implements domain.SessionStore and domain.StateStore.
type Store struct {
	client *firestore.Client
}

func NewStore(ctx context.Context, projectID string) (*Store, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID is required for Firestore store")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	return &Store{client: client}, nil
}

// ─────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────

func (s *Store) sessionsCol() *firestore.CollectionRef {
	return s.client.Collection("sessions")
}

func (s *Store) sessionDoc(id domain.SessionID) *firestore.DocumentRef {
	return s.sessionsCol().Doc(string(id))
}

func (s *Store) stateDoc(id domain.SessionID) *firestore.DocumentRef {
	return s.sessionDoc(id).Collection("state").Doc("snapshot")
}

// ─────────────────────────────────────────
// Firestore Types
// ─────────────────────────────────────────

type sessionDoc struct {
	Title     string    `firestore:"title"`
	CreatedAt time.Time `firestore:"created_at"`
	UpdatedAt time.Time `firestore:"updated_at"`
}

// stateDocData stores the snapshot as one JSON blob so the persisted layout
// matches the other backends byte for byte.
type stateDocData struct {
	Snapshot  string    `firestore:"snapshot_json"`
	UpdatedAt time.Time `firestore:"updated_at"`
}

// ─────────────────────────────────────────
// SessionStore implementation
// ─────────────────────────────────────────

func (s *Store) CreateSession(session *domain.Session) error {
	ctx := context.Background()

	doc := sessionDoc{
		Title:     session.Title,
		CreatedAt: session.CreatedAt,
		UpdatedAt: session.UpdatedAt,
	}

	_, err := s.sessionDoc(session.ID).Create(ctx, doc)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return domain.ErrSessionExists
		}
		return fmt.Errorf("firestore CreateSession: %w", err)
	}
	return nil
}

func (s *Store) UpdateSession(session *domain.Session) error {
	ctx := context.Background()

	doc := map[string]interface{}{
		"title":      session.Title,
		"created_at": session.CreatedAt,
		"updated_at": session.UpdatedAt,
	}

	_, err := s.sessionDoc(session.ID).Set(ctx, doc, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("firestore UpdateSession: %w", err)
	}
	return nil
}

func (s *Store) GetSession(id domain.SessionID) (*domain.Session, error) {
	ctx := context.Background()

	snap, err := s.sessionDoc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("firestore GetSession: %w", err)
	}

	var doc sessionDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("firestore GetSession decode: %w", err)
	}

	return &domain.Session{
		ID:        id,
		Title:     doc.Title,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}, nil
}

func (s *Store) ListSessions(limit int) ([]*domain.Session, error) {
	ctx := context.Background()

	q := s.sessionsCol().OrderBy("updated_at", firestore.Desc)
	if limit > 0 {
		q = q.Limit(limit)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	var out []*domain.Session
	for {
		snap, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			return nil, fmt.Errorf("firestore ListSessions: %w", err)
		}

		var doc sessionDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode sessionDoc: %w", err)
		}

		out = append(out, &domain.Session{
			ID:        domain.SessionID(snap.Ref.ID),
			Title:     doc.Title,
			CreatedAt: doc.CreatedAt,
			UpdatedAt: doc.UpdatedAt,
		})
	}
	return out, nil
}

// ─────────────────────────────────────────
// StateStore implementation
// ─────────────────────────────────────────

func (s *Store) SaveState(id domain.SessionID, stateSnap *domain.StateSnapshot) error {
	ctx := context.Background()

	data, err := json.Marshal(stateSnap)
	if err != nil {
		return fmt.Errorf("firestore SaveState encode: %w", err)
	}

	doc := stateDocData{
		Snapshot:  string(data),
		UpdatedAt: time.Now(),
	}

	_, err = s.stateDoc(id).Set(ctx, doc)
	if err != nil {
		return fmt.Errorf("firestore SaveState: %w", err)
	}
	return nil
}

func (s *Store) LoadState(id domain.SessionID) (*domain.StateSnapshot, error) {
	ctx := context.Background()

	snap, err := s.stateDoc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("firestore LoadState: %w", err)
	}

	var doc stateDocData
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("firestore LoadState decode: %w", err)
	}

	var out domain.StateSnapshot
	if err := json.Unmarshal([]byte(doc.Snapshot), &out); err != nil {
		return nil, fmt.Errorf("firestore LoadState parse: %w", err)
	}
	return &out, nil
}
