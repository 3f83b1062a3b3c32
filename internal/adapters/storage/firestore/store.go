package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/lifeos-app/echo/internal/domain"
)

// Store is the Firestore-backed domain.ThreadStore, for deployments where
// conversation history should outlive the process. History per thread is
// bounded by maxTurns, same as the in-memory store; past-cap documents are
// deleted on append.
type Store struct {
	client   *firestore.Client
	maxTurns int
}

// NewStore creates a Firestore store for the given project (ECHO_GCP_PROJECT).
// maxTurns <= 0 disables eviction.
func NewStore(ctx context.Context, projectID string, maxTurns int) (*Store, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID is required for Firestore store")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	return &Store{client: client, maxTurns: maxTurns}, nil
}

func (s *Store) threadsCol() *firestore.CollectionRef {
	return s.client.Collection("threads")
}

func (s *Store) threadDoc(id domain.ThreadID) *firestore.DocumentRef {
	return s.threadsCol().Doc(string(id))
}

func (s *Store) messagesCol(threadID domain.ThreadID) *firestore.CollectionRef {
	return s.threadDoc(threadID).Collection("messages")
}

type threadDoc struct {
	CreatedAt time.Time `firestore:"created_at"`
	UpdatedAt time.Time `firestore:"updated_at"`
}

type messageDoc struct {
	ThreadID  string    `firestore:"thread_id"`
	Author    string    `firestore:"author"`
	Agent     string    `firestore:"agent"`
	Text      string    `firestore:"text"`
	CreatedAt time.Time `firestore:"created_at"`
}

func (s *Store) GetThread(id domain.ThreadID) (*domain.Thread, error) {
	ctx := context.Background()

	snap, err := s.threadDoc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, domain.ErrThreadNotFound
		}
		return nil, fmt.Errorf("firestore GetThread: %w", err)
	}

	var doc threadDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("firestore GetThread decode: %w", err)
	}

	return &domain.Thread{
		ID:        id,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}, nil
}

func (s *Store) History(threadID domain.ThreadID, limit int) ([]*domain.Message, error) {
	ctx := context.Background()

	// Most recent `limit` turns, returned oldest first.
	q := s.messagesCol(threadID).OrderBy("created_at", firestore.Desc)
	if limit > 0 {
		q = q.Limit(limit)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	var out []*domain.Message
	for {
		snap, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			return nil, fmt.Errorf("firestore History: %w", err)
		}

		var doc messageDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode messageDoc: %w", err)
		}

		out = append(out, &domain.Message{
			ID:        domain.MessageID(snap.Ref.ID),
			ThreadID:  threadID,
			Author:    domain.Role(doc.Author),
			Agent:     domain.AgentName(doc.Agent),
			Text:      doc.Text,
			CreatedAt: doc.CreatedAt,
		})
	}

	// Reverse into insertion order.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func (s *Store) Append(msg *domain.Message) error {
	ctx := context.Background()

	doc := messageDoc{
		ThreadID:  string(msg.ThreadID),
		Author:    string(msg.Author),
		Agent:     string(msg.Agent),
		Text:      msg.Text,
		CreatedAt: msg.CreatedAt,
	}

	if _, err := s.messagesCol(msg.ThreadID).Doc(string(msg.ID)).Set(ctx, doc); err != nil {
		return fmt.Errorf("firestore Append: %w", err)
	}

	// Thread doc is created on first append, touched on every append.
	meta := map[string]interface{}{
		"updated_at": msg.CreatedAt,
	}
	snap, err := s.threadDoc(msg.ThreadID).Get(ctx)
	if err != nil || !snap.Exists() {
		meta["created_at"] = msg.CreatedAt
	}
	if _, err := s.threadDoc(msg.ThreadID).Set(ctx, meta, firestore.MergeAll); err != nil {
		return fmt.Errorf("firestore Append thread meta: %w", err)
	}

	if s.maxTurns > 0 {
		if err := s.evictOldest(ctx, msg.ThreadID); err != nil {
			return fmt.Errorf("firestore Append evict: %w", err)
		}
	}
	return nil
}

// evictOldest deletes every message document beyond the newest maxTurns.
func (s *Store) evictOldest(ctx context.Context, threadID domain.ThreadID) error {
	iter := s.messagesCol(threadID).
		OrderBy("created_at", firestore.Desc).
		Offset(s.maxTurns).
		Documents(ctx)
	defer iter.Stop()

	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			return nil
		}
		if err != nil {
			return err
		}
		if _, err := snap.Ref.Delete(ctx); err != nil {
			return err
		}
	}
}
