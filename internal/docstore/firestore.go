package docstore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Firestore reads and writes presentation documents in one collection.
type Firestore struct {
	client     *firestore.Client
	collection string
	// guard makes UpdateSlides fail when the document changed after it was read.
	guard bool
}

// Open connects to Firestore with a service-account key file, or application
// default credentials when the path is empty.
func Open(ctx context.Context, projectID, credentialsFile, collection string, guard bool) (*Firestore, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	if projectID == "" {
		projectID = firestore.DetectProjectID
	}

	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("create firestore client: %w", err)
	}

	return &Firestore{client: client, collection: collection, guard: guard}, nil
}

// Get fetches a presentation. A missing document yields ErrNotFound.
func (f *Firestore) Get(ctx context.Context, id string) (*Presentation, error) {
	snap, err := f.client.Collection(f.collection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound || (err == nil && !snap.Exists()) {
		return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, f.collection, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", f.collection, id, err)
	}

	return &Presentation{
		ID:         id,
		Slides:     slidesFrom(snap.Data()[FieldSlides]),
		UpdateTime: snap.UpdateTime,
	}, nil
}

// UpdateSlides replaces the whole slides array. With the guard enabled the
// write only succeeds if the document is unchanged since readAt.
func (f *Firestore) UpdateSlides(ctx context.Context, id string, slides []map[string]interface{}, readAt time.Time) error {
	var preconds []firestore.Precondition
	if f.guard && !readAt.IsZero() {
		preconds = append(preconds, firestore.LastUpdateTime(readAt))
	}

	_, err := f.client.Collection(f.collection).Doc(id).Update(ctx, []firestore.Update{
		{Path: FieldSlides, Value: slides},
	}, preconds...)
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", f.collection, id, err)
	}
	return nil
}

func (f *Firestore) Close() error {
	return f.client.Close()
}
