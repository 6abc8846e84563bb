// internal/adapters/out/firestore/watch.go
package firestore

import (
	"context"
	"log"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// watchQuery turns a Firestore snapshot listener into the subscription shape
// the domain ports expose: every server-side change pushes a full snapshot
// to onSnap, and the returned stop func cancels the listener.
//
// onSnap runs on the listener goroutine; consumers are expected to do their
// own locking.
func watchQuery(
	ctx context.Context,
	tag string,
	q firestore.Query,
	onSnap func(*firestore.QuerySnapshot),
) (func(), error) {
	ctx, cancel := context.WithCancel(ctx)
	it := q.Snapshots(ctx)

	go func() {
		defer it.Stop()
		for {
			snap, err := it.Next()
			if err != nil {
				// Canceled means the subscriber called stop; anything else
				// ends the stream and is worth a log line.
				if status.Code(err) == codes.Canceled || ctx.Err() != nil {
					return
				}
				log.Printf("[fswatch] %s: snapshot stream ended: %v", tag, err)
				return
			}
			if snap == nil {
				continue
			}
			onSnap(snap)
		}
	}()

	return cancel, nil
}
