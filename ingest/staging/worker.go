package staging

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/nats-io/nats.go"
)

// commitRequestSubject carries {draft_id} requests queued after a draft is
// marked reviewed; commitQueueGroup ensures each request is handled by
// exactly one worker instance, mirroring how a NATS queue group hands a
// subject's messages to one member at a time.
const (
	commitRequestSubject = "ingest.commit.request"
	commitQueueGroup     = "commit-workers"
)

// CommitRequest asks a worker to run the commit procedure for one draft.
type CommitRequest struct {
	DraftID string `json:"draft_id"`
}

// CommitWorker subscribes to commit requests and runs them one at a time
// per worker process, serialized further per-draft by the Committer's
// advisory lock so two workers can never race the same draft.
type CommitWorker struct {
	committer *Committer
	nc        *nats.Conn
	logger    *slog.Logger
}

// NewCommitWorker builds a worker that will run committer.Commit for each
// request it receives.
func NewCommitWorker(committer *Committer, nc *nats.Conn, logger *slog.Logger) *CommitWorker {
	if logger == nil {
		logger = slog.Default()
	}
	return &CommitWorker{committer: committer, nc: nc, logger: logger}
}

// Start registers the queue subscription and returns the underlying
// *nats.Subscription so the caller can Drain it on shutdown.
func (w *CommitWorker) Start(ctx context.Context) (*nats.Subscription, error) {
	return w.nc.QueueSubscribe(commitRequestSubject, commitQueueGroup, func(msg *nats.Msg) {
		w.handle(ctx, msg)
	})
}

func (w *CommitWorker) handle(ctx context.Context, msg *nats.Msg) {
	var req CommitRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		w.logger.Error("commit worker: malformed request", "error", err)
		return
	}
	result, err := w.committer.Commit(ctx, req.DraftID)
	if err != nil {
		w.logger.Error("commit worker: commit failed", "draft_id", req.DraftID, "error", err)
		return
	}
	w.logger.Info("commit worker: committed draft", "draft_id", req.DraftID, "committed_count", result.CommittedCount, "failures", len(result.Failures))
}
