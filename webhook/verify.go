package webhook

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/WessleyAI/wessley-support-rag/store/kv"
)

// replayWindow bounds how long an inbound event id is remembered for
// duplicate-delivery detection.
const replayWindow = 10 * time.Minute

// maxClockSkew bounds how far an inbound X-Timestamp may drift from the
// receiver's clock before the delivery is rejected as stale or forged.
const maxClockSkew = 5 * time.Minute

// VerifyInbound checks an inbound webhook call's timestamp skew and HMAC
// signature, then rejects replays of an already-seen event id. Replay
// protection reuses kv.Store.Lock as a single-use marker: the first caller
// to claim eventID within replayWindow wins the lock and is treated as
// original, any concurrent or later claim is a replay.
func VerifyInbound(ctx context.Context, store kv.Store, secret, eventID, timestamp string, payload []byte, signature string) (bool, error) {
	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return false, nil
	}
	skew := time.Since(time.Unix(ts, 0))
	if skew < 0 {
		skew = -skew
	}
	if skew > maxClockSkew {
		return false, nil
	}

	if !Verify(secret, timestamp, payload, signature) {
		return false, nil
	}

	_, claimed, err := store.Lock(ctx, fmt.Sprintf("webhook:seen:%s", eventID), replayWindow)
	if err != nil {
		return false, fmt.Errorf("webhook: replay check: %w", err)
	}
	return claimed, nil
}
