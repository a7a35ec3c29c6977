package drafts

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/qops/missionctl/internal/models"
	"gorm.io/gorm"
)

// sendTimeout bounds the mail CLI call so a hung helper can't wedge the
// request handler.
const sendTimeout = 30 * time.Second

// SendResult reports the outcome of a send attempt.
type SendResult struct {
	Success bool   `json:"success"`
	Output  string `json:"output,omitempty"`
	Error   string `json:"error,omitempty"`
}

// runner executes the mail command; swapped out in tests.
var runner = func(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Send delivers a draft through the gog mail CLI and, on success, marks the
// draft sent. CLI failure leaves the draft untouched so it can be retried.
func Send(ctx context.Context, db *gorm.DB, id, account string) (*SendResult, error) {
	row, err := Get(db, id)
	if err != nil {
		return nil, err
	}
	if row.Status == models.DraftSent {
		return nil, fmt.Errorf("drafts: draft already sent: %s", id)
	}

	args := []string{"gmail", "send",
		"--to", row.To,
		"--subject", row.Subject,
		"--body", row.Body,
	}
	if account != "" {
		args = append(args, "--account", account)
	}
	if row.ThreadID != "" {
		args = append(args, "--thread", row.ThreadID)
	}

	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	out, err := runner(ctx, "gog", args...)
	if err != nil {
		return &SendResult{
			Success: false,
			Output:  strings.TrimSpace(string(out)),
			Error:   err.Error(),
		}, nil
	}

	if err := MarkSent(db, id); err != nil {
		return nil, err
	}
	return &SendResult{Success: true, Output: strings.TrimSpace(string(out))}, nil
}
