// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package sweep

import (
	"context"
	"errors"
	"time"

	"github.com/apex/log"
	"github.com/aws/smithy-go"
)

// DefaultRetryDelay is the pause between API Gateway delete attempts.
const DefaultRetryDelay = 60 * time.Second

// sleeper pauses for d or until ctx is done.
type sleeper func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// retryForever calls fn until it succeeds, sleeping delay after each failure.
// There is no attempt limit; only ctx ends the loop early.
func retryForever(ctx context.Context, delay time.Duration, sleep sleeper, entry *log.Entry, fn func(context.Context) error) error {
	for attempt := 1; ; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}

		fields := log.Fields{"attempt": attempt, "retry_in": delay}
		if code := errorCode(err); code != "" {
			fields["code"] = code
		}
		entry.WithError(err).WithFields(fields).Error("Delete failed, retrying")

		if err := sleep(ctx, delay); err != nil {
			return err
		}
	}
}

// errorCode returns the AWS error code carried by err, if any.
func errorCode(err error) string {
	var ae smithy.APIError
	if errors.As(err, &ae) {
		return ae.ErrorCode()
	}
	return ""
}
