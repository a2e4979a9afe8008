/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"

	"github.com/suparena/activerecord/errors"
)

func code(t errors.Type) int {
	return errors.CodeOf(errors.New(errors.DataAccess, t, ""))
}

// codeOf classifies a DynamoDB failure into a taxonomy code.
func codeOf(err error) int {
	var (
		notFound   *types.ResourceNotFoundException
		throughput *types.ProvisionedThroughputExceededException
		limit      *types.RequestLimitExceeded
		internal   *types.InternalServerError
		condition  *types.ConditionalCheckFailedException
		apiErr     smithy.APIError
	)
	switch {
	case stderrors.As(err, &notFound):
		return code(errors.ResourceNotFound)
	case stderrors.As(err, &throughput):
		return code(errors.ProvisionedThroughputExceeded)
	case stderrors.As(err, &limit):
		return code(errors.Throttling)
	case stderrors.As(err, &internal):
		return code(errors.ResourceUnavailable)
	case stderrors.As(err, &condition):
		return code(errors.InvalidRequest)
	case stderrors.Is(err, context.DeadlineExceeded):
		return code(errors.ResourceUnavailable)
	case stderrors.As(err, &apiErr):
		switch apiErr.ErrorCode() {
		case "ThrottlingException", "Throttling", "TooManyRequestsException":
			return code(errors.Throttling)
		case "ValidationException", "SerializationException":
			return code(errors.InvalidRequest)
		case "AccessDeniedException":
			return code(errors.AccessNotAllowed)
		case "UnrecognizedClientException", "InvalidSignatureException", "ExpiredTokenException":
			return code(errors.Unauthentication)
		case "ServiceUnavailable", "ServiceUnavailableException":
			return code(errors.ResourceUnavailable)
		}
	}
	return errors.CodeOf(err)
}

func isConditionFailed(err error) bool {
	var cfe *types.ConditionalCheckFailedException
	return stderrors.As(err, &cfe)
}

// isRetryableError reports whether another attempt may succeed.
func isRetryableError(err error) bool {
	switch codeOf(err) {
	case code(errors.Throttling), code(errors.ProvisionedThroughputExceeded):
		return true
	}
	var internal *types.InternalServerError
	if stderrors.As(err, &internal) {
		return true
	}
	var r interface{ IsRetryable() bool }
	if stderrors.As(err, &r) {
		return r.IsRetryable()
	}
	return false
}

// retry runs call until it succeeds, fails with a non-retryable error, or
// the attempts are used up. Backoff grows linearly.
func retry[T any](ctx context.Context, p *Provider, op string, call func(context.Context) (T, error)) (T, error) {
	var (
		out T
		err error
	)
	for attempt := 0; attempt <= p.opts.maxRetries; attempt++ {
		out, err = call(ctx)
		if err == nil || !isRetryableError(err) || attempt == p.opts.maxRetries {
			return out, err
		}

		backoff := time.Duration(attempt+1) * p.opts.retryBackoff
		p.log.Warn().Err(err).Str("call", op).Int("attempt", attempt+1).Dur("backoff", backoff).Msg("retrying")
		select {
		case <-ctx.Done():
			return out, ctx.Err()
		case <-time.After(backoff):
		}
	}
	return out, err
}
