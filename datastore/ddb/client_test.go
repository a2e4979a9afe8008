/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/activerecord/config"
)

func TestNewClientLeavesRetriesToProvider(t *testing.T) {
	c, err := NewClient(context.Background(), config.Storage{
		Region:         "us-east-1",
		Endpoint:       "localhost:8000",
		ApplicationKey: "key",
		PrivateKey:     "secret",
	})
	require.NoError(t, err)

	opts := c.Options()
	assert.Equal(t, 1, opts.RetryMaxAttempts)
	assert.Equal(t, "http://localhost:8000", aws.ToString(opts.BaseEndpoint))
	assert.Equal(t, "us-east-1", opts.Region)
}
