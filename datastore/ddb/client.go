/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/suparena/activerecord/config"
)

// Client is the subset of the DynamoDB API the provider uses.
// *dynamodb.Client satisfies it.
type Client interface {
	dynamodb.ScanAPIClient
	dynamodb.DescribeTableAPIClient
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// NewClient builds a DynamoDB client from storage settings. Static
// credentials are used when an application key is set; otherwise the
// default AWS chain applies. The SDK retryer is limited to one attempt
// because the Provider retries itself (see WithRetries).
func NewClient(ctx context.Context, s config.Storage) (*dynamodb.Client, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if s.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(s.Region))
	}
	if s.ApplicationKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(s.ApplicationKey, s.PrivateKey, s.AuthToken),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	return dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		o.RetryMaxAttempts = 1
		if s.Endpoint != "" {
			o.BaseEndpoint = aws.String(endpointURL(s.Endpoint, s.Secure))
		}
	}), nil
}

// NewFromConfig builds a client with NewClient and wraps it in a Provider.
// A non-empty cluster becomes the table name prefix.
func NewFromConfig(ctx context.Context, s config.Storage, opts ...Option) (*Provider, error) {
	client, err := NewClient(ctx, s)
	if err != nil {
		return nil, err
	}
	if s.Cluster != "" {
		opts = append([]Option{WithTablePrefix(s.Cluster + "-")}, opts...)
	}
	return New(client, opts...), nil
}

func endpointURL(endpoint string, secure bool) string {
	if strings.Contains(endpoint, "://") {
		return endpoint
	}
	if secure {
		return "https://" + endpoint
	}
	return "http://" + endpoint
}
