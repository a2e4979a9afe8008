/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/suparena/activerecord/datastore"
	"github.com/suparena/activerecord/errors"
	"github.com/suparena/activerecord/storagemodels"
)

// KeySchema names a table's key attributes. Secondary is empty for tables
// with only a partition key.
type KeySchema struct {
	Primary   string
	Secondary string
}

type options struct {
	timeout      time.Duration
	maxRetries   int
	retryBackoff time.Duration
	synchronous  bool
	prefix       string
	keys         map[string]KeySchema
	log          *zerolog.Logger
}

// Option configures a Provider.
type Option func(*options)

// WithTimeout bounds each call, retries included. Default 10s.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithRetries sets how often a retryable failure is retried and the base
// backoff, which grows linearly per attempt. Default 3 and 100ms. These are
// the only retries for clients built by NewClient. A client constructed
// elsewhere keeps its own SDK retryer, and the two multiply.
func WithRetries(n int, backoff time.Duration) Option {
	return func(o *options) { o.maxRetries, o.retryBackoff = n, backoff }
}

// Synchronous runs each call and its callback on the calling goroutine.
func Synchronous() Option {
	return func(o *options) { o.synchronous = true }
}

// WithTablePrefix is prepended to every table name.
func WithTablePrefix(prefix string) Option {
	return func(o *options) { o.prefix = prefix }
}

// WithKeySchema fixes a table's key names so DescribeTable is never called
// for it. table is the unprefixed name.
func WithKeySchema(table string, keys KeySchema) Option {
	return func(o *options) {
		if o.keys == nil {
			o.keys = make(map[string]KeySchema)
		}
		o.keys[table] = keys
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.log = &l }
}

// Provider implements datastore.ConnectionProvider over DynamoDB.
type Provider struct {
	client Client
	opts   options
	log    zerolog.Logger

	mu   sync.Mutex
	keys map[string]KeySchema
}

// New wraps an existing client.
func New(client Client, opts ...Option) *Provider {
	o := options{timeout: 10 * time.Second, maxRetries: 3, retryBackoff: 100 * time.Millisecond}
	for _, opt := range opts {
		opt(&o)
	}
	l := log.Logger
	if o.log != nil {
		l = *o.log
	}

	keys := make(map[string]KeySchema, len(o.keys))
	for table, k := range o.keys {
		keys[table] = k
	}
	return &Provider{
		client: client,
		opts:   o,
		log:    l.With().Str("provider", "dynamodb").Logger(),
		keys:   keys,
	}
}

func (p *Provider) Table(name string) datastore.TableHandle {
	return &table{p: p, name: name}
}

// run executes call with a timeout, on a new goroutine unless synchronous.
func (p *Provider) run(call func(ctx context.Context)) {
	exec := func() {
		ctx, cancel := context.WithTimeout(context.Background(), p.opts.timeout)
		defer cancel()
		call(ctx)
	}
	if p.opts.synchronous {
		exec()
		return
	}
	go exec()
}

func (p *Provider) tableName(name string) *string {
	return aws.String(p.opts.prefix + name)
}

// keySchema returns the table's key names, describing the table on first
// use.
func (p *Provider) keySchema(ctx context.Context, name string) (KeySchema, error) {
	p.mu.Lock()
	k, ok := p.keys[name]
	p.mu.Unlock()
	if ok {
		return k, nil
	}

	out, err := retry(ctx, p, "DescribeTable", func(ctx context.Context) (*dynamodb.DescribeTableOutput, error) {
		return p.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: p.tableName(name)})
	})
	if err != nil {
		return KeySchema{}, err
	}
	if out.Table == nil {
		return KeySchema{}, fmt.Errorf("describe %s: no table description", name)
	}
	for _, el := range out.Table.KeySchema {
		switch el.KeyType {
		case types.KeyTypeHash:
			k.Primary = aws.ToString(el.AttributeName)
		case types.KeyTypeRange:
			k.Secondary = aws.ToString(el.AttributeName)
		}
	}
	if k.Primary == "" {
		return KeySchema{}, fmt.Errorf("describe %s: no partition key", name)
	}

	p.mu.Lock()
	p.keys[name] = k
	p.mu.Unlock()
	return k, nil
}

func (p *Provider) fail(onError datastore.ErrorFunc, op, table string, err error) {
	code := codeOf(err)
	p.log.Debug().Err(err).Str("call", op).Str("table", table).Int("code", code).Msg("dynamodb call failed")
	onError(code, err.Error())
}

type table struct {
	p     *Provider
	name  string
	conds []storagemodels.Condition
}

func (t *table) Name() string { return t.name }

func (t *table) Item(pk, sk storagemodels.Value) datastore.ItemHandle {
	return &item{p: t.p, table: t.name, pk: pk, sk: sk}
}

func (t *table) Where(conds ...storagemodels.Condition) datastore.TableHandle {
	merged := make([]storagemodels.Condition, 0, len(t.conds)+len(conds))
	merged = append(merged, t.conds...)
	merged = append(merged, conds...)
	return &table{p: t.p, name: t.name, conds: merged}
}

// GetItems scans the whole table with a server side filter. Results are
// re-checked with Condition.Matches so kind mismatches never match.
func (t *table) GetItems(onSnapshot datastore.SnapshotFunc, onError datastore.ErrorFunc) {
	t.p.run(func(ctx context.Context) {
		input := &dynamodb.ScanInput{TableName: t.p.tableName(t.name)}
		if len(t.conds) > 0 {
			expr, err := filterExpression(t.conds)
			if err != nil {
				t.p.fail(onError, "Scan", t.name, err)
				return
			}
			input.FilterExpression = expr.Filter()
			input.ExpressionAttributeNames = expr.Names()
			input.ExpressionAttributeValues = expr.Values()
		}

		keys, err := t.p.keySchema(ctx, t.name)
		if err != nil {
			t.p.fail(onError, "DescribeTable", t.name, err)
			return
		}

		var snaps []*datastore.Snapshot
		pages := dynamodb.NewScanPaginator(t.p.client, input)
		for pages.HasMorePages() {
			page, err := retry(ctx, t.p, "Scan", func(ctx context.Context) (*dynamodb.ScanOutput, error) {
				return pages.NextPage(ctx)
			})
			if err != nil {
				t.p.fail(onError, "Scan", t.name, err)
				return
			}
			for _, raw := range page.Items {
				attrs := t.p.attributes(t.name, raw)
				if !storagemodels.MatchAll(attrs, t.conds) {
					continue
				}
				snaps = append(snaps, &datastore.Snapshot{
					Attributes: attrs,
					Origin:     &item{p: t.p, table: t.name, pk: attrs[keys.Primary], sk: attrs[keys.Secondary]},
				})
			}
		}

		for _, s := range snaps {
			onSnapshot(s)
		}
		onSnapshot(nil)
	})
}

type item struct {
	p      *Provider
	table  string
	pk, sk storagemodels.Value
}

func (i *item) key(ctx context.Context) (map[string]types.AttributeValue, KeySchema, error) {
	keys, err := i.p.keySchema(ctx, i.table)
	if err != nil {
		return nil, keys, err
	}
	if i.pk.IsZero() {
		return nil, keys, errors.NewValidationError(keys.Primary, "item has no primary key")
	}
	key := map[string]types.AttributeValue{keys.Primary: attributeOf(i.pk)}
	if keys.Secondary != "" {
		if i.sk.IsZero() {
			return nil, keys, errors.NewValidationError(keys.Secondary, "item has no secondary key")
		}
		key[keys.Secondary] = attributeOf(i.sk)
	}
	return key, keys, nil
}

func (i *item) Get(onSnapshot datastore.SnapshotFunc, onError datastore.ErrorFunc) {
	i.p.run(func(ctx context.Context) {
		key, _, err := i.key(ctx)
		if err != nil {
			i.p.fail(onError, "GetItem", i.table, err)
			return
		}
		out, err := retry(ctx, i.p, "GetItem", func(ctx context.Context) (*dynamodb.GetItemOutput, error) {
			return i.p.client.GetItem(ctx, &dynamodb.GetItemInput{
				TableName:      i.p.tableName(i.table),
				Key:            key,
				ConsistentRead: aws.Bool(true),
			})
		})
		if err != nil {
			i.p.fail(onError, "GetItem", i.table, err)
			return
		}

		snap := &datastore.Snapshot{}
		if len(out.Item) > 0 {
			snap.Attributes = i.p.attributes(i.table, out.Item)
			snap.Origin = i
		}
		onSnapshot(snap)
	})
}

// Push writes attrs as the whole item. PutItem cannot return the new image,
// so the snapshot carries what was written.
func (i *item) Push(attrs *storagemodels.Attributes, onSnapshot datastore.SnapshotFunc, onError datastore.ErrorFunc) {
	i.p.run(func(ctx context.Context) {
		key, _, err := i.key(ctx)
		if err != nil {
			i.p.fail(onError, "PutItem", i.table, err)
			return
		}
		av := itemOf(attrs)
		for name, v := range key {
			av[name] = v
		}

		_, err = retry(ctx, i.p, "PutItem", func(ctx context.Context) (*dynamodb.PutItemOutput, error) {
			return i.p.client.PutItem(ctx, &dynamodb.PutItemInput{
				TableName: i.p.tableName(i.table),
				Item:      av,
			})
		})
		if err != nil {
			i.p.fail(onError, "PutItem", i.table, err)
			return
		}
		onSnapshot(&datastore.Snapshot{Attributes: i.p.attributes(i.table, av), Origin: i})
	})
}

// Delete removes the item only if it exists and delivers its old image.
func (i *item) Delete(onSnapshot datastore.SnapshotFunc, onError datastore.ErrorFunc) {
	i.p.run(func(ctx context.Context) {
		key, keys, err := i.key(ctx)
		if err != nil {
			i.p.fail(onError, "DeleteItem", i.table, err)
			return
		}
		expr, err := existsCondition(keys.Primary)
		if err != nil {
			i.p.fail(onError, "DeleteItem", i.table, err)
			return
		}

		out, err := retry(ctx, i.p, "DeleteItem", func(ctx context.Context) (*dynamodb.DeleteItemOutput, error) {
			return i.p.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
				TableName:                i.p.tableName(i.table),
				Key:                      key,
				ConditionExpression:      expr.Condition(),
				ExpressionAttributeNames: expr.Names(),
				ReturnValues:             types.ReturnValueAllOld,
			})
		})
		if isConditionFailed(err) {
			err = errors.NewNotFoundError(i.table, i.pk.Text())
		}
		if err != nil {
			i.p.fail(onError, "DeleteItem", i.table, err)
			return
		}
		onSnapshot(&datastore.Snapshot{Attributes: i.p.attributes(i.table, out.Attributes)})
	})
}

func (p *Provider) attributes(table string, raw map[string]types.AttributeValue) map[string]storagemodels.Value {
	attrs, skipped := valuesOf(raw)
	for name, err := range skipped {
		p.log.Warn().Err(err).Str("table", table).Str("attribute", name).Msg("attribute dropped")
	}
	return attrs
}
