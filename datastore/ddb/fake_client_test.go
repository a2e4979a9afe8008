/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// fakeClient keeps tables in memory. Scans ignore the filter expression
// and page through items in key order.
type fakeClient struct {
	mu       sync.Mutex
	schemas  map[string]KeySchema
	items    map[string]map[string]map[string]types.AttributeValue
	calls    map[string]int
	failures map[string][]error
	scans    []*dynamodb.ScanInput
	pageSize int
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		schemas:  map[string]KeySchema{"Entity": {Primary: "cnes", Secondary: "cap"}},
		items:    map[string]map[string]map[string]types.AttributeValue{},
		calls:    map[string]int{},
		failures: map[string][]error{},
		pageSize: 100,
	}
}

// failNext queues errors returned by the next calls of op.
func (f *fakeClient) failNext(op string, errs ...error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[op] = append(f.failures[op], errs...)
}

func (f *fakeClient) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeClient) enter(op string) error {
	f.calls[op]++
	if q := f.failures[op]; len(q) > 0 {
		f.failures[op] = q[1:]
		return q[0]
	}
	return nil
}

func avText(av types.AttributeValue) string {
	switch tv := av.(type) {
	case *types.AttributeValueMemberS:
		return "S:" + tv.Value
	case *types.AttributeValueMemberN:
		return "N:" + tv.Value
	}
	return ""
}

func (f *fakeClient) keyOf(table string, item map[string]types.AttributeValue) string {
	k := f.schemas[table]
	return avText(item[k.Primary]) + "|" + avText(item[k.Secondary])
}

func (f *fakeClient) schemaFor(name *string) (string, error) {
	table := aws.ToString(name)
	if _, ok := f.schemas[table]; !ok {
		return "", &types.ResourceNotFoundException{Message: aws.String("Requested resource not found: " + table)}
	}
	return table, nil
}

func (f *fakeClient) DescribeTable(_ context.Context, in *dynamodb.DescribeTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("DescribeTable"); err != nil {
		return nil, err
	}
	table, err := f.schemaFor(in.TableName)
	if err != nil {
		return nil, err
	}
	k := f.schemas[table]
	ks := []types.KeySchemaElement{{AttributeName: aws.String(k.Primary), KeyType: types.KeyTypeHash}}
	if k.Secondary != "" {
		ks = append(ks, types.KeySchemaElement{AttributeName: aws.String(k.Secondary), KeyType: types.KeyTypeRange})
	}
	return &dynamodb.DescribeTableOutput{Table: &types.TableDescription{TableName: in.TableName, KeySchema: ks}}, nil
}

func (f *fakeClient) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("GetItem"); err != nil {
		return nil, err
	}
	table, err := f.schemaFor(in.TableName)
	if err != nil {
		return nil, err
	}
	return &dynamodb.GetItemOutput{Item: f.items[table][f.keyOf(table, in.Key)]}, nil
}

func (f *fakeClient) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("PutItem"); err != nil {
		return nil, err
	}
	table, err := f.schemaFor(in.TableName)
	if err != nil {
		return nil, err
	}
	if f.items[table] == nil {
		f.items[table] = map[string]map[string]types.AttributeValue{}
	}
	f.items[table][f.keyOf(table, in.Item)] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeClient) DeleteItem(_ context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("DeleteItem"); err != nil {
		return nil, err
	}
	table, err := f.schemaFor(in.TableName)
	if err != nil {
		return nil, err
	}
	key := f.keyOf(table, in.Key)
	old, ok := f.items[table][key]
	if !ok && in.ConditionExpression != nil && strings.HasPrefix(*in.ConditionExpression, "attribute_exists") {
		return nil, &types.ConditionalCheckFailedException{Message: aws.String("The conditional request failed")}
	}
	delete(f.items[table], key)

	out := &dynamodb.DeleteItemOutput{}
	if in.ReturnValues == types.ReturnValueAllOld {
		out.Attributes = old
	}
	return out, nil
}

func (f *fakeClient) Scan(_ context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("Scan"); err != nil {
		return nil, err
	}
	table, err := f.schemaFor(in.TableName)
	if err != nil {
		return nil, err
	}
	f.scans = append(f.scans, in)

	keys := make([]string, 0, len(f.items[table]))
	for k := range f.items[table] {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	start := 0
	if in.ExclusiveStartKey != nil {
		after := f.keyOf(table, in.ExclusiveStartKey)
		start = sort.SearchStrings(keys, after)
		if start < len(keys) && keys[start] == after {
			start++
		}
	}
	end := start + f.pageSize
	if end > len(keys) {
		end = len(keys)
	}

	out := &dynamodb.ScanOutput{}
	for _, k := range keys[start:end] {
		out.Items = append(out.Items, f.items[table][k])
	}
	if end < len(keys) {
		last := f.items[table][keys[end-1]]
		lek := map[string]types.AttributeValue{}
		s := f.schemas[table]
		lek[s.Primary] = last[s.Primary]
		if s.Secondary != "" {
			lek[s.Secondary] = last[s.Secondary]
		}
		out.LastEvaluatedKey = lek
	}
	out.Count = int32(len(out.Items))
	return out, nil
}
