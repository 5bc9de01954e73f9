package services

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// fakeDynamoAPI stubs the DynamoDB client for service tests. Unset hooks
// return empty outputs.
type fakeDynamoAPI struct {
	queryFn  func(*dynamodb.QueryInput) (*dynamodb.QueryOutput, error)
	getFn    func(*dynamodb.GetItemInput) (*dynamodb.GetItemOutput, error)
	putFn    func(*dynamodb.PutItemInput) (*dynamodb.PutItemOutput, error)
	updateFn func(*dynamodb.UpdateItemInput) (*dynamodb.UpdateItemOutput, error)
	deleteFn func(*dynamodb.DeleteItemInput) (*dynamodb.DeleteItemOutput, error)
	scanFn   func(*dynamodb.ScanInput) (*dynamodb.ScanOutput, error)
	batchFn  func(*dynamodb.BatchWriteItemInput) (*dynamodb.BatchWriteItemOutput, error)
}

func (f *fakeDynamoAPI) Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	if f.queryFn != nil {
		return f.queryFn(params)
	}
	return &dynamodb.QueryOutput{}, nil
}

func (f *fakeDynamoAPI) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	if f.getFn != nil {
		return f.getFn(params)
	}
	return &dynamodb.GetItemOutput{}, nil
}

func (f *fakeDynamoAPI) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	if f.putFn != nil {
		return f.putFn(params)
	}
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamoAPI) UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	if f.updateFn != nil {
		return f.updateFn(params)
	}
	return &dynamodb.UpdateItemOutput{}, nil
}

func (f *fakeDynamoAPI) DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	if f.deleteFn != nil {
		return f.deleteFn(params)
	}
	return &dynamodb.DeleteItemOutput{}, nil
}

func (f *fakeDynamoAPI) Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	if f.scanFn != nil {
		return f.scanFn(params)
	}
	return &dynamodb.ScanOutput{}, nil
}

func (f *fakeDynamoAPI) BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error) {
	if f.batchFn != nil {
		return f.batchFn(params)
	}
	return &dynamodb.BatchWriteItemOutput{}, nil
}
