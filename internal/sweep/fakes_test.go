// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package sweep

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/apigateway"
	apitypes "github.com/aws/aws-sdk-go-v2/service/apigateway/types"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentity"
	citypes "github.com/aws/aws-sdk-go-v2/service/cognitoidentity/types"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	idptypes "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	iamtypes "github.com/aws/aws-sdk-go-v2/service/iam/types"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	lambdatypes "github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/aws-sdk-go-v2/service/sfn"
	sfntypes "github.com/aws/aws-sdk-go-v2/service/sfn/types"
	"github.com/aws/smithy-go"
)

// recorder collects the mutating calls made against a fake account, in order.
type recorder struct {
	calls []string
	lists int
}

func (r *recorder) add(format string, args ...any) {
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
}

// window returns the slice of names starting at the index encoded in token,
// at most size long, and the token of the following window.
func window[T any](items []T, token *string, size int) ([]T, *string) {
	start := 0
	if t := awsv2.ToString(token); t != "" {
		start, _ = strconv.Atoi(t)
	}
	if start > len(items) {
		start = len(items)
	}
	end := len(items)
	if size > 0 && start+size < end {
		end = start + size
	}
	var next *string
	if end < len(items) {
		next = awsv2.String(strconv.Itoa(end))
	}
	return items[start:end], next
}

func without(items []string, name string) []string {
	out := items[:0:0]
	for _, i := range items {
		if i != name {
			out = append(out, i)
		}
	}
	return out
}

// --- IAM ---

type fakeRole struct {
	inline   []string
	attached []string
}

type fakeIAM struct {
	rec      *recorder
	roles    map[string]*fakeRole
	order    []string
	policies []string
	pageSize int
	failOn   string
}

func newFakeIAM(rec *recorder) *fakeIAM {
	return &fakeIAM{rec: rec, roles: map[string]*fakeRole{}}
}

func (f *fakeIAM) addRole(name string, inline, attached []string) {
	f.roles[name] = &fakeRole{inline: inline, attached: attached}
	f.order = append(f.order, name)
}

func (f *fakeIAM) fail(call string) error {
	if call == f.failOn {
		return &smithy.GenericAPIError{Code: "AccessDenied", Message: call}
	}
	return nil
}

func (f *fakeIAM) ListRoles(ctx context.Context, params *iam.ListRolesInput, optFns ...func(*iam.Options)) (*iam.ListRolesOutput, error) {
	f.rec.lists++
	page, next := window(f.order, params.Marker, f.pageSize)
	out := &iam.ListRolesOutput{IsTruncated: next != nil, Marker: next}
	for _, name := range page {
		out.Roles = append(out.Roles, iamtypes.Role{RoleName: awsv2.String(name)})
	}
	return out, nil
}

func (f *fakeIAM) ListRolePolicies(ctx context.Context, params *iam.ListRolePoliciesInput, optFns ...func(*iam.Options)) (*iam.ListRolePoliciesOutput, error) {
	f.rec.lists++
	role := f.roles[awsv2.ToString(params.RoleName)]
	return &iam.ListRolePoliciesOutput{PolicyNames: append([]string(nil), role.inline...)}, nil
}

func (f *fakeIAM) ListAttachedRolePolicies(ctx context.Context, params *iam.ListAttachedRolePoliciesInput, optFns ...func(*iam.Options)) (*iam.ListAttachedRolePoliciesOutput, error) {
	f.rec.lists++
	role := f.roles[awsv2.ToString(params.RoleName)]
	out := &iam.ListAttachedRolePoliciesOutput{}
	for _, p := range role.attached {
		out.AttachedPolicies = append(out.AttachedPolicies, iamtypes.AttachedPolicy{
			PolicyName: awsv2.String(p),
			PolicyArn:  awsv2.String("arn:aws:iam::123456789012:policy/" + p),
		})
	}
	return out, nil
}

func (f *fakeIAM) ListPolicies(ctx context.Context, params *iam.ListPoliciesInput, optFns ...func(*iam.Options)) (*iam.ListPoliciesOutput, error) {
	f.rec.lists++
	if params.Scope != iamtypes.PolicyScopeTypeLocal {
		return nil, errors.New("expected local scope")
	}
	page, next := window(f.policies, params.Marker, f.pageSize)
	out := &iam.ListPoliciesOutput{IsTruncated: next != nil, Marker: next}
	for _, p := range page {
		out.Policies = append(out.Policies, iamtypes.Policy{
			PolicyName: awsv2.String(p),
			Arn:        awsv2.String("arn:aws:iam::123456789012:policy/" + p),
		})
	}
	return out, nil
}

func (f *fakeIAM) DeleteRolePolicy(ctx context.Context, params *iam.DeleteRolePolicyInput, optFns ...func(*iam.Options)) (*iam.DeleteRolePolicyOutput, error) {
	call := fmt.Sprintf("DeleteRolePolicy:%s:%s", awsv2.ToString(params.RoleName), awsv2.ToString(params.PolicyName))
	if err := f.fail(call); err != nil {
		return nil, err
	}
	f.rec.add("%s", call)
	role := f.roles[awsv2.ToString(params.RoleName)]
	role.inline = without(role.inline, awsv2.ToString(params.PolicyName))
	return &iam.DeleteRolePolicyOutput{}, nil
}

func (f *fakeIAM) DetachRolePolicy(ctx context.Context, params *iam.DetachRolePolicyInput, optFns ...func(*iam.Options)) (*iam.DetachRolePolicyOutput, error) {
	call := fmt.Sprintf("DetachRolePolicy:%s:%s", awsv2.ToString(params.RoleName), awsv2.ToString(params.PolicyArn))
	if err := f.fail(call); err != nil {
		return nil, err
	}
	f.rec.add("%s", call)
	role := f.roles[awsv2.ToString(params.RoleName)]
	arn := awsv2.ToString(params.PolicyArn)
	kept := role.attached[:0:0]
	for _, p := range role.attached {
		if "arn:aws:iam::123456789012:policy/"+p != arn {
			kept = append(kept, p)
		}
	}
	role.attached = kept
	return &iam.DetachRolePolicyOutput{}, nil
}

func (f *fakeIAM) DeleteRole(ctx context.Context, params *iam.DeleteRoleInput, optFns ...func(*iam.Options)) (*iam.DeleteRoleOutput, error) {
	name := awsv2.ToString(params.RoleName)
	call := "DeleteRole:" + name
	if err := f.fail(call); err != nil {
		return nil, err
	}
	role := f.roles[name]
	if len(role.inline) > 0 || len(role.attached) > 0 {
		return nil, &smithy.GenericAPIError{Code: "DeleteConflict", Message: "role has policies"}
	}
	f.rec.add("%s", call)
	delete(f.roles, name)
	f.order = without(f.order, name)
	return &iam.DeleteRoleOutput{}, nil
}

func (f *fakeIAM) DeletePolicy(ctx context.Context, params *iam.DeletePolicyInput, optFns ...func(*iam.Options)) (*iam.DeletePolicyOutput, error) {
	arn := awsv2.ToString(params.PolicyArn)
	call := "DeletePolicy:" + arn
	if err := f.fail(call); err != nil {
		return nil, err
	}
	f.rec.add("%s", call)
	kept := f.policies[:0:0]
	for _, p := range f.policies {
		if "arn:aws:iam::123456789012:policy/"+p != arn {
			kept = append(kept, p)
		}
	}
	f.policies = kept
	return &iam.DeletePolicyOutput{}, nil
}

// --- S3 ---

type fakeS3 struct {
	rec      *recorder
	buckets  map[string][]string
	pageSize int
	// deleteErrors is returned inside every DeleteObjects response.
	deleteErrors []s3types.Error
}

func newFakeS3(rec *recorder) *fakeS3 {
	return &fakeS3{rec: rec, buckets: map[string][]string{}}
}

func (f *fakeS3) addBucket(name string, objects int) {
	keys := make([]string, 0, objects)
	for i := 0; i < objects; i++ {
		keys = append(keys, fmt.Sprintf("obj-%05d", i))
	}
	f.buckets[name] = keys
}

func (f *fakeS3) names() []string {
	names := make([]string, 0, len(f.buckets))
	for n := range f.buckets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (f *fakeS3) ListBuckets(ctx context.Context, params *s3.ListBucketsInput, optFns ...func(*s3.Options)) (*s3.ListBucketsOutput, error) {
	f.rec.lists++
	out := &s3.ListBucketsOutput{}
	for _, n := range f.names() {
		out.Buckets = append(out.Buckets, s3types.Bucket{Name: awsv2.String(n)})
	}
	return out, nil
}

// ListObjectsV2 pages by key: the continuation token is the last key
// returned, so deleting a page does not shift the next one.
func (f *fakeS3) ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	bucket := awsv2.ToString(params.Bucket)
	token := awsv2.ToString(params.ContinuationToken)
	f.rec.add("ListObjectsV2:%s:%s", bucket, token)

	var keys []string
	for _, k := range f.buckets[bucket] {
		if k > token {
			keys = append(keys, k)
		}
	}

	out := &s3.ListObjectsV2Output{}
	if f.pageSize > 0 && len(keys) > f.pageSize {
		keys = keys[:f.pageSize]
		out.NextContinuationToken = awsv2.String(keys[len(keys)-1])
		out.IsTruncated = awsv2.Bool(true)
	}
	for _, k := range keys {
		out.Contents = append(out.Contents, s3types.Object{Key: awsv2.String(k)})
	}
	return out, nil
}

func (f *fakeS3) DeleteObjects(ctx context.Context, params *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error) {
	bucket := awsv2.ToString(params.Bucket)
	f.rec.add("DeleteObjects:%s:%d", bucket, len(params.Delete.Objects))
	for _, o := range params.Delete.Objects {
		f.buckets[bucket] = without(f.buckets[bucket], awsv2.ToString(o.Key))
	}
	return &s3.DeleteObjectsOutput{Errors: f.deleteErrors}, nil
}

func (f *fakeS3) DeleteBucket(ctx context.Context, params *s3.DeleteBucketInput, optFns ...func(*s3.Options)) (*s3.DeleteBucketOutput, error) {
	bucket := awsv2.ToString(params.Bucket)
	if len(f.buckets[bucket]) > 0 {
		return nil, &smithy.GenericAPIError{Code: "BucketNotEmpty", Message: bucket}
	}
	f.rec.add("DeleteBucket:%s", bucket)
	delete(f.buckets, bucket)
	return &s3.DeleteBucketOutput{}, nil
}

// --- Cognito ---

type fakeCognito struct {
	rec       *recorder
	identity  map[string]string // id -> name
	userPools map[string]string // id -> name
}

func newFakeCognito(rec *recorder) *fakeCognito {
	return &fakeCognito{rec: rec, identity: map[string]string{}, userPools: map[string]string{}}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (f *fakeCognito) ListIdentityPools(ctx context.Context, params *cognitoidentity.ListIdentityPoolsInput, optFns ...func(*cognitoidentity.Options)) (*cognitoidentity.ListIdentityPoolsOutput, error) {
	f.rec.lists++
	out := &cognitoidentity.ListIdentityPoolsOutput{}
	for _, id := range sortedKeys(f.identity) {
		out.IdentityPools = append(out.IdentityPools, citypes.IdentityPoolShortDescription{
			IdentityPoolId:   awsv2.String(id),
			IdentityPoolName: awsv2.String(f.identity[id]),
		})
	}
	return out, nil
}

func (f *fakeCognito) DeleteIdentityPool(ctx context.Context, params *cognitoidentity.DeleteIdentityPoolInput, optFns ...func(*cognitoidentity.Options)) (*cognitoidentity.DeleteIdentityPoolOutput, error) {
	id := awsv2.ToString(params.IdentityPoolId)
	f.rec.add("DeleteIdentityPool:%s", id)
	delete(f.identity, id)
	return &cognitoidentity.DeleteIdentityPoolOutput{}, nil
}

func (f *fakeCognito) ListUserPools(ctx context.Context, params *cognitoidentityprovider.ListUserPoolsInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.ListUserPoolsOutput, error) {
	f.rec.lists++
	out := &cognitoidentityprovider.ListUserPoolsOutput{}
	for _, id := range sortedKeys(f.userPools) {
		out.UserPools = append(out.UserPools, idptypes.UserPoolDescriptionType{
			Id:   awsv2.String(id),
			Name: awsv2.String(f.userPools[id]),
		})
	}
	return out, nil
}

func (f *fakeCognito) DeleteUserPool(ctx context.Context, params *cognitoidentityprovider.DeleteUserPoolInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.DeleteUserPoolOutput, error) {
	id := awsv2.ToString(params.UserPoolId)
	f.rec.add("DeleteUserPool:%s", id)
	delete(f.userPools, id)
	return &cognitoidentityprovider.DeleteUserPoolOutput{}, nil
}

// --- DynamoDB ---

type fakeDynamoDB struct {
	rec      *recorder
	tables   []string
	pageSize int
	limits   []int32
}

func (f *fakeDynamoDB) ListTables(ctx context.Context, params *dynamodb.ListTablesInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ListTablesOutput, error) {
	f.rec.lists++
	f.limits = append(f.limits, awsv2.ToInt32(params.Limit))

	start := 0
	if last := awsv2.ToString(params.ExclusiveStartTableName); last != "" {
		for i, t := range f.tables {
			if t == last {
				start = i + 1
			}
		}
	}
	rest := f.tables[start:]
	out := &dynamodb.ListTablesOutput{}
	if f.pageSize > 0 && len(rest) > f.pageSize {
		rest = rest[:f.pageSize]
		out.LastEvaluatedTableName = awsv2.String(rest[len(rest)-1])
	}
	out.TableNames = append(out.TableNames, rest...)
	return out, nil
}

func (f *fakeDynamoDB) DeleteTable(ctx context.Context, params *dynamodb.DeleteTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteTableOutput, error) {
	name := awsv2.ToString(params.TableName)
	f.rec.add("DeleteTable:%s", name)
	f.tables = without(f.tables, name)
	return &dynamodb.DeleteTableOutput{}, nil
}

// --- Lambda ---

type fakeLambda struct {
	rec       *recorder
	functions []string
	// layers maps a layer name to its latest version; 0 means none.
	layers   map[string]int64
	deleteFn error
}

func newFakeLambda(rec *recorder) *fakeLambda {
	return &fakeLambda{rec: rec, layers: map[string]int64{}}
}

func (f *fakeLambda) ListFunctions(ctx context.Context, params *lambda.ListFunctionsInput, optFns ...func(*lambda.Options)) (*lambda.ListFunctionsOutput, error) {
	f.rec.lists++
	out := &lambda.ListFunctionsOutput{}
	for _, fn := range f.functions {
		out.Functions = append(out.Functions, lambdatypes.FunctionConfiguration{FunctionName: awsv2.String(fn)})
	}
	return out, nil
}

func (f *fakeLambda) ListLayers(ctx context.Context, params *lambda.ListLayersInput, optFns ...func(*lambda.Options)) (*lambda.ListLayersOutput, error) {
	f.rec.lists++
	out := &lambda.ListLayersOutput{}
	for _, name := range sortedLayerNames(f.layers) {
		item := lambdatypes.LayersListItem{LayerName: awsv2.String(name)}
		if v := f.layers[name]; v > 0 {
			item.LatestMatchingVersion = &lambdatypes.LayerVersionsListItem{Version: v}
		}
		out.Layers = append(out.Layers, item)
	}
	return out, nil
}

func sortedLayerNames(m map[string]int64) []string {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (f *fakeLambda) DeleteFunction(ctx context.Context, params *lambda.DeleteFunctionInput, optFns ...func(*lambda.Options)) (*lambda.DeleteFunctionOutput, error) {
	if f.deleteFn != nil {
		return nil, f.deleteFn
	}
	name := awsv2.ToString(params.FunctionName)
	f.rec.add("DeleteFunction:%s", name)
	f.functions = without(f.functions, name)
	return &lambda.DeleteFunctionOutput{}, nil
}

func (f *fakeLambda) DeleteLayerVersion(ctx context.Context, params *lambda.DeleteLayerVersionInput, optFns ...func(*lambda.Options)) (*lambda.DeleteLayerVersionOutput, error) {
	name := awsv2.ToString(params.LayerName)
	f.rec.add("DeleteLayerVersion:%s:%d", name, awsv2.ToInt64(params.VersionNumber))
	delete(f.layers, name)
	return &lambda.DeleteLayerVersionOutput{}, nil
}

// --- Step Functions ---

type fakeSFN struct {
	rec        *recorder
	machines   []string
	activities []string
}

func (f *fakeSFN) ListStateMachines(ctx context.Context, params *sfn.ListStateMachinesInput, optFns ...func(*sfn.Options)) (*sfn.ListStateMachinesOutput, error) {
	f.rec.lists++
	out := &sfn.ListStateMachinesOutput{}
	for _, m := range f.machines {
		out.StateMachines = append(out.StateMachines, sfntypes.StateMachineListItem{
			Name:            awsv2.String(m),
			StateMachineArn: awsv2.String("arn:aws:states:eu-central-1:123456789012:stateMachine:" + m),
		})
	}
	return out, nil
}

func (f *fakeSFN) ListActivities(ctx context.Context, params *sfn.ListActivitiesInput, optFns ...func(*sfn.Options)) (*sfn.ListActivitiesOutput, error) {
	f.rec.lists++
	out := &sfn.ListActivitiesOutput{}
	for _, a := range f.activities {
		out.Activities = append(out.Activities, sfntypes.ActivityListItem{
			Name:        awsv2.String(a),
			ActivityArn: awsv2.String("arn:aws:states:eu-central-1:123456789012:activity:" + a),
		})
	}
	return out, nil
}

func (f *fakeSFN) DeleteStateMachine(ctx context.Context, params *sfn.DeleteStateMachineInput, optFns ...func(*sfn.Options)) (*sfn.DeleteStateMachineOutput, error) {
	arn := awsv2.ToString(params.StateMachineArn)
	f.rec.add("DeleteStateMachine:%s", arn)
	kept := f.machines[:0:0]
	for _, m := range f.machines {
		if "arn:aws:states:eu-central-1:123456789012:stateMachine:"+m != arn {
			kept = append(kept, m)
		}
	}
	f.machines = kept
	return &sfn.DeleteStateMachineOutput{}, nil
}

func (f *fakeSFN) DeleteActivity(ctx context.Context, params *sfn.DeleteActivityInput, optFns ...func(*sfn.Options)) (*sfn.DeleteActivityOutput, error) {
	arn := awsv2.ToString(params.ActivityArn)
	f.rec.add("DeleteActivity:%s", arn)
	kept := f.activities[:0:0]
	for _, a := range f.activities {
		if "arn:aws:states:eu-central-1:123456789012:activity:"+a != arn {
			kept = append(kept, a)
		}
	}
	f.activities = kept
	return &sfn.DeleteActivityOutput{}, nil
}

// --- API Gateway ---

type fakeAPIGateway struct {
	rec  *recorder
	apis map[string]string // id -> name
	// failures is the number of DeleteRestApi calls that fail before one
	// succeeds.
	failures int
	deletes  int
}

func newFakeAPIGateway(rec *recorder) *fakeAPIGateway {
	return &fakeAPIGateway{rec: rec, apis: map[string]string{}}
}

func (f *fakeAPIGateway) GetRestApis(ctx context.Context, params *apigateway.GetRestApisInput, optFns ...func(*apigateway.Options)) (*apigateway.GetRestApisOutput, error) {
	f.rec.lists++
	out := &apigateway.GetRestApisOutput{}
	for _, id := range sortedKeys(f.apis) {
		out.Items = append(out.Items, apitypes.RestApi{Id: awsv2.String(id), Name: awsv2.String(f.apis[id])})
	}
	return out, nil
}

func (f *fakeAPIGateway) DeleteRestApi(ctx context.Context, params *apigateway.DeleteRestApiInput, optFns ...func(*apigateway.Options)) (*apigateway.DeleteRestApiOutput, error) {
	f.deletes++
	id := awsv2.ToString(params.RestApiId)
	f.rec.add("DeleteRestApi:%s", id)
	if f.failures > 0 {
		f.failures--
		return nil, &smithy.GenericAPIError{Code: "TooManyRequestsException", Message: "Too Many Requests"}
	}
	delete(f.apis, id)
	return &apigateway.DeleteRestApiOutput{}, nil
}

// fakeSleep records requested pauses without waiting.
type fakeSleep struct {
	pauses []string
}

func (f *fakeSleep) sleep(ctx context.Context, d time.Duration) error {
	f.pauses = append(f.pauses, d.String())
	return ctx.Err()
}
