// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package sweep

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

// account is a fake AWS account holding one fake per service.
type account struct {
	rec     *recorder
	iam     *fakeIAM
	s3      *fakeS3
	cognito *fakeCognito
	dynamo  *fakeDynamoDB
	lambda  *fakeLambda
	sfn     *fakeSFN
	apigw   *fakeAPIGateway
}

func newAccount() *account {
	rec := &recorder{}
	return &account{
		rec:     rec,
		iam:     newFakeIAM(rec),
		s3:      newFakeS3(rec),
		cognito: newFakeCognito(rec),
		dynamo:  &fakeDynamoDB{rec: rec},
		lambda:  newFakeLambda(rec),
		sfn:     &fakeSFN{rec: rec},
		apigw:   newFakeAPIGateway(rec),
	}
}

func (a *account) apis() APIs {
	return APIs{
		IAM:             a.iam,
		S3:              a.s3,
		CognitoIdentity: a.cognito,
		CognitoIDP:      a.cognito,
		DynamoDB:        a.dynamo,
		Lambda:          a.lambda,
		SFN:             a.sfn,
		APIGateway:      a.apigw,
	}
}

// populate fills every service with one matching and one foreign resource.
func (a *account) populate() {
	a.iam.addRole("ch-ebu-api", []string{"inline"}, []string{"ch-ebu-managed"})
	a.iam.addRole("other-role", []string{"keep"}, nil)
	a.iam.policies = []string{"ch-ebu-managed", "other-policy"}
	a.s3.addBucket("ch.ebu.assets", 3)
	a.s3.addBucket("other.assets", 1)
	a.cognito.identity["eu-central-1:1"] = "ch-ebu-identity"
	a.cognito.identity["eu-central-1:2"] = "other-identity"
	a.cognito.userPools["eu-central-1_A"] = "ch-ebu-users"
	a.cognito.userPools["eu-central-1_B"] = "other-users"
	a.dynamo.tables = []string{"ch-ebu-jobs", "other-jobs"}
	a.lambda.functions = []string{"ch-ebu-worker", "other-worker"}
	a.lambda.layers["ch-ebu-deps"] = 4
	a.lambda.layers["other-deps"] = 2
	a.sfn.machines = []string{"ch-ebu-flow", "other-flow"}
	a.sfn.activities = []string{"ch-ebu-task", "other-task"}
	a.apigw.apis["a1"] = "ch-ebu-gateway"
	a.apigw.apis["a2"] = "other-gateway"
}

func sweepAll(t *testing.T, a *account, opts Options) {
	t.Helper()
	sweepers, err := ForServices(DefaultOrder, a.apis(), opts)
	require.NoError(t, err)
	for _, s := range sweepers {
		if gw, ok := s.(*APIGateway); ok {
			gw.sleep = (&fakeSleep{}).sleep
		}
	}
	require.NoError(t, Run(context.Background(), sweepers...))
}

func TestPrefix(t *testing.T) {
	tests := []struct {
		prefix Prefix
		name   string
		want   bool
	}{
		{"ch.ebu", "ch.ebu.assets", true},
		{"ch.ebu", "ch-ebu-assets", false},
		{"ch-ebu", "ch-ebu-worker", true},
		{"ch-ebu", "other-worker", false},
		{"ch-ebu", "x-ch-ebu", false},
		{"ch-ebu", "ch-eb", false},
		{"", "anything", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%s", tt.prefix, tt.name), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.prefix.Matches(tt.name))
		})
	}

	assert.Equal(t, Prefix("ch-ebu-dev"), Prefix("ch.ebu.dev").Dashed())
	assert.Equal(t, "ch.ebu", Prefix("ch.ebu").String())
}

func TestForServices(t *testing.T) {
	a := newAccount()

	sweepers, err := ForServices([]string{"apigateway", "LAMBDA", " iam ", "lambda", ""}, a.apis(), Options{})
	require.NoError(t, err)

	var names []string
	for _, s := range sweepers {
		names = append(names, s.Name())
	}
	assert.Equal(t, []string{ServiceIAM, ServiceLambda, ServiceAPIGateway}, names)

	all, err := ForServices(DefaultOrder, a.apis(), Options{})
	require.NoError(t, err)
	assert.Len(t, all, len(DefaultOrder))

	_, err = ForServices([]string{"iam", "ec2"}, a.apis(), Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"ec2"`)
}

func TestIsService(t *testing.T) {
	assert.True(t, IsService("stepfunctions"))
	assert.False(t, IsService("sfn"))
}

type stubSweeper struct {
	name string
	err  error
	ran  *[]string
}

func (s stubSweeper) Name() string { return s.name }

func (s stubSweeper) Sweep(ctx context.Context) error {
	*s.ran = append(*s.ran, s.name)
	return s.err
}

func TestRun_StopsAtFirstError(t *testing.T) {
	var ran []string
	boom := errors.New("AccessDenied")

	err := Run(context.Background(),
		stubSweeper{name: "iam", ran: &ran},
		stubSweeper{name: "cognito", err: boom, ran: &ran},
		stubSweeper{name: "dynamodb", ran: &ran},
	)

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "cognito: AccessDenied", err.Error())
	assert.Equal(t, []string{"iam", "cognito"}, ran)
}

func TestRun_Cancelled(t *testing.T) {
	var ran []string
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Run(ctx, stubSweeper{name: "iam", ran: &ran})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, ran)
}

func TestSweep_OnlyMatchingResources(t *testing.T) {
	a := newAccount()
	a.populate()
	report := NewReport("ch.ebu", false)

	sweepAll(t, a, Options{Prefix: "ch.ebu", Report: report})

	assert.Equal(t, []string{
		"DeleteRolePolicy:ch-ebu-api:inline",
		"DetachRolePolicy:ch-ebu-api:arn:aws:iam::123456789012:policy/ch-ebu-managed",
		"DeleteRole:ch-ebu-api",
		"DeletePolicy:arn:aws:iam::123456789012:policy/ch-ebu-managed",
		"ListObjectsV2:ch.ebu.assets:",
		"DeleteObjects:ch.ebu.assets:3",
		"DeleteBucket:ch.ebu.assets",
		"DeleteIdentityPool:eu-central-1:1",
		"DeleteUserPool:eu-central-1_A",
		"DeleteTable:ch-ebu-jobs",
		"DeleteFunction:ch-ebu-worker",
		"DeleteLayerVersion:ch-ebu-deps:4",
		"DeleteStateMachine:arn:aws:states:eu-central-1:123456789012:stateMachine:ch-ebu-flow",
		"DeleteActivity:arn:aws:states:eu-central-1:123456789012:activity:ch-ebu-task",
		"DeleteRestApi:a1",
	}, a.rec.calls)

	assert.Equal(t, []string{"other-role"}, a.iam.order)
	assert.Equal(t, []string{"other-policy"}, a.iam.policies)
	assert.Contains(t, a.s3.buckets, "other.assets")
	assert.Equal(t, []string{"other-jobs"}, a.dynamo.tables)
	assert.Equal(t, []string{"other-worker"}, a.lambda.functions)
	assert.Equal(t, map[string]string{"a2": "other-gateway"}, a.apigw.apis)

	assert.Equal(t, 13, report.Count(VerbDelete))
	assert.Equal(t, 1, report.Count(VerbDetach))
	assert.Equal(t, 3, report.Objects())
}

func TestSweep_Idempotent(t *testing.T) {
	a := newAccount()
	a.populate()
	sweepAll(t, a, Options{Prefix: "ch.ebu"})
	first := len(a.rec.calls)
	require.NotZero(t, first)

	report := NewReport("ch.ebu", false)
	sweepAll(t, a, Options{Prefix: "ch.ebu", Report: report})

	assert.Len(t, a.rec.calls, first, "second run must not delete anything")
	assert.Empty(t, report.Actions)
}

func TestSweep_DryRun(t *testing.T) {
	a := newAccount()
	a.populate()
	report := NewReport("ch.ebu", true)

	sweepAll(t, a, Options{Prefix: "ch.ebu", DryRun: true, Report: report})

	assert.Empty(t, a.rec.calls)
	assert.NotZero(t, a.rec.lists)
	assert.Equal(t, 0, report.Count(VerbDelete))
	// IAM lists role policies even in a dry run, so the inline and attached
	// policy of the matching role are planned too.
	assert.Equal(t, 13, report.Count(VerbPlan))
	for _, act := range report.Actions {
		assert.Equal(t, VerbPlan, act.Verb)
		assert.NotEmpty(t, act.Intent)
	}
}

func TestSweep_Limiter(t *testing.T) {
	a := newAccount()
	a.lambda.functions = []string{"ch-ebu-a", "ch-ebu-b"}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	lim := rate.NewLimiter(rate.Every(time.Hour), 1)
	err := NewLambda(a.lambda, Options{Prefix: "ch.ebu", Limiter: lim}).Sweep(ctx)

	require.Error(t, err)
	assert.Empty(t, a.rec.calls)
}

func TestPages(t *testing.T) {
	fetch := func(calls *int) func(context.Context, *string) ([]int, *string, error) {
		return func(_ context.Context, token *string) ([]int, *string, error) {
			*calls++
			switch awsv2.ToString(token) {
			case "":
				return []int{1, 2}, awsv2.String("p2"), nil
			case "p2":
				return []int{3}, awsv2.String(""), nil
			}
			return nil, nil, errors.New("unexpected token")
		}
	}

	var calls int
	got, err := pages(context.Background(), false, fetch(&calls))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, got)
	assert.Equal(t, 1, calls)

	calls = 0
	got, err = pages(context.Background(), true, fetch(&calls))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, got)
	assert.Equal(t, 2, calls)

	_, err = pages(context.Background(), true, func(context.Context, *string) ([]int, *string, error) {
		return nil, nil, errors.New("Throttling")
	})
	assert.EqualError(t, err, "Throttling")
}
