// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package sweep

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gofrs/uuid/v5"
)

// Verb is what was done (or, in a dry run, would be done) to a resource.
type Verb string

const (
	VerbDelete Verb = "delete"
	VerbDetach Verb = "detach"
	VerbPlan   Verb = "plan"
)

// Kind names the resource type an Action applies to.
type Kind string

const (
	KindRole           Kind = "role"
	KindRolePolicy     Kind = "role-policy"
	KindAttachedPolicy Kind = "attached-policy"
	KindPolicy         Kind = "policy"
	KindBucket         Kind = "bucket"
	KindObjects        Kind = "objects"
	KindIdentityPool   Kind = "identity-pool"
	KindUserPool       Kind = "user-pool"
	KindTable          Kind = "table"
	KindFunction       Kind = "function"
	KindLayerVersion   Kind = "layer-version"
	KindStateMachine   Kind = "state-machine"
	KindActivity       Kind = "activity"
	KindRestAPI        Kind = "rest-api"
)

// parentKind is the container kind for kinds that live inside another
// resource.
var parentKind = map[Kind]Kind{
	KindRolePolicy:     KindRole,
	KindAttachedPolicy: KindRole,
	KindObjects:        KindBucket,
}

// Action records one delete or detach. In a dry run Verb is VerbPlan and
// Intent holds the verb that would have been used.
type Action struct {
	Service string    `json:"service" yaml:"service"`
	Kind    Kind      `json:"kind" yaml:"kind"`
	Name    string    `json:"name" yaml:"name"`
	ID      string    `json:"id,omitempty" yaml:"id,omitempty"`
	Parent  string    `json:"parent,omitempty" yaml:"parent,omitempty"`
	Verb    Verb      `json:"verb" yaml:"verb"`
	Intent  Verb      `json:"intent,omitempty" yaml:"intent,omitempty"`
	Objects int       `json:"objects,omitempty" yaml:"objects,omitempty"`
	At      time.Time `json:"at" yaml:"at"`
}

// Describe renders the action target for log lines, e.g. "role-policy
// inline from role ch-ebu-api" or "1,000 objects from bucket ch.ebu.assets".
func (a Action) Describe() string {
	if a.Kind == KindObjects {
		return fmt.Sprintf("%s objects from %s %s", humanize.Comma(int64(a.Objects)), KindBucket, a.Parent)
	}
	if a.Parent != "" {
		return fmt.Sprintf("%s %s from %s %s", a.Kind, a.Name, parentKind[a.Kind], a.Parent)
	}
	return fmt.Sprintf("%s %s", a.Kind, a.Name)
}

// Report accumulates the actions of one run. A nil *Report discards
// everything, which keeps sweepers usable without one.
type Report struct {
	RunID    string    `json:"run_id" yaml:"run_id"`
	Prefix   string    `json:"prefix" yaml:"prefix"`
	Account  string    `json:"account,omitempty" yaml:"account,omitempty"`
	ARN      string    `json:"arn,omitempty" yaml:"arn,omitempty"`
	Region   string    `json:"region,omitempty" yaml:"region,omitempty"`
	DryRun   bool      `json:"dry_run" yaml:"dry_run"`
	Started  time.Time `json:"started" yaml:"started"`
	Finished time.Time `json:"finished" yaml:"finished"`
	Error    string    `json:"error,omitempty" yaml:"error,omitempty"`
	Actions  []Action  `json:"actions" yaml:"actions"`

	now func() time.Time
}

// NewReport starts a report for a run against prefix.
func NewReport(prefix Prefix, dryRun bool) *Report {
	r := &Report{
		RunID:   uuid.Must(uuid.NewV4()).String(),
		Prefix:  prefix.String(),
		DryRun:  dryRun,
		Actions: []Action{},
		now:     time.Now,
	}
	r.Started = r.now()
	return r
}

// Add appends a, stamping it with the current time.
func (r *Report) Add(a Action) {
	if r == nil {
		return
	}
	a.At = r.now()
	r.Actions = append(r.Actions, a)
}

// Finish marks the end of the run and records err, if any.
func (r *Report) Finish(err error) {
	if r == nil {
		return
	}
	r.Finished = r.now()
	if err != nil {
		r.Error = err.Error()
	}
}

// Count returns the number of actions with verb v.
func (r *Report) Count(v Verb) int {
	if r == nil {
		return 0
	}
	n := 0
	for _, a := range r.Actions {
		if a.Verb == v {
			n++
		}
	}
	return n
}

// Objects returns the number of S3 objects removed (or planned) in the run.
func (r *Report) Objects() int {
	if r == nil {
		return 0
	}
	n := 0
	for _, a := range r.Actions {
		n += a.Objects
	}
	return n
}

// Elapsed is the wall time between start and finish.
func (r *Report) Elapsed() time.Duration {
	if r == nil || r.Finished.IsZero() {
		return 0
	}
	return r.Finished.Sub(r.Started)
}
