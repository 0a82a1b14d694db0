// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package aws

import (
	"errors"
	"fmt"
	"os"

	"github.com/tidwall/gjson"
)

// Credentials is a static key pair read from a local file, optionally with a
// session token and a default region.
type Credentials struct {
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
	Region          string
}

// Key spellings accepted for each field. The first is the camelCase form
// written by the JavaScript SDK's saveToPath; the others match the shared
// credentials file and the STS JSON shape.
var (
	accessKeyPaths    = []string{"accessKeyId", "aws_access_key_id", "AccessKeyId"}
	secretKeyPaths    = []string{"secretAccessKey", "aws_secret_access_key", "SecretAccessKey"}
	sessionTokenPaths = []string{"sessionToken", "aws_session_token", "SessionToken"}
	regionPaths       = []string{"region", "aws_region", "Region"}
)

// ErrIncompleteCredentials is returned when a credentials document lacks the
// access key id or the secret access key.
var ErrIncompleteCredentials = errors.New("credentials require an access key id and a secret access key")

// LoadCredentialsFile reads a JSON credentials document from path.
func LoadCredentialsFile(path string) (*Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}

	creds, err := ParseCredentials(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return creds, nil
}

// ParseCredentials extracts credentials from a JSON document.
func ParseCredentials(data []byte) (*Credentials, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("credentials are not valid JSON")
	}
	doc := gjson.ParseBytes(data)

	creds := &Credentials{
		AccessKeyID:     firstString(doc, accessKeyPaths),
		SecretAccessKey: firstString(doc, secretKeyPaths),
		SessionToken:    firstString(doc, sessionTokenPaths),
		Region:          firstString(doc, regionPaths),
	}
	if creds.AccessKeyID == "" || creds.SecretAccessKey == "" {
		return nil, ErrIncompleteCredentials
	}
	return creds, nil
}

// firstString returns the first non-empty string found at any of paths.
func firstString(doc gjson.Result, paths []string) string {
	for _, p := range paths {
		if v := doc.Get(p); v.Exists() && v.String() != "" {
			return v.String()
		}
	}
	return ""
}
