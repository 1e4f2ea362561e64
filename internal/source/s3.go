// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package source

import (
	"context"
	"fmt"
	"io"
	"strings"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/tfctl/nodectl/internal/log"
)

// ObjectGetter is the part of the S3 client used by S3 sources.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3v2.GetObjectInput, optFns ...func(*s3v2.Options)) (*s3v2.GetObjectOutput, error)
}

type s3Source struct {
	bucket string
	key    string
	client ObjectGetter
}

// ParseS3URL splits "s3://bucket/key" into its bucket and key.
func ParseS3URL(spec string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(spec, "s3://")
	if !ok {
		return "", "", fmt.Errorf("not an s3 URL: %s", spec)
	}
	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("s3 URL needs a bucket and a key: %s", spec)
	}
	return bucket, key, nil
}

func newS3Source(ctx context.Context, spec string, o options) (*s3Source, error) {
	bucket, key, err := ParseS3URL(spec)
	if err != nil {
		return nil, err
	}

	client := o.s3Client
	if client == nil {
		cfg, err := loadAWSConfig(ctx, o)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		client = s3v2.NewFromConfig(cfg)
		log.Debugf("s3 client created: region=%s", cfg.Region)
	}

	return &s3Source{bucket: bucket, key: key, client: client}, nil
}

// loadAWSConfig inherits the shell's AWS setup (AWS_PROFILE, shared config,
// env, IMDS) with optional profile and region overrides.
func loadAWSConfig(ctx context.Context, o options) (awsv2.Config, error) {
	var loadOpts []func(*config.LoadOptions) error
	if o.profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(o.profile))
	}
	if o.region != "" {
		loadOpts = append(loadOpts, config.WithRegion(o.region))
	}
	log.Debugf("loading aws config: profile=%s, region=%s", o.profile, o.region)
	return config.LoadDefaultConfig(ctx, loadOpts...)
}

func (s *s3Source) Fetch(ctx context.Context) ([]byte, error) {
	result, err := s.client.GetObject(ctx, &s3v2.GetObjectInput{
		Bucket: awsv2.String(s.bucket),
		Key:    awsv2.String(s.key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get S3 object: %w", err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read S3 object body: %w", err)
	}
	return data, nil
}

func (s *s3Source) String() string {
	return "s3://" + s.bucket + "/" + s.key
}
