package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/rs/zerolog/log"
	"punchclock.service/internal/config"
)

// NewAWSConfig loads the SDK configuration shared by the SQS and SES clients.
// In local development every service is routed to AWS_ENDPOINT (LocalStack)
// with static dummy credentials; otherwise the default credential chain applies.
func NewAWSConfig(ctx context.Context, appConfig config.Config) (aws.Config, error) {
	opts := []func(*awsConfig.LoadOptions) error{
		awsConfig.WithRegion(appConfig.AWSRegion),
	}

	if appConfig.IsLocalDev && appConfig.AWSEndpoint != "" {
		log.Info().Str("endpoint", appConfig.AWSEndpoint).Msg("Routing AWS calls to LocalStack")
		opts = append(opts,
			awsConfig.WithBaseEndpoint(appConfig.AWSEndpoint),
			awsConfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("test", "test", "")),
		)
	}

	cfg, err := awsConfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("loading AWS config for %s: %w", appConfig.AWSRegion, err)
	}
	return cfg, nil
}
