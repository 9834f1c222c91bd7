package conf

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"goa.design/clue/log"
)

// LoadAwsConfig loads the default credential chain for region and routes
// SDK logging through clue.
func LoadAwsConfig(ctx context.Context, region string) (aws.Config, error) {
	ctx = log.Context(ctx, log.WithFormat(log.FormatJSON))
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(region),
		config.WithLogger(log.AsAWSLogger(ctx)))
	if err != nil {
		return aws.Config{}, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}
	return cfg, nil
}
