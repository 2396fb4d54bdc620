package translation

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/translate"
)

// Amazon is Amazon Translate using the default AWS credential chain.
type Amazon struct {
	client *translate.Client
}

func NewAmazon(ctx context.Context, region string) (*Amazon, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &Amazon{client: translate.NewFromConfig(cfg)}, nil
}

func (a *Amazon) Name() string { return "aws" }

func (a *Amazon) Translate(ctx context.Context, text, source, target string) (string, error) {
	if source == "" {
		source = "auto"
	}
	out, err := a.client.TranslateText(ctx, &translate.TranslateTextInput{
		Text:               aws.String(text),
		SourceLanguageCode: aws.String(source),
		TargetLanguageCode: aws.String(target),
	})
	if err != nil {
		return "", fmt.Errorf("amazon translate: %w", err)
	}
	return aws.ToString(out.TranslatedText), nil
}
