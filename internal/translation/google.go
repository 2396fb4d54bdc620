package translation

import (
	"context"
	"fmt"
	"html"

	"cloud.google.com/go/translate"
	"google.golang.org/api/option"

	"github.com/obiente/translate/govoice/internal/lang"
)

// GoogleCloud is Google Cloud Translation (v2). The client is created once
// and shared by all requests.
type GoogleCloud struct {
	client *translate.Client
}

// NewGoogleCloud creates the client; credentialsFile may be empty to use
// application default credentials.
func NewGoogleCloud(ctx context.Context, credentialsFile string) (*GoogleCloud, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	c, err := translate.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("google translate client: %w", err)
	}
	return &GoogleCloud{client: c}, nil
}

func (g *GoogleCloud) Name() string { return "google" }

func (g *GoogleCloud) Translate(ctx context.Context, text, source, target string) (string, error) {
	tgt, err := lang.Parse(target)
	if err != nil {
		return "", err
	}
	opts := &translate.Options{Format: translate.Text}
	if src, err := lang.Parse(source); err == nil {
		opts.Source = lang.Tag(src)
	}
	out, err := g.client.Translate(ctx, []string{text}, lang.Tag(tgt), opts)
	if err != nil {
		return "", fmt.Errorf("google translate: %w", err)
	}
	if len(out) == 0 {
		return "", fmt.Errorf("google translate: no translation returned")
	}
	return html.UnescapeString(out[0].Text), nil
}

func (g *GoogleCloud) Close() error {
	return g.client.Close()
}
