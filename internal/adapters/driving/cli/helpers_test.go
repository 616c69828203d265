package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/brdify/internal/adapters/driven/render"
	"github.com/custodia-labs/brdify/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/brdify/internal/core/domain"
	"github.com/custodia-labs/brdify/internal/core/ports/driving"
	"github.com/custodia-labs/brdify/internal/core/services"
	"github.com/custodia-labs/brdify/internal/normalisers"
	"github.com/custodia-labs/brdify/internal/normalisers/markdown"
	"github.com/custodia-labs/brdify/internal/normalisers/plaintext"
	"github.com/custodia-labs/brdify/internal/postprocessors"
	"github.com/custodia-labs/brdify/internal/postprocessors/chunker"
	"github.com/custodia-labs/brdify/internal/postprocessors/cleaner"
)

const transcript = "Dana: we need SSO before the pilot.\nSam: agreed, we use Okta.\n"

const extraction = `{
	"requirements": [
		{"description": "Support SSO", "type": "functional", "priority": "high",
		 "sourceQuote": "we need SSO", "relatedDecisionIndex": 0}
	],
	"decisions": ["Use Okta"],
	"stakeholders": ["Dana: PM"],
	"risks": [],
	"timeline": []
}`

// fakeExtractor answers every chunk with the same extraction.
type fakeExtractor struct{}

func (fakeExtractor) Extract(_ context.Context, _ string, profile domain.TaskProfile) (string, error) {
	if profile == domain.ProfileSummary {
		return "Kick-off call about single sign-on.", nil
	}
	return extraction, nil
}

// setupTestServices installs in-memory services and returns a cleanup
// that removes them and resets flag state.
func setupTestServices() func() {
	registry := normalisers.NewRegistry(plaintext.New(), markdown.New())
	svc := services.NewBrdService(
		memory.NewBrdStore(),
		fakeExtractor{},
		postprocessors.NewPipeline(cleaner.New(), chunker.New()),
		registry,
		render.NewDefaultRegistry(),
	)

	brdService = svc
	ingestService = services.NewIngestService(svc, 2)
	settingsService = services.NewSettingsService(memory.NewConfigStore(), nil)
	fileFilter = registry

	return func() {
		brdService = nil
		ingestService = nil
		settingsService = nil
		fileFilter = nil
		resetFlags()
	}
}

func resetFlags() {
	jsonOutput = false
	createTitle = ""
	createType = ""
	updateFile = ""
	exportFormat = "markdown"
	exportOutput = ""
	recursive = false
	verbose = false
	quiet = false
}

// execute runs the root command with args and stdin, returning its output.
func execute(t *testing.T, stdin io.Reader, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(stdin)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		resetFlags()
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

// createSample stores a BRD through the service and returns its ID.
func createSample(t *testing.T) string {
	t.Helper()
	doc, err := brdService.Create(context.Background(), driving.CreateRequest{Content: transcript})
	require.NoError(t, err)
	return doc.ID
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func stdin(s string) io.Reader {
	return strings.NewReader(s)
}
