package markdown

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// Renderer kinds accepted by NewRenderer.
const (
	RendererGoldmark = "goldmark"
	RendererPlain    = "plain"
)

// ErrUnknownRenderer is returned by NewRenderer for an unsupported kind.
var ErrUnknownRenderer = errors.New("unknown renderer")

// Renderer turns a Markdown post body into HTML.
type Renderer interface {
	Render(source string) (string, error)
	Name() string
}

// NewRenderer returns the renderer configured by kind. An empty kind
// selects goldmark.
func NewRenderer(kind string) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", RendererGoldmark:
		return NewGoldmarkRenderer(), nil
	case RendererPlain:
		return PlainRenderer{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownRenderer, kind)
	}
}

// RenderPost renders body with any heading that repeats title removed.
func RenderPost(r Renderer, body, title string) (string, error) {
	return r.Render(StripTitleIfMatches(body, title))
}

// GoldmarkRenderer renders GitHub-flavoured Markdown and sanitizes the
// resulting HTML.
type GoldmarkRenderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

var codeLanguage = regexp.MustCompile(`^language-[\w+#-]+$`)

func NewGoldmarkRenderer() *GoldmarkRenderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
			extension.DefinitionList,
			extension.Typographer,
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
			parser.WithAttribute(),
		),
	)

	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").Matching(codeLanguage).OnElements("code")

	return &GoldmarkRenderer{md: md, policy: policy}
}

func (r *GoldmarkRenderer) Name() string { return RendererGoldmark }

func (r *GoldmarkRenderer) Render(source string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return r.policy.Sanitize(buf.String()), nil
}

// PlainRenderer shows the Markdown source verbatim inside a <pre> block.
type PlainRenderer struct{}

var angleEscaper = strings.NewReplacer("<", "&lt;", ">", "&gt;")

func (PlainRenderer) Name() string { return RendererPlain }

func (PlainRenderer) Render(source string) (string, error) {
	return "<pre>" + angleEscaper.Replace(source) + "</pre>", nil
}
