// Package render turns chat replies written in markdown into HTML for the UI.
package render

import (
	"bytes"
	"fmt"

	"figma-gpt/internal/settings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// Renderer converts markdown to HTML. Raw HTML in the input is not passed
// through.
type Renderer struct {
	md goldmark.Markdown
}

// CodeBlock is a fenced code block found in a message.
type CodeBlock struct {
	Language string `json:"language"`
	Code     string `json:"code"`
}

// RenderedMessage is a chat message with its HTML form.
type RenderedMessage struct {
	Role       settings.Role `json:"role"`
	Content    string        `json:"content"`
	HTML       string        `json:"html"`
	CodeBlocks []CodeBlock   `json:"codeBlocks"`
}

// NewRenderer creates a Renderer with GitHub flavoured markdown enabled.
func NewRenderer() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.Typographer,
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
		),
	}
}

// Render converts markdown source to HTML.
func (r *Renderer) Render(source string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return buf.String(), nil
}

// CodeBlocks returns the fenced code blocks of source in document order.
func (r *Renderer) CodeBlocks(source string) []CodeBlock {
	content := []byte(source)
	doc := r.md.Parser().Parse(text.NewReader(content))

	blocks := []CodeBlock{}
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fenced, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}

		var code bytes.Buffer
		lines := fenced.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			code.Write(seg.Value(content))
		}
		blocks = append(blocks, CodeBlock{
			Language: string(fenced.Language(content)),
			Code:     code.String(),
		})
		return ast.WalkSkipChildren, nil
	})
	return blocks
}

// RenderMessages renders every message of a conversation. User messages
// are rendered too so the UI can show them with the same styling.
func (r *Renderer) RenderMessages(messages []settings.ChatMessage) ([]RenderedMessage, error) {
	out := make([]RenderedMessage, 0, len(messages))
	for i, m := range messages {
		html, err := r.Render(m.Content)
		if err != nil {
			return nil, fmt.Errorf("message %d: %w", i, err)
		}
		out = append(out, RenderedMessage{
			Role:       m.Role,
			Content:    m.Content,
			HTML:       html,
			CodeBlocks: r.CodeBlocks(m.Content),
		})
	}
	return out, nil
}
