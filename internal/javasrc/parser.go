package javasrc

import (
	"errors"
	"time"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"gormwatch/internal/observability"
)

type Parser struct {
	loader *GrammarLoader
}

func NewParser(loader *GrammarLoader) *Parser {
	return &Parser{loader: loader}
}

// ParseFile parses one compilation unit and extracts its class model.
func (p *Parser) ParseFile(path string, content []byte) (*Unit, error) {
	lang := DetectLanguage(path)
	if lang == "" {
		return nil, errors.New("unsupported language")
	}

	grammar, err := p.loader.Language(lang)
	if err != nil {
		return nil, err
	}

	start := time.Now()

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(grammar)

	tree := parser.Parse(content, nil)
	if tree == nil {
		return nil, errors.New("parse failed")
	}
	defer tree.Close()

	unit, err := ExtractUnit(tree.RootNode(), content, path)
	if err != nil {
		return nil, err
	}

	observability.ParseDuration.WithLabelValues(lang).Observe(time.Since(start).Seconds())
	return unit, nil
}
