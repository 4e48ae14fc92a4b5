package javasrc

import (
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"
)

// GrammarLoader owns the compiled tree-sitter grammars. Only the Java
// grammar is loaded; entity classification is Java-family semantics.
type GrammarLoader struct {
	languages map[string]*sitter.Language
}

func NewGrammarLoader() *GrammarLoader {
	return &GrammarLoader{
		languages: map[string]*sitter.Language{
			"java": sitter.NewLanguage(tree_sitter_java.Language()),
		},
	}
}

func (gl *GrammarLoader) Language(id string) (*sitter.Language, error) {
	lang := gl.languages[id]
	if lang == nil {
		return nil, fmt.Errorf("grammar not loaded: %s", id)
	}
	return lang, nil
}

// SupportedExtensions lists the file extensions the loader can parse.
func (gl *GrammarLoader) SupportedExtensions() []string {
	return []string{".java"}
}

// DetectLanguage maps a file path to a grammar id, "" when unsupported.
func DetectLanguage(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".java" {
		return "java"
	}
	return ""
}
