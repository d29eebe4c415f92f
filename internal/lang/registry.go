package lang

import (
	"bytes"
	"path/filepath"
	"strings"
)

// Language is the tag an adapter parses a file as.
type Language string

const (
	Go         Language = "go"
	Python     Language = "python"
	JavaScript Language = "javascript"
	TypeScript Language = "typescript"
	Ruby       Language = "ruby"
	Java       Language = "java"
	YAML       Language = "yaml"
	TOML       Language = "toml"
	JSON       Language = "json"
	DotEnv     Language = "dotenv"

	// Unknown marks an unsupported file; it is silently excluded, not an error.
	Unknown Language = ""
)

// Family tells the engine which kind of analyzer handles a language.
type Family uint8

const (
	// FamilyReflective uses the host runtime's own parser (go/ast).
	FamilyReflective Family = iota
	// FamilyGrammar uses a compiled tree-sitter grammar.
	FamilyGrammar
	// FamilyDeclarative has no structural grammar wired in; files are fed to
	// line-oriented analyzers directly, bypassing the tree model.
	FamilyDeclarative
)

// Info describes one registered language.
type Info struct {
	Lang         Language
	Family       Family
	Extensions   []string
	LineComments []string
	BlockOpen    string
	BlockClose   string
}

// Registry maps files to languages. It is read-only after construction and
// safe to share across any number of concurrent file-processing goroutines.
type Registry struct {
	ordered []Info
	byLang  map[Language]Info
	byExt   map[string]Language
	byBase  map[string]Language
}

// NewRegistry builds the default registry covering every wired language.
func NewRegistry() *Registry {
	infos := []Info{
		{Lang: Go, Family: FamilyReflective, Extensions: []string{".go"},
			LineComments: []string{"//"}, BlockOpen: "/*", BlockClose: "*/"},
		{Lang: Python, Family: FamilyGrammar, Extensions: []string{".py", ".pyi"},
			LineComments: []string{"#"}},
		{Lang: JavaScript, Family: FamilyGrammar, Extensions: []string{".js", ".jsx", ".mjs", ".cjs"},
			LineComments: []string{"//"}, BlockOpen: "/*", BlockClose: "*/"},
		{Lang: TypeScript, Family: FamilyGrammar, Extensions: []string{".ts", ".tsx"},
			LineComments: []string{"//"}, BlockOpen: "/*", BlockClose: "*/"},
		{Lang: Ruby, Family: FamilyGrammar, Extensions: []string{".rb", ".rake"},
			LineComments: []string{"#"}},
		{Lang: Java, Family: FamilyGrammar, Extensions: []string{".java"},
			LineComments: []string{"//"}, BlockOpen: "/*", BlockClose: "*/"},
		{Lang: YAML, Family: FamilyDeclarative, Extensions: []string{".yaml", ".yml"},
			LineComments: []string{"#"}},
		{Lang: TOML, Family: FamilyDeclarative, Extensions: []string{".toml"},
			LineComments: []string{"#"}},
		{Lang: JSON, Family: FamilyDeclarative, Extensions: []string{".json"}},
		{Lang: DotEnv, Family: FamilyDeclarative, Extensions: []string{".env"},
			LineComments: []string{"#"}},
	}

	r := &Registry{
		ordered: infos,
		byLang:  make(map[Language]Info, len(infos)),
		byExt:   make(map[string]Language, len(infos)*2),
		byBase:  map[string]Language{".env": DotEnv},
	}
	for _, info := range infos {
		r.byLang[info.Lang] = info
		for _, ext := range info.Extensions {
			r.byExt[ext] = info.Lang
		}
	}
	return r
}

// Detect resolves a path, optionally sniffing content, into a Language.
// Unsupported files return Unknown.
func (r *Registry) Detect(path string, content []byte) Language {
	base := filepath.Base(path)
	if l, ok := r.byBase[base]; ok {
		return l
	}
	if l, ok := r.byExt[strings.ToLower(filepath.Ext(base))]; ok {
		return l
	}
	if l := detectShebang(content); l != Unknown {
		return l
	}
	return Unknown
}

func detectShebang(content []byte) Language {
	if !bytes.HasPrefix(content, []byte("#!")) {
		return Unknown
	}
	end := bytes.IndexByte(content, '\n')
	if end < 0 {
		end = len(content)
	}
	line := string(content[:end])
	switch {
	case strings.Contains(line, "python"):
		return Python
	case strings.Contains(line, "node"):
		return JavaScript
	case strings.Contains(line, "ruby"):
		return Ruby
	}
	return Unknown
}

// IsSupported reports whether the path maps to any registered language.
func (r *Registry) IsSupported(path string) bool {
	return r.Detect(path, nil) != Unknown
}

// Info returns the registration record for a language.
func (r *Registry) Info(l Language) (Info, bool) {
	info, ok := r.byLang[l]
	return info, ok
}

// Languages returns every registered language in registration order.
func (r *Registry) Languages() []Info {
	out := make([]Info, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// Globs returns the ordered set of file patterns discovery matches against.
func (r *Registry) Globs() []string {
	var out []string
	for _, info := range r.ordered {
		for _, ext := range info.Extensions {
			out = append(out, "*"+ext)
		}
	}
	return out
}
