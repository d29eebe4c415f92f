package grammar

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/ruby"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"loupe/internal/lang"
	"loupe/internal/tree"
)

// grammars binds each wired language to its compiled tree-sitter grammar.
// Loading is a process-lifetime cost paid at adapter construction.
var grammars = map[lang.Language]func() *sitter.Language{
	lang.Python:     python.GetLanguage,
	lang.JavaScript: javascript.GetLanguage,
	lang.TypeScript: typescript.GetLanguage,
	lang.Ruby:       ruby.GetLanguage,
	lang.Java:       java.GetLanguage,
}

// kindTables is the fixed lookup from grammar node type tags to unified
// kinds, one table per language/dialect pair. Tags missing from a table
// degrade to Unknown but the nodes are still emitted.
var kindTables = map[lang.Language]map[string]tree.Kind{
	lang.Python: {
		"function_definition":    tree.KindFunction,
		"lambda":                 tree.KindFunction,
		"class_definition":       tree.KindClass,
		"if_statement":           tree.KindConditional,
		"conditional_expression": tree.KindConditional,
		"match_statement":        tree.KindConditional,
		"for_statement":          tree.KindLoop,
		"while_statement":        tree.KindLoop,
		"call":                   tree.KindCall,
		"return_statement":       tree.KindReturn,
		"import_statement":       tree.KindImport,
		"import_from_statement":  tree.KindImport,
		"try_statement":          tree.KindTry,
		"except_clause":          tree.KindCatch,
		"finally_clause":         tree.KindCatch,
		"raise_statement":        tree.KindThrow,
		"assignment":             tree.KindVariableBinding,
		"augmented_assignment":   tree.KindVariableBinding,
		"comment":                tree.KindComment,
	},
	lang.JavaScript: jsKinds,
	lang.TypeScript: jsKinds,
	lang.Ruby: {
		"method":           tree.KindMethod,
		"singleton_method": tree.KindMethod,
		"lambda":           tree.KindFunction,
		"block":            tree.KindUnknown,
		"class":            tree.KindClass,
		"module":           tree.KindClass,
		"if":               tree.KindConditional,
		"unless":           tree.KindConditional,
		"case":             tree.KindConditional,
		"while":            tree.KindLoop,
		"until":            tree.KindLoop,
		"for":              tree.KindLoop,
		"call":             tree.KindCall,
		"return":           tree.KindReturn,
		"begin":            tree.KindTry,
		"rescue":           tree.KindCatch,
		"ensure":           tree.KindCatch,
		"assignment":       tree.KindVariableBinding,
		"comment":          tree.KindComment,
	},
	lang.Java: {
		"method_declaration":         tree.KindMethod,
		"constructor_declaration":    tree.KindMethod,
		"lambda_expression":          tree.KindFunction,
		"class_declaration":          tree.KindClass,
		"interface_declaration":      tree.KindClass,
		"enum_declaration":           tree.KindClass,
		"record_declaration":         tree.KindClass,
		"if_statement":               tree.KindConditional,
		"switch_expression":          tree.KindConditional,
		"ternary_expression":         tree.KindConditional,
		"for_statement":              tree.KindLoop,
		"enhanced_for_statement":     tree.KindLoop,
		"while_statement":            tree.KindLoop,
		"do_statement":               tree.KindLoop,
		"method_invocation":          tree.KindCall,
		"object_creation_expression": tree.KindCall,
		"return_statement":           tree.KindReturn,
		"import_declaration":         tree.KindImport,
		"try_statement":              tree.KindTry,
		"catch_clause":               tree.KindCatch,
		"finally_clause":             tree.KindCatch,
		"throw_statement":            tree.KindThrow,
		"local_variable_declaration": tree.KindVariableBinding,
		"field_declaration":          tree.KindVariableBinding,
		"line_comment":               tree.KindComment,
		"block_comment":              tree.KindComment,
	},
}

// jsKinds is shared by the javascript grammar and the typescript dialect.
var jsKinds = map[string]tree.Kind{
	"function_declaration":           tree.KindFunction,
	"function_expression":            tree.KindFunction,
	"function":                       tree.KindFunction,
	"arrow_function":                 tree.KindFunction,
	"generator_function":             tree.KindFunction,
	"generator_function_declaration": tree.KindFunction,
	"method_definition":              tree.KindMethod,
	"class_declaration":              tree.KindClass,
	"class":                          tree.KindClass,
	"if_statement":                   tree.KindConditional,
	"switch_statement":               tree.KindConditional,
	"ternary_expression":             tree.KindConditional,
	"for_statement":                  tree.KindLoop,
	"for_in_statement":               tree.KindLoop,
	"while_statement":                tree.KindLoop,
	"do_statement":                   tree.KindLoop,
	"call_expression":                tree.KindCall,
	"new_expression":                 tree.KindCall,
	"return_statement":               tree.KindReturn,
	"import_statement":               tree.KindImport,
	"try_statement":                  tree.KindTry,
	"catch_clause":                   tree.KindCatch,
	"finally_clause":                 tree.KindCatch,
	"throw_statement":                tree.KindThrow,
	"variable_declaration":           tree.KindVariableBinding,
	"lexical_declaration":            tree.KindVariableBinding,
	"comment":                        tree.KindComment,
}
