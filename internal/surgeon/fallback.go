package surgeon

import (
	"go/parser"
	"go/token"
	"strings"

	"github.com/lesleslie/recast/internal/types"
)

// CommentSurgeon is the fallback backend. It implements no structural
// rewrite at all: CanHandle always declines, so a match reaching only this
// surgeon produces a clean "no surgeon could handle this" outcome instead
// of a crash. It exists as the extension seam for auxiliary text work such
// as comment harvesting.
type CommentSurgeon struct{}

func NewCommentSurgeon() *CommentSurgeon { return &CommentSurgeon{} }

func (s *CommentSurgeon) Name() string { return "comment_surgeon" }

func (s *CommentSurgeon) CanHandle(_ *types.PatternMatch) bool { return false }

func (s *CommentSurgeon) Apply(_ []byte, m *types.PatternMatch) types.TransformResult {
	return types.Failure(s.Name(), "comment surgeon does not rewrite structural patterns (pattern %q)", m.PatternName)
}

// HarvestComments collects every comment's text from a source unit. This
// is the auxiliary capability the seam is kept for.
func (s *CommentSurgeon) HarvestComments(src []byte) ([]string, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "", src, parser.ParseComments)
	if err != nil {
		return nil, err
	}

	var comments []string
	for _, group := range file.Comments {
		for _, c := range group.List {
			text := strings.TrimSpace(strings.TrimPrefix(c.Text, "//"))
			text = strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(text, "/*"), "*/"))
			if text != "" {
				comments = append(comments, text)
			}
		}
	}
	return comments, nil
}
