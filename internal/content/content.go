// Package content enumerates existing posts in the blog's content tree.
package content

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"

	"github.com/yamori/draft/internal/scaffold"
)

// Post describes one existing content item.
type Post struct {
	Category scaffold.Category `json:"category"`
	Slug     string            `json:"slug"`
	Path     string            `json:"path"` // relative to the content root
	Title    string            `json:"title,omitempty"`
	Date     string            `json:"date,omitempty"`
	Draft    bool              `json:"draft,omitempty"`
}

// frontMatter holds the subset of Hugo front matter draft cares about.
type frontMatter struct {
	Title string `yaml:"title"`
	Date  string `yaml:"date"`
	Draft bool   `yaml:"draft"`
}

// ListPosts walks the content root for each category and returns the posts
// found, sorted by path. Categories whose directory does not exist yet are
// skipped silently.
func ListPosts(contentRoot string, categories []scaffold.Category) ([]Post, error) {
	var posts []Post

	for _, category := range categories {
		root := filepath.Join(contentRoot, category.PathRoot())
		info, err := os.Stat(root)
		if err != nil || !info.IsDir() {
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !strings.HasSuffix(d.Name(), ".md") {
				return nil
			}
			// Section pages are not posts.
			if d.Name() == "_index.md" {
				return nil
			}

			post, err := readPost(contentRoot, path, category)
			if err != nil {
				return err
			}
			posts = append(posts, post)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Slice(posts, func(i, j int) bool { return posts[i].Path < posts[j].Path })
	return posts, nil
}

// readPost builds a Post from one markdown file.
func readPost(contentRoot, path string, category scaffold.Category) (Post, error) {
	rel, err := filepath.Rel(contentRoot, path)
	if err != nil {
		return Post{}, err
	}

	post := Post{
		Category: category,
		Slug:     slugFor(path),
		Path:     filepath.ToSlash(rel),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Post{}, err
	}

	fm, body := splitFrontMatter(string(data))
	if fm != "" {
		var meta frontMatter
		// Malformed front matter degrades to the heading fallback.
		if yaml.Unmarshal([]byte(fm), &meta) == nil {
			post.Title = meta.Title
			post.Date = meta.Date
			post.Draft = meta.Draft
		}
	}
	if post.Title == "" {
		post.Title = firstHeading([]byte(body))
	}

	return post, nil
}

// slugFor derives the slug from the file location: page bundles (index.md)
// are named by their directory, standalone files by their base name.
func slugFor(path string) string {
	base := filepath.Base(path)
	if base == "index.md" {
		return filepath.Base(filepath.Dir(path))
	}
	return strings.TrimSuffix(base, ".md")
}

// splitFrontMatter separates a leading YAML front matter block ("---" fenced)
// from the markdown body. Returns ("", doc) when no block is present.
func splitFrontMatter(doc string) (fm, body string) {
	const fence = "---"

	// CRLF files keep their front matter too.
	doc = strings.ReplaceAll(doc, "\r\n", "\n")

	rest, ok := strings.CutPrefix(doc, fence+"\n")
	if !ok {
		return "", doc
	}

	idx := strings.Index(rest, "\n"+fence)
	if idx < 0 {
		return "", doc
	}

	fm = rest[:idx]
	body = rest[idx+len("\n"+fence):]
	body = strings.TrimPrefix(body, "\n")
	return fm, body
}

// firstHeading returns the text of the first markdown heading, or "".
func firstHeading(source []byte) string {
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(source))

	var title string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || title != "" {
			return ast.WalkContinue, nil
		}
		heading, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}

		var sb strings.Builder
		for c := heading.FirstChild(); c != nil; c = c.NextSibling() {
			if t, ok := c.(*ast.Text); ok {
				sb.Write(t.Segment.Value(source))
			}
		}
		title = strings.TrimSpace(sb.String())
		return ast.WalkStop, nil
	})
	return title
}
