package extract

import (
	"bytes"
	"fmt"
	"html"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"

	"github.com/okian/resumerank/internal/domain/model"
)

// Document is the result of extracting one file.
type Document struct {
	Text  string
	Links model.Links
}

// Extract reads data as ft. Text is trimmed; links come from PDF link
// annotations first and then from URLs in the text.
func Extract(ft FileType, data []byte) (Document, error) {
	var (
		text  string
		annot []string
		err   error
	)
	switch ft {
	case PDF:
		text, annot, err = readPDF(data)
	case DOCX:
		text, err = readDOCX(data)
	case TXT:
		text = readTXT(data)
	default:
		return Document{}, fmt.Errorf("%w: %q", ErrUnsupportedType, ft)
	}
	if err != nil {
		return Document{}, err
	}

	text = strings.TrimSpace(text)
	urls := append(annot, FindURLs(text)...)
	return Document{Text: text, Links: Classify(urls)}, nil
}

func readTXT(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	return strings.ToValidUTF8(string(data), string(utf8.RuneError))
}

func readPDF(data []byte) (text string, links []string, err error) {
	// The parser panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			text, links = "", nil
			err = fmt.Errorf("%w: pdf: %v", ErrUnreadable, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", nil, fmt.Errorf("%w: pdf: %w", ErrUnreadable, err)
	}

	pages := make([]string, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		links = append(links, pageLinks(page)...)
		t, _ := page.GetPlainText(nil)
		if t = strings.TrimSpace(t); t != "" {
			pages = append(pages, t)
		}
	}
	return strings.Join(pages, "\n"), links, nil
}

// pageLinks returns the URI targets of a page's link annotations.
func pageLinks(page pdf.Page) []string {
	annots := page.V.Key("Annots")
	var out []string
	for i := 0; i < annots.Len(); i++ {
		a := annots.Index(i)
		if a.Key("Subtype").Name() != "Link" {
			continue
		}
		if uri := strings.TrimSpace(a.Key("A").Key("URI").Text()); uri != "" {
			out = append(out, uri)
		}
	}
	return out
}

var (
	paragraphEnd = regexp.MustCompile(`</w:p>|<w:br[^>]*/>|<w:cr/>`)
	tabTag       = regexp.MustCompile(`<w:tab[^>]*/>`)
	anyTag       = regexp.MustCompile(`<[^>]*>`)
)

func readDOCX(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: docx: %w", ErrUnreadable, err)
	}
	defer doc.Close()

	xml := doc.Editable().GetContent()
	xml = paragraphEnd.ReplaceAllString(xml, "\n")
	xml = tabTag.ReplaceAllString(xml, "\t")
	return html.UnescapeString(anyTag.ReplaceAllString(xml, "")), nil
}

var profileURL = regexp.MustCompile(`(?i)(?:https?://)?(?:[a-z0-9-]+\.)*(?:linkedin|github)\.com/[^\s<>"'()\[\]]*`)

// FindURLs returns the LinkedIn and GitHub URLs mentioned in text.
func FindURLs(text string) []string {
	found := profileURL.FindAllString(text, -1)
	for i, u := range found {
		found[i] = strings.TrimRight(u, ".,;:")
	}
	return found
}

// Classify picks the first LinkedIn and the first GitHub URL from urls.
func Classify(urls []string) model.Links {
	var links model.Links
	for _, u := range urls {
		lower := strings.ToLower(u)
		switch {
		case links.LinkedIn == "" && strings.Contains(lower, "linkedin.com"):
			links.LinkedIn = u
		case links.GitHub == "" && strings.Contains(lower, "github.com"):
			links.GitHub = u
		}
	}
	return links
}
