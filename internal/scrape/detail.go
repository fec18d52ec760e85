package scrape

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jonathan/forum-insights/internal/types"
)

const (
	// MaxMessagesPerThread caps how many messages of a thread are processed.
	MaxMessagesPerThread = 10
	// MaxMessageTextChars caps the plain text extracted per message.
	MaxMessageTextChars = 1000
	// MaxHTMLContentChars bounds the preserved raw HTML of the primary
	// message. Large enough for downstream image-URL mining, small enough to
	// bound memory and storage.
	MaxHTMLContentChars = 25000
	// MaxExcerptChars is the excerpt length bound.
	MaxExcerptChars = 500
	// maxReplyExcerpts is the number of reply excerpts appended when the
	// thread has no accepted solution.
	maxReplyExcerpts = 2
	// replyExcerptChars is the per-reply excerpt length.
	replyExcerptChars = 200

	fallbackContent = "Content not available"
	fallbackTitle   = "No title"
)

// message is one extracted forum message within a thread.
type message struct {
	html       string
	text       string
	author     string
	timestamp  string
	isSolution bool
}

// ParseDetail extracts a full post record from a detail page. A structural
// mismatch degrades through fallback content extraction and still yields a
// record; only an unreadable document or a panic during extraction returns an
// error, in which case the caller drops this post and continues the batch.
func ParseDetail(htmlContent, urlStr string, sel *Selectors) (record *types.PostRecord, err error) {
	defer func() {
		if r := recover(); r != nil {
			record = nil
			err = &DetailError{URL: urlStr, Message: fmt.Sprintf("panic during extraction: %v", r)}
		}
	}()

	if sel == nil {
		sel = DefaultSelectors()
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, &DetailError{URL: urlStr, Message: "failed to parse HTML", Cause: err}
	}

	title := extractTitle(doc)
	messages := extractMessages(doc, sel)

	if len(messages) == 0 {
		return fallbackRecord(doc, sel, title, urlStr), nil
	}

	first := messages[0]
	content := first.text

	solutionPos := -1
	for i := 1; i < len(messages); i++ {
		if messages[i].isSolution {
			solutionPos = i
			break
		}
	}

	if solutionPos > 0 {
		solution := messages[solutionPos]
		author := solution.author
		if author == "" {
			author = "unknown"
		}
		content += fmt.Sprintf("\n\n[SOLUTION by %s]: %s", author, solution.text)
	} else if len(messages) > 1 {
		content += "\n\n[REPLIES]:"
		for i := 1; i < len(messages) && i <= maxReplyExcerpts; i++ {
			content += "\n- " + truncate(messages[i].text, replyExcerptChars)
		}
	}

	return &types.PostRecord{
		Title:       title,
		Content:     content,
		HTMLContent: truncate(first.html, MaxHTMLContentChars),
		Author:      first.author,
		URL:         urlStr,
		Excerpt:     truncate(content, MaxExcerptChars),
		Date:        first.timestamp,
		Category:    "",
		Thread: types.ThreadData{
			TotalReplies:        len(messages) - 1,
			HasAcceptedSolution: solutionPos > 0,
			SolutionPosition:    solutionPos,
			Participants:        participants(messages),
		},
	}, nil
}

// extractTitle resolves the post title: og:title meta first, then the page
// <title> with any " - <suffix>" trimmed, then a placeholder.
func extractTitle(doc *goquery.Document) string {
	if og, ok := doc.Find("meta[property='og:title']").Attr("content"); ok {
		if title := strings.TrimSpace(og); title != "" {
			return title
		}
	}

	pageTitle := strings.TrimSpace(doc.Find("title").First().Text())
	if pageTitle != "" {
		if before, _, found := strings.Cut(pageTitle, " - "); found {
			pageTitle = strings.TrimSpace(before)
		}
		if pageTitle != "" {
			return pageTitle
		}
	}

	return fallbackTitle
}

// extractMessages finds the thread's message containers and extracts each one,
// ordering preserved (first message = original post). The container chain is
// tried first, then a scan for elements with the dynamic id prefix, then the
// bare message-body selector.
func extractMessages(doc *goquery.Document, sel *Selectors) []message {
	var containers *goquery.Selection
	for _, pattern := range sel.Message {
		if found := doc.Find(pattern); found.Length() > 0 {
			containers = found
			break
		}
	}
	if containers == nil && sel.MessageIDPrefix != "" {
		if found := doc.Find(fmt.Sprintf("[id^='%s']", sel.MessageIDPrefix)); found.Length() > 0 {
			containers = found
		}
	}
	if containers == nil && sel.MessageBody != "" {
		if found := doc.Find(sel.MessageBody); found.Length() > 0 {
			containers = found
		}
	}
	if containers == nil {
		return nil
	}

	messages := make([]message, 0, MaxMessagesPerThread)
	containers.EachWithBreak(func(_ int, container *goquery.Selection) bool {
		if len(messages) >= MaxMessagesPerThread {
			return false
		}
		messages = append(messages, extractMessage(container, sel))
		return true
	})
	return messages
}

// extractMessage pulls body HTML, plain text, author, timestamp, and the
// solution marker out of one message container.
func extractMessage(container *goquery.Selection, sel *Selectors) message {
	body := container
	for _, pattern := range sel.Body {
		if found := container.Find(pattern); found.Length() > 0 {
			body = found.First()
			break
		}
	}

	bodyHTML, err := body.Html()
	if err != nil {
		bodyHTML = ""
	}

	msg := message{
		html: bodyHTML,
		text: truncate(cleanText(body.Text()), MaxMessageTextChars),
	}

	for _, pattern := range sel.Solution {
		if container.Find(pattern).Length() > 0 || container.Is(pattern) {
			msg.isSolution = true
			break
		}
	}

	for _, pattern := range sel.Author {
		if found := container.Find(pattern); found.Length() > 0 {
			if author := strings.TrimSpace(found.First().Text()); author != "" {
				msg.author = author
				break
			}
		}
	}

	for _, pattern := range sel.Timestamp {
		if found := container.Find(pattern); found.Length() > 0 {
			el := found.First()
			if dt, ok := el.Attr("datetime"); ok && strings.TrimSpace(dt) != "" {
				msg.timestamp = strings.TrimSpace(dt)
				break
			}
			if ts := strings.TrimSpace(el.Text()); ts != "" {
				msg.timestamp = ts
				break
			}
		}
	}

	return msg
}

// participants returns the deduplicated author names across the processed
// messages, first-seen order preserved.
func participants(messages []message) []string {
	seen := make(map[string]bool)
	names := make([]string, 0, len(messages))
	for _, msg := range messages {
		if msg.author == "" || seen[msg.author] {
			continue
		}
		seen[msg.author] = true
		names = append(names, msg.author)
	}
	return names
}

// fallbackRecord builds a record when no structured messages were found:
// a single content block via the legacy selectors, then the meta description,
// then a placeholder. The record is still valid output, never nil.
func fallbackRecord(doc *goquery.Document, sel *Selectors, title, urlStr string) *types.PostRecord {
	content := ""
	htmlContent := ""
	author := ""

	for _, pattern := range sel.LegacyContent {
		if found := doc.Find(pattern); found.Length() > 0 {
			block := found.First()
			content = truncate(cleanText(block.Text()), MaxMessageTextChars)
			if blockHTML, err := block.Html(); err == nil {
				htmlContent = truncate(blockHTML, MaxHTMLContentChars)
			}
			break
		}
	}

	if content == "" {
		if desc, ok := doc.Find("meta[name='description']").Attr("content"); ok {
			content = strings.TrimSpace(desc)
		}
	}
	if content == "" {
		content = fallbackContent
	}

	for _, pattern := range sel.Author {
		if found := doc.Find(pattern); found.Length() > 0 {
			if name := strings.TrimSpace(found.First().Text()); name != "" {
				author = name
				break
			}
		}
	}

	var names []string
	if author != "" {
		names = []string{author}
	}

	return &types.PostRecord{
		Title:       title,
		Content:     content,
		HTMLContent: htmlContent,
		Author:      author,
		URL:         urlStr,
		Excerpt:     truncate(content, MaxExcerptChars),
		Thread: types.ThreadData{
			TotalReplies:     0,
			SolutionPosition: -1,
			Participants:     names,
		},
	}
}
